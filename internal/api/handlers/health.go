package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"os/exec"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports liveness and readiness. Readiness covers everything
// an upload needs end to end: the database, redis, the ffmpeg binary, and a
// writable spool directory. Checks whose dependency is not configured are
// skipped rather than reported.
type HealthHandler struct {
	db       *pgxpool.Pool
	redis    *redis.Client
	ffmpeg   string
	spoolDir string
}

func NewHealthHandler(db *pgxpool.Pool, rdb *redis.Client, ffmpegPath, spoolDir string) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb, ffmpeg: ffmpegPath, spoolDir: spoolDir}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	ready := true

	report := func(name string, err error) {
		if err != nil {
			checks[name] = "unhealthy: " + err.Error()
			ready = false
			return
		}
		checks[name] = "ok"
	}

	if h.db != nil {
		report("database", h.db.Ping(r.Context()))
	}
	if h.redis != nil {
		report("redis", h.redis.Ping(r.Context()).Err())
	}
	if h.ffmpeg != "" {
		_, err := exec.LookPath(h.ffmpeg)
		report("ffmpeg", err)
	}
	if h.spoolDir != "" {
		report("spool_dir", checkWritable(h.spoolDir))
	}

	status := http.StatusOK
	overall := "ok"
	if !ready {
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	}
	writeJSON(w, status, map[string]interface{}{"status": overall, "checks": checks})
}

// checkWritable proves the directory exists and accepts new files, the two
// things the upload handler needs before it can spool a video.
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".ready-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// writeJSON is the package-wide response writer.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
