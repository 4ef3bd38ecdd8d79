package api

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/clipbrief/clipbrief/internal/account"
	"github.com/clipbrief/clipbrief/internal/api/handlers"
	"github.com/clipbrief/clipbrief/internal/api/middleware"
	"github.com/clipbrief/clipbrief/internal/auth"
	"github.com/clipbrief/clipbrief/internal/cache"
	"github.com/clipbrief/clipbrief/internal/config"
	"github.com/clipbrief/clipbrief/internal/llm"
	"github.com/clipbrief/clipbrief/internal/queue"
	"github.com/clipbrief/clipbrief/internal/quota"
	"github.com/clipbrief/clipbrief/internal/summarize"
	"github.com/clipbrief/clipbrief/internal/uploads"
)

// Router wires every request-facing dependency once at startup; no
// process-wide singletons.
type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	workDir := rt.cfg.Media.WorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}
	spoolDir := filepath.Join(workDir, "clipbrief-spool")

	health := handlers.NewHealthHandler(rt.db, rt.redis, rt.cfg.Media.FFmpegPath, spoolDir)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Services
	store := quota.NewPGStore(rt.db)
	gate := quota.NewGate(store, cache.New(rt.redis), rt.cfg.Quota.FreeUploadLimit)
	accounts := account.NewService(rt.db)
	uploadSvc := uploads.NewService(rt.db)
	queueClient := queue.NewClient(rt.cfg.Redis)
	summarizer := summarize.New(llm.NewFromConfig(rt.cfg.LLM), rt.cfg.Summarize.ChunkChars)

	tokens := auth.NewTokenIssuer(rt.cfg.Auth.JWTSecret, time.Duration(rt.cfg.Auth.TokenTTLHours)*time.Hour)
	identify := auth.NewMiddleware(tokens, store, rt.cfg.Auth.CookieName)

	authH := handlers.NewAuthHandler(accounts, tokens, rt.cfg.Auth.CookieName)
	videoH := handlers.NewVideoHandler(uploadSvc, gate, queueClient, spoolDir)
	summaryH := handlers.NewSummaryHandler(summarizer, uploadSvc)
	quotaH := handlers.NewQuotaHandler(gate)

	r.Route("/api/v1", func(r chi.Router) {
		// Every request gets an identity: account token if present,
		// visitor cookie/fingerprint otherwise.
		r.Use(identify.Identify)

		r.Post("/auth/signup", authH.Signup)
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/logout", authH.Logout)
		r.With(identify.RequireAccount).Get("/me", authH.Me)

		r.Get("/quota", quotaH.Status)

		r.Route("/videos", func(r chi.Router) {
			r.Post("/", videoH.Upload)
			r.Get("/", videoH.List)
			r.Get("/{id}", videoH.Get)
		})

		r.Post("/summaries", summaryH.Create)
	})

	return r
}
