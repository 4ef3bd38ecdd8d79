package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Media      MediaConfig
	STT        STTConfig
	LLM        LLMConfig
	Summarize  SummarizeConfig
	Transcribe TranscribeConfig
	Quota      QuotaConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int
	MinConns       int
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int
	CookieName    string
}

type MediaConfig struct {
	FFmpegPath string
	WorkDir    string // parent for per-request scratch dirs; empty = os.TempDir
}

type STTConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type LLMConfig struct {
	Provider       string // "openai" or "anthropic"; empty = inferred from key shape
	APIKey         string
	Model          string
	Temperature    float64
	MaxTokens      int
	TimeoutSeconds int
}

type SummarizeConfig struct {
	ChunkChars int
}

type TranscribeConfig struct {
	SegmentSeconds int
	MaxChars       int
}

type QuotaConfig struct {
	FreeUploadLimit int
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	tokenTTL, err := getEnvInt("AUTH_TOKEN_TTL_HOURS", 72)
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_TOKEN_TTL_HOURS: %w", err)
	}

	segmentSeconds, err := getEnvInt("SEGMENT_SECONDS", 600)
	if err != nil {
		return nil, fmt.Errorf("invalid SEGMENT_SECONDS: %w", err)
	}

	transcriptMax, err := getEnvInt("TRANSCRIPT_MAX_CHARS", 200000)
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSCRIPT_MAX_CHARS: %w", err)
	}

	summaryChunk, err := getEnvInt("SUMMARY_CHUNK_CHARS", 12000)
	if err != nil {
		return nil, fmt.Errorf("invalid SUMMARY_CHUNK_CHARS: %w", err)
	}

	llmTimeout, err := getEnvInt("LLM_TIMEOUT_SECONDS", 90)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TIMEOUT_SECONDS: %w", err)
	}

	llmMaxTokens, err := getEnvInt("LLM_MAX_TOKENS", 1024)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_MAX_TOKENS: %w", err)
	}

	freeLimit, err := getEnvInt("FREE_UPLOAD_LIMIT", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid FREE_UPLOAD_LIMIT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConns:       maxConns,
			MinConns:       minConns,
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("AUTH_JWT_SECRET", ""),
			TokenTTLHours: tokenTTL,
			CookieName:    getEnv("AUTH_COOKIE_NAME", "clipbrief_session"),
		},
		Media: MediaConfig{
			FFmpegPath: getEnv("FFMPEG_PATH", "ffmpeg"),
			WorkDir:    getEnv("MEDIA_WORK_DIR", ""),
		},
		STT: STTConfig{
			APIKey:  getEnv("STT_API_KEY", os.Getenv("OPENAI_API_KEY")),
			BaseURL: getEnv("STT_BASE_URL", ""),
			Model:   getEnv("STT_MODEL", "whisper-1"),
		},
		LLM: LLMConfig{
			Provider:       getEnv("LLM_PROVIDER", ""),
			APIKey:         getEnv("LLM_API_KEY", os.Getenv("OPENAI_API_KEY")),
			Model:          getEnv("LLM_MODEL", "gpt-4o-mini"),
			Temperature:    0.3,
			MaxTokens:      llmMaxTokens,
			TimeoutSeconds: llmTimeout,
		},
		Summarize: SummarizeConfig{
			ChunkChars: summaryChunk,
		},
		Transcribe: TranscribeConfig{
			SegmentSeconds: segmentSeconds,
			MaxChars:       transcriptMax,
		},
		Quota: QuotaConfig{
			FreeUploadLimit: freeLimit,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "AUTH_JWT_SECRET")
	}
	if c.STT.APIKey == "" {
		missing = append(missing, "STT_API_KEY")
	}
	if c.LLM.APIKey == "" {
		missing = append(missing, "LLM_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
