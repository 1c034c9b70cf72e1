package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	LLM      LLMConfig
}

type AppConfig struct {
	Environment     string
	HTTPPort        string
	AllowOrigins    []string
	DisplayTimezone *time.Location
}

type DatabaseConfig struct {
	Driver string
	DSN    string
}

type RedisConfig struct {
	Addr     string
	Password string
}

type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
}

type LLMConfig struct {
	GeminiAPIKey string
	Model        string
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variable")
)

// LoadDotEnv reads .env into the process environment. A missing file is fine.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		App: AppConfig{
			Environment: opt("APP_ENV", "development"),
			HTTPPort:    opt("HTTP_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Driver: opt("STORE_DRIVER", StoreDriverPostgres),
		},
		Redis: RedisConfig{
			Addr:     opt("REDIS_ADDR", "localhost:6379"),
			Password: opt("REDIS_PASSWORD", ""),
		},
		Auth: AuthConfig{
			JWTSecret: req("AUTH_JWT_SECRET"),
		},
		LLM: LLMConfig{
			GeminiAPIKey: opt("GEMINI_API_KEY", ""),
			Model:        opt("GEMINI_MODEL", "gemini-2.5-flash"),
		},
	}

	switch cfg.Database.Driver {
	case StoreDriverPostgres:
		cfg.Database.DSN = req("DATABASE_DSN")
	case StoreDriverMemory:
	default:
		return Config{}, fmt.Errorf("%w: STORE_DRIVER=%q", errInvalidEnv, cfg.Database.Driver)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	for _, o := range strings.Split(opt("CORS_ALLOW_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.App.AllowOrigins = append(cfg.App.AllowOrigins, o)
		}
	}

	loc, err := time.LoadLocation(opt("DISPLAY_TIMEZONE", "UTC"))
	if err != nil {
		return Config{}, fmt.Errorf("%w: DISPLAY_TIMEZONE: %v", errInvalidEnv, err)
	}
	cfg.App.DisplayTimezone = loc

	ttl, err := time.ParseDuration(opt("SESSION_TTL", "720h"))
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("%w: SESSION_TTL=%q", errInvalidEnv, getenv("SESSION_TTL"))
	}
	cfg.Auth.SessionTTL = ttl

	return cfg, nil
}
