package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gem-auction/internal/realtime"
	"gem-auction/utils"

	"github.com/joho/godotenv"
)

// Store backends accepted by STORE
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// DevJWTSecret signs tokens outside production when JWT_SECRET is unset
const DevJWTSecret = "gem-auction-dev-secret"

// Config holds runtime settings for the server and the terminal client
type Config struct {
	Env         string
	Port        string
	Store       string
	DatabaseURL string
	JWTSecret   string
	TokenTTL    time.Duration
	LogLevel    string
	APIBaseURL  string
	EventBuffer int
	SeedData    bool
	CORSOrigins []string
}

// Load reads .env files when present, then the environment. Missing values fall back to defaults.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		utils.Debug("config: no .env file loaded, using environment", map[string]any{"error": err.Error()})
	}

	cfg := Config{
		Env:         getEnv("ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		Store:       strings.ToLower(getEnv("STORE", StoreMemory)),
		DatabaseURL: getEnv("DATABASE_URL", "file:gem-auction.db?_pragma=busy_timeout(5000)"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		TokenTTL:    getEnvDuration("TOKEN_TTL", 72*time.Hour),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		APIBaseURL:  getEnv("API_BASE_URL", "http://localhost:8080"),
		EventBuffer: getEnvInt("EVENT_BUFFER", realtime.DefaultBuffer),
		SeedData:    getEnvBool("SEED_DATA", true),
		CORSOrigins: getEnvList("CORS_ORIGINS"),
	}
	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = DevJWTSecret
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the server cannot start with
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreSQLite, StorePostgres:
	default:
		return fmt.Errorf("config: unsupported STORE %q", c.Store)
	}
	if c.Store == StorePostgres && !strings.HasPrefix(c.DatabaseURL, "postgres") {
		return fmt.Errorf("config: STORE=postgres needs a postgres:// DATABASE_URL")
	}
	if c.IsProduction() && c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is required in production")
	}
	if c.EventBuffer <= 0 {
		return fmt.Errorf("config: EVENT_BUFFER must be positive")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Addr is the listen address for the HTTP server
func (c Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		utils.Warn("config: invalid integer, using default", map[string]any{"key": key, "value": v})
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		utils.Warn("config: invalid boolean, using default", map[string]any{"key": key, "value": v})
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		utils.Warn("config: invalid duration, using default", map[string]any{"key": key, "value": v})
		return fallback
	}
	return d
}

// getEnvList splits a comma separated value, dropping blanks
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
