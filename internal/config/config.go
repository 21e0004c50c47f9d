package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is the development-only signing secret used when
// JWT_SECRET is unset. Load refuses it when APP_ENV is production.
const DefaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	JWTSecret   string
	CORSOrigins []string
	Log         LogConfig
	AI          AIConfig

	// TrustProxyHeaders makes client IPs come from X-Forwarded-For and
	// CF-Connecting-IP instead of the socket address.
	TrustProxyHeaders bool
}

type LogConfig struct {
	Level  string
	Format string
}

type AIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  int
	ParsePolicy string
}

// Enabled reports whether a provider key is configured.
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

// IsMongo reports whether DatabaseURL points at a MongoDB deployment rather
// than a SQLite file.
func (c Config) IsMongo() bool {
	return strings.HasPrefix(c.DatabaseURL, "mongodb://") || strings.HasPrefix(c.DatabaseURL, "mongodb+srv://")
}

// Load reads the given dotenv files (".env" when none are passed), then the
// process environment, and validates the result. Variables already present
// in the environment are never overwritten by dotenv files, and a missing
// dotenv file is not an error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	timeout, err := getEnvDuration("AI_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	retries, err := getEnvInt("AI_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, err
	}
	trustProxy, err := getEnvBool("TRUST_PROXY_HEADERS", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:        getEnv("PORT", "3001"),
		Env:         getEnv("APP_ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", getEnv("MONGODB_URI", "fitcoach.db")),
		JWTSecret:   getEnv("JWT_SECRET", DefaultJWTSecret),
		CORSOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		AI: AIConfig{
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Model:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			BaseURL:     getEnv("GEMINI_BASE_URL", ""),
			Timeout:     timeout,
			MaxRetries:  retries,
			ParsePolicy: strings.ToLower(getEnv("AI_PARSE_POLICY", "lenient")),
		},
		TrustProxyHeaders: trustProxy,
	}

	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT must not be empty")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must not be empty")
	}
	if cfg.Env == "production" && cfg.JWTSecret == DefaultJWTSecret {
		return Config{}, fmt.Errorf("JWT_SECRET must be set in production")
	}
	if cfg.AI.Timeout <= 0 {
		return Config{}, fmt.Errorf("AI_TIMEOUT must be > 0")
	}
	if cfg.AI.MaxRetries < 0 {
		return Config{}, fmt.Errorf("AI_MAX_RETRIES must be >= 0")
	}
	switch cfg.AI.ParsePolicy {
	case "lenient", "strict":
	default:
		return Config{}, fmt.Errorf("AI_PARSE_POLICY must be lenient or strict, got %q", cfg.AI.ParsePolicy)
	}
	if len(cfg.CORSOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS must not be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}

func getEnvInt(key string, fallback int) (int, error) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, val)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, val)
	}
	return b, nil
}

// getEnvDuration accepts Go duration strings ("45s") or a bare number of
// seconds ("45").
func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback, nil
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d, nil
	}
	if n, err := strconv.Atoi(val); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return 0, fmt.Errorf("%s: invalid duration %q", key, val)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
