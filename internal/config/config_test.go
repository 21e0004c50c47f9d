package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configVars = []string{
	"PORT", "APP_ENV", "DATABASE_URL", "MONGODB_URI", "JWT_SECRET",
	"CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_FORMAT",
	"GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL",
	"AI_TIMEOUT", "AI_MAX_RETRIES", "AI_PARSE_POLICY", "TRUST_PROXY_HEADERS",
}

// clearEnv unsets every variable Load reads. t.Setenv restores the
// previous values when the test ends.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	expected := Config{
		Port:        "3001",
		Env:         "development",
		DatabaseURL: "fitcoach.db",
		JWTSecret:   DefaultJWTSecret,
		CORSOrigins: []string{"*"},
		Log:         LogConfig{Level: "info", Format: "text"},
		AI: AIConfig{
			Model:       "gemini-2.5-flash",
			Timeout:     30 * time.Second,
			MaxRetries:  1,
			ParsePolicy: "lenient",
		},
	}
	assert.Empty(t, cmp.Diff(expected, cfg))
	assert.False(t, cfg.AI.Enabled())
	assert.False(t, cfg.IsMongo())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "/var/lib/fitcoach/data.db")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, https://fit.example.com")
	t.Setenv("GEMINI_API_KEY", "key-123")
	t.Setenv("AI_TIMEOUT", "45")
	t.Setenv("AI_MAX_RETRIES", "0")
	t.Setenv("AI_PARSE_POLICY", "STRICT")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "/var/lib/fitcoach/data.db", cfg.DatabaseURL)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, []string{"http://localhost:5173", "https://fit.example.com"}, cfg.CORSOrigins)
	assert.True(t, cfg.AI.Enabled())
	assert.Equal(t, 45*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 0, cfg.AI.MaxRetries)
	assert.Equal(t, "strict", cfg.AI.ParsePolicy)
	assert.True(t, cfg.TrustProxyHeaders)
}

func TestLoadMongoURIFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017/ai-fitness-coach")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017/ai-fitness-coach", cfg.DatabaseURL)
	assert.True(t, cfg.IsMongo())
}

func TestLoadDatabaseURLWinsOverMongoURI(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "local.db")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017/ai-fitness-coach")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "local.db", cfg.DatabaseURL)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "5000")
	os.Unsetenv("GEMINI_API_KEY")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=4000\nGEMINI_API_KEY=from-file\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port, "real environment wins over the dotenv file")
	assert.Equal(t, "from-file", cfg.AI.APIKey)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "default secret in production", env: map[string]string{"APP_ENV": "production"}},
		{name: "bad parse policy", env: map[string]string{"AI_PARSE_POLICY": "yolo"}},
		{name: "negative retries", env: map[string]string{"AI_MAX_RETRIES": "-1"}},
		{name: "zero timeout", env: map[string]string{"AI_TIMEOUT": "0s"}},
		{name: "empty origins", env: map[string]string{"CORS_ALLOWED_ORIGINS": " , "}},
		{name: "malformed timeout", env: map[string]string{"AI_TIMEOUT": "abc"}},
		{name: "malformed retries", env: map[string]string{"AI_MAX_RETRIES": "x"}},
		{name: "malformed trust proxy", env: map[string]string{"TRUST_PROXY_HEADERS": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(noEnvFile(t))
			assert.Error(t, err)
		})
	}
}

func TestLoadProductionWithSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "a-real-secret")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
}
