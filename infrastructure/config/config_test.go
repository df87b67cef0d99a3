package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"parkwise/domain/core/valueobjects"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ENVIRONMENT", "")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, StoreDynamoDB, cfg.StoreBackend)
	assert.Equal(t, valueobjects.DefaultSlotLayout, cfg.SlotLayout)
	assert.Equal(t, 30, cfg.Layout().Len())
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL())
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parkwise.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
table_name: from-file
slot_layout: "0011"
log_level: debug
cors_allowed_origins: ["https://a.example"]
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TABLE_NAME", "from-env")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://b.example, https://c.example")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.TableName, "environment wins over the file")
	assert.Equal(t, "0011", cfg.SlotLayout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"https://b.example", "https://c.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"production without secret", func(c *Config) { c.Environment = "production" }, true},
		{"production with secret", func(c *Config) { c.Environment = "production"; c.JWTSecret = "s" }, false},
		{"memory store in production", func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = "s"
			c.StoreBackend = StoreMemory
		}, true},
		{"unknown backend", func(c *Config) { c.StoreBackend = "redis" }, true},
		{"empty table", func(c *Config) { c.TableName = "" }, true},
		{"bad layout", func(c *Config) { c.SlotLayout = "0102" }, true},
		{"zero ttl", func(c *Config) { c.JWTTTLHours = 0 }, true},
		{"bad threshold", func(c *Config) { c.BreakerFailureThreshold = 1.5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBreaker(t *testing.T) {
	cfg := Default()
	cfg.BreakerTimeoutSeconds = 5

	b := cfg.Breaker()

	assert.Equal(t, "parkwise", b.Name)
	assert.Equal(t, 5*time.Second, b.Timeout)
	assert.Equal(t, uint32(5), b.MaxRequests)
}

func TestLevelWatcher_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parkwise.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: info\n"), 0o600))
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)

	w, err := NewLevelWatcher(path, level, zap.NewNop())
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o600))
	w.Reload()
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0o600))
	w.Reload()
	assert.Equal(t, zapcore.DebugLevel, level.Level(), "invalid levels are ignored")
}
