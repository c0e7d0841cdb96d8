// filename: internal/common/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "*.ndjson", cfg.Data.Pattern)
	assert.Equal(t, 10*time.Second, cfg.Data.CacheTTL)
	assert.True(t, cfg.Data.SyntheticFallback)
	assert.Equal(t, 250, cfg.Data.SyntheticCount)
	assert.Equal(t, "local", cfg.Data.Adapter)
	assert.Equal(t, "127.0.0.1:8080", cfg.GetServerAddr())
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "honeydash.yaml")
	content := `
server:
  port: 9090
data:
  dir: /srv/honeypots
  cache_ttl: 30s
  synthetic_fallback: false
rate_limit:
  enabled: true
  requests: 10
  window: 10s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/srv/honeypots", cfg.Data.Dir)
	assert.Equal(t, 30*time.Second, cfg.Data.CacheTTL)
	assert.False(t, cfg.Data.SyntheticFallback)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 10, cfg.RateLimit.Requests)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}, wantErr: false},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "empty dir", mutate: func(c *Config) { c.Data.Dir = "" }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.Data.CacheTTL = 0 }, wantErr: true},
		{name: "fallback without count", mutate: func(c *Config) { c.Data.SyntheticCount = 0 }, wantErr: true},
		{name: "fallback disabled without count", mutate: func(c *Config) {
			c.Data.SyntheticFallback = false
			c.Data.SyntheticCount = 0
		}, wantErr: false},
		{name: "tls without cert", mutate: func(c *Config) { c.Server.TLS.Enabled = true }, wantErr: true},
		{name: "tls with cert", mutate: func(c *Config) {
			c.Server.TLS = TLSConfig{Enabled: true, CertFile: "cert.pem", KeyFile: "key.pem"}
		}, wantErr: false},
		{name: "rate limit without window", mutate: func(c *Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.Window = 0
		}, wantErr: true},
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
