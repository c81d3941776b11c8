package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("FLARUM_API_URL", "https://forum.example.com/api/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://forum.example.com/api", cfg.Flarum.BaseURL)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultAuthScheme, cfg.Flarum.AuthScheme)
	assert.Equal(t, DefaultRequestTimeout, cfg.Flarum.RequestTimeout)
	assert.Equal(t, DefaultOpenAIModel, cfg.OpenAI.Model)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Empty(t, cfg.CurrentUser.ID)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("FLARUM_API_KEY", "secret")
	t.Setenv("CURRENT_USER_ID", "7")
	t.Setenv("CURRENT_USER_NAME", "alice")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Flarum.RequestTimeout)
	assert.Equal(t, "secret", cfg.Flarum.APIKey)
	assert.Equal(t, "7", cfg.CurrentUser.ID)
	assert.Equal(t, "alice", cfg.CurrentUser.Username)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Empty(t, cfg.Flarum.BaseURL, "missing API URL is not a load error")
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forum.yaml")
	content := `
server:
  port: 8181
flarum:
  api_url: "https://forum.example.com/api"
  tls_profile: chrome
site:
  name: "Test Forum"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("FORUM_CONFIG_FILE", path)
	t.Setenv("SITE_NAME", "Env Forum")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "chrome", cfg.Flarum.TLSProfile)
	assert.Equal(t, "Env Forum", cfg.Site.Name, "environment overrides file")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{
				Port:            8080,
				ReadTimeout:     time.Second,
				WriteTimeout:    time.Second,
				ShutdownTimeout: time.Second,
			},
			Flarum:  FlarumConfig{TLSProfile: "go", RequestTimeout: time.Second},
			Logging: LoggingConfig{Level: "info", Format: "json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero request timeout", func(c *Config) { c.Flarum.RequestTimeout = 0 }, true},
		{"bad proxy scheme", func(c *Config) { c.Flarum.ProxyURL = "ftp://proxy:21" }, true},
		{"socks proxy", func(c *Config) { c.Flarum.ProxyURL = "socks5://proxy:1080" }, false},
		{"unknown tls profile", func(c *Config) { c.Flarum.TLSProfile = "opera" }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"bad api url", func(c *Config) { c.Flarum.BaseURL = "not a url" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
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
