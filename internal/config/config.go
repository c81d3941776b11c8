package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Flarum      FlarumConfig      `mapstructure:"flarum"`
	Site        SiteConfig        `mapstructure:"site"`
	CurrentUser CurrentUserConfig `mapstructure:"current_user"`
	OpenAI      OpenAIConfig      `mapstructure:"openai"`
	Moderation  ModerationConfig  `mapstructure:"moderation"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type FlarumConfig struct {
	// BaseURL is the API root, e.g. https://forum.example.com/api. Empty means
	// the backend is not configured; requests fail individually.
	BaseURL        string        `mapstructure:"api_url"`
	APIKey         string        `mapstructure:"api_key"`
	AuthScheme     string        `mapstructure:"auth_scheme"`
	APIUserID      string        `mapstructure:"api_user_id"`
	ProxyURL       string        `mapstructure:"proxy_url"`
	TLSProfile     string        `mapstructure:"tls_profile"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type SiteConfig struct {
	Name string `mapstructure:"name"`
}

// CurrentUserConfig is the stand-in identity used in place of a session.
// An empty ID means no one is signed in.
type CurrentUserConfig struct {
	ID        string `mapstructure:"id"`
	Username  string `mapstructure:"name"`
	AvatarURL string `mapstructure:"avatar"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

type ModerationConfig struct {
	GuidelinesFile string `mapstructure:"guidelines_file"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// envBindings maps flat environment variable names onto nested keys.
var envBindings = map[string]string{
	"server.host":                "SERVER_HOST",
	"server.port":                "SERVER_PORT",
	"server.read_timeout":        "SERVER_READ_TIMEOUT",
	"server.write_timeout":       "SERVER_WRITE_TIMEOUT",
	"server.shutdown_timeout":    "SHUTDOWN_TIMEOUT",
	"flarum.api_url":             "FLARUM_API_URL",
	"flarum.api_key":             "FLARUM_API_KEY",
	"flarum.auth_scheme":         "FLARUM_AUTH_SCHEME",
	"flarum.api_user_id":         "FLARUM_API_USER_ID",
	"flarum.proxy_url":           "FLARUM_PROXY_URL",
	"flarum.tls_profile":         "FLARUM_TLS_PROFILE",
	"flarum.request_timeout":     "REQUEST_TIMEOUT",
	"site.name":                  "SITE_NAME",
	"current_user.id":            "CURRENT_USER_ID",
	"current_user.name":          "CURRENT_USER_NAME",
	"current_user.avatar":        "CURRENT_USER_AVATAR",
	"openai.api_key":             "OPENAI_API_KEY",
	"openai.model":               "OPENAI_MODEL",
	"openai.max_tokens":          "OPENAI_MAX_TOKENS",
	"openai.temperature":         "OPENAI_TEMPERATURE",
	"moderation.guidelines_file": "MODERATION_GUIDELINES_FILE",
	"logging.level":              "LOG_LEVEL",
	"logging.format":             "LOG_FORMAT",
}

// LoadConfig reads .env (if present), the optional file named by
// FORUM_CONFIG_FILE and the process environment, in increasing precedence.
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path := os.Getenv("FORUM_CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Flarum.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Flarum.BaseURL), "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", DefaultServerHost)
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.read_timeout", DefaultReadTimeout)
	v.SetDefault("server.write_timeout", DefaultWriteTimeout)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("flarum.auth_scheme", DefaultAuthScheme)
	v.SetDefault("flarum.tls_profile", DefaultTLSProfile)
	v.SetDefault("flarum.request_timeout", DefaultRequestTimeout)
	v.SetDefault("site.name", DefaultSiteName)
	v.SetDefault("openai.model", DefaultOpenAIModel)
	v.SetDefault("openai.max_tokens", DefaultOpenAIMaxTokens)
	v.SetDefault("openai.temperature", DefaultOpenAITemperature)
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}

// Address returns the listen address in "host:port" form.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate checks that configuration values are usable. A missing forum URL
// is allowed: the transport client reports it per request.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be a valid port number (1-65535), got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Flarum.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.Flarum.BaseURL != "" {
		if _, err := url.ParseRequestURI(c.Flarum.BaseURL); err != nil {
			return fmt.Errorf("invalid FLARUM_API_URL %q: %w", c.Flarum.BaseURL, err)
		}
	}

	if c.Flarum.ProxyURL != "" {
		u, err := url.Parse(c.Flarum.ProxyURL)
		if err != nil {
			return fmt.Errorf("invalid FLARUM_PROXY_URL: %w", err)
		}
		switch u.Scheme {
		case "http", "https", "socks5":
		default:
			return fmt.Errorf("FLARUM_PROXY_URL scheme must be http, https or socks5, got %q", u.Scheme)
		}
	}

	switch strings.ToLower(c.Flarum.TLSProfile) {
	case "go", "chrome", "firefox", "safari", "edge":
	default:
		return fmt.Errorf("FLARUM_TLS_PROFILE must be one of: go, chrome, firefox, safari, edge")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}

	return nil
}
