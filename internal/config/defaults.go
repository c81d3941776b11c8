package config

import "time"

// Default values for configuration.
const (
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	DefaultAuthScheme     = "Token"
	DefaultTLSProfile     = "go"
	DefaultRequestTimeout = 15 * time.Second

	DefaultSiteName = "Zenith Forums"

	DefaultOpenAIModel       = "gpt-4o-mini"
	DefaultOpenAIMaxTokens   = 300
	DefaultOpenAITemperature = 0.2

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)
