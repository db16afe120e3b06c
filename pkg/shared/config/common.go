package config

import (
	"crypto/tls"
	"time"
)

// BaseHTTPConfig holds common HTTP client configuration settings.
type BaseHTTPConfig struct {
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
	Timeout          time.Duration
	TLSClientConfig  *tls.Config
	Proxy            string
}

// RestyHttpClientConfig holds additional configuration settings for the resty http client.
type RestyHttpClientConfig struct {
	BaseHTTPConfig
	Debug bool
}

// General base configuration applicable to all HTTP clients.
func DefaultHttpConfig() BaseHTTPConfig {
	return BaseHTTPConfig{
		RetryCount:       3,
		RetryWaitTime:    1 * time.Second,
		RetryMaxWaitTime: 2 * time.Second,
		Timeout:          10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12, // Enforce a minimum TLS version
		},
		Proxy: "",
	}
}

// DefaultRestyConfig function returns a specific http config to Resty
func DefaultRestyConfig() RestyHttpClientConfig {
	baseConfig := DefaultHttpConfig()
	return RestyHttpClientConfig{
		BaseHTTPConfig: baseConfig,
		Debug:          false,
	}
}

const (
	DefaultTracerBaseURL = "http://localhost:8080/api"
	DefaultMaxPaths      = 10
	DefaultCanvasWidth   = 760
	DefaultCanvasHeight  = 360
)

// GetTracerBaseURL returns the configured backend URL or the local default.
func GetTracerBaseURL(cfg *Config) string {
	if cfg == nil {
		return DefaultTracerBaseURL
	}
	return SetThen(cfg.Tracer.BaseURL, DefaultTracerBaseURL)
}

// GetMaxPaths returns the configured trace limit or the default.
func GetMaxPaths(cfg *Config) int {
	if cfg == nil {
		return DefaultMaxPaths
	}
	return SetThen(cfg.Tracer.MaxPaths, DefaultMaxPaths)
}

// GetCanvasSize returns the layout canvas size, falling back to the
// dimensions of the dashboard diagram panel.
func GetCanvasSize(cfg *Config) (float64, float64) {
	if cfg == nil {
		return DefaultCanvasWidth, DefaultCanvasHeight
	}
	return SetThen(cfg.Layout.Width, DefaultCanvasWidth), SetThen(cfg.Layout.Height, DefaultCanvasHeight)
}
