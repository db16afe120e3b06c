package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("global config: configuration object is nil")
	}
	if err := ValidateHTTPConfig(&cfg.HttpClient); err != nil {
		return fmt.Errorf("global config: http_client directive is invalid: %w", err)
	}
	if err := ValidateTracerConfig(&cfg.Tracer); err != nil {
		return fmt.Errorf("global config: tracer directive is invalid: %w", err)
	}
	if err := ValidateLayoutConfig(&cfg.Layout); err != nil {
		return fmt.Errorf("global config: layout directive is invalid: %w", err)
	}
	return nil
}

// ValidateHTTPConfig checks if the HTTP configurations have valid values.
func ValidateHTTPConfig(httpConfig *HttpClient) error {
	if httpConfig == nil {
		return fmt.Errorf("HTTP configuration is nil")
	}
	if httpConfig.RetryCount < 0 || httpConfig.RetryCount > 20 {
		return fmt.Errorf("retry_count must be between 0 and 20: %d", httpConfig.RetryCount)
	}

	durations := map[string]time.Duration{
		"retry_max_wait_time": httpConfig.RetryMaxWaitTime,
		"retry_wait_time":     httpConfig.RetryWaitTime,
		"timeout":             httpConfig.Timeout,
	}
	for name, duration := range durations {
		if err := validateDuration(duration, name, 100*time.Second); err != nil {
			return err
		}
	}

	return validateProxy(&httpConfig.Proxy)
}

// ValidateTracerConfig checks the backend URL and the path limit.
func ValidateTracerConfig(tracer *Tracer) error {
	if tracer == nil {
		return fmt.Errorf("tracer configuration is nil")
	}
	if tracer.MaxPaths < 0 || tracer.MaxPaths > 1000 {
		return fmt.Errorf("max_paths must be between 0 and 1000: %d", tracer.MaxPaths)
	}
	if tracer.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(tracer.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must use http or https: %q", tracer.BaseURL)
	}
	return nil
}

// ValidateLayoutConfig rejects negative overrides. Range checks that depend
// on the combination of values are left to the layout engine.
func ValidateLayoutConfig(l *Layout) error {
	if l == nil {
		return fmt.Errorf("layout configuration is nil")
	}
	nonNegative := map[string]float64{
		"width":             l.Width,
		"height":            l.Height,
		"link_distance":     l.LinkDistance,
		"distance_min":      l.DistanceMin,
		"alpha_min":         l.AlphaMin,
		"alpha_decay":       l.AlphaDecay,
		"drag_alpha_target": l.DragAlphaTarget,
		"velocity_decay":    l.VelocityDecay,
	}
	for name, v := range nonNegative {
		if v < 0 {
			return fmt.Errorf("%s cannot be negative: %v", name, v)
		}
	}
	if l.MaxTicks < 0 {
		return fmt.Errorf("max_ticks cannot be negative: %d", l.MaxTicks)
	}
	return nil
}

// validateDuration checks that a time.Duration is valid and within a specified maximum duration.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %s: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%s duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}

// validateProxy checks if the given Proxy settings are valid.
func validateProxy(proxy *Proxy) error {
	if proxy == nil {
		return fmt.Errorf("proxy configuration is nil")
	}
	if proxy.Host == "" || proxy.Port == 0 {
		return nil
	}

	if !strings.Contains(proxy.Host, "://") {
		proxy.Host = "http://" + proxy.Host
	}
	proxy.Host = strings.TrimRight(proxy.Host, "/")
	if _, err := url.Parse(proxy.Host); err != nil {
		return fmt.Errorf("invalid proxy host URL: %w", err)
	}
	if proxy.Port < 1 || proxy.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", proxy.Port)
	}
	return nil
}
