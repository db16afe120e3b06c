package httpclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scan-io-git/taintgraph/pkg/shared/config"
)

func TestApplyHttpClientConfigDefaults(t *testing.T) {
	cfg := applyHttpClientConfig(nil)
	defaults := config.DefaultRestyConfig()

	assert.Equal(t, defaults.RetryCount, cfg.RetryCount)
	assert.Equal(t, defaults.Timeout, cfg.Timeout)
	assert.False(t, cfg.TLSClientConfig.InsecureSkipVerify)
	assert.Empty(t, cfg.Proxy)
}

func TestApplyHttpClientConfigOverrides(t *testing.T) {
	verify := false
	debug := true
	cfg := applyHttpClientConfig(&config.HttpClient{
		Debug:           &debug,
		RetryCount:      7,
		Timeout:         3 * time.Second,
		TlsClientConfig: config.TlsClientConfig{Verify: &verify},
		Proxy:           config.Proxy{Host: "http://proxy.local", Port: 3128},
	})

	assert.True(t, cfg.Debug)
	assert.Equal(t, 7, cfg.RetryCount)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, config.DefaultRestyConfig().RetryWaitTime, cfg.RetryWaitTime)
	assert.True(t, cfg.TLSClientConfig.InsecureSkipVerify)
	assert.Equal(t, "http://proxy.local:3128", cfg.Proxy)
}

func TestInitializeRestyClient(t *testing.T) {
	client := InitializeRestyClient(nil, &config.Config{HttpClient: config.HttpClient{RetryCount: 1}})
	assert.Equal(t, 1, client.RetryCount)
}
