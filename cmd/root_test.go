package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/taintgraph/pkg/shared/config"
)

func TestLoadAppConfigMissingDefault(t *testing.T) {
	t.Setenv(config.EnvAPIBase, "http://env-backend/api")
	missing := filepath.Join(t.TempDir(), "config.yml")

	cfg, err := loadAppConfig(missing, false)
	require.NoError(t, err)
	assert.Equal(t, "http://env-backend/api", cfg.Tracer.BaseURL)

	_, err = loadAppConfig(missing, true)
	assert.Error(t, err)
}

func TestLoadAppConfigInvalid(t *testing.T) {
	t.Setenv(config.EnvAPIBase, "")
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("layout:\n  max_ticks: -4\n"), 0o644))

	_, err := loadAppConfig(path, false)
	assert.Error(t, err)
}

func TestRootRegistersCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"graph", "paths", "catalog", "version"} {
		assert.True(t, names[want], want)
	}
}
