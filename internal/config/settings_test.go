package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestSettingsFrom_Defaults returns the package.json descriptor and info level by default.
func TestSettingsFrom_Defaults(t *testing.T) {
	t.Parallel()

	settings, err := SettingsFrom(NewViper())
	require.NoError(t, err)
	require.Equal(t, DefaultDescriptorFilename, settings.DescriptorPath)
	require.Equal(t, "info", settings.LogLevel)
	require.Zero(t, settings.EngineTimeout)
}

// TestSettingsFrom_Environment picks overrides up from ECORP_RELEASE_* variables.
func TestSettingsFrom_Environment(t *testing.T) {
	t.Setenv("ECORP_RELEASE_LOG_LEVEL", "debug")
	t.Setenv("ECORP_RELEASE_ENGINE_TIMEOUT", "90s")
	t.Setenv("ECORP_RELEASE_METRICS_FILE", "/tmp/release.prom")

	settings, err := SettingsFrom(NewViper())
	require.NoError(t, err)
	require.Equal(t, "debug", settings.LogLevel)
	require.Equal(t, 90*time.Second, settings.EngineTimeout)
	require.Equal(t, "/tmp/release.prom", settings.MetricsFile)
}

// TestSettingsFrom_NegativeTimeout rejects negative engine timeouts.
func TestSettingsFrom_NegativeTimeout(t *testing.T) {
	v := NewViper()
	v.Set(KeyEngineTimeout, "-1s")

	_, err := SettingsFrom(v)
	require.Error(t, err)
}
