package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. ECORP_RELEASE_LOG_LEVEL.
const EnvPrefix = "ECORP_RELEASE"

// Setting keys shared by cobra flags, viper and the environment.
const (
	KeyDescriptor    = "descriptor"
	KeyRoot          = "root"
	KeyLogLevel      = "log-level"
	KeyMetricsFile   = "metrics-file"
	KeyEngineTimeout = "engine-timeout"
)

var errNegativeTimeout = errors.New("engine timeout must not be negative")

// Settings are the per-invocation knobs that are not part of the descriptor.
type Settings struct {
	// DescriptorPath points at the project descriptor.
	DescriptorPath string
	// Root overrides the application tree; defaults to the descriptor's directory.
	Root string
	// LogLevel is the minimum level written by the logger.
	LogLevel string
	// MetricsFile receives Prometheus text-format metrics when set.
	MetricsFile string
	// EngineTimeout bounds each external engine call; zero means no bound.
	EngineTimeout time.Duration
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyDescriptor, DefaultDescriptorFilename)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyEngineTimeout, time.Duration(0))

	return v
}

// SettingsFrom reads Settings out of v.
func SettingsFrom(v *viper.Viper) (*Settings, error) {
	settings := &Settings{
		DescriptorPath: v.GetString(KeyDescriptor),
		Root:           v.GetString(KeyRoot),
		LogLevel:       v.GetString(KeyLogLevel),
		MetricsFile:    v.GetString(KeyMetricsFile),
		EngineTimeout:  v.GetDuration(KeyEngineTimeout),
	}

	if settings.EngineTimeout < 0 {
		return nil, fmt.Errorf("%w: %s", errNegativeTimeout, settings.EngineTimeout)
	}

	if settings.DescriptorPath == "" {
		settings.DescriptorPath = DefaultDescriptorFilename
	}

	return settings, nil
}
