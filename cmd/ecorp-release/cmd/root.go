package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/drkarl/live-wallpaper-ecorp/internal/config"
	"github.com/drkarl/live-wallpaper-ecorp/internal/logger"
	"github.com/drkarl/live-wallpaper-ecorp/internal/version"
)

var errUnknownLogLevel = errors.New("unknown log level")

var (
	// settingsSource merges flags, ECORP_RELEASE_* variables and defaults.
	settingsSource = config.NewViper()

	// settings are resolved before any subcommand runs.
	settings *config.Settings

	// rootCmd represents the base command of the release pipeline.
	rootCmd = &cobra.Command{
		Use:           "ecorp-release",
		Short:         "Package, deploy and archive the application for every target platform",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			var err error

			settings, err = config.SettingsFrom(settingsSource)
			if err != nil {
				return err
			}

			level, ok := logger.ParseLogLevel(settings.LogLevel)
			if !ok {
				return fmt.Errorf("%w: %q", errUnknownLogLevel, settings.LogLevel)
			}

			logger.SetLevel(level)

			return nil
		},
	}
)

// Execute runs the ecorp-release CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		// Pipeline errors are already logged under their phase label.
		if !loggedByPipeline(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}

		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.PersistentFlags()

	// Setup command flags with consistent naming and descriptions.
	flags.StringP(config.KeyDescriptor, "d", config.DefaultDescriptorFilename, "path to the project descriptor (json, yaml or toml)")
	flags.StringP(config.KeyRoot, "r", "", "application tree to package (defaults to the descriptor's directory)")
	flags.String(config.KeyLogLevel, "info", "log level: debug, info, warn, error")
	flags.String(config.KeyMetricsFile, "", "write Prometheus text-format metrics to this file")
	flags.Duration(config.KeyEngineTimeout, 0, "bound each external engine call (0 disables)")

	for _, key := range []string{
		config.KeyDescriptor,
		config.KeyRoot,
		config.KeyLogLevel,
		config.KeyMetricsFile,
		config.KeyEngineTimeout,
	} {
		if err := settingsSource.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(buildCmd, planCmd)
}
