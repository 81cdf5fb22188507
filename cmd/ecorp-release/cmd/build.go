package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/drkarl/live-wallpaper-ecorp/internal/config"
	"github.com/drkarl/live-wallpaper-ecorp/internal/domain/release"
	"github.com/drkarl/live-wallpaper-ecorp/internal/engine"
	"github.com/drkarl/live-wallpaper-ecorp/internal/logger"
	"github.com/drkarl/live-wallpaper-ecorp/internal/observability"
	"github.com/drkarl/live-wallpaper-ecorp/internal/service/pipeline"
)

// buildCmd runs the whole pipeline.
var buildCmd = &cobra.Command{
	Use:   "build [platform...]",
	Short: "Build installers for the selected platforms and archive them",
	Long: "Build installers for the given platforms, or for the descriptor's platform list.\n" +
		"Windows and Linux hosts always build only their own platform.",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		options, err := pipelineOptions(args)
		if err != nil {
			logger.ErrorKV(ctx, release.LabelOf(err), "error", err)
			return err
		}

		if settings.MetricsFile != "" {
			if options.Metrics, err = observability.NewMetrics(); err != nil {
				return err
			}

			defer flushMetrics(ctx, options.Metrics)
		}

		return pipeline.Run(ctx, options)
	},
}

// pipelineOptions loads the descriptor and wires command engines for it.
func pipelineOptions(platforms []string) (*pipeline.Options, error) {
	desc, err := config.Load(settings.DescriptorPath, settings.Root)
	if err != nil {
		return nil, release.NewPhaseError(release.PhaseConfig, "", settings.DescriptorPath, err)
	}

	runner := &engine.ExecRunner{Timeout: settings.EngineTimeout, Dir: desc.Root}

	engines, err := engine.NewCommandSet(desc.EngineCommand, runner, nil)
	if err != nil {
		return nil, release.NewPhaseError(release.PhaseConfig, "", settings.DescriptorPath, err)
	}

	return &pipeline.Options{
		Descriptor: desc,
		Platforms:  platforms,
		Engines:    engines,
	}, nil
}

// flushMetrics writes the metrics file whatever the run's outcome.
func flushMetrics(ctx context.Context, metrics *observability.Metrics) {
	if err := metrics.WriteTextfile(settings.MetricsFile); err != nil {
		logger.WarnKV(ctx, "Unable to write metrics", "error", err)
	} else {
		logger.InfoKV(ctx, "Metrics written", "path", settings.MetricsFile)
	}

	if err := metrics.Shutdown(context.WithoutCancel(ctx)); err != nil {
		logger.WarnKV(ctx, "Unable to stop metrics", "error", err)
	}
}

// loggedByPipeline reports whether err carries a phase label, meaning it was logged already.
func loggedByPipeline(err error) bool {
	var phaseErr *release.PhaseError

	return errors.As(err, &phaseErr)
}
