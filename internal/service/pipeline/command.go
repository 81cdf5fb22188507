package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/drkarl/live-wallpaper-ecorp/internal/config"
	"github.com/drkarl/live-wallpaper-ecorp/internal/domain/release"
	"github.com/drkarl/live-wallpaper-ecorp/internal/engine"
	"github.com/drkarl/live-wallpaper-ecorp/internal/logger"
	"github.com/drkarl/live-wallpaper-ecorp/internal/observability"
	"github.com/drkarl/live-wallpaper-ecorp/internal/repository/archive"
	"github.com/drkarl/live-wallpaper-ecorp/internal/repository/manifest"
	"github.com/drkarl/live-wallpaper-ecorp/internal/repository/staging"
	"github.com/drkarl/live-wallpaper-ecorp/internal/service/packager"
)

var (
	errNoDescriptor = errors.New("project descriptor is required")
	errNoEngines    = errors.New("engines are required")
	errNoPlatforms  = errors.New("no target platforms selected")
)

// Options contains inputs for the release entry point.
type Options struct {
	// Descriptor is the loaded project descriptor.
	Descriptor *config.Descriptor
	// Platforms overrides the descriptor's platform list on darwin hosts.
	Platforms []string
	// Engines are the external tools to drive.
	Engines *engine.Set
	// Fs defaults to the OS filesystem.
	Fs afero.Fs
	// Clock defaults to time.Now. It is read once per run.
	Clock Clock
	// Host defaults to the current operating system.
	Host func() release.Kind
	// Metrics is optional.
	Metrics *observability.Metrics
}

// Run executes the release workflow. The first fatal error cancels every
// running task; Run waits for all of them before returning it.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "ecorp-release")

	plan, err := NewPlan(opts)
	if err != nil {
		logger.ErrorKV(ctx, release.LabelOf(err), "error", err)
		return err
	}

	if err = execute(ctx, opts, plan); err != nil {
		logger.ErrorKV(ctx, release.LabelOf(err), "error", err)
		return err
	}

	logger.Info(ctx, "Release completed successfully")

	return nil
}

func execute(ctx context.Context, opts *Options, plan *Plan) error {
	desc := opts.Descriptor
	fs := opts.Fs

	if fs == nil {
		fs = afero.NewOsFs()
	}

	logger.InfoKV(ctx, "Project", "product", desc.Build.ProductName, "version", desc.AppVersion())
	logger.InfoKV(ctx, "Target platforms", "platforms", strings.Join(plan.Platforms, ", "))

	marker := staging.NewMarker(fs, desc.Root)
	if err := marker.Acquire(ctx); err != nil {
		return release.NewPhaseError(release.PhaseStage, "", marker.Path(), err)
	}
	defer marker.Release(ctx)

	stager := staging.NewFilesystemStager(fs)

	if err := stager.Clear(ctx, desc.StagingDir(), desc.ReleaseDir()); err != nil {
		return release.NewPhaseError(release.PhaseStage, "", "", err)
	}

	if err := stager.Prepare(ctx, desc.StagingDir(), desc.ReleaseDir()); err != nil {
		return release.NewPhaseError(release.PhaseStage, "", "", err)
	}

	store := manifest.NewStore(fs, desc.ReleaseDir(), manifestHeader(ctx, desc, plan))

	deps := DeployDeps{
		Stager:   stager,
		Archiver: archive.NewArchiver(fs),
		Recorder: store,
		Metrics:  opts.Metrics,
	}

	dispatcher := NewDispatcher(deployers(deps, opts.Engines))
	invoker := packager.NewInvoker(opts.Engines.Packager, fs)

	group, groupCtx := errgroup.WithContext(ctx)

	for i, platform := range plan.Platforms {
		platform := platform
		buildOpts := plan.Options[i]

		group.Go(func() error {
			platformCtx := logger.WithKV(groupCtx, "platform", platform)

			started := time.Now()
			artifact, err := invoker.Package(platformCtx, buildOpts)
			opts.Metrics.RecordPackage(platformCtx, platform, time.Since(started), err)

			if err != nil {
				return err
			}

			logger.Info(platformCtx, "Build complete")

			return dispatcher.Dispatch(platformCtx, platform, artifact, buildOpts, desc.ReleaseDir())
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	if err := store.Save(ctx); err != nil {
		logger.WarnKV(ctx, "Unable to save release manifest", "error", err)
	}

	return nil
}

// deployers builds the dispatch table from the engine set.
func deployers(deps DeployDeps, engines *engine.Set) map[release.Kind]Deployer {
	table := make(map[release.Kind]Deployer, len(engines.Installers))

	for kind, installer := range engines.Installers {
		switch kind {
		case release.Darwin:
			table[kind] = NewDarwinDeployer(deps, installer)
		case release.Windows:
			table[kind] = NewWindowsDeployer(deps, installer)
		case release.Linux:
			table[kind] = NewLinuxDeployer(deps, installer)
		}
	}

	return table
}

func manifestHeader(ctx context.Context, desc *config.Descriptor, plan *Plan) manifest.Manifest {
	header := manifest.Manifest{
		Product:      desc.Build.ProductName,
		Version:      desc.AppVersion(),
		BuildVersion: BuildVersion(plan.StartedAt),
		CreatedAt:    plan.StartedAt.UTC(),
	}

	actor, err := manifest.DetectActor()
	if err != nil {
		logger.WarnKV(ctx, "Unable to detect builder", "error", err)
	} else {
		header.Builder = actor
	}

	return header
}
