package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/drkarl/live-wallpaper-ecorp/internal/domain/release"
	"github.com/drkarl/live-wallpaper-ecorp/internal/engine"
	"github.com/drkarl/live-wallpaper-ecorp/internal/logger"
	"github.com/drkarl/live-wallpaper-ecorp/internal/observability"
	"github.com/drkarl/live-wallpaper-ecorp/internal/repository/archive"
	"github.com/drkarl/live-wallpaper-ecorp/internal/repository/staging"
)

// Archiver compresses a deployment folder and removes it.
type Archiver interface {
	Archive(ctx context.Context, source, allowedExtension string) (*archive.Result, error)
}

// ArchiveRecorder keeps track of finished archives.
type ArchiveRecorder interface {
	Record(platform, arch, path string) error
}

// DeployDeps are the collaborators shared by every deployer.
type DeployDeps struct {
	Stager   staging.Stager
	Archiver Archiver
	// Recorder is optional.
	Recorder ArchiveRecorder
	// Metrics is optional.
	Metrics *observability.Metrics
}

// specBuilder derives the engine specification of one job.
type specBuilder func(job *release.DeploymentJob, opts *release.BuildOptions) (engine.Spec, error)

// installerDeployer is the per-artifact flow shared by all platform deployers:
// prepare the subfolder, run the installer engine, archive the result.
type installerDeployer struct {
	DeployDeps

	installer  engine.Installer
	extension  string
	buildSpec  specBuilder
	logOptions bool
}

// Deploy handles every artifact concurrently. Engine and staging failures are
// fatal and cancel the siblings; archival failures are only logged.
func (d *installerDeployer) Deploy(
	ctx context.Context,
	artifact release.Artifact,
	opts *release.BuildOptions,
	releaseDir string,
) error {
	group, groupCtx := errgroup.WithContext(ctx)

	for _, path := range artifact {
		path := path
		group.Go(func() error {
			return d.deployOne(groupCtx, path, opts, releaseDir)
		})
	}

	return group.Wait()
}

func (d *installerDeployer) deployOne(
	ctx context.Context,
	path string,
	opts *release.BuildOptions,
	releaseDir string,
) error {
	platform := opts.Platform()

	job, err := release.NewDeploymentJob(path, releaseDir, opts.AppVersion(), d.extension)
	if err != nil {
		return release.NewPhaseError(release.PhaseDeploy, platform, path, err)
	}

	ctx = logger.WithFields(ctx, "platform", platform, "arch", job.Architecture)

	if err = d.Stager.Clear(ctx, job.Subfolder); err != nil {
		return release.NewPhaseError(release.PhaseStage, platform, job.Subfolder, err)
	}

	if err = d.Stager.Prepare(ctx, job.Subfolder); err != nil {
		return release.NewPhaseError(release.PhaseStage, platform, job.Subfolder, err)
	}

	spec, err := d.buildSpec(job, opts)
	if err != nil {
		return release.NewPhaseError(release.PhaseDeploy, platform, path, err)
	}

	if d.logOptions {
		logger.InfoKV(ctx, "Deploy options", "artifact", path, "spec", spec.Payload())
	}

	started := time.Now()
	err = d.installer.Install(ctx, spec)
	d.Metrics.RecordDeployment(ctx, platform, job.Architecture, time.Since(started), err)

	if err != nil {
		return release.NewPhaseError(release.PhaseDeploy, platform, spec.TargetPath(), err)
	}

	logger.InfoKV(ctx, "Deployed", "target", spec.TargetPath())

	d.archive(ctx, job, platform)

	return nil
}

// archive compresses the job's subfolder. Failures leave the folder in place
// and do not affect the run's outcome.
func (d *installerDeployer) archive(ctx context.Context, job *release.DeploymentJob, platform string) {
	result, err := d.Archiver.Archive(ctx, job.Subfolder, job.Extension)
	if err != nil {
		logger.ErrorKV(ctx, release.LabelOf(err), "error", err)
		return
	}

	d.Metrics.RecordArchive(ctx, platform, result.Size)

	if d.Recorder == nil {
		return
	}

	if err = d.Recorder.Record(platform, job.Architecture, result.Path); err != nil {
		logger.WarnKV(ctx, "Unable to record archive", "path", result.Path, "error", err)
	}
}
