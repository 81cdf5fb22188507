package pipeline

import (
	"context"

	"github.com/drkarl/live-wallpaper-ecorp/internal/domain/release"
	"github.com/drkarl/live-wallpaper-ecorp/internal/logger"
)

// Deployer turns every bundle of a platform into an archived installer.
type Deployer interface {
	Deploy(ctx context.Context, artifact release.Artifact, opts *release.BuildOptions, releaseDir string) error
}

// Dispatcher routes artifacts to the deployer of their platform kind.
type Dispatcher struct {
	deployers map[release.Kind]Deployer
}

// NewDispatcher returns a dispatcher over the given table.
func NewDispatcher(deployers map[release.Kind]Deployer) *Dispatcher {
	return &Dispatcher{deployers: deployers}
}

// Dispatch deploys artifact with the deployer registered for platform.
// Platforms without a deployer are skipped.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	platform string,
	artifact release.Artifact,
	opts *release.BuildOptions,
	releaseDir string,
) error {
	kind := release.Classify(platform)

	deployer, ok := d.deployers[kind]
	if !ok {
		logger.DebugKV(ctx, "No deployer for platform, skipping", "platform", platform, "kind", kind.String())
		return nil
	}

	return deployer.Deploy(ctx, artifact, opts, releaseDir)
}
