package pipeline

import (
	"github.com/drkarl/live-wallpaper-ecorp/internal/domain/release"
	"github.com/drkarl/live-wallpaper-ecorp/internal/engine"
)

// NewDarwinDeployer wraps bundles into disk images.
func NewDarwinDeployer(deps DeployDeps, installer engine.Installer) Deployer {
	return &installerDeployer{
		DeployDeps: deps,
		installer:  installer,
		extension:  release.ExtDiskImage,
		buildSpec: func(job *release.DeploymentJob, opts *release.BuildOptions) (engine.Spec, error) {
			return release.NewDiskImageSpec(job, opts)
		},
	}
}
