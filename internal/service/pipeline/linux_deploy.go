package pipeline

import (
	"github.com/drkarl/live-wallpaper-ecorp/internal/domain/release"
	"github.com/drkarl/live-wallpaper-ecorp/internal/engine"
)

// NewLinuxDeployer wraps bundles into Debian packages. Its options are logged.
func NewLinuxDeployer(deps DeployDeps, installer engine.Installer) Deployer {
	return &installerDeployer{
		DeployDeps: deps,
		installer:  installer,
		extension:  release.ExtPackage,
		buildSpec: func(job *release.DeploymentJob, opts *release.BuildOptions) (engine.Spec, error) {
			return release.NewDebianPackageSpec(job, opts)
		},
		logOptions: true,
	}
}
