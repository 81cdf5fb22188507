package pipeline

import (
	"github.com/drkarl/live-wallpaper-ecorp/internal/domain/release"
	"github.com/drkarl/live-wallpaper-ecorp/internal/engine"
)

// NewWindowsDeployer wraps bundles into setup executables.
func NewWindowsDeployer(deps DeployDeps, installer engine.Installer) Deployer {
	return &installerDeployer{
		DeployDeps: deps,
		installer:  installer,
		extension:  release.ExtInstaller,
		buildSpec: func(job *release.DeploymentJob, opts *release.BuildOptions) (engine.Spec, error) {
			return release.NewWindowsInstallerSpec(job, opts)
		},
	}
}
