package pipeline

import (
	"fmt"
	"time"

	"github.com/drkarl/live-wallpaper-ecorp/internal/domain/release"
)

// Plan is what a run is going to build, resolved without touching the filesystem.
type Plan struct {
	// Host is the kind of the machine running the build.
	Host release.Kind
	// Platforms are the selected targets in launch order.
	Platforms []string
	// Options holds the build options of Platforms[i] at index i.
	Options []*release.BuildOptions
	// StartedAt is when the run was planned. It stamps the manifest; each
	// platform's build version is read from the clock when it is resolved.
	StartedAt time.Time
}

// NewPlan selects platforms and resolves their options. Failures are configuration errors.
func NewPlan(opts *Options) (*Plan, error) {
	if opts == nil || opts.Descriptor == nil {
		return nil, release.NewPhaseError(release.PhaseConfig, "", "", errNoDescriptor)
	}

	if opts.Engines == nil || opts.Engines.Packager == nil {
		return nil, release.NewPhaseError(release.PhaseConfig, "", "", errNoEngines)
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	host := release.CurrentHost
	if opts.Host != nil {
		host = opts.Host
	}

	plan := &Plan{
		Host:      host(),
		StartedAt: clock(),
	}

	plan.Platforms = Select(plan.Host, opts.Platforms, opts.Descriptor.Platforms())
	if len(plan.Platforms) == 0 {
		return nil, release.NewPhaseError(release.PhaseConfig, "", "", errNoPlatforms)
	}

	resolver := NewResolver(opts.Descriptor, clock)

	for _, platform := range plan.Platforms {
		buildOpts, err := resolver.Resolve(platform)
		if err != nil {
			return nil, err
		}

		plan.Options = append(plan.Options, buildOpts)
	}

	return plan, nil
}

// Summary lists the options of platform index i as key/value pairs.
func (p *Plan) Summary(i int) [][2]string {
	opts := p.Options[i]

	return [][2]string{
		{"name", opts.Name()},
		{"product", opts.ProductName()},
		{"version", opts.AppVersion()},
		{"build", opts.BuildVersion()},
		{"arch", opts.Arch()},
		{"deployer", opts.Kind().String()},
		{"icon", opts.Icon()},
		{"out", opts.OutDir()},
		{"ignore", fmt.Sprint(len(opts.Ignore()), " patterns")},
	}
}
