package packager

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/drkarl/live-wallpaper-ecorp/internal/domain/release"
	"github.com/drkarl/live-wallpaper-ecorp/internal/engine"
	"github.com/drkarl/live-wallpaper-ecorp/internal/logger"
)

// errNoBundles indicates the engine succeeded but left nothing to deploy.
var errNoBundles = errors.New("packager produced no bundles")

// Invoker packages one platform at a time. It is safe for concurrent use as
// long as the engine is.
type Invoker struct {
	// engine builds the bundles.
	engine engine.Packager
	// fs is where the bundles are looked up afterwards.
	fs afero.Fs
}

// NewInvoker returns an invoker for the given engine. A nil fs means the OS filesystem.
func NewInvoker(packager engine.Packager, fs afero.Fs) *Invoker {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &Invoker{engine: packager, fs: fs}
}

// Package builds opts' platform and returns the absolute bundle paths, sorted.
// Every failure is a build-phase error.
func (i *Invoker) Package(ctx context.Context, opts *release.BuildOptions) (release.Artifact, error) {
	ctx = logger.WithKV(ctx, "platform", opts.Platform())

	logger.InfoKV(ctx, "Packaging", "arch", opts.Arch(), "version", opts.AppVersion(), "build", opts.BuildVersion())

	if err := i.engine.Package(ctx, opts); err != nil {
		return nil, release.NewPhaseError(release.PhaseBuild, opts.Platform(), opts.SourceDir(), err)
	}

	artifact, err := i.collect(opts)
	if err != nil {
		return nil, release.NewPhaseError(release.PhaseBuild, opts.Platform(), opts.OutDir(), err)
	}

	logger.InfoKV(ctx, "Packaged", "bundles", len(artifact))

	return artifact, nil
}

// collect lists the <name>-<platform>-<arch> directories under the output directory.
func (i *Invoker) collect(opts *release.BuildOptions) (release.Artifact, error) {
	entries, err := afero.ReadDir(i.fs, opts.OutDir())
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", opts.OutDir(), err)
	}

	prefix := opts.Name() + "-" + opts.Platform() + "-"

	var artifact release.Artifact

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}

		artifact = append(artifact, filepath.Join(opts.OutDir(), entry.Name()))
	}

	if len(artifact) == 0 {
		return nil, fmt.Errorf("%w: %s*", errNoBundles, filepath.Join(opts.OutDir(), prefix))
	}

	sort.Strings(artifact)

	return artifact, nil
}
