package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/drkarl/live-wallpaper-ecorp/internal/config"
	"github.com/drkarl/live-wallpaper-ecorp/internal/domain/release"
	"github.com/drkarl/live-wallpaper-ecorp/internal/engine"
	"github.com/drkarl/live-wallpaper-ecorp/internal/repository/archive"
)

const (
	testRoot   = "/app"
	descriptor = `{
	"name": "live-wallpaper-ecorp",
	"version": "1.4.2",
	"description": "E Corp live wallpaper",
	"build": {
		"productName": "E Corp Wallpaper",
		"platforms": ["darwin", "win32", "linux"],
		"electronVersion": "1.4.13",
		"company": "E Corp",
		"id": "com.ecorp.wallpaper",
		"category": "public.app-category.entertainment"
	}
}`
)

//nolint:gochecknoglobals // Fixed test clock.
var testNow = time.Date(2026, 10, 16, 9, 8, 7, 123_000_000, time.UTC)

func testClock() time.Time { return testNow }

func testDescriptor(t *testing.T) *config.Descriptor {
	t.Helper()

	desc, err := config.Parse([]byte(descriptor), "package.json", testRoot)
	require.NoError(t, err)

	return desc
}

// fakePackager creates <name>-<platform>-<arch> folders for every configured arch.
type fakePackager struct {
	fs    afero.Fs
	archs []string
	fail  map[string]error
}

func (p *fakePackager) Package(_ context.Context, opts *release.BuildOptions) error {
	if err := p.fail[opts.Platform()]; err != nil {
		return err
	}

	for _, arch := range p.archs {
		bundle := filepath.Join(opts.OutDir(), opts.Name()+"-"+opts.Platform()+"-"+arch)
		if err := afero.WriteFile(p.fs, filepath.Join(bundle, "resources", "app.asar"), []byte("asar"), 0o644); err != nil {
			return err
		}
	}

	return nil
}

// fakeInstaller writes a file at the spec's target, named after the subfolder.
type fakeInstaller struct {
	fs        afero.Fs
	extension string
	err       error

	mu    sync.Mutex
	specs []engine.Spec
}

func (i *fakeInstaller) Install(ctx context.Context, spec engine.Spec) error {
	i.mu.Lock()
	i.specs = append(i.specs, spec)
	i.mu.Unlock()

	if i.err != nil {
		return i.err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	target := spec.TargetPath()
	if filepath.Ext(target) != i.extension {
		target = filepath.Join(target, filepath.Base(target)+i.extension)
	}

	return afero.WriteFile(i.fs, target, []byte("installer"), 0o644)
}

func (i *fakeInstaller) calls() int {
	i.mu.Lock()
	defer i.mu.Unlock()

	return len(i.specs)
}

type testEngines struct {
	set       *engine.Set
	packager  *fakePackager
	installer map[release.Kind]*fakeInstaller
}

func newTestEngines(fs afero.Fs, archs ...string) *testEngines {
	engines := &testEngines{
		packager:  &fakePackager{fs: fs, archs: archs, fail: map[string]error{}},
		installer: map[release.Kind]*fakeInstaller{},
	}

	engines.set = &engine.Set{Packager: engines.packager, Installers: map[release.Kind]engine.Installer{}}

	for kind, ext := range map[release.Kind]string{
		release.Darwin:  release.ExtDiskImage,
		release.Windows: release.ExtInstaller,
		release.Linux:   release.ExtPackage,
	} {
		installer := &fakeInstaller{fs: fs, extension: ext}
		engines.installer[kind] = installer
		engines.set.Installers[kind] = installer
	}

	return engines
}

// failingArchiver always reports a compression failure.
type failingArchiver struct{}

func (failingArchiver) Archive(_ context.Context, source, _ string) (*archive.Result, error) {
	return nil, release.NewPhaseError(release.PhaseCompression, "", source+".zip", errors.New("disk full"))
}

func darwinHost() release.Kind { return release.Darwin }
