package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"

	"github.com/drkarl/live-wallpaper-ecorp/internal/domain/release"
	"github.com/drkarl/live-wallpaper-ecorp/internal/logger"
)

// windowsInstallerScript drives electron-winstaller, which ships no command
// line: it loads the spec file named by its first argument.
const windowsInstallerScript = "require('electron-winstaller')" +
	".createWindowsInstaller(require(process.argv[1]))" +
	".catch((err) => (console.error(err), process.exit(1)))"

// Built-in installer commands.
//
//nolint:gochecknoglobals // Built-in engine defaults.
var (
	DefaultDiskImageCommand = []string{"appdmg", "{{.SpecFile}}", "{{.Target}}"}
	DefaultInstallerCommand = []string{"node", "-e", windowsInstallerScript, "{{.SpecFile}}"}
	DefaultDebianCommand    = []string{"electron-installer-debian", "--config", "{{.SpecFile}}"}
)

const specFilePattern = "ecorp-release-spec-*.json"

// Spec is an installer specification handed to an engine.
type Spec interface {
	// Payload is the document serialized into the spec file.
	Payload() any
	// TargetPath is what the engine is expected to produce.
	TargetPath() string
}

// Installer wraps one artifact into a platform-native installer.
type Installer interface {
	Install(ctx context.Context, spec Spec) error
}

// InstallerData is what installer argument templates render against.
type InstallerData struct {
	SpecFile string
	Target   string
	Spec     any
}

// CommandInstaller writes the spec to a temporary JSON file and runs a templated command on it.
type CommandInstaller struct {
	command *Command
	runner  Runner
	fs      afero.Fs
}

// NewCommandInstaller compiles argv, falling back to fallback when argv is empty.
// A nil fs means the OS filesystem.
func NewCommandInstaller(argv, fallback []string, runner Runner, fs afero.Fs) (*CommandInstaller, error) {
	if len(argv) == 0 {
		argv = fallback
	}

	command, err := NewCommand(argv)
	if err != nil {
		return nil, fmt.Errorf("installer: %w", err)
	}

	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &CommandInstaller{command: command, runner: runner, fs: fs}, nil
}

// Install runs the engine for spec. The spec file is removed afterwards.
func (i *CommandInstaller) Install(ctx context.Context, spec Spec) error {
	contents, err := json.MarshalIndent(spec.Payload(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode spec: %w", err)
	}

	file, err := afero.TempFile(i.fs, "", specFilePattern)
	if err != nil {
		return fmt.Errorf("create spec file: %w", err)
	}

	specFile := file.Name()

	defer func() {
		if removeErr := i.fs.Remove(specFile); removeErr != nil {
			logger.WarnKV(ctx, "Unable to remove spec file", "path", specFile, "error", removeErr)
		}
	}()

	_, err = file.Write(contents)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("write spec file: %w", err)
	}

	argv, err := i.command.Render(InstallerData{
		SpecFile: specFile,
		Target:   spec.TargetPath(),
		Spec:     spec.Payload(),
	})
	if err != nil {
		return err
	}

	return i.runner.Run(ctx, argv)
}

// Set is the engine line-up of one run.
type Set struct {
	Packager   Packager
	Installers map[release.Kind]Installer
}

// CommandSource returns the configured argv for an engine key, or nil for the default.
type CommandSource func(key string) []string

// Engine keys, matching the descriptor's build.engines section.
const (
	KeyPackager = "packager"
	KeyDarwin   = release.PlatformDarwin
	KeyWindows  = release.PlatformWindows
	KeyLinux    = release.PlatformLinux
)

// NewCommandSet builds command engines from the configured overrides.
func NewCommandSet(commands CommandSource, runner Runner, fs afero.Fs) (*Set, error) {
	if commands == nil {
		commands = func(string) []string { return nil }
	}

	packager, err := NewCommandPackager(commands(KeyPackager), runner)
	if err != nil {
		return nil, err
	}

	set := &Set{
		Packager:   packager,
		Installers: make(map[release.Kind]Installer, 3), //nolint:mnd // One per deployable kind.
	}

	installers := []struct {
		kind     release.Kind
		key      string
		fallback []string
	}{
		{release.Darwin, KeyDarwin, DefaultDiskImageCommand},
		{release.Windows, KeyWindows, DefaultInstallerCommand},
		{release.Linux, KeyLinux, DefaultDebianCommand},
	}

	for _, entry := range installers {
		installer, err := NewCommandInstaller(commands(entry.key), entry.fallback, runner, fs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.key, err)
		}

		set.Installers[entry.kind] = installer
	}

	return set, nil
}
