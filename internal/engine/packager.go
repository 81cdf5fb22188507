package engine

import (
	"context"
	"fmt"

	"github.com/drkarl/live-wallpaper-ecorp/internal/domain/release"
)

// DefaultPackagerCommand builds unpacked bundles with electron-packager.
//
//nolint:gochecknoglobals // Built-in engine defaults.
var DefaultPackagerCommand = []string{
	"electron-packager",
	"{{.Dir}}",
	"{{.Name}}",
	"--platform={{.Platform}}",
	"--arch={{.Arch}}",
	"--out={{.Out}}",
	"--icon={{.Icon}}",
	"--app-version={{.AppVersion}}",
	"--build-version={{.BuildVersion}}",
	"--app-copyright={{.Copyright}}",
	"{{with .RuntimeVersion}}--electron-version={{.}}{{end}}",
	"{{with .BundleID}}--app-bundle-id={{.}}{{end}}",
	"{{with .HelperBundleID}}--helper-bundle-id={{.}}{{end}}",
	"{{with .Category}}--app-category-type={{.}}{{end}}",
	"{{with .Cache}}--download.cacheRoot={{.}}{{end}}",
	"{{range $key, $value := .Metadata}}--win32metadata.{{$key}}={{$value}}\n{{end}}",
	"{{range .Ignore}}--ignore={{.}}\n{{end}}",
	"--overwrite",
}

// Packager builds the unpacked bundles of one platform into its output directory.
type Packager interface {
	Package(ctx context.Context, opts *release.BuildOptions) error
}

// PackagerData is what packager argument templates render against.
type PackagerData struct {
	Dir            string
	Name           string
	ProductName    string
	Description    string
	Platform       string
	Arch           string
	Out            string
	Cache          string
	Icon           string
	AppVersion     string
	BuildVersion   string
	RuntimeVersion string
	BundleID       string
	HelperBundleID string
	Company        string
	Category       string
	Copyright      string
	Ignore         []string
	// Metadata is the executable version record, set for Windows targets only.
	Metadata map[string]string
}

// NewPackagerData flattens opts for template rendering.
func NewPackagerData(opts *release.BuildOptions) PackagerData {
	data := PackagerData{
		Dir:            opts.SourceDir(),
		Name:           opts.Name(),
		ProductName:    opts.ProductName(),
		Description:    opts.Description(),
		Platform:       opts.Platform(),
		Arch:           opts.Arch(),
		Out:            opts.OutDir(),
		Cache:          opts.CacheDir(),
		Icon:           opts.Icon(),
		AppVersion:     opts.AppVersion(),
		BuildVersion:   opts.BuildVersion(),
		RuntimeVersion: opts.RuntimeVersion(),
		BundleID:       opts.BundleID(),
		HelperBundleID: opts.HelperBundleID(),
		Company:        opts.Company(),
		Category:       opts.Category(),
		Copyright:      opts.Copyright(),
		Ignore:         opts.Ignore(),
	}

	if opts.Kind() == release.Windows {
		info := opts.VersionInfo()
		data.Metadata = map[string]string{
			"CompanyName":      info.CompanyName,
			"FileDescription":  info.FileDescription,
			"OriginalFilename": info.OriginalFilename,
			"ProductName":      info.ProductName,
			"InternalName":     info.InternalName,
		}
	}

	return data
}

// CommandPackager runs a templated packager command.
type CommandPackager struct {
	command *Command
	runner  Runner
}

// NewCommandPackager compiles argv, falling back to DefaultPackagerCommand when empty.
func NewCommandPackager(argv []string, runner Runner) (*CommandPackager, error) {
	if len(argv) == 0 {
		argv = DefaultPackagerCommand
	}

	command, err := NewCommand(argv)
	if err != nil {
		return nil, fmt.Errorf("packager: %w", err)
	}

	return &CommandPackager{command: command, runner: runner}, nil
}

// Package renders the command for opts and runs it.
func (p *CommandPackager) Package(ctx context.Context, opts *release.BuildOptions) error {
	argv, err := p.command.Render(NewPackagerData(opts))
	if err != nil {
		return err
	}

	return p.runner.Run(ctx, argv)
}
