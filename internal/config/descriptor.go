package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultDescriptorFilename is the descriptor read when no path is given.
	DefaultDescriptorFilename = "package.json"

	// Directory names used when the descriptor does not declare them.
	DefaultStagingDirectory = "staging"
	DefaultReleaseDirectory = "release"
	DefaultCacheDirectory   = ".cache"
)

// Engine keys accepted in the descriptor's build.engines section.
const (
	EnginePackager = "packager"
	EngineDarwin   = "darwin"
	EngineWindows  = "win32"
	EngineLinux    = "linux"
)

var (
	// ErrInvalidDescriptor wraps every descriptor loading and validation failure.
	ErrInvalidDescriptor = errors.New("invalid project descriptor")

	errNameRequired      = errors.New("name is required (build.name or name)")
	errVersionRequired   = errors.New("version is required (build.version or version)")
	errPlatformsRequired = errors.New("build.platforms must list at least one platform")
	errUnknownFormat     = errors.New("unsupported descriptor format")
)

// Build is the build section of the project descriptor.
type Build struct {
	Name               string              `json:"name"               toml:"name"               yaml:"name"`
	ProductName        string              `json:"productName"        toml:"productName"        yaml:"productName"`
	ProductDescription string              `json:"productDescription" toml:"productDescription" yaml:"productDescription"`
	Version            string              `json:"version"            toml:"version"            yaml:"version"`
	Platforms          []string            `json:"platforms"          toml:"platforms"          yaml:"platforms"`
	ElectronVersion    string              `json:"electronVersion"    toml:"electronVersion"    yaml:"electronVersion"`
	Company            string              `json:"company"            toml:"company"            yaml:"company"`
	ID                 string              `json:"id"                 toml:"id"                 yaml:"id"`
	Category           string              `json:"category"           toml:"category"           yaml:"category"`
	IconURL            string              `json:"iconUrl"            toml:"iconUrl"            yaml:"iconUrl"`
	DirectoryStaging   string              `json:"directoryStaging"   toml:"directoryStaging"   yaml:"directoryStaging"`
	DirectoryRelease   string              `json:"directoryRelease"   toml:"directoryRelease"   yaml:"directoryRelease"`
	DirectoryCache     string              `json:"directoryCache"     toml:"directoryCache"     yaml:"directoryCache"`
	Engines            map[string][]string `json:"engines"            toml:"engines"            yaml:"engines"`
}

// Descriptor is the project descriptor. Load returns it fully defaulted and it
// is never mutated afterwards; components receive it as a parameter.
type Descriptor struct {
	Name        string `json:"name"        toml:"name"        yaml:"name"`
	Version     string `json:"version"     toml:"version"     yaml:"version"`
	Description string `json:"description" toml:"description" yaml:"description"`
	Build       Build  `json:"build"       toml:"build"       yaml:"build"`

	// Root is the absolute application tree the descriptor belongs to.
	Root string `json:"-" toml:"-" yaml:"-"`
}

// Load reads the descriptor at path, validates it and resolves its directories
// against root. An empty root means the descriptor's own directory.
func Load(path, root string) (*Descriptor, error) {
	if path == "" {
		path = DefaultDescriptorFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrInvalidDescriptor, path, err)
	}

	if root == "" {
		root = filepath.Dir(path)
	}

	return Parse(contents, path, root)
}

// Parse decodes and validates descriptor contents. source selects the format by
// extension and labels errors.
func Parse(contents []byte, source, root string) (*Descriptor, error) {
	format, err := formatOf(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDescriptor, source, err)
	}

	if err = validateSchema(contents, format); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDescriptor, source, err)
	}

	var desc Descriptor

	switch format {
	case formatJSON:
		err = json.Unmarshal(contents, &desc)
	case formatTOML:
		err = toml.Unmarshal(contents, &desc)
	default:
		err = yaml.Unmarshal(contents, &desc)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrInvalidDescriptor, source, err)
	}

	if err = desc.normalize(root); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDescriptor, source, err)
	}

	return &desc, nil
}

// AppName is the declared build name, falling back to the package name.
func (d *Descriptor) AppName() string {
	if d.Build.Name != "" {
		return d.Build.Name
	}

	return d.Name
}

// AppVersion is the build version override, falling back to the package version.
func (d *Descriptor) AppVersion() string {
	if d.Build.Version != "" {
		return d.Build.Version
	}

	return d.Version
}

// Platforms returns a copy of the declared target platforms.
func (d *Descriptor) Platforms() []string {
	return slices.Clone(d.Build.Platforms)
}

// StagingDir is the absolute staging directory.
func (d *Descriptor) StagingDir() string {
	return d.Build.DirectoryStaging
}

// ReleaseDir is the absolute release directory.
func (d *Descriptor) ReleaseDir() string {
	return d.Build.DirectoryRelease
}

// CacheDir is the absolute packager cache directory.
func (d *Descriptor) CacheDir() string {
	return d.Build.DirectoryCache
}

// EngineCommand returns the configured command override for an engine key.
func (d *Descriptor) EngineCommand(key string) []string {
	return slices.Clone(d.Build.Engines[key])
}

// normalize checks required fields, applies defaults and resolves directories.
func (d *Descriptor) normalize(root string) error {
	if strings.TrimSpace(d.AppName()) == "" {
		return errNameRequired
	}

	if strings.TrimSpace(d.AppVersion()) == "" {
		return errVersionRequired
	}

	if _, err := semver.NewVersion(d.AppVersion()); err != nil {
		return fmt.Errorf("version %q: %w", d.AppVersion(), err)
	}

	if len(d.Build.Platforms) == 0 {
		return errPlatformsRequired
	}

	if d.Build.ProductName == "" {
		d.Build.ProductName = d.AppName()
	}

	if d.Build.ProductDescription == "" {
		d.Build.ProductDescription = d.Description
	}

	if d.Build.Company == "" {
		d.Build.Company = d.Build.ProductName
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}

	d.Root = absRoot

	dirs := []struct {
		value    *string
		fallback string
	}{
		{&d.Build.DirectoryStaging, DefaultStagingDirectory},
		{&d.Build.DirectoryRelease, DefaultReleaseDirectory},
		{&d.Build.DirectoryCache, DefaultCacheDirectory},
	}

	for _, dir := range dirs {
		if *dir.value == "" {
			*dir.value = dir.fallback
		}

		expanded, err := homedir.Expand(*dir.value)
		if err != nil {
			return fmt.Errorf("expand %s: %w", *dir.value, err)
		}

		if !filepath.IsAbs(expanded) {
			expanded = filepath.Join(absRoot, expanded)
		}

		*dir.value = filepath.Clean(expanded)
	}

	return nil
}
