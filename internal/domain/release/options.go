package release

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
)

// ArchAll asks the packager to build every architecture it supports.
const ArchAll = "all"

var (
	errMissingField  = errors.New("required field is empty")
	errRelativePath  = errors.New("path must be absolute")
	errInvalidIgnore = errors.New("ignore pattern does not compile")
)

// VersionInfo is the executable metadata embedded by installer engines.
type VersionInfo struct {
	CompanyName      string `json:"CompanyName"`
	FileDescription  string `json:"FileDescription"`
	OriginalFilename string `json:"OriginalFilename"`
	FileVersion      string `json:"FileVersion"`
	ProductVersion   string `json:"ProductVersion"`
	ProductName      string `json:"ProductName"`
	InternalName     string `json:"InternalName"`
}

// BuildParams carries the raw values for NewBuildOptions.
type BuildParams struct {
	SourceDir      string
	OutDir         string
	CacheDir       string
	Icon           string
	IconURL        string
	Platform       string
	Arch           string
	Name           string
	ProductName    string
	Description    string
	AppVersion     string
	RuntimeVersion string
	BuildVersion   string
	BundleID       string
	HelperBundleID string
	Company        string
	Category       string
	Copyright      string
	Ignore         []string
	VersionInfo    VersionInfo
}

// BuildOptions is the immutable packaging configuration of one platform.
// Every value a deployer reads is validated by NewBuildOptions.
type BuildOptions struct {
	p BuildParams
}

// NewBuildOptions validates params and freezes them.
func NewBuildOptions(params BuildParams) (*BuildOptions, error) {
	required := []struct {
		name  string
		value string
	}{
		{"source dir", params.SourceDir},
		{"out dir", params.OutDir},
		{"icon", params.Icon},
		{"platform", params.Platform},
		{"name", params.Name},
		{"product name", params.ProductName},
		{"app version", params.AppVersion},
		{"build version", params.BuildVersion},
		{"company", params.Company},
	}

	for _, field := range required {
		if field.value == "" {
			return nil, fmt.Errorf("%s: %w", field.name, errMissingField)
		}
	}

	for _, path := range []string{params.SourceDir, params.OutDir, params.Icon} {
		if !filepath.IsAbs(path) {
			return nil, fmt.Errorf("%s: %w", path, errRelativePath)
		}
	}

	for _, pattern := range params.Ignore {
		if _, err := regexp.Compile(pattern); err != nil {
			return nil, fmt.Errorf("%q: %w: %w", pattern, errInvalidIgnore, err)
		}
	}

	if params.Arch == "" {
		params.Arch = ArchAll
	}

	params.Ignore = slices.Clone(params.Ignore)

	return &BuildOptions{p: params}, nil
}

// SourceDir is the application tree handed to the packager.
func (o *BuildOptions) SourceDir() string { return o.p.SourceDir }

// OutDir is the staging directory the packager writes bundles into.
func (o *BuildOptions) OutDir() string { return o.p.OutDir }

// CacheDir is the packager's runtime download cache.
func (o *BuildOptions) CacheDir() string { return o.p.CacheDir }

// Icon is the absolute path of the platform application icon.
func (o *BuildOptions) Icon() string { return o.p.Icon }

// IconURL is the remote icon reference used by the Windows installer.
func (o *BuildOptions) IconURL() string { return o.p.IconURL }

// Platform is the target platform identifier.
func (o *BuildOptions) Platform() string { return o.p.Platform }

// Kind classifies Platform.
func (o *BuildOptions) Kind() Kind { return Classify(o.p.Platform) }

// Arch is the architecture selector, ArchAll by default.
func (o *BuildOptions) Arch() string { return o.p.Arch }

// Name is the normalized application file name.
func (o *BuildOptions) Name() string { return o.p.Name }

// ProductName is the human-facing product title.
func (o *BuildOptions) ProductName() string { return o.p.ProductName }

// Description is the product description.
func (o *BuildOptions) Description() string { return o.p.Description }

// AppVersion is the semantic application version.
func (o *BuildOptions) AppVersion() string { return o.p.AppVersion }

// RuntimeVersion is the packager runtime version.
func (o *BuildOptions) RuntimeVersion() string { return o.p.RuntimeVersion }

// BuildVersion is the timestamped build identifier.
func (o *BuildOptions) BuildVersion() string { return o.p.BuildVersion }

// BundleID is the macOS bundle identifier.
func (o *BuildOptions) BundleID() string { return o.p.BundleID }

// HelperBundleID is the macOS helper bundle identifier.
func (o *BuildOptions) HelperBundleID() string { return o.p.HelperBundleID }

// Company is the publishing company.
func (o *BuildOptions) Company() string { return o.p.Company }

// Category is the macOS application category type.
func (o *BuildOptions) Category() string { return o.p.Category }

// Copyright is the copyright notice.
func (o *BuildOptions) Copyright() string { return o.p.Copyright }

// Ignore returns a copy of the packager exclusion patterns.
func (o *BuildOptions) Ignore() []string { return slices.Clone(o.p.Ignore) }

// VersionInfo returns the executable metadata record.
func (o *BuildOptions) VersionInfo() VersionInfo { return o.p.VersionInfo }
