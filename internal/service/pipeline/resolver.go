package pipeline

import (
	"errors"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/drkarl/live-wallpaper-ecorp/internal/config"
	"github.com/drkarl/live-wallpaper-ecorp/internal/domain/release"
	"github.com/drkarl/live-wallpaper-ecorp/internal/repository/staging"
)

// buildVersionLayout renders UTC time as YYYYMMDDhhmmss.mmm; the dot is dropped.
const buildVersionLayout = "20060102150405.000"

// ignoreSuffix anchors a relative path pattern to the path or anything below it.
const ignoreSuffix = "($|/)"

var (
	errEmptyPlatform = errors.New("platform is empty")

	fileNameStrip = regexp.MustCompile(`_|-|\s+`)

	//nolint:gochecknoglobals // Fixed exclusion list.
	dotfileIgnores = []string{
		`/\.DS_Store`, `/\.idea`, `/\.editorconfig`,
		`/\.gitignore`, `/\.npmignore`,
		`/\.jscsrc`, `/\.jshintrc`,
	}

	//nolint:gochecknoglobals // Platforms that own an icon folder.
	iconPlatforms = []string{release.PlatformDarwin, release.PlatformWindows, release.PlatformLinux}
)

// Clock returns the current time.
type Clock func() time.Time

// Resolver derives per-platform BuildOptions from the project descriptor.
type Resolver struct {
	desc *config.Descriptor
	now  Clock
}

// NewResolver returns a resolver for desc. A nil clock means time.Now.
func NewResolver(desc *config.Descriptor, now Clock) *Resolver {
	if now == nil {
		now = time.Now
	}

	return &Resolver{desc: desc, now: now}
}

// Resolve builds the packaging options of one platform. Failures are configuration errors.
func (r *Resolver) Resolve(platform string) (*release.BuildOptions, error) {
	if strings.TrimSpace(platform) == "" {
		return nil, release.NewPhaseError(release.PhaseConfig, "", "", errEmptyPlatform)
	}

	now := r.now().UTC()
	name := AppFileName(r.desc.AppName())
	appVersion := r.desc.AppVersion()
	build := r.desc.Build

	helperBundleID := ""
	if build.ID != "" {
		helperBundleID = build.ID + ".helper"
	}

	opts, err := release.NewBuildOptions(release.BuildParams{
		SourceDir:      r.desc.Root,
		OutDir:         r.desc.StagingDir(),
		CacheDir:       r.desc.CacheDir(),
		Icon:           IconPath(r.desc.Root, platform),
		IconURL:        build.IconURL,
		Platform:       platform,
		Arch:           release.ArchAll,
		Name:           name,
		ProductName:    build.ProductName,
		Description:    build.ProductDescription,
		AppVersion:     appVersion,
		RuntimeVersion: build.ElectronVersion,
		BuildVersion:   BuildVersion(now),
		BundleID:       build.ID,
		HelperBundleID: helperBundleID,
		Company:        build.Company,
		Category:       build.Category,
		Copyright:      "Copyright © " + strconv.Itoa(now.Year()),
		Ignore:         r.IgnorePatterns(platform),
		VersionInfo: release.VersionInfo{
			CompanyName:      build.Company,
			FileDescription:  build.ProductDescription,
			OriginalFilename: name,
			FileVersion:      appVersion,
			ProductVersion:   appVersion,
			ProductName:      name,
			InternalName:     name,
		},
	})
	if err != nil {
		return nil, release.NewPhaseError(release.PhaseConfig, platform, "", err)
	}

	return opts, nil
}

// IgnorePatterns lists the packager exclusions for platform. Working directories
// are always excluded; non-darwin builds also drop other platforms' icon folders.
func (r *Resolver) IgnorePatterns(platform string) []string {
	patterns := make([]string, 0, 16) //nolint:mnd // Typical pattern count.

	for _, dir := range []string{r.desc.CacheDir(), r.desc.ReleaseDir(), r.desc.StagingDir()} {
		if pattern, ok := relativePattern(r.desc.Root, dir); ok {
			patterns = append(patterns, pattern)
		}
	}

	if release.Classify(platform) != release.Darwin {
		for _, icons := range iconPlatforms {
			if icons == platform {
				continue
			}

			patterns = append(patterns, regexp.QuoteMeta("icons/"+icons)+ignoreSuffix)
		}
	}

	patterns = append(patterns, "resources"+ignoreSuffix, "cache"+ignoreSuffix)

	for _, dotfile := range dotfileIgnores {
		patterns = append(patterns, dotfile+ignoreSuffix)
	}

	// The run marker sits in the application tree while the packager reads it.
	patterns = append(patterns, "/"+regexp.QuoteMeta(staging.MarkerFilename)+ignoreSuffix)

	return patterns
}

// relativePattern turns dir into a pattern relative to root. Directories
// outside root never reach the packager and are skipped.
func relativePattern(root, dir string) (string, bool) {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}

	return regexp.QuoteMeta(filepath.ToSlash(rel)) + ignoreSuffix, true
}

// AppFileName strips "_", "-" and whitespace from name and lower-cases it.
func AppFileName(name string) string {
	return strings.ToLower(fileNameStrip.ReplaceAllString(name, ""))
}

// BuildVersion renders t in UTC as YYYYMMDDhhmmssmmm.
func BuildVersion(t time.Time) string {
	return strings.Replace(t.UTC().Format(buildVersionLayout), ".", "", 1)
}

// IconPath is <root>/icons/<platform>/icon-app<ext>.
func IconPath(root, platform string) string {
	return filepath.Join(root, "icons", platform, "icon-app"+release.IconExtension(platform))
}
