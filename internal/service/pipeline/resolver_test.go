package pipeline

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/drkarl/live-wallpaper-ecorp/internal/domain/release"
	"github.com/drkarl/live-wallpaper-ecorp/internal/repository/staging"
)

// TestBuildVersion renders UTC milliseconds without separators.
func TestBuildVersion(t *testing.T) {
	t.Parallel()

	require.Equal(t, "20261016090807123", BuildVersion(testNow))

	local := testNow.In(time.FixedZone("UTC+3", 3*60*60))
	require.Equal(t, "20261016090807123", BuildVersion(local))
	require.Equal(t, "20260101000000000", BuildVersion(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}

// TestAppFileName strips separators and lower-cases.
func TestAppFileName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "livewallpaperecorp", AppFileName("live-wallpaper-ecorp"))
	require.Equal(t, "ecorpapp", AppFileName("E_Corp  App"))
}

// TestResolve_Windows derives every deployer-facing field.
func TestResolve_Windows(t *testing.T) {
	t.Parallel()

	opts, err := NewResolver(testDescriptor(t), testClock).Resolve(release.PlatformWindows)
	require.NoError(t, err)

	require.Equal(t, "livewallpaperecorp", opts.Name())
	require.Equal(t, "E Corp Wallpaper", opts.ProductName())
	require.Equal(t, "1.4.2", opts.AppVersion())
	require.Equal(t, "1.4.13", opts.RuntimeVersion())
	require.Equal(t, "20261016090807123", opts.BuildVersion())
	require.Equal(t, "/app/icons/win32/icon-app.ico", opts.Icon())
	require.Equal(t, "/app/staging", opts.OutDir())
	require.Equal(t, "/app/.cache", opts.CacheDir())
	require.Equal(t, "com.ecorp.wallpaper.helper", opts.HelperBundleID())
	require.Equal(t, "Copyright © 2026", opts.Copyright())
	require.Equal(t, release.ArchAll, opts.Arch())
	require.Equal(t, release.VersionInfo{
		CompanyName:      "E Corp",
		FileDescription:  "E Corp live wallpaper",
		OriginalFilename: "livewallpaperecorp",
		FileVersion:      "1.4.2",
		ProductVersion:   "1.4.2",
		ProductName:      "livewallpaperecorp",
		InternalName:     "livewallpaperecorp",
	}, opts.VersionInfo())
}

// TestIgnorePatterns covers working directories, icons and dotfiles.
func TestIgnorePatterns(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(testDescriptor(t), testClock)

	for _, platform := range []string{release.PlatformDarwin, release.PlatformWindows, release.PlatformLinux} {
		patterns := resolver.IgnorePatterns(platform)
		require.Contains(t, patterns, `\.cache($|/)`, platform)
		require.Contains(t, patterns, "release($|/)", platform)
		require.Contains(t, patterns, "staging($|/)", platform)
		require.Contains(t, patterns, "resources($|/)", platform)
		require.Contains(t, patterns, `/\.DS_Store($|/)`, platform)
		require.Contains(t, patterns, `/\.jshintrc($|/)`, platform)
	}

	linux := resolver.IgnorePatterns(release.PlatformLinux)
	require.Contains(t, linux, "icons/darwin($|/)")
	require.Contains(t, linux, "icons/win32($|/)")
	require.NotContains(t, linux, "icons/linux($|/)")

	win := resolver.IgnorePatterns(release.PlatformWindows)
	require.Contains(t, win, "icons/linux($|/)")
	require.NotContains(t, win, "icons/win32($|/)")

	for _, pattern := range resolver.IgnorePatterns(release.PlatformDarwin) {
		require.NotContains(t, pattern, "icons/")
	}
}

// TestIgnorePatterns_RunMarker keeps the run marker out of every bundle.
func TestIgnorePatterns_RunMarker(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(testDescriptor(t), testClock)

	for _, platform := range []string{release.PlatformDarwin, release.PlatformWindows, release.PlatformLinux} {
		matched := false

		for _, pattern := range resolver.IgnorePatterns(platform) {
			re, err := regexp.Compile(pattern)
			require.NoError(t, err, pattern)

			if re.MatchString("/" + staging.MarkerFilename) {
				matched = true
			}
		}

		require.True(t, matched, platform)
	}
}

// TestResolve_EmptyPlatform is a configuration error.
func TestResolve_EmptyPlatform(t *testing.T) {
	t.Parallel()

	_, err := NewResolver(testDescriptor(t), testClock).Resolve(" ")
	require.ErrorIs(t, err, release.ErrConfiguration)
	require.Equal(t, "error (config)", release.LabelOf(err))
}

// TestRelativePattern skips directories outside the application tree.
func TestRelativePattern(t *testing.T) {
	t.Parallel()

	pattern, ok := relativePattern("/app", "/app/build/out")
	require.True(t, ok)
	require.Equal(t, "build/out($|/)", pattern)

	_, ok = relativePattern("/app", "/tmp/cache")
	require.False(t, ok)

	_, ok = relativePattern("/app", "/app")
	require.False(t, ok)
}
