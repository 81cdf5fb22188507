package pipeline

import (
	"slices"

	"github.com/drkarl/live-wallpaper-ecorp/internal/domain/release"
)

// Select picks the target platforms. A Windows or Linux host always builds
// only its own platform; other hosts honor the command line, then the descriptor.
// Duplicates are dropped, keeping the first occurrence.
func Select(host release.Kind, cli, descriptor []string) []string {
	var platforms []string

	switch {
	case host == release.Windows:
		platforms = []string{release.PlatformWindows}
	case host == release.Linux:
		platforms = []string{release.PlatformLinux}
	case len(cli) > 0:
		platforms = cli
	default:
		platforms = descriptor
	}

	selected := make([]string, 0, len(platforms))

	for _, platform := range platforms {
		if platform != "" && !slices.Contains(selected, platform) {
			selected = append(selected, platform)
		}
	}

	return selected
}
