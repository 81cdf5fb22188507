package release

import (
	"runtime"
	"strings"
)

// Kind is the closed set of deployment targets.
type Kind int

// Supported deployment kinds. Unsupported platforms are packaged but never deployed.
const (
	Unsupported Kind = iota
	Darwin
	Windows
	Linux
)

// Canonical platform identifiers understood by the packager.
const (
	PlatformDarwin  = "darwin"
	PlatformWindows = "win32"
	PlatformLinux   = "linux"
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Darwin:
		return PlatformDarwin
	case Windows:
		return PlatformWindows
	case Linux:
		return PlatformLinux
	default:
		return "unsupported"
	}
}

// Classify maps a platform name onto its Kind by prefix: "darwin*", "win*" or "linux*".
func Classify(platform string) Kind {
	switch {
	case strings.HasPrefix(platform, "darwin"):
		return Darwin
	case strings.HasPrefix(platform, "win"):
		return Windows
	case strings.HasPrefix(platform, "linux"):
		return Linux
	default:
		return Unsupported
	}
}

// HostKind classifies a GOOS value. Windows and Linux hosts restrict the run to
// their own platform because their installer engines cannot cross-build.
func HostKind(goos string) Kind {
	switch strings.ToLower(goos) {
	case "darwin":
		return Darwin
	case "windows":
		return Windows
	case "linux":
		return Linux
	default:
		return Unsupported
	}
}

// CurrentHost returns the Kind of the running operating system.
func CurrentHost() Kind {
	return HostKind(runtime.GOOS)
}

// IconExtension returns the application icon file extension for a platform.
func IconExtension(platform string) string {
	switch Classify(platform) {
	case Darwin:
		return ".icns"
	case Windows:
		return ".ico"
	default:
		return ".png"
	}
}
