package release

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Architecture names derived from artifact basenames.
const (
	ArchX64  = "x64"
	ArchIA32 = "ia32"
)

// Installer extensions per deployment kind.
const (
	ExtDiskImage = ".dmg"
	ExtInstaller = ".exe"
	ExtPackage   = ".deb"
)

var (
	errEmptyArtifact = errors.New("artifact path is empty")
	errEmptyRelease  = errors.New("release directory is empty")
	whitespace       = regexp.MustCompile(`\s+`)
)

// Artifact is the ordered list of unpacked bundles the packager built for one
// platform, one absolute path per architecture.
type Artifact []string

// ArchitectureOf derives the architecture from a bundle path. The "x64" marker
// counts only past the first two characters of the basename.
func ArchitectureOf(path string) string {
	if strings.Index(filepath.Base(path), ArchX64) > 1 {
		return ArchX64
	}

	return ArchIA32
}

// SubfolderName normalizes a bundle basename into its deployment folder name:
// whitespace becomes "_", the result is lower-cased and suffixed with "-v<version>".
func SubfolderName(path, appVersion string) string {
	base := whitespace.ReplaceAllString(filepath.Base(path), "_")

	return strings.ToLower(base) + "-v" + appVersion
}

// DeploymentJob is the working record of one artifact's deployment.
type DeploymentJob struct {
	Source       string
	Architecture string
	Subfolder    string
	Extension    string
}

// NewDeploymentJob derives the job for artifact path under releaseDir.
func NewDeploymentJob(path, releaseDir, appVersion, extension string) (*DeploymentJob, error) {
	if path == "" {
		return nil, errEmptyArtifact
	}

	if releaseDir == "" {
		return nil, errEmptyRelease
	}

	if appVersion == "" {
		return nil, fmt.Errorf("app version: %w", errMissingField)
	}

	absRelease, err := filepath.Abs(releaseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve release directory: %w", err)
	}

	return &DeploymentJob{
		Source:       path,
		Architecture: ArchitectureOf(path),
		Subfolder:    filepath.Join(absRelease, SubfolderName(path, appVersion)),
		Extension:    extension,
	}, nil
}

// BaseName is the basename of the source bundle.
func (j *DeploymentJob) BaseName() string {
	return filepath.Base(j.Source)
}

// Target is the installer path inside the subfolder, named after it.
func (j *DeploymentJob) Target() string {
	return filepath.Join(j.Subfolder, filepath.Base(j.Subfolder)+j.Extension)
}

// ArchivePath is where the Archiver will write the compressed subfolder.
func (j *DeploymentJob) ArchivePath() string {
	return j.Subfolder + ".zip"
}
