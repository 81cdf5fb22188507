package release

import (
	"fmt"
	"path/filepath"
)

// Disk image window geometry and icon positions.
const (
	dmgWindowWidth  = 640
	dmgWindowHeight = 240
	dmgIconRow      = 95
	dmgLinkColumn   = 608
	dmgAppColumn    = 192
	dmgOffCanvas    = 10000
)

// dmgHiddenEntries are filesystem metadata files moved out of the mounted image view.
//
//nolint:gochecknoglobals // Fixed layout data.
var dmgHiddenEntries = []string{".background", ".DS_Store", ".Trashes", ".VolumeIcon.icns"}

// DiskImageContent is one positioned entry of the disk image window.
type DiskImageContent struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Type string `json:"type"`
	Path string `json:"path"`
}

// DiskImageSize is the disk image window size.
type DiskImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DiskImageWindow describes the disk image window.
type DiskImageWindow struct {
	Size DiskImageSize `json:"size"`
}

// DiskImageLayout is the visual specification consumed by the disk image engine.
type DiskImageLayout struct {
	Title    string             `json:"title"`
	Window   DiskImageWindow    `json:"window"`
	Contents []DiskImageContent `json:"contents"`
}

// DiskImageSpec is the Darwin installer engine contract.
type DiskImageSpec struct {
	Arch          string          `json:"arch"`
	Target        string          `json:"target"`
	Basepath      string          `json:"basepath"`
	Specification DiskImageLayout `json:"specification"`
}

// NewDiskImageSpec lays out the disk image for job. The app bundle sits next to
// a link to /Applications; metadata files are pushed off canvas.
func NewDiskImageSpec(job *DeploymentJob, opts *BuildOptions) (*DiskImageSpec, error) {
	if err := checkJob(job, opts); err != nil {
		return nil, err
	}

	contents := []DiskImageContent{
		{X: dmgLinkColumn, Y: dmgIconRow, Type: "link", Path: "/Applications"},
		{X: dmgAppColumn, Y: dmgIconRow, Type: "file", Path: filepath.Join(job.Source, opts.Name()+".app")},
	}

	for _, hidden := range dmgHiddenEntries {
		contents = append(contents, DiskImageContent{X: dmgOffCanvas, Y: dmgOffCanvas, Type: "position", Path: hidden})
	}

	return &DiskImageSpec{
		Arch:     job.Architecture,
		Target:   job.Target(),
		Basepath: "",
		Specification: DiskImageLayout{
			Title: opts.ProductName(),
			Window: DiskImageWindow{
				Size: DiskImageSize{Width: dmgWindowWidth, Height: dmgWindowHeight},
			},
			Contents: contents,
		},
	}, nil
}

// Payload is the document handed to the disk image engine.
func (s *DiskImageSpec) Payload() any { return s.Specification }

// TargetPath is the installer the engine must produce.
func (s *DiskImageSpec) TargetPath() string { return s.Target }

// WindowsInstallerSpec is the Windows installer engine contract.
type WindowsInstallerSpec struct {
	Arch            string `json:"arch"`
	Version         string `json:"version"`
	AppDirectory    string `json:"appDirectory"`
	OutputDirectory string `json:"outputDirectory"`
	SetupExe        string `json:"setupExe"`
	Exe             string `json:"exe"`
	Authors         string `json:"authors"`
	Title           string `json:"title"`
	Name            string `json:"name"`
	IconURL         string `json:"iconUrl,omitempty"`
	SetupIcon       string `json:"setupIcon"`
	Description     string `json:"description"`
}

// NewWindowsInstallerSpec builds the installer specification for job.
func NewWindowsInstallerSpec(job *DeploymentJob, opts *BuildOptions) (*WindowsInstallerSpec, error) {
	if err := checkJob(job, opts); err != nil {
		return nil, err
	}

	return &WindowsInstallerSpec{
		Arch:            job.Architecture,
		Version:         opts.AppVersion(),
		AppDirectory:    job.Source,
		OutputDirectory: job.Subfolder,
		SetupExe:        job.BaseName() + job.Extension,
		Exe:             opts.Name() + job.Extension,
		Authors:         opts.Company(),
		Title:           opts.ProductName(),
		Name:            opts.Name(),
		IconURL:         opts.IconURL(),
		SetupIcon:       opts.Icon(),
		Description:     opts.Description(),
	}, nil
}

// Payload is the document handed to the installer engine.
func (s *WindowsInstallerSpec) Payload() any { return s }

// TargetPath is the setup executable the engine must produce.
func (s *WindowsInstallerSpec) TargetPath() string {
	return filepath.Join(s.OutputDirectory, s.SetupExe)
}

// DebianPackageSpec is the Linux package engine contract.
type DebianPackageSpec struct {
	Arch string `json:"arch"`
	Src  string `json:"src"`
	Dest string `json:"dest"`
	Bin  string `json:"bin"`
}

// NewDebianPackageSpec builds the package specification for job.
func NewDebianPackageSpec(job *DeploymentJob, opts *BuildOptions) (*DebianPackageSpec, error) {
	if err := checkJob(job, opts); err != nil {
		return nil, err
	}

	return &DebianPackageSpec{
		Arch: job.Architecture,
		Src:  job.Source,
		Dest: job.Subfolder,
		Bin:  opts.Name(),
	}, nil
}

// Payload is the document handed to the package engine.
func (s *DebianPackageSpec) Payload() any { return s }

// TargetPath is the directory the engine writes the package into.
func (s *DebianPackageSpec) TargetPath() string { return s.Dest }

func checkJob(job *DeploymentJob, opts *BuildOptions) error {
	if job == nil || job.Source == "" {
		return errEmptyArtifact
	}

	if job.Subfolder == "" {
		return errEmptyRelease
	}

	if opts == nil {
		return fmt.Errorf("build options: %w", errMissingField)
	}

	return nil
}
