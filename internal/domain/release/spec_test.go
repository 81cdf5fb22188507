package release

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testJob(t *testing.T, source, ext string) (*DeploymentJob, *BuildOptions) {
	t.Helper()

	opts, err := NewBuildOptions(validParams())
	require.NoError(t, err)

	job, err := NewDeploymentJob(source, "/release", opts.AppVersion(), ext)
	require.NoError(t, err)

	return job, opts
}

// TestNewDiskImageSpec verifies layout, hidden entries and the target name.
func TestNewDiskImageSpec(t *testing.T) {
	t.Parallel()

	job, opts := testJob(t, "/stage/ecorp-darwin-x64", ExtDiskImage)

	spec, err := NewDiskImageSpec(job, opts)
	require.NoError(t, err)
	require.Equal(t, ArchX64, spec.Arch)
	require.Equal(t, "/release/ecorp-darwin-x64-v1.0.0/ecorp-darwin-x64-v1.0.0.dmg", spec.TargetPath())
	require.Equal(t, 640, spec.Specification.Window.Size.Width)
	require.Len(t, spec.Specification.Contents, 6)
	require.Equal(t, "/Applications", spec.Specification.Contents[0].Path)
	require.Equal(t, filepath.Join("/stage/ecorp-darwin-x64", "ecorp.app"), spec.Specification.Contents[1].Path)

	for _, entry := range spec.Specification.Contents[2:] {
		require.Equal(t, "position", entry.Type)
		require.Equal(t, 10000, entry.X)
	}
}

// TestNewWindowsInstallerSpec_FieldNames checks the JSON contract names.
func TestNewWindowsInstallerSpec_FieldNames(t *testing.T) {
	t.Parallel()

	job, opts := testJob(t, "/stage/ecorp-win32-ia32", ExtInstaller)

	spec, err := NewWindowsInstallerSpec(job, opts)
	require.NoError(t, err)
	require.Equal(t, "ecorp-win32-ia32.exe", spec.SetupExe)
	require.Equal(t, "ecorp.exe", spec.Exe)

	data, err := json.Marshal(spec.Payload())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	for _, key := range []string{"arch", "version", "appDirectory", "outputDirectory", "setupExe", "exe", "authors", "title", "name", "setupIcon", "description"} {
		require.Contains(t, doc, key)
	}

	require.Equal(t, "ia32", doc["arch"])
}

// TestNewDebianPackageSpec maps the artifact and subfolder onto src and dest.
func TestNewDebianPackageSpec(t *testing.T) {
	t.Parallel()

	job, opts := testJob(t, "/stage/ecorp-linux-x64", ExtPackage)

	spec, err := NewDebianPackageSpec(job, opts)
	require.NoError(t, err)
	require.Equal(t, &DebianPackageSpec{
		Arch: "x64",
		Src:  "/stage/ecorp-linux-x64",
		Dest: "/release/ecorp-linux-x64-v1.0.0",
		Bin:  "ecorp",
	}, spec)

	_, err = NewDebianPackageSpec(nil, opts)
	require.Error(t, err)
}
