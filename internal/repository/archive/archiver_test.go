package archive

import (
	"bytes"
	"context"
	"sort"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/drkarl/live-wallpaper-ecorp/internal/domain/release"
)

const folder = "/release/ecorp-linux-x64-v1.0.0"

func seed(t *testing.T, fs afero.Fs) {
	t.Helper()

	files := map[string]string{
		folder + "/ecorp_1.0.0_amd64.deb": "package",
		folder + "/logs/engine.log":       "log",
		folder + "/notes.txt":             "notes",
	}

	for name, contents := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(contents), 0o644))
	}
}

func entryNames(t *testing.T, fs afero.Fs, path string) []string {
	t.Helper()

	contents, err := afero.ReadFile(fs, path)
	require.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(contents), int64(len(contents)))
	require.NoError(t, err)

	names := make([]string, 0, len(reader.File))
	for _, file := range reader.File {
		names = append(names, file.Name)
	}

	sort.Strings(names)

	return names
}

// TestArchive_Directory zips every descendant and removes the source.
func TestArchive_Directory(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	seed(t, fs)

	result, err := NewArchiver(fs).Archive(context.Background(), folder, "")
	require.NoError(t, err)
	require.Equal(t, folder+".zip", result.Path)
	require.Equal(t, 3, result.Files)
	require.Positive(t, result.Size)

	require.Equal(t, []string{
		"ecorp-linux-x64-v1.0.0/ecorp_1.0.0_amd64.deb",
		"ecorp-linux-x64-v1.0.0/logs/engine.log",
		"ecorp-linux-x64-v1.0.0/notes.txt",
	}, entryNames(t, fs, result.Path))

	exists, err := afero.Exists(fs, folder)
	require.NoError(t, err)
	require.False(t, exists)
}

// TestArchive_ExtensionFilter keeps only installer files.
func TestArchive_ExtensionFilter(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	seed(t, fs)

	result, err := NewArchiver(fs).Archive(context.Background(), folder, release.ExtPackage)
	require.NoError(t, err)
	require.Equal(t, []string{"ecorp-linux-x64-v1.0.0/ecorp_1.0.0_amd64.deb"}, entryNames(t, fs, result.Path))
}

// TestArchive_File zips a single file under its basename.
func TestArchive_File(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	seed(t, fs)

	source := folder + "/notes.txt"

	result, err := NewArchiver(fs).Archive(context.Background(), source, "")
	require.NoError(t, err)
	require.Equal(t, []string{"notes.txt"}, entryNames(t, fs, result.Path))
}

// TestArchive_MissingSource is a packaging-phase failure.
func TestArchive_MissingSource(t *testing.T) {
	t.Parallel()

	_, err := NewArchiver(afero.NewMemMapFs()).Archive(context.Background(), "/release/none", "")
	require.ErrorIs(t, err, release.ErrArchival)
	require.Equal(t, "error (packaging)", release.LabelOf(err))

	_, err = NewArchiver(afero.NewMemMapFs()).Archive(context.Background(), "", "")
	require.ErrorIs(t, err, errEmptySource)
}

// TestArchive_CompressionFailure keeps the source and leaves no archive.
func TestArchive_CompressionFailure(t *testing.T) {
	t.Parallel()

	base := afero.NewMemMapFs()
	seed(t, base)

	_, err := NewArchiver(afero.NewReadOnlyFs(base)).Archive(context.Background(), folder, "")
	require.ErrorIs(t, err, release.ErrArchival)
	require.Equal(t, "error (compression)", release.LabelOf(err))

	exists, err := afero.Exists(base, folder+"/notes.txt")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = afero.Exists(base, folder+".zip")
	require.NoError(t, err)
	require.False(t, exists)
}
