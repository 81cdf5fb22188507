package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gobwas/glob"
	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"

	"github.com/drkarl/live-wallpaper-ecorp/internal/domain/release"
	"github.com/drkarl/live-wallpaper-ecorp/internal/logger"
)

// Extension is appended to the source path to name the archive.
const Extension = ".zip"

var errEmptySource = errors.New("archive source is empty")

// Result describes a written archive.
type Result struct {
	// Path is the absolute archive location.
	Path string
	// Size is the archive size in bytes.
	Size int64
	// Files is the number of entries written.
	Files int
}

// Archiver zips a file or directory next to itself and removes the original.
type Archiver struct {
	fs afero.Fs
}

// NewArchiver returns an archiver bound to fs. A nil fs means the OS filesystem.
func NewArchiver(fs afero.Fs) *Archiver {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &Archiver{fs: fs}
}

// entry is one file selected for the archive.
type entry struct {
	path string
	name string
	info os.FileInfo
}

// Archive writes <source>.zip. A directory contributes every descendant file,
// a file contributes itself; a non-empty allowedExtension keeps only files
// ending in it. The source is deleted once the archive is complete.
//
// Selection failures are packaging-phase errors and write failures are
// compression-phase errors. On failure the source stays and no partial archive is left.
func (a *Archiver) Archive(ctx context.Context, source, allowedExtension string) (*Result, error) {
	if source == "" {
		return nil, release.NewPhaseError(release.PhasePackaging, "", source, errEmptySource)
	}

	source, err := filepath.Abs(source)
	if err != nil {
		return nil, release.NewPhaseError(release.PhasePackaging, "", source, err)
	}

	entries, err := a.selectEntries(source, allowedExtension)
	if err != nil {
		return nil, release.NewPhaseError(release.PhasePackaging, "", source, err)
	}

	target := source + Extension

	size, err := a.compress(target, entries)
	if err != nil {
		if removeErr := a.fs.Remove(target); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			logger.WarnKV(ctx, "Unable to remove partial archive", "path", target, "error", removeErr)
		}

		return nil, release.NewPhaseError(release.PhaseCompression, "", target, err)
	}

	if err = a.fs.RemoveAll(source); err != nil {
		logger.WarnKV(ctx, "Unable to remove archived source", "path", source, "error", err)
	}

	logger.InfoKV(ctx, "Package ready", "path", target, "size", humanize.Bytes(uint64(size)), "files", len(entries))

	return &Result{Path: target, Size: size, Files: len(entries)}, nil
}

// selectEntries resolves the files to archive. Entry names are slash-separated
// and start with the source basename.
func (a *Archiver) selectEntries(source, allowedExtension string) ([]entry, error) {
	info, err := a.fs.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}

	base := filepath.Base(source)
	pattern := glob.QuoteMeta(base)

	if info.IsDir() {
		pattern += "/**"
	}

	matcher, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("compile selection %q: %w", pattern, err)
	}

	var entries []entry

	err = afero.Walk(a.fs, source, func(current string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(filepath.Dir(source), current)
		if err != nil {
			return err
		}

		name := filepath.ToSlash(rel)
		if !matcher.Match(name) {
			return nil
		}

		if allowedExtension != "" && !strings.HasSuffix(name, allowedExtension) {
			return nil
		}

		entries = append(entries, entry{path: current, name: name, info: info})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk: %w", err)
	}

	return entries, nil
}

// compress writes entries into target and returns its size.
func (a *Archiver) compress(target string, entries []entry) (int64, error) {
	file, err := a.fs.Create(target)
	if err != nil {
		return 0, fmt.Errorf("create: %w", err)
	}

	writer := zip.NewWriter(file)

	for _, e := range entries {
		if err = a.add(writer, e); err != nil {
			_ = writer.Close()
			_ = file.Close()

			return 0, err
		}
	}

	if err = writer.Close(); err != nil {
		_ = file.Close()
		return 0, fmt.Errorf("finish: %w", err)
	}

	if err = file.Close(); err != nil {
		return 0, fmt.Errorf("close: %w", err)
	}

	info, err := a.fs.Stat(target)
	if err != nil {
		return 0, fmt.Errorf("stat: %w", err)
	}

	return info.Size(), nil
}

func (a *Archiver) add(writer *zip.Writer, e entry) error {
	header, err := zip.FileInfoHeader(e.info)
	if err != nil {
		return fmt.Errorf("header %s: %w", e.name, err)
	}

	header.Name = path.Clean(e.name)
	header.Method = zip.Deflate

	dst, err := writer.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("add %s: %w", e.name, err)
	}

	src, err := a.fs.Open(e.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", e.path, err)
	}
	defer src.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return fmt.Errorf("compress %s: %w", e.name, err)
	}

	return nil
}
