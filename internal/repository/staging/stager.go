package staging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/drkarl/live-wallpaper-ecorp/internal/logger"
)

// DefaultDirMode is used for every directory the stager creates.
const DefaultDirMode os.FileMode = 0o755

// Stager creates and empties staging and release directories.
type Stager interface {
	Prepare(ctx context.Context, paths ...string) error
	Clear(ctx context.Context, paths ...string) error
}

// FilesystemStager implements Stager on top of an afero filesystem.
type FilesystemStager struct {
	// fs is the filesystem the stager mutates.
	fs afero.Fs
}

var errEmptyPath = errors.New("staging path is empty")

// NewFilesystemStager returns a stager bound to fs. A nil fs means the OS filesystem.
func NewFilesystemStager(fs afero.Fs) *FilesystemStager {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &FilesystemStager{fs: fs}
}

// Prepare creates every path and its missing ancestors. Existing directories are fine.
func (s *FilesystemStager) Prepare(ctx context.Context, paths ...string) error {
	for _, path := range paths {
		abs, err := absolute(path)
		if err != nil {
			return err
		}

		if err = s.fs.MkdirAll(abs, DefaultDirMode); err != nil {
			return fmt.Errorf("create %s: %w", abs, err)
		}

		logger.DebugKV(ctx, "Creating", "path", abs)
	}

	return nil
}

// Clear removes the contents of every path, keeping the path itself.
// Missing paths and plain files have no contents and are skipped.
func (s *FilesystemStager) Clear(ctx context.Context, paths ...string) error {
	for _, path := range paths {
		abs, err := absolute(path)
		if err != nil {
			return err
		}

		info, err := s.fs.Stat(abs)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}

		if err != nil {
			return fmt.Errorf("stat %s: %w", abs, err)
		}

		if !info.IsDir() {
			logger.DebugKV(ctx, "Nothing to clear", "path", abs)
			continue
		}

		entries, err := afero.ReadDir(s.fs, abs)
		if err != nil {
			return fmt.Errorf("list %s: %w", abs, err)
		}

		for _, entry := range entries {
			if err = s.fs.RemoveAll(filepath.Join(abs, entry.Name())); err != nil {
				return fmt.Errorf("remove %s: %w", filepath.Join(abs, entry.Name()), err)
			}
		}

		logger.DebugKV(ctx, "Cleared", "path", abs, "entries", len(entries))
	}

	return nil
}

func absolute(path string) (string, error) {
	if path == "" {
		return "", errEmptyPath
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}

	return abs, nil
}
