package manifest

import (
	"context"
	"crypto"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/drkarl/live-wallpaper-ecorp/internal/logger"

	// Ensure SHA512 available for checksum calculation.
	_ "crypto/sha512"
)

const (
	// Filename is the manifest written into the release directory.
	Filename = "release-manifest.yaml"

	// DefaultFileMode is used for the manifest file.
	DefaultFileMode os.FileMode = 0o644

	// DefaultChecksumFunction is used to calculate archive hashes.
	DefaultChecksumFunction crypto.Hash = crypto.SHA512
)

var errHashUnavailable = errors.New("hash function unavailable")

// Archive is one archived deployment.
type Archive struct {
	Platform string `yaml:"platform"`
	Arch     string `yaml:"arch"`
	File     string `yaml:"file"`
	Size     int64  `yaml:"size"`
	// Checksum is the base64-encoded SHA-512 of the archive.
	Checksum string `yaml:"sha512"`
}

// Manifest describes a published release.
type Manifest struct {
	Product      string    `yaml:"product"`
	Version      string    `yaml:"version"`
	BuildVersion string    `yaml:"buildVersion"`
	Builder      string    `yaml:"builder,omitempty"`
	CreatedAt    time.Time `yaml:"createdAt"`
	Archives     []Archive `yaml:"archives"`
}

// Store collects archives concurrently and saves the manifest once.
type Store struct {
	mu       sync.Mutex
	fs       afero.Fs
	dir      string
	manifest Manifest
}

// NewStore returns a store writing into releaseDir. A nil fs means the OS filesystem.
func NewStore(fs afero.Fs, releaseDir string, header Manifest) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	header.Archives = nil

	return &Store{fs: fs, dir: releaseDir, manifest: header}
}

// Path is the manifest file location.
func (s *Store) Path() string {
	return filepath.Join(s.dir, Filename)
}

// Record checksums the archive at path and adds it to the manifest.
func (s *Store) Record(platform, arch, path string) error {
	info, err := s.fs.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	checksum, err := Checksum(s.fs, path)
	if err != nil {
		return err
	}

	file, err := filepath.Rel(s.dir, path)
	if err != nil {
		file = filepath.Base(path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.manifest.Archives = append(s.manifest.Archives, Archive{
		Platform: platform,
		Arch:     arch,
		File:     filepath.ToSlash(file),
		Size:     info.Size(),
		Checksum: base64.StdEncoding.EncodeToString(checksum),
	})

	return nil
}

// Snapshot returns a copy of the manifest with archives sorted by file.
func (s *Store) Snapshot() Manifest {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.manifest
	snapshot.Archives = append([]Archive(nil), s.manifest.Archives...)

	sort.Slice(snapshot.Archives, func(i, j int) bool {
		return snapshot.Archives[i].File < snapshot.Archives[j].File
	})

	return snapshot
}

// Save writes the manifest as YAML.
func (s *Store) Save(ctx context.Context) error {
	snapshot := s.Snapshot()

	contents, err := yaml.Marshal(&snapshot)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err = afero.WriteFile(s.fs, s.Path(), contents, DefaultFileMode); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	logger.InfoKV(ctx, "Saved release manifest", "path", s.Path(), "archives", len(snapshot.Archives))

	return nil
}

// Checksum returns the DefaultChecksumFunction digest of a file.
func Checksum(fs afero.Fs, path string) ([]byte, error) {
	if !DefaultChecksumFunction.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	file, err := fs.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	hasher := DefaultChecksumFunction.New()
	if _, err = io.Copy(hasher, file); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
}
