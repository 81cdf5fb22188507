package staging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"
	"github.com/spf13/afero"

	"github.com/drkarl/live-wallpaper-ecorp/internal/logger"
)

const (
	// MarkerFilename marks that a release run owns the project tree.
	MarkerFilename = ".ecorp-release.lock"

	// markerLifetime is how long an unreadable marker is trusted before it is reclaimed.
	markerLifetime = 30 * time.Second

	markerFileMode os.FileMode = 0o644
)

// ErrRunInProgress is returned when another live run holds the marker.
var ErrRunInProgress = errors.New("another release run is in progress")

// ProcessAlive reports whether a process with the given PID exists.
type ProcessAlive func(pid int) bool

// Marker is a PID file that keeps two pipelines from sharing staging and release trees.
type Marker struct {
	fs    afero.Fs
	path  string
	pid   int
	alive ProcessAlive
}

// NewMarker returns a marker stored in dir. A nil fs means the OS filesystem.
func NewMarker(fs afero.Fs, dir string) *Marker {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &Marker{
		fs:    fs,
		path:  filepath.Join(dir, MarkerFilename),
		pid:   os.Getpid(),
		alive: processAlive,
	}
}

// Path is the marker file location.
func (m *Marker) Path() string {
	return m.path
}

// Acquire writes the marker, reclaiming it first when its owner is gone.
func (m *Marker) Acquire(ctx context.Context) error {
	if m.held(ctx) {
		return fmt.Errorf("%w: %s", ErrRunInProgress, m.path)
	}

	if err := m.fs.MkdirAll(filepath.Dir(m.path), DefaultDirMode); err != nil {
		return fmt.Errorf("create marker directory: %w", err)
	}

	if err := afero.WriteFile(m.fs, m.path, []byte(strconv.Itoa(m.pid)), markerFileMode); err != nil {
		return fmt.Errorf("write marker: %w", err)
	}

	logger.DebugKV(ctx, "Run marker acquired", "path", m.path, "pid", m.pid)

	return nil
}

// Release removes the marker if this process owns it.
func (m *Marker) Release(ctx context.Context) {
	owner, err := m.owner()
	if err != nil || owner != m.pid {
		return
	}

	if err = m.fs.Remove(m.path); err != nil {
		logger.WarnKV(ctx, "Unable to remove run marker", "path", m.path, "error", err)
	}
}

// held reports whether a live run other than this one owns the marker.
func (m *Marker) held(ctx context.Context) bool {
	info, err := m.fs.Stat(m.path)
	if errors.Is(err, os.ErrNotExist) {
		return false
	}

	if err != nil {
		logger.WarnKV(ctx, "Unable to read run marker", "path", m.path, "error", err)
		return false
	}

	owner, err := m.owner()
	if err != nil {
		// Possibly mid-write by a starting run.
		return time.Since(info.ModTime()) <= markerLifetime
	}

	if owner == m.pid || !m.alive(owner) {
		logger.InfoKV(ctx, "Reclaiming stale run marker", "path", m.path, "pid", owner)
		return false
	}

	return true
}

func (m *Marker) owner() (int, error) {
	contents, err := afero.ReadFile(m.fs, m.path)
	if err != nil {
		return 0, err
	}

	return strconv.Atoi(strings.TrimSpace(string(contents)))
}

// processAlive looks pid up in the process table.
func processAlive(pid int) bool {
	process, err := ps.FindProcess(pid)

	return err == nil && process != nil
}
