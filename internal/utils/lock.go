package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const (
	lockFileSuffix = ".lock"
)

// ErrLocked is returned by TryLock when another process holds the run lock.
var ErrLocked = errors.New("run lock is held by another process")

// RunLock manages a file-based lock guarding writes to the export file.
type RunLock struct {
	lock *flock.Flock
	path string
}

// NewRunLock creates a new lock for the given export path.
func NewRunLock(exportPath string) (*RunLock, error) {
	absPath, err := GetAbsExportPath(exportPath)
	if err != nil {
		return nil, fmt.Errorf("could not get absolute export path: %w", err)
	}
	lockPath := absPath + lockFileSuffix
	return &RunLock{
		lock: flock.New(lockPath),
		path: lockPath,
	}, nil
}

// TryLock acquires the lock without waiting.
// It returns ErrLocked if another process is already running an ingestion.
func (l *RunLock) TryLock() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create lock directory for %s: %w", l.path, err)
	}
	locked, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", l.path, err)
	}
	if !locked {
		return ErrLocked
	}
	return nil
}

// Unlock releases the lock.
func (l *RunLock) Unlock() error {
	if err := l.lock.Unlock(); err != nil {
		// Suppress error if the lock file doesn't exist, as it means we don't hold the lock.
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}

// Path returns the lock file location.
func (l *RunLock) Path() string {
	return l.path
}

// GetAbsExportPath resolves the export path.
func GetAbsExportPath(exportPath string) (string, error) {
	if exportPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "rptrscope", "utah_repeaters.csv"), nil
	}
	return filepath.Abs(exportPath)
}
