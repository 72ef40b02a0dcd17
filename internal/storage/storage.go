// Package storage provides XDG-compliant storage path management for scour.
package storage

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
	"github.com/wizzomafizzo/scour/internal/constants"
)

// Manager handles storage operations with filesystem abstraction
type Manager struct {
	fs afero.Fs
}

// New creates a new storage manager with the given filesystem
func New(fs afero.Fs) *Manager {
	return &Manager{fs: fs}
}

// GetDataDir returns the XDG data directory for scour, creating it if necessary
func (m *Manager) GetDataDir() (string, error) {
	dataDir := filepath.Join(xdg.DataHome, constants.AppName)
	err := m.fs.MkdirAll(dataDir, 0o750)
	if err != nil {
		return "", fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}
	return dataDir, nil
}

// GetLogPath returns the full path to the scour log file
func (m *Manager) GetLogPath() (string, error) {
	dataDir, err := m.GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, constants.LogFilename), nil
}

// GetConfigDir returns the XDG config directory for scour. It is not created.
func (*Manager) GetConfigDir() string {
	return filepath.Join(xdg.ConfigHome, constants.AppName)
}

// GetUserPatternsPath returns the user-level rule file location.
func (m *Manager) GetUserPatternsPath() string {
	return filepath.Join(m.GetConfigDir(), constants.PatternsFilename)
}

// ResolvePatternsPath picks the rule file to load. An explicit path is used
// as is. Otherwise the default file in the working directory wins, then the
// user-level file; if neither exists the working directory default is
// returned so the caller reports a useful error.
func (m *Manager) ResolvePatternsPath(path string, explicit bool) string {
	if explicit {
		return path
	}

	if exists, _ := afero.Exists(m.fs, path); exists {
		return path
	}

	userPath := m.GetUserPatternsPath()
	if exists, _ := afero.Exists(m.fs, userPath); exists {
		return userPath
	}

	return path
}
