// Package dotdir resolves the .toolbelt/ directory that holds config.toml and
// credentials.toml.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirName is the name of the toolbelt directory.
const DirName = ".toolbelt"

// Manager locates the toolbelt directory. The working directory and home
// directory lookups are fields so tests can pin them.
type Manager struct {
	getwd   func() (string, error)
	homeDir func() (string, error)
}

func NewManager() *Manager {
	return &Manager{getwd: os.Getwd, homeDir: os.UserHomeDir}
}

// Target returns the absolute path of the toolbelt directory and creates it
// when missing. An override wins, then ./.toolbelt/ if it already exists, then
// ~/.toolbelt/.
func (m *Manager) Target(override string) (string, error) {
	dir, err := m.locate(override)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating toolbelt directory %s: %w", dir, err)
	}
	return filepath.Abs(dir)
}

// File returns the path of name inside Target(override).
func (m *Manager) File(override, name string) (string, error) {
	dir, err := m.Target(override)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func (m *Manager) locate(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if cwd, err := m.getwd(); err == nil {
		local := filepath.Join(cwd, DirName)
		if info, err := os.Stat(local); err == nil && info.IsDir() {
			return local, nil
		}
	}

	home, err := m.homeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}
