// Package dotdir manages the .policyqa/ and ~/.policyqa directories.
//
// The dot dir holds config.toml and the state of the last ingestion run.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DirName is the name of the policyqa directory.
	DirName = ".policyqa"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the target absolute path to a .policyqa/ directory.
// Order of precedence is as follows:
//  1. Provided override, created if missing
//  2. Local ./.policyqa/ dir
//  3. Home ~/.policyqa/ dir
//  4. If none found, an empty string
func (m *Manager) Target(overrideDir string) (string, error) {
	switch {
	case overrideDir != "":
		if err := os.MkdirAll(overrideDir, 0o755); err != nil {
			return "", fmt.Errorf("creating policyqa directory %s: %w", overrideDir, err)
		}
		return filepath.Abs(overrideDir)

	case m.localDirExists():
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		return filepath.Join(cwd, DirName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	dir := filepath.Join(home, DirName)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir, nil
	}

	return "", nil
}

// Init creates a local ./.policyqa/ directory, or overrideDir when set, and
// returns its absolute path.
func (m *Manager) Init(overrideDir string) (string, error) {
	if overrideDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		overrideDir = filepath.Join(cwd, DirName)
	}
	return m.Target(overrideDir)
}

// localDirExists checks whether a .policyqa/ directory exists in the current
// working directory.
func (m *Manager) localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, DirName))
	return err == nil && info.IsDir()
}
