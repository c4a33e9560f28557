package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv overrides the neuroscreen home directory.
const HomeEnv = "NEUROSCREEN_HOME"

// GetHome returns the neuroscreen home directory
// Priority order:
//  1. NEUROSCREEN_HOME environment variable (if set)
//  2. ~/.neuroscreen in the user's home directory
//  3. .neuroscreen in the current working directory (fallback)
//
// The directory is created if it doesn't exist
func GetHome() (string, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		if err := os.MkdirAll(home, 0o700); err != nil {
			return "", fmt.Errorf("create neuroscreen home directory: %w", err)
		}
		return home, nil
	}

	base, err := os.UserHomeDir()
	if err != nil || base == "" {
		// Containers and CI runners sometimes have no HOME
		base, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
	}

	home := filepath.Join(base, ".neuroscreen")
	if err := os.MkdirAll(home, 0o700); err != nil {
		return "", fmt.Errorf("create neuroscreen home directory: %w", err)
	}
	return home, nil
}

// DefaultConfigPath returns $NEUROSCREEN_HOME/config.yaml
func DefaultConfigPath() (string, error) {
	home, err := GetHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "config.yaml"), nil
}

// ResolveDataDir returns the directory records are stored in: DataDir when
// set, the neuroscreen home otherwise. The directory is created.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir == "" {
		return GetHome()
	}

	dir := expandHome(c.DataDir)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dir, nil
}

// expandHome replaces a leading "~/" with the user's home directory
func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	base, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(base, path[2:])
}
