package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestGetHomeWithEnvVar tests NEUROSCREEN_HOME takes precedence
func TestGetHomeWithEnvVar(t *testing.T) {
	customHome := filepath.Join(t.TempDir(), "custom")
	t.Setenv(HomeEnv, customHome)

	home, err := GetHome()
	if err != nil {
		t.Fatalf("GetHome() error = %v", err)
	}
	if home != customHome {
		t.Errorf("GetHome() = %q, want %q", home, customHome)
	}
	if _, err := os.Stat(home); os.IsNotExist(err) {
		t.Errorf("Directory not created: %q", home)
	}
}

// TestGetHomeUserHome tests the ~/.neuroscreen default
func TestGetHomeUserHome(t *testing.T) {
	userHome := t.TempDir()
	t.Setenv(HomeEnv, "")
	t.Setenv("HOME", userHome)

	home, err := GetHome()
	if err != nil {
		t.Fatalf("GetHome() error = %v", err)
	}
	want := filepath.Join(userHome, ".neuroscreen")
	if home != want {
		t.Errorf("GetHome() = %q, want %q", home, want)
	}
}

// TestDefaultConfigPath tests the config file lives in the home directory
func TestDefaultConfigPath(t *testing.T) {
	customHome := t.TempDir()
	t.Setenv(HomeEnv, customHome)

	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath() error = %v", err)
	}
	if want := filepath.Join(customHome, "config.yaml"); path != want {
		t.Errorf("DefaultConfigPath() = %q, want %q", path, want)
	}
}

// TestResolveDataDir tests explicit, home-relative and default data dirs
func TestResolveDataDir(t *testing.T) {
	userHome := t.TempDir()
	t.Setenv("HOME", userHome)
	t.Setenv(HomeEnv, filepath.Join(userHome, "nshome"))

	explicit := filepath.Join(t.TempDir(), "records")
	tests := []struct {
		name    string
		dataDir string
		want    string
	}{
		{"explicit", explicit, explicit},
		{"tilde", "~/screening", filepath.Join(userHome, "screening")},
		{"default", "", filepath.Join(userHome, "nshome")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DataDir = tt.dataDir

			got, err := cfg.ResolveDataDir()
			if err != nil {
				t.Fatalf("ResolveDataDir() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveDataDir() = %q, want %q", got, tt.want)
			}
			if info, err := os.Stat(got); err != nil || !info.IsDir() {
				t.Errorf("data directory %q not created", got)
			}
		})
	}
}
