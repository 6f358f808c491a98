package config

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestLoader(home, cwd string) *Loader {
	l := NewLoader(nil)
	l.homeDir = func() (string, error) { return home, nil }
	l.workDir = func() (string, error) { return cwd, nil }
	return l
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoaderLayers(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	nested := filepath.Join(project, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	writeConfig(t, filepath.Join(home, UserConfigDir, UserConfigFile), `
output:
  format: json-html
docs:
  base_url: https://user.example/
`)
	writeConfig(t, filepath.Join(project, ProjectConfigFile), `
input:
  apt_dir: docs/apt
docs:
  base_url: https://project.example/
`)
	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	writeConfig(t, explicit, `
output:
  dir: build/rules
`)

	cfg, err := newTestLoader(home, nested).Load(explicit)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// user layer survives a project layer that does not set the field
	if cfg.Output.Format != "json-html" {
		t.Errorf("expected format json-html from user config, got %s", cfg.Output.Format)
	}
	if cfg.Input.AptDir != "docs/apt" {
		t.Errorf("expected apt dir from project config, got %s", cfg.Input.AptDir)
	}
	if cfg.Docs.BaseURL != "https://project.example/" {
		t.Errorf("expected project base url to win, got %s", cfg.Docs.BaseURL)
	}
	if cfg.Output.Dir != "build/rules" {
		t.Errorf("expected explicit output dir, got %s", cfg.Output.Dir)
	}
	if cfg.Input.Catalog != "codenarc-catalog.yaml" {
		t.Errorf("expected default catalog, got %s", cfg.Input.Catalog)
	}
}

func TestLoaderDefaultsOnly(t *testing.T) {
	cfg, err := newTestLoader(t.TempDir(), t.TempDir()).Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoaderExplicitMissing(t *testing.T) {
	_, err := newTestLoader(t.TempDir(), t.TempDir()).Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestEnsureUserConfig(t *testing.T) {
	home := t.TempDir()
	l := newTestLoader(home, t.TempDir())

	path, err := l.EnsureUserConfig()
	if err != nil {
		t.Fatalf("EnsureUserConfig() error = %v", err)
	}
	if path != filepath.Join(home, UserConfigDir, UserConfigFile) {
		t.Errorf("unexpected path %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("user config not created: %v", err)
	}

	// second call leaves the file alone
	writeConfig(t, path, "output:\n  dir: custom\n")
	if _, err := l.EnsureUserConfig(); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "output:\n  dir: custom\n" {
		t.Errorf("existing user config was overwritten: %q", data)
	}
}
