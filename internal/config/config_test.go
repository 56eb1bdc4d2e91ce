package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendEbiten || cfg.ExtraFrames != 5 || !cfg.HUD.Enabled {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFromPath_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
backend: headless
window:
  title: bunny
  width: 640
extra_frames: 0
log_level: debug
hud:
  enabled: false
`)
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendHeadless {
		t.Fatalf("expected headless backend, got %q", cfg.Backend)
	}
	if cfg.Window.Title != "bunny" || cfg.Window.Width != 640 || cfg.Window.Height != 800 {
		t.Fatalf("unexpected window config: %+v", cfg.Window)
	}
	if !cfg.Window.Resizable {
		t.Fatal("expected resizable default to survive overlay")
	}
	if cfg.ExtraFrames != 0 || cfg.HUD.Enabled {
		t.Fatalf("unexpected overlay: %+v", cfg)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", cfg.SlogLevel())
	}
}

func TestLoadFromPath_RejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"backend":      "backend: vulkan\n",
		"extra_frames": "extra_frames: -1\n",
		"log_level":    "log_level: chatty\n",
		"syntax":       "window: [\n",
	}
	for name, body := range cases {
		_, err := LoadFromPath(writeConfig(t, body))
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if name != "syntax" && !strings.Contains(err.Error(), name) && !strings.Contains(err.Error(), "backend") {
			t.Fatalf("%s: unexpected error %v", name, err)
		}
	}
}

func TestDefaultConfigPath_UsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "viewer", "config.yaml") {
		t.Fatalf("unexpected path %q", path)
	}
}
