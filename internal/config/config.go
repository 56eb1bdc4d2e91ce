package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	BackendEbiten   = "ebiten"
	BackendHeadless = "headless"
)

type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Resizable  bool   `yaml:"resizable"`
	Fullscreen bool   `yaml:"fullscreen"`
	Maximize   bool   `yaml:"maximize"`
}

type HUDConfig struct {
	Enabled bool `yaml:"enabled"`
}

type SceneConfig struct {
	// Path is loaded at startup when set.
	Path     string `yaml:"path"`
	Compress bool   `yaml:"compress"`
	Password string `yaml:"password"`
}

type Config struct {
	Backend     string       `yaml:"backend"`
	Window      WindowConfig `yaml:"window"`
	Animating   bool         `yaml:"animating"`
	ExtraFrames int          `yaml:"extra_frames"`
	LogLevel    string       `yaml:"log_level"`
	HUD         HUDConfig    `yaml:"hud"`
	Scene       SceneConfig  `yaml:"scene"`
}

func DefaultConfig() *Config {
	return &Config{
		Backend: BackendEbiten,
		Window: WindowConfig{
			Title:     "viewer",
			Width:     1280,
			Height:    800,
			Resizable: true,
		},
		ExtraFrames: 5,
		LogLevel:    "info",
		HUD:         HUDConfig{Enabled: true},
		Scene:       SceneConfig{Compress: true},
	}
}

// DefaultConfigPath resolves $XDG_CONFIG_HOME/viewer/config.yaml, falling
// back to ~/.config.
func DefaultConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "viewer", "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "viewer", "config.yaml"), nil
}

func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath overlays the YAML file at path onto the defaults. A missing
// file is not an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendEbiten, BackendHeadless:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.ExtraFrames < 0 {
		return fmt.Errorf("extra_frames must be >= 0, got %d", c.ExtraFrames)
	}
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("window size must not be negative, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps log_level to a slog level. Empty means info.
func (c *Config) SlogLevel() slog.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", s)
}
