// Package config loads harness settings from defaults, an optional YAML
// file, an optional .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvBaseURL        = "BASE_URL"
	EnvTimeout        = "TIMEOUT"         // milliseconds
	EnvViewportWidth  = "VIEWPORT_WIDTH"  // pixels
	EnvViewportHeight = "VIEWPORT_HEIGHT" // pixels
	EnvHeadless       = "HEADLESS"        // "true" enables headless mode
	EnvSlowMotion     = "SLOW_MO"         // milliseconds
	EnvScreenshotDir  = "SCREENSHOT_DIR"
	EnvLogLevel       = "LOG_LEVEL"
)

// Viewport is the default browser window size.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config holds harness configuration.
type Config struct {
	BaseURL       string        `yaml:"base_url"`
	Timeout       time.Duration `yaml:"timeout"`
	Viewport      Viewport      `yaml:"viewport"`
	Headless      bool          `yaml:"headless"`
	SlowMotion    time.Duration `yaml:"slow_motion"`
	ScreenshotDir string        `yaml:"screenshot_dir"`
	LogLevel      string        `yaml:"log_level"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		BaseURL:       "http://localhost:5000",
		Timeout:       30 * time.Second,
		Viewport:      Viewport{Width: 1280, Height: 720},
		Headless:      true,
		SlowMotion:    0,
		ScreenshotDir: "screenshots",
		LogLevel:      "info",
	}
}

// Load builds a Config. An empty path or a missing file leaves the defaults
// in place; a .env file in the working directory is loaded if present.
// Variables already set in the environment win over .env values.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnvOverrides(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// FromEnv is Load without a config file.
func FromEnv() (Config, error) {
	return Load("")
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnvOverrides(lookup lookupFunc) error {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		ms, err := parseInt(EnvTimeout, v)
		if err != nil {
			return err
		}
		c.Timeout = time.Duration(ms) * time.Millisecond
	}
	if v, ok := lookup(EnvViewportWidth); ok && v != "" {
		n, err := parseInt(EnvViewportWidth, v)
		if err != nil {
			return err
		}
		c.Viewport.Width = n
	}
	if v, ok := lookup(EnvViewportHeight); ok && v != "" {
		n, err := parseInt(EnvViewportHeight, v)
		if err != nil {
			return err
		}
		c.Viewport.Height = n
	}
	if v, ok := lookup(EnvHeadless); ok && v != "" {
		c.Headless = strings.EqualFold(strings.TrimSpace(v), "true")
	}
	if v, ok := lookup(EnvSlowMotion); ok && v != "" {
		ms, err := parseInt(EnvSlowMotion, v)
		if err != nil {
			return err
		}
		c.SlowMotion = time.Duration(ms) * time.Millisecond
	}
	if v, ok := lookup(EnvScreenshotDir); ok && v != "" {
		c.ScreenshotDir = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	return nil
}

func parseInt(key, v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

// Validate checks the configuration for unusable values.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base url %q must be absolute", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", c.Viewport.Width, c.Viewport.Height)
	}
	if c.SlowMotion < 0 {
		return fmt.Errorf("slow motion must not be negative, got %s", c.SlowMotion)
	}
	return nil
}

// URL joins p onto BaseURL.
func (c Config) URL(p string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(p, "/")
}
