// Package config loads viewer settings from an optional YAML file with
// environment overrides. Absent keys keep their defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dsa110/dsa110-contimg-sub002/internal/overlay"
)

const (
	configPathEnv    = "DSA110_SKYMAP_CONFIG"
	apiURLEnv        = "DSA110_SKYMAP_API_URL"
	backgroundURLEnv = "DSA110_SKYMAP_BACKGROUND_URL"

	// defaultHorizonDecDeg is the southern declination limit of the array;
	// the sky below it is shaded as unobservable.
	defaultHorizonDecDeg = -52.8
)

// Config holds all viewer settings.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Map      MapConfig      `yaml:"map"`
	Overlays OverlayConfig  `yaml:"overlays"`
	Playback PlaybackConfig `yaml:"playback"`

	// Footprints replaces the built-in survey footprint set when present.
	Footprints []overlay.Footprint `yaml:"footprints"`
}

// APIConfig describes the pipeline API connection.
type APIConfig struct {
	BaseURL        string `yaml:"baseUrl"`
	RefreshSeconds int    `yaml:"refreshSeconds"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// RefreshInterval returns the fetch cadence.
func (a APIConfig) RefreshInterval() time.Duration {
	if a.RefreshSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(a.RefreshSeconds) * time.Second
}

// Timeout returns the per-request HTTP timeout.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// MapConfig holds projection and rendering defaults.
type MapConfig struct {
	Projection       string  `yaml:"projection"`
	ColorScheme      string  `yaml:"colorScheme"`
	BackgroundURL    string  `yaml:"backgroundUrl"`
	DefaultRadiusDeg float64 `yaml:"defaultRadiusDeg"`

	// EpochPalette replaces the built-in epoch color cycle when present.
	EpochPalette []string `yaml:"epochPalette"`
}

// OverlayConfig selects which reference curves start enabled.
type OverlayConfig struct {
	Graticule          bool    `yaml:"graticule"`
	GalacticPlane      bool    `yaml:"galacticPlane"`
	Ecliptic           bool    `yaml:"ecliptic"`
	Horizon            bool    `yaml:"horizon"`
	HorizonDecLimitDeg float64 `yaml:"horizonDecLimitDeg"`
	Surveys            bool    `yaml:"surveys"`
}

// PlaybackConfig holds timeline playback defaults.
type PlaybackConfig struct {
	Speed float64 `yaml:"speed"`
}

// Load reads configuration from the given path, or from the path in
// DSA110_SKYMAP_CONFIG when empty, then applies environment overrides. A
// missing file is not an error; a present but unreadable one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		// Unmarshal over defaults: absent keys keep their default values.
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(apiURLEnv); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(backgroundURLEnv); v != "" {
		c.Map.BackgroundURL = v
	}
}

// SurveyFootprints returns the configured footprint set, falling back to
// the built-in surveys.
func (c Config) SurveyFootprints() []overlay.Footprint {
	if len(c.Footprints) > 0 {
		return c.Footprints
	}
	return overlay.BuiltinFootprints()
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8000",
			RefreshSeconds: 30,
			TimeoutSeconds: 30,
		},
		Map: MapConfig{
			Projection:       "aitoff",
			ColorScheme:      "status",
			DefaultRadiusDeg: 1.6,
		},
		Overlays: OverlayConfig{
			Graticule:          true,
			GalacticPlane:      true,
			Ecliptic:           false,
			Horizon:            true,
			HorizonDecLimitDeg: defaultHorizonDecDeg,
			Surveys:            true,
		},
		Playback: PlaybackConfig{Speed: 1.0},
	}
}
