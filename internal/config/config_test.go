package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skymap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, "aitoff", cfg.Map.Projection)
	assert.True(t, cfg.Overlays.Graticule)
	assert.False(t, cfg.Overlays.Ecliptic)
	assert.InDelta(t, -52.8, cfg.Overlays.HorizonDecLimitDeg, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.API.RefreshInterval())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
api:
  baseUrl: http://ops.example:9000
  refreshSeconds: 5
map:
  projection: mollweide
overlays:
  graticule: false
  ecliptic: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://ops.example:9000", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.RefreshInterval())
	assert.Equal(t, "mollweide", cfg.Map.Projection)
	assert.False(t, cfg.Overlays.Graticule, "explicit false wins over default true")
	assert.True(t, cfg.Overlays.Ecliptic)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, "status", cfg.Map.ColorScheme)
	assert.True(t, cfg.Overlays.Horizon)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "api:\n  baseUrl: http://from-file:8000\n")
	t.Setenv("DSA110_SKYMAP_API_URL", "http://from-env:8000")
	t.Setenv("DSA110_SKYMAP_BACKGROUND_URL", "http://from-env:8000/sky.png")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://from-env:8000", cfg.API.BaseURL, "env beats file")
	assert.Equal(t, "http://from-env:8000/sky.png", cfg.Map.BackgroundURL)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	path := writeConfig(t, "map:\n  projection: hammer\n")
	t.Setenv("DSA110_SKYMAP_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "hammer", cfg.Map.Projection)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "explicit path must exist")

	path := writeConfig(t, "api: [not a mapping")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestSurveyFootprints(t *testing.T) {
	cfg := Default()
	assert.NotEmpty(t, cfg.SurveyFootprints(), "built-in surveys by default")

	path := writeConfig(t, `
footprints:
  - id: custom
    name: Custom Survey
    color: "#FFFFFF"
    decMin: -10
    decMax: 10
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.SurveyFootprints(), 1)
	assert.Equal(t, "custom", cfg.SurveyFootprints()[0].ID)
}
