package config

import (
	"os"
	"path/filepath"
	"testing"

	"frizo/futures_grid/internal/grid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HOST", "PORT", "LOG_LEVEL", "FORMULA_VERSION", "CORS_ALLOWED_ORIGINS", "PRICE_PRECISION"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "v2", cfg.FormulaVersion)
	assert.Equal(t, int32(2), cfg.PricePrecision)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "localhost:8080", cfg.Address())
	assert.Equal(t, grid.FormulaV2, cfg.Formula())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FORMULA_VERSION", "v1")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://journal.example.com,")
	t.Setenv("PRICE_PRECISION", "4")

	cfg := Load()
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, grid.FormulaV1, cfg.Formula())
	assert.Equal(t, []string{"http://localhost:3000", "https://journal.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, int32(4), cfg.PricePrecision)
}

func TestLoadBadIntFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	assert.Equal(t, 8080, Load().Port)
}

func TestLoadWithEnvFile(t *testing.T) {
	t.Run("MissingFileIsIgnored", func(t *testing.T) {
		t.Setenv("PORT", "")
		cfg, err := LoadWithEnvFile(filepath.Join(t.TempDir(), ".env.local"))
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Port)
	})

	t.Run("FileValuesAreApplied", func(t *testing.T) {
		// godotenv never overrides a variable that is already present
		t.Setenv("LOG_FORMAT", "")
		require.NoError(t, os.Unsetenv("LOG_FORMAT"))
		t.Cleanup(func() { os.Unsetenv("LOG_FORMAT") })

		path := filepath.Join(t.TempDir(), ".env.local")
		require.NoError(t, os.WriteFile(path, []byte("LOG_FORMAT=json\n"), 0644))

		cfg, err := LoadWithEnvFile(path)
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.LogFormat)
	})

	t.Run("EnvironmentWins", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "error")
		path := filepath.Join(t.TempDir(), ".env.local")
		require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\n"), 0644))

		cfg, err := LoadWithEnvFile(path)
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.LogLevel)
	})

	t.Run("InvalidConfig", func(t *testing.T) {
		t.Setenv("FORMULA_VERSION", "v9")
		_, err := LoadWithEnvFile("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown formula version")
	})
}

func TestValidate(t *testing.T) {
	cfg := Load()
	cfg.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.LogFormat = "xml"
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.AmountPrecision = -1
	assert.Error(t, cfg.Validate())
}
