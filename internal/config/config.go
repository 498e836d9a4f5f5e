package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"frizo/futures_grid/internal/grid"
	"frizo/futures_grid/pkg/utils"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// Server configuration
	Host               string
	Port               int
	CORSAllowedOrigins []string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogFile   string

	// Calculator configuration
	FormulaVersion  string
	PricePrecision  int32 // decimal places for prices in responses
	AmountPrecision int32 // decimal places for margin amounts in responses

	// Application configuration
	Environment string
}

var logFormats = []string{"text", "json"}

// Load loads the configuration from environment variables.
func Load() *Config {
	config := &Config{
		Host:               getEnv("HOST", "localhost"),
		Port:               getEnvAsInt("PORT", 8080),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		LogFile:            getEnv("LOG_FILE", ""),
		FormulaVersion:     getEnv("FORMULA_VERSION", "v2"),
		PricePrecision:     int32(getEnvAsInt("PRICE_PRECISION", 2)),
		AmountPrecision:    int32(getEnvAsInt("AMOUNT_PRECISION", 2)),
		Environment:        getEnv("ENVIRONMENT", "development"),
	}

	return config
}

// LoadWithEnvFile loads a dotenv file into the process environment, then calls Load.
// A missing file is not an error; variables already set in the environment win.
func LoadWithEnvFile(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", path, err)
		}
	}

	cfg := Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.PricePrecision < 0 || c.AmountPrecision < 0 {
		return fmt.Errorf("precision must not be negative")
	}
	if _, err := grid.ParseFormulaVersion(c.FormulaVersion); err != nil {
		return err
	}
	if !utils.Contains(logFormats, strings.ToLower(c.LogFormat)) {
		return fmt.Errorf("log format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Formula returns the configured formula set.
func (c *Config) Formula() grid.FormulaSet {
	formula, err := grid.ParseFormulaVersion(c.FormulaVersion)
	if err != nil {
		return grid.FormulaV2
	}
	return formula
}

// Address returns host:port.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

// getEnvAsInt gets an environment variable as integer with a default value.
func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// getEnvAsList splits a comma separated variable.
func getEnvAsList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}

	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	if len(list) == 0 {
		return defaultVal
	}
	return list
}
