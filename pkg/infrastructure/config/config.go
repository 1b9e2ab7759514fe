package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	DatabasePath string
	SiteFile     string
	LogLevel     string
	LogPretty    bool
	Engine       EngineConfig
}

// Load reads configuration from a .env file, the environment and the optional site file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath: getEnv("ORDERBUILDER_DB", ""),
		SiteFile:     getEnv("ORDERBUILDER_CONFIG", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogPretty:    getEnvAsBool("LOG_PRETTY", true),
		Engine:       DefaultEngineConfig(),
	}

	if cfg.SiteFile != "" {
		engine, err := LoadEngineConfig(cfg.SiteFile)
		if err != nil {
			return nil, err
		}
		cfg.Engine = engine
	}

	cfg.Engine.WarehouseCapacityPallets = getEnvAsInt("ORDERBUILDER_WAREHOUSE_CAPACITY", cfg.Engine.WarehouseCapacityPallets)
	cfg.Engine.SafetyDays = getEnvAsInt("ORDERBUILDER_SAFETY_DAYS", cfg.Engine.SafetyDays)
	cfg.Engine.LeadTimeDays = getEnvAsInt("ORDERBUILDER_LEAD_TIME_DAYS", cfg.Engine.LeadTimeDays)
	cfg.Engine.ScalingPolicy = getEnv("ORDERBUILDER_SCALING_POLICY", cfg.Engine.ScalingPolicy)

	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadEngineConfig reads a YAML site file on top of the defaults.
// Keys missing from the file keep their default values.
func LoadEngineConfig(path string) (EngineConfig, error) {
	cfg := DefaultEngineConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read site config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse site config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid site config %s: %w", path, err)
	}

	return cfg, nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
