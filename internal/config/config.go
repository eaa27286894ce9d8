package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration lets yaml configs use "30s" notation for duration fields.
type Duration time.Duration

// UnmarshalYAML parses the time.ParseDuration format.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Canvas struct {
		BaseURL  string   `yaml:"base_url" env:"CANVAS_BASE_URL"`
		Timeout  Duration `yaml:"timeout" env:"CANVAS_TIMEOUT"`
		PageSize int      `yaml:"page_size" env:"CANVAS_PAGE_SIZE"`
	} `yaml:"canvas"`

	Cache struct {
		Enabled   bool     `yaml:"enabled" env:"CACHE_ENABLED"`
		RedisAddr string   `yaml:"redis_addr" env:"CACHE_REDIS_ADDR"`
		TTL       Duration `yaml:"ttl" env:"CACHE_TTL"`
	} `yaml:"cache"`

	Export struct {
		AvatarWidth      float64  `yaml:"avatar_width" env:"EXPORT_AVATAR_WIDTH"`
		AvatarHeight     float64  `yaml:"avatar_height" env:"EXPORT_AVATAR_HEIGHT"`
		RowHeight        float64  `yaml:"row_height" env:"EXPORT_ROW_HEIGHT"`
		FetchConcurrency int      `yaml:"fetch_concurrency" env:"EXPORT_FETCH_CONCURRENCY"`
		FetchTimeout     Duration `yaml:"fetch_timeout" env:"EXPORT_FETCH_TIMEOUT"`
	} `yaml:"export"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The config file is optional; env vars alone can configure the app
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	// Canvas defaults
	config.Canvas.BaseURL = "https://canvas.nus.edu.sg"
	config.Canvas.Timeout = Duration(30 * time.Second)
	config.Canvas.PageSize = 100

	// Cache defaults: disabled unless a redis address is configured
	config.Cache.Enabled = false
	config.Cache.TTL = Duration(10 * time.Minute)

	// Export defaults match the standard report layout
	config.Export.AvatarWidth = 100
	config.Export.AvatarHeight = 110
	config.Export.RowHeight = 80
	config.Export.FetchConcurrency = 4
	config.Export.FetchTimeout = Duration(10 * time.Second)

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Canvas.BaseURL == "" {
		return fmt.Errorf("canvas base URL is required")
	}

	if config.Canvas.PageSize <= 0 {
		return fmt.Errorf("canvas page size must be positive")
	}

	if config.Export.AvatarWidth <= 0 || config.Export.AvatarHeight <= 0 {
		return fmt.Errorf("avatar target dimensions must be positive")
	}

	if config.Export.FetchConcurrency <= 0 {
		return fmt.Errorf("export fetch concurrency must be positive")
	}

	return nil
}
