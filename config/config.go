// Package config loads dashboard configuration from an optional file and
// WEATHERDASH_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"weather-dashboard/models"
)

const envPrefix = "WEATHERDASH"

// Config represents the application configuration
type Config struct {
	OpenWeatherMap OpenWeatherMapConfig `mapstructure:"openweathermap"`
	Dashboard      DashboardConfig      `mapstructure:"dashboard"`
	Server         ServerConfig         `mapstructure:"server"`
	Storage        StorageConfig        `mapstructure:"storage"`
	Location       LocationConfig       `mapstructure:"location"`
	Logging        LoggingConfig        `mapstructure:"logging"`
}

// OpenWeatherMapConfig holds the provider credentials and client tuning
type OpenWeatherMapConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	GeoURL  string        `mapstructure:"geo_url"`
	Timeout time.Duration `mapstructure:"timeout"` // 0 means no client timeout
	// RateLimit is requests per second; 0 disables client-side limiting
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"burst"`
}

// DashboardConfig holds the initial query context
type DashboardConfig struct {
	DefaultCity string `mapstructure:"default_city"`
	Units       string `mapstructure:"units"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig selects the favorites/recents backend
type StorageConfig struct {
	Driver        string `mapstructure:"driver"` // memory, sqlite, postgres, redis
	DSN           string `mapstructure:"dsn"`
	RedisAddress  string `mapstructure:"redis_address"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	KeyPrefix     string `mapstructure:"key_prefix"`
}

// LocationConfig selects how the device position is obtained
type LocationConfig struct {
	Provider  string  `mapstructure:"provider"` // none, static, ip
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
	Denied    bool    `mapstructure:"denied"`
	IPAPIURL  string  `mapstructure:"ip_api_url"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Units parses the configured unit system
func (c *Config) Units() models.Unit {
	u, err := models.ParseUnit(c.Dashboard.Units)
	if err != nil {
		return models.Metric
	}
	return u
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("openweathermap.api_key", "")
	v.SetDefault("openweathermap.base_url", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("openweathermap.geo_url", "https://api.openweathermap.org/geo/1.0")
	v.SetDefault("openweathermap.timeout", 0)
	// free tier allows 60 calls/minute
	v.SetDefault("openweathermap.rate_limit", 1.0)
	v.SetDefault("openweathermap.burst", 5)

	v.SetDefault("dashboard.default_city", "London")
	v.SetDefault("dashboard.units", string(models.Metric))

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.dsn", "weatherdash.db")
	v.SetDefault("storage.redis_address", "localhost:6379")
	v.SetDefault("storage.redis_password", "")
	v.SetDefault("storage.redis_db", 0)
	v.SetDefault("storage.key_prefix", "weatherdash:")

	v.SetDefault("location.provider", "ip")
	v.SetDefault("location.latitude", 0.0)
	v.SetDefault("location.longitude", 0.0)
	v.SetDefault("location.denied", false)
	v.SetDefault("location.ip_api_url", "http://ip-api.com/json/")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)
}

// Load reads configuration from path (if non-empty) and the environment.
// Environment variables take the form WEATHERDASH_SECTION_KEY; the API key
// is also read from OPENWEATHERMAP_API_KEY.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("openweathermap.api_key", envPrefix+"_OPENWEATHERMAP_API_KEY", "OPENWEATHERMAP_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required values
func (c *Config) Validate() error {
	if c.OpenWeatherMap.APIKey == "" {
		return fmt.Errorf("openweathermap api key is required (set %s_OPENWEATHERMAP_API_KEY)", envPrefix)
	}
	if _, err := models.ParseUnit(c.Dashboard.Units); err != nil {
		return err
	}
	if c.OpenWeatherMap.RateLimit < 0 {
		return fmt.Errorf("openweathermap rate_limit must not be negative")
	}
	if c.OpenWeatherMap.RateLimit > 0 && c.OpenWeatherMap.Burst < 1 {
		return fmt.Errorf("openweathermap burst must be at least 1 when rate limiting")
	}

	switch c.Storage.Driver {
	case "memory", "redis":
	case "sqlite", "postgres":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage dsn is required for driver %q", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Location.Provider {
	case "", "none", "static", "ip":
	default:
		return fmt.Errorf("unknown location provider %q", c.Location.Provider)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}
