package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the main application configuration structure
// containing all configuration sections
type Config struct {
	Server    ServerConfig     `toml:"server"`    // HTTP server settings
	Logging   LoggingConfig    `toml:"logging"`   // Application logging settings
	Storage   StorageConfig    `toml:"storage"`   // Snapshot persistence settings
	Forecast  ForecastConfig   `toml:"forecast"`  // Weather provider settings
	Satellite SatelliteConfig  `toml:"satellite"` // Satellite pass provider settings
	Cache     CacheConfig      `toml:"cache"`     // Snapshot staleness settings
	Scheduler SchedulerConfig  `toml:"scheduler"` // Background refresh settings
	Locations []LocationConfig `toml:"locations"` // Saved observing locations; first entry is the default
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port               int      `toml:"port"`                  // HTTP port for the server
	Host               string   `toml:"host"`                  // Host address to bind to
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`  // Origins allowed for CORS requests (["*"] for all)
	ReadTimeoutSecs    int      `toml:"read_timeout_seconds"`  // Maximum duration for reading the entire request
	WriteTimeoutSecs   int      `toml:"write_timeout_seconds"` // Maximum duration for writing the response
	IdleTimeoutSecs    int      `toml:"idle_timeout_seconds"`  // Keep-alive idle timeout
}

// LoggingConfig contains application logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`  // Log level: "debug", "info", "warn", or "error"
	Format string `toml:"format"` // Log format: "json" (structured) or "console" (human-readable)
}

// StorageConfig contains snapshot persistence configuration
type StorageConfig struct {
	SQLitePath string `toml:"sqlite_path"` // Path to the SQLite snapshot database file
}

// ForecastConfig contains weather provider configuration
type ForecastConfig struct {
	APIBaseURL            string `toml:"api_base_url"`            // Open-Meteo style forecast API base URL
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"` // Per-request HTTP timeout
	HorizonDays           int    `toml:"horizon_days"`            // Consecutive calendar days each snapshot covers
}

// SatelliteConfig contains satellite pass provider configuration. The
// provider is only constructed when an API key is present (config or the
// N2YO_API_KEY environment variable); absence of a key is not an error.
type SatelliteConfig struct {
	APIBaseURL            string `toml:"api_base_url"`           // N2YO REST API base URL
	APIKey                string `toml:"api_key"`                // N2YO API key; empty disables the provider
	NoradID               int    `toml:"norad_id"`               // Satellite catalog number (default: ISS)
	MinVisibilitySeconds  int    `toml:"min_visibility_seconds"` // Minimum seconds of visibility for a pass to count
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// CacheConfig contains snapshot staleness configuration
type CacheConfig struct {
	StalenessThresholdSeconds int `toml:"staleness_threshold_seconds"` // Maximum snapshot age considered reusable
}

// SchedulerConfig contains background refresh configuration
type SchedulerConfig struct {
	Enabled                bool `toml:"enabled"`
	RefreshIntervalMinutes int  `toml:"refresh_interval_minutes"` // How often the default location is refreshed
}

// LocationConfig is one saved observing location
type LocationConfig struct {
	Name      string   `toml:"name"`
	Latitude  float64  `toml:"latitude"`
	Longitude float64  `toml:"longitude"`
	Elevation *float64 `toml:"elevation"` // meters, optional
}

// Load loads the configuration from the given path
func Load(path string) (*Config, error) {
	var config Config

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.applyDefaults()

	return &config, nil
}

// LoadWithFallback loads the configuration by checking multiple locations in order of preference
func LoadWithFallback(preferredPath string) (*Config, error) {
	searchPaths := []string{
		preferredPath,
		"configs/config.toml",
		"config.toml",
	}

	uniquePaths := make([]string, 0, len(searchPaths))
	seen := make(map[string]bool)
	for _, path := range searchPaths {
		if path != "" && !seen[path] {
			uniquePaths = append(uniquePaths, path)
			seen[path] = true
		}
	}

	var lastErr error
	for _, path := range uniquePaths {
		if _, err := os.Stat(path); err == nil {
			config, err := Load(path)
			if err != nil {
				lastErr = fmt.Errorf("failed to load config from %s: %w", path, err)
				continue
			}
			return config, nil
		}
		lastErr = fmt.Errorf("config file not found: %s", path)
	}

	return nil, fmt.Errorf("config file not found in any of the expected locations: %v. Last error: %w", uniquePaths, lastErr)
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.ReadTimeoutSecs == 0 {
		c.Server.ReadTimeoutSecs = 30
	}
	if c.Server.WriteTimeoutSecs == 0 {
		c.Server.WriteTimeoutSecs = 30
	}
	if c.Server.IdleTimeoutSecs == 0 {
		c.Server.IdleTimeoutSecs = 60
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "data/conditions.db"
	}
	if c.Forecast.APIBaseURL == "" {
		c.Forecast.APIBaseURL = "https://api.open-meteo.com"
	}
	if c.Forecast.RequestTimeoutSeconds == 0 {
		c.Forecast.RequestTimeoutSeconds = 15
	}
	if c.Forecast.HorizonDays == 0 {
		c.Forecast.HorizonDays = 3
	}
	if c.Satellite.APIBaseURL == "" {
		c.Satellite.APIBaseURL = "https://api.n2yo.com/rest/v1/satellite"
	}
	if c.Satellite.NoradID == 0 {
		c.Satellite.NoradID = 25544
	}
	if c.Satellite.MinVisibilitySeconds == 0 {
		c.Satellite.MinVisibilitySeconds = 60
	}
	if c.Satellite.RequestTimeoutSeconds == 0 {
		c.Satellite.RequestTimeoutSeconds = 15
	}
	if c.Cache.StalenessThresholdSeconds == 0 {
		c.Cache.StalenessThresholdSeconds = 21600
	}
	if c.Scheduler.RefreshIntervalMinutes == 0 {
		c.Scheduler.RefreshIntervalMinutes = 60
	}
	if c.Satellite.APIKey == "" {
		c.Satellite.APIKey = os.Getenv("N2YO_API_KEY")
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Forecast.HorizonDays <= 0 || c.Forecast.HorizonDays > 16 {
		return fmt.Errorf("invalid forecast horizon: %d days", c.Forecast.HorizonDays)
	}

	if c.Cache.StalenessThresholdSeconds <= 0 {
		return fmt.Errorf("staleness_threshold_seconds must be greater than 0")
	}

	if c.Scheduler.Enabled && c.Scheduler.RefreshIntervalMinutes <= 0 {
		return fmt.Errorf("refresh_interval_minutes must be greater than 0")
	}

	if len(c.Locations) == 0 {
		return fmt.Errorf("at least one location must be configured")
	}

	for _, loc := range c.Locations {
		if loc.Name == "" {
			return fmt.Errorf("location name cannot be empty")
		}
		if loc.Latitude < -90 || loc.Latitude > 90 {
			return fmt.Errorf("invalid latitude for %s: %f", loc.Name, loc.Latitude)
		}
		if loc.Longitude < -180 || loc.Longitude > 180 {
			return fmt.Errorf("invalid longitude for %s: %f", loc.Name, loc.Longitude)
		}
	}

	return nil
}

// DefaultLocation returns the first configured location.
func (c *Config) DefaultLocation() LocationConfig {
	return c.Locations[0]
}

// FindLocation returns the configured location with the given name.
func (c *Config) FindLocation(name string) (LocationConfig, bool) {
	for _, loc := range c.Locations {
		if loc.Name == name {
			return loc, true
		}
	}
	return LocationConfig{}, false
}
