// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerPort   = 8080
	defaultServerHost   = "0.0.0.0"
	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 30 * time.Second

	defaultSyncInterval = time.Hour
	defaultFetchTimeout = 8 * time.Second
	defaultUserAgent    = "NRTV/1.0"

	defaultDatabasePath = "./data/nrtv.db"
	defaultLogLevel     = "info"
	defaultLogPretty    = false
	defaultStaticDir    = "./web/static"

	envPrefix = "NRTV"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Sync     SyncConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	StaticDir    string
}

// UpstreamConfig holds the upstream playlist and guide sources.
// Both are untrusted remote feeds pulled over HTTP(S).
type UpstreamConfig struct {
	// PlaylistURLs are tried in order until one yields a usable channel list.
	PlaylistURLs []string
	// GuideURLs are XMLTV documents, tried in order.
	GuideURLs []string
	UserAgent string
}

// SyncConfig holds guide/playlist refresh configuration
type SyncConfig struct {
	Interval     time.Duration
	FetchTimeout time.Duration
}

// DatabaseConfig holds snapshot cache configuration
type DatabaseConfig struct {
	Path string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/nrtv")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)
	v.SetDefault("server.staticdir", defaultStaticDir)

	v.SetDefault("upstream.playlisturls", []string{})
	v.SetDefault("upstream.guideurls", []string{
		"https://xmltv.net/xml_files/Lismore.xml",
		"https://xmltv.net/xml_files/Northern_NSW.xml",
	})
	v.SetDefault("upstream.useragent", defaultUserAgent)

	v.SetDefault("sync.interval", defaultSyncInterval)
	v.SetDefault("sync.fetchtimeout", defaultFetchTimeout)

	v.SetDefault("database.path", defaultDatabasePath)

	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout: %v (must be > 0)", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("invalid write timeout: %v (must be > 0)", c.Server.WriteTimeout)
	}

	if len(c.Upstream.GuideURLs) == 0 {
		return errors.New("at least one upstream guide URL is required")
	}
	for _, raw := range append(append([]string{}, c.Upstream.PlaylistURLs...), c.Upstream.GuideURLs...) {
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("invalid upstream URL: %q (must be absolute http/https)", raw)
		}
	}

	if c.Sync.Interval < time.Minute {
		return fmt.Errorf("invalid sync interval: %v (must be >= 1m)", c.Sync.Interval)
	}
	if c.Sync.FetchTimeout <= 0 || c.Sync.FetchTimeout > time.Minute {
		return fmt.Errorf("invalid fetch timeout: %v (must be in (0, 1m])", c.Sync.FetchTimeout)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	return nil
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
