// Package config loads the pulse.json server configuration.
//
// Every field has a default, so a missing config file is fine: the server
// starts with a usable configuration out of the box. Any setting can be
// overridden with a PULSE_-prefixed environment variable, e.g.
// PULSE_SERVER_PORT=9000 or PULSE_API_BASEURL=https://api.example.com.
package config

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pulsegram/pulse/internal/errors"
)

const (
	// ConfigFileName is the base name of the configuration file.
	ConfigFileName = "pulse"

	// DefaultHost is the default server bind host.
	DefaultHost = "localhost"

	// DefaultPort is the default server port.
	DefaultPort = 8080

	// DefaultAPIBaseURL is the default backend API base URL.
	DefaultAPIBaseURL = "http://localhost:8000"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "PULSE"
)

// Config is the complete pulse.json configuration.
type Config struct {
	// Name is the application name, used in log output.
	Name string `mapstructure:"name" json:"name,omitempty"`

	// Server contains HTTP server settings.
	Server ServerConfig `mapstructure:"server" json:"server,omitempty"`

	// API contains backend gateway settings.
	API APIConfig `mapstructure:"api" json:"api,omitempty"`

	// Static contains static file serving settings.
	Static StaticConfig `mapstructure:"static" json:"static,omitempty"`

	// Session contains scope registry settings.
	Session SessionConfig `mapstructure:"session" json:"session,omitempty"`

	// Log contains logging settings.
	Log LogConfig `mapstructure:"log" json:"log,omitempty"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the address to bind to.
	Host string `mapstructure:"host" json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `mapstructure:"port" json:"port,omitempty"`

	// ShutdownTimeout bounds graceful shutdown on SIGTERM.
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout" json:"shutdownTimeout,omitempty"`
}

// APIConfig contains settings for the backend request gateway.
type APIConfig struct {
	// BaseURL is the backend API base URL.
	BaseURL string `mapstructure:"baseUrl" json:"baseUrl,omitempty"`

	// Timeout bounds each backend request.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout,omitempty"`
}

// StaticConfig contains static file serving settings.
type StaticConfig struct {
	// Dir is the directory containing static files.
	Dir string `mapstructure:"dir" json:"dir,omitempty"`

	// Prefix is the URL prefix static files are served under.
	Prefix string `mapstructure:"prefix" json:"prefix,omitempty"`
}

// SessionConfig contains scope registry settings.
type SessionConfig struct {
	// ResumeWindow is how long a disconnected client may reattach
	// to its existing widget state.
	ResumeWindow time.Duration `mapstructure:"resumeWindow" json:"resumeWindow,omitempty"`

	// CleanupInterval is how often expired sessions are swept.
	CleanupInterval time.Duration `mapstructure:"cleanupInterval" json:"cleanupInterval,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is the minimum log level: debug, info, warn or error.
	Level string `mapstructure:"level" json:"level,omitempty"`

	// Format selects the handler: text or json.
	Format string `mapstructure:"format" json:"format,omitempty"`
}

// Addr returns the host:port the server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("name", "pulse")
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.shutdownTimeout", "10s")
	v.SetDefault("api.baseUrl", DefaultAPIBaseURL)
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("static.dir", "static")
	v.SetDefault("static.prefix", "/static/")
	v.SetDefault("session.resumeWindow", "30s")
	v.SetDefault("session.cleanupInterval", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the configuration. With a non-empty path the file must exist;
// with an empty path it searches the working directory for pulse.json and
// falls back to defaults when none is found.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap("E401", errors.CategoryConfig,
				"cannot read config file "+path, err)
		}
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("json")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !stderrors.As(err, &notFound) {
				return nil, errors.Wrap("E401", errors.CategoryConfig,
					"cannot read pulse.json", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap("E402", errors.CategoryConfig,
			"invalid configuration", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New("E403", errors.CategoryConfig,
			fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	if c.API.BaseURL == "" {
		return errors.New("E403", errors.CategoryConfig, "api.baseUrl must not be empty")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("E403", errors.CategoryConfig,
			"log.level must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("E403", errors.CategoryConfig,
			"log.format must be text or json")
	}
	return nil
}
