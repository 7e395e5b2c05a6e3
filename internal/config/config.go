package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	ServerHost string `mapstructure:"SERVER_HOST"`
	ServerPort string `mapstructure:"SERVER_PORT"`
	AppEnv     string `mapstructure:"APP_ENV"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// MaxUploadBytes caps the request body; 0 means no cap.
	MaxUploadBytes int64  `mapstructure:"MAX_UPLOAD_BYTES"`
	SpoolDir       string `mapstructure:"SPOOL_DIR"`

	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	ReadTimeout     time.Duration `mapstructure:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `mapstructure:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

var defaults = map[string]any{
	"SERVER_HOST":          "",
	"SERVER_PORT":          "8000",
	"APP_ENV":              "development",
	"LOG_LEVEL":            "info",
	"LOG_FORMAT":           "",
	"MAX_UPLOAD_BYTES":     0,
	"SPOOL_DIR":            "",
	"CORS_ALLOWED_ORIGINS": []string{"*"},
	"READ_TIMEOUT":         time.Duration(0),
	"WRITE_TIMEOUT":        time.Duration(0),
	"SHUTDOWN_TIMEOUT":     15 * time.Second,
}

// flag name -> config key
var flagKeys = map[string]string{
	"host":        "SERVER_HOST",
	"port":        "SERVER_PORT",
	"env":         "APP_ENV",
	"log-level":   "LOG_LEVEL",
	"log-format":  "LOG_FORMAT",
	"max-upload":  "MAX_UPLOAD_BYTES",
	"spool-dir":   "SPOOL_DIR",
	"cors-origin": "CORS_ALLOWED_ORIGINS",
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("archive-relay", pflag.ContinueOnError)
	fs.String("config", ".env", "path to the env file")
	fs.String("host", "", "interface to listen on")
	fs.String("port", "", "port to listen on")
	fs.String("env", "", "runtime environment (development or production)")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("log-format", "", "log format (text or json)")
	fs.Int64("max-upload", 0, "maximum request body size in bytes, 0 for unlimited")
	fs.String("spool-dir", "", "directory for temporarily spooled uploads")
	fs.StringSlice("cors-origin", nil, "allowed CORS origin, repeatable")
	return fs
}

// Load reads configuration from defaults, an optional env file, the process
// environment and command-line flags, in increasing order of precedence.
func Load(args []string) (*Config, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	// The default .env is optional; an explicitly named file must exist.
	configFile, _ := fs.GetString("config")
	if configFile != "" {
		_, statErr := os.Stat(configFile)
		if statErr != nil && fs.Changed("config") {
			return nil, fmt.Errorf("config file: %w", statErr)
		}
		if statErr == nil {
			v.SetConfigFile(configFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", configFile, err)
			}
		}
	}

	for name, key := range flagKeys {
		if flag := fs.Lookup(name); flag != nil && flag.Changed {
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.CORSAllowedOrigins = splitOrigins(cfg.CORSAllowedOrigins)

	if cfg.LogFormat == "" {
		if cfg.IsDevelopment() {
			cfg.LogFormat = "text"
		} else {
			cfg.LogFormat = "json"
		}
	}

	if cfg.SpoolDir == "" {
		cfg.SpoolDir = os.TempDir()
	}
	cfg.SpoolDir = filepath.Clean(cfg.SpoolDir)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must not be negative")
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}

	info, err := os.Stat(c.SpoolDir)
	if err != nil {
		return fmt.Errorf("SPOOL_DIR: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("SPOOL_DIR %s is not a directory", c.SpoolDir)
	}

	return nil
}

// splitOrigins accepts both repeated values and a single comma-separated env value.
func splitOrigins(values []string) []string {
	var origins []string
	for _, value := range values {
		for _, origin := range strings.Split(value, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
