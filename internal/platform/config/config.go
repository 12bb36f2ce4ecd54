package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

var (
	errInvalidURL     = errors.New("config: target URL must be http or https")
	errInvalidPort    = errors.New("config: port must be 1-65535")
	errInvalidTimeout = errors.New("config: timeout must be positive")
	errMissingHost    = errors.New("config: host is required")
	errMissingPath    = errors.New("config: input, backup, and output paths are required")
)

// Config holds the targets the legacy scripts hard-coded, made explicit.
// Precedence: built-in defaults < TOML file < environment variables; CLI
// flags override all three in the command entrypoints.
type Config struct {
	URL        string
	Host       string
	Port       int
	InputPath  string
	BackupPath string
	OutputPath string
	Timeout    time.Duration
	LogLevel   string
}

// fileConfig is the TOML shape; timeout is a duration string ("3s", "500ms")
// and absent fields leave the defaults alone.
type fileConfig struct {
	URL        string `toml:"url"`
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	InputPath  string `toml:"input_path"`
	BackupPath string `toml:"backup_path"`
	OutputPath string `toml:"output_path"`
	Timeout    string `toml:"timeout"`
	LogLevel   string `toml:"log_level"`
}

// Load builds a Config from defaults, an optional TOML file, and environment
// variables, in that order. An empty path skips the file entirely; a path
// that does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Config{
		URL:        "https://example.com",
		Host:       "example.com",
		Port:       80,
		InputPath:  "input.txt",
		BackupPath: "input.txt.bak",
		OutputPath: "output.txt",
		Timeout:    3 * time.Second,
		LogLevel:   "info",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
		}
		var fc fileConfig
		if err := toml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
		if err := cfg.applyFile(fc); err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	}

	cfg.URL = getEnv("PROBEKIT_URL", cfg.URL)
	cfg.Host = getEnv("PROBEKIT_HOST", cfg.Host)
	cfg.Port = getEnvAsInt("PROBEKIT_PORT", cfg.Port)
	cfg.InputPath = getEnv("PROBEKIT_INPUT", cfg.InputPath)
	cfg.BackupPath = getEnv("PROBEKIT_BACKUP", cfg.BackupPath)
	cfg.OutputPath = getEnv("PROBEKIT_OUTPUT", cfg.OutputPath)
	cfg.Timeout = getEnvAsDuration("PROBEKIT_TIMEOUT", cfg.Timeout)
	cfg.LogLevel = getEnv("PROBEKIT_LOG_LEVEL", cfg.LogLevel)

	return cfg, cfg.Validate()
}

func (c *Config) applyFile(fc fileConfig) error {
	if fc.URL != "" {
		c.URL = fc.URL
	}
	if fc.Host != "" {
		c.Host = fc.Host
	}
	if fc.Port != 0 {
		c.Port = fc.Port
	}
	if fc.InputPath != "" {
		c.InputPath = fc.InputPath
	}
	if fc.BackupPath != "" {
		c.BackupPath = fc.BackupPath
	}
	if fc.OutputPath != "" {
		c.OutputPath = fc.OutputPath
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		c.Timeout = d
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	return nil
}

// Validate checks every field; commands call it again after applying flag
// overrides.
func (c Config) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %q", errInvalidURL, c.URL)
	}

	if c.Host == "" {
		return errMissingHost
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: got %d", errInvalidPort, c.Port)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("%w: got %s", errInvalidTimeout, c.Timeout)
	}

	if c.InputPath == "" || c.BackupPath == "" || c.OutputPath == "" {
		return errMissingPath
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return v
}
