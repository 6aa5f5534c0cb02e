// Package config provides application configuration management with support
// for command-line flags, environment variables, .env files and a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/takuyahirata23/quick-note/internal/validation"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Logger   LoggerConfig   `yaml:"logger"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string `yaml:"env" validate:"required,oneof=development staging production"`
	// DataDir holds the SQLite database and the generated session key.
	DataDir string `yaml:"data_dir" validate:"required"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port               string        `yaml:"port" validate:"required,numeric"`
	ReadTimeout        time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout       time.Duration `yaml:"write_timeout" validate:"gt=0"`
	IdleTimeout        time.Duration `yaml:"idle_timeout" validate:"gt=0"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	// AuthRateLimit is register/login attempts per client IP per minute. 0 disables it.
	AuthRateLimit int `yaml:"auth_rate_limit" validate:"min=0"`
	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP. Only
	// enable it behind a reverse proxy that overwrites those headers.
	TrustProxy bool `yaml:"trust_proxy"`
}

// DatabaseConfig selects the storage engine.
type DatabaseConfig struct {
	Driver string `yaml:"driver" validate:"oneof=sqlite postgres"`
	// DSN is a file path for sqlite and a connection URL for postgres.
	DSN string `yaml:"dsn" validate:"required"`
}

// SessionConfig holds cookie session configuration.
type SessionConfig struct {
	// Secret is the 32-byte key, hex encoded. Empty means load or generate
	// <data_dir>/session.key.
	Secret       string `yaml:"secret" validate:"omitempty,len=64,hexadecimal"`
	SecureCookie bool   `yaml:"secure_cookie"`
}

// Flags holds command-line overrides. Empty fields fall through to the next
// source.
type Flags struct {
	ConfigFile    string
	EnvFile       string
	Env           string
	LogLevel      string
	DataDir       string
	Port          string
	DBDriver      string
	DBDSN         string
	SecureCookie  string
	AuthRateLimit string
	TrustProxy    string
}

// fileConfig mirrors the YAML file. Values stay strings so they layer the
// same way as flags and environment variables.
type fileConfig struct {
	App struct {
		Env     string `yaml:"env"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`
	Logger struct {
		Level string `yaml:"level"`
	} `yaml:"logger"`
	Server struct {
		Port               string   `yaml:"port"`
		ReadTimeout        string   `yaml:"read_timeout"`
		WriteTimeout       string   `yaml:"write_timeout"`
		IdleTimeout        string   `yaml:"idle_timeout"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		AuthRateLimit      string   `yaml:"auth_rate_limit"`
		TrustProxy         string   `yaml:"trust_proxy"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	Session struct {
		Secret       string `yaml:"secret"`
		SecureCookie string `yaml:"secure_cookie"`
	} `yaml:"session"`
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. YAML config file.
// 5. Default values (lowest priority).
func LoadConfig(flags Flags) (*Config, error) {
	envFile := flags.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	file, err := loadFile(getConfigValue(flags.ConfigFile, "CONFIG_FILE", "", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(flags.Env, "ENV", file.App.Env, "development"),
			DataDir:     getConfigValue(flags.DataDir, "DATA_DIR", file.App.DataDir, ""),
		},
		Logger: LoggerConfig{
			Level: strings.ToLower(getConfigValue(flags.LogLevel, "LOG_LEVEL", file.Logger.Level, "info")),
		},
		Server: ServerConfig{
			Port:               getConfigValue(flags.Port, "SERVER_PORT", file.Server.Port, "8080"),
			CORSAllowedOrigins: getListConfigValue("CORS_ALLOWED_ORIGINS", file.Server.CORSAllowedOrigins),
			TrustProxy:         getBoolConfigValue(flags.TrustProxy, "TRUST_PROXY", file.Server.TrustProxy, false),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(getConfigValue(flags.DBDriver, "DB_DRIVER", file.Database.Driver, "sqlite")),
			DSN:    getConfigValue(flags.DBDSN, "DB_DSN", file.Database.DSN, ""),
		},
		Session: SessionConfig{
			Secret:       getConfigValue("", "SESSION_SECRET", file.Session.Secret, ""),
			SecureCookie: getBoolConfigValue(flags.SecureCookie, "SESSION_SECURE_COOKIE", file.Session.SecureCookie, true),
		},
	}

	cfg.Server.AuthRateLimit, err = getIntConfigValue(flags.AuthRateLimit, "AUTH_RATE_LIMIT", file.Server.AuthRateLimit, 10)
	if err != nil {
		return nil, err
	}

	timeouts := []struct {
		dst      *time.Duration
		envKey   string
		fileVal  string
		fallback string
	}{
		{&cfg.Server.ReadTimeout, "SERVER_READ_TIMEOUT", file.Server.ReadTimeout, "15s"},
		{&cfg.Server.WriteTimeout, "SERVER_WRITE_TIMEOUT", file.Server.WriteTimeout, "15s"},
		{&cfg.Server.IdleTimeout, "SERVER_IDLE_TIMEOUT", file.Server.IdleTimeout, "60s"},
	}
	for _, t := range timeouts {
		raw := getConfigValue("", t.envKey, t.fileVal, t.fallback)
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", t.envKey, raw, err)
		}
		*t.dst = d
	}

	if err := cfg.expandDataDir(); err != nil {
		return nil, fmt.Errorf("invalid data dir: %w", err)
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = filepath.Join(cfg.App.DataDir, "quicknote.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	return validation.New().Validate(c)
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func loadFile(path string) (*fileConfig, error) {
	var file fileConfig
	if path == "" {
		return &file, nil
	}

	data, err := os.ReadFile(path) //#nosec G304 -- config path is operator supplied
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &file, nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataDir defaults the data directory to ~/.quick-note.
func (c *Config) expandDataDir() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	expanded, err := expandPath(c.App.DataDir, filepath.Join(homeDir, ".quick-note"))
	if err != nil {
		return err
	}
	c.App.DataDir = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, config
// file, or default.
func getConfigValue(flagValue, envKey, fileValue, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getBoolConfigValue accepts "true", "1", "yes" (case-insensitive) as true;
// anything else is false.
func getBoolConfigValue(flagValue, envKey, fileValue string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, fileValue, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

func getIntConfigValue(flagValue, envKey, fileValue string, defaultValue int) (int, error) {
	strValue := getConfigValue(flagValue, envKey, fileValue, "")
	if strValue == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return n, nil
}

// getListConfigValue reads a comma separated env var, falling back to the
// config file list.
func getListConfigValue(envKey string, fileValue []string) []string {
	raw := os.Getenv(envKey)
	if raw == "" {
		return fileValue
	}
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
