package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"CONFIG_FILE", "ENV", "LOG_LEVEL", "DATA_DIR", "SERVER_PORT",
	"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT",
	"DB_DRIVER", "DB_DSN", "SESSION_SECRET", "SESSION_SECURE_COOKIE",
	"CORS_ALLOWED_ORIGINS", "AUTH_RATE_LIMIT", "TRUST_PROXY",
}

// isolate blanks every config variable and points the .env lookup at an
// empty temp dir.
func isolate(t *testing.T) Flags {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	return Flags{EnvFile: filepath.Join(dir, ".env"), DataDir: dir}
}

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development", DataDir: "/data"},
		Logger: LoggerConfig{Level: "info"},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			IdleTimeout:  time.Second,
		},
		Database: DatabaseConfig{Driver: "sqlite", DSN: "/data/quicknote.db"},
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	flags := isolate(t)

	cfg, err := LoadConfig(flags)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 10, cfg.Server.AuthRateLimit)
	assert.False(t, cfg.Server.TrustProxy)
	assert.Empty(t, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, filepath.Join(flags.DataDir, "quicknote.db"), cfg.Database.DSN)
	assert.True(t, cfg.Session.SecureCookie)
	assert.Empty(t, cfg.Session.Secret)
}

func TestLoadConfig_Precedence(t *testing.T) {
	flags := isolate(t)
	dir := filepath.Dir(flags.EnvFile)

	yamlPath := filepath.Join(dir, "quicknote.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
app:
  env: staging
logger:
  level: warn
server:
  port: "7000"
  read_timeout: 5s
  cors_allowed_origins: ["https://file.example"]
  trust_proxy: "true"
database:
  driver: sqlite
session:
  secure_cookie: "false"
`), 0o600))

	require.NoError(t, os.WriteFile(flags.EnvFile, []byte("SERVER_PORT=7100\nLOG_LEVEL=error\n"), 0o600))
	// godotenv exports into the process; restore afterwards.
	t.Cleanup(func() {
		_ = os.Unsetenv("SERVER_PORT")
		_ = os.Unsetenv("LOG_LEVEL")
	})
	require.NoError(t, os.Unsetenv("SERVER_PORT"))
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))

	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	flags.ConfigFile = yamlPath
	flags.LogLevel = "DEBUG"

	cfg, err := LoadConfig(flags)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.App.Environment, "yaml over default")
	assert.Equal(t, "7100", cfg.Server.Port, ".env over yaml")
	assert.Equal(t, "debug", cfg.Logger.Level, "flag over .env")
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	assert.False(t, cfg.Session.SecureCookie)
	assert.True(t, cfg.Server.TrustProxy)
}

func TestLoadConfig_Postgres(t *testing.T) {
	flags := isolate(t)
	flags.DBDriver = "postgres"

	_, err := LoadConfig(flags)
	require.Error(t, err, "postgres needs a DSN")

	flags.DBDSN = "postgres://quicknote@localhost/quicknote"
	cfg, err := LoadConfig(flags)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, flags.DBDSN, cfg.Database.DSN)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad timeout", map[string]string{"SERVER_READ_TIMEOUT": "soon"}},
		{"bad rate limit", map[string]string{"AUTH_RATE_LIMIT": "many"}},
		{"negative rate limit", map[string]string{"AUTH_RATE_LIMIT": "-1"}},
		{"bad env", map[string]string{"ENV": "test"}},
		{"bad driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"short secret", map[string]string{"SESSION_SECRET": "abcd"}},
		{"non hex secret", map[string]string{"SESSION_SECRET": strings.Repeat("z", 64)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(flags)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingConfigFile(t *testing.T) {
	flags := isolate(t)
	flags.ConfigFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := LoadConfig(flags)
	assert.Error(t, err)
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.Session.Secret = strings.Repeat("ab", 32)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"trace", false}, // not supported
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestExpandDataDir_EmptyUsesDefault(t *testing.T) {
	cfg := &Config{}

	require.NoError(t, cfg.expandDataDir())

	homeDir, _ := os.UserHomeDir() //nolint:errcheck // Test setup
	assert.Equal(t, filepath.Join(homeDir, ".quick-note"), cfg.App.DataDir)
}

func TestExpandDataDir_TildeExpansion(t *testing.T) {
	cfg := &Config{App: AppConfig{DataDir: "~/my-data"}}

	require.NoError(t, cfg.expandDataDir())

	homeDir, _ := os.UserHomeDir() //nolint:errcheck // Test setup
	assert.Equal(t, filepath.Join(homeDir, "my-data"), cfg.App.DataDir)
}

func TestExpandDataDir_RelativePath(t *testing.T) {
	cfg := &Config{App: AppConfig{DataDir: "relative/path"}}

	require.NoError(t, cfg.expandDataDir())

	assert.True(t, filepath.IsAbs(cfg.App.DataDir))
	assert.Contains(t, cfg.App.DataDir, "relative/path")
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("TEST_ENV_KEY", "env-value")

	assert.Equal(t, "flag-value", getConfigValue("flag-value", "TEST_ENV_KEY", "file-value", "default-value"))
	assert.Equal(t, "env-value", getConfigValue("", "TEST_ENV_KEY", "file-value", "default-value"))
	assert.Equal(t, "file-value", getConfigValue("", "NONEXISTENT_KEY", "file-value", "default-value"))
	assert.Equal(t, "default-value", getConfigValue("", "NONEXISTENT_KEY", "", "default-value"))
}

func TestGetBoolConfigValue(t *testing.T) {
	assert.True(t, getBoolConfigValue("", "NONEXISTENT_KEY", "", true))
	assert.True(t, getBoolConfigValue("YES", "NONEXISTENT_KEY", "", false))
	assert.True(t, getBoolConfigValue("", "NONEXISTENT_KEY", "1", false))
	assert.False(t, getBoolConfigValue("off", "NONEXISTENT_KEY", "", true))
}
