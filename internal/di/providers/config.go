// Package providers contains dependency injection providers for the Quick Note server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/takuyahirata23/quick-note/internal/config"
	"github.com/takuyahirata23/quick-note/internal/logger"
)

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version string
}

// ProvideConfig provides the application configuration from the flags the
// command line registered in the container.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	flags := do.MustInvoke[config.Flags](i)
	return config.LoadConfig(flags)
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)
	build := do.MustInvoke[BuildInfo](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.IsDevelopment(),
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Quick Note",
		"version", build.Version,
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_dir", cfg.App.DataDir,
		"db_driver", cfg.Database.Driver,
	)

	return log, nil
}
