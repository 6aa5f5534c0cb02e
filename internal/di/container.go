// Package di provides dependency injection configuration for the Quick Note server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/takuyahirata23/quick-note/internal/auth"
	"github.com/takuyahirata23/quick-note/internal/config"
	"github.com/takuyahirata23/quick-note/internal/di/providers"
	"github.com/takuyahirata23/quick-note/internal/logger"
	"github.com/takuyahirata23/quick-note/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer(flags config.Flags, version string) *do.RootScope {
	injector := do.New()

	// Inputs from the command line
	do.ProvideValue(injector, flags)
	do.ProvideValue(injector, providers.BuildInfo{Version: version})

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvideSessionKey)
	do.Provide(injector, providers.ProvideSessionManager)

	// Business services
	do.Provide(injector, providers.ProvideServices)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services in dependency order and starts the HTTP
// server.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*auth.SessionManager](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.Services](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}
