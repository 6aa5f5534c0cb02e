package providers

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/takuyahirata23/quick-note/internal/config"
	"github.com/takuyahirata23/quick-note/internal/logger"
	"github.com/takuyahirata23/quick-note/internal/store/sqldb"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqldb.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the configured database and brings its schema up to date.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Database.Driver == string(sqldb.DialectSQLite) {
		if err := os.MkdirAll(cfg.App.DataDir, 0o750); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	db, err := sqldb.Open(ctx, sqldb.Options{
		Driver: sqldb.Dialect(cfg.Database.Driver),
		DSN:    cfg.Database.DSN,
	}, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "driver", db.Dialect())
	return &StoreHandle{Store: db}, nil
}
