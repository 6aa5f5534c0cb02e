package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/takuyahirata23/quick-note/internal/auth"
	"github.com/takuyahirata23/quick-note/internal/domain"
	"github.com/takuyahirata23/quick-note/internal/logger"
	"github.com/takuyahirata23/quick-note/internal/store/sqldb"
)

const testPassword = "Passw0rd!"

// setupServices creates services over a temporary SQLite store.
func setupServices(t *testing.T) *Services {
	t.Helper()

	log := logger.Discard()
	s, err := sqldb.Open(context.Background(), sqldb.Options{
		Driver: sqldb.DialectSQLite,
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	}, log.Logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	svc := New(s, log.Logger)
	cheap := auth.Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	svc.Auth.hashPassword = func(p string) (string, error) { return auth.HashPasswordWith(cheap, p) }
	return svc
}

func registerUser(t *testing.T, svc *Services, email string) *domain.User {
	t.Helper()
	u, err := svc.Auth.Register(context.Background(), RegisterRequest{
		Name:                 "Test User",
		Email:                email,
		Password:             testPassword,
		PasswordConfirmation: testPassword,
	})
	require.NoError(t, err)
	return u
}
