package providers

import (
	"github.com/samber/do/v2"

	"github.com/takuyahirata23/quick-note/internal/auth"
	"github.com/takuyahirata23/quick-note/internal/config"
	"github.com/takuyahirata23/quick-note/internal/logger"
)

// SessionKey wraps the session sealing key bytes.
type SessionKey []byte

// ProvideSessionKey uses SESSION_SECRET when set, otherwise loads or
// generates the key under the data directory.
func ProvideSessionKey(i do.Injector) (SessionKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Session.Secret != "" {
		key, err := auth.ParseKeyHex(cfg.Session.Secret)
		if err != nil {
			return nil, err
		}
		log.Info("Session key loaded from configuration")
		return SessionKey(key), nil
	}

	key, err := auth.LoadOrGenerateKey(cfg.App.DataDir)
	if err != nil {
		return nil, err
	}
	log.Info("Session key loaded", "data_dir", cfg.App.DataDir)
	return SessionKey(key), nil
}

// ProvideSessionManager provides the cookie session manager.
func ProvideSessionManager(i do.Injector) (*auth.SessionManager, error) {
	cfg := do.MustInvoke[*config.Config](i)
	key := do.MustInvoke[SessionKey](i)

	if !cfg.Session.SecureCookie {
		do.MustInvoke[*logger.Logger](i).Warn("Session cookies are sent without the Secure attribute")
	}
	return auth.NewSessionManager(key, cfg.Session.SecureCookie)
}
