package providers

import (
	"github.com/samber/do/v2"

	"github.com/spottem/spottem-server/internal/auth"
	"github.com/spottem/spottem-server/internal/config"
	"github.com/spottem/spottem-server/internal/logger"
)

// SessionKey wraps the session signing key bytes.
type SessionKey []byte

// ProvideSessionKey loads or generates the session signing key.
func ProvideSessionKey(i do.Injector) (SessionKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	if err != nil {
		return nil, err
	}

	// Update config with the loaded key
	cfg.Session.Key = key

	log.Info("Session key loaded", "session_duration", cfg.Session.Duration)

	return SessionKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	key := do.MustInvoke[SessionKey](i)
	return auth.NewTokenService([]byte(key))
}
