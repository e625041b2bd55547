// Package di provides dependency injection configuration for the Spottem server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/spottem/spottem-server/internal/auth"
	"github.com/spottem/spottem-server/internal/config"
	"github.com/spottem/spottem-server/internal/di/providers"
	"github.com/spottem/spottem-server/internal/logger"
	"github.com/spottem/spottem-server/internal/service"
	"github.com/spottem/spottem-server/internal/spotify"
	"github.com/spottem/spottem-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSessionKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Provider client
	do.Provide(injector, providers.ProvideSpotifyClient)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideTrackService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideSocialService)
	do.Provide(injector, providers.ProvideReactionService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.SessionKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*spotify.Client](injector)

	// Business services
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.TrackService](injector)
	_ = do.MustInvoke[*service.UserService](injector)
	_ = do.MustInvoke[*service.SocialService](injector)
	_ = do.MustInvoke[*service.ReactionService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
