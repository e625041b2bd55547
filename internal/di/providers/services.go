package providers

import (
	"github.com/samber/do/v2"

	"github.com/spottem/spottem-server/internal/auth"
	"github.com/spottem/spottem-server/internal/config"
	"github.com/spottem/spottem-server/internal/logger"
	"github.com/spottem/spottem-server/internal/service"
	"github.com/spottem/spottem-server/internal/spotify"
	"github.com/spottem/spottem-server/internal/validation"
)

// ProvideSpotifyClient provides the Spotify Web API client.
func ProvideSpotifyClient(i do.Injector) (*spotify.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return spotify.New(cfg.Spotify, log.Logger), nil
}

// ProvideValidator provides the request payload validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideAuthService provides the login and session service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	spotifyClient := do.MustInvoke[*spotify.Client](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, spotifyClient, tokenService, cfg.Session.Duration, log.Logger), nil
}

// ProvideTrackService provides the current-track polling service.
func ProvideTrackService(i do.Injector) (*service.TrackService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	spotifyClient := do.MustInvoke[*spotify.Client](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTrackService(storeHandle.Store, spotifyClient, validator, log.Logger), nil
}

// ProvideUserService provides the user profile service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideSocialService provides the friend graph service.
func ProvideSocialService(i do.Injector) (*service.SocialService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	userService := do.MustInvoke[*service.UserService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSocialService(storeHandle.Store, userService, log.Logger), nil
}

// ProvideReactionService provides the song reaction service.
func ProvideReactionService(i do.Injector) (*service.ReactionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReactionService(storeHandle.Store, validator, log.Logger), nil
}
