package api

import (
	"net/http"

	"github.com/spottem/spottem-server/internal/http/response"
	"github.com/spottem/spottem-server/internal/service"
)

// handleLogin returns the provider authorization URL for the client to
// redirect the browser to.
func (s *Server) handleLogin(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"oauth_url": s.services.Auth.LoginURL(),
	}, s.logger)
}

// handleCallback completes the OAuth flow: the provider redirects here with
// an authorization code, we open a session and bounce to the frontend.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	code := r.URL.Query().Get("code")
	if code == "" {
		response.BadRequest(w, "missing authorization code", s.logger)
		return
	}

	result, err := s.services.Auth.HandleCallback(ctx, code)
	if err != nil {
		s.logger.Error("callback failed", "error", err)
		response.HandleError(w, err, s.logger)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     service.SessionCookieName,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.Session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, s.frontendURL, http.StatusFound)
}

// handleLogout tears down the session behind the cookie, if any, and
// clears the cookie either way.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(service.SessionCookieName); err == nil {
		if err := s.services.Auth.Logout(r.Context(), cookie.Value); err != nil {
			s.logger.Error("logout failed", "error", err)
			response.HandleError(w, err, s.logger)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     service.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	response.NoContent(w)
}

// sessionFromRequest resolves the session cookie; every failure mode maps
// to the no-session error, which HandleError renders as 401.
func (s *Server) sessionFromRequest(r *http.Request) (token string) {
	cookie, err := r.Cookie(service.SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
