package api

import (
	"encoding/json/v2"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spottem/spottem-server/internal/http/response"
	"github.com/spottem/spottem-server/internal/service"
)

// handleGetCurrentTrack polls the provider for the user's current track,
// reconciles the stored slot, and returns the result. 204 means nothing is
// playing; the client treats them the same way the provider's own player
// endpoint does.
func (s *Server) handleGetCurrentTrack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	encodedEmail := chi.URLParam(r, "email")

	session, err := s.services.Auth.SessionFromToken(ctx, s.sessionFromRequest(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	track, err := s.services.Tracks.Poll(ctx, encodedEmail, session.Credential.AccessToken)
	if err != nil {
		s.logger.Error("current-track poll failed", "email", encodedEmail, "error", err)
		response.HandleError(w, err, s.logger)
		return
	}

	if track == nil {
		response.NoContent(w)
		return
	}
	response.Success(w, track, s.logger)
}

// handlePushCurrentTrack reconciles the slot from a client-reported track.
// An empty or null body clears the slot, like a poll that found nothing.
func (s *Server) handlePushCurrentTrack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	encodedEmail := chi.URLParam(r, "email")

	if _, err := s.services.Auth.SessionFromToken(ctx, s.sessionFromRequest(r)); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.BadRequest(w, "could not read request body", s.logger)
		return
	}

	var payload *service.TrackPayload
	if len(body) > 0 && string(body) != "null" {
		payload = &service.TrackPayload{}
		if err := json.Unmarshal(body, payload); err != nil {
			response.BadRequest(w, "malformed track payload", s.logger)
			return
		}
	}

	track, err := s.services.Tracks.Push(ctx, encodedEmail, payload)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if track == nil {
		response.NoContent(w)
		return
	}
	response.Success(w, track, s.logger)
}
