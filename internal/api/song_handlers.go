package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/spottem/spottem-server/internal/domain"
	domainerrors "github.com/spottem/spottem-server/internal/errors"
	"github.com/spottem/spottem-server/internal/service"
)

func (s *Server) registerSongRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSongHistory",
		Method:      http.MethodGet,
		Path:        "/songs/{email}",
		Summary:     "Get song history",
		Description: "Returns the user's archived tracks; 404 when the history is empty",
		Tags:        []string{"Songs"},
	}, s.handleGetSongHistory)

	huma.Register(s.api, huma.Operation{
		OperationID:   "appendSongHistory",
		Method:        http.MethodPost,
		Path:          "/songs/{email}",
		Summary:       "Append to song history",
		Description:   "Adds a track directly to history, deduplicated by song ID",
		Tags:          []string{"Songs"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAppendSongHistory)
}

type GetSongHistoryInput struct {
	Email string `path:"email" doc:"Encoded email"`
}

type SongHistoryResponse struct {
	Songs []*domain.Track `json:"songs"`
}

type SongHistoryOutput struct {
	Body SongHistoryResponse
}

func (s *Server) handleGetSongHistory(ctx context.Context, input *GetSongHistoryInput) (*SongHistoryOutput, error) {
	songs, err := s.services.Tracks.History(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if len(songs) == 0 {
		return nil, domainerrors.NotFoundf("no song history for %s", input.Email)
	}
	return &SongHistoryOutput{Body: SongHistoryResponse{Songs: songs}}, nil
}

type AppendSongHistoryInput struct {
	Email string `path:"email" doc:"Encoded email"`
	Body  service.TrackPayload
}

type AppendSongHistoryOutput struct {
	Status int
}

func (s *Server) handleAppendSongHistory(ctx context.Context, input *AppendSongHistoryInput) (*AppendSongHistoryOutput, error) {
	created, err := s.services.Tracks.AppendHistory(ctx, input.Email, &input.Body)
	if err != nil {
		return nil, err
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return &AppendSongHistoryOutput{Status: status}, nil
}
