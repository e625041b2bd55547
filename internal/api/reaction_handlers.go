package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/spottem/spottem-server/internal/domain"
	domainerrors "github.com/spottem/spottem-server/internal/errors"
	"github.com/spottem/spottem-server/internal/service"
)

func (s *Server) registerReactionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listReactions",
		Method:      http.MethodGet,
		Path:        "/reactions/{email}/{songID}",
		Summary:     "List reactions on a song",
		Description: "Returns reactions left on one song of a user's history; 404 when there are none",
		Tags:        []string{"Reactions"},
	}, s.handleListReactions)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createReaction",
		Method:        http.MethodPost,
		Path:          "/reactions/{email}/{songID}",
		Summary:       "React to a song",
		Description:   "Stores a reaction; repeats from the same sender are a no-op",
		Tags:          []string{"Reactions"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateReaction)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteReaction",
		Method:        http.MethodDelete,
		Path:          "/reactions/{email}/{songID}",
		Summary:       "Delete a reaction",
		Tags:          []string{"Reactions"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteReaction)

	huma.Register(s.api, huma.Operation{
		OperationID: "listAllReactions",
		Method:      http.MethodGet,
		Path:        "/reactions",
		Summary:     "List all reactions",
		Tags:        []string{"Reactions"},
	}, s.handleListAllReactions)
}

type ListReactionsInput struct {
	Email  string `path:"email" doc:"Encoded recipient email"`
	SongID string `path:"songID" doc:"Song ID"`
}

type ReactionsResponse struct {
	Reactions []*domain.Reaction `json:"reactions"`
}

type ReactionsOutput struct {
	Body ReactionsResponse
}

func (s *Server) handleListReactions(ctx context.Context, input *ListReactionsInput) (*ReactionsOutput, error) {
	reactions, err := s.services.Reactions.List(ctx, input.Email, input.SongID)
	if err != nil {
		return nil, err
	}
	if len(reactions) == 0 {
		return nil, domainerrors.NotFoundf("no reactions for song %s", input.SongID)
	}
	return &ReactionsOutput{Body: ReactionsResponse{Reactions: reactions}}, nil
}

type SenderRequest struct {
	SenderEmail string `json:"sender_email" validate:"required" doc:"Encoded sender email"`
}

type ModifyReactionInput struct {
	Email  string `path:"email" doc:"Encoded recipient email"`
	SongID string `path:"songID" doc:"Song ID"`
	Body   SenderRequest
}

type CreateReactionOutput struct {
	Status int
	Body   *domain.Reaction
}

func (s *Server) handleCreateReaction(ctx context.Context, input *ModifyReactionInput) (*CreateReactionOutput, error) {
	created, reaction, err := s.services.Reactions.Create(ctx, &service.CreateReactionRequest{
		RecipientEmail: input.Email,
		SenderEmail:    input.Body.SenderEmail,
		SongID:         input.SongID,
	})
	if err != nil {
		return nil, err
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return &CreateReactionOutput{Status: status, Body: reaction}, nil
}

type DeleteReactionOutput struct{}

func (s *Server) handleDeleteReaction(ctx context.Context, input *ModifyReactionInput) (*DeleteReactionOutput, error) {
	if err := s.services.Reactions.Delete(ctx, input.Email, input.Body.SenderEmail, input.SongID); err != nil {
		return nil, err
	}
	return &DeleteReactionOutput{}, nil
}

type ListAllReactionsInput struct{}

func (s *Server) handleListAllReactions(ctx context.Context, _ *ListAllReactionsInput) (*ReactionsOutput, error) {
	reactions, err := s.services.Reactions.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if reactions == nil {
		reactions = []*domain.Reaction{}
	}
	return &ReactionsOutput{Body: ReactionsResponse{Reactions: reactions}}, nil
}
