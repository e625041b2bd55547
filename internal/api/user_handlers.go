package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/spottem/spottem-server/internal/domain"
	"github.com/spottem/spottem-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/user/{email}",
		Summary:     "Get user",
		Description: "Returns the user with full history and reactions",
		Tags:        []string{"Users"},
	}, s.handleGetUser)

	huma.Register(s.api, huma.Operation{
		OperationID:   "upsertUser",
		Method:        http.MethodPost,
		Path:          "/user",
		Summary:       "Create or update user",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusCreated,
	}, s.handleUpsertUser)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteUser",
		Method:        http.MethodDelete,
		Path:          "/user/{email}",
		Summary:       "Delete user",
		Description:   "Removes the user and their song history",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteUser)
}

type GetUserInput struct {
	Email string `path:"email" doc:"Encoded email (dots replaced with dashes)"`
}

type UserAggregateOutput struct {
	Body *service.UserAggregate
}

func (s *Server) handleGetUser(ctx context.Context, input *GetUserInput) (*UserAggregateOutput, error) {
	aggregate, err := s.services.Users.Aggregate(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	return &UserAggregateOutput{Body: aggregate}, nil
}

type UpsertUserInput struct {
	Body service.UpsertRequest
}

type UpsertUserOutput struct {
	Status int
	Body   *domain.User
}

func (s *Server) handleUpsertUser(ctx context.Context, input *UpsertUserInput) (*UpsertUserOutput, error) {
	created, user, err := s.services.Users.Upsert(ctx, &input.Body)
	if err != nil {
		return nil, err
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return &UpsertUserOutput{Status: status, Body: user}, nil
}

type DeleteUserInput struct {
	Email string `path:"email" doc:"Encoded email"`
}

type DeleteUserOutput struct{}

func (s *Server) handleDeleteUser(ctx context.Context, input *DeleteUserInput) (*DeleteUserOutput, error) {
	if err := s.services.Users.Delete(ctx, input.Email); err != nil {
		return nil, err
	}
	return &DeleteUserOutput{}, nil
}
