package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/spottem/spottem-server/internal/service"
)

func (s *Server) registerFriendRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listFriends",
		Method:      http.MethodGet,
		Path:        "/user/friends/{email}",
		Summary:     "List friends",
		Description: "Returns each friend expanded with history and reactions",
		Tags:        []string{"Friends"},
	}, s.handleListFriends)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addFriend",
		Method:        http.MethodPost,
		Path:          "/user/friends/{email}",
		Summary:       "Add friend",
		Description:   "Appends a directed friend edge; 204 when the friend is unknown or already present",
		Tags:          []string{"Friends"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddFriend)

	huma.Register(s.api, huma.Operation{
		OperationID:   "removeFriend",
		Method:        http.MethodDelete,
		Path:          "/user/friends/{email}",
		Summary:       "Remove friend",
		Tags:          []string{"Friends"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleRemoveFriend)
}

type ListFriendsInput struct {
	Email string `path:"email" doc:"Encoded email"`
}

type ListFriendsResponse struct {
	Friends []*service.UserAggregate `json:"friends"`
}

type ListFriendsOutput struct {
	Body ListFriendsResponse
}

func (s *Server) handleListFriends(ctx context.Context, input *ListFriendsInput) (*ListFriendsOutput, error) {
	friends, err := s.services.Social.ListFriends(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	return &ListFriendsOutput{Body: ListFriendsResponse{Friends: friends}}, nil
}

type FriendRequest struct {
	FriendEmail string `json:"friend_email" validate:"required" doc:"Encoded friend email"`
}

type ModifyFriendInput struct {
	Email string `path:"email" doc:"Encoded email"`
	Body  FriendRequest
}

type AddFriendOutput struct {
	Status int
}

func (s *Server) handleAddFriend(ctx context.Context, input *ModifyFriendInput) (*AddFriendOutput, error) {
	added, err := s.services.Social.AddFriend(ctx, input.Email, input.Body.FriendEmail)
	if err != nil {
		return nil, err
	}

	// Not-created (unknown friend, duplicate edge) answers 204
	status := http.StatusNoContent
	if added {
		status = http.StatusCreated
	}
	return &AddFriendOutput{Status: status}, nil
}

type RemoveFriendOutput struct{}

func (s *Server) handleRemoveFriend(ctx context.Context, input *ModifyFriendInput) (*RemoveFriendOutput, error) {
	if err := s.services.Social.RemoveFriend(ctx, input.Email, input.Body.FriendEmail); err != nil {
		return nil, err
	}
	return &RemoveFriendOutput{}, nil
}
