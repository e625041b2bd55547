package api

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/spottem/spottem-server/internal/http/response"
)

// EnvelopeTransformer wraps every huma response body in the same envelope
// the raw chi handlers emit, so clients see one shape for the whole API.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return response.Envelope{
			Success: false,
			Error:   apiErr.Message,
		}, nil
	}

	return response.Envelope{
		Success: len(status) > 0 && status[0] < '4',
		Data:    v,
	}, nil
}
