package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/takuyahirata23/quick-note/internal/http/response"
)

// EnvelopeTransformer wraps every huma response body in the shared envelope:
// {v, success, data} on success and {v, success, error, code, message,
// details} on failure. It must run before any transformer that rewrites the
// body type.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case response.Envelope:
		return body, nil
	case *APIError:
		return response.Fail(body.Code, body.Message, body.Details), nil
	}

	if code, err := strconv.Atoi(status); err == nil && code >= 400 {
		return response.Fail(response.CodeForStatus(code), "request failed", v), nil
	}
	return response.Ok(v), nil
}
