package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/takuyahirata23/quick-note/internal/errors"
	"github.com/takuyahirata23/quick-note/internal/http/response"
	"github.com/takuyahirata23/quick-note/internal/store"
)

// APIError is a custom error type that implements huma.StatusError.
// It maps domain errors to HTTP responses with consistent structure.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RequestFieldError describes one request that huma rejected before the
// handler ran, such as a malformed body.
type RequestFieldError struct {
	Location string `json:"location,omitempty"`
	Message  string `json:"message"`
}

// RegisterErrorHandler configures huma to use domain errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = newAPIError
}

func newAPIError(status int, message string, errs ...error) huma.StatusError {
	var fieldErrs []RequestFieldError
	for _, err := range errs {
		if err == nil {
			continue
		}

		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			if domainErr.Code == domainerrors.CodeInternal {
				slog.Default().Error("internal error", "error", err)
			}
			return &APIError{
				status:  domainErr.HTTPStatus(),
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
				Details: domainErr.Details,
			}
		}

		var storeErr *store.Error
		if errors.As(err, &storeErr) {
			return &APIError{
				status:  storeErr.HTTPCode(),
				Code:    response.CodeForStatus(storeErr.HTTPCode()),
				Message: storeErr.Message,
			}
		}

		var detail *huma.ErrorDetail
		if errors.As(err, &detail) {
			fieldErrs = append(fieldErrs, RequestFieldError{Location: detail.Location, Message: detail.Message})
			continue
		}

		if status >= http.StatusInternalServerError {
			slog.Default().Error("unhandled error", "status", status, "error", err)
		}
	}

	apiErr := &APIError{
		status:  status,
		Code:    response.CodeForStatus(status),
		Message: message,
	}
	if status >= http.StatusInternalServerError {
		apiErr.Message = "internal server error"
	}
	if len(fieldErrs) > 0 {
		apiErr.Details = fieldErrs
	}
	return apiErr
}
