package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"dashpulse/internal/infrastructure"
)

// ErrorHandler provides centralized error handling for HTTP handlers
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError converts any error to an APIError response and renders it
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	traceID := infrastructure.GetTraceID(r.Context())

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("trace_id", traceID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	apiErr := h.toAPIError(err)
	apiErr.TraceID = traceID
	render.Render(w, r, apiErr)
}

// toAPIError maps an arbitrary error to an APIError
func (h *ErrorHandler) toAPIError(err error) *APIError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return New(http.StatusGatewayTimeout, "TIMEOUT", "The request took too long to process")
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		// Copy so the shared predefined values never carry per-request state
		out := *apiErr
		return &out
	}

	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		details := make([]ValidationError, 0, len(valErrs))
		for _, fe := range valErrs {
			details = append(details, ValidationError{
				Field:   fe.Field(),
				Message: fmt.Sprintf("failed %s validation", fe.Tag()),
			})
		}
		return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", details)
	}

	return New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR",
		"An unexpected error occurred while processing your request")
}

// NotFound returns a standard 404 handler
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	apiErr := *ErrNotFound
	apiErr.TraceID = infrastructure.GetTraceID(r.Context())
	render.Render(w, r, &apiErr)
}

// MethodNotAllowed returns a standard 405 handler
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apiErr := New(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method))
	apiErr.TraceID = infrastructure.GetTraceID(r.Context())
	render.Render(w, r, apiErr)
}
