// Package httputil writes JSON and error responses in one consistent shape.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/jrschumacher/integrationhub/internal/integration"
	"github.com/jrschumacher/integrationhub/internal/logger"
	"github.com/jrschumacher/integrationhub/internal/validation"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error   string             `json:"error"`
	Message string             `json:"message,omitempty"`
	Details []validation.Error `json:"details,omitempty"`
}

// WriteError writes a standardized error response
func WriteError(w http.ResponseWriter, status int, message string, logFields ...any) {
	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	}

	writeErrorResponse(w, status, response)

	// Log the error with additional context
	logFields = append([]any{"status", status, "message", message}, logFields...)
	logger.Error("HTTP error response", logFields...)
}

// WriteValidationError writes a validation error response
func WriteValidationError(w http.ResponseWriter, validationErr validation.Errors) {
	response := ErrorResponse{
		Error:   "Validation Failed",
		Message: validationErr.Error(),
		Details: validationErr,
	}

	writeErrorResponse(w, http.StatusBadRequest, response)

	logger.Warn("Validation error", "errors", validationErr.Error())
}

// WriteInternalError writes a generic internal server error
func WriteInternalError(w http.ResponseWriter, err error, message string, logFields ...any) {
	response := ErrorResponse{
		Error:   "Internal Server Error",
		Message: message,
	}

	writeErrorResponse(w, http.StatusInternalServerError, response)

	// Log the actual error with context
	logFields = append([]any{"error", err, "message", message}, logFields...)
	logger.Error("Internal server error", logFields...)
}

// WriteIntegrationError maps err onto its status and public message. The
// underlying cause is logged, never returned to the caller.
func WriteIntegrationError(w http.ResponseWriter, err error, logFields ...any) {
	ie := integration.AsError(err)
	status := ie.HTTPStatus()

	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: ie.PublicMessage(),
	}
	writeErrorResponse(w, status, response)

	logFields = append([]any{"kind", ie.Kind.String(), "status", status, "error", err}, logFields...)
	if status >= http.StatusInternalServerError {
		logger.Error("Integration request failed", logFields...)
	} else {
		logger.Warn("Integration request rejected", logFields...)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, response ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("Failed to encode error response", "error", err)
	}
}

// WriteJSON writes a JSON response with proper error handling
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", "error", err)
		// Can't write another response at this point, but log it
	}
}

// WriteSuccess writes a 200 OK response with JSON data
func WriteSuccess(w http.ResponseWriter, data interface{}) {
	WriteJSON(w, http.StatusOK, data)
}
