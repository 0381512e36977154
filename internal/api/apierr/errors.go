package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/couplecards/internal/model"
	"github.com/mcoot/couplecards/internal/pairing"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidPairingCode = "INVALID_PAIRING_CODE"
	CodePairingTimeout     = "PAIRING_TIMEOUT"
	CodePairingUnavailable = "PAIRING_UNAVAILABLE"
	CodeNotFound           = "NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// StatusOf returns the HTTP status WriteError would use for err
func StatusOf(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Setup validation
	case errors.Is(err, model.ErrBlankPlayerName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Player name cannot be empty"}}
	case errors.Is(err, model.ErrBlankPartnerName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Partner name cannot be empty"}}
	case errors.Is(err, model.ErrBlankPartnerID):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Partner ID cannot be empty"}}

	// Pairing
	case errors.Is(err, pairing.ErrInvalidCode):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPairingCode, "Pairing code must be 6 characters"}}
	case errors.Is(err, pairing.ErrInvalidPayload):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Pairing payload is incomplete"}}
	case errors.Is(err, pairing.ErrTimeout):
		return &httpError{http.StatusGatewayTimeout, APIError{CodePairingTimeout, "No partner device answered in time"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewPairingUnavailableError reports that no pairing channel is configured
func NewPairingUnavailableError() error {
	return &httpError{http.StatusServiceUnavailable, APIError{CodePairingUnavailable, "Pairing is not configured on this server"}}
}

// NewNotFoundError creates a not found error
func NewNotFoundError() error {
	return &httpError{http.StatusNotFound, APIError{CodeNotFound, "Not found"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
