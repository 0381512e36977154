package handler

import (
	"net/http"

	"github.com/mcoot/couplecards/internal/api/apierr"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// invalidBody is returned for bodies that are not valid JSON
func invalidBody() error {
	return apierr.NewInvalidRequestError("Invalid request body")
}
