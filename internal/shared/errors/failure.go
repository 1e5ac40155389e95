// Package errors renders failed requests as the JSON envelope every endpoint shares:
// {"success": false, "message": ..., "error": ...}.
package errors

import (
	"fmt"
	"net/http"
)

// Failure is an error that knows its HTTP status and envelope fields.
type Failure struct {
	Status int `json:"-"`
	// Success is always false; it is part of the wire format.
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Err     string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface.
func (f Failure) Error() string {
	switch {
	case f.Message != "" && f.Err != "":
		return fmt.Sprintf("%s: %s", f.Err, f.Message)
	case f.Message != "":
		return f.Message
	case f.Err != "":
		return f.Err
	default:
		return http.StatusText(f.Status)
	}
}

// WithMessage returns a copy with the given message.
func (f Failure) WithMessage(message string) Failure {
	f.Message = message
	return f
}

// WithDetails returns a copy with the given diagnostic details.
func (f Failure) WithDetails(details string) Failure {
	f.Details = details
	return f
}

// Describe records err in the envelope field f leaves empty.
func (f Failure) Describe(err error) Failure {
	if err == nil {
		return f
	}
	if f.Message == "" {
		f.Message = err.Error()
	} else if f.Err == "" {
		f.Err = err.Error()
	}
	return f
}

// BadRequest is a 400 carrying message.
func BadRequest(message string) Failure {
	return Failure{Status: http.StatusBadRequest, Message: message}
}

// NotFound is a 404 carrying message.
func NotFound(message string) Failure {
	return Failure{Status: http.StatusNotFound, Message: message}
}

// Conflict is a 409 carrying message.
func Conflict(message string) Failure {
	return Failure{Status: http.StatusConflict, Message: message}
}

// Internal is a 500 labelled by errLabel.
func Internal(errLabel string) Failure {
	return Failure{Status: http.StatusInternalServerError, Err: errLabel}
}

var (
	// ErrEndpointNotFound answers unknown routes.
	ErrEndpointNotFound = Failure{Status: http.StatusNotFound, Err: "Endpoint not found"}
	// ErrInternal answers unexpected failures and recovered panics.
	ErrInternal = Internal("Internal error")
)
