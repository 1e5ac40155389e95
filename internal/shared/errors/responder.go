package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Responder writes Failure envelopes.
type Responder struct {
	// Fallback answers errors no mapper recognizes. err.Error() fills whichever of
	// message or error the fallback leaves empty.
	Fallback Failure
}

// NewResponder creates a responder whose unmapped errors become fallback.
func NewResponder(fallback Failure) *Responder {
	if fallback.Status == 0 {
		fallback = ErrInternal
	}
	return &Responder{Fallback: fallback}
}

// DefaultResponder answers unmapped errors with a generic 500.
var DefaultResponder = NewResponder(ErrInternal)

// Respond sends a Failure.
func (r *Responder) Respond(c *gin.Context, failure Failure) {
	failure.Success = false
	if failure.Status == 0 {
		failure.Status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(failure.Status, failure)
}

// RespondError sends err as-is when it is a Failure, otherwise the fallback.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var failure Failure
	if errors.As(err, &failure) {
		r.Respond(c, failure)
		return
	}
	r.Respond(c, r.Fallback.Describe(err))
}

// Respond is a convenience function using the default responder.
func Respond(c *gin.Context, failure Failure) {
	DefaultResponder.Respond(c, failure)
}

// RespondError is a convenience function using the default responder.
func RespondError(c *gin.Context, err error) {
	DefaultResponder.RespondError(c, err)
}

// ErrorMapper maps domain/application errors to a Failure.
type ErrorMapper func(err error) (Failure, bool)

// ChainedResponder supports custom error mapping.
type ChainedResponder struct {
	*Responder
	mappers []ErrorMapper
}

// NewChainedResponder creates a responder with custom error mappers.
func NewChainedResponder(fallback Failure, mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{
		Responder: NewResponder(fallback),
		mappers:   mappers,
	}
}

// RespondError tries each mapper before falling back to default handling.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if failure, ok := mapper(err); ok {
			r.Respond(c, failure)
			return
		}
	}
	r.Responder.RespondError(c, err)
}

// HTTPStatusFromError extracts HTTP status from an error if possible.
func HTTPStatusFromError(err error) int {
	var failure Failure
	if errors.As(err, &failure) {
		return failure.Status
	}
	return http.StatusInternalServerError
}
