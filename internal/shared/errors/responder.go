package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Responder writes envelopes to gin contexts.
type Responder struct {
	// ExposeInternal includes the error text of unmapped failures. Keep it off in production.
	ExposeInternal bool
}

// NewResponder creates a responder.
func NewResponder(exposeInternal bool) *Responder {
	return &Responder{ExposeInternal: exposeInternal}
}

// DefaultResponder hides unmapped error text.
var DefaultResponder = NewResponder(false)

// OK sends a 200 success envelope.
func (r *Responder) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Success(data))
}

// Respond sends a failure envelope.
func (r *Responder) Respond(c *gin.Context, failure Failure) {
	if failure.Status == 0 {
		failure.Status = http.StatusInternalServerError
	}
	c.JSON(failure.Status, failure.Envelope())
}

// RespondError converts a standard error to a Failure and responds.
// Errors that already are a Failure are sent as is; anything else is a 500.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var failure Failure
	if errors.As(err, &failure) {
		r.Respond(c, failure)
		return
	}
	failure = ErrInternal
	if r.ExposeInternal && err != nil {
		failure = failure.WithMessages(err.Error())
	}
	r.Respond(c, failure)
}

// BadRequest sends a 400 envelope.
func (r *Responder) BadRequest(c *gin.Context, messages ...string) {
	r.Respond(c, ErrBadRequest.WithMessages(messages...))
}

// MethodNotAllowed sends a 405 envelope.
func (r *Responder) MethodNotAllowed(c *gin.Context) {
	r.Respond(c, ErrMethodNotAllowed)
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
func NewChainedResponder(exposeInternal bool, mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{
		Responder: NewResponder(exposeInternal),
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
