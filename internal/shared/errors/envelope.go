// Package errors provides the tagged result envelope returned by the HTTP API.
package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// Envelope is the body of every API response. Exactly one of Data or Error is set.
type Envelope struct {
	OK      bool           `json:"ok"`
	Data    any            `json:"data,omitempty"`
	Error   any            `json:"error,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Failure describes a failed request: the status to answer with and the caller-facing messages.
type Failure struct {
	// Status is the HTTP status code for this occurrence.
	Status int
	// Messages are rendered as a single string when there is one, as a list otherwise.
	Messages []string
	// List forces Messages to render as a list even when there is only one.
	List bool
	// Details holds additional diagnostic properties.
	Details map[string]any
}

// Error implements the error interface.
func (f Failure) Error() string {
	if len(f.Messages) == 0 {
		return http.StatusText(f.Status)
	}
	return fmt.Sprintf("%s: %s", http.StatusText(f.Status), strings.Join(f.Messages, "; "))
}

// WithMessages returns a copy carrying the given messages.
func (f Failure) WithMessages(messages ...string) Failure {
	f.Messages = append([]string{}, messages...)
	return f
}

// WithMessageList returns a copy whose messages always render as a list.
func (f Failure) WithMessageList(messages ...string) Failure {
	f = f.WithMessages(messages...)
	f.List = true
	return f
}

// WithDetail returns a copy with an additional detail property.
func (f Failure) WithDetail(key string, value any) Failure {
	details := make(map[string]any, len(f.Details)+1)
	for k, v := range f.Details {
		details[k] = v
	}
	details[key] = value
	f.Details = details
	return f
}

// Envelope renders the failure body.
func (f Failure) Envelope() Envelope {
	env := Envelope{OK: false, Details: f.Details}
	switch {
	case len(f.Messages) == 0:
		env.Error = http.StatusText(f.Status)
	case f.List:
		env.Error = f.Messages
	case len(f.Messages) == 1:
		env.Error = f.Messages[0]
	default:
		env.Error = f.Messages
	}
	return env
}

// Success wraps a result.
func Success(data any) Envelope {
	return Envelope{OK: true, Data: data}
}

// Pre-defined failure templates.
var (
	// ErrBadRequest indicates the request was malformed or failed validation.
	ErrBadRequest = Failure{Status: http.StatusBadRequest}

	// ErrMethodNotAllowed is returned for verbs the API routes do not serve.
	ErrMethodNotAllowed = Failure{Status: http.StatusMethodNotAllowed, Messages: []string{"Method not allowed"}}

	// ErrNotFound indicates the route does not exist.
	ErrNotFound = Failure{Status: http.StatusNotFound, Messages: []string{"Not found"}}

	// ErrBadGateway indicates an upstream platform call failed.
	ErrBadGateway = Failure{Status: http.StatusBadGateway}

	// ErrInternal indicates an unexpected server error.
	ErrInternal = Failure{Status: http.StatusInternalServerError, Messages: []string{"Internal server error"}}
)
