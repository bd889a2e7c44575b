package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Error kinds surfaced by the submission protocol. Every *Error unwraps to exactly one of them.
var (
	ErrValidation         = errors.New("validation failed")
	ErrStaging            = errors.New("staged upload rejected")
	ErrUploadTransport    = errors.New("staged upload transport failed")
	ErrFinalization       = errors.New("file finalization failed")
	ErrSubmissionRejected = errors.New("profile submission rejected")
	ErrUnexpectedResponse = errors.New("unexpected platform response")
)

// MaxBodyExcerpt bounds the raw response body kept on an Error.
const MaxBodyExcerpt = 2048

// UserError is a field-level error returned by the platform's business validation.
type UserError struct {
	Field   []string `json:"field,omitempty"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
}

func (u UserError) String() string {
	if len(u.Field) == 0 {
		return u.Message
	}
	return strings.Join(u.Field, ".") + ": " + u.Message
}

// Error carries the structured detail of a failed submission step.
type Error struct {
	Kind       error
	Op         string
	Messages   []string
	UserErrors []UserError
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	} else {
		b.WriteString("submission failed")
	}
	if msgs := e.AllMessages(); len(msgs) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(msgs, "; "))
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Err != nil && len(e.AllMessages()) == 0 {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// AllMessages flattens plain messages and user errors, in that order.
func (e *Error) AllMessages() []string {
	if e == nil {
		return nil
	}
	out := make([]string, 0, len(e.Messages)+len(e.UserErrors))
	out = append(out, e.Messages...)
	for _, ue := range e.UserErrors {
		out = append(out, ue.Message)
	}
	return out
}

// HasUserErrors reports whether the platform rejected the request at business level.
func (e *Error) HasUserErrors() bool {
	return e != nil && len(e.UserErrors) > 0
}

// NewValidationError reports missing or malformed input.
func NewValidationError(messages ...string) *Error {
	return &Error{Kind: ErrValidation, Op: "validate", Messages: messages}
}

// Excerpt trims a raw body to at most MaxBodyExcerpt bytes without splitting a UTF-8 sequence.
func Excerpt(body []byte) string {
	if len(body) <= MaxBodyExcerpt {
		return string(body)
	}
	cut := MaxBodyExcerpt
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut]) + "…"
}

// Reclassify returns err re-tagged with kind and op. Details already collected on a
// *Error (user errors, status, body) are kept, and the original error stays in the chain.
func Reclassify(err error, kind error, op string) error {
	if err == nil {
		return nil
	}
	out := &Error{Kind: kind, Op: op, Err: err}
	var detail *Error
	if errors.As(err, &detail) {
		out.Messages = append([]string{}, detail.Messages...)
		out.UserErrors = append([]UserError{}, detail.UserErrors...)
		out.StatusCode = detail.StatusCode
		out.Body = detail.Body
		if detail.Kind == kind {
			out.Err = detail.Err
		}
	}
	return out
}

// KindOf returns the error kind for err, or nil when err carries none.
func KindOf(err error) error {
	for _, kind := range []error{ErrValidation, ErrStaging, ErrUploadTransport, ErrFinalization, ErrSubmissionRejected, ErrUnexpectedResponse} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// KindName returns a stable snake_case label for the kind of err. Errors without a kind
// are "unknown".
func KindName(err error) string {
	switch KindOf(err) {
	case ErrValidation:
		return "validation"
	case ErrStaging:
		return "staging"
	case ErrUploadTransport:
		return "upload_transport"
	case ErrFinalization:
		return "finalization"
	case ErrSubmissionRejected:
		return "submission_rejected"
	case ErrUnexpectedResponse:
		return "unexpected_response"
	default:
		return "unknown"
	}
}
