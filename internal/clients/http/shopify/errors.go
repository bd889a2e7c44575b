package shopify

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResult is returned when a mutation succeeds without the object it should create.
var ErrEmptyResult = errors.New("shopify returned an empty result")

// UserError is a field-level error from a mutation payload.
type UserError struct {
	Field   []string `json:"field" graphql:"field"`
	Message string   `json:"message" graphql:"message"`
	Code    string   `json:"code,omitempty" graphql:"code"`
}

// UserErrors reports business-level rejections returned inside a successful envelope.
type UserErrors struct {
	Operation string
	Errors    []UserError
}

func (e *UserErrors) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ue := range e.Errors {
		if len(ue.Field) > 0 {
			msgs = append(msgs, strings.Join(ue.Field, ".")+": "+ue.Message)
			continue
		}
		msgs = append(msgs, ue.Message)
	}
	return fmt.Sprintf("%s rejected: %s", e.Operation, strings.Join(msgs, "; "))
}

// GraphQLError is one entry of the top-level errors array.
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// GraphQLErrors reports protocol-level errors such as throttling or schema violations.
type GraphQLErrors struct {
	Operation  string
	StatusCode int
	Errors     []GraphQLError
}

func (e *GraphQLErrors) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ge := range e.Errors {
		msgs = append(msgs, ge.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, strings.Join(msgs, "; "))
}

// Messages returns the error messages in order.
func (e *GraphQLErrors) Messages() []string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ge := range e.Errors {
		msgs = append(msgs, ge.Message)
	}
	return msgs
}

// ResponseError is a non-2xx answer from the Admin API.
type ResponseError struct {
	Operation  string
	StatusCode int
	Body       []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Operation, e.StatusCode)
}

// DecodeError is a response body that could not be parsed as expected.
type DecodeError struct {
	Operation  string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s response: %v", e.Operation, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// UploadError is a non-2xx answer from a staged upload target.
type UploadError struct {
	StatusCode int
	Body       []byte
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("staged upload returned status %d", e.StatusCode)
}
