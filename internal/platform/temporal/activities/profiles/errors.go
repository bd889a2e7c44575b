package profiles

import (
	"errors"

	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/pooch-profile-api/internal/domains/profiles/domain"
)

// Application error types used on the workflow boundary.
const (
	ErrorTypeValidation         = "ValidationError"
	ErrorTypeStaging            = "StagingError"
	ErrorTypeUploadTransport    = "UploadTransportError"
	ErrorTypeFinalization       = "FinalizationError"
	ErrorTypeSubmissionRejected = "SubmissionRejected"
	ErrorTypeUnexpectedResponse = "UnexpectedResponseError"
	ErrorTypeUnclassified       = "UnclassifiedError"
)

var errorTypes = []struct {
	kind     error
	typeName string
}{
	{domain.ErrValidation, ErrorTypeValidation},
	{domain.ErrStaging, ErrorTypeStaging},
	{domain.ErrUploadTransport, ErrorTypeUploadTransport},
	{domain.ErrFinalization, ErrorTypeFinalization},
	{domain.ErrSubmissionRejected, ErrorTypeSubmissionRejected},
	{domain.ErrUnexpectedResponse, ErrorTypeUnexpectedResponse},
}

// errorDetail is the serialisable part of a *domain.Error.
type errorDetail struct {
	Op         string             `json:"op,omitempty"`
	Messages   []string           `json:"messages,omitempty"`
	UserErrors []domain.UserError `json:"userErrors,omitempty"`
	StatusCode int                `json:"statusCode,omitempty"`
	Body       string             `json:"body,omitempty"`
	Unexpected bool               `json:"unexpected,omitempty"`
}

// EncodeError converts err into a non-retryable application error tagged with its kind.
func EncodeError(err error) error {
	if err == nil {
		return nil
	}
	kind := domain.KindOf(err)
	if kind == nil {
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeUnclassified, nil)
	}
	detail := errorDetail{Unexpected: kind != domain.ErrUnexpectedResponse && errors.Is(err, domain.ErrUnexpectedResponse)}
	var de *domain.Error
	if errors.As(err, &de) {
		detail.Op = de.Op
		detail.Messages = de.Messages
		detail.UserErrors = de.UserErrors
		detail.StatusCode = de.StatusCode
		detail.Body = de.Body
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), typeName(kind), nil, detail)
}

// DecodeError restores the *domain.Error carried by a workflow or activity failure.
// Errors without a known kind are returned unchanged.
func DecodeError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	kind := kindOf(appErr.Type())
	if kind == nil {
		return err
	}
	var detail errorDetail
	if appErr.HasDetails() {
		_ = appErr.Details(&detail)
	}
	cause := err
	if detail.Unexpected {
		cause = &domain.Error{Kind: domain.ErrUnexpectedResponse, Op: detail.Op, StatusCode: detail.StatusCode, Body: detail.Body, Err: err}
	}
	return &domain.Error{
		Kind:       kind,
		Op:         detail.Op,
		Messages:   detail.Messages,
		UserErrors: detail.UserErrors,
		StatusCode: detail.StatusCode,
		Body:       detail.Body,
		Err:        cause,
	}
}

func typeName(kind error) string {
	for _, t := range errorTypes {
		if t.kind == kind {
			return t.typeName
		}
	}
	return ErrorTypeUnclassified
}

func kindOf(typeName string) error {
	for _, t := range errorTypes {
		if t.typeName == typeName {
			return t.kind
		}
	}
	return nil
}
