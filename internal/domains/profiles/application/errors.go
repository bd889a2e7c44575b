package application

import (
	"errors"

	"github.com/Apurer/pooch-profile-api/internal/domains/profiles/domain"
)

// ErrInvalidInput signals the request violated a profile invariant.
var ErrInvalidInput = domain.ErrValidation

// ErrNotConfigured is returned when the service is used without a platform.
var ErrNotConfigured = errors.New("profile service not configured")

func stepError(kind error, op string, messages ...string) error {
	return &domain.Error{Kind: kind, Op: op, Messages: messages}
}
