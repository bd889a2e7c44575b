package profiles

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	profiletypes "github.com/Apurer/pooch-profile-api/internal/domains/profiles/application/types"
	profilesports "github.com/Apurer/pooch-profile-api/internal/domains/profiles/ports"
)

const (
	// CreateProfileActivityName creates the profile record from an already staged image reference.
	CreateProfileActivityName = "profiles.activities.CreateProfile"
)

// Activities groups activities that operate on the profiles bounded context.
type Activities struct {
	service profilesports.Service
}

// NewActivities wires the profiles service into the Temporal activities bundle.
func NewActivities(service profilesports.Service) *Activities {
	return &Activities{service: service}
}

// CreateProfile submits a profile whose image, if any, is a pre-staged reference.
// Binary uploads never cross the workflow boundary.
func (a *Activities) CreateProfile(ctx context.Context, input profiletypes.SubmitProfileInput) (*profiletypes.ProfileProjection, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("profile activity not initialized")
		return nil, EncodeError(errors.New("profile activity not initialized"))
	}
	if input.Image.HasUpload() {
		logger.Error("CreateProfile received a raw upload")
		return nil, EncodeError(errors.New("raw image uploads must be staged before the workflow starts"))
	}
	hasImage := input.Image.ReferenceID() != ""
	logger.Info("CreateProfile activity started", "image", hasImage)
	projection, err := a.service.SubmitProfile(ctx, input)
	if err != nil {
		logger.Error("CreateProfile activity failed", "error", err)
		return nil, EncodeError(err)
	}
	if projection != nil && projection.Profile != nil {
		logger.Info("CreateProfile activity completed", "profileId", projection.Profile.ID)
	} else {
		logger.Info("CreateProfile activity completed")
	}
	return projection, nil
}
