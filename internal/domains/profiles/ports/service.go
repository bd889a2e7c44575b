package ports

import (
	"context"

	profiletypes "github.com/Apurer/pooch-profile-api/internal/domains/profiles/application/types"
)

// Service defines the profile use cases exposed to adapters (inbound/driving port).
type Service interface {
	SubmitProfile(ctx context.Context, input profiletypes.SubmitProfileInput) (*profiletypes.ProfileProjection, error)
	StageImage(ctx context.Context, input profiletypes.StageImageInput) (*profiletypes.FileReference, error)
}
