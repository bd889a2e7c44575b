package ports

import (
	"context"

	profiletypes "github.com/Apurer/pooch-profile-api/internal/domains/profiles/application/types"
)

// WorkflowOrchestrator runs a profile submission either inline or on a durable engine.
type WorkflowOrchestrator interface {
	SubmitProfile(ctx context.Context, input profiletypes.SubmitProfileInput) (*profiletypes.ProfileProjection, error)
}
