package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	profiletypes "github.com/Apurer/pooch-profile-api/internal/domains/profiles/application/types"
	profileactivities "github.com/Apurer/pooch-profile-api/internal/platform/temporal/activities/profiles"
)

// ProfileSubmissionTimeout bounds the record creation activity.
const ProfileSubmissionTimeout = 2 * time.Minute

// RunProfileSubmissionSequence creates the profile record. Creation is not idempotent,
// so the activity runs exactly once.
func RunProfileSubmissionSequence(ctx workflow.Context, input profiletypes.SubmitProfileInput) (*profiletypes.ProfileProjection, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("profile submission sequence started", "image", input.Image.ReferenceID() != "")
	createOptions := workflow.ActivityOptions{
		StartToCloseTimeout: ProfileSubmissionTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}

	var projection profiletypes.ProfileProjection
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, createOptions), profileactivities.CreateProfileActivityName, input).Get(ctx, &projection)
	if err != nil {
		logger.Error("profile submission sequence failed", "error", err)
		return nil, err
	}
	if projection.Profile != nil {
		logger.Info("profile submission sequence created", "profileId", projection.Profile.ID)
	} else {
		logger.Info("profile submission sequence created")
	}
	return &projection, nil
}
