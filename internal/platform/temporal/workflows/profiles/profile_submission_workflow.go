package profiles

import (
	"go.temporal.io/sdk/workflow"

	profiletypes "github.com/Apurer/pooch-profile-api/internal/domains/profiles/application/types"
	"github.com/Apurer/pooch-profile-api/internal/platform/temporal/sequences"
)

const (
	// ProfileSubmissionWorkflowName is the public identifier for registering the workflow.
	ProfileSubmissionWorkflowName = "profiles.workflows.Submission"
	// ProfileSubmissionTaskQueue is the queue consumed by the worker processing profile workflows.
	ProfileSubmissionTaskQueue = "POOCH_PROFILE_SUBMISSION"
)

// ProfileSubmissionWorkflowInput captures the payload required to create a profile.
// Command.Image may only carry a reference.
type ProfileSubmissionWorkflowInput struct {
	Command profiletypes.SubmitProfileInput
	TraceID string
}

// ProfileSubmissionWorkflow runs the activities that create a pooch profile record.
func ProfileSubmissionWorkflow(ctx workflow.Context, input ProfileSubmissionWorkflowInput) (*profiletypes.ProfileProjection, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("ProfileSubmissionWorkflow started", withTraceID(input.TraceID)...)
	projection, err := sequences.RunProfileSubmissionSequence(ctx, input.Command)
	if err != nil {
		logger.Error("ProfileSubmissionWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	if projection != nil && projection.Profile != nil {
		logger.Info("ProfileSubmissionWorkflow completed", withTraceID(input.TraceID, "profileId", projection.Profile.ID)...)
	} else {
		logger.Info("ProfileSubmissionWorkflow completed", withTraceID(input.TraceID)...)
	}
	return projection, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
