package workflows

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	profiletypes "github.com/Apurer/pooch-profile-api/internal/domains/profiles/application/types"
	"github.com/Apurer/pooch-profile-api/internal/domains/profiles/domain"
	profileactivities "github.com/Apurer/pooch-profile-api/internal/platform/temporal/activities/profiles"
	profileworkflows "github.com/Apurer/pooch-profile-api/internal/platform/temporal/workflows/profiles"
)

type stubService struct {
	staged    int
	submitted int
	stageErr  error
}

func (s *stubService) SubmitProfile(context.Context, profiletypes.SubmitProfileInput) (*profiletypes.ProfileProjection, error) {
	s.submitted++
	return profiletypes.NewProfileProjection(&domain.Profile{ID: "gid://shopify/Metaobject/1"}, profiletypes.SubmissionMetadata{}), nil
}

func (s *stubService) StageImage(context.Context, profiletypes.StageImageInput) (*profiletypes.FileReference, error) {
	s.staged++
	if s.stageErr != nil {
		return nil, s.stageErr
	}
	return &profiletypes.FileReference{ID: "gid://shopify/MediaImage/9"}, nil
}

func imageInput() profiletypes.SubmitProfileInput {
	return profiletypes.SubmitProfileInput{
		Name:       "Rex",
		CustomerID: "123",
		Image:      &profiletypes.ImageInput{Upload: profiletypes.NewImageUploadFromBytes("rex.png", "image/png", []byte("png"))},
	}
}

func TestTemporalProfileWorkflows_StagesBeforeStarting(t *testing.T) {
	stager := &stubService{}
	temporalClient := &mocks.Client{}
	run := &mocks.WorkflowRun{}

	isReferenceOnly := mock.MatchedBy(func(in profileworkflows.ProfileSubmissionWorkflowInput) bool {
		return !in.Command.Image.HasUpload() && in.Command.Image.ReferenceID() == "gid://shopify/MediaImage/9"
	})
	hasSubmissionID := mock.MatchedBy(func(opts client.StartWorkflowOptions) bool {
		return strings.HasPrefix(opts.ID, "profile-submission-") && opts.TaskQueue == profileworkflows.ProfileSubmissionTaskQueue
	})
	temporalClient.On("ExecuteWorkflow", mock.Anything, hasSubmissionID, mock.Anything, isReferenceOnly).Return(run, nil).Once()
	run.On("Get", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		out := args.Get(1).(*profiletypes.ProfileProjection)
		*out = profiletypes.ProfileProjection{
			Profile:  &domain.Profile{ID: "gid://shopify/Metaobject/5", Type: "pooch_profile"},
			Metadata: profiletypes.SubmissionMetadata{ImageReference: "gid://shopify/MediaImage/9"},
		}
	}).Return(nil).Once()

	proj, err := NewTemporalProfileWorkflows(temporalClient, stager).SubmitProfile(context.Background(), imageInput())
	require.NoError(t, err)
	require.Equal(t, "gid://shopify/Metaobject/5", proj.Profile.ID)
	require.True(t, proj.Metadata.ImageStaged)
	require.Equal(t, 1, stager.staged)
	require.Equal(t, 0, stager.submitted)
	temporalClient.AssertExpectations(t)
	run.AssertExpectations(t)
}

func TestTemporalProfileWorkflows_ValidationMakesNoCalls(t *testing.T) {
	stager := &stubService{}
	temporalClient := &mocks.Client{}

	input := imageInput()
	input.Name = "  "
	_, err := NewTemporalProfileWorkflows(temporalClient, stager).SubmitProfile(context.Background(), input)
	require.ErrorIs(t, err, domain.ErrValidation)
	require.Equal(t, 0, stager.staged)
	temporalClient.AssertNotCalled(t, "ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTemporalProfileWorkflows_StagingFailureSkipsWorkflow(t *testing.T) {
	stager := &stubService{stageErr: &domain.Error{Kind: domain.ErrStaging, Op: "stage image"}}
	temporalClient := &mocks.Client{}

	_, err := NewTemporalProfileWorkflows(temporalClient, stager).SubmitProfile(context.Background(), imageInput())
	require.ErrorIs(t, err, domain.ErrStaging)
	temporalClient.AssertNotCalled(t, "ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTemporalProfileWorkflows_DecodesWorkflowErrors(t *testing.T) {
	temporalClient := &mocks.Client{}
	run := &mocks.WorkflowRun{}
	temporalClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(run, nil).Once()
	run.On("Get", mock.Anything, mock.Anything).Return(profileactivities.EncodeError(&domain.Error{
		Kind:       domain.ErrSubmissionRejected,
		UserErrors: []domain.UserError{{Message: "Type is invalid"}},
	})).Once()

	_, err := NewTemporalProfileWorkflows(temporalClient, &stubService{}).SubmitProfile(context.Background(), profiletypes.SubmitProfileInput{Name: "Rex", CustomerID: "1"})
	require.ErrorIs(t, err, domain.ErrSubmissionRejected)
	var detail *domain.Error
	require.True(t, errors.As(err, &detail))
	require.Equal(t, []string{"Type is invalid"}, detail.AllMessages())
}

func TestTemporalProfileWorkflows_AlreadyStarted(t *testing.T) {
	temporalClient := &mocks.Client{}
	temporalClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, serviceerror.NewWorkflowExecutionAlreadyStarted("exists", "", "run-1")).Once()

	_, err := NewTemporalProfileWorkflows(temporalClient, &stubService{}).SubmitProfile(context.Background(), profiletypes.SubmitProfileInput{Name: "Rex", CustomerID: "1"})
	require.ErrorIs(t, err, ErrWorkflowIDConflict)
}

func TestInlineProfileWorkflows_Delegates(t *testing.T) {
	svc := &stubService{}
	proj, err := NewInlineProfileWorkflows(svc).SubmitProfile(context.Background(), profiletypes.SubmitProfileInput{Name: "Rex", CustomerID: "1"})
	require.NoError(t, err)
	require.Equal(t, "gid://shopify/Metaobject/1", proj.Profile.ID)
	require.Equal(t, 1, svc.submitted)

	_, err = (*InlineProfileWorkflows)(nil).SubmitProfile(context.Background(), profiletypes.SubmitProfileInput{})
	require.Error(t, err)
}

func TestBuildProfileSubmissionWorkflowID_IsUnique(t *testing.T) {
	first := buildProfileSubmissionWorkflowID("abc")
	second := buildProfileSubmissionWorkflowID("abc")
	require.NotEqual(t, first, second)
	require.True(t, strings.HasPrefix(first, "profile-submission-abc-"))
	require.True(t, strings.HasPrefix(buildProfileSubmissionWorkflowID(""), "profile-submission-"))
}
