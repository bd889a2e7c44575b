package profiles

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	profiletypes "github.com/Apurer/pooch-profile-api/internal/domains/profiles/application/types"
	"github.com/Apurer/pooch-profile-api/internal/domains/profiles/domain"
	profileactivities "github.com/Apurer/pooch-profile-api/internal/platform/temporal/activities/profiles"
)

type recordingService struct {
	mu     sync.Mutex
	inputs []profiletypes.SubmitProfileInput
	result *profiletypes.ProfileProjection
	err    error
}

func (s *recordingService) SubmitProfile(_ context.Context, input profiletypes.SubmitProfileInput) (*profiletypes.ProfileProjection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, input)
	return s.result, s.err
}

func (s *recordingService) StageImage(context.Context, profiletypes.StageImageInput) (*profiletypes.FileReference, error) {
	return nil, errors.New("not used")
}

func (s *recordingService) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inputs)
}

func newEnv(t *testing.T, svc *recordingService) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	acts := profileactivities.NewActivities(svc)
	env.RegisterActivityWithOptions(acts.CreateProfile, activity.RegisterOptions{Name: profileactivities.CreateProfileActivityName})
	return env
}

func TestProfileSubmissionWorkflow_CreatesProfile(t *testing.T) {
	svc := &recordingService{result: profiletypes.NewProfileProjection(&domain.Profile{
		ID:     "gid://shopify/Metaobject/7",
		Type:   "pooch_profile",
		Fields: []domain.Field{{Key: "image", Value: "gid://shopify/MediaImage/3"}, {Key: "name", Value: "Rex"}},
	}, profiletypes.SubmissionMetadata{ImageReference: "gid://shopify/MediaImage/3"})}
	env := newEnv(t, svc)

	command := profiletypes.SubmitProfileInput{
		Name:       "Rex",
		CustomerID: "123",
		Image:      &profiletypes.ImageInput{Reference: "gid://shopify/MediaImage/3"},
	}
	env.ExecuteWorkflow(ProfileSubmissionWorkflow, ProfileSubmissionWorkflowInput{Command: command, TraceID: "trace-1"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var projection profiletypes.ProfileProjection
	require.NoError(t, env.GetWorkflowResult(&projection))
	require.Equal(t, "gid://shopify/Metaobject/7", projection.Profile.ID)
	require.Equal(t, "gid://shopify/MediaImage/3", projection.Metadata.ImageReference)

	require.Equal(t, 1, svc.calls())
	require.Equal(t, "gid://shopify/MediaImage/3", svc.inputs[0].Image.ReferenceID())
}

func TestProfileSubmissionWorkflow_FailsWithoutRetry(t *testing.T) {
	svc := &recordingService{err: &domain.Error{
		Kind:       domain.ErrSubmissionRejected,
		Op:         "create profile",
		UserErrors: []domain.UserError{{Field: []string{"metaobject", "type"}, Message: "Type is invalid"}},
	}}
	env := newEnv(t, svc)

	env.ExecuteWorkflow(ProfileSubmissionWorkflow, ProfileSubmissionWorkflowInput{
		Command: profiletypes.SubmitProfileInput{Name: "Rex", CustomerID: "123"},
	})

	require.True(t, env.IsWorkflowCompleted())
	err := profileactivities.DecodeError(env.GetWorkflowError())
	require.ErrorIs(t, err, domain.ErrSubmissionRejected)
	var detail *domain.Error
	require.True(t, errors.As(err, &detail))
	require.Equal(t, []string{"Type is invalid"}, detail.AllMessages())
	require.Equal(t, 1, svc.calls())
}

func TestProfileSubmissionWorkflow_RejectsRawUploads(t *testing.T) {
	svc := &recordingService{}
	env := newEnv(t, svc)

	env.ExecuteWorkflow(ProfileSubmissionWorkflow, ProfileSubmissionWorkflowInput{
		Command: profiletypes.SubmitProfileInput{
			Name:       "Rex",
			CustomerID: "123",
			Image:      &profiletypes.ImageInput{Upload: &profiletypes.ImageUpload{MimeType: "image/png"}},
		},
	})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	require.Equal(t, 0, svc.calls())
}
