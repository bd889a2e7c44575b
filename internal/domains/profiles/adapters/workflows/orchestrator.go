package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	profiletypes "github.com/Apurer/pooch-profile-api/internal/domains/profiles/application/types"
	"github.com/Apurer/pooch-profile-api/internal/domains/profiles/domain"
	"github.com/Apurer/pooch-profile-api/internal/domains/profiles/ports"
	profileactivities "github.com/Apurer/pooch-profile-api/internal/platform/temporal/activities/profiles"
	profileworkflows "github.com/Apurer/pooch-profile-api/internal/platform/temporal/workflows/profiles"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalProfileWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineProfileWorkflows)(nil)
)

// ErrWorkflowIDConflict is returned when a submission workflow id is already in use.
var ErrWorkflowIDConflict = errors.New("profile submission workflow already started")

// TemporalProfileWorkflows runs profile submissions on a Temporal cluster.
// Raw images are staged in-process first so only a file reference enters workflow history.
type TemporalProfileWorkflows struct {
	client    client.Client
	stager    ports.Service
	taskQueue string
}

// NewTemporalProfileWorkflows wires a Temporal client and the service used for image staging.
func NewTemporalProfileWorkflows(c client.Client, stager ports.Service) *TemporalProfileWorkflows {
	return &TemporalProfileWorkflows{client: c, stager: stager, taskQueue: profileworkflows.ProfileSubmissionTaskQueue}
}

// SubmitProfile validates, stages the image if needed and starts the submission workflow.
func (o *TemporalProfileWorkflows) SubmitProfile(ctx context.Context, input profiletypes.SubmitProfileInput) (*profiletypes.ProfileProjection, error) {
	if o == nil || o.client == nil || o.stager == nil {
		return nil, errors.New("temporal profile workflows not configured")
	}
	if _, err := domain.NewDraft(input.Name, input.CustomerID, input.Breed, input.Birthday, input.Weight, input.Notes); err != nil {
		return nil, err
	}

	command := input
	staged := false
	if input.Image.HasUpload() {
		ref, err := o.stager.StageImage(ctx, profiletypes.StageImageInput{Upload: input.Image.Upload})
		if err != nil {
			return nil, err
		}
		command.Image = &profiletypes.ImageInput{Reference: ref.ID}
		staged = true
	}

	traceComponent := workflowTraceID(ctx)
	workflowID := buildProfileSubmissionWorkflowID(traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		profileworkflows.ProfileSubmissionWorkflow,
		profileworkflows.ProfileSubmissionWorkflowInput{Command: command, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return nil, fmt.Errorf("%w: %s", ErrWorkflowIDConflict, workflowID)
		}
		return nil, err
	}
	var projection profiletypes.ProfileProjection
	if err := run.Get(ctx, &projection); err != nil {
		return nil, profileactivities.DecodeError(err)
	}
	if staged {
		projection.Metadata.ImageStaged = true
	}
	return &projection, nil
}

// InlineProfileWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineProfileWorkflows struct {
	service ports.Service
}

// NewInlineProfileWorkflows wraps the profiles service for synchronous execution.
func NewInlineProfileWorkflows(service ports.Service) *InlineProfileWorkflows {
	return &InlineProfileWorkflows{service: service}
}

// SubmitProfile delegates to the application service without durable orchestration.
func (o *InlineProfileWorkflows) SubmitProfile(ctx context.Context, input profiletypes.SubmitProfileInput) (*profiletypes.ProfileProjection, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline profile workflows not configured")
	}
	return o.service.SubmitProfile(ctx, input)
}

// Submissions are not idempotent, so every attempt gets a fresh id.
func buildProfileSubmissionWorkflowID(traceComponent string) string {
	if traceComponent != "" {
		return fmt.Sprintf("profile-submission-%s-%s", traceComponent, uuid.NewString())
	}
	return fmt.Sprintf("profile-submission-%s", uuid.NewString())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
