// Package worker runs the Temporal worker that executes profile submissions.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/pooch-profile-api/internal/app/bootstrap"
	appconfig "github.com/Apurer/pooch-profile-api/internal/app/config"
	profilesports "github.com/Apurer/pooch-profile-api/internal/domains/profiles/ports"
	platformobservability "github.com/Apurer/pooch-profile-api/internal/platform/observability"
	platformtemporal "github.com/Apurer/pooch-profile-api/internal/platform/temporal"
	profileactivities "github.com/Apurer/pooch-profile-api/internal/platform/temporal/activities/profiles"
	profileworkflows "github.com/Apurer/pooch-profile-api/internal/platform/temporal/workflows/profiles"
)

const serviceName = "pooch-profile-worker"

// Run polls the profile submission task queue until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := appconfig.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, bootstrap.ObservabilitySettings(cfg, serviceName))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	profileService, err := bootstrap.NewProfileService(cfg, instruments)
	if err != nil {
		return err
	}
	temporalClient, err := platformtemporal.Dial(bootstrap.TemporalSettings(cfg, "temporal-worker"), instruments)
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	w := newWorker(temporalClient, profileService)
	logger.Info("worker listening", slog.String("taskQueue", profileworkflows.ProfileSubmissionTaskQueue), slog.String("namespace", cfg.Temporal.Namespace))
	if err := w.Run(interruptOn(ctx)); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Temporal worker stopped")
	return nil
}

func newWorker(c client.Client, service profilesports.Service) worker.Worker {
	w := worker.New(c, profileworkflows.ProfileSubmissionTaskQueue, worker.Options{})
	register(w, profileactivities.NewActivities(service))
	return w
}

type registry interface {
	RegisterWorkflowWithOptions(w interface{}, options workflow.RegisterOptions)
	RegisterActivityWithOptions(a interface{}, options activity.RegisterOptions)
}

func register(r registry, activities *profileactivities.Activities) {
	r.RegisterWorkflowWithOptions(profileworkflows.ProfileSubmissionWorkflow, workflow.RegisterOptions{Name: profileworkflows.ProfileSubmissionWorkflowName})
	r.RegisterActivityWithOptions(activities.CreateProfile, activity.RegisterOptions{Name: profileactivities.CreateProfileActivityName})
}

func interruptOn(ctx context.Context) <-chan interface{} {
	stop := make(chan interface{})
	go func() {
		<-ctx.Done()
		close(stop)
	}()
	return stop
}
