package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	poochserver "github.com/Apurer/pooch-profile-api/go"

	"github.com/Apurer/pooch-profile-api/internal/app/bootstrap"
	appconfig "github.com/Apurer/pooch-profile-api/internal/app/config"
	profilesworkflows "github.com/Apurer/pooch-profile-api/internal/domains/profiles/adapters/workflows"
	profilesports "github.com/Apurer/pooch-profile-api/internal/domains/profiles/ports"
	platformobservability "github.com/Apurer/pooch-profile-api/internal/platform/observability"
	platformtemporal "github.com/Apurer/pooch-profile-api/internal/platform/temporal"
)

const (
	serviceName     = "pooch-profile-api"
	shutdownTimeout = 10 * time.Second
)

// Run boots the pooch profile HTTP API and blocks until ctx is cancelled or the server fails.
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
	var profileWorkflows profilesports.WorkflowOrchestrator = profilesworkflows.NewInlineProfileWorkflows(profileService)
	if temporalClient, err := platformtemporal.Dial(bootstrap.TemporalSettings(cfg, "temporal-client"), instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, submitting profiles inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		profileWorkflows = profilesworkflows.NewTemporalProfileWorkflows(temporalClient, profileService)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.Temporal.Namespace))
	}

	handlers := poochserver.ApiHandleFunctions{
		ProfileAPI: poochserver.NewProfileAPI(profileService, profileWorkflows,
			poochserver.WithMaxUploadBytes(cfg.MaxUploadBytes),
			poochserver.WithInternalErrors(!cfg.IsProduction()),
		),
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		poochserver.RequestID(),
		otelgin.Middleware(serviceName),
		poochserver.AccessLog(logger),
		poochserver.CORS(cfg.CORSAllowedOrigin),
	)
	router := poochserver.NewRouterWithGinEngine(engine, handlers)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Pooch profile API listening", slog.String("addr", server.Addr), slog.String("environment", cfg.Environment))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("Pooch profile API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		logger.Info("shutting down Pooch profile API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
