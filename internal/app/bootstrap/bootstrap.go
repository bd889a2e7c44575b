// Package bootstrap assembles the process dependencies from configuration.
package bootstrap

import (
	"fmt"

	shopifyclient "github.com/Apurer/pooch-profile-api/internal/clients/http/shopify"
	appconfig "github.com/Apurer/pooch-profile-api/internal/app/config"
	profileshopify "github.com/Apurer/pooch-profile-api/internal/domains/profiles/adapters/external/shopify"
	profilesobs "github.com/Apurer/pooch-profile-api/internal/domains/profiles/adapters/observability"
	profilesapp "github.com/Apurer/pooch-profile-api/internal/domains/profiles/application"
	profilesports "github.com/Apurer/pooch-profile-api/internal/domains/profiles/ports"
	platformobservability "github.com/Apurer/pooch-profile-api/internal/platform/observability"
	platformtemporal "github.com/Apurer/pooch-profile-api/internal/platform/temporal"
)

// ObservabilitySettings maps configuration onto the observability bootstrap.
func ObservabilitySettings(cfg appconfig.Config, serviceName string) platformobservability.Settings {
	return platformobservability.Settings{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		Exporter:     cfg.Otel.Exporter,
		OTLPEndpoint: cfg.Otel.OTLPEndpoint,
		OTLPInsecure: cfg.Otel.Insecure(),
		LogLevel:     platformobservability.ParseLogLevel(cfg.LogLevel),
	}
}

// TemporalSettings maps configuration onto the Temporal dialer.
func TemporalSettings(cfg appconfig.Config, tracerName string) platformtemporal.ClientSettings {
	return platformtemporal.ClientSettings{
		Address:    cfg.Temporal.Address,
		Namespace:  cfg.Temporal.Namespace,
		Disabled:   cfg.Temporal.IsDisabled(),
		TracerName: tracerName,
	}
}

// NewProfileService builds the instrumented profile service backed by the Shopify Admin API.
func NewProfileService(cfg appconfig.Config, instruments *platformobservability.Instruments) (profilesports.Service, error) {
	client, err := shopifyclient.NewClient(
		cfg.Shopify.Store,
		cfg.Shopify.AccessToken,
		cfg.Shopify.APIVersion,
		shopifyclient.WithTracer(instruments.Tracer("internal.clients.shopify")),
	)
	if err != nil {
		return nil, fmt.Errorf("configure shopify client: %w", err)
	}
	core := profilesapp.NewService(profileshopify.NewPlatform(client), profilesapp.Config{
		ProfileType:   cfg.ProfileType,
		GIDNamespace:  cfg.Shopify.GIDNamespace,
		CallTimeout:   cfg.Shopify.CallTimeout,
		MaxImageBytes: cfg.MaxUploadBytes,
	})
	options := []profilesobs.Option{
		profilesobs.WithTracer(instruments.Tracer("internal.profiles.application")),
		profilesobs.WithMeter(instruments.Meter("internal.profiles.application")),
	}
	if instruments != nil {
		options = append(options, profilesobs.WithLogger(instruments.Logger))
	}
	return profilesobs.New(core, options...), nil
}
