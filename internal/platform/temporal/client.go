// Package temporal connects the processes to the Temporal cluster.
package temporal

import (
	"errors"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	platformobservability "github.com/Apurer/pooch-profile-api/internal/platform/observability"
)

// ErrDisabled is returned by Dial when Temporal is switched off by configuration.
var ErrDisabled = errors.New("temporal disabled via TEMPORAL_DISABLED env")

// ClientSettings selects the cluster to dial.
type ClientSettings struct {
	Address   string
	Namespace string
	Disabled  bool
	// TracerName names the tracer used by the OpenTelemetry interceptor.
	TracerName string
}

// Dial connects a Temporal client with tracing and structured logging wired.
func Dial(settings ClientSettings, instruments *platformobservability.Instruments) (client.Client, error) {
	if settings.Disabled {
		return nil, ErrDisabled
	}
	address := settings.Address
	if address == "" {
		address = client.DefaultHostPort
	}
	namespace := settings.Namespace
	if namespace == "" {
		namespace = client.DefaultNamespace
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(settings.TracerName)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  address,
		Namespace: namespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
