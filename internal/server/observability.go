package server

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vibetravels/backend/internal/observability"
)

// InitObservability initializes OpenTelemetry providers and the application
// metric instruments.
func InitObservability(serviceName, metricsAddr string, logger *zap.Logger) (observability.ShutdownFunc, error) {
	shutdown, err := observability.InitProviders(serviceName, metricsAddr, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	observability.InitAppMetrics()
	logger.Info("Observability initialized", zap.String("metrics_endpoint", metricsAddr+"/metrics"))

	return shutdown, nil
}
