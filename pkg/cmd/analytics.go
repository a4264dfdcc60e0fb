package cmd

import (
	"log/slog"

	"github.com/techbluessolutions/n8n/pkg/analytics"
)

// NewAnalyticsClient creates the outbound analytics client. An empty
// endpoint disables analytics entirely.
func NewAnalyticsClient(endpoint, instanceID string, logger *slog.Logger) analytics.Client {
	if endpoint == "" {
		logger.Info("Analytics disabled, no endpoint configured")

		return analytics.NoopClient{}
	}

	return analytics.NewHTTPClient(endpoint, instanceID, logger)
}
