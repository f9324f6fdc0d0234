package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/northstar/plugin/ai/agent"
)

// MetricsOverviewResponse is the routing and execution summary since process start.
type MetricsOverviewResponse struct {
	agent.MetricsSummary
	UptimeSeconds int64 `json:"uptime_seconds"`
}

var startedAt = time.Now()

// GetMetricsOverview returns the in-process agent metrics.
// GET /api/v1/metrics
func (s *APIV1Service) GetMetricsOverview(c echo.Context) error {
	return c.JSON(http.StatusOK, MetricsOverviewResponse{
		MetricsSummary: s.ConversationService.Metrics(),
		UptimeSeconds:  int64(time.Since(startedAt).Seconds()),
	})
}
