package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bizsuite/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func requestCounts(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http_server_requests_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				route, _ := dp.Attributes.Value("http.route")
				status, _ := dp.Attributes.Value("http.response.status_code")
				counts[route.AsString()+" "+status.AsString()] += dp.Value
			}
		}
	}
	return counts
}

func TestHTTPMetrics_RecordsRouteTemplates(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	instruments, err := telemetry.NewInstruments(mp.Meter(telemetry.MeterName))
	require.NoError(t, err)

	router := gin.New()
	router.Use(HTTPMetrics(instruments))
	router.GET("/api/v1/marketing/campaigns/:id", func(c *gin.Context) {
		if c.Param("id") == "missing" {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusOK)
	})

	for _, path := range []string{"/api/v1/marketing/campaigns/a", "/api/v1/marketing/campaigns/b", "/api/v1/marketing/campaigns/missing", "/nowhere"} {
		serve(router, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, map[string]int64{
		"/api/v1/marketing/campaigns/:id 200": 2,
		"/api/v1/marketing/campaigns/:id 404": 1,
		"unmatched 404":                       1,
	}, requestCounts(t, reader))
}

func TestHTTPMetrics_NilInstruments(t *testing.T) {
	router := okRouter(HTTPMetrics(nil))
	assert.Equal(t, http.StatusOK, serve(router, httptest.NewRequest(http.MethodGet, "/test", nil)).Code)
}
