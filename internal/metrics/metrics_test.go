package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteCacheLookups(t *testing.T) {
	before := testutil.ToFloat64(QuoteCacheLookups.WithLabelValues("hit"))
	QuoteCacheLookups.WithLabelValues("hit").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(QuoteCacheLookups.WithLabelValues("hit")))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	ObserveGeneration(OutcomeSuccess, 250*time.Millisecond)
	HTTPRequests.WithLabelValues("/api/health", http.MethodGet, "200").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "myntr_generation_duration_seconds")
	assert.Contains(t, string(body), `myntr_http_requests_total{method="GET",route="/api/health",status="200"}`)
}
