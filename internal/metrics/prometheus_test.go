package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rr-monitor.klederson.com/internal/rr"
)

func TestRecorder_ObserveAppend(t *testing.T) {
	r := NewRecorder()

	r.ObserveAppend(rr.Sample{Value: 0.8})
	r.ObserveAppend(rr.Sample{Value: 0.5})
	r.ObserveAppend(rr.Sample{Value: 1.2})
	r.ObserveAppend(rr.Sample{Value: 0.9})

	assert.Equal(t, 4.0, testutil.ToFloat64(r.SamplesAppended))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.Classifications.WithLabelValues("Healthy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Classifications.WithLabelValues("Below")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Classifications.WithLabelValues("Above")))
	assert.Equal(t, 0.9, testutil.ToFloat64(r.LatestSeconds))
	assert.InDelta(t, 0.75, testutil.ToFloat64(r.LatestHealthiness), 1e-9)
}

func TestRecorder_ObserveWindow(t *testing.T) {
	r := NewRecorder()
	rs, err := rr.NewRollingSeries(3, []rr.Sample{{Value: 0.7}, {Value: 0.8}})
	require.NoError(t, err)

	r.ObserveWindow(rs.Snapshot())
	assert.Equal(t, 2.0, testutil.ToFloat64(r.WindowSamples))
	assert.Equal(t, 0.8, testutil.ToFloat64(r.LatestSeconds))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.LatestHealthiness))
}

func TestRecorder_ObserveFetch(t *testing.T) {
	r := NewRecorder()
	r.ObserveFetch(FetchOK, 20*time.Millisecond)
	r.ObserveFetch(FetchError, time.Second)
	r.ObserveFetch(FetchError, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.Fetches.WithLabelValues(FetchOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.Fetches.WithLabelValues(FetchError)))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.Fetches.WithLabelValues(FetchNoData)))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.ObserveAppend(rr.Sample{Value: 0.8})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(body, "rr_latest_seconds 0.8"), body)
	assert.True(t, strings.Contains(body, `rr_classification_total{class="Healthy"} 1`), body)
}
