package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstancesDoNotCollide(t *testing.T) {
	a := New()
	b := New()

	a.RecordParsed("fast")
	a.RecordParsed("fast")
	b.RecordParsed("fast")

	assert.Equal(t, 2.0, testutil.ToFloat64(a.LinesParsed.WithLabelValues("fast")))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.LinesParsed.WithLabelValues("fast")))
}

func TestRecorders(t *testing.T) {
	m := New()

	m.RecordSkipped()
	m.RecordFileRead()
	m.RecordFSError(OpStat)
	m.RecordFSError(OpStat)
	m.RecordCleared(3)
	m.RecordCleared(0)
	m.ObserveRequest("/api/v1/logs", "GET", "200", 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LinesSkipped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FilesRead))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FSErrors.WithLabelValues(OpStat)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.FilesCleared))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))

	n, err := testutil.GatherAndCount(m.Registry(), "snort_dashboard_files_cleared_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordParsed("json")
		m.RecordSkipped()
		m.RecordFileRead()
		m.RecordFSError(OpRead)
		m.RecordCleared(1)
		m.ObserveRequest("/", "GET", "200", time.Second)
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.RecordFSError(OpList)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `snort_dashboard_fs_errors_total{op="list"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
