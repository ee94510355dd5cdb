package metrics

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scrape fetches the handler's exposition and parses it into metric families.
func scrape(t *testing.T, h http.Handler) map[string]*dto.MetricFamily {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	mfs, err := parseMetrics(rr.Body)
	require.NoError(t, err)
	return mfs
}

func parseMetrics(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil && len(mfs) == 0 {
		return nil, fmt.Errorf("parse prometheus text: %w", err)
	}
	return mfs, nil
}

// labelled returns the value of the counter or gauge in mf whose labels
// match want exactly, and whether one was found.
func labelled(mf *dto.MetricFamily, want map[string]string) (float64, bool) {
	if mf == nil {
		return 0, false
	}
	for _, m := range mf.GetMetric() {
		if len(m.GetLabel()) != len(want) {
			continue
		}
		match := true
		for _, lp := range m.GetLabel() {
			if want[lp.GetName()] != lp.GetValue() {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		switch {
		case m.Counter != nil:
			return m.Counter.GetValue(), true
		case m.Gauge != nil:
			return m.Gauge.GetValue(), true
		case m.Histogram != nil:
			return float64(m.Histogram.GetSampleCount()), true
		}
	}
	return 0, false
}

func TestMetrics_Exposition(t *testing.T) {
	m := New()
	m.SetDatasetRecords(56)
	m.ObserveView(ViewPie, 120*time.Microsecond)
	m.ObserveView(ViewPie, 80*time.Microsecond)
	m.ObserveView(ViewScatter, time.Millisecond)
	m.ChartRendered(ViewPie, "svg")
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	mfs := scrape(t, m.Handler())

	v, ok := labelled(mfs["launchdash_dataset_records"], map[string]string{})
	require.True(t, ok)
	assert.Equal(t, 56.0, v)

	v, ok = labelled(mfs["launchdash_view_computations_total"], map[string]string{"view": ViewPie})
	require.True(t, ok)
	assert.Equal(t, 2.0, v)

	v, ok = labelled(mfs["launchdash_view_duration_seconds"], map[string]string{"view": ViewScatter})
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	v, ok = labelled(mfs["launchdash_chart_renders_total"], map[string]string{"chart": ViewPie, "format": "svg"})
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	v, ok = labelled(mfs["launchdash_ws_sessions"], map[string]string{})
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	assert.Contains(t, mfs, "go_goroutines")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveView(ViewPie, time.Millisecond)
	m.ChartRendered(ViewPie, "png")
	m.SetDatasetRecords(1)
	m.SessionOpened()
	m.SessionClosed()

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
