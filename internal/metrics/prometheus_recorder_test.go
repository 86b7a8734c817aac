package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("export", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("export", ResultSuccess)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.IncPagesRendered("log")
	pr.IncPagesRendered("log")
	pr.AddBrokenLinks(3)

	assert.InDelta(t, 2, testutil.ToFloat64(pr.pagesRendered.WithLabelValues("log")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(pr.brokenLinks), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.stageResults.WithLabelValues("export", "success")), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncBuildOutcome(BuildOutcomeWarning)

	path := filepath.Join(t.TempDir(), "labsite.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `labsite_build_outcomes_total{outcome="warning"} 1`)
}

func TestPrometheusRecorder_HTTPHandler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.AddBrokenLinks(1)

	rec := httptest.NewRecorder()
	pr.HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "labsite_broken_links_total 1")
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("tree", time.Second)
	r.IncBuildOutcome(BuildOutcomeFailed)
	r.AddBrokenLinks(2)
}
