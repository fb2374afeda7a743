package monitoring

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordExport(t *testing.T) {
	m := NewMetrics()

	m.RecordExport("copied", 3, 8, ".problem", 20*time.Millisecond)
	m.RecordExport("failed", 0, 0, "", 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportsTotal.WithLabelValues("copied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportsTotal.WithLabelValues("failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ProblemsFound))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StrategyHits.WithLabelValues("none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StrategyHits.WithLabelValues(".problem")))
}

func TestRecordClipboardAttempt(t *testing.T) {
	m := NewMetrics()

	m.RecordClipboardAttempt("system", "failure")
	m.RecordClipboardAttempt("terminal", "success")
	m.RecordClipboardAttempt("terminal", "success")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ClipboardAttempts.WithLabelValues("terminal", "success")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.ClipboardAttempts))
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.RecordExport("copied", 1, 2, ".wrapper-problem-response", time.Millisecond)

	require.NoError(t, m.WriteTextfile(""))

	path := filepath.Join(t.TempDir(), "quizexport.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `quizexport_exports_total{outcome="copied"} 1`)
	assert.Contains(t, string(data), "quizexport_choices_found 2")
}
