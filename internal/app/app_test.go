package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/quizexport/internal/clipboard"
	"github.com/GriffinCanCode/quizexport/internal/config"
	"github.com/GriffinCanCode/quizexport/internal/monitoring"
	"github.com/GriffinCanCode/quizexport/internal/page"
	"github.com/GriffinCanCode/quizexport/internal/toast"
)

const quizPage = `<!DOCTYPE html>
<html>
<head><link rel="canonical" href="https://learn.astanait.edu.kz/courses/math/quiz"></head>
<body>
	<div class="wrapper-problem-response">
		<p>What is 2+2?</p>
		<label class="response-label"><input type="radio" name="q1"> 3</label>
		<label class="response-label"><input type="radio" name="q1"> 4</label>
	</div>
</body>
</html>`

const wantTranscript = "1. What is 2+2?\n   A ) 3\n   B ) 4\n"

type fakeNotifier struct {
	mu     sync.Mutex
	msgs   []string
	onShow func(msg string)
}

func (f *fakeNotifier) Show(msg string) {
	if f.onShow != nil {
		f.onShow(msg)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
}

func (f *fakeNotifier) Messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.msgs...)
}

type fakeClipboard struct {
	name string
	err  error

	mu    sync.Mutex
	texts []string
}

func (f *fakeClipboard) Name() string    { return f.name }
func (f *fakeClipboard) Available() bool { return true }

func (f *fakeClipboard) Write(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return f.err
}

func (f *fakeClipboard) Texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

type fixture struct {
	app       *App
	notifier  *fakeNotifier
	clipboard *fakeClipboard
	metrics   *monitoring.Metrics
	output    *bytes.Buffer
}

func newFixture(t *testing.T, source Source, mutate func(*Options)) *fixture {
	t.Helper()

	scope, err := page.NewScope([]string{config.DefaultMatch})
	require.NoError(t, err)

	f := &fixture{
		notifier:  &fakeNotifier{},
		clipboard: &fakeClipboard{name: "fake"},
		metrics:   monitoring.NewMetrics(),
		output:    &bytes.Buffer{},
	}
	opts := Options{
		Source:       source,
		Scope:        scope,
		Clipboard:    clipboard.NewWriter(nil, f.clipboard),
		Notifier:     f.notifier,
		Metrics:      f.metrics,
		Output:       f.output,
		PollInterval: 5 * time.Millisecond,
	}
	if mutate != nil {
		mutate(&opts)
	}
	f.app = New(opts)
	return f
}

func writePage(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quiz.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExportCopiesTranscript(t *testing.T) {
	f := newFixture(t, FileSource(writePage(t, quizPage)), nil)

	out := f.app.Export(context.Background())

	require.NoError(t, out.Err)
	assert.True(t, out.Copied())
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, wantTranscript, out.Transcript)
	assert.Equal(t, "fake", out.Clipboard.Strategy)
	assert.Equal(t, []string{wantTranscript}, f.clipboard.Texts())
	assert.Equal(t, []string{toast.Copied}, f.notifier.Messages())
	assert.Equal(t, wantTranscript, f.output.String())

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ExportsTotal.WithLabelValues(OutcomeCopied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ClipboardAttempts.WithLabelValues("fake", clipboard.OutcomeSuccess)))
}

func TestExportClipboardFailure(t *testing.T) {
	f := newFixture(t, FileSource(writePage(t, quizPage)), nil)
	f.clipboard.err = errors.New("denied")

	out := f.app.Export(context.Background())

	assert.Equal(t, OutcomeFailed, out.Status)
	assert.False(t, out.Clipboard.OK)
	assert.Equal(t, wantTranscript, out.Transcript, "transcript is still built")
	assert.Equal(t, []string{toast.Failed}, f.notifier.Messages())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ExportsTotal.WithLabelValues(OutcomeFailed)))
}

func TestExportNoQuestions(t *testing.T) {
	content := `<html><head><link rel="canonical" href="https://learn.astanait.edu.kz/dashboard"></head>
<body><main><h1>Dashboard</h1></main></body></html>`
	f := newFixture(t, FileSource(writePage(t, content)), nil)

	out := f.app.Export(context.Background())

	assert.True(t, out.Copied())
	assert.Equal(t, "No questions found on this page.", out.Transcript)
	assert.Equal(t, []string{"No questions found on this page."}, f.clipboard.Texts())
	assert.Equal(t, "No questions found on this page.\n", f.output.String())
}

func TestExportOutOfScope(t *testing.T) {
	f := newFixture(t, FileSource(writePage(t, quizPage)), func(o *Options) {
		o.URL = "https://example.com/quiz"
	})

	out := f.app.Export(context.Background())

	assert.Equal(t, OutcomeSkipped, out.Status)
	assert.ErrorIs(t, out.Err, page.ErrOutOfScope)
	assert.Empty(t, f.notifier.Messages(), "no button, no toast")
	assert.Empty(t, f.clipboard.Texts())
}

func TestExportForceIgnoresScope(t *testing.T) {
	f := newFixture(t, FileSource(writePage(t, quizPage)), func(o *Options) {
		o.URL = "https://example.com/quiz"
		o.Force = true
	})

	out := f.app.Export(context.Background())

	assert.True(t, out.Copied())
}

func TestExportPageNotReady(t *testing.T) {
	f := newFixture(t, FileSource(writePage(t, "<html><head></head><body></body></html>")), func(o *Options) {
		o.Force = true
	})

	out := f.app.Export(context.Background())

	assert.Equal(t, OutcomeFailed, out.Status)
	assert.ErrorIs(t, out.Err, page.ErrNotReady)
	assert.Equal(t, []string{toast.Failed}, f.notifier.Messages())
}

func TestExportMissingFile(t *testing.T) {
	f := newFixture(t, FileSource(filepath.Join(t.TempDir(), "missing.html")), nil)

	out := f.app.Export(context.Background())

	assert.Equal(t, OutcomeFailed, out.Status)
	assert.ErrorIs(t, out.Err, os.ErrNotExist)
	assert.Equal(t, []string{toast.Failed}, f.notifier.Messages())
}

func TestExportWritesMetricsTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quizexport.prom")
	f := newFixture(t, FileSource(writePage(t, quizPage)), func(o *Options) {
		o.MetricsTextfile = path
	})

	f.app.Export(context.Background())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `quizexport_exports_total{outcome="copied"} 1`)
}

func TestExportReadsEachClickFresh(t *testing.T) {
	path := writePage(t, quizPage)
	f := newFixture(t, FileSource(path), nil)

	first := f.app.Export(context.Background())
	require.True(t, first.Copied())

	updated := strings.Replace(quizPage, "What is 2+2?", "What is 3+3?", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	second := f.app.Export(context.Background())
	require.True(t, second.Copied())
	assert.Contains(t, second.Transcript, "1. What is 3+3?")
	assert.NotEqual(t, first.ID, second.ID)
}

func TestReaderSourceReplays(t *testing.T) {
	src := NewReaderSource("stdin", strings.NewReader(quizPage))

	for i := 0; i < 2; i++ {
		rc, err := src.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, quizPage, string(data))
	}
	assert.Equal(t, "stdin", src.String())
}

func TestNewFillsDefaults(t *testing.T) {
	a := New(Options{})

	assert.NotNil(t, a.opts.Scope)
	assert.NotNil(t, a.opts.Builder)
	assert.NotNil(t, a.opts.Clipboard)
	assert.NotNil(t, a.opts.Notifier)
	assert.NotNil(t, a.opts.Metrics)
	assert.Equal(t, DefaultPollInterval, a.opts.PollInterval)

	out := a.Export(context.Background())
	assert.Equal(t, OutcomeFailed, out.Status)
	assert.Error(t, out.Err)
}

func TestExportShowsToastAfterRecording(t *testing.T) {
	f := newFixture(t, FileSource(writePage(t, quizPage)), nil)
	var recorded float64
	f.notifier.onShow = func(string) {
		recorded = testutil.ToFloat64(f.metrics.ExportsTotal.WithLabelValues(OutcomeCopied))
	}

	out := f.app.Export(context.Background())

	require.True(t, out.Copied())
	assert.Equal(t, 1.0, recorded, "export is recorded and logged before the toast is drawn")
}
