package toast

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestShowPlain(t *testing.T) {
	var out bytes.Buffer
	n := New(&out, time.Hour, time.Hour)

	n.Show(Copied)
	n.Show(Failed)
	n.Wait()

	assert.Equal(t, Copied+"\n"+Failed+"\n", out.String())
}

func TestShowAnimated(t *testing.T) {
	out := &syncBuffer{}
	n := New(out, 10*time.Millisecond, 5*time.Millisecond).WithAnimation(true)

	start := time.Now()
	n.Show(Copied)
	assert.Equal(t, clearLine+Copied, out.String(), "fades in immediately")

	n.Wait()
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
	assert.Equal(t, clearLine+Copied+clearLine+dim+Copied+reset+clearLine, out.String())
}

func TestNewerToastOwnsLine(t *testing.T) {
	out := &syncBuffer{}
	n := New(out, 20*time.Millisecond, 5*time.Millisecond).WithAnimation(true)

	n.Show(Failed)
	n.Show(Copied)
	n.Wait()

	got := out.String()
	require.True(t, strings.HasPrefix(got, clearLine+Failed+clearLine+Copied))
	assert.NotContains(t, got, dim+Failed, "superseded toast must not redraw")
	assert.Contains(t, got, dim+Copied)
	assert.True(t, strings.HasSuffix(got, clearLine))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "toast")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTerminal(f))
}
