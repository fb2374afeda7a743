// Package toast shows transient status messages on a terminal line.
package toast

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Messages shown after an export.
const (
	Copied = "Exported: text copied to clipboard ✅"
	Failed = "Copy failed ❌"
)

const (
	clearLine = "\r\x1b[K"
	dim       = "\x1b[2m"
	reset     = "\x1b[0m"
)

// Notifier draws toasts. Each toast fades in at once, holds, dims, then
// erases itself. A newer toast takes over the line; an older one never
// touches the line after that.
type Notifier struct {
	out     io.Writer
	animate bool
	hold    time.Duration
	fade    time.Duration

	mu      sync.Mutex
	current uint64
	wg      sync.WaitGroup
}

// New creates a notifier writing to out. Animation is enabled when out is
// a terminal.
func New(out io.Writer, hold, fade time.Duration) *Notifier {
	return &Notifier{
		out:     out,
		animate: IsTerminal(out),
		hold:    hold,
		fade:    fade,
	}
}

// WithAnimation overrides terminal detection.
func (n *Notifier) WithAnimation(animate bool) *Notifier {
	n.animate = animate
	return n
}

// Show displays msg and returns immediately. The dismissal runs on timers
// and cannot be cancelled.
func (n *Notifier) Show(msg string) {
	if !n.animate {
		n.mu.Lock()
		io.WriteString(n.out, msg+"\n")
		n.mu.Unlock()
		return
	}

	n.mu.Lock()
	n.current++
	id := n.current
	io.WriteString(n.out, clearLine+msg)
	n.mu.Unlock()

	n.wg.Add(1)
	time.AfterFunc(n.hold, func() {
		n.draw(id, clearLine+dim+msg+reset)
		time.AfterFunc(n.fade, func() {
			defer n.wg.Done()
			n.draw(id, clearLine)
		})
	})
}

// Wait blocks until every shown toast has been dismissed.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) draw(id uint64, s string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current != id {
		return
	}
	io.WriteString(n.out, s)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
