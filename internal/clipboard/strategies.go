package clipboard

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/atotto/clipboard"
)

// Host runs a clipboard command supplied by the surrounding environment,
// such as "tmux load-buffer -" or "wl-copy". The text goes to its stdin.
type Host struct {
	argv     []string
	lookPath func(string) (string, error)
}

// NewHost creates a host strategy. An empty command leaves it unavailable.
func NewHost(command string) *Host {
	return &Host{argv: strings.Fields(command), lookPath: exec.LookPath}
}

func (h *Host) Name() string { return "host" }

func (h *Host) Available() bool {
	if len(h.argv) == 0 {
		return false
	}
	_, err := h.lookPath(h.argv[0])
	return err == nil
}

func (h *Host) Write(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, h.argv[0], h.argv[1:]...)
	cmd.Stdin = strings.NewReader(text)
	// Output stays unattached: tools like wl-copy fork a daemon that would
	// hold a capture pipe open.
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", h.argv[0], err)
	}
	return nil
}

// System writes through the operating system clipboard. The write runs in
// its own goroutine and is abandoned when the timeout or ctx expires.
type System struct {
	timeout     time.Duration
	write       func(string) error
	unsupported func() bool
}

// NewSystem creates a system clipboard strategy.
func NewSystem(timeout time.Duration) *System {
	return &System{
		timeout:     timeout,
		write:       clipboard.WriteAll,
		unsupported: func() bool { return clipboard.Unsupported },
	}
}

func (s *System) Name() string { return "system" }

func (s *System) Available() bool {
	return !s.unsupported()
}

func (s *System) Write(ctx context.Context, text string) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("system clipboard panic: %v", r)
			}
		}()
		done <- s.write(text)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Terminal asks the terminal emulator to set the clipboard with an OSC 52
// escape sequence. The terminal handle is closed before Write returns.
type Terminal struct {
	open func() (io.WriteCloser, error)
	tmux bool
}

// NewTerminal creates a terminal strategy on the controlling terminal.
func NewTerminal() *Terminal {
	return &Terminal{
		open: func() (io.WriteCloser, error) {
			return os.OpenFile("/dev/tty", os.O_WRONLY, 0)
		},
		tmux: os.Getenv("TMUX") != "",
	}
}

func (t *Terminal) Name() string { return "terminal" }

// Available is always true; whether a terminal exists is only known once
// Write tries to open it.
func (t *Terminal) Available() bool { return true }

func (t *Terminal) Write(_ context.Context, text string) error {
	tty, err := t.open()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer tty.Close()

	if _, err := io.WriteString(tty, OSC52(text, t.tmux)); err != nil {
		return fmt.Errorf("terminal write: %w", err)
	}
	return nil
}

// OSC52 builds the clipboard escape sequence for text. Inside tmux the
// sequence is wrapped for passthrough.
func OSC52(text string, tmux bool) string {
	seq := "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte(text)) + "\a"
	if !tmux {
		return seq
	}
	return "\x1bPtmux;" + strings.ReplaceAll(seq, "\x1b", "\x1b\x1b") + "\x1b\\"
}

// DefaultStrategies returns host, system and terminal strategies in
// priority order.
func DefaultStrategies(hostCommand string, timeout time.Duration) []Strategy {
	return []Strategy{
		NewHost(hostCommand),
		NewSystem(timeout),
		NewTerminal(),
	}
}
