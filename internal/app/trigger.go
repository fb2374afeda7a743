package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/quizexport/internal/page"
)

// Button is the label drawn for the export trigger.
const Button = "[ Export text ]"

const buttonHint = "  (Enter to export, q to quit)"

// WaitReady blocks until the page has loaded a body and is inside the
// activation scope. Missing, empty and half-written pages are retried.
func (a *App) WaitReady(ctx context.Context) error {
	ticker := time.NewTicker(a.opts.PollInterval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		_, err := a.snapshot(ctx)
		if err == nil {
			a.logger.Debug("page ready", zap.Int("attempts", attempt))
			return nil
		}
		if !retryable(err) {
			return err
		}
		if attempt == 1 {
			a.logger.Info("waiting for page", zap.String("source", a.sourceName()), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func retryable(err error) bool {
	return errors.Is(err, page.ErrNotReady) ||
		errors.Is(err, page.ErrEmpty) ||
		errors.Is(err, fs.ErrNotExist)
}

// Run is interactive mode. It waits for the page, draws the button and
// treats every line read from in as a click. A line of "q", end of input
// or cancelling ctx ends the loop.
func (a *App) Run(ctx context.Context, in io.Reader, prompt io.Writer) error {
	if prompt == nil {
		prompt = io.Discard
	}
	if err := a.WaitReady(ctx); err != nil {
		if errors.Is(err, page.ErrOutOfScope) {
			a.logger.Info("button not shown", zap.Error(err))
		}
		return err
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	clicks := 0
	for {
		drawButton(prompt)

		select {
		case <-ctx.Done():
			fmt.Fprintln(prompt)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(prompt)
				a.logger.Debug("input closed", zap.Int("clicks", clicks))
				return nil
			}
			if strings.EqualFold(strings.TrimSpace(line), "q") {
				a.logger.Debug("quit requested", zap.Int("clicks", clicks))
				return nil
			}
			clicks++
			a.Export(ctx)
			// The toast owns the line until it erases itself.
			a.settle()
		}
	}
}

func drawButton(w io.Writer) {
	fmt.Fprint(w, Button+buttonHint+"\n")
}
