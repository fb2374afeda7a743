package clipboard

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/quizexport/internal/logging"
)

// ErrUnavailable marks a strategy whose capability is absent.
var ErrUnavailable = errors.New("clipboard capability unavailable")

// Attempt outcomes reported to observers.
const (
	OutcomeSuccess     = "success"
	OutcomeFailure     = "failure"
	OutcomeUnavailable = "unavailable"
)

// Strategy is one way of putting text on the clipboard.
type Strategy interface {
	Name() string
	// Available probes the capability without side effects.
	Available() bool
	Write(ctx context.Context, text string) error
}

// Observer is told about every strategy the writer considers.
type Observer func(strategy, outcome string)

// Attempt records what happened to one strategy.
type Attempt struct {
	Strategy string
	Outcome  string
	Err      error
}

// Result is the outcome of a clipboard write.
type Result struct {
	OK       bool
	Strategy string
	Attempts []Attempt
}

// Writer tries strategies in priority order until one succeeds.
type Writer struct {
	strategies []Strategy
	logger     *logging.Logger
	observe    Observer
}

// NewWriter creates a writer over strategies, highest priority first.
func NewWriter(logger *logging.Logger, strategies ...Strategy) *Writer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Writer{strategies: strategies, logger: logger}
}

// WithObserver sets the attempt observer and returns the writer.
func (w *Writer) WithObserver(o Observer) *Writer {
	w.observe = o
	return w
}

// Write puts text on the clipboard. It never panics; failure of every
// strategy yields a result with OK false.
func (w *Writer) Write(ctx context.Context, text string) Result {
	var res Result
	for _, s := range w.strategies {
		a := w.attempt(ctx, s, text)
		res.Attempts = append(res.Attempts, a)
		if w.observe != nil {
			w.observe(a.Strategy, a.Outcome)
		}

		switch a.Outcome {
		case OutcomeSuccess:
			w.logger.Debug("clipboard write succeeded", zap.String("strategy", a.Strategy))
			res.OK = true
			res.Strategy = a.Strategy
			return res
		case OutcomeFailure:
			w.logger.Debug("clipboard strategy failed, trying next",
				zap.String("strategy", a.Strategy), zap.Error(a.Err))
		default:
			w.logger.Debug("clipboard strategy unavailable", zap.String("strategy", a.Strategy))
		}
	}

	w.logger.Warn("all clipboard strategies exhausted", zap.Int("attempts", len(res.Attempts)))
	return res
}

func (w *Writer) attempt(ctx context.Context, s Strategy, text string) (a Attempt) {
	a.Strategy = s.Name()
	defer func() {
		if r := recover(); r != nil {
			a.Outcome = OutcomeFailure
			a.Err = fmt.Errorf("panic in %s: %v", a.Strategy, r)
		}
	}()

	if !s.Available() {
		a.Outcome = OutcomeUnavailable
		a.Err = ErrUnavailable
		return a
	}
	if err := s.Write(ctx, text); err != nil {
		a.Outcome = OutcomeFailure
		a.Err = err
		if errors.Is(err, ErrUnavailable) {
			a.Outcome = OutcomeUnavailable
		}
		return a
	}
	a.Outcome = OutcomeSuccess
	return a
}
