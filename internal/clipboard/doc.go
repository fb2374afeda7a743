// Package clipboard writes transcripts to the clipboard through a chain of
// strategies.
//
// Strategies, highest priority first:
//   - host: a clipboard command provided by the environment (QUIZEXPORT_CLIPBOARD_CMD)
//   - system: the OS clipboard via atotto/clipboard, bounded by a timeout
//   - terminal: an OSC 52 escape sequence written to the controlling terminal
//
// A strategy that is absent or fails hands over to the next one. Writer
// reports a boolean outcome and never panics.
//
// Guard adds a circuit breaker around a strategy so one that keeps failing
// is skipped for a cooldown period.
package clipboard
