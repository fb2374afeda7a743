// Package app provides the export pipeline behind the "Export text" button.
//
// One click reloads the page snapshot, checks it against the activation
// scope, builds the quiz transcript, copies it to the clipboard and shows a
// toast with the result.
//
// Key Components:
//   - App: click handler (Export) and interactive trigger loop (Run)
//   - Source: where a fresh page snapshot comes from on every click
//   - Outcome: what one click did, for logs, metrics and exit codes
//
// Example Usage:
//
//	a := app.New(app.Options{
//	    Source:    app.FileSource("quiz.html"),
//	    Clipboard: clipboard.NewWriter(logger, clipboard.DefaultStrategies("", 2*time.Second)...),
//	    Notifier:  toast.New(os.Stderr, 1600*time.Millisecond, 300*time.Millisecond),
//	    Logger:    logger,
//	})
//	if out := a.Export(ctx); !out.Copied() {
//	    os.Exit(1)
//	}
package app
