// Package config provides 12-factor configuration management for quizexport.
//
// Configuration starts from built-in defaults, is overlaid by an optional
// TOML or YAML file, then by environment variables. CLI flags override the
// result in cmd/quizexport.
//
// Configuration Sections:
//   - Logging: Log level and output format
//   - Scope: Page URL rules the exporter activates on
//   - Extract: Extra locator strategies and snapshot sanitizing
//   - Clipboard: Host command, system clipboard timeout, breaker settings
//   - Toast: Status notification timing
//   - Metrics: Prometheus textfile output
//
// Example Usage:
//
//	cfg, err := config.Load("")
//	if err != nil {
//		return err
//	}
//
// Environment Variables:
//   - LOG_LEVEL, LOG_DEV
//   - QUIZEXPORT_CONFIG, QUIZEXPORT_MATCH, QUIZEXPORT_SELECTORS, QUIZEXPORT_SANITIZE
//   - QUIZEXPORT_CLIPBOARD_CMD, CLIPBOARD_TIMEOUT, CLIPBOARD_BREAKER_TRIPS, CLIPBOARD_BREAKER_COOLDOWN
//   - TOAST_DURATION, TOAST_FADE, METRICS_TEXTFILE
package config
