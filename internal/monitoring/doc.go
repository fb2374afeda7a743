/*
Package monitoring provides export metrics collection.

# Overview

Metrics live on a private Prometheus registry. quizexport is a short-lived
CLI, so there is no scrape endpoint; the registry is written to a file for
the node exporter textfile collector after every export.

# Usage

	metrics := monitoring.NewMetrics()
	metrics.RecordExport("copied", 3, 12, ".problem", time.Since(start))
	if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logger.Warn("metrics write failed", zap.Error(err))
	}
*/
package monitoring
