// Package logger provides structured logging for the portal scraper.
//
// It wraps zerolog behind a small interface so the scraper session can take
// any logger, including the no-op and capturing loggers used in tests.
//
// Basic Usage:
//
//	cfg := &config.LoggingConfig{Level: "debug", File: "/var/log/sspscraper.log"}
//	log, err := logger.New(cfg)
//	if err != nil {
//	    return err
//	}
//	defer logger.Close(log)
//
//	log.Info("Fetching data")
//	log.WithField("category", "Homicidio").Debug("Processing")
//
// Console output is colored only when stdout is a terminal, and with Quiet set
// only errors reach it. When a file is configured, JSON lines are written to
// it in addition to the console.
package logger
