package logger

import (
	"github.com/rs/zerolog"
)

// ExportStatus describes the outcome of one period export
type ExportStatus string

const (
	ExportTriggered ExportStatus = "triggered"
	ExportSkipped   ExportStatus = "skipped"
	ExportFailed    ExportStatus = "failed"
)

// LogExport logs the outcome of a single category/period export on l
func LogExport(l Logger, category, year, month string, status ExportStatus, err error) {
	entry := l.WithFields(map[string]interface{}{
		"category": category,
		"year":     year,
		"month":    month,
		"status":   string(status),
	})

	switch status {
	case ExportFailed:
		entry.WithError(err).Error("Export failed")
	case ExportSkipped:
		entry.Debug("File already exists")
	default:
		entry.Debug("Saving")
	}
}

// LogComponentStart logs when a component starts
func LogComponentStart(l Logger, component string, config map[string]interface{}) {
	entry := l.WithField("component", component)
	if len(config) > 0 {
		entry = entry.WithFields(config)
	}
	entry.Info("Component started")
}

// LogComponentStop logs when a component stops
func LogComponentStop(l Logger, component string, reason string) {
	l.WithFields(map[string]interface{}{
		"component": component,
		"reason":    reason,
	}).Info("Component stopped")
}

// NewNopLogger creates a no-operation logger
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}
