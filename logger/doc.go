// Package logger provides zerolog-backed structured logging.
//
// Loggers are component scoped: Get returns a registered logger or the
// global logger tagged with the component name. WithContext adds the active
// OpenTelemetry trace and span IDs plus any request ID stored with
// ContextWithRequestID.
//
// # Configuration
//
//	logger:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("markup")
//	log.Debug("parse attempt failed", logger.Fields(logger.FieldAttempt, 3))
package logger
