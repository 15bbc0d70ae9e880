// Package log provides structured logging for hl7view.
//
// Package: log
// Title: hl7view Structured Logging
// Description: Leveled, structured logging with JSON and text output, a
//              session context that ties all entries of one parse session
//              together, error-aware logging and operation timers.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-10-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2025-10-02 v0.2.0: Session context, deterministic text output, removed async mode
//
// Usage:
//
//	logger := mdwlog.New().
//		WithLevel(mdwlog.LevelDebug).
//		WithFormat(mdwlog.FormatText).
//		WithSession("2f1c…")
//
//	logger.Info("message decoded", mdwlog.Fields{"segments": 7})
//
//	timer := logger.StartTimer("report")
//	// ... format the report
//	timer.Stop()
package log
