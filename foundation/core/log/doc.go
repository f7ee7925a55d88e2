// Package log provides structured logging for rdtrace.
//
// Package: log
// Title: rdtrace Structured Logging
// Description: Leveled, structured logging with JSON, text and logfmt output.
//              The CLI writes logs to stderr so that stdout carries only the
//              parse trace; the HTTP server attaches a request id to every
//              entry it writes.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-12
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-10-12 v0.2.0: Dropped async and audit paths, deterministic field order
//
// Usage:
//
//	import rdtlog "github.com/msto63/rdtrace/foundation/core/log"
//
//	logger := rdtlog.NewWithConfig(rdtlog.Config{
//		Level:  rdtlog.LevelInfo,
//		Format: rdtlog.FormatText,
//		Output: os.Stderr,
//		Name:   "rdtrace",
//	})
//
//	logger.Info("trace completed", rdtlog.Fields{"expressions": 3})
//	logger.Warn("diagnostic", rdtlog.Field("code", "MISSING_CLOSE_PAREN"))
package log
