// ============================================================================
// rdtrace - Recursive Descent Expression Tracer
// ============================================================================
//
// Package:     repl
// Description: Message types for async operations in the REPL
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package repl

import (
	"github.com/msto63/rdtrace/internal/tracer/service"
)

// traceDoneMsg is sent when a trace request finished
type traceDoneMsg struct {
	input string
	resp  *service.TraceResponse
	err   error
}
