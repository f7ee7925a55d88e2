// Package error provides coded, structured errors for rdtrace.
//
// Package: error
// Title: rdtrace Error Handling
// Description: Structured errors with a code, a severity and details. The
//              lexer and parser diagnostics share the same code space so a
//              diagnostic can be turned into an error when a caller wants to
//              fail on it.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-12
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-12 v0.2.0: Lexer/parser diagnostic codes
//
// Usage:
//
//	import rdterror "github.com/msto63/rdtrace/foundation/core/error"
//
//	err := rdterror.Wrap(readErr, "cannot read expression input").
//		WithCode(rdterror.CodeInputUnreadable).
//		WithDetail("path", path)
//
//	if rdterror.HasCode(err, rdterror.CodeInputUnreadable) {
//		// report and exit
//	}
package error
