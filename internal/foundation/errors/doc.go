// Package errors provides foundational, type-safe error primitives used across labsite.
//
// This package contains classified error types and helpers for robust error handling,
// including a fluent builder API for constructing ClassifiedError values with context.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, link, notebook, export, etc.)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - CLI adapter for error presentation
//
// The two fatal conditions of a site build have dedicated constructors:
//
//	err := errors.ConfigurationError("section must be a directory or notebook").
//		WithContext("section", name).
//		WithContext("path", path).
//		Build()
//
//	err := errors.LinkResolutionError("target is not reachable from source").
//		WithContext("from", from).
//		WithContext("to", to).
//		Build()
package errors
