// Package errors provides structured error types for the nativearray module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the block address, an operation path, the offending value
// and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseAccess, errors.KindInvalidValue).
//		Path("append").
//		Addr(h).
//		Value(v).
//		Detail("sentinel value cannot be stored").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(errors.PhaseAccess, h, 14, 14)
//	err := errors.Stale(errors.PhaseAccess, h)
//
// All errors implement the standard error interface and support errors.Is/As.
// Is matches on Phase and Kind; a target with an empty Phase matches on Kind alone.
package errors
