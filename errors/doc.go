// Package errors provides structured error types for the jointbuf library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes the index of the offending request and
// a cause chain.
//
// Use the convenience constructors for common patterns:
//
//	err := errors.InvalidAlignment(errors.PhasePlan, 2, 6)
//	err := errors.AllocatorFailure(64, 16, cause)
//
// All errors implement the standard error interface and support errors.Is/As.
// Is matches on Phase and Kind, so callers can test for a category:
//
//	if errors.Is(err, &errors.Error{Phase: errors.PhasePlan, Kind: errors.KindInvalidAlignment}) {
//	    ...
//	}
//
// The library never logs and never retries; every error is synchronous and
// terminal for the call that produced it.
package errors
