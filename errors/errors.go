package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhasePlan    Phase = "plan"    // offset planning
	PhaseResolve Phase = "resolve" // address resolution
	PhaseAlloc   Phase = "alloc"   // allocator invocation
)

// Kind categorizes the error
type Kind string

const (
	KindEmptyRequestSet  Kind = "empty_request_set"
	KindInvalidAlignment Kind = "invalid_alignment"
	KindNilOutputSlot    Kind = "nil_output_slot"
	KindAllocatorFailure Kind = "allocator_failure"
	KindNotPlanned       Kind = "not_planned"
	KindOverflow         Kind = "overflow"
	KindOutOfBounds      Kind = "out_of_bounds"
	KindInvalidInput     Kind = "invalid_input"
)

// NoIndex marks an error that is not tied to a single request.
const NoIndex = -1

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Index  int // request index, NoIndex when not applicable
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Index != NoIndex {
		fmt.Fprintf(&b, " at request %d", e.Index)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for common error patterns

// EmptyRequestSet reports a request sequence with no elements.
func EmptyRequestSet(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindEmptyRequestSet,
		Index:  NoIndex,
		Detail: "at least one request is required",
	}
}

// InvalidAlignment reports an alignment that is not a positive power of two.
func InvalidAlignment(phase Phase, index int, align uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidAlignment,
		Index:  index,
		Detail: fmt.Sprintf("alignment %d is not a power of two", align),
	}
}

// NilOutputSlot reports a request whose output slot is absent.
func NilOutputSlot(index int) *Error {
	return &Error{
		Phase:  PhasePlan,
		Kind:   KindNilOutputSlot,
		Index:  index,
		Detail: "output slot is nil",
	}
}

// AllocatorFailure reports an allocator callback that returned no memory.
func AllocatorFailure(size, align uint64, cause error) *Error {
	return &Error{
		Phase:  PhaseAlloc,
		Kind:   KindAllocatorFailure,
		Index:  NoIndex,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
		Cause:  cause,
	}
}

// NotPlanned reports a request resolved before its offset was computed.
func NotPlanned(phase Phase, index int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotPlanned,
		Index:  index,
		Detail: "offset has not been planned",
	}
}

// Overflow reports arithmetic that exceeds the address space.
func Overflow(phase Phase, index int, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Index:  index,
		Detail: detail,
	}
}

// OutOfBounds reports a resolved region that does not fit the address space.
func OutOfBounds(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Index:  NoIndex,
		Detail: detail,
	}
}

// InvalidInput reports a malformed argument that is not a per-request fault.
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Index:  NoIndex,
		Detail: detail,
	}
}
