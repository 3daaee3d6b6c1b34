package plan

// Span is one sub-buffer request in an abstract zero-based address space.
// Size may be zero. Align must be a positive power of two; Layout rejects
// anything else.
type Span struct {
	Size  uint64
	Align uint64

	offset  uint64
	planned bool
}

// Offset returns the span's byte offset from the start of the joint block.
// ok is false until the span has been processed by Layout.
func (s *Span) Offset() (offset uint64, ok bool) {
	return s.offset, s.planned
}

// End returns the first byte offset past the span. ok is false until the
// span has been planned.
func (s *Span) End() (end uint64, ok bool) {
	if !s.planned {
		return 0, false
	}
	return s.offset + s.Size, true
}

// Invalidate clears the planned offset, for reuse of the span with a
// different size or alignment.
func (s *Span) Invalidate() {
	s.offset = 0
	s.planned = false
}
