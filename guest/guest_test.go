package guest

import (
	stderrors "errors"
	"fmt"
	"math"
	"testing"

	"github.com/wippyai/jointbuf/errors"
)

// test helpers

type testAllocator struct {
	next   uint32
	allocs int
	frees  int
	fail   bool
}

func (a *testAllocator) Alloc(size, align uint32) (uint32, error) {
	a.allocs++
	if a.fail {
		return 0, fmt.Errorf("guest trap")
	}
	if a.next == 0 {
		a.next = 8 // address 0 means failure, start above it
	}
	a.next = (a.next + align - 1) &^ (align - 1)
	addr := a.next
	a.next += size
	return addr, nil
}

func (a *testAllocator) Free(ptr, size, align uint32) {
	a.frees++
}

func kindOf(t *testing.T, err error) errors.Kind {
	t.Helper()
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("error %v is not a structured error", err)
	}
	return e.Kind
}

func TestAllocate(t *testing.T) {
	var vertices, indices uint32
	reqs := []*Request{
		MustNewRequest(&vertices, 48, 16),
		MustNewRequest(&indices, 12, 2),
	}

	alloc := &testAllocator{}
	base, total, err := Allocate(reqs, alloc)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if total != 60 {
		t.Errorf("total = %d, want 60", total)
	}
	if alloc.allocs != 1 {
		t.Errorf("allocator invoked %d times, want 1", alloc.allocs)
	}
	if vertices != base {
		t.Errorf("vertices = %d, want base %d", vertices, base)
	}
	if indices != base+48 {
		t.Errorf("indices = %d, want base+48 = %d", indices, base+48)
	}
	if base%16 != 0 {
		t.Errorf("base %d not aligned to first request", base)
	}
}

func TestAllocateFailure(t *testing.T) {
	var a, b uint32
	reqs := []*Request{
		MustNewRequest(&a, 8, 8),
		MustNewRequest(&b, 4, 4),
	}

	_, _, err := Allocate(reqs, &testAllocator{fail: true})
	if err == nil {
		t.Fatal("Allocate() succeeded with failing allocator")
	}
	if kindOf(t, err) != errors.KindAllocatorFailure {
		t.Errorf("error = %v, want allocator_failure", err)
	}
	if a != 0 || b != 0 {
		t.Error("output slots written despite allocator failure")
	}
}

func TestAllocateEmpty(t *testing.T) {
	alloc := &testAllocator{}
	_, _, err := Allocate(nil, alloc)
	if err == nil {
		t.Fatal("Allocate(nil) succeeded")
	}
	if kindOf(t, err) != errors.KindEmptyRequestSet {
		t.Errorf("error = %v, want empty_request_set", err)
	}
	if alloc.allocs != 0 {
		t.Error("allocator invoked for empty request set")
	}
}

func TestPlanTotalOverflow(t *testing.T) {
	var a, b uint32
	reqs := []*Request{
		MustNewRequest(&a, math.MaxUint32, 1),
		MustNewRequest(&b, 16, 8),
	}

	_, err := PlanTotal(reqs)
	if err == nil {
		t.Fatal("PlanTotal() succeeded past 4 GiB")
	}
	if kindOf(t, err) != errors.KindOverflow {
		t.Errorf("error = %v, want overflow", err)
	}
	for i, r := range reqs {
		if _, ok := r.Offset(); ok {
			t.Errorf("request %d planned after overflow", i)
		}
	}
}

func TestResolveBounds(t *testing.T) {
	var a uint32
	reqs := []*Request{MustNewRequest(&a, 64, 8)}
	if _, err := PlanTotal(reqs); err != nil {
		t.Fatalf("PlanTotal() error = %v", err)
	}

	err := Resolve(math.MaxUint32-16, reqs)
	if err == nil {
		t.Fatal("Resolve past end of linear memory succeeded")
	}
	if kindOf(t, err) != errors.KindOutOfBounds {
		t.Errorf("error = %v, want out_of_bounds", err)
	}
	if a != 0 {
		t.Error("output slot written despite out of bounds")
	}
}

func TestResolveBeforePlan(t *testing.T) {
	var a uint32
	reqs := []*Request{MustNewRequest(&a, 4, 4)}

	err := Resolve(1024, reqs)
	if err == nil {
		t.Fatal("Resolve before planning succeeded")
	}
	if kindOf(t, err) != errors.KindNotPlanned {
		t.Errorf("error = %v, want not_planned", err)
	}
}

func TestNewRequestValidation(t *testing.T) {
	var slot uint32

	if _, err := NewRequest(nil, 8, 8); err == nil {
		t.Error("NewRequest with nil slot succeeded")
	}
	if _, err := NewRequest(&slot, 8, 6); err == nil {
		t.Error("NewRequest with alignment 6 succeeded")
	}
	r, err := NewRequest(&slot, 0, 16)
	if err != nil {
		t.Fatalf("zero-size NewRequest error = %v", err)
	}
	if r.Size() != 0 || r.Align() != 16 {
		t.Errorf("got size %d align %d", r.Size(), r.Align())
	}
}

// fake linear memory

type testMemory struct {
	pages    uint32
	maxPages uint32
}

func (m *testMemory) Size() uint32 {
	return m.pages * pageSize
}

func (m *testMemory) Grow(deltaPages uint32) (uint32, bool) {
	if m.pages+deltaPages > m.maxPages {
		return 0, false
	}
	prev := m.pages
	m.pages += deltaPages
	return prev, true
}

func TestLinearAllocator(t *testing.T) {
	mem := &testMemory{pages: 1, maxPages: 4}
	l := NewLinearAllocator(mem)

	// First allocation starts at the old end of memory.
	p1, err := l.Alloc(100, 8)
	if err != nil {
		t.Fatalf("Alloc() error = %v", err)
	}
	if p1 != pageSize {
		t.Errorf("first alloc at %d, want %d", p1, pageSize)
	}
	if mem.pages != 2 {
		t.Errorf("memory at %d pages, want 2", mem.pages)
	}

	p2, err := l.Alloc(16, 16)
	if err != nil {
		t.Fatalf("Alloc() error = %v", err)
	}
	if p2%16 != 0 {
		t.Errorf("second alloc at %d not 16-aligned", p2)
	}
	if p2 < p1+100 {
		t.Errorf("second alloc at %d overlaps first [%d, %d)", p2, p1, p1+100)
	}

	// A whole page allocation forces another grow.
	if _, err := l.Alloc(2*pageSize, 1); err != nil {
		t.Fatalf("large Alloc() error = %v", err)
	}
	if mem.pages != 4 {
		t.Errorf("memory at %d pages, want 4", mem.pages)
	}

	// Grow refused once maxPages is hit.
	if _, err := l.Alloc(pageSize, 1); err == nil {
		t.Error("Alloc past memory limit succeeded")
	}
}

func TestLinearAllocatorWithJointAllocate(t *testing.T) {
	mem := &testMemory{pages: 1, maxPages: 16}
	l := NewLinearAllocator(mem)

	var a, b, c uint32
	reqs := []*Request{
		MustNewRequest(&a, 48, 16),
		MustNewRequest(&b, 12, 2),
		MustNewRequest(&c, 0, 64),
	}

	base, total, err := Allocate(reqs, l)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if total != 64 {
		t.Errorf("total = %d, want 64", total)
	}
	if a != base || b != base+48 || c != base+64 {
		t.Errorf("resolved a=%d b=%d c=%d from base %d", a, b, c, base)
	}
}
