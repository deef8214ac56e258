package mm

import "testing"

func TestPageAllocatorAllocMarksRun(t *testing.T) {
	a := NewPageAllocator(0x1000, 8)

	p, ok := a.Alloc(3)
	if !ok {
		t.Fatalf("Alloc(3) failed on empty region")
	}
	if p != 0x1000 {
		t.Fatalf("Alloc(3) = %#x, want %#x", p, 0x1000)
	}
	if got := a.FreeCount(); got != 5 {
		t.Fatalf("FreeCount() = %d, want 5", got)
	}
}

func TestPageAllocatorExhaustion(t *testing.T) {
	a := NewPageAllocator(0, 4)

	if _, ok := a.Alloc(4); !ok {
		t.Fatalf("Alloc(4) failed to take the whole region")
	}
	if _, ok := a.Alloc(1); ok {
		t.Fatalf("Alloc(1) succeeded on an exhausted region")
	}
}

func TestPageAllocatorFreeRestoresRun(t *testing.T) {
	a := NewPageAllocator(0, 4)

	p, ok := a.Alloc(4)
	if !ok {
		t.Fatalf("Alloc(4) failed")
	}
	a.Free(p)
	if got := a.FreeCount(); got != 4 {
		t.Fatalf("FreeCount() after Free = %d, want 4", got)
	}

	// The freed set must equal the allocator's initial state (§8): a
	// second full-region allocation must succeed identically.
	p2, ok := a.Alloc(4)
	if !ok || p2 != p {
		t.Fatalf("Alloc(4) after Free = (%#x, %v), want (%#x, true)", p2, ok, p)
	}
}

func TestPageAllocatorReserveRangeExcludesPages(t *testing.T) {
	a := NewPageAllocator(0, 4)
	a.ReserveRange(0, 2)

	if got := a.FreeCount(); got != 2 {
		t.Fatalf("FreeCount() after ReserveRange = %d, want 2", got)
	}
	p, ok := a.Alloc(3)
	if ok {
		t.Fatalf("Alloc(3) succeeded with only 2 free pages, got %#x", p)
	}
	if _, ok := a.Alloc(2); !ok {
		t.Fatalf("Alloc(2) failed despite 2 free pages remaining")
	}
}

func TestPageAllocatorFreeInvalidAddressIsIgnored(t *testing.T) {
	a := NewPageAllocator(0x2000, 4)

	// Out of range: below base.
	a.Free(0x1000)
	// Out of range: beyond region.
	a.Free(0x2000 + uintptr(PageSize)*8)
	// Never allocated: double-free on a free page.
	a.Free(0x2000)

	if got := a.FreeCount(); got != 4 {
		t.Fatalf("FreeCount() after ignored frees = %d, want 4 (unchanged)", got)
	}
}
