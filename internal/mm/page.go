// Package mm implements the two-level memory manager of §4.5/§4.6: a
// fixed-size page allocator over a contiguous region, and a K&R-style
// variable-size heap layered on top of it. Memory-map constant naming is
// adapted from the teacher's rv64/cpu.go guest physical layout, retargeted
// from "what a hypervisor hands a guest" to "what the kernel manages about
// itself" (§4.5).
package mm

import "fmt"

// PageSize is the managed region's page granularity (§4.5).
const PageSize = 4096

// Page descriptor flags (§3).
const (
	flagTaken byte = 1 << 0
	flagLast  byte = 1 << 1
)

// PageAllocator is a bitmap of fixed-size pages over one contiguous
// physical region (§4.5). Pages occupied by the kernel image, BSS, and the
// descriptor array itself must be pre-marked taken by the caller via
// ReserveRange before any Alloc call.
type PageAllocator struct {
	base  uintptr
	pages []byte // one flag byte per page
}

// NewPageAllocator manages npages pages starting at base. The descriptor
// array itself lives in ordinary Go memory here (on real hardware it
// would occupy the first pages of the region, per §4.5; the sim/real
// split doesn't change the allocator's algorithm, only where its
// bookkeeping array is stored).
func NewPageAllocator(base uintptr, npages int) *PageAllocator {
	return &PageAllocator{base: base, pages: make([]byte, npages)}
}

// ReserveRange marks [startPage, startPage+count) as taken, e.g. for the
// kernel image, BSS, and descriptor array at init (§4.5).
func (a *PageAllocator) ReserveRange(startPage, count int) {
	for i := startPage; i < startPage+count && i < len(a.pages); i++ {
		a.pages[i] = flagTaken
	}
	if startPage+count-1 < len(a.pages) {
		a.pages[startPage+count-1] |= flagLast
	}
}

// Alloc scans linearly for n consecutive free pages (§4.5: "O(total-pages)
// per allocation... acceptable for tens-to-hundreds of pages"), marks them
// taken, marks the run's last page, and returns the first page's address.
// Returns (0, false) for n <= 0 or if no run of n free pages exists.
func (a *PageAllocator) Alloc(n int) (uintptr, bool) {
	if n <= 0 {
		return 0, false
	}
	run := 0
	for i := 0; i < len(a.pages); i++ {
		if a.pages[i]&flagTaken != 0 {
			run = 0
			continue
		}
		run++
		if run == n {
			start := i - n + 1
			for j := start; j <= i; j++ {
				a.pages[j] = flagTaken
			}
			a.pages[i] |= flagLast
			return a.base + uintptr(start)*PageSize, true
		}
	}
	return 0, false
}

// Free walks successive descriptors from p's page until one with flagLast
// set is cleared (§4.5). Invalid addresses (outside the region, or
// already free) are reported and ignored (§7).
func (a *PageAllocator) Free(p uintptr) {
	if p < a.base {
		fmt.Printf("mm: page_free of out-of-range address %#x\n", p)
		return
	}
	idx := int((p - a.base) / PageSize)
	if idx < 0 || idx >= len(a.pages) {
		fmt.Printf("mm: page_free of out-of-range address %#x\n", p)
		return
	}
	if a.pages[idx]&flagTaken == 0 {
		fmt.Printf("mm: page_free of already-free address %#x\n", p)
		return
	}
	for idx < len(a.pages) {
		last := a.pages[idx]&flagLast != 0
		a.pages[idx] = 0
		if last {
			return
		}
		idx++
	}
}

// NumPages reports the size of the managed region, for tests.
func (a *PageAllocator) NumPages() int { return len(a.pages) }

// Base returns the region's starting address, so a layered allocator (the
// heap in heap.go) can translate addresses to offsets into its own backing
// storage.
func (a *PageAllocator) Base() uintptr { return a.base }

// RegionSize returns the managed region's total size in bytes.
func (a *PageAllocator) RegionSize() int { return len(a.pages) * PageSize }

// FreeCount reports the number of free pages, for tests verifying §8's
// "set of FREE pages equals the initial set" invariant.
func (a *PageAllocator) FreeCount() int {
	n := 0
	for _, f := range a.pages {
		if f&flagTaken == 0 {
			n++
		}
	}
	return n
}
