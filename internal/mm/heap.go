// Heap is the K&R-style variable-size allocator of §4.6, layered on top of
// a PageAllocator the way morecore() layers atop page_alloc() in
// original_source/mm/malloc.c. Blocks live in a circular, address-sorted
// free list so adjacent free blocks can always be coalesced in O(1) once
// found; malloc is first-fit from the point the previous call left off,
// which is the K&R "spread allocations across the heap" heuristic.
//
// Rather than dereference raw pointers (this package carries no unsafe),
// the managed region is backed by one growable byte slice addressed by
// offset from the PageAllocator's base, in the same spirit as the
// teacher's rv64/bus.go MemoryRegion: headers are small fixed records
// encoded into that slice instead of real pointers.
package mm

import (
	"encoding/binary"
	"sync"
)

// headerSize is the Go analogue of sizeof(Header) in malloc.c: one unit of
// allocation accounting, holding a next-block address and a size in units.
const headerSize = 16

// baseAddr is the address of the static anchor node (malloc.c's file-scope
// `base`), chosen outside the range any PageAllocator can hand out so it
// never collides with a real block.
const baseAddr uintptr = ^uintptr(0)

// Heap is a growable K&R allocator. Zero value is not usable; construct
// with NewHeap.
type Heap struct {
	mu    sync.Mutex
	pages *PageAllocator
	mem   []byte

	freep uintptr // current free-list search start (malloc.c's `freep`)

	// baseNext/baseSize back the anchor node at baseAddr, which has no
	// storage in mem since it never corresponds to real page memory.
	baseNext uintptr
	baseSize uint64
}

// NewHeap builds a heap drawing pages from pages. Equivalent to malloc_init:
// the free list starts as a single circular anchor pointing to itself.
func NewHeap(pages *PageAllocator) *Heap {
	h := &Heap{
		pages: pages,
		mem:   make([]byte, pages.RegionSize()),
	}
	h.baseNext = baseAddr
	h.baseSize = 0
	h.freep = baseAddr
	return h
}

func (h *Heap) offset(addr uintptr) int {
	return int(addr - h.pages.Base())
}

func (h *Heap) nextOf(addr uintptr) uintptr {
	if addr == baseAddr {
		return h.baseNext
	}
	return uintptr(binary.LittleEndian.Uint64(h.mem[h.offset(addr):]))
}

func (h *Heap) sizeOf(addr uintptr) uint64 {
	if addr == baseAddr {
		return h.baseSize
	}
	return binary.LittleEndian.Uint64(h.mem[h.offset(addr)+8:])
}

func (h *Heap) setNext(addr, next uintptr) {
	if addr == baseAddr {
		h.baseNext = next
		return
	}
	binary.LittleEndian.PutUint64(h.mem[h.offset(addr):], uint64(next))
}

func (h *Heap) setSize(addr uintptr, size uint64) {
	if addr == baseAddr {
		h.baseSize = size
		return
	}
	binary.LittleEndian.PutUint64(h.mem[h.offset(addr)+8:], size)
}

// Malloc returns a pointer to at least nbytes of storage, or (0, false) if
// the request is zero-sized or the page allocator is exhausted (§4.6,
// §7: malloc failure is a distinguished return, never a panic).
func (h *Heap) Malloc(nbytes int) (uintptr, bool) {
	if nbytes <= 0 {
		return 0, false
	}
	nunits := (uint64(nbytes)+headerSize-1)/headerSize + 1

	h.mu.Lock()
	defer h.mu.Unlock()

	prevp := h.freep
	p := h.nextOf(prevp)
	for {
		size := h.sizeOf(p)
		if size >= nunits {
			if size == nunits {
				h.setNext(prevp, h.nextOf(p))
			} else {
				size -= nunits
				h.setSize(p, size)
				p = p + uintptr(size)*headerSize
				h.setSize(p, nunits)
			}
			h.freep = prevp
			return p + headerSize, true
		}
		if p == h.freep {
			newp, ok := h.morecoreLocked(nunits)
			if !ok {
				return 0, false
			}
			p = newp
		}
		prevp = p
		p = h.nextOf(p)
	}
}

// morecoreLocked grows the heap by enough pages to cover nunits, via the
// page allocator, then frees the new block so freeLocked's coalescing
// logic links it into the list (malloc.c's morecore: "the new block is
// always handed to free(), never linked in directly").
func (h *Heap) morecoreLocked(nunits uint64) (uintptr, bool) {
	npages := int((nunits*headerSize + PageSize - 1) / PageSize)
	if npages < 1 {
		npages = 1
	}
	addr, ok := h.pages.Alloc(npages)
	if !ok {
		return 0, false
	}
	h.setSize(addr, uint64(npages*PageSize)/headerSize)
	h.freeLocked(addr + headerSize)
	return h.freep, true
}

// Free returns a block obtained from Malloc to the free list, coalescing
// with address-adjacent neighbors (§4.6). Freeing 0 is a no-op, matching
// malloc.c's free(NULL).
func (h *Heap) Free(ptr uintptr) {
	if ptr == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.freeLocked(ptr)
}

func (h *Heap) freeLocked(ptr uintptr) {
	bp := ptr - headerSize

	p := h.freep
	for !(bp > p && bp < h.nextOf(p)) {
		if p >= h.nextOf(p) && (bp > p || bp < h.nextOf(p)) {
			break
		}
		p = h.nextOf(p)
	}

	if bp+uintptr(h.sizeOf(bp))*headerSize == h.nextOf(p) {
		h.setSize(bp, h.sizeOf(bp)+h.sizeOf(h.nextOf(p)))
		h.setNext(bp, h.nextOf(h.nextOf(p)))
	} else {
		h.setNext(bp, h.nextOf(p))
	}

	if p+uintptr(h.sizeOf(p))*headerSize == bp {
		h.setSize(p, h.sizeOf(p)+h.sizeOf(bp))
		h.setNext(p, h.nextOf(bp))
	} else {
		h.setNext(p, bp)
	}

	h.freep = p
}

// BlockSize reports the usable size in bytes of a block returned by
// Malloc, for callers (and tests) that need to know how much room they
// actually got after unit rounding.
func (h *Heap) BlockSize(ptr uintptr) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	bp := ptr - headerSize
	return int(h.sizeOf(bp)-1) * headerSize
}
