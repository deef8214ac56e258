package syslib

import "unsafe"

// addrOf returns data's real address in the flat address space §1 assumes
// (no virtual memory, no user/kernel isolation), or 0 for an empty slice.
func addrOf(data []byte) uint64 {
	if len(data) == 0 {
		return 0
	}
	return uint64(uintptr(unsafe.Pointer(&data[0])))
}
