// Package syslib is the user-mode side of §4.7's syscall ABI: thin
// wrappers that place arguments in a0-a2/a7 and cross into the kernel,
// named after the syscalls they invoke (exit, write, yield, getpid,
// sleep) the way original_source's user/*.c call through generated
// wrapper stubs rather than issuing ecall inline. read() is omitted: the
// kernel-side entry is stubbed to always return 0 (§4.7), so a wrapper
// adds no value task bodies can't get by calling Syscall(SysRead, ...)
// directly if they ever need to.
package syslib

import "github.com/XinbangWei/RVOS/internal/syscalltab"

// Exit terminates the calling task with status. Never returns.
func Exit(status int) {
	Syscall(syscalltab.SysExit, uint64(int64(status)), 0, 0)
}

// Write sends data to fd (only fd 1 is serviced; see §4.7) and returns
// the number of bytes accepted, or -1.
func Write(fd int, data []byte) int64 {
	return Syscall(syscalltab.SysWrite, uint64(fd), addrOf(data), uint64(len(data)))
}

// Yield voluntarily gives up the remainder of the current time slice.
func Yield() {
	Syscall(syscalltab.SysYield, 0, 0, 0)
}

// Getpid returns the calling task's id.
func Getpid() int {
	return int(Syscall(syscalltab.SysGetpid, 0, 0, 0))
}

// Sleep suspends the calling task for the given number of scheduler
// ticks (§9's resolved "sleep measures ticks" decision).
func Sleep(ticks uint64) {
	Syscall(syscalltab.SysSleep, ticks, 0, 0)
}
