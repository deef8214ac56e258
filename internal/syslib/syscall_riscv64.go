//go:build riscv64

package syslib

// ecall places num in a7 and a0-a2 in a0-a2, then issues ecall, returning
// whatever the kernel's do_syscall left in a0 (syscall_riscv64.s).
func ecall(num, a0, a1, a2 uint64) int64

// Syscall is the real build's single entry point for every wrapper in
// this package: cross into the kernel via ecall (§4.1's trap vector
// picks it up as a synchronous exception, cause 8).
func Syscall(num, a0, a1, a2 uint64) int64 {
	return ecall(num, a0, a1, a2)
}
