//go:build !riscv64

package syslib

import "github.com/XinbangWei/RVOS/internal/arch"

// Syscall is the sim build's single entry point for every wrapper in this
// package. There is no privilege level to cross on a host GOARCH, so this
// calls arch.Dispatch directly with a throwaway Context, exactly mirroring
// what an ecall trap would hand the dispatcher (§4.2): cause
// CauseEcallFromU, a0-a2/a7 populated, epc ignored since a syscall trap
// always resumes at epc+4 and nothing here depends on the value.
func Syscall(num, a0, a1, a2 uint64) int64 {
	ctx := &arch.Context{}
	ctx.X[arch.A7Index] = num
	ctx.X[arch.A0Index] = a0
	ctx.X[arch.A1Index] = a1
	ctx.X[arch.A2Index] = a2
	arch.Dispatch(0, arch.CauseEcallFromU, ctx)
	return int64(ctx.X[arch.A0Index])
}
