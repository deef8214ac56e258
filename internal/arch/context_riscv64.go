//go:build riscv64

package arch

import "unsafe"

// Context is the register-save frame §3 describes: the 31 saveable
// general-purpose registers, the saved exception PC, and the saved
// status word. trap_riscv64.s indexes every field here by constant byte
// offset, so the field order below is load-bearing — do not reorder
// without updating the offsets asserted at the bottom of this file and the
// matching constants in trap_riscv64.s.
type Context struct {
	X    [NumGPR]uint64 // x1 (ra) .. x31 (t6), x0 omitted
	Sepc uint64
	Sstatus uint64
}

// Byte offsets trap_riscv64.s uses to index into Context. Field 0 (X) is
// contiguous, so GPR i lives at gprOffset + 8*i.
const (
	gprOffset     = 0
	sepcOffset    = unsafe.Offsetof(Context{}.Sepc)
	sstatusOffset = unsafe.Offsetof(Context{}.Sstatus)
	contextSize   = unsafe.Sizeof(Context{})
)

// Compile-time form of checkLayout: each pair below has a negative, and so
// overflowing, array length unless the two offsets are equal.
var (
	_ [sepcOffset - (gprOffset + 8*NumGPR)]byte
	_ [(gprOffset + 8*NumGPR) - sepcOffset]byte
	_ [sstatusOffset - (sepcOffset + 8)]byte
	_ [(sepcOffset + 8) - sstatusOffset]byte
	_ [contextSize - (sstatusOffset + 8)]byte
	_ [(sstatusOffset + 8) - contextSize]byte
)

// checkLayout verifies trap_riscv64.s's hard coded field offsets still
// agree with this struct. Called once from arch.init (§9: "offsets must be
// verified at build time... not left to documentation"); a drift here
// would silently corrupt every trap entry/exit, so it is fatal, not logged.
func checkLayout() {
	if sepcOffset != gprOffset+8*NumGPR {
		panic("arch: Context.Sepc offset does not match trap_riscv64.s")
	}
	if sstatusOffset != sepcOffset+8 {
		panic("arch: Context.Sstatus offset does not match trap_riscv64.s")
	}
	if contextSize != sstatusOffset+8 {
		panic("arch: Context size does not match trap_riscv64.s")
	}
}

func init() {
	checkLayout()
}

// EntryPoint is a task's entry point: a raw code address, since on real
// hardware a task is machine code resident at a fixed PC. The sim build
// (context_sim.go) uses an ordinary Go function instead.
type EntryPoint uintptr
