//go:build riscv64

package arch

import "unsafe"

// Dispatch is invoked by trapHandler (called from trap_riscv64.s) for
// every trap. The trap package installs this at init time; arch itself
// only owns the entry/exit mechanics, not dispatch policy (§4.2 is a
// separate component).
var Dispatch func(epc, cause uint64, ctx *Context) (resumePC uint64)

// scratchFrame is the pre-task scratch context the trap vector uses before
// the first task exists and sscratch has never been pointed at a real
// task's Context (§3: "plus one scratch frame reserved for the trap entry
// path before any task context is established").
var scratchFrame Context

// trapVector and switchTo are implemented in trap_riscv64.s.
func trapVector()
func switchTo(next unsafe.Pointer)

// trapHandler is called by trapVector with the raw epc/cause and a pointer
// to the Context it just saved into. Its return value becomes the resume
// PC trapVector writes back into sepc.
//
//go:nosplit
func trapHandler(epc, cause uint64, ctxPtr unsafe.Pointer) uint64 {
	ctx := (*Context)(ctxPtr)
	if Dispatch == nil {
		return epc
	}
	return Dispatch(epc, cause, ctx)
}

// InstallTrapVector programs stvec with trapVector's address and points
// sscratch at the pre-task scratch frame (§4.1 step 1, §6).
func InstallTrapVector() {
	writeSscratch(uint64(uintptr(unsafe.Pointer(&scratchFrame))))
	writeStvec(funcPC(trapVector))
}

// SwitchTo transfers control to next's saved context. Called by the
// scheduler; never returns into its own caller — it returns into whatever
// the destination context resumes (§4.1).
func SwitchTo(next *Context) {
	switchTo(unsafe.Pointer(next))
}

// idleLoopAsm is implemented in idle_riscv64.s.
func idleLoopAsm()

// IdleEntry is the idle task's entry point (§9): the address of the
// assembly wfi loop, resolved once at init the same way InstallTrapVector
// resolves trapVector's address.
var IdleEntry EntryPoint

func init() {
	IdleEntry = EntryPoint(funcPC(idleLoopAsm))
}

// PrepareNewTaskContext populates a fresh Context so that switching to it
// for the first time delivers control to fn(arg) in user mode on stack sp
// (§4.1: "creator must have pre-populated the destination context").
func PrepareNewTaskContext(ctx *Context, fn EntryPoint, arg uint64, sp uintptr) {
	*ctx = Context{}
	ctx.Sepc = uint64(fn)
	ctx.X[SPRegIndex] = uint64(sp)
	ctx.X[EntryRegIndex] = arg
	// SPP=0 (resume in user mode), SPIE=1 (interrupts enabled on return).
	ctx.Sstatus = SstatusSPIE
}
