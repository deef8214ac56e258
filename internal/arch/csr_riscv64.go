//go:build riscv64

package arch

import "unsafe"

// Implemented in csr_riscv64.s. Only the supervisor-visible CSRs §9 says
// should remain are touched directly; everything else routes through SBI.
func readSie() uint64
func writeSie(v uint64)
func readSstatus() uint64
func writeSstatus(v uint64)
func writeSscratch(v uint64)
func writeStvec(v uint64)
func readTime() uint64
func funcPC(f func()) uint64
func ecall(ext, fid, a0, a1, a2 uint64) (errno, value uint64)
func waitForInterrupt()

// WaitForInterrupt halts the hart until the next interrupt (§9's idle
// task body).
func WaitForInterrupt() { waitForInterrupt() }

// EnableSoftwareInterrupt sets SIE.SSIE, used by sched_init (§4.3) so
// task_yield's software interrupt (§9) is actually delivered.
func EnableSoftwareInterrupt() {
	const sieSSIE = 1 << 1
	writeSie(readSie() | sieSSIE)
}

// Now returns the current tick count (§6: "monotonic counter instruction").
func Now() uint64 {
	return readTime()
}

// MaskInterrupts clears sstatus.SIE and reports whether it was previously
// set, so the caller can restore it later. This is §5's critical-section
// primitive: "acquire masks supervisor interrupts... release restores
// them," implemented directly rather than as a multi-hart spinlock (§9).
func MaskInterrupts() (wasEnabled bool) {
	old := readSstatus()
	writeSstatus(old &^ SstatusSIE)
	return old&SstatusSIE != 0
}

// RestoreInterrupts re-enables sstatus.SIE if wasEnabled, undoing a prior
// MaskInterrupts call.
func RestoreInterrupts(wasEnabled bool) {
	if !wasEnabled {
		return
	}
	writeSstatus(readSstatus() | SstatusSIE)
}

// FuncPCArg is funcPC for a func(uint64) instead of a func(): reinterpret
// the value as the shape funcPC's assembly expects (it only ever reads
// the closure's first word, never calls through it), so a task entry
// point that takes its argument can still have its code address taken
// the same way IdleEntry's argument-less loop does.
func FuncPCArg(f func(uint64)) uint64 {
	return funcPC(*(*func())(unsafe.Pointer(&f)))
}

// Ecall issues an SBI call with the standard register convention: ext in
// a7, fid in a6, up to three arguments in a0-a2, result in (a0, a1) as
// (error, value) (§6).
func Ecall(ext, fid, a0, a1, a2 uint64) (errVal, value uint64) {
	return ecall(ext, fid, a0, a1, a2)
}
