// Package arch holds the register-save frame, CSR/SBI glue, and the
// trap-vector/context-switch primitives that are coupled to it. Code here
// is split by build tag: context_riscv64.go and trap_riscv64.s are the
// real supervisor-mode implementation (GOARCH=riscv64); context_sim.go is a
// host-portable stand-in used by the sim build so the scheduler, timer, and
// syscall layers above can be exercised and tested on any GOARCH.
package arch

// Privilege levels, as encoded in mstatus.SPP / the CSR address's priv bits.
const (
	PrivUser       uint8 = 0
	PrivSupervisor uint8 = 1
)

// sstatus bits this kernel cares about (§3, §4.1).
const (
	SstatusSIE  uint64 = 1 << 1 // supervisor interrupt enable
	SstatusSPIE uint64 = 1 << 5 // previous SIE, restored on sret
	SstatusSPP  uint64 = 1 << 8 // previous privilege, 0 = user
)

// scause values. The MSB marks an asynchronous interrupt; the low bits are
// the numeric code (§4.2).
const (
	causeInterruptBit = uint64(1) << 63

	CauseSSoftwareInt uint64 = causeInterruptBit | 1
	CauseSTimerInt    uint64 = causeInterruptBit | 5
	CauseSExternalInt uint64 = causeInterruptBit | 9

	CauseInsnAddrMisaligned  uint64 = 0
	CauseIllegalInsn         uint64 = 2
	CauseBreakpoint          uint64 = 3
	CauseLoadAddrMisaligned  uint64 = 4
	CauseLoadAccessFault     uint64 = 5
	CauseStoreAddrMisaligned uint64 = 6
	CauseStoreAccessFault    uint64 = 7
	CauseEcallFromU          uint64 = 8
	CauseEcallFromS          uint64 = 9
	CauseInsnPageFault       uint64 = 12
	CauseLoadPageFault       uint64 = 13
	CauseStorePageFault      uint64 = 15
)

// IsInterrupt reports whether cause is asynchronous (an interrupt) rather
// than a synchronous exception.
func IsInterrupt(cause uint64) bool {
	return cause&causeInterruptBit != 0
}

// Code strips the interrupt bit, leaving the numeric cause code.
func Code(cause uint64) uint64 {
	return cause &^ causeInterruptBit
}

// NumGPR is the number of general-purpose registers saved in a Context: all
// but the hard-wired x0/zero register (§3).
const NumGPR = 31
