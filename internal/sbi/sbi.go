// Package sbi is the platform's firmware boundary (§4.1, §6): the only
// way the kernel programs the timer comparator, clears/sends IPIs, talks
// to the console, or controls hart lifecycle. Everything above this
// package — timer, trap, scheduler — calls through the Provider
// interface, never CSRs or raw MMIO directly, matching §9's "the correct
// model for a supervisor-mode kernel is exclusively the ABI."
package sbi

// Extension IDs, adapted from the teacher's rv64/sbi.go constant table.
const (
	ExtLegacyPutchar = 0x01
	ExtLegacyGetchar = 0x02
	ExtBase          = 0x10
	ExtTimer         = 0x54494D45 // "TIME"
	ExtIPI           = 0x735049   // "sPI"
	ExtHSM           = 0x48534D   // "HSM"
	ExtSRST          = 0x53525354 // "SRST"
)

// SBI error codes (§6).
const (
	Success           int64 = 0
	ErrFailed         int64 = -1
	ErrNotSupported   int64 = -2
	ErrInvalidParam   int64 = -3
	ErrAlreadyAvail   int64 = -6
)

// HartStatus values returned by the HSM extension.
const (
	HartStarted = 0
	HartStopped = 1
)

// Provider is the firmware surface the kernel is built against. The
// riscv64 build's implementation (real_riscv64.go) issues ecalls; the sim build's
// (sim.go) is a software model so the rest of the kernel can run on any
// host (SPEC_FULL.md).
type Provider interface {
	// SetTimer programs the hart's comparator to fire when the monotonic
	// counter reaches abs (§6).
	SetTimer(abs uint64)
	// ClearIPI acknowledges a delivered software interrupt (§4.2).
	ClearIPI()
	// SendIPI raises a software interrupt on the harts in mask.
	SendIPI(mask uint64)
	// ConsolePutChar writes one byte to the console (§1, §4.7's write()).
	ConsolePutChar(ch byte)
	// ConsoleGetChar returns the next buffered byte, or ok=false.
	ConsoleGetChar() (ch byte, ok bool)
	// Shutdown powers the hart off; does not return on success.
	Shutdown()
	// HartStart brings up a secondary hart at startAddr (§1: "secondary
	// harts may be started but share no runnable queue with hart 0").
	HartStart(hartID, startAddr, opaque uint64) int64
	// HartStatus reports HartStarted/HartStopped for hartID.
	HartStatus(hartID uint64) (status int, err int64)
	// Now returns the current value of the monotonic tick counter (§6).
	Now() uint64
}
