//go:build !riscv64

package sbi

import (
	"time"

	"github.com/XinbangWei/RVOS/internal/devices/serial"
)

// Sim is a software firmware model used on any host GOARCH so the kernel
// can be built, run, and tested without real RISC-V hardware. Timer and
// console semantics are adapted from the teacher's rv64/clint.go and
// rv64/sbi.go (see DESIGN.md); hart lifecycle only ever reports hart 0,
// matching §1's "secondary harts share no runnable queue with hart 0."
type Sim struct {
	console *serial.UART

	startTime time.Time
	timecmp   uint64 // absolute tick value programmed by SetTimer
	ipi       bool
}

// NewSim builds a sim firmware backed by console for putchar/getchar.
func NewSim(console *serial.UART) *Sim {
	return &Sim{
		console:   console,
		startTime: time.Now(),
		timecmp:   ^uint64(0), // disabled: far future
	}
}

func (s *Sim) SetTimer(abs uint64) {
	s.timecmp = abs
}

func (s *Sim) ClearIPI() { s.ipi = false }

func (s *Sim) SendIPI(mask uint64) {
	if mask&1 != 0 {
		s.ipi = true
	}
}

// IPIPending reports whether SendIPI(hart 0) was called and not yet
// cleared; the sim trap shim polls this to decide whether to run the
// software-interrupt path (§4.2, cause 1).
func (s *Sim) IPIPending() bool { return s.ipi }

func (s *Sim) ConsolePutChar(ch byte) { s.console.PutChar(ch) }

func (s *Sim) ConsoleGetChar() (byte, bool) { return s.console.GetChar() }

func (s *Sim) Shutdown() { panic("sbi: shutdown requested") }

func (s *Sim) HartStart(hartID, startAddr, opaque uint64) int64 {
	if hartID == 0 {
		return ErrAlreadyAvail
	}
	return ErrNotSupported
}

func (s *Sim) HartStatus(hartID uint64) (int, int64) {
	if hartID == 0 {
		return HartStarted, Success
	}
	return 0, ErrInvalidParam
}

// Now returns elapsed wall-clock time converted to ticks, the way the
// teacher's CLINT derives mtime from time.Since(startTime) (rv64/clint.go).
func (s *Sim) Now() uint64 {
	return uint64(time.Since(s.startTime)) / uint64(TickDuration)
}

// TimerDue reports whether the programmed comparator has been reached,
// and is how the sim build checks for a timer interrupt at each voluntary
// suspend point instead of a true asynchronous hardware interrupt (see
// SPEC_FULL.md's note on the sim build's preemption granularity).
func (s *Sim) TimerDue() bool {
	return s.Now() >= s.timecmp
}

// TickDuration is how long one software tick represents; TIMER_INTERVAL
// in the original source is "~1s" at the platform timebase (§6, §9).
// Shortened here so sim-mode demos and tests don't take real seconds.
const TickDuration = 10 * time.Millisecond
