// Package syscalltab implements the numbered system-call table of §4.7:
// a dense array indexed by syscall number, one uniform signature taking
// the a0-a2 argument registers (a3-a5 are not passed to services),
// entry 0 reserved and always nil. Grounded on the teacher's
// internal/linux/syscallnum lookup-table shape (logical operation -> id,
// looked up through a dense table) even though that package's Linux/ELF
// loading machinery was dropped — only the enum-plus-table pattern
// survives (see DESIGN.md).
package syscalltab

import (
	"unsafe"

	"github.com/XinbangWei/RVOS/internal/arch"
	"github.com/XinbangWei/RVOS/internal/console"
	"github.com/XinbangWei/RVOS/internal/sbi"
	"github.com/XinbangWei/RVOS/internal/sched"
	"github.com/XinbangWei/RVOS/internal/timer"
)

// Numbers are the baseline calls of §4.7. 0 is reserved so an
// uninitialized a7 is detected rather than silently dispatched.
const (
	_ = iota
	SysExit
	SysWrite
	SysRead
	SysYield
	SysGetpid
	SysSleep

	tableSize
)

// service is one table entry's uniform signature. It takes the first
// three argument registers (a0-a2) only; Dispatch never reads a3-a5.
type service func(a0, a1, a2 uint64) int64

// Table dispatches ecalls for one scheduler/timer/console/firmware set.
// Construct with New; entry 0 is always nil by construction.
type Table struct {
	entries  [tableSize]service
	sched    *sched.Scheduler
	timers   *timer.Wheel
	provider sbi.Provider
	con      *console.Console
}

// New builds the baseline table of §4.7: exit, write, read (stubbed),
// yield, getpid, sleep.
func New(s *sched.Scheduler, timers *timer.Wheel, provider sbi.Provider, con *console.Console) *Table {
	t := &Table{sched: s, timers: timers, provider: provider, con: con}
	t.entries[SysExit] = t.sysExit
	t.entries[SysWrite] = t.sysWrite
	t.entries[SysRead] = t.sysRead
	t.entries[SysYield] = t.sysYield
	t.entries[SysGetpid] = t.sysGetpid
	t.entries[SysSleep] = t.sysSleep
	return t
}

// Dispatch implements do_syscall(ctx) (§4.7): read the number from a7,
// reject out-of-range or unset entries by writing -1 into a0, otherwise
// invoke the entry and store its return into a0.
func (t *Table) Dispatch(ctx *arch.Context) {
	n := ctx.X[arch.A7Index]
	if n <= 0 || n >= tableSize || t.entries[n] == nil {
		ctx.X[arch.A0Index] = uint64(int64(-1))
		return
	}
	ret := t.entries[n](ctx.X[arch.A0Index], ctx.X[arch.A1Index], ctx.X[arch.A2Index])
	ctx.X[arch.A0Index] = uint64(ret)
}

func (t *Table) sysExit(status, _, _ uint64) int64 {
	t.sched.TaskExit(int(int32(status)))
	return 0 // unreachable: TaskExit never returns
}

// sysWrite services only fd 1 (stdout), copying up to a bounded number of
// bytes and sending each through the console (§4.7). buf is a raw address
// in the flat address space tasks share with the kernel (the baseline has
// no user/kernel address translation), so no copy-from-user step precedes
// the write; see unsafeBytes.
const writeMaxBytes = 4096

func (t *Table) sysWrite(fd, buf, length uint64) int64 {
	if fd != 1 {
		return -1
	}
	if length > writeMaxBytes {
		length = writeMaxBytes
	}
	data := unsafeBytes(buf, int(length))
	t.con.Write(data)
	return int64(length)
}

func (t *Table) sysRead(fd, buf, count uint64) int64 {
	// Stubbed per §4.7: the baseline has no blocking-read path.
	return 0
}

func (t *Table) sysYield(_, _, _ uint64) int64 {
	t.sched.TaskYield()
	return 0
}

func (t *Table) sysGetpid(_, _, _ uint64) int64 {
	return int64(t.sched.Current())
}

// sysSleep treats its argument as a count of scheduler ticks, not
// wall-clock seconds (§9's resolved open question, following
// original_source's TIMER_INTERVAL-based "sleep" semantics): the sim
// backend's tick length is the build-time constant sbi.TickDuration
// (10 ms), so the call keeps its original name while its unit changes.
func (t *Table) sysSleep(ticks, _, _ uint64) int64 {
	t.sched.TaskDelay(ticks)
	return 0
}

// unsafeBytes is the one place this package touches memory by raw
// address. §1 excludes virtual memory and address-space isolation from
// the baseline, so a task's buf argument is already a real address in
// the same flat address space the kernel runs in — there is no
// copy-from-user step to perform because there is no separate user
// address space to copy from.
func unsafeBytes(addr uint64, n int) []byte {
	if n <= 0 || addr == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), n)
}
