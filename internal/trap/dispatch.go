// Package trap implements the dispatch policy of §4.2: trapHandler(epc,
// cause, ctx) -> resumePC. The assembly entry/exit mechanics live in
// internal/arch; this package only decides what to do once a trap has
// landed, and is wired in as arch.Dispatch at Install time.
package trap

import (
	"fmt"

	"github.com/XinbangWei/RVOS/internal/arch"
	"github.com/XinbangWei/RVOS/internal/sbi"
	"github.com/XinbangWei/RVOS/internal/sched"
	"github.com/XinbangWei/RVOS/internal/timer"
)

// Syscall is called for an ecall trap (§4.2's do_syscall(ctx)). The caller
// of New supplies it (internal/kernel passes syscalltab.Table.Dispatch) so
// trap doesn't import syscalltab directly (syscalltab needs sched and arch
// too; this keeps the dependency one-directional).
type Syscall func(ctx *arch.Context)

// Dispatcher holds everything the dispatch policy needs to route a trap:
// the scheduler (for software-interrupt reschedule and fault handling),
// the timer wheel (for timer interrupts), the firmware provider (to
// acknowledge IPIs), and the syscall table.
type Dispatcher struct {
	sched    *sched.Scheduler
	timers   *timer.Wheel
	provider sbi.Provider
	syscall  Syscall
}

// New builds a dispatcher. Install wires it into arch.Dispatch.
func New(s *sched.Scheduler, timers *timer.Wheel, provider sbi.Provider, syscall Syscall) *Dispatcher {
	return &Dispatcher{sched: s, timers: timers, provider: provider, syscall: syscall}
}

// Install points arch.Dispatch at d.Handle, installs the real trap vector
// (a no-op in the sim build), and arms the comparator via the timer wheel.
func (d *Dispatcher) Install() {
	arch.Dispatch = d.Handle
	arch.InstallTrapVector()
	d.timers.Create(1, func(any) { d.sched.Schedule() }, nil)
}

// Handle implements §4.2's dispatch policy. A fault in a user task is
// absorbed into an EXITED transition; a fault inside the kernel (no
// current task) or an unknown exception cause panics, matching "faults
// inside the kernel are fatal."
func (d *Dispatcher) Handle(epc, cause uint64, ctx *arch.Context) uint64 {
	if arch.IsInterrupt(cause) {
		return d.handleInterrupt(epc, arch.Code(cause))
	}
	return d.handleException(epc, arch.Code(cause), ctx)
}

func (d *Dispatcher) handleInterrupt(epc, code uint64) uint64 {
	switch code {
	case arch.Code(arch.CauseSSoftwareInt):
		d.provider.ClearIPI()
		d.sched.Schedule()
		return epc

	case arch.Code(arch.CauseSTimerInt):
		d.timers.TickHandler(d.sched.Schedule)
		return epc

	case arch.Code(arch.CauseSExternalInt):
		// External/PLIC-routed device interrupts are optional (§4.2);
		// the core kernel has no device ISRs to invoke here.
		return epc

	default:
		fmt.Printf("trap: unknown interrupt cause %#x at epc=%#x\n", code, epc)
		return epc
	}
}

func (d *Dispatcher) handleException(epc, code uint64, ctx *arch.Context) uint64 {
	switch code {
	case arch.CauseEcallFromU, arch.CauseEcallFromS:
		if d.syscall != nil {
			d.syscall(ctx)
		}
		return epc + 4

	case arch.CauseIllegalInsn, arch.CauseLoadAccessFault, arch.CauseStoreAccessFault,
		arch.CauseInsnAddrMisaligned, arch.CauseLoadAddrMisaligned, arch.CauseStoreAddrMisaligned,
		arch.CauseInsnPageFault, arch.CauseLoadPageFault, arch.CauseStorePageFault:
		return d.fault(epc, code)

	default:
		fmt.Printf("trap: unknown exception cause %#x at epc=%#x, halting\n", code, epc)
		panic("trap: unhandled exception cause")
	}
}

// fault absorbs a hardware fault from a user task into an EXITED
// transition, or halts if there is no current task to blame (§4.2,
// §7: "hardware fault in user task").
func (d *Dispatcher) fault(epc, code uint64) uint64 {
	if d.sched.Current() == -1 {
		panic(fmt.Sprintf("trap: fault inside kernel, cause=%#x epc=%#x", code, epc))
	}
	fmt.Printf("trap: task %d faulted (cause=%#x epc=%#x), terminating\n", d.sched.Current(), code, epc)
	d.sched.TaskExit(-1)
	return epc
}
