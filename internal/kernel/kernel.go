// Package kernel is the boot facade of §4.9 and §2: it brings up every
// subsystem in the fixed order platform -> page allocator -> heap ->
// timer -> trap vector -> scheduler -> tasks, then hands control to the
// scheduler. Grounded on original_source/kernel/main.c's init sequence
// and the teacher's own top-level wiring style (one package that owns
// construction order, leaving each subsystem package ignorant of the
// others' existence beyond the interfaces it's handed).
package kernel

import (
	"fmt"

	"github.com/XinbangWei/RVOS/internal/arch"
	"github.com/XinbangWei/RVOS/internal/bootcfg"
	"github.com/XinbangWei/RVOS/internal/console"
	"github.com/XinbangWei/RVOS/internal/mm"
	"github.com/XinbangWei/RVOS/internal/sbi"
	"github.com/XinbangWei/RVOS/internal/sched"
	"github.com/XinbangWei/RVOS/internal/syscalltab"
	"github.com/XinbangWei/RVOS/internal/timer"
	"github.com/XinbangWei/RVOS/internal/trap"
)

// Config bounds the managed physical region and whether to create the
// idle task (§9's resolved open question; tests that want the "panic with
// no ready tasks" path per §8 scenario 1 pass CreateIdle=false).
type Config struct {
	PagesBase    uintptr
	NumPages     int
	ReservePages int // pages pre-marked TAKEN for kernel image/BSS/descriptor array (§3)
	CreateIdle   bool
}

// Kernel holds every subsystem Boot wires together, so cmd/kernel (or a
// test) can inspect state after boot without reaching back through
// globals.
type Kernel struct {
	Provider sbi.Provider
	Console  *console.Console
	Pages    *mm.PageAllocator
	Heap     *mm.Heap
	Timers   *timer.Wheel
	Sched    *sched.Scheduler
	Syscalls *syscalltab.Table
	Trap     *trap.Dispatcher
}

// Boot performs §2's fixed initialization order and creates every task
// named in tasks.Tasks, resolving each one's Workload string through the
// workloads registry (workload bodies are necessarily build-tag specific,
// since arch.EntryPoint is a raw code address on riscv64 and an ordinary
// Go function in the sim build — see internal/kernel's workloads_*.go).
func Boot(provider sbi.Provider, cfg Config, tasks bootcfg.Config, workloads map[string]arch.EntryPoint) (*Kernel, error) {
	con := console.New(provider)
	con.Printf("Hello, RVOS (%s)\n", tasks.Scenario)

	pages := mm.NewPageAllocator(cfg.PagesBase, cfg.NumPages)
	if cfg.ReservePages > 0 {
		pages.ReserveRange(0, cfg.ReservePages)
	}

	heap := mm.NewHeap(pages)

	wheel := timer.New(provider)

	s := sched.New(pages, wheel)

	tbl := syscalltab.New(s, wheel, provider, con)

	d := trap.New(s, wheel, provider, tbl.Dispatch)
	d.Install()

	s.Init(cfg.CreateIdle)

	k := &Kernel{
		Provider: provider,
		Console:  con,
		Pages:    pages,
		Heap:     heap,
		Timers:   wheel,
		Sched:    s,
		Syscalls: tbl,
		Trap:     d,
	}

	for i, spec := range tasks.Tasks {
		fn, ok := workloads[spec.Workload]
		if !ok {
			return nil, fmt.Errorf("kernel: task %d (%s): unknown workload %q", i, spec.Name, spec.Workload)
		}
		if _, ok := s.TaskCreate(fn, spec.Arg, spec.Priority, spec.Timeslice); !ok {
			return nil, fmt.Errorf("kernel: task %d (%s): task_create failed", i, spec.Name)
		}
	}

	return k, nil
}

// Run enters the scheduler loop. A panic raised by a scheduler or trap
// invariant violation (e.g. "no ready tasks") unwinds to here rather than
// being handled closer to its source, matching real hardware where such a
// condition has no caller left to return to; it is converted into the
// permanent halt §7 specifies.
func (k *Kernel) Run() {
	defer func() {
		if r := recover(); r != nil {
			k.Panic("%v", r)
		}
	}()
	k.Sched.Schedule()
}

// Panic prints a banner and the cause through the console, then halts
// forever. There is no recovery path out of a kernel panic (§7); this is
// the one place that policy is enforced, so every fatal condition
// (scheduler, trap, or caller-detected) funnels through it.
func (k *Kernel) Panic(format string, args ...any) {
	k.Console.Printf("\n*** KERNEL PANIC ***\n")
	k.Console.Printf(format+"\n", args...)
	for {
	}
}
