package sched

import (
	"fmt"

	"github.com/XinbangWei/RVOS/internal/arch"
	"github.com/XinbangWei/RVOS/internal/mm"
	"github.com/XinbangWei/RVOS/internal/timer"
)

// StackPages is how many pages back each task's stack (original_source's
// STACK_SIZE was a static 4096-byte array per slot; here it comes from the
// page allocator instead of a fixed array, so task count isn't bounded by
// a compile-time stack table).
const StackPages = 1

// IdlePriority is the lowest priority level, reserved for the idle task
// (§9's "always-READY lowest-priority idle task" resolution).
const IdlePriority = MaxPriority - 1

// Scheduler owns the task table, run queues, and the operations of §4.3.
// All mutating operations run under arch.MaskInterrupts, the critical
// section primitive §5 specifies in place of a multi-hart spinlock.
type Scheduler struct {
	tasks   [MaxTasks]Task
	rq      *runQueues
	current int // -1 if no task is current

	pages  *mm.PageAllocator
	timers *timer.Wheel

	idleID int
}

// New builds a scheduler that allocates task stacks from pages and
// registers delayed wakeups with timers.
func New(pages *mm.PageAllocator, timers *timer.Wheel) *Scheduler {
	s := &Scheduler{pages: pages, timers: timers, current: -1}
	s.rq = newRunQueues(s.tasks[:])
	return s
}

// Init implements sched_init: clears the task table to INVALID, resets the
// run queues and bitmap, enables supervisor software interrupts, then
// creates the idle task (§4.3, §9's idle-task resolution). Re-entry is not
// required to be idempotent, matching the spec.
func (s *Scheduler) Init(createIdle bool) {
	for i := range s.tasks {
		s.tasks[i] = Task{state: Invalid, prev: -1, next: -1}
	}
	s.rq = newRunQueues(s.tasks[:])
	s.current = -1
	arch.EnableSoftwareInterrupt()

	s.idleID = -1
	if createIdle {
		id, ok := s.TaskCreate(arch.IdleEntry, 0, IdlePriority, 0)
		if !ok {
			panic("sched: failed to create idle task")
		}
		s.idleID = id
	}
}

// findFreeSlot implements the "EXITED slots are recycled" decision
// (§9 open question, resolved in SPEC_FULL.md): prefer an EXITED slot
// over a fresh INVALID one, so long-running systems with bounded
// concurrent tasks don't exhaust the table.
func (s *Scheduler) findFreeSlot() int {
	for i := range s.tasks {
		if s.tasks[i].state == Exited {
			return i
		}
	}
	for i := range s.tasks {
		if s.tasks[i].state == Invalid {
			return i
		}
	}
	return -1
}

// TaskCreate implements task_create: find a free slot, populate its
// context so a return-from-trap delivers control to fn(arg) in user mode
// on a clean stack, mark it READY, and enqueue it. Fails (returns
// ok=false) if the table is full or prio is out of range.
func (s *Scheduler) TaskCreate(fn arch.EntryPoint, arg uint64, prio int, slice uint32) (int, bool) {
	if prio < 0 || prio >= MaxPriority {
		fmt.Printf("sched: task_create failed: invalid priority %d\n", prio)
		return -1, false
	}

	saved := arch.MaskInterrupts()
	defer arch.RestoreInterrupts(saved)

	id := s.findFreeSlot()
	if id == -1 {
		fmt.Printf("sched: task_create failed: no free task slot\n")
		return -1, false
	}

	sp, ok := s.pages.Alloc(StackPages)
	if !ok {
		fmt.Printf("sched: task_create failed: out of stack pages\n")
		return -1, false
	}
	top := sp + uintptr(StackPages)*mm.PageSize

	t := &s.tasks[id]
	*t = Task{prev: -1, next: -1}
	arch.PrepareNewTaskContext(&t.ctx, fn, arg, top)

	t.entry = fn
	t.arg = arg
	t.priority = prio
	t.state = Ready
	t.timeslice = slice
	t.remaining = slice

	s.rq.enqueueTail(id)
	return id, true
}

// Current returns the index of the presently RUNNING task, or -1.
func (s *Scheduler) Current() int { return s.current }

// Task returns a pointer to the task table entry for id, for callers (the
// timer wake callback, diagnostics) that need direct access.
func (s *Scheduler) Task(id int) *Task { return &s.tasks[id] }

// Schedule implements schedule(): demote a RUNNING current task to READY
// (it stays in its queue, pre-rotated by pickNext's round-robin), pick the
// next READY task, and switch to it if it differs from current. Panics if
// no task is READY, per §4.3 — unreachable once Init created the idle
// task, and kept as a defensive invariant check (§9).
func (s *Scheduler) Schedule() {
	saved := arch.MaskInterrupts()

	if s.current != -1 && s.tasks[s.current].state == Running {
		s.tasks[s.current].state = Ready
	}

	next := s.rq.pickNext()
	if next == -1 {
		arch.RestoreInterrupts(saved)
		panic("sched: no ready tasks to schedule")
	}

	prev := s.current
	s.current = next
	s.tasks[next].state = Running

	arch.RestoreInterrupts(saved)

	if prev != next {
		arch.SwitchTo(&s.tasks[next].ctx)
	}
}

// TaskYield implements task_yield: voluntarily enter Schedule (§4.3) by a
// direct call. No software interrupt is raised; the trap dispatcher's
// software-interrupt branch calls Schedule as well, so a delivered IPI
// and a yield end in the same method.
func (s *Scheduler) TaskYield() {
	s.Schedule()
}

// TaskDelay implements task_delay: remove current from its run queue, mark
// it SLEEPING, and register a wakeup timer. If timer allocation fails, the
// task is restored to READY instead of put to sleep (§4.3).
func (s *Scheduler) TaskDelay(ticks uint64) {
	saved := arch.MaskInterrupts()
	if s.current == -1 {
		arch.RestoreInterrupts(saved)
		return
	}

	id := s.current
	t := &s.tasks[id]
	s.rq.remove(id)
	t.state = Sleeping

	if s.timers.Create(ticks, func(arg any) { s.Wake(arg.(int)) }, id) == nil {
		t.state = Ready
		s.rq.enqueueTail(id)
	}
	arch.RestoreInterrupts(saved)

	s.Schedule()
}

// TaskExit implements task_exit: remove current from its run queue, mark
// it EXITED, clear current, and call Schedule, which never returns into
// this call (the task's own flow of control ends here).
func (s *Scheduler) TaskExit(status int) {
	saved := arch.MaskInterrupts()
	if s.current != -1 {
		id := s.current
		s.rq.remove(id)
		s.tasks[id].state = Exited
		fmt.Printf("sched: task %d exited with status %d\n", id, status)
		s.current = -1
	}
	arch.RestoreInterrupts(saved)

	s.Schedule()

	// On real hardware switch_to never returns into this flow again: the
	// exited task's stack is simply never resumed. The sim build's
	// SwitchTo is an ordinary function call, so control does technically
	// come back here once some other task suspends; park this goroutine
	// for good rather than let it fall through to code that assumes a
	// live task (§4.3's "never returns").
	select {}
}

// Wake implements wake(task_id): if the task is SLEEPING, transition it to
// READY and enqueue it; otherwise a no-op (§4.3). Called by the timer's
// fired callback, outside the lock the timer already released (per §4.4's
// "callbacks must not assume the lock"), so Wake takes it itself.
func (s *Scheduler) Wake(id int) {
	saved := arch.MaskInterrupts()
	defer arch.RestoreInterrupts(saved)

	if id < 0 || id >= MaxTasks || s.tasks[id].state != Sleeping {
		return
	}
	s.tasks[id].state = Ready
	s.rq.enqueueTail(id)
}
