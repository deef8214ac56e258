// Package sched implements the task table and priority scheduler of §4.3:
// a fixed-capacity array of task descriptors, one doubly-linked run queue
// per priority level, a non-empty bitmap for O(1) pick-next, and the
// lifecycle operations (create, yield, delay, exit, wake). Grounded on
// original_source/kernel/sched.c and kernel/task.c.
package sched

import "github.com/XinbangWei/RVOS/internal/arch"

// State is a task's lifecycle state (§3).
type State int

const (
	Invalid State = iota
	Ready
	Running
	Sleeping
	Exited
)

func (s State) String() string {
	switch s {
	case Invalid:
		return "INVALID"
	case Ready:
		return "READY"
	case Running:
		return "RUNNING"
	case Sleeping:
		return "SLEEPING"
	case Exited:
		return "EXITED"
	default:
		return "UNKNOWN"
	}
}

// MaxPriority bounds priority to [0, MaxPriority), one bit per level in the
// run-queue bitmap (sched.c's MAX_PRIORITY, sized to fit a uint32 bitmap
// the way __builtin_ctz(run_queue_bitmap) does there).
const MaxPriority = 32

// MaxTasks is the task table's fixed capacity (sched.c's MAX_TASKS; §3's
// "e.g. 10 slots" sized up slightly for the idle task plus headroom).
const MaxTasks = 16

// Task is one entry in the fixed-capacity task table. References between
// tasks are indices into Scheduler.tasks, never pointers (§9's
// arena-plus-index discipline).
type Task struct {
	ctx arch.Context

	entry arch.EntryPoint
	arg   uint64

	priority  int
	state     State
	timeslice uint32
	remaining uint32

	// prev/next link this task into its priority's run queue. Unused
	// when the task is not READY.
	prev, next int
}

// State reports the task's current lifecycle state.
func (t *Task) State() State { return t.state }

// Priority reports the task's scheduling priority.
func (t *Task) Priority() int { return t.priority }

// Context exposes the register-save frame switch_to operates on.
func (t *Task) Context() *arch.Context { return &t.ctx }
