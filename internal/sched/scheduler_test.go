//go:build !riscv64

package sched

import (
	"testing"

	"github.com/XinbangWei/RVOS/internal/arch"
	"github.com/XinbangWei/RVOS/internal/mm"
	"github.com/XinbangWei/RVOS/internal/sbi"
	"github.com/XinbangWei/RVOS/internal/timer"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	pages := mm.NewPageAllocator(0, 64)
	provider := sbi.NewSim(nil)
	wheel := timer.New(provider)
	s := New(pages, wheel)
	s.Init(false) // no idle task: tests want to observe an empty-bitmap panic path too
	return s
}

func spin(arg uint64) {
	for {
		arch.Suspend(arch.Current())
	}
}

func TestSchedulerRoundRobinsEqualPriority(t *testing.T) {
	s := newTestScheduler(t)

	a, ok := s.TaskCreate(spin, 0, 3, 1)
	if !ok {
		t.Fatalf("TaskCreate(a) failed")
	}
	b, ok := s.TaskCreate(spin, 0, 3, 1)
	if !ok {
		t.Fatalf("TaskCreate(b) failed")
	}

	// For two same-priority tasks created in that order, successive
	// schedule() calls must alternate A, B, A, B, ... (§8).
	want := []int{a, b, a, b}
	for i, w := range want {
		s.Schedule()
		if got := s.Current(); got != w {
			t.Fatalf("round %d: Current() = %d, want %d", i, got, w)
		}
	}
}

func TestSchedulerHigherPriorityRunsFirst(t *testing.T) {
	s := newTestScheduler(t)

	lo, ok := s.TaskCreate(spin, 0, 3, 1)
	if !ok {
		t.Fatalf("TaskCreate(lo) failed")
	}
	hi, ok := s.TaskCreate(spin, 0, 1, 1)
	if !ok {
		t.Fatalf("TaskCreate(hi) failed")
	}

	for i := 0; i < 3; i++ {
		s.Schedule()
		if got := s.Current(); got != hi {
			t.Fatalf("iteration %d: Current() = %d, want hi task %d (lo=%d must not run while hi is READY)", i, got, hi, lo)
		}
	}
}

func TestSchedulerExitFreesSlotForRecycling(t *testing.T) {
	s := newTestScheduler(t)

	id, ok := s.TaskCreate(spin, 0, 5, 1)
	if !ok {
		t.Fatalf("TaskCreate failed")
	}
	s.Schedule() // make it current
	if s.Current() != id {
		t.Fatalf("Current() = %d, want %d", s.Current(), id)
	}

	func() {
		defer func() { recover() }() // TaskExit's Schedule() panics: no other task is READY
		s.TaskExit(0)
	}()

	if got := s.Task(id).State(); got != Exited {
		t.Fatalf("task state after exit = %v, want EXITED", got)
	}

	// A fresh task_create must reuse the EXITED slot rather than fail
	// (§9's resolved open question).
	id2, ok := s.TaskCreate(spin, 0, 5, 1)
	if !ok {
		t.Fatalf("TaskCreate after exit failed; EXITED slot was not recycled")
	}
	if id2 != id {
		t.Fatalf("TaskCreate after exit reused slot %d, want recycled slot %d", id2, id)
	}
}

func TestSchedulerDelayThenWakeReturnsToReady(t *testing.T) {
	s := newTestScheduler(t)

	id, ok := s.TaskCreate(spin, 0, 5, 1)
	if !ok {
		t.Fatalf("TaskCreate failed")
	}

	saved := arch.MaskInterrupts()
	s.Task(id).state = Sleeping
	s.rq.remove(id)
	arch.RestoreInterrupts(saved)

	if got := s.Task(id).State(); got != Sleeping {
		t.Fatalf("state = %v, want SLEEPING", got)
	}

	s.Wake(id)
	if got := s.Task(id).State(); got != Ready {
		t.Fatalf("state after Wake = %v, want READY", got)
	}
	s.Schedule()
	if s.Current() != id {
		t.Fatalf("Current() = %d after wake, want %d", s.Current(), id)
	}
}

// fakeProvider is a deterministic sbi.Provider stand-in so timer tests
// don't depend on real wall-clock elapsed time.
type fakeProvider struct {
	now     uint64
	timecmp uint64
}

func (f *fakeProvider) SetTimer(abs uint64)      { f.timecmp = abs }
func (f *fakeProvider) ClearIPI()                {}
func (f *fakeProvider) SendIPI(mask uint64)      {}
func (f *fakeProvider) ConsolePutChar(ch byte)   {}
func (f *fakeProvider) ConsoleGetChar() (byte, bool) { return 0, false }
func (f *fakeProvider) Shutdown()                {}
func (f *fakeProvider) HartStart(h, a, o uint64) int64 { return sbi.ErrNotSupported }
func (f *fakeProvider) HartStatus(h uint64) (int, int64) { return 0, sbi.ErrInvalidParam }
func (f *fakeProvider) Now() uint64              { return f.now }

func TestSchedulerTaskDelayWakesViaTimer(t *testing.T) {
	pages := mm.NewPageAllocator(0, 64)
	provider := &fakeProvider{}
	wheel := timer.New(provider)
	s := New(pages, wheel)
	s.Init(true) // idle task keeps Schedule() from panicking once id sleeps

	id, ok := s.TaskCreate(spin, 0, 5, 1)
	if !ok {
		t.Fatalf("TaskCreate failed")
	}
	s.Schedule() // id becomes current

	done := make(chan struct{})
	go func() {
		s.TaskDelay(3)
		close(done)
	}()
	<-done

	if got := s.Task(id).State(); got != Sleeping {
		t.Fatalf("state after TaskDelay = %v, want SLEEPING", got)
	}

	// Advance past the 3-tick interval and run the tick handler, which
	// should fire the wake callback (§8: "returns to READY no later than
	// k+1 ticks after the call").
	provider.now = 4
	wheel.TickHandler(func() {})

	if got := s.Task(id).State(); got != Ready {
		t.Fatalf("state after tick advance = %v, want READY", got)
	}
}

func TestSchedulerPanicsWithNoReadyTasks(t *testing.T) {
	s := newTestScheduler(t)

	defer func() {
		if recover() == nil {
			t.Fatalf("Schedule() with no READY tasks did not panic")
		}
	}()
	s.Schedule()
}
