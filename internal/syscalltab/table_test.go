//go:build !riscv64

package syscalltab

import (
	"testing"

	"github.com/XinbangWei/RVOS/internal/arch"
	"github.com/XinbangWei/RVOS/internal/console"
	"github.com/XinbangWei/RVOS/internal/mm"
	"github.com/XinbangWei/RVOS/internal/sbi"
	"github.com/XinbangWei/RVOS/internal/sched"
	"github.com/XinbangWei/RVOS/internal/timer"
)

func newTestTable(t *testing.T) (*Table, *sched.Scheduler) {
	t.Helper()
	pages := mm.NewPageAllocator(0, 64)
	provider := sbi.NewSim(nil)
	wheel := timer.New(provider)
	s := sched.New(pages, wheel)
	s.Init(true)
	con := console.New(provider)
	return New(s, wheel, provider, con), s
}

func TestDispatchUnknownNumberReturnsMinusOne(t *testing.T) {
	tbl, _ := newTestTable(t)
	ctx := &arch.Context{}
	ctx.X[arch.A7Index] = 999
	ctx.X[arch.A0Index] = 7
	tbl.Dispatch(ctx)
	if int64(ctx.X[arch.A0Index]) != -1 {
		t.Fatalf("a0 after unknown syscall = %d, want -1", int64(ctx.X[arch.A0Index]))
	}
}

func TestDispatchZeroNumberReturnsMinusOne(t *testing.T) {
	tbl, _ := newTestTable(t)
	ctx := &arch.Context{}
	ctx.X[arch.A7Index] = 0
	tbl.Dispatch(ctx)
	if int64(ctx.X[arch.A0Index]) != -1 {
		t.Fatalf("a0 after a7=0 = %d, want -1", int64(ctx.X[arch.A0Index]))
	}
}

func TestDispatchGetpidReturnsCurrentTask(t *testing.T) {
	tbl, s := newTestTable(t)
	id, ok := s.TaskCreate(func(uint64) {}, 0, 5, 1)
	if !ok {
		t.Fatalf("TaskCreate failed")
	}
	s.Schedule()
	if s.Current() != id {
		t.Fatalf("Current() = %d, want %d", s.Current(), id)
	}

	ctx := &arch.Context{}
	ctx.X[arch.A7Index] = SysGetpid
	tbl.Dispatch(ctx)
	if int64(ctx.X[arch.A0Index]) != int64(id) {
		t.Fatalf("a0 after getpid = %d, want %d", int64(ctx.X[arch.A0Index]), id)
	}
}

func TestDispatchWriteServicesOnlyFdOne(t *testing.T) {
	tbl, _ := newTestTable(t)

	ctx := &arch.Context{}
	ctx.X[arch.A7Index] = SysWrite
	ctx.X[arch.A0Index] = 2 // fd 2, not serviced
	ctx.X[arch.A2Index] = 4
	tbl.Dispatch(ctx)
	if int64(ctx.X[arch.A0Index]) != -1 {
		t.Fatalf("a0 after write(fd=2) = %d, want -1", int64(ctx.X[arch.A0Index]))
	}

	ctx2 := &arch.Context{}
	ctx2.X[arch.A7Index] = SysWrite
	ctx2.X[arch.A0Index] = 1
	ctx2.X[arch.A2Index] = 4
	tbl.Dispatch(ctx2)
	if int64(ctx2.X[arch.A0Index]) != 4 {
		t.Fatalf("a0 after write(fd=1, len=4) = %d, want 4", int64(ctx2.X[arch.A0Index]))
	}
}

func TestDispatchReadIsStubbedToZero(t *testing.T) {
	tbl, _ := newTestTable(t)
	ctx := &arch.Context{}
	ctx.X[arch.A7Index] = SysRead
	ctx.X[arch.A0Index] = 0
	tbl.Dispatch(ctx)
	if int64(ctx.X[arch.A0Index]) != 0 {
		t.Fatalf("a0 after read = %d, want 0", int64(ctx.X[arch.A0Index]))
	}
}
