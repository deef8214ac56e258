//go:build riscv64

package kernel

import (
	"strconv"

	"github.com/XinbangWei/RVOS/internal/arch"
	"github.com/XinbangWei/RVOS/internal/syslib"
)

// DefaultWorkloads names the demo task bodies, the real-hardware
// counterpart of workloads_sim.go. Each is an ordinary Go function;
// entryAddr takes its code address the same way arch's own IdleEntry
// resolves idleLoopAsm, since a task on real hardware is entered by PC,
// not by a Go function call.
func DefaultWorkloads() map[string]arch.EntryPoint {
	return map[string]arch.EntryPoint{
		"printloop": entryAddr(printLoop),
		"printexit": entryAddr(printExit),
		"spin":      entryAddr(spin),
	}
}

// entryAddr reinterprets a func(uint64) value as the func() shape
// arch.funcPC's assembly expects, which is safe here because funcPC only
// ever reads the closure's first word (the code pointer) and never calls
// through it with Go's own calling convention. The task's argument
// arrives in a0 via PrepareNewTaskContext, matching the register Go's
// own ABI would place a func(uint64)'s sole parameter in, so entering at
// this address directly still behaves like a normal call to fn(arg).
func entryAddr(fn func(uint64)) arch.EntryPoint {
	return arch.EntryPoint(arch.FuncPCArg(fn))
}

func printLoop(arg uint64) {
	line := []byte{byte(arg), '\n'}
	for {
		syslib.Write(1, line)
		syslib.Sleep(1)
	}
}

func printExit(arg uint64) {
	msg := []byte(strconv.Itoa(syslib.Getpid()) + "\n")
	for i := 0; i < 3; i++ {
		syslib.Write(1, msg)
		syslib.Yield()
	}
	syslib.Exit(0)
}

func spin(arg uint64) {
	for {
		syslib.Yield()
	}
}
