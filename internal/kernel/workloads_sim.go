//go:build !riscv64

package kernel

import (
	"strconv"

	"github.com/XinbangWei/RVOS/internal/arch"
	"github.com/XinbangWei/RVOS/internal/syslib"
)

// DefaultWorkloads names the demo task bodies §8's end-to-end scenarios
// exercise, for bootcfg.TaskSpec.Workload to select by name.
func DefaultWorkloads() map[string]arch.EntryPoint {
	return map[string]arch.EntryPoint{
		"printloop": printLoop,
		"printexit": printExit,
		"spin":      spin,
	}
}

// printLoop writes its argument (interpreted as one ASCII byte) followed
// by a newline, then sleeps one tick, forever (§8 scenario 2: "A\n"/"B\n"
// alternating after each sleep returns).
func printLoop(arg uint64) {
	line := []byte{byte(arg), '\n'}
	for {
		syslib.Write(1, line)
		syslib.Sleep(1)
	}
}

// printExit writes its own task id three times, yielding between writes,
// then exits (§8 scenario 3's pair of high-priority tasks).
func printExit(arg uint64) {
	msg := []byte(strconv.Itoa(syslib.Getpid()) + "\n")
	for i := 0; i < 3; i++ {
		syslib.Write(1, msg)
		syslib.Yield()
	}
	syslib.Exit(0)
}

// spin never blocks on anything but the scheduler itself, matching §8
// scenario 3's low-priority task that only runs once the higher-priority
// pair has exited.
func spin(arg uint64) {
	for {
		syslib.Yield()
	}
}
