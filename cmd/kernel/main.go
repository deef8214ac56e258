// Command kernel is the sim-mode harness: it boots the kernel against
// the software SBI/CLINT/UART firmware simulator and runs one of §8's
// end-to-end scenarios. Flag handling follows the teacher's own
// flag.NewFlagSet style (internal/cmd/kernel/main.go, adapted here from
// Linux-kernel-image extraction to booting this kernel instead — see
// DESIGN.md).
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/schollz/progressbar/v3"

	"github.com/XinbangWei/RVOS/internal/bootcfg"
	"github.com/XinbangWei/RVOS/internal/devices/serial"
	"github.com/XinbangWei/RVOS/internal/fdt"
	"github.com/XinbangWei/RVOS/internal/kernel"
	"github.com/XinbangWei/RVOS/internal/mm"
	"github.com/XinbangWei/RVOS/internal/sbi"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	scenario := fs.String("scenario", "alternating", "Named demo scenario: alternating, priority, spin")
	configPath := fs.String("config", "", "Load the task table from a YAML file instead of a built-in scenario")
	pages := fs.Int("pages", 256, "Number of physical pages the page allocator manages")
	runFor := fs.Duration("for", 3*time.Second, "How long to let the simulated kernel run before exiting")

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath, *scenario)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kernel: %v\n", err)
		os.Exit(1)
	}

	restoreTerm, err := serial.EnableRawInput(int(os.Stdin.Fd()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "kernel: stdin is not a terminal, running without live input: %v\n", err)
	} else {
		defer restoreTerm()
	}

	uart := serial.New(os.Stdout, os.Stdin)
	provider := sbi.NewSim(uart)

	bar := progressbar.Default(int64(len(bootSteps)))
	for _, step := range bootSteps {
		bar.Describe(step)
		bar.Add(1)
	}

	blob, err := bootInfoBlob(*pages, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kernel: building boot info blob: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(ansi.Faint(fmt.Sprintf("boot info blob: %d bytes (firmware side only, never parsed by the kernel)", len(blob))))

	fmt.Println(ansi.Bold(fmt.Sprintf("RVOS sim boot: scenario %q", cfg.Scenario)))

	k, err := kernel.Boot(provider, kernel.Config{
		NumPages:     *pages,
		ReservePages: 0,
		CreateIdle:   true,
	}, cfg, kernel.DefaultWorkloads())
	if err != nil {
		fmt.Fprintf(os.Stderr, "kernel: boot failed: %v\n", err)
		os.Exit(1)
	}

	go k.Run()

	time.Sleep(*runFor)
	fmt.Println(ansi.Faint(fmt.Sprintf("ran for %s, exiting (kernel.Run never returns on its own)", *runFor)))
}

// bootSteps names the fixed init order §2 specifies, purely for the
// progress display; kernel.Boot performs the actual ordering.
var bootSteps = []string{
	"platform glue",
	"page allocator",
	"heap allocator",
	"timer subsystem",
	"trap vector",
	"scheduler",
	"initial tasks",
}

// bootInfoBlob builds a small device-tree-shaped blob describing the
// simulated machine (§4.9: a boot info block, not a generic FDT —
// device-tree parsing is out of scope per §1, so nothing on the kernel
// side ever reads this back). Real firmware hands the kernel a blob
// like this at boot; this harness only goes through the motions of
// building one, the way internal/fdt's original owner would have for
// its own emulated boards.
func bootInfoBlob(pages int, cfg bootcfg.Config) ([]byte, error) {
	root := fdt.Node{
		Properties: map[string]fdt.Property{
			"compatible": {Strings: []string{"rvos,virt"}},
			"model":      {Strings: []string{"RVOS simulated QEMU virt"}},
			"bootargs":   {Strings: []string{cfg.Scenario}},
		},
		Children: []fdt.Node{
			{
				Name: "memory@0",
				Properties: map[string]fdt.Property{
					"device_type": {Strings: []string{"memory"}},
					"reg":         {U64: []uint64{0, uint64(pages) * uint64(mm.PageSize)}},
				},
			},
			{
				Name: "cpus",
				Properties: map[string]fdt.Property{
					"timebase-frequency": {U32: []uint32{10000000}},
					"#address-cells":     {U32: []uint32{1}},
				},
				Children: []fdt.Node{
					{
						Name: "cpu@0",
						Properties: map[string]fdt.Property{
							"device_type": {Strings: []string{"cpu"}},
							"compatible":  {Strings: []string{"riscv"}},
							"reg":         {U32: []uint32{0}},
						},
					},
				},
			},
		},
	}
	return fdt.Build(root)
}

func loadConfig(path, scenario string) (bootcfg.Config, error) {
	if path != "" {
		return bootcfg.Load(path)
	}
	doc, ok := builtinScenarios[scenario]
	if !ok {
		return bootcfg.Config{}, fmt.Errorf("unknown scenario %q", scenario)
	}
	return bootcfg.Parse([]byte(doc))
}

// builtinScenarios are small, embedded YAML documents covering §8's
// end-to-end scenarios 2 and 3 without requiring a config file on disk.
var builtinScenarios = map[string]string{
	"alternating": `
scenario: alternating
tasks:
  - name: A
    priority: 128
    timeslice: 1
    workload: printloop
    arg: 65
  - name: B
    priority: 128
    timeslice: 1
    workload: printloop
    arg: 66
`,
	"priority": `
scenario: priority
tasks:
  - name: low
    priority: 129
    timeslice: 1
    workload: spin
  - name: hi1
    priority: 3
    timeslice: 1
    workload: printexit
  - name: hi2
    priority: 3
    timeslice: 1
    workload: printexit
`,
	"spin": `
scenario: spin
tasks:
  - name: only
    priority: 129
    timeslice: 1
    workload: spin
`,
}
