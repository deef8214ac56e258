// Package bootcfg loads the initial task table internal/kernel's Boot
// hands to sched.TaskCreate from YAML, the way the teacher pack's own tools
// configure long-running bring-up from a checked-in file rather than
// flags alone (§2's "create tasks" boot step, §9's config decision).
package bootcfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TaskSpec describes one task to create at boot. Workload names one of
// the demo bodies internal/kernel knows how to resolve (kept as a string
// rather than a func value so the whole table round-trips through YAML).
type TaskSpec struct {
	Name      string `yaml:"name"`
	Priority  int    `yaml:"priority"`
	Timeslice uint32 `yaml:"timeslice"`
	Workload  string `yaml:"workload"`
	Arg       uint64 `yaml:"arg"`
}

// Config is the root document: the scenario name (for logging/diagnostics
// only) and its task table.
type Config struct {
	Scenario string     `yaml:"scenario"`
	Tasks    []TaskSpec `yaml:"tasks"`
}

// Load parses a YAML document from path into a Config.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("bootcfg: read %q: %w", path, err)
	}
	return Parse(data)
}

// Parse parses a YAML document already in memory, so callers embedding a
// scenario (cmd/kernel's built-in demos) don't need a real file on disk.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("bootcfg: parse: %w", err)
	}
	for i, t := range cfg.Tasks {
		if t.Priority < 0 {
			return Config{}, fmt.Errorf("bootcfg: task %d (%s): negative priority %d", i, t.Name, t.Priority)
		}
		if t.Workload == "" {
			return Config{}, fmt.Errorf("bootcfg: task %d (%s): missing workload", i, t.Name)
		}
	}
	return cfg, nil
}
