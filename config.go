package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Experiment parameters. These are fixed for the harness; drop a sweep.yaml
// in the working directory to override any of them. The per-link delay may
// need tuning to hit the target round trip time on a given host.
const (
	DEFAULT_TIME        = 100    // experiment duration, seconds
	DEFAULT_BW_NET      = 10     // bottleneck link bandwidth, Mbps
	DEFAULT_BW_HOST     = 1000   // host link bandwidth, Mbps
	DEFAULT_DELAY       = 1      // per-link propagation delay, ms
	DEFAULT_PORT        = 5001   // iperf port identifying the bulk transfer flow
	DEFAULT_CONG        = "reno" // congestion control algorithm under test
	DEFAULT_DIR_PATTERN = "bb-q%d"
	SWEEP_CONFIG_FILE   = "sweep.yaml"
)

// DEFAULT_MAXQS are the bottleneck queue capacities to sweep, in packets.
var DEFAULT_MAXQS = []int{20, 100}

// DEFAULT_EMULATE_CMD is the external emulation command. It receives the
// --dir/--time/--bw-net/--delay/--maxq flags per run.
var DEFAULT_EMULATE_CMD = []string{"python3", "bufferbloat.py"}

// A SweepConfig contains the sweep parameters.
type SweepConfig struct {
	Time       int      `yaml:"time"`
	BwNet      float64  `yaml:"bw_net"`
	BwHost     float64  `yaml:"bw_host"`
	Delay      float64  `yaml:"delay"`
	Port       uint16   `yaml:"port"`
	Cong       string   `yaml:"cong"`
	MaxQs      []int    `yaml:"maxqs,flow"`
	DirPattern string   `yaml:"dir_pattern"`
	EmulateCmd []string `yaml:"emulate_cmd,flow"`
	Log        bool     `yaml:"log"`
}

func defaultSweepConfig() *SweepConfig {
	return &SweepConfig{
		Time:       DEFAULT_TIME,
		BwNet:      DEFAULT_BW_NET,
		BwHost:     DEFAULT_BW_HOST,
		Delay:      DEFAULT_DELAY,
		Port:       DEFAULT_PORT,
		Cong:       DEFAULT_CONG,
		MaxQs:      DEFAULT_MAXQS,
		DirPattern: DEFAULT_DIR_PATTERN,
		EmulateCmd: DEFAULT_EMULATE_CMD,
	}
}

// loadSweepConfig returns the default parameters, overridden by the YAML
// file at path if one exists.
func loadSweepConfig(path string) (cfg *SweepConfig, err error) {
	cfg = defaultSweepConfig()

	var b []byte
	if b, err = os.ReadFile(path); err != nil {
		if os.IsNotExist(err) {
			err = nil
		}
		return
	}

	if err = yaml.Unmarshal(b, cfg); err != nil {
		err = fmt.Errorf("%s: %w", path, err)
		cfg = nil
	}

	return
}
