// Package linux controls the kernel state the experiment depends on: the
// tcp_probe tracepoint in debugfs and the TCP sysctls that keep runs cold.
package linux

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const sysctlRoot = "/proc/sys"

// Sysctl writes a value to the named sysctl (dotted form, e.g.
// net.ipv4.tcp_no_metrics_save).
func Sysctl(name, value string) (err error) {
	path := filepath.Join(sysctlRoot, strings.ReplaceAll(name, ".", "/"))
	if err = os.WriteFile(path, []byte(value+"\n"), 0644); err != nil {
		err = fmt.Errorf("sysctl %s=%s: %w", name, value, err)
	}
	return
}

// SetNoMetricsSave disables cached connection metrics reuse, so each run
// starts from a cold congestion control state.
func SetNoMetricsSave() error {
	return Sysctl("net.ipv4.tcp_no_metrics_save", "1")
}

// SetCongestionControl sets the congestion control algorithm for new
// connections.
func SetCongestionControl(algorithm string) error {
	return Sysctl("net.ipv4.tcp_congestion_control", algorithm)
}
