// Package trace parses the text traces an experiment run produces: tcp_probe
// tracepoint records, ping output and queue occupancy samples. Each trace
// file is written once by the emulation step and read once here, so parsing
// is strictly offline. Malformed lines are skipped rather than failing the
// whole trace.
package trace

import "os"

// A Point is an (x, y) sample of a derived series.
type Point struct {
	X float64
	Y float64
}

// LoadProbe parses the tcp_probe trace file at path, keeping only events
// matching port. See ParseProbe.
func LoadProbe(path string, port uint16, srcPort bool) (evs []ProbeEvent, err error) {
	var f *os.File
	if f, err = os.Open(path); err != nil {
		return
	}
	defer f.Close()
	evs, err = ParseProbe(f, port, srcPort)
	return
}

// LoadPing parses the ping output file at path. See ParsePing.
func LoadPing(path string) (ss []PingSample, err error) {
	var f *os.File
	if f, err = os.Open(path); err != nil {
		return
	}
	defer f.Close()
	ss, err = ParsePing(f)
	return
}

// LoadQueue parses the queue occupancy file at path. See ParseQueue.
func LoadQueue(path string) (ss []QueueSample, err error) {
	var f *os.File
	if f, err = os.Open(path); err != nil {
		return
	}
	defer f.Close()
	ss, err = ParseQueue(f)
	return
}
