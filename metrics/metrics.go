// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package metrics reads the coarse system utilization figures an
// inform's gateway report carries: CPU percent, memory percent, and
// host uptime.
package metrics

import (
	"log"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Collector reports the live system figures a device folds into its
// inform payload.
type Collector interface {
	CPUPercent() float64
	MemPercent() float64
	Uptime() int64
}

// HostCollector is a Collector backed by gopsutil, sampling the
// running host rather than a specific network interface (out of this
// protocol's scope; see the device package for how these figures are
// used).
type HostCollector struct {
	sampleWindow time.Duration
}

// NewHostCollector returns a HostCollector that samples CPU usage over
// sampleWindow; a short window (e.g. 200ms) keeps an inform cycle from
// stalling, at the cost of noisier readings.
func NewHostCollector(sampleWindow time.Duration) *HostCollector {
	return &HostCollector{sampleWindow: sampleWindow}
}

// CPUPercent returns the percentage of CPU time used across all cores
// during the collector's sample window.
func (c *HostCollector) CPUPercent() float64 {
	percents, err := cpu.Percent(c.sampleWindow, false)
	if err != nil || len(percents) == 0 {
		log.Printf("warn: metrics: cpu sample failed: %s", err)
		return 0
	}
	return percents[0]
}

// MemPercent returns the percentage of physical memory in use.
func (c *HostCollector) MemPercent() float64 {
	stat, err := mem.VirtualMemory()
	if err != nil {
		log.Printf("warn: metrics: memory sample failed: %s", err)
		return 0
	}
	return stat.UsedPercent
}

// Uptime returns the host's uptime in seconds.
func (c *HostCollector) Uptime() int64 {
	seconds, err := host.Uptime()
	if err != nil {
		log.Printf("warn: metrics: uptime sample failed: %s", err)
		return 0
	}
	return int64(seconds)
}
