// Package probe builds a fresh report.SystemReport each tick from procfs
// and the sysfs cpufreq/power_supply/thermal/platform-profile trees.
package probe

import (
	"path/filepath"
	"strconv"

	"github.com/prometheus/procfs"

	"github.com/wattpower/watt/internal/sysfs"
)

// cpuJiffies is one core's (or the aggregate's) accumulated jiffy counters,
// taken directly from procfs.CPUStat. procfs already converts raw jiffies
// to seconds (dividing by the kernel's USER_HZ); Watt only ever uses the
// difference between two ticks so the unit cancels out.
type cpuJiffies struct {
	nonIdle float64
	total   float64
}

func jiffiesFromStat(s procfs.CPUStat) cpuJiffies {
	idle := s.Idle + s.Iowait
	nonIdle := s.User + s.Nice + s.System + s.IRQ + s.SoftIRQ + s.Steal
	return cpuJiffies{nonIdle: nonIdle, total: nonIdle + idle}
}

// usageFraction computes (non-idle Δ)/(total Δ) clamped to [0,1]. A
// non-positive total delta (no procfs update between ticks, or a core
// that just appeared) reports 0.0 rather than dividing by zero, same as
// the first tick.
func usageFraction(prev, cur cpuJiffies) float64 {
	totalDelta := cur.total - prev.total
	if totalDelta <= 0 {
		return 0
	}
	nonIdleDelta := cur.nonIdle - prev.nonIdle
	frac := nonIdleDelta / totalDelta
	if frac < 0 {
		return 0
	}
	if frac > 1 {
		return 1
	}
	return frac
}

// packageID reads the physical package id for a core from
// topology/physical_package_id, defaulting to 0 when absent (single-socket
// systems, or kernels that don't expose topology for this core).
func packageID(sysRoot string, cpu int) int {
	path := filepath.Join(sysRoot, "devices/system/cpu", "cpu"+strconv.Itoa(cpu), "topology/physical_package_id")
	v, err := sysfs.ReadInt64(path)
	if err != nil {
		return 0
	}
	return int(v)
}
