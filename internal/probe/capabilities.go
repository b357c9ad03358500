package probe

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/wattpower/watt/internal/report"
	"github.com/wattpower/watt/internal/sysfs"
)

// readCapabilities scans the discoverable capability files. It always
// does a fresh scan; callers decide when to invoke it.
func readCapabilities(fs *sysfs.FS, cpuIDs []int) report.Capabilities {
	var caps report.Capabilities

	if len(cpuIDs) > 0 {
		first := cpuIDs[0]
		if v, err := sysfs.ReadList(fs.CPUAttr(first, "scaling_available_governors")); err == nil {
			caps.Governors = set.From(v)
		}
		if v, err := sysfs.ReadList(fs.CPUAttr(first, "energy_performance_available_preferences")); err == nil {
			caps.EPPValues = set.From(v)
		}
		// energy_perf_bias has no choices file; the symbolic table is
		// fixed by the kernel, so its presence is the whole capability.
		if sysfs.Exists(fs.CPUAttr(first, "energy_perf_bias")) {
			caps.EPBValues = set.From([]string{"performance", "balance-performance", "normal", "balance-power", "power"})
		}
	}

	caps.PlatformProfiles = set.From(readPlatformProfiles(fs))

	caps.FrequencyAvailable = len(cpuIDs) > 0 && sysfs.Exists(fs.CPUAttr(cpuIDs[0], "scaling_min_freq"))
	caps.TurboAvailable = sysfs.Exists(fs.IntelPstateNoTurboPath()) || sysfs.Exists(fs.CpufreqBoostPath())

	return caps
}

// readPlatformProfiles falls back when platform_profile_choices is
// missing but platform_profile itself is readable: the single active
// profile is reported as the sole available choice rather than treating
// platform-profile support as entirely absent, which would spuriously
// disable every platform-profile rule on firmware that doesn't publish
// a choice list.
func readPlatformProfiles(fs *sysfs.FS) []string {
	if choices, err := sysfs.ReadList(fs.PlatformProfileChoicesPath()); err == nil {
		return choices
	}
	if active, err := sysfs.ReadString(fs.PlatformProfilePath()); err == nil {
		return []string{active}
	}
	return nil
}
