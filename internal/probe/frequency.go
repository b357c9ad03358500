package probe

import (
	"github.com/wattpower/watt/internal/report"
	"github.com/wattpower/watt/internal/sysfs"
)

// readCoreStatic fills in the cpufreq-derived fields of a Core that don't
// depend on jiffy deltas: frequency, governor, EPP/EPB, scaling/hardware
// bounds. Missing attributes (no cpufreq directory at all, or an
// unsupported knob like EPB on a non-Intel platform) are left at their
// zero value rather than failing the whole probe — an individual missing
// attribute is Unsupported/NotPresent, not fatal.
func readCoreStatic(fs *sysfs.FS, id int) report.Core {
	c := report.Core{ID: id, PackageID: packageID(fs.Root, id)}

	if v, err := sysfs.ReadInt64(fs.CPUAttr(id, "scaling_cur_freq")); err == nil {
		c.FrequencyKHz = v
	}
	if v, err := sysfs.ReadString(fs.CPUAttr(id, "scaling_governor")); err == nil {
		c.Governor = v
	}
	if v, err := sysfs.ReadString(fs.CPUAttr(id, "energy_performance_preference")); err == nil {
		c.EPP = v
	}
	if v, err := sysfs.ReadString(fs.CPUAttr(id, "energy_perf_bias")); err == nil {
		c.EPB = v
	}
	if v, err := sysfs.ReadInt64(fs.CPUAttr(id, "scaling_min_freq")); err == nil {
		c.ScalingMinKHz = v
	}
	if v, err := sysfs.ReadInt64(fs.CPUAttr(id, "scaling_max_freq")); err == nil {
		c.ScalingMaxKHz = v
	}
	if v, err := sysfs.ReadInt64(fs.CPUAttr(id, "cpuinfo_min_freq")); err == nil {
		c.HardwareMinKHz = v
	}
	if v, err := sysfs.ReadInt64(fs.CPUAttr(id, "cpuinfo_max_freq")); err == nil {
		c.HardwareMaxKHz = v
	}
	return c
}
