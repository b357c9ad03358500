package sysfs

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// FS roots the sysfs tree. Production code points Root at "/sys"; tests
// point it at a fixture tree under testdata/sys.
type FS struct {
	Root string
}

// NewFS creates an FS rooted at root.
func NewFS(root string) *FS {
	return &FS{Root: root}
}

var cpuDirRe = regexp.MustCompile(`^cpu(\d+)$`)

// CPUIDs enumerates the CPU core ids of every devices/system/cpu/cpuN
// directory, sorted ascending. It does not check whether a core is online.
func (fs *FS) CPUIDs() ([]int, error) {
	entries, err := os.ReadDir(filepath.Join(fs.Root, "devices/system/cpu"))
	if err != nil {
		return nil, err
	}
	var ids []int
	for _, e := range entries {
		m := cpuDirRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		// cpufreq only exists for cores the kernel can actually scale;
		// cpu0 on some platforms lacks it entirely but is still online.
		id, _ := strconv.Atoi(m[1])
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

// CPUFreqPath returns the cpufreq directory for a given core.
func (fs *FS) CPUFreqPath(cpu int) string {
	return filepath.Join(fs.Root, "devices/system/cpu", "cpu"+strconv.Itoa(cpu), "cpufreq")
}

// CPUAttr returns the path to a named attribute under a core's cpufreq
// directory (e.g. "scaling_governor", "scaling_min_freq").
func (fs *FS) CPUAttr(cpu int, attr string) string {
	return filepath.Join(fs.CPUFreqPath(cpu), attr)
}

// PowerSupplyNames enumerates entries under class/power_supply.
func (fs *FS) PowerSupplyNames() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(fs.Root, "class/power_supply"))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// PowerSupplyAttr returns the path to a named attribute of a power supply.
func (fs *FS) PowerSupplyAttr(name, attr string) string {
	return filepath.Join(fs.Root, "class/power_supply", name, attr)
}

var thermalZoneRe = regexp.MustCompile(`^thermal_zone(\d+)$`)

// ThermalZones enumerates thermal zone ids under class/thermal.
func (fs *FS) ThermalZones() ([]int, error) {
	entries, err := os.ReadDir(filepath.Join(fs.Root, "class/thermal"))
	if err != nil {
		return nil, err
	}
	var ids []int
	for _, e := range entries {
		m := thermalZoneRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		id, _ := strconv.Atoi(m[1])
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

// ThermalZoneAttr returns the path to a named attribute of a thermal zone.
func (fs *FS) ThermalZoneAttr(zone int, attr string) string {
	return filepath.Join(fs.Root, "class/thermal", "thermal_zone"+strconv.Itoa(zone), attr)
}

// PlatformProfilePath returns the ACPI platform_profile attribute path.
func (fs *FS) PlatformProfilePath() string {
	return filepath.Join(fs.Root, "firmware/acpi/platform_profile")
}

// PlatformProfileChoicesPath returns the ACPI platform_profile_choices path.
func (fs *FS) PlatformProfileChoicesPath() string {
	return filepath.Join(fs.Root, "firmware/acpi/platform_profile_choices")
}

// IntelPstateNoTurboPath returns the intel_pstate no_turbo attribute path.
func (fs *FS) IntelPstateNoTurboPath() string {
	return filepath.Join(fs.Root, "devices/system/cpu/intel_pstate/no_turbo")
}

// CpufreqBoostPath returns the generic cpufreq boost attribute path.
func (fs *FS) CpufreqBoostPath() string {
	return filepath.Join(fs.Root, "devices/system/cpu/cpufreq/boost")
}
