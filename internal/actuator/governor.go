package actuator

import (
	"github.com/wattpower/watt/internal/report"
	"github.com/wattpower/watt/internal/sysfs"
)

// Governor writes scaling_governor for one or more cores.
type Governor struct {
	FS     *sysfs.FS
	Writer *sysfs.Writer
}

// Apply writes value to every core in cores. The write is rejected as
// Unsupported, without touching sysfs, when value isn't in the platform's
// available-governors set.
func (g Governor) Apply(caps report.Capabilities, cores []int, value string) []Result {
	if !caps.HasGovernor(value) {
		return unsupportedForCores("governor", cores, errNotInCapabilitySet)
	}
	out := make([]Result, 0, len(cores))
	for _, id := range cores {
		err := g.Writer.WriteString(g.FS.CPUAttr(id, "scaling_governor"), value)
		out = append(out, classify("governor", coreTarget(id), err))
	}
	return out
}

func unsupportedForCores(setting string, cores []int, err error) []Result {
	out := make([]Result, 0, len(cores))
	for _, id := range cores {
		out = append(out, unsupported(setting, coreTarget(id), err))
	}
	return out
}
