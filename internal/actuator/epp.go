package actuator

import (
	"github.com/wattpower/watt/internal/report"
	"github.com/wattpower/watt/internal/sysfs"
)

// EPP writes energy_performance_preference for one or more cores.
type EPP struct {
	FS     *sysfs.FS
	Writer *sysfs.Writer
}

// Apply writes value to every core in cores, rejected as Unsupported when
// value isn't one of the platform's available EPP preferences.
func (e EPP) Apply(caps report.Capabilities, cores []int, value string) []Result {
	if !caps.HasEPP(value) {
		return unsupportedForCores("epp", cores, errNotInCapabilitySet)
	}
	out := make([]Result, 0, len(cores))
	for _, id := range cores {
		err := e.Writer.WriteString(e.FS.CPUAttr(id, "energy_performance_preference"), value)
		out = append(out, classify("epp", coreTarget(id), err))
	}
	return out
}
