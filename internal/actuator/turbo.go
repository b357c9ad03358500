package actuator

import (
	"github.com/wattpower/watt/internal/report"
	"github.com/wattpower/watt/internal/sysfs"
)

// Turbo writes intel_pstate's no_turbo (inverted) when present, else the
// generic cpufreq boost knob. It is a single
// machine-wide setting, not per-core, so Apply ignores the cpu.for
// selector entirely.
type Turbo struct {
	FS     *sysfs.FS
	Writer *sysfs.Writer
}

// Apply enables or disables turbo. enabled=true means opportunistic
// over-nominal frequency is allowed.
func (t Turbo) Apply(caps report.Capabilities, enabled bool) Result {
	if !caps.TurboAvailable {
		return unsupported("turbo", "all", errNotInCapabilitySet)
	}
	if sysfs.Exists(t.FS.IntelPstateNoTurboPath()) {
		// no_turbo is inverted: 1 disables turbo, 0 allows it.
		var v int64 = 1
		if enabled {
			v = 0
		}
		err := t.Writer.WriteInt64(t.FS.IntelPstateNoTurboPath(), v)
		return classify("turbo", "all", err)
	}
	var v int64 = 0
	if enabled {
		v = 1
	}
	err := t.Writer.WriteInt64(t.FS.CpufreqBoostPath(), v)
	return classify("turbo", "all", err)
}
