package actuator

import (
	"strconv"

	"github.com/wattpower/watt/internal/sysfs"
)

// epbOrdinals is the standard Linux energy_perf_bias symbolic-name
// table: the concrete ordinals the kernel documents for intel_pstate/MSR
// EPB.
var epbOrdinals = map[string]int{
	"performance":         0,
	"balance-performance": 4,
	"normal":              6,
	"balance-power":       8,
	"power":               15,
}

// EPB writes energy_perf_bias for one or more cores.
type EPB struct {
	FS     *sysfs.FS
	Writer *sysfs.Writer
}

// Apply accepts either a symbolic name from epbOrdinals or a raw integer
// string (0..15) and writes the resolved ordinal to every core in cores.
func (e EPB) Apply(cores []int, value string) []Result {
	ordinal, err := resolveEPB(value)
	if err != nil {
		return unsupportedForCores("epb", cores, err)
	}
	out := make([]Result, 0, len(cores))
	for _, id := range cores {
		werr := e.Writer.WriteInt64(e.FS.CPUAttr(id, "energy_perf_bias"), int64(ordinal))
		out = append(out, classify("epb", coreTarget(id), werr))
	}
	return out
}

func resolveEPB(value string) (int, error) {
	if ordinal, ok := epbOrdinals[value]; ok {
		return ordinal, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 || n > 15 {
		return 0, errNotInCapabilitySet
	}
	return n, nil
}
