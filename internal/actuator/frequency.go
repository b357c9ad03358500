package actuator

import (
	"github.com/wattpower/watt/internal/sysfs"
)

// Frequency writes scaling_min_freq/scaling_max_freq, converting the DSL's
// MHz values to the kHz the kernel expects. Each call
// reads the paired bound before writing so the kernel is never asked to
// set min above the currently-live max or max below the currently-live
// min — if the requested write would invert the pair, the other bound is
// extended to match first.
type Frequency struct {
	FS     *sysfs.FS
	Writer *sysfs.Writer
}

func mhzToKHz(mhz float64) int64 {
	return int64(mhz * 1000.0)
}

// SetMinMHz writes the minimum scaling frequency for every core in cores.
func (f Frequency) SetMinMHz(cores []int, mhz float64) []Result {
	newMinKHz := mhzToKHz(mhz)
	out := make([]Result, 0, len(cores))
	for _, id := range cores {
		maxPath := f.FS.CPUAttr(id, "scaling_max_freq")
		minPath := f.FS.CPUAttr(id, "scaling_min_freq")

		if curMax, err := sysfs.ReadInt64(maxPath); err == nil && newMinKHz > curMax {
			if werr := f.Writer.WriteInt64(maxPath, newMinKHz); werr != nil {
				out = append(out, classify("max-frequency", coreTarget(id), werr))
				continue
			}
			out = append(out, classify("max-frequency", coreTarget(id), nil))
		}
		werr := f.Writer.WriteInt64(minPath, newMinKHz)
		out = append(out, classify("min-frequency", coreTarget(id), werr))
	}
	return out
}

// SetMaxMHz writes the maximum scaling frequency for every core in cores.
func (f Frequency) SetMaxMHz(cores []int, mhz float64) []Result {
	newMaxKHz := mhzToKHz(mhz)
	out := make([]Result, 0, len(cores))
	for _, id := range cores {
		minPath := f.FS.CPUAttr(id, "scaling_min_freq")
		maxPath := f.FS.CPUAttr(id, "scaling_max_freq")

		if curMin, err := sysfs.ReadInt64(minPath); err == nil && newMaxKHz < curMin {
			if werr := f.Writer.WriteInt64(minPath, newMaxKHz); werr != nil {
				out = append(out, classify("min-frequency", coreTarget(id), werr))
				continue
			}
			out = append(out, classify("min-frequency", coreTarget(id), nil))
		}
		werr := f.Writer.WriteInt64(maxPath, newMaxKHz)
		out = append(out, classify("max-frequency", coreTarget(id), werr))
	}
	return out
}
