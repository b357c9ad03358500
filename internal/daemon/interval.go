package daemon

import (
	"math"
	"time"
)

// Adaptive polling interval constants.
const (
	DefaultBaseInterval = 5 * time.Second
	FloorInterval       = 1 * time.Second
	CeilingAC           = 30 * time.Second
	CeilingBattery      = 60 * time.Second

	emaPrevWeight = 0.7
	emaRawWeight  = 0.3

	dischargeRateCoefficient = 0.05
	dischargeFloor           = 1 * time.Second
	dischargeCeiling         = 10 * time.Second

	cpuVolatilityThreshold = 0.1

	thermalVolatilityThresholdC = 2.0
	thermalCap                  = 2 * time.Second

	idleProgressionThreshold = 60 * time.Second
)

// IntervalInputs is everything the adaptive interval formula reads from
// one tick's SystemHistory. An OK=false field means that signal had
// insufficient history and does not contribute a candidate this tick.
type IntervalInputs struct {
	OnAC bool

	CPUUsageMean float64

	CPUUsageVolatility   float64
	CPUUsageVolatilityOK bool

	CPUTemperatureVolatility   float64
	CPUTemperatureVolatilityOK bool

	CPUIdleSeconds   float64
	CPUIdleSecondsOK bool

	DischargeRateW  float64
	DischargeRateOK bool

	UserActivitySignal bool
}

// NextInterval computes the tick's sleep duration from the previous
// interval and this tick's history-derived signals. The raw
// candidate is the minimum across the contributors that argue for faster
// sampling (discharge, thermal volatility, user activity), applied on top
// of a base that idle progression alone may lift toward the ceiling. The
// result is EMA-smoothed against prev and clamped to [1s, ceiling], where
// ceiling is 30s on AC or 60s on battery.
func NextInterval(prev time.Duration, in IntervalInputs) time.Duration {
	ceiling := CeilingAC
	if !in.OnAC {
		ceiling = CeilingBattery
	}

	raw := rawCandidate(in, ceiling)

	nextSecs := emaPrevWeight*prev.Seconds() + emaRawWeight*raw.Seconds()
	next := durationFromSeconds(nextSecs)

	if next < FloorInterval {
		next = FloorInterval
	}
	if next > ceiling {
		next = ceiling
	}
	return next
}

func rawCandidate(in IntervalInputs, ceiling time.Duration) time.Duration {
	// Idle progression is the one contributor that argues for *slower*
	// sampling: once idle clears the threshold it lifts the CPU-activity
	// candidate toward the ceiling. Every other contributor argues for
	// faster sampling and folds in with min.
	base := cpuActivityCandidate(in)
	if in.CPUIdleSecondsOK && in.CPUIdleSeconds > idleProgressionThreshold.Seconds() {
		if c := idleCandidate(in.CPUIdleSeconds, ceiling); c > base {
			base = c
		}
	}
	candidates := []time.Duration{base}

	if in.DischargeRateOK {
		secs := DefaultBaseInterval.Seconds() * (1 - dischargeRateCoefficient*in.DischargeRateW)
		candidates = append(candidates, clampDuration(durationFromSeconds(secs), dischargeFloor, dischargeCeiling))
	}

	if in.CPUTemperatureVolatilityOK && in.CPUTemperatureVolatility > thermalVolatilityThresholdC {
		candidates = append(candidates, thermalCap)
	}

	if in.UserActivitySignal {
		candidates = append(candidates, DefaultBaseInterval)
	}

	return minDuration(candidates)
}

// cpuActivityCandidate: busier CPU samples faster; a volatile usage series
// halves the candidate on top of that.
func cpuActivityCandidate(in IntervalInputs) time.Duration {
	secs := DefaultBaseInterval.Seconds() * (1 - in.CPUUsageMean)
	if in.CPUUsageVolatilityOK && in.CPUUsageVolatility > cpuVolatilityThreshold {
		secs /= 2
	}
	if secs < 0 {
		secs = 0
	}
	return durationFromSeconds(secs)
}

// idleCandidate: once idle exceeds the 60s threshold, the candidate is
// allowed up to ceiling, doubling for every additional minute of idle.
func idleCandidate(idleSeconds float64, ceiling time.Duration) time.Duration {
	extraMinutes := (idleSeconds - idleProgressionThreshold.Seconds()) / 60.0
	mult := math.Pow(2, 1+extraMinutes)
	d := durationFromSeconds(DefaultBaseInterval.Seconds() * mult)
	if d > ceiling {
		d = ceiling
	}
	return d
}

func minDuration(ds []time.Duration) time.Duration {
	if len(ds) == 0 {
		return DefaultBaseInterval
	}
	m := ds[0]
	for _, d := range ds[1:] {
		if d < m {
			m = d
		}
	}
	return m
}

func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}

func durationFromSeconds(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}
