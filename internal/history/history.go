// Package history keeps a rolling window of system samples and derives the
// volatility, idle-duration, discharge-rate, and user-activity signals the
// expression evaluator and adaptive daemon loop read back out of it.
package history

import (
	"math"
	"time"
)

// Sample is one tick's worth of history-relevant observation, taken from a
// SystemReport. It deliberately carries only what the derived signals
// need — everything else in a SystemReport is read fresh from the
// Environment each tick, not replayed from history.
type Sample struct {
	Timestamp        time.Time
	CPUUsage         float64 // fraction, 0..1
	MaxCoreTempC     float64
	TempValid        bool // false when no thermal zone was readable
	BatteryCharge    float64
	BatteryValid     bool    // false when there are no batteries
	BatteryDrawW     float64 // signed sum of battery current draw, watts; negative while discharging
	OnAC             bool
	UserActivitySeen bool // externally signalled input-device activity since the previous tick
}

// Default window bounds: 5 minutes / 300 samples.
const (
	DefaultMaxSamples = 300
	DefaultMaxAge     = 5 * time.Minute

	// DefaultActivityThreshold is the usage fraction above which a tick
	// counts as "active" for the purposes of CPUIdleSeconds.
	DefaultActivityThreshold = 0.1

	// jumpActivityDelta is how large a single-tick usage jump has to be
	// to count as a coarse user-activity signal on its own, absent an
	// input-device event.
	jumpActivityDelta = 0.35

	// minDischargeWindow is the minimum span of history required before
	// PowerSupplyDischargeRate is considered defined.
	minDischargeWindow = 30 * time.Second
)

// History is a bounded, append-only-per-tick ring of Samples. It is never
// persisted and is rebuilt from nothing each time the daemon starts.
type History struct {
	maxSamples int
	maxAge     time.Duration
	samples    []Sample

	activityThreshold float64
}

// New creates a History bounded by both maxSamples and maxAge. A zero
// maxSamples or maxAge falls back to the package defaults.
func New(maxSamples int, maxAge time.Duration) *History {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &History{
		maxSamples:        maxSamples,
		maxAge:            maxAge,
		activityThreshold: DefaultActivityThreshold,
	}
}

// Append records a new sample, trimming the window by both count and age.
func (h *History) Append(s Sample) {
	h.samples = append(h.samples, s)
	h.trim(s.Timestamp)
}

func (h *History) trim(now time.Time) {
	cutoff := now.Add(-h.maxAge)
	start := 0
	for start < len(h.samples) && h.samples[start].Timestamp.Before(cutoff) {
		start++
	}
	h.samples = h.samples[start:]

	if len(h.samples) > h.maxSamples {
		h.samples = h.samples[len(h.samples)-h.maxSamples:]
	}
}

// Samples returns the current window, oldest first. The returned slice
// must not be mutated by the caller.
func (h *History) Samples() []Sample {
	return h.samples
}

// Len returns the number of samples currently retained.
func (h *History) Len() int {
	return len(h.samples)
}

// Span returns the time between the oldest and newest retained sample.
func (h *History) Span() time.Duration {
	if len(h.samples) < 2 {
		return 0
	}
	return h.samples[len(h.samples)-1].Timestamp.Sub(h.samples[0].Timestamp)
}

// Last returns the most recently appended sample, if any.
func (h *History) Last() (Sample, bool) {
	if len(h.samples) == 0 {
		return Sample{}, false
	}
	return h.samples[len(h.samples)-1], true
}

// CPUUsageSince returns the mean CPU usage over the trailing window of
// duration d. It is Unavailable (ok=false) when the retained history
// spans less than d.
func (h *History) CPUUsageSince(d time.Duration) (mean float64, ok bool) {
	if len(h.samples) == 0 {
		return 0, false
	}
	newest := h.samples[len(h.samples)-1].Timestamp
	oldest := h.samples[0].Timestamp
	if newest.Sub(oldest) < d {
		return 0, false
	}

	cutoff := newest.Add(-d)
	var sum float64
	var n int
	for _, s := range h.samples {
		if s.Timestamp.Before(cutoff) {
			continue
		}
		sum += s.CPUUsage
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// CPUIdleSeconds returns seconds elapsed since the last sample whose
// CPUUsage was at or above the activity threshold. When no retained
// sample is active, it reports the time since the oldest retained sample.
// Unavailable (ok=false) only when the window is empty.
func (h *History) CPUIdleSeconds() (float64, bool) {
	if len(h.samples) == 0 {
		return 0, false
	}
	now := h.samples[len(h.samples)-1].Timestamp
	for i := len(h.samples) - 1; i >= 0; i-- {
		if h.samples[i].CPUUsage >= h.activityThreshold {
			return now.Sub(h.samples[i].Timestamp).Seconds(), true
		}
	}
	// No active sample anywhere in the window: idle for at least the
	// whole retained span — report idle since the oldest retained
	// sample rather than claiming infinite idle.
	return now.Sub(h.samples[0].Timestamp).Seconds(), true
}

// CPUUsageVolatility returns the sample standard deviation of CPU usage
// over the retained window. Unavailable with fewer than 2 samples.
func (h *History) CPUUsageVolatility() (float64, bool) {
	values := make([]float64, len(h.samples))
	for i, s := range h.samples {
		values[i] = s.CPUUsage
	}
	return sampleStdDev(values)
}

// CPUTemperatureVolatility returns the sample standard deviation of max
// core temperature over the retained window, ignoring ticks where no
// thermal zone was readable. Unavailable with fewer than 2 valid samples.
func (h *History) CPUTemperatureVolatility() (float64, bool) {
	var values []float64
	for _, s := range h.samples {
		if s.TempValid {
			values = append(values, s.MaxCoreTempC)
		}
	}
	return sampleStdDev(values)
}

// PowerSupplyDischargeRate returns the magnitude, in watts, of the
// instantaneous battery draw fitted by least-squares regression over the
// retained window. SystemReport's batteries already carry a signed
// current draw in watts per tick, so the regression runs directly on that
// column rather than differentiating charge fraction, which would need an
// unmodeled battery energy capacity to convert fraction-per-second into
// watts. Unavailable (ok=false) until the window spans at least
// minDischargeWindow, or while any retained sample has no battery.
func (h *History) PowerSupplyDischargeRate() (float64, bool) {
	if len(h.samples) == 0 {
		return 0, false
	}
	if h.Span() < minDischargeWindow {
		return 0, false
	}
	for _, s := range h.samples {
		if !s.BatteryValid {
			return 0, false
		}
	}

	t0 := h.samples[0].Timestamp
	xs := make([]float64, len(h.samples))
	ys := make([]float64, len(h.samples))
	for i, s := range h.samples {
		xs[i] = s.Timestamp.Sub(t0).Seconds()
		ys[i] = s.BatteryDrawW
	}
	fitted, ok := leastSquaresFitAt(xs, ys, xs[len(xs)-1])
	if !ok {
		return 0, false
	}
	// SystemReport's draw convention is negative-while-discharging; the
	// discharge rate variable compares against positive watt thresholds,
	// so report a magnitude.
	if fitted < 0 {
		fitted = -fitted
	}
	return fitted, true
}

// UserActivitySignal reports whether the most recent tick saw externally
// signalled input-device activity, or a CPU usage jump large enough to
// count as user activity on its own.
func (h *History) UserActivitySignal() bool {
	if len(h.samples) == 0 {
		return false
	}
	last := h.samples[len(h.samples)-1]
	if last.UserActivitySeen {
		return true
	}
	if len(h.samples) < 2 {
		return false
	}
	prev := h.samples[len(h.samples)-2]
	delta := last.CPUUsage - prev.CPUUsage
	if delta < 0 {
		delta = -delta
	}
	return delta >= jumpActivityDelta
}

func sampleStdDev(values []float64) (float64, bool) {
	n := len(values)
	if n < 2 {
		return 0, false
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	variance := ss / float64(n-1)
	return math.Sqrt(variance), true
}

// leastSquaresFitAt fits y = a + b*x over (xs, ys) and evaluates it at x.
// Requires at least two distinct x values. Evaluating at the newest sample's
// x rather than returning the raw slope b gives a noise-smoothed current
// reading instead of a rate-of-change-of-draw, which is the quantity rule
// thresholds are written against.
func leastSquaresFitAt(xs, ys []float64, x float64) (float64, bool) {
	n := len(xs)
	if n < 2 {
		return 0, false
	}
	var sumX, sumY, sumXY, sumXX float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}
	denom := float64(n)*sumXX - sumX*sumX
	if denom == 0 {
		return 0, false
	}
	b := (float64(n)*sumXY - sumX*sumY) / denom
	a := (sumY - b*sumX) / float64(n)
	return a + b*x, true
}
