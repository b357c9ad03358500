// Package env implements the read-only facade the evaluator calls into:
// it resolves each DSL variable against a report.SystemReport and a
// history.History, producing a concrete expr.Value or a typed
// unavailable result. It is rebuilt every tick and never mutated during
// evaluation.
package env

import (
	"time"

	"github.com/wattpower/watt/internal/expr"
	"github.com/wattpower/watt/internal/history"
	"github.com/wattpower/watt/internal/report"
)

// Environment implements expr.Env over one tick's SystemReport and the
// accumulated History. It is immutable once built — New must be called
// fresh each tick.
type Environment struct {
	report *report.SystemReport
	hist   *history.History
}

var _ expr.Env = (*Environment)(nil)

// New builds an Environment for the given tick.
func New(r *report.SystemReport, hist *history.History) *Environment {
	return &Environment{report: r, hist: hist}
}

// Var resolves a $/%/? system variable.
func (e *Environment) Var(kind expr.VarKind, name string) expr.Value {
	switch kind {
	case expr.VarMetric:
		return e.metric(name)
	case expr.VarRatio:
		return e.ratio(name)
	case expr.VarPredicate:
		return e.predicateVar(name)
	default:
		return expr.Unavailable
	}
}

func (e *Environment) metric(name string) expr.Value {
	switch name {
	case "cpu-temperature":
		if t, ok := e.report.MaxThermalZoneTempC(); ok {
			return expr.Number(t)
		}
		return expr.Unavailable
	case "cpu-idle-seconds":
		if v, ok := e.hist.CPUIdleSeconds(); ok {
			return expr.Number(v)
		}
		return expr.Unavailable
	case "cpu-usage-volatility":
		if v, ok := e.hist.CPUUsageVolatility(); ok {
			return expr.Number(v)
		}
		return expr.Unavailable
	case "cpu-temperature-volatility":
		if v, ok := e.hist.CPUTemperatureVolatility(); ok {
			return expr.Number(v)
		}
		return expr.Unavailable
	case "cpu-frequency-maximum":
		return e.coreFreqAgg(func(c report.Core) int64 { return c.HardwareMaxKHz }, maxInt64)
	case "cpu-frequency-minimum":
		return e.coreFreqAgg(func(c report.Core) int64 { return c.HardwareMinKHz }, minInt64)
	case "cpu-scaling-maximum":
		return e.coreFreqAgg(func(c report.Core) int64 { return c.ScalingMaxKHz }, maxInt64)
	case "load-average-1m":
		return expr.Number(e.report.LoadAverage1)
	case "load-average-5m":
		return expr.Number(e.report.LoadAverage5)
	case "load-average-15m":
		return expr.Number(e.report.LoadAverage15)
	default:
		return expr.Unavailable
	}
}

func (e *Environment) ratio(name string) expr.Value {
	switch name {
	case "power-supply-charge":
		if v, ok := e.report.MeanBatteryCharge(); ok {
			return expr.Number(v)
		}
		return expr.Unavailable
	case "power-supply-discharge-rate":
		if e.hist == nil {
			return expr.Unavailable
		}
		if v, ok := e.hist.PowerSupplyDischargeRate(); ok {
			return expr.Number(v)
		}
		return expr.Unavailable
	default:
		return expr.Unavailable
	}
}

func (e *Environment) predicateVar(name string) expr.Value {
	switch name {
	case "discharging":
		for _, b := range e.report.Batteries {
			if b.DrawW < 0 && !e.report.OnAC {
				return expr.Bool(true)
			}
		}
		return expr.Bool(false)
	case "frequency-available":
		return expr.Bool(e.report.Capabilities.FrequencyAvailable)
	case "turbo-available":
		return expr.Bool(e.report.Capabilities.TurboAvailable)
	default:
		return expr.Unavailable
	}
}

// CPUUsageSince implements expr.Env.
func (e *Environment) CPUUsageSince(d time.Duration) expr.Value {
	if e.hist == nil {
		return expr.Unavailable
	}
	if v, ok := e.hist.CPUUsageSince(d); ok {
		return expr.Number(v)
	}
	return expr.Unavailable
}

// Predicate implements expr.Env: a predicate resolves to Bool(true) iff
// the named value is in the corresponding capability set.
func (e *Environment) Predicate(kind expr.PredicateKind, arg string) expr.Value {
	caps := e.report.Capabilities
	switch kind {
	case expr.PredicateGovernor:
		return expr.Bool(caps.HasGovernor(arg))
	case expr.PredicateEPP:
		return expr.Bool(caps.HasEPP(arg))
	case expr.PredicateEPB:
		return expr.Bool(caps.HasEPB(arg))
	case expr.PredicatePlatformProfile:
		return expr.Bool(caps.HasPlatformProfile(arg))
	case expr.PredicateDriverLoaded:
		return expr.Bool(driverLoaded(e.report, arg))
	default:
		return expr.Unavailable
	}
}

// driverLoaded reports FrequencyAvailable for the cpufreq driver names
// intel_pstate, amd_pstate and acpi-cpufreq, and false for any other
// name. SystemReport doesn't carry a driver-name field, so it does not
// tell those three drivers apart.
func driverLoaded(r *report.SystemReport, name string) bool {
	switch name {
	case "intel_pstate", "amd_pstate", "acpi-cpufreq":
		return r.Capabilities.FrequencyAvailable
	default:
		return false
	}
}

func (e *Environment) coreFreqAgg(field func(report.Core) int64, reduce func(int64, int64) int64) expr.Value {
	if len(e.report.Cores) == 0 {
		return expr.Unavailable
	}
	result := field(e.report.Cores[0])
	for _, c := range e.report.Cores[1:] {
		result = reduce(result, field(c))
	}
	// Frequency variables are in MHz; sysfs reports kHz.
	return expr.Number(float64(result) / 1000.0)
}

func maxInt64(a, b int64) int64 {
	if b > a {
		return b
	}
	return a
}

func minInt64(a, b int64) int64 {
	if b < a {
		return b
	}
	return a
}
