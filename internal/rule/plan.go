package rule

import (
	"github.com/wattpower/watt/internal/expr"
)

// CPUPlan is the merged, conditional-resolved cpu.* action set for one tick.
// Nil fields mean "leave this setting untouched."
type CPUPlan struct {
	For        CoreSelector
	Governor   *string
	EPP        *string
	EPB        *string
	MinFreqMHz *float64
	MaxFreqMHz *float64
	Turbo      *bool
}

// PowerPlan is the merged, conditional-resolved power.* action set.
type PowerPlan struct {
	For                 PowerSelector
	PlatformProfile     *string
	ChargeStartFraction *float64
	ChargeEndFraction   *float64
}

// Plan is the final, ready-to-apply output of Evaluate.
type Plan struct {
	CPU   CPUPlan
	Power PowerPlan
}

// resolvePlan drops every Conditional field whose guard isn't exactly
// true and returns the concrete values that remain.
func resolvePlan(acc Actions, e expr.Env) Plan {
	var p Plan
	p.CPU.For = acc.CPU.For
	p.Power.For = acc.Power.For

	if v, ok := acc.CPU.Governor.resolve(e); ok {
		p.CPU.Governor = &v
	}
	if v, ok := acc.CPU.EPP.resolve(e); ok {
		p.CPU.EPP = &v
	}
	if v, ok := acc.CPU.EPB.resolve(e); ok {
		p.CPU.EPB = &v
	}
	if v, ok := acc.CPU.MinFreqMHz.resolve(e); ok {
		p.CPU.MinFreqMHz = &v
	}
	if v, ok := acc.CPU.MaxFreqMHz.resolve(e); ok {
		p.CPU.MaxFreqMHz = &v
	}
	if v, ok := acc.CPU.Turbo.resolve(e); ok {
		p.CPU.Turbo = &v
	}

	if v, ok := acc.Power.PlatformProfile.resolve(e); ok {
		p.Power.PlatformProfile = &v
	}
	if v, ok := acc.Power.ChargeStartFraction.resolve(e); ok {
		p.Power.ChargeStartFraction = &v
	}
	if v, ok := acc.Power.ChargeEndFraction.resolve(e); ok {
		p.Power.ChargeEndFraction = &v
	}
	return p
}
