package rule

import (
	"github.com/wattpower/watt/internal/report"
)

// StepKind names one actuator call in a Plan's apply sequence.
type StepKind int

const (
	StepMinFreq StepKind = iota
	StepMaxFreq
	StepGovernor
	StepEPP
	StepEPB
	StepTurbo
	StepPlatformProfile
	StepChargeStart
	StepChargeEnd
)

func (k StepKind) String() string {
	switch k {
	case StepMinFreq:
		return "min-frequency"
	case StepMaxFreq:
		return "max-frequency"
	case StepGovernor:
		return "governor"
	case StepEPP:
		return "epp"
	case StepEPB:
		return "epb"
	case StepTurbo:
		return "turbo"
	case StepPlatformProfile:
		return "platform-profile"
	case StepChargeStart:
		return "charge-start-threshold"
	case StepChargeEnd:
		return "charge-end-threshold"
	default:
		return "unknown"
	}
}

// Step is one concrete actuator call: a kind, its resolved targets, and the
// value to write.
type Step struct {
	Kind StepKind

	CoreTargets  []int
	PowerTargets []string

	StringValue string
	NumberValue float64
	BoolValue   bool
}

// OrderedSteps expands a Plan into the sequence of actuator calls the
// daemon must issue:
//   - min/max-frequency are applied before governor (a governor switch can
//     reject an out-of-range frequency the old governor still had set).
//   - turbo is applied after governor (some drivers only accept a turbo
//     write once the target governor is active).
//   - charge-threshold writes are ordered so the kernel never observes
//     start > end, even transiently.
func OrderedSteps(p Plan, rpt *report.SystemReport) []Step {
	var steps []Step

	coreTargets := p.CPU.For.Resolve(rpt)
	if p.CPU.MinFreqMHz != nil {
		steps = append(steps, Step{Kind: StepMinFreq, CoreTargets: coreTargets, NumberValue: *p.CPU.MinFreqMHz})
	}
	if p.CPU.MaxFreqMHz != nil {
		steps = append(steps, Step{Kind: StepMaxFreq, CoreTargets: coreTargets, NumberValue: *p.CPU.MaxFreqMHz})
	}
	if p.CPU.Governor != nil {
		steps = append(steps, Step{Kind: StepGovernor, CoreTargets: coreTargets, StringValue: *p.CPU.Governor})
	}
	if p.CPU.EPP != nil {
		steps = append(steps, Step{Kind: StepEPP, CoreTargets: coreTargets, StringValue: *p.CPU.EPP})
	}
	if p.CPU.EPB != nil {
		steps = append(steps, Step{Kind: StepEPB, CoreTargets: coreTargets, StringValue: *p.CPU.EPB})
	}
	if p.CPU.Turbo != nil {
		steps = append(steps, Step{Kind: StepTurbo, CoreTargets: coreTargets, BoolValue: *p.CPU.Turbo})
	}

	powerTargets := p.Power.For.Resolve(rpt)
	if p.Power.PlatformProfile != nil {
		steps = append(steps, Step{Kind: StepPlatformProfile, PowerTargets: powerTargets, StringValue: *p.Power.PlatformProfile})
	}
	steps = append(steps, chargeThresholdSteps(p, rpt, powerTargets)...)

	return steps
}

// chargeThresholdSteps orders the start/end threshold writes per target,
// comparing the planned fractions against each battery's currently-read
// thresholds so a transient start > end is never written to sysfs.
func chargeThresholdSteps(p Plan, rpt *report.SystemReport, targets []string) []Step {
	if p.Power.ChargeStartFraction == nil && p.Power.ChargeEndFraction == nil {
		return nil
	}
	var steps []Step
	for _, name := range targets {
		bat, ok := findBattery(rpt, name)
		if !ok {
			continue
		}
		oldStart := float64(bat.ChargeStartThreshold) / 100.0
		oldEnd := float64(bat.ChargeEndThreshold) / 100.0
		newStart, newEnd := oldStart, oldEnd
		if p.Power.ChargeStartFraction != nil {
			newStart = *p.Power.ChargeStartFraction
		}
		if p.Power.ChargeEndFraction != nil {
			newEnd = *p.Power.ChargeEndFraction
		}

		startStep := Step{Kind: StepChargeStart, PowerTargets: []string{name}, NumberValue: newStart}
		endStep := Step{Kind: StepChargeEnd, PowerTargets: []string{name}, NumberValue: newEnd}

		incStart := newStart > oldStart
		incEnd := newEnd > oldEnd
		var ordered []Step
		switch {
		case incStart && incEnd:
			// both increase: start before end.
			ordered = []Step{startStep, endStep}
		case !incStart && !incEnd:
			// both decrease (or hold): end before start.
			ordered = []Step{endStep, startStep}
		default:
			// signs differ: write whichever order never puts start above
			// the other value's pre-write state.
			if newStart <= oldEnd && oldStart <= newEnd {
				ordered = []Step{startStep, endStep}
			} else {
				ordered = []Step{endStep, startStep}
			}
		}

		if p.Power.ChargeStartFraction == nil {
			ordered = []Step{endStep}
		} else if p.Power.ChargeEndFraction == nil {
			ordered = []Step{startStep}
		}
		steps = append(steps, ordered...)
	}
	return steps
}

func findBattery(rpt *report.SystemReport, name string) (report.Battery, bool) {
	for _, b := range rpt.Batteries {
		if b.Name == name {
			return b, true
		}
	}
	return report.Battery{}, false
}
