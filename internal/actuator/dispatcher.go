package actuator

import (
	"github.com/wattpower/watt/internal/report"
	"github.com/wattpower/watt/internal/rule"
	"github.com/wattpower/watt/internal/sysfs"
)

// Dispatcher owns every actuator and turns one rule.Step into the sysfs
// calls it describes, in the order the rule engine already placed it.
// It is the daemon's only point of contact with this package.
type Dispatcher struct {
	Governor        Governor
	EPP             EPP
	EPB             EPB
	Frequency       Frequency
	Turbo           Turbo
	PlatformProfile PlatformProfile
	ChargeThreshold ChargeThreshold
}

// NewDispatcher builds a Dispatcher whose actuators all write through w and
// read/enumerate through fs.
func NewDispatcher(fs *sysfs.FS, w *sysfs.Writer) *Dispatcher {
	return &Dispatcher{
		Governor:        Governor{FS: fs, Writer: w},
		EPP:             EPP{FS: fs, Writer: w},
		EPB:             EPB{FS: fs, Writer: w},
		Frequency:       Frequency{FS: fs, Writer: w},
		Turbo:           Turbo{FS: fs, Writer: w},
		PlatformProfile: PlatformProfile{FS: fs, Writer: w},
		ChargeThreshold: ChargeThreshold{FS: fs, Writer: w},
	}
}

// Apply dispatches one Step against rpt's current state, returning one
// Result per target the step touches.
func (d *Dispatcher) Apply(step rule.Step, rpt *report.SystemReport) []Result {
	switch step.Kind {
	case rule.StepMinFreq:
		return d.Frequency.SetMinMHz(step.CoreTargets, step.NumberValue)
	case rule.StepMaxFreq:
		return d.Frequency.SetMaxMHz(step.CoreTargets, step.NumberValue)
	case rule.StepGovernor:
		return d.Governor.Apply(rpt.Capabilities, step.CoreTargets, step.StringValue)
	case rule.StepEPP:
		return d.EPP.Apply(rpt.Capabilities, step.CoreTargets, step.StringValue)
	case rule.StepEPB:
		return d.EPB.Apply(step.CoreTargets, step.StringValue)
	case rule.StepTurbo:
		return []Result{d.Turbo.Apply(rpt.Capabilities, step.BoolValue)}
	case rule.StepPlatformProfile:
		return []Result{d.PlatformProfile.Apply(rpt.Capabilities, step.StringValue)}
	case rule.StepChargeStart:
		return d.applyChargeStart(step, rpt)
	case rule.StepChargeEnd:
		return d.applyChargeEnd(step, rpt)
	default:
		return nil
	}
}

func (d *Dispatcher) applyChargeStart(step rule.Step, rpt *report.SystemReport) []Result {
	out := make([]Result, 0, len(step.PowerTargets))
	for _, name := range step.PowerTargets {
		b, ok := batteryByName(rpt, name)
		if !ok {
			continue
		}
		endFraction := float64(b.ChargeEndThreshold) / 100.0
		out = append(out, d.ChargeThreshold.SetStart(b, step.NumberValue, endFraction))
	}
	return out
}

func (d *Dispatcher) applyChargeEnd(step rule.Step, rpt *report.SystemReport) []Result {
	out := make([]Result, 0, len(step.PowerTargets))
	for _, name := range step.PowerTargets {
		b, ok := batteryByName(rpt, name)
		if !ok {
			continue
		}
		startFraction := float64(b.ChargeStartThreshold) / 100.0
		out = append(out, d.ChargeThreshold.SetEnd(b, startFraction, step.NumberValue))
	}
	return out
}

func batteryByName(rpt *report.SystemReport, name string) (report.Battery, bool) {
	for _, b := range rpt.Batteries {
		if b.Name == name {
			return b, true
		}
	}
	return report.Battery{}, false
}
