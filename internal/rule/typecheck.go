package rule

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/wattpower/watt/internal/expr"
)

// Typecheck validates one Rule's When clause and every Conditional field's
// guard expression: a load-time type error is a configuration error, not
// a runtime fallthrough. A nil When is the implicit ConstBool(true)
// default and always passes.
func Typecheck(r Rule) error {
	var errs *multierror.Error

	if r.When != nil {
		if err := expr.TypecheckBool(r.When); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("rule priority=%d: when: %w", r.Priority, err))
		}
	}

	checkField := func(name string, cond *expr.Expr) {
		if cond == nil {
			return
		}
		if err := expr.TypecheckBool(cond); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("rule priority=%d: %s condition: %w", r.Priority, name, err))
		}
	}

	checkField("cpu.governor", r.Actions.CPU.Governor.cond)
	checkField("cpu.epp", r.Actions.CPU.EPP.cond)
	checkField("cpu.epb", r.Actions.CPU.EPB.cond)
	checkField("cpu.frequency-mhz-minimum", r.Actions.CPU.MinFreqMHz.cond)
	checkField("cpu.frequency-mhz-maximum", r.Actions.CPU.MaxFreqMHz.cond)
	checkField("cpu.turbo", r.Actions.CPU.Turbo.cond)
	checkField("power.platform-profile", r.Actions.Power.PlatformProfile.cond)
	checkField("power.charge-start-fraction", r.Actions.Power.ChargeStartFraction.cond)
	checkField("power.charge-end-fraction", r.Actions.Power.ChargeEndFraction.cond)

	return errs.ErrorOrNil()
}
