package rule

import (
	"sort"

	"github.com/wattpower/watt/internal/expr"
)

// MatchResult records whether one rule matched this tick, for daemon-side
// logging.
type MatchResult struct {
	Rule    Rule
	Matched bool
}

// EvaluateMatches evaluates every rule's When against env and returns one
// MatchResult per rule, in the rules' original order.
func EvaluateMatches(rules []Rule, e expr.Env) []MatchResult {
	out := make([]MatchResult, len(rules))
	for i, r := range rules {
		out[i] = MatchResult{Rule: r, Matched: expr.Eval(r.when(), e).IsTrue()}
	}
	return out
}

// merge overlays the Actions of every matched rule in ascending priority
// order: a higher-priority rule's set field wins over a lower-priority
// rule's. Ties keep the stable input order, so the rule list's own order
// breaks a priority tie.
func merge(results []MatchResult) Actions {
	matched := make([]Rule, 0, len(results))
	for _, res := range results {
		if res.Matched {
			matched = append(matched, res.Rule)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Priority < matched[j].Priority
	})

	var acc Actions
	for _, r := range matched {
		overlayCPU(&acc.CPU, r.Actions.CPU)
		overlayPower(&acc.Power, r.Actions.Power)
	}
	return acc
}

// overlayCPU folds one matched rule's CPU actions into the running merge.
// For is tracked at the whole-group level rather than per field: when two
// rules at different priorities target different cores, the higher-priority
// rule's For wins for every field it touches, but a lower-priority field the
// higher rule leaves untouched still carries whichever For last applied.
// Rules that mix cpu.for with only partial field overlap are unusual
// enough that per-field selector inheritance isn't worth its complexity.
func overlayCPU(acc *CPUActions, in CPUActions) {
	if in.Governor.IsSet() || in.EPP.IsSet() || in.EPB.IsSet() ||
		in.MinFreqMHz.IsSet() || in.MaxFreqMHz.IsSet() || in.Turbo.IsSet() {
		acc.For = in.For
	}
	if in.Governor.IsSet() {
		acc.Governor = in.Governor
	}
	if in.EPP.IsSet() {
		acc.EPP = in.EPP
	}
	if in.EPB.IsSet() {
		acc.EPB = in.EPB
	}
	if in.MinFreqMHz.IsSet() {
		acc.MinFreqMHz = in.MinFreqMHz
	}
	if in.MaxFreqMHz.IsSet() {
		acc.MaxFreqMHz = in.MaxFreqMHz
	}
	if in.Turbo.IsSet() {
		acc.Turbo = in.Turbo
	}
}

func overlayPower(acc *PowerActions, in PowerActions) {
	if in.PlatformProfile.IsSet() || in.ChargeStartFraction.IsSet() || in.ChargeEndFraction.IsSet() {
		acc.For = in.For
	}
	if in.PlatformProfile.IsSet() {
		acc.PlatformProfile = in.PlatformProfile
	}
	if in.ChargeStartFraction.IsSet() {
		acc.ChargeStartFraction = in.ChargeStartFraction
	}
	if in.ChargeEndFraction.IsSet() {
		acc.ChargeEndFraction = in.ChargeEndFraction
	}
}
