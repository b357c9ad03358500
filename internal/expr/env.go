package expr

import "time"

// VarKind is the sigil a Var node carries. The sigil is kept for
// diagnostics only; semantics come from the variable table. Env.Var
// still receives it so implementations can sanity-check a name against
// its expected sigil at load time.
type VarKind int

const (
	VarMetric    VarKind = iota // $
	VarRatio                    // %
	VarPredicate                // ?
)

func (k VarKind) String() string {
	switch k {
	case VarRatio:
		return "%"
	case VarPredicate:
		return "?"
	default:
		return "$"
	}
}

// PredicateKind is which capability set a Predicate node checks.
type PredicateKind int

const (
	PredicateGovernor PredicateKind = iota
	PredicateEPP
	PredicateEPB
	PredicatePlatformProfile
	PredicateDriverLoaded
)

// Env is what the evaluator needs from the outside world. internal/env's
// Environment implements this by reading a report.SystemReport and a
// history.History; the expr package itself has no knowledge of either.
type Env interface {
	// Var resolves a $/%/? variable by name to its current Value.
	// Unresolvable names are a load-time typecheck error, not a runtime
	// Unavailable — Var is only ever called with names Typecheck already
	// validated.
	Var(kind VarKind, name string) Value

	// CPUUsageSince resolves the one variable that takes an argument.
	CPUUsageSince(d time.Duration) Value

	// Predicate resolves a capability-membership check.
	Predicate(kind PredicateKind, arg string) Value
}

// KnownVars enumerates every $/%/? variable name Typecheck accepts.
var KnownVars = map[VarKind]map[string]bool{
	VarMetric: {
		"cpu-temperature":            true,
		"cpu-idle-seconds":           true,
		"cpu-usage-volatility":       true,
		"cpu-temperature-volatility": true,
		"cpu-frequency-maximum":      true,
		"cpu-frequency-minimum":      true,
		"cpu-scaling-maximum":        true,
		"load-average-1m":            true,
		"load-average-5m":            true,
		"load-average-15m":           true,
	},
	VarRatio: {
		"power-supply-charge":         true,
		"power-supply-discharge-rate": true,
	},
	VarPredicate: {
		"discharging":         true,
		"frequency-available": true,
		"turbo-available":     true,
	},
}
