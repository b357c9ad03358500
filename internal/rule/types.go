// Package rule implements rule matching, priority-based action merging,
// and apply ordering.
package rule

import (
	"sort"

	"github.com/wattpower/watt/internal/expr"
	"github.com/wattpower/watt/internal/report"
)

// Rule is one entry of the parsed config's rule list.
type Rule struct {
	Priority uint16
	// When defaults to an always-true condition if nil.
	When    *expr.Expr
	Actions Actions
}

func (r Rule) when() *expr.Expr {
	if r.When == nil {
		return expr.ConstBool(true)
	}
	return r.When
}

// CoreSelector names the cores a CPU action group targets. Empty selects
// every online core. PackageIDs selects whole physical packages
// alongside explicit core ids.
type CoreSelector struct {
	IDs        []int
	PackageIDs []int
}

// Resolve expands the selector against a live report, deduplicated and
// sorted for deterministic actuator dispatch order.
func (s CoreSelector) Resolve(r *report.SystemReport) []int {
	if len(s.IDs) == 0 && len(s.PackageIDs) == 0 {
		ids := make([]int, len(r.Cores))
		for i, c := range r.Cores {
			ids[i] = c.ID
		}
		sort.Ints(ids)
		return ids
	}
	set := make(map[int]bool)
	for _, id := range s.IDs {
		set[id] = true
	}
	for _, pkg := range s.PackageIDs {
		for _, c := range r.CoresInPackage(pkg) {
			set[c.ID] = true
		}
	}
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// PowerSelector names the power supplies a power action group targets.
// Empty selects every battery present.
type PowerSelector struct {
	Names []string
}

// Resolve expands the selector against a live report.
func (s PowerSelector) Resolve(r *report.SystemReport) []string {
	if len(s.Names) == 0 {
		names := make([]string, len(r.Batteries))
		for i, b := range r.Batteries {
			names[i] = b.Name
		}
		return names
	}
	out := make([]string, len(s.Names))
	copy(out, s.Names)
	return out
}

// Field is one optional action value: either a fixed Value, or a
// Conditional(cond, v) that's dropped for the tick unless cond evaluates
// to Bool(true).
type Field[T any] struct {
	set   bool
	value T
	cond  *expr.Expr
}

// Unset is the zero Field: the rule doesn't touch this setting at all.
func Unset[T any]() Field[T] { return Field[T]{} }

// SetValue builds an unconditional field.
func SetValue[T any](v T) Field[T] { return Field[T]{set: true, value: v} }

// SetConditional builds a field that only applies when cond is true.
func SetConditional[T any](cond *expr.Expr, v T) Field[T] {
	return Field[T]{set: true, value: v, cond: cond}
}

// IsSet reports whether the rule specifies this field at all (regardless
// of whether a Conditional's guard later passes).
func (f Field[T]) IsSet() bool { return f.set }

// resolve evaluates the field's guard (if any) against env. ok=false means
// the field is dropped for this tick.
func (f Field[T]) resolve(env expr.Env) (T, bool) {
	var zero T
	if !f.set {
		return zero, false
	}
	if f.cond != nil {
		if !expr.Eval(f.cond, env).IsTrue() {
			return zero, false
		}
	}
	return f.value, true
}

// CPUActions is the cpu.* half of a rule's Actions.
type CPUActions struct {
	For        CoreSelector
	Governor   Field[string]
	EPP        Field[string]
	EPB        Field[string]
	MinFreqMHz Field[float64]
	MaxFreqMHz Field[float64]
	Turbo      Field[bool]
}

// PowerActions is the power.* half of a rule's Actions.
type PowerActions struct {
	For                 PowerSelector
	PlatformProfile     Field[string]
	ChargeStartFraction Field[float64]
	ChargeEndFraction   Field[float64]
}

// Actions is a rule's full action set.
type Actions struct {
	CPU   CPUActions
	Power PowerActions
}
