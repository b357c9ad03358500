package expr

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ConfigError reports every structural problem Typecheck found in one
// pass, rather than stopping at the first one — a rule author debugging
// a config file wants the whole list at once.
type multierrorError = multierror.Error

type ConfigError struct {
	*multierrorError
}

// staticType is a node's type as inferred at load time, used only to
// check that operand types line up (booleans to logic, numbers to
// arithmetic and comparison). typeUnknown marks a node whose own type
// error was already reported, so a parent node doesn't also flag it as a
// mismatch and double-report the same bug.
type staticType int

const (
	typeUnknown staticType = iota
	typeBool
	typeNumber
)

func (t staticType) String() string {
	switch t {
	case typeBool:
		return "bool"
	case typeNumber:
		return "number"
	default:
		return "unknown"
	}
}

// Typecheck walks e and returns a non-nil *ConfigError if any node's
// operand types don't line up: booleans feeding Logic, numbers feeding
// Arith/Cmp/Agg, leeway given only on a CmpEQ comparison, CpuUsageSince's
// duration positive, and every Var/Predicate name/kind known.
func Typecheck(e *Expr) error {
	var errs *multierror.Error
	typecheck(e, &errs)
	if errs.ErrorOrNil() == nil {
		return nil
	}
	return &ConfigError{multierrorError: errs}
}

// TypecheckBool is Typecheck plus the additional requirement that e's own
// static type is Bool, for contexts where the root expression itself must
// be a boolean rather than merely internally consistent — a rule's `when`
// clause and a Conditional field's guard.
func TypecheckBool(e *Expr) error {
	var errs *multierror.Error
	t := typecheck(e, &errs)
	if t != typeUnknown && t != typeBool {
		errs = multierror.Append(errs, fmt.Errorf("expression must be boolean, got %s", t))
	}
	if errs.ErrorOrNil() == nil {
		return nil
	}
	return &ConfigError{multierrorError: errs}
}

// typecheck validates e and its subtree, returning e's inferred static
// type so the caller (a Cmp/Arith/Agg/Logic/IfThen parent) can check it
// against what that parent expects.
func typecheck(e *Expr, errs **multierror.Error) staticType {
	if e == nil {
		*errs = multierror.Append(*errs, fmt.Errorf("nil expression node"))
		return typeUnknown
	}
	switch e.Kind {
	case NodeConstBool:
		return typeBool

	case NodeConstNumber:
		return typeNumber

	case NodeVar:
		names, ok := KnownVars[e.VarKind]
		if !ok || !names[e.VarName] {
			*errs = multierror.Append(*errs, fmt.Errorf("unknown variable %s%s", e.VarKind, e.VarName))
			return typeUnknown
		}
		if e.VarKind == VarPredicate {
			return typeBool
		}
		return typeNumber

	case NodeCPUUsageSince:
		if e.Duration <= 0 {
			*errs = multierror.Append(*errs, fmt.Errorf("cpu-usage-since: duration must be positive, got %s", e.Duration))
		}
		return typeNumber

	case NodePredicate:
		if e.PredArg == "" {
			*errs = multierror.Append(*errs, fmt.Errorf("predicate %d: empty argument", e.PredKind))
		}
		if e.PredKind < PredicateGovernor || e.PredKind > PredicateDriverLoaded {
			*errs = multierror.Append(*errs, fmt.Errorf("predicate: unknown kind %d", e.PredKind))
		}
		return typeBool

	case NodeCmp:
		if e.Leeway != nil && e.CmpOp != CmpEQ {
			*errs = multierror.Append(*errs, fmt.Errorf("leeway is only valid on is-equal comparisons"))
		}
		if e.CmpOp < CmpLT || e.CmpOp > CmpEQ {
			*errs = multierror.Append(*errs, fmt.Errorf("cmp: unknown operator %d", e.CmpOp))
		}
		requireType(e.LHS, typeNumber, "comparison", "left operand", errs)
		requireType(e.RHS, typeNumber, "comparison", "right operand", errs)
		return typeBool

	case NodeArith:
		if e.ArithOp < ArithPlus || e.ArithOp > ArithPower {
			*errs = multierror.Append(*errs, fmt.Errorf("arith: unknown operator %d", e.ArithOp))
		}
		requireType(e.LHS, typeNumber, "arithmetic", "left operand", errs)
		requireType(e.RHS, typeNumber, "arithmetic", "right operand", errs)
		return typeNumber

	case NodeAgg:
		if e.AggOp != AggMin && e.AggOp != AggMax {
			*errs = multierror.Append(*errs, fmt.Errorf("agg: unknown operator %d", e.AggOp))
		}
		for i, sub := range e.Exprs {
			requireType(sub, typeNumber, "min/max aggregation", fmt.Sprintf("operand %d", i), errs)
		}
		return typeNumber

	case NodeLogic:
		if e.LogicOp == LogicNot && len(e.Exprs) != 1 {
			*errs = multierror.Append(*errs, fmt.Errorf("not: expects exactly one operand, got %d", len(e.Exprs)))
		}
		for i, sub := range e.Exprs {
			requireType(sub, typeBool, "boolean logic", fmt.Sprintf("operand %d", i), errs)
		}
		return typeBool

	case NodeIfThen:
		requireType(e.Cond, typeBool, "if/then condition", "condition", errs)
		return typecheck(e.Then, errs)

	default:
		*errs = multierror.Append(*errs, fmt.Errorf("unknown node kind %d", e.Kind))
		return typeUnknown
	}
}

// requireType typechecks sub and, when its inferred type is known and
// doesn't match want, reports a config error. A typeUnknown child is
// skipped rather than flagged again — it already has its own error from
// typecheck, and a second "wrong type" error on top would just be noise.
func requireType(sub *Expr, want staticType, context, position string, errs **multierror.Error) {
	got := typecheck(sub, errs)
	if got == typeUnknown || got == want {
		return
	}
	*errs = multierror.Append(*errs, fmt.Errorf("%s: %s must be %s, got %s", context, position, want, got))
}
