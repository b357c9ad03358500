package config

import (
	"fmt"
	"time"

	"github.com/wattpower/watt/internal/expr"
	"github.com/wattpower/watt/internal/rule"
)

// buildExpr converts one ExprNode into an *expr.Expr tree. It reports a
// build error on an empty or ambiguous node rather than deferring to
// expr.Typecheck, since "which kind is this" isn't something Typecheck
// can diagnose — by the time an Expr exists its Kind is already decided.
func buildExpr(n *ExprNode) (*expr.Expr, error) {
	if n == nil {
		return nil, fmt.Errorf("expression node is required")
	}

	set := 0
	var result *expr.Expr
	var buildErr error

	note := func(e *expr.Expr, err error) {
		set++
		result, buildErr = e, err
	}

	if n.Const != nil {
		note(expr.ConstNumber(*n.Const), nil)
	}
	if n.Bool != nil {
		note(expr.ConstBool(*n.Bool), nil)
	}
	if n.Var != nil {
		note(buildVar(n.Var))
	}
	if n.UsageSince != nil {
		note(buildUsageSince(*n.UsageSince))
	}
	if n.Predicate != nil {
		note(buildPredicate(n.Predicate))
	}
	if n.Cmp != nil {
		note(buildCmp(n.Cmp))
	}
	if n.Arith != nil {
		note(buildArith(n.Arith))
	}
	if n.Agg != nil {
		note(buildAgg(n.Agg))
	}
	if n.Logic != nil {
		note(buildLogic(n.Logic))
	}
	if n.IfThen != nil {
		note(buildIfThen(n.IfThen))
	}

	switch {
	case set == 0:
		return nil, fmt.Errorf("expression node has no recognized kind set")
	case set > 1:
		return nil, fmt.Errorf("expression node sets %d kinds, want exactly one", set)
	case buildErr != nil:
		return nil, buildErr
	default:
		return result, nil
	}
}

func buildVar(n *VarNode) (*expr.Expr, error) {
	kind, err := varKind(n.Kind)
	if err != nil {
		return nil, err
	}
	return expr.Var(kind, n.Name), nil
}

func varKind(s string) (expr.VarKind, error) {
	switch s {
	case "metric":
		return expr.VarMetric, nil
	case "ratio":
		return expr.VarRatio, nil
	case "predicate":
		return expr.VarPredicate, nil
	default:
		return 0, fmt.Errorf("var: unknown kind %q (want metric, ratio, or predicate)", s)
	}
}

func buildUsageSince(raw string) (*expr.Expr, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return nil, fmt.Errorf("cpu_usage_since: %w", err)
	}
	return expr.CpuUsageSince(d), nil
}

func buildPredicate(n *PredicateNode) (*expr.Expr, error) {
	kind, err := predicateKind(n.Kind)
	if err != nil {
		return nil, err
	}
	return expr.NewPredicate(kind, n.Arg), nil
}

func predicateKind(s string) (expr.PredicateKind, error) {
	switch s {
	case "governor":
		return expr.PredicateGovernor, nil
	case "epp":
		return expr.PredicateEPP, nil
	case "epb":
		return expr.PredicateEPB, nil
	case "platform-profile":
		return expr.PredicatePlatformProfile, nil
	case "driver-loaded":
		return expr.PredicateDriverLoaded, nil
	default:
		return 0, fmt.Errorf("predicate: unknown kind %q", s)
	}
}

func buildCmp(n *CmpNode) (*expr.Expr, error) {
	op, err := cmpOp(n.Op)
	if err != nil {
		return nil, err
	}
	lhs, err := buildExpr(n.Left)
	if err != nil {
		return nil, fmt.Errorf("cmp.left: %w", err)
	}
	rhs, err := buildExpr(n.Right)
	if err != nil {
		return nil, fmt.Errorf("cmp.right: %w", err)
	}
	return expr.Cmp(lhs, op, rhs, n.Leeway), nil
}

func cmpOp(s string) (expr.CmpOp, error) {
	switch s {
	case "lt":
		return expr.CmpLT, nil
	case "gt":
		return expr.CmpGT, nil
	case "eq":
		return expr.CmpEQ, nil
	default:
		return 0, fmt.Errorf("cmp: unknown op %q (want lt, gt, or eq)", s)
	}
}

func buildArith(n *ArithNode) (*expr.Expr, error) {
	op, err := arithOp(n.Op)
	if err != nil {
		return nil, err
	}
	lhs, err := buildExpr(n.Left)
	if err != nil {
		return nil, fmt.Errorf("arith.left: %w", err)
	}
	rhs, err := buildExpr(n.Right)
	if err != nil {
		return nil, fmt.Errorf("arith.right: %w", err)
	}
	return expr.Arith(lhs, op, rhs), nil
}

func arithOp(s string) (expr.ArithOp, error) {
	switch s {
	case "plus":
		return expr.ArithPlus, nil
	case "minus":
		return expr.ArithMinus, nil
	case "multiply":
		return expr.ArithMultiply, nil
	case "divide":
		return expr.ArithDivide, nil
	case "power":
		return expr.ArithPower, nil
	default:
		return 0, fmt.Errorf("arith: unknown op %q", s)
	}
}

func buildAgg(n *AggNode) (*expr.Expr, error) {
	op, err := aggOp(n.Op)
	if err != nil {
		return nil, err
	}
	exprs, err := buildExprList(n.Exprs)
	if err != nil {
		return nil, fmt.Errorf("agg: %w", err)
	}
	return expr.Agg(op, exprs...), nil
}

func aggOp(s string) (expr.AggOp, error) {
	switch s {
	case "min":
		return expr.AggMin, nil
	case "max":
		return expr.AggMax, nil
	default:
		return 0, fmt.Errorf("agg: unknown op %q (want min or max)", s)
	}
}

func buildLogic(n *LogicNode) (*expr.Expr, error) {
	op, err := logicOp(n.Op)
	if err != nil {
		return nil, err
	}
	exprs, err := buildExprList(n.Exprs)
	if err != nil {
		return nil, fmt.Errorf("logic: %w", err)
	}
	return expr.Logic(op, exprs...), nil
}

func logicOp(s string) (expr.LogicOp, error) {
	switch s {
	case "and":
		return expr.LogicAnd, nil
	case "or":
		return expr.LogicOr, nil
	case "all":
		return expr.LogicAll, nil
	case "any":
		return expr.LogicAny, nil
	case "not":
		return expr.LogicNot, nil
	default:
		return 0, fmt.Errorf("logic: unknown op %q", s)
	}
}

func buildIfThen(n *IfThenNode) (*expr.Expr, error) {
	cond, err := buildExpr(n.Cond)
	if err != nil {
		return nil, fmt.Errorf("if_then.cond: %w", err)
	}
	then, err := buildExpr(n.Then)
	if err != nil {
		return nil, fmt.Errorf("if_then.then: %w", err)
	}
	return expr.IfThen(cond, then), nil
}

func buildExprList(nodes []ExprNode) ([]*expr.Expr, error) {
	out := make([]*expr.Expr, len(nodes))
	for i := range nodes {
		e, err := buildExpr(&nodes[i])
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = e
	}
	return out, nil
}

// buildStringField converts a *StringField into a rule.Field[string].
// A nil node is rule.Unset.
func buildStringField(n *StringField, name string) (rule.Field[string], error) {
	if n == nil {
		return rule.Unset[string](), nil
	}
	if n.Value == nil {
		return rule.Field[string]{}, fmt.Errorf("%s: value is required", name)
	}
	if n.When == nil {
		return rule.SetValue(*n.Value), nil
	}
	cond, err := buildExpr(n.When)
	if err != nil {
		return rule.Field[string]{}, fmt.Errorf("%s.when: %w", name, err)
	}
	return rule.SetConditional(cond, *n.Value), nil
}

// buildNumberField converts a *NumberField into a rule.Field[float64].
func buildNumberField(n *NumberField, name string) (rule.Field[float64], error) {
	if n == nil {
		return rule.Unset[float64](), nil
	}
	if n.Value == nil {
		return rule.Field[float64]{}, fmt.Errorf("%s: value is required", name)
	}
	if n.When == nil {
		return rule.SetValue(*n.Value), nil
	}
	cond, err := buildExpr(n.When)
	if err != nil {
		return rule.Field[float64]{}, fmt.Errorf("%s.when: %w", name, err)
	}
	return rule.SetConditional(cond, *n.Value), nil
}

// buildBoolField converts a *BoolField into a rule.Field[bool].
func buildBoolField(n *BoolField, name string) (rule.Field[bool], error) {
	if n == nil {
		return rule.Unset[bool](), nil
	}
	if n.Value == nil {
		return rule.Field[bool]{}, fmt.Errorf("%s: value is required", name)
	}
	if n.When == nil {
		return rule.SetValue(*n.Value), nil
	}
	cond, err := buildExpr(n.When)
	if err != nil {
		return rule.Field[bool]{}, fmt.Errorf("%s.when: %w", name, err)
	}
	return rule.SetConditional(cond, *n.Value), nil
}

func buildCoreSelector(n *CoreSelectorNode) rule.CoreSelector {
	if n == nil {
		return rule.CoreSelector{}
	}
	return rule.CoreSelector{IDs: n.Cores, PackageIDs: n.Packages}
}

func buildPowerSelector(n *PowerSelectorNode) rule.PowerSelector {
	if n == nil {
		return rule.PowerSelector{}
	}
	return rule.PowerSelector{Names: n.Names}
}

// buildRule converts one RuleNode into a rule.Rule.
func buildRule(n RuleNode) (rule.Rule, error) {
	var when *expr.Expr
	if n.When != nil {
		w, err := buildExpr(n.When)
		if err != nil {
			return rule.Rule{}, fmt.Errorf("when: %w", err)
		}
		when = w
	}

	governor, err := buildStringField(n.Actions.CPU.Governor, "cpu.governor")
	if err != nil {
		return rule.Rule{}, err
	}
	epp, err := buildStringField(n.Actions.CPU.EPP, "cpu.epp")
	if err != nil {
		return rule.Rule{}, err
	}
	epb, err := buildStringField(n.Actions.CPU.EPB, "cpu.epb")
	if err != nil {
		return rule.Rule{}, err
	}
	minFreq, err := buildNumberField(n.Actions.CPU.MinFreqMHz, "cpu.frequency-mhz-minimum")
	if err != nil {
		return rule.Rule{}, err
	}
	maxFreq, err := buildNumberField(n.Actions.CPU.MaxFreqMHz, "cpu.frequency-mhz-maximum")
	if err != nil {
		return rule.Rule{}, err
	}
	turbo, err := buildBoolField(n.Actions.CPU.Turbo, "cpu.turbo")
	if err != nil {
		return rule.Rule{}, err
	}

	platformProfile, err := buildStringField(n.Actions.Power.PlatformProfile, "power.platform-profile")
	if err != nil {
		return rule.Rule{}, err
	}
	chargeStart, err := buildNumberField(n.Actions.Power.ChargeStartFraction, "power.charge-start-fraction")
	if err != nil {
		return rule.Rule{}, err
	}
	chargeEnd, err := buildNumberField(n.Actions.Power.ChargeEndFraction, "power.charge-end-fraction")
	if err != nil {
		return rule.Rule{}, err
	}

	return rule.Rule{
		Priority: n.Priority,
		When:     when,
		Actions: rule.Actions{
			CPU: rule.CPUActions{
				For:        buildCoreSelector(n.Actions.CPU.For),
				Governor:   governor,
				EPP:        epp,
				EPB:        epb,
				MinFreqMHz: minFreq,
				MaxFreqMHz: maxFreq,
				Turbo:      turbo,
			},
			Power: rule.PowerActions{
				For:                 buildPowerSelector(n.Actions.Power.For),
				PlatformProfile:     platformProfile,
				ChargeStartFraction: chargeStart,
				ChargeEndFraction:   chargeEnd,
			},
		},
	}, nil
}
