package expr

import "math"

// Eval evaluates e against env. It never panics on a malformed node because
// Typecheck is required to run at load time; a node that slips past
// Typecheck with a shape mismatch degrades to Unavailable rather than
// crashing a running daemon tick.
func Eval(e *Expr, env Env) Value {
	if e == nil {
		return Unavailable
	}
	switch e.Kind {
	case NodeConstBool:
		return Bool(e.BoolVal)
	case NodeConstNumber:
		return Number(e.NumberVal)
	case NodeVar:
		return env.Var(e.VarKind, e.VarName)
	case NodeCPUUsageSince:
		return env.CPUUsageSince(e.Duration)
	case NodePredicate:
		return env.Predicate(e.PredKind, e.PredArg)
	case NodeCmp:
		return evalCmp(e, env)
	case NodeArith:
		return evalArith(e, env)
	case NodeAgg:
		return evalAgg(e, env)
	case NodeLogic:
		return evalLogic(e, env)
	case NodeIfThen:
		return evalIfThen(e, env)
	default:
		return Unavailable
	}
}

func evalCmp(e *Expr, env Env) Value {
	lhs := Eval(e.LHS, env)
	rhs := Eval(e.RHS, env)
	lv, lok := lhs.AsNumber()
	rv, rok := rhs.AsNumber()
	if !lok || !rok || math.IsNaN(lv) || math.IsNaN(rv) {
		return Unavailable
	}
	switch e.CmpOp {
	case CmpLT:
		return Bool(lv < rv)
	case CmpGT:
		return Bool(lv > rv)
	case CmpEQ:
		leeway := 0.0
		if e.Leeway != nil {
			leeway = *e.Leeway
		}
		return Bool(math.Abs(lv-rv) <= leeway)
	default:
		return Unavailable
	}
}

func evalArith(e *Expr, env Env) Value {
	lhs := Eval(e.LHS, env)
	rhs := Eval(e.RHS, env)
	lv, lok := lhs.AsNumber()
	rv, rok := rhs.AsNumber()
	if !lok || !rok {
		return Unavailable
	}
	switch e.ArithOp {
	case ArithPlus:
		return Number(lv + rv)
	case ArithMinus:
		return Number(lv - rv)
	case ArithMultiply:
		return Number(lv * rv)
	case ArithDivide:
		if rv == 0 {
			return Unavailable
		}
		return Number(lv / rv)
	case ArithPower:
		return Number(math.Pow(lv, rv))
	default:
		return Unavailable
	}
}

func evalAgg(e *Expr, env Env) Value {
	var result float64
	for i, sub := range e.Exprs {
		v := Eval(sub, env)
		n, ok := v.AsNumber()
		if !ok {
			return Unavailable
		}
		if i == 0 {
			result = n
			continue
		}
		switch e.AggOp {
		case AggMin:
			if n < result {
				result = n
			}
		case AggMax:
			if n > result {
				result = n
			}
		}
	}
	if len(e.Exprs) == 0 {
		return Unavailable
	}
	return Number(result)
}

// evalLogic short-circuits left-to-right over the three-state domain:
// and/or stop as soon as the result is determined even if a later
// operand would be Unavailable; all([])=true, any([])=false; not propagates
// Unavailable.
func evalLogic(e *Expr, env Env) Value {
	switch e.LogicOp {
	case LogicNot:
		if len(e.Exprs) != 1 {
			return Unavailable
		}
		v := Eval(e.Exprs[0], env)
		b, ok := v.AsBool()
		if !ok {
			return Unavailable
		}
		return Bool(!b)
	case LogicAnd, LogicAll:
		allUnavailable := false
		for _, sub := range e.Exprs {
			v := Eval(sub, env)
			if v.IsUnavailable() {
				allUnavailable = true
				continue
			}
			b, ok := v.AsBool()
			if !ok {
				return Unavailable
			}
			if !b {
				return Bool(false)
			}
		}
		if allUnavailable {
			return Unavailable
		}
		return Bool(true)
	case LogicOr, LogicAny:
		sawUnavailable := false
		for _, sub := range e.Exprs {
			v := Eval(sub, env)
			if v.IsUnavailable() {
				sawUnavailable = true
				continue
			}
			b, ok := v.AsBool()
			if !ok {
				return Unavailable
			}
			if b {
				return Bool(true)
			}
		}
		if sawUnavailable {
			return Unavailable
		}
		return Bool(false)
	default:
		return Unavailable
	}
}

func evalIfThen(e *Expr, env Env) Value {
	cond := Eval(e.Cond, env)
	if !cond.IsTrue() {
		return Unavailable
	}
	return Eval(e.Then, env)
}
