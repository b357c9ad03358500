package expr

import (
	"testing"
	"time"
)

// fakeEnv is a minimal Env for evaluator tests.
type fakeEnv struct {
	vars       map[string]Value
	cpuSince   Value
	predicates map[string]bool
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{vars: map[string]Value{}, predicates: map[string]bool{}}
}

func (f *fakeEnv) Var(kind VarKind, name string) Value {
	if v, ok := f.vars[kind.String()+name]; ok {
		return v
	}
	return Unavailable
}

func (f *fakeEnv) CPUUsageSince(d time.Duration) Value { return f.cpuSince }

func (f *fakeEnv) Predicate(kind PredicateKind, arg string) Value {
	return Bool(f.predicates[arg])
}

func (f *fakeEnv) set(kind VarKind, name string, v Value) {
	f.vars[kind.String()+name] = v
}

func TestArithDivideByZeroIsUnavailable(t *testing.T) {
	e := Arith(ConstNumber(1), ArithDivide, ConstNumber(0))
	got := Eval(e, newFakeEnv())
	if !got.IsUnavailable() {
		t.Fatalf("got %v, want Unavailable", got)
	}
}

func TestArithUnavailableOperandPropagates(t *testing.T) {
	env := newFakeEnv()
	e := Arith(Var(VarMetric, "cpu-temperature"), ArithPlus, ConstNumber(1))
	got := Eval(e, env)
	if !got.IsUnavailable() {
		t.Fatalf("got %v, want Unavailable", got)
	}
}

func TestCmpUnavailableTreatedFalseInBooleanContext(t *testing.T) {
	env := newFakeEnv()
	cmp := Cmp(Var(VarRatio, "power-supply-charge"), CmpLT, ConstNumber(0.3), nil)
	got := Eval(cmp, env)
	if !got.IsUnavailable() {
		t.Fatalf("cmp result = %v, want Unavailable", got)
	}
	if got.IsTrue() {
		t.Fatal("Unavailable must not be IsTrue")
	}
}

func TestIsEqualLeeway(t *testing.T) {
	leeway := 0.5
	e := Cmp(ConstNumber(10.2), CmpEQ, ConstNumber(10.0), &leeway)
	if !Eval(e, newFakeEnv()).IsTrue() {
		t.Fatal("expected 10.2 == 10.0 within leeway 0.5")
	}
}

func TestIsEqualDefaultLeewayIsExact(t *testing.T) {
	e := Cmp(ConstNumber(10.2), CmpEQ, ConstNumber(10.0), nil)
	if Eval(e, newFakeEnv()).IsTrue() {
		t.Fatal("expected exact comparison to fail without leeway")
	}
}

func TestAndShortCircuitsOnFalse(t *testing.T) {
	e := Logic(LogicAnd, ConstBool(false), Var(VarPredicate, "missing"))
	got := Eval(e, newFakeEnv())
	b, ok := got.AsBool()
	if !ok || b {
		t.Fatalf("got %v, want Bool(false)", got)
	}
}

func TestOrShortCircuitsOnTrueEvenWithUnavailable(t *testing.T) {
	e := Logic(LogicOr, ConstBool(true), Var(VarPredicate, "missing"))
	got := Eval(e, newFakeEnv())
	b, ok := got.AsBool()
	if !ok || !b {
		t.Fatalf("got %v, want Bool(true)", got)
	}
}

func TestAllEmptyIsTrue(t *testing.T) {
	e := Logic(LogicAll)
	if !Eval(e, newFakeEnv()).IsTrue() {
		t.Fatal("all([]) should be true")
	}
}

func TestAnyEmptyIsFalse(t *testing.T) {
	e := Logic(LogicAny)
	got := Eval(e, newFakeEnv())
	b, ok := got.AsBool()
	if !ok || b {
		t.Fatalf("any([]) = %v, want false", got)
	}
}

func TestNotUnavailablePropagates(t *testing.T) {
	e := Logic(LogicNot, Var(VarPredicate, "missing"))
	if !Eval(e, newFakeEnv()).IsUnavailable() {
		t.Fatal("not(Unavailable) should be Unavailable")
	}
}

func TestIfThenDropsWhenCondFalse(t *testing.T) {
	e := IfThen(ConstBool(false), ConstNumber(42))
	if !Eval(e, newFakeEnv()).IsUnavailable() {
		t.Fatal("if-then with false cond should be Unavailable")
	}
}

func TestIfThenPassesThroughWhenCondTrue(t *testing.T) {
	e := IfThen(ConstBool(true), ConstNumber(42))
	got := Eval(e, newFakeEnv())
	n, ok := got.AsNumber()
	if !ok || n != 42 {
		t.Fatalf("got %v, want 42", got)
	}
}

func TestPowerFollowsIEEE(t *testing.T) {
	e := Arith(ConstNumber(2), ArithPower, ConstNumber(10))
	n, ok := Eval(e, newFakeEnv()).AsNumber()
	if !ok || n != 1024 {
		t.Fatalf("got %v, want 1024", n)
	}
}

func TestAggMinMax(t *testing.T) {
	min := Agg(AggMin, ConstNumber(3), ConstNumber(1), ConstNumber(2))
	if n, _ := Eval(min, newFakeEnv()).AsNumber(); n != 1 {
		t.Fatalf("min got %v, want 1", n)
	}
	max := Agg(AggMax, ConstNumber(3), ConstNumber(1), ConstNumber(2))
	if n, _ := Eval(max, newFakeEnv()).AsNumber(); n != 3 {
		t.Fatalf("max got %v, want 3", n)
	}
}

func TestPredicateResolvesFromCapabilitySet(t *testing.T) {
	env := newFakeEnv()
	env.predicates["powersave"] = true
	e := NewPredicate(PredicateGovernor, "powersave")
	if !Eval(e, env).IsTrue() {
		t.Fatal("expected governor predicate to resolve true")
	}
}

func TestTypecheckRejectsUnknownVariable(t *testing.T) {
	e := Var(VarMetric, "not-a-real-variable")
	if err := Typecheck(e); err == nil {
		t.Fatal("expected a config error for an unknown variable")
	}
}

func TestTypecheckRejectsLeewayOnNonEqual(t *testing.T) {
	leeway := 1.0
	e := Cmp(ConstNumber(1), CmpLT, ConstNumber(2), &leeway)
	if err := Typecheck(e); err == nil {
		t.Fatal("expected a config error for leeway on a non-eq comparison")
	}
}

func TestTypecheckAccumulatesMultipleErrors(t *testing.T) {
	e := Logic(LogicAnd,
		Var(VarMetric, "bogus-one"),
		Var(VarMetric, "bogus-two"),
	)
	err := Typecheck(e)
	if err == nil {
		t.Fatal("expected errors")
	}
	ce, ok := err.(*ConfigError)
	if !ok {
		t.Fatalf("got %T, want *ConfigError", err)
	}
	if len(ce.Errors) != 2 {
		t.Fatalf("got %d errors, want 2", len(ce.Errors))
	}
}

func TestTypecheckValidExpressionPasses(t *testing.T) {
	e := Cmp(Var(VarMetric, "cpu-temperature"), CmpGT, ConstNumber(85.0), nil)
	if err := Typecheck(e); err != nil {
		t.Fatalf("unexpected typecheck error: %v", err)
	}
}

func TestTypecheckRejectsBoolFedToArith(t *testing.T) {
	e := Arith(ConstBool(true), ArithPlus, ConstNumber(1))
	if err := Typecheck(e); err == nil {
		t.Fatal("expected a config error for a bool operand to arith")
	}
}

func TestTypecheckRejectsNumberFedToLogic(t *testing.T) {
	e := Logic(LogicAnd, ConstNumber(5.0), ConstBool(true))
	if err := Typecheck(e); err == nil {
		t.Fatal("expected a config error for a number operand to logic")
	}
}

func TestTypecheckRejectsBoolFedToCmp(t *testing.T) {
	e := Cmp(ConstBool(true), CmpGT, ConstNumber(1), nil)
	if err := Typecheck(e); err == nil {
		t.Fatal("expected a config error for a bool operand to a comparison")
	}
}

func TestTypecheckRejectsNumberFedToIfThenCond(t *testing.T) {
	e := IfThen(ConstNumber(1), ConstNumber(42))
	if err := Typecheck(e); err == nil {
		t.Fatal("expected a config error for a numeric if/then condition")
	}
}

func TestTypecheckBoolRejectsNumericRoot(t *testing.T) {
	e := ConstNumber(5.0)
	if err := TypecheckBool(e); err == nil {
		t.Fatal("expected a config error for a numeric expression where a bool is required")
	}
}

func TestTypecheckBoolAcceptsBoolRoot(t *testing.T) {
	e := Cmp(Var(VarMetric, "cpu-temperature"), CmpGT, ConstNumber(85.0), nil)
	if err := TypecheckBool(e); err != nil {
		t.Fatalf("unexpected typecheck error: %v", err)
	}
}

func TestCpuUsageSinceUnavailableUntilEnoughHistory(t *testing.T) {
	env := newFakeEnv()
	env.cpuSince = Unavailable
	e := CpuUsageSince(5 * time.Minute)
	if !Eval(e, env).IsUnavailable() {
		t.Fatal("expected Unavailable with insufficient history")
	}
}
