package expr

import "time"

// NodeKind tags which fields of Expr are meaningful. Expr is one flat
// struct evaluated by a recursive match instead of N node types behind an
// interface.
type NodeKind int

const (
	NodeConstBool NodeKind = iota
	NodeConstNumber
	NodeVar
	NodeCPUUsageSince
	NodePredicate
	NodeCmp
	NodeArith
	NodeAgg
	NodeLogic
	NodeIfThen
)

// CmpOp is a Cmp node's comparison operator.
type CmpOp int

const (
	CmpLT CmpOp = iota
	CmpGT
	CmpEQ
)

// ArithOp is an Arith node's binary operator.
type ArithOp int

const (
	ArithPlus ArithOp = iota
	ArithMinus
	ArithMultiply
	ArithDivide
	ArithPower
)

// AggOp is an Agg node's reducer.
type AggOp int

const (
	AggMin AggOp = iota
	AggMax
)

// LogicOp is a Logic node's boolean combinator.
type LogicOp int

const (
	LogicAnd LogicOp = iota
	LogicOr
	LogicAll
	LogicAny
	LogicNot
)

// Expr is one DSL expression node. Only the fields relevant to Kind are
// populated; Typecheck verifies that invariant at load time rather than
// each Eval call re-checking it.
type Expr struct {
	Kind NodeKind

	BoolVal   bool    // NodeConstBool
	NumberVal float64 // NodeConstNumber

	VarKind VarKind // NodeVar
	VarName string  // NodeVar

	Duration time.Duration // NodeCPUUsageSince

	PredKind PredicateKind // NodePredicate
	PredArg  string        // NodePredicate

	LHS, RHS *Expr    // NodeCmp, NodeArith
	CmpOp    CmpOp    // NodeCmp
	Leeway   *float64 // NodeCmp, only valid when CmpOp == CmpEQ
	ArithOp  ArithOp  // NodeArith

	Exprs   []*Expr // NodeAgg, NodeLogic
	AggOp   AggOp   // NodeAgg
	LogicOp LogicOp // NodeLogic

	Cond *Expr // NodeIfThen
	Then *Expr // NodeIfThen
}

// ConstBool builds a literal boolean node.
func ConstBool(b bool) *Expr { return &Expr{Kind: NodeConstBool, BoolVal: b} }

// ConstNumber builds a literal numeric node.
func ConstNumber(n float64) *Expr { return &Expr{Kind: NodeConstNumber, NumberVal: n} }

// Var builds a system-variable lookup node.
func Var(kind VarKind, name string) *Expr { return &Expr{Kind: NodeVar, VarKind: kind, VarName: name} }

// CpuUsageSince builds the one variable node that takes an argument.
func CpuUsageSince(d time.Duration) *Expr { return &Expr{Kind: NodeCPUUsageSince, Duration: d} }

// NewPredicate builds a capability-membership predicate node.
func NewPredicate(kind PredicateKind, arg string) *Expr {
	return &Expr{Kind: NodePredicate, PredKind: kind, PredArg: arg}
}

// Cmp builds a comparison node. leeway is only meaningful for CmpEQ; pass
// nil for the default of 0.0 or for lt/gt.
func Cmp(lhs *Expr, op CmpOp, rhs *Expr, leeway *float64) *Expr {
	return &Expr{Kind: NodeCmp, LHS: lhs, RHS: rhs, CmpOp: op, Leeway: leeway}
}

// Arith builds an arithmetic node.
func Arith(lhs *Expr, op ArithOp, rhs *Expr) *Expr {
	return &Expr{Kind: NodeArith, LHS: lhs, RHS: rhs, ArithOp: op}
}

// Agg builds a min/max aggregation node.
func Agg(op AggOp, exprs ...*Expr) *Expr { return &Expr{Kind: NodeAgg, AggOp: op, Exprs: exprs} }

// Logic builds a boolean combinator node.
func Logic(op LogicOp, exprs ...*Expr) *Expr {
	return &Expr{Kind: NodeLogic, LogicOp: op, Exprs: exprs}
}

// IfThen builds a conditional-value node: evaluates to Unavailable unless
// cond is exactly Bool(true), in which case it evaluates to then.
func IfThen(cond, then *Expr) *Expr { return &Expr{Kind: NodeIfThen, Cond: cond, Then: then} }
