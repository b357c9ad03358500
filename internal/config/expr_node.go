package config

// ExprNode is the TOML shape of an expr.Expr node. Exactly one field
// should be set per node; buildExpr reports an error if zero or more than one
// is populated, rather than silently picking the first.
type ExprNode struct {
	Const      *float64       `toml:"const"`
	Bool       *bool          `toml:"bool"`
	Var        *VarNode       `toml:"var"`
	UsageSince *string        `toml:"cpu_usage_since"` // duration string, e.g. "30s"
	Predicate  *PredicateNode `toml:"predicate"`
	Cmp        *CmpNode       `toml:"cmp"`
	Arith      *ArithNode     `toml:"arith"`
	Agg        *AggNode       `toml:"agg"`
	Logic      *LogicNode     `toml:"logic"`
	IfThen     *IfThenNode    `toml:"if_then"`
}

// VarNode is the TOML shape of expr.Var. Kind is one of "metric", "ratio",
// "predicate" (the $/%/? sigils spelled out, since TOML keys can't carry
// punctuation sigils cleanly).
type VarNode struct {
	Kind string `toml:"kind"`
	Name string `toml:"name"`
}

// PredicateNode is the TOML shape of expr.NewPredicate. Kind is one of
// "governor", "epp", "epb", "platform-profile", "driver-loaded".
type PredicateNode struct {
	Kind string `toml:"kind"`
	Arg  string `toml:"arg"`
}

// CmpNode is the TOML shape of expr.Cmp. Op is one of "lt", "gt", "eq".
// Leeway is only meaningful when Op is "eq".
type CmpNode struct {
	Op     string    `toml:"op"`
	Left   *ExprNode `toml:"left"`
	Right  *ExprNode `toml:"right"`
	Leeway *float64  `toml:"leeway"`
}

// ArithNode is the TOML shape of expr.Arith. Op is one of "plus", "minus",
// "multiply", "divide", "power".
type ArithNode struct {
	Op    string    `toml:"op"`
	Left  *ExprNode `toml:"left"`
	Right *ExprNode `toml:"right"`
}

// AggNode is the TOML shape of expr.Agg. Op is one of "min", "max".
type AggNode struct {
	Op    string     `toml:"op"`
	Exprs []ExprNode `toml:"exprs"`
}

// LogicNode is the TOML shape of expr.Logic. Op is one of "and", "or",
// "all", "any", "not". "not" expects exactly one entry in Exprs.
type LogicNode struct {
	Op    string     `toml:"op"`
	Exprs []ExprNode `toml:"exprs"`
}

// IfThenNode is the TOML shape of expr.IfThen.
type IfThenNode struct {
	Cond *ExprNode `toml:"cond"`
	Then *ExprNode `toml:"then"`
}
