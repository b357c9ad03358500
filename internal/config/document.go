// Package config decodes a TOML rule file into the parsed rule.Rule set
// the daemon consumes. Decoding is deliberately thin: the structs here
// exist only to give BurntSushi/toml something to unmarshal into, and
// every field is converted into the real expr.Expr/rule.Rule values via
// the constructors those packages already export — this package never
// constructs an Expr or a Field by hand.
package config

// Document is the top-level shape of a rule file.
type Document struct {
	Rules []RuleNode `toml:"rules"`
}

// RuleNode mirrors rule.Rule before expression construction.
type RuleNode struct {
	Priority uint16      `toml:"priority"`
	When     *ExprNode   `toml:"when"`
	Actions  ActionsNode `toml:"actions"`
}

// ActionsNode mirrors rule.Actions.
type ActionsNode struct {
	CPU   CPUActionsNode   `toml:"cpu"`
	Power PowerActionsNode `toml:"power"`
}

// CPUActionsNode mirrors rule.CPUActions.
type CPUActionsNode struct {
	For        *CoreSelectorNode `toml:"for"`
	Governor   *StringField      `toml:"governor"`
	EPP        *StringField      `toml:"epp"`
	EPB        *StringField      `toml:"epb"`
	MinFreqMHz *NumberField      `toml:"frequency_mhz_minimum"`
	MaxFreqMHz *NumberField      `toml:"frequency_mhz_maximum"`
	Turbo      *BoolField        `toml:"turbo"`
}

// PowerActionsNode mirrors rule.PowerActions.
type PowerActionsNode struct {
	For                 *PowerSelectorNode `toml:"for"`
	PlatformProfile     *StringField       `toml:"platform_profile"`
	ChargeStartFraction *NumberField       `toml:"charge_start_fraction"`
	ChargeEndFraction   *NumberField       `toml:"charge_end_fraction"`
}

// CoreSelectorNode mirrors rule.CoreSelector. Cores and Packages may both
// be given; an empty node (the field omitted entirely) selects every core,
// matching rule.CoreSelector's own zero-value behavior.
type CoreSelectorNode struct {
	Cores    []int `toml:"cores"`
	Packages []int `toml:"packages"`
}

// PowerSelectorNode mirrors rule.PowerSelector.
type PowerSelectorNode struct {
	Names []string `toml:"names"`
}

// StringField, NumberField and BoolField are the TOML shape of a
// rule.Field[T]: a bare value, or a value gated by a When expression.
// A field key left out of the document entirely decodes to a nil
// pointer, which converts to rule.Unset.
type StringField struct {
	Value *string   `toml:"value"`
	When  *ExprNode `toml:"when"`
}

type NumberField struct {
	Value *float64  `toml:"value"`
	When  *ExprNode `toml:"when"`
}

type BoolField struct {
	Value *bool     `toml:"value"`
	When  *ExprNode `toml:"when"`
}
