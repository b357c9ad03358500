package config

import (
	"strings"
	"testing"

	"github.com/wattpower/watt/internal/expr"
)

const thermalEmergencyDoc = `
[[rules]]
priority = 100

[rules.when]
cmp = { op = "gt", left = { var = { kind = "metric", name = "cpu-temperature" } }, right = { const = 85.0 } }

[rules.actions.cpu]
governor = { value = "powersave" }
turbo = { value = false }
`

func TestDecodeThermalEmergencyRule(t *testing.T) {
	rules, err := Decode(strings.NewReader(thermalEmergencyDoc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(rules))
	}
	r := rules[0]
	if r.Priority != 100 {
		t.Fatalf("priority = %d, want 100", r.Priority)
	}
	if r.When == nil || r.When.Kind != expr.NodeCmp {
		t.Fatalf("when = %+v, want a Cmp node", r.When)
	}
	if !r.Actions.CPU.Governor.IsSet() {
		t.Fatal("governor should be set")
	}
	if !r.Actions.CPU.Turbo.IsSet() {
		t.Fatal("turbo should be set")
	}
}

func TestDecodeRejectsUnknownVariable(t *testing.T) {
	doc := `
[[rules]]
priority = 5

[rules.when]
var = { kind = "metric", name = "not-a-real-variable" }
`
	_, err := Decode(strings.NewReader(doc))
	if err == nil {
		t.Fatal("expected a typecheck error for an unknown variable")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("got %T, want *ConfigError", err)
	}
}

func TestDecodeConditionalFieldIsSet(t *testing.T) {
	doc := `
[[rules]]
priority = 20

[rules.actions.cpu.frequency_mhz_maximum]
value = 1800
[rules.actions.cpu.frequency_mhz_maximum.when]
predicate = { kind = "driver-loaded", arg = "intel_pstate" }
`
	rules, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !rules[0].Actions.CPU.MaxFreqMHz.IsSet() {
		t.Fatal("frequency_mhz_maximum should be set")
	}
}

func TestDecodeUnconditionalPowerField(t *testing.T) {
	doc := `
[[rules]]
priority = 1

[rules.actions.power.platform_profile]
value = "balanced"
`
	rules, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !rules[0].Actions.Power.PlatformProfile.IsSet() {
		t.Fatal("platform_profile should be set")
	}
}

func TestDecodeRejectsFieldWithoutValue(t *testing.T) {
	doc := `
[[rules]]
priority = 1

[rules.actions.cpu.governor]
when = { bool = true }
`
	_, err := Decode(strings.NewReader(doc))
	if err == nil {
		t.Fatal("expected an error: governor field has a when but no value")
	}
}
