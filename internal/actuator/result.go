// Package actuator applies one resolved rule.Step to the kernel's cpufreq,
// platform-profile, and power_supply sysfs interfaces, translating each
// setting's value representation (strings, MHz/percent ranges) and
// classifying the outcome as Applied, Unsupported, or Error.
package actuator

import (
	"errors"
	"fmt"

	"github.com/wattpower/watt/internal/sysfs"
)

// Outcome is the result of one actuator call against one target.
type Outcome int

const (
	Applied Outcome = iota
	Unsupported
	Error
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Unsupported:
		return "unsupported"
	default:
		return "error"
	}
}

// Result records the outcome of applying one setting to one target (a core
// id rendered as "cpu0", or a power-supply name).
type Result struct {
	Setting string
	Target  string
	Outcome Outcome
	Err     error
}

func coreTarget(id int) string {
	return fmt.Sprintf("cpu%d", id)
}

// classify turns a sysfs write/read error into a Result. PermissionDenied
// and InvalidValue both surface here as Error — the distinction between
// them is preserved in Err for logging, only the tolerance-for-apply
// axis (Applied/Unsupported/Error) is collapsed for the rule engine.
func classify(setting, target string, err error) Result {
	if err == nil {
		return Result{Setting: setting, Target: target, Outcome: Applied}
	}
	if errors.Is(err, sysfs.ErrNotPresent) || errors.Is(err, sysfs.ErrUnsupported) {
		return Result{Setting: setting, Target: target, Outcome: Unsupported, Err: err}
	}
	return Result{Setting: setting, Target: target, Outcome: Error, Err: err}
}

func unsupported(setting, target string, err error) Result {
	return Result{Setting: setting, Target: target, Outcome: Unsupported, Err: err}
}

func errResult(setting, target string, err error) Result {
	return Result{Setting: setting, Target: target, Outcome: Error, Err: err}
}

var errNotInCapabilitySet = errors.New("actuator: value not in capability set")
var errPairInversion = errors.New("actuator: would invert min/max or start/end ordering")
