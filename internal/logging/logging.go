// Package logging wraps hashicorp/go-hclog with the named structured
// events the daemon emits (tick.start, rule.match, actuator.apply,
// actuator.unsupported, actuator.error, tick.end). hclog's own level enum
// (Off/Error/Warn/Info/Debug/Trace) already covers the levels Watt needs,
// so everything takes hclog.Logger directly rather than wrapping it
// behind another interface.
package logging

import (
	"io"
	"time"

	"github.com/hashicorp/go-hclog"
)

// New creates the root "watt" logger at the given level, writing to w.
func New(level hclog.Level, w io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "watt",
		Level:  level,
		Output: w,
	})
}

// ParseLevel maps a config/CLI level name to hclog.Level, defaulting to
// Info for an unrecognized name.
func ParseLevel(name string) hclog.Level {
	switch name {
	case "OFF", "off":
		return hclog.Off
	case "ERROR", "error":
		return hclog.Error
	case "WARN", "warn":
		return hclog.Warn
	case "DEBUG", "debug":
		return hclog.Debug
	case "TRACE", "trace":
		return hclog.Trace
	default:
		return hclog.Info
	}
}

// TickStart logs the tick.start event.
func TickStart(log hclog.Logger, tick int64) {
	log.Debug("tick.start", "tick", tick)
}

// RuleMatch logs the rule.match event for one rule's evaluation.
func RuleMatch(log hclog.Logger, priority uint16, matched bool) {
	log.Debug("rule.match", "priority", priority, "matched", matched)
}

// ActuatorApply logs a successful actuator write.
func ActuatorApply(log hclog.Logger, setting, target string) {
	log.Info("actuator.apply", "setting", setting, "target", target)
}

// ActuatorUnsupported logs a setting the platform doesn't support. An
// unsupported knob is a fact about the hardware, not a fault, so it stays
// at DEBUG.
func ActuatorUnsupported(log hclog.Logger, setting, target string, err error) {
	log.Debug("actuator.unsupported", "setting", setting, "target", target, "reason", err)
}

// ActuatorError logs a rejected or failed actuator write at WARN.
func ActuatorError(log hclog.Logger, setting, target string, err error) {
	log.Warn("actuator.error", "setting", setting, "target", target, "error", err)
}

// TickEnd logs the tick.end event with the computed next-tick interval.
func TickEnd(log hclog.Logger, tick int64, elapsed, interval time.Duration) {
	log.Debug("tick.end", "tick", tick, "elapsed_ms", elapsed.Milliseconds(), "interval_ms", interval.Milliseconds())
}
