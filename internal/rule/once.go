package rule

import (
	"github.com/wattpower/watt/internal/env"
	"github.com/wattpower/watt/internal/history"
	"github.com/wattpower/watt/internal/report"
)

// EvaluateOnce runs a single evaluation pass against a report with no
// history, for unit tests and the `info` subcommand. History-backed
// variables ($cpu-idle-seconds, %power-supply-discharge-rate, ...)
// resolve to Unavailable under it, same as a freshly started daemon's
// first tick.
func EvaluateOnce(rules []Rule, rpt *report.SystemReport) (Plan, []MatchResult) {
	e := env.New(rpt, history.New(0, 0))
	return Evaluate(rules, e)
}
