package rule

import (
	"github.com/wattpower/watt/internal/expr"
)

// Evaluate runs one full rule-engine pass: evaluate every
// rule's When against e, merge the matched rules' Actions in ascending
// priority order, drop Conditional fields whose guard failed, and return
// the resulting Plan alongside the per-rule match results for logging.
// Call OrderedSteps on the result, against the same tick's SystemReport, to
// expand it into the ordered actuator dispatch sequence.
func Evaluate(rules []Rule, e expr.Env) (Plan, []MatchResult) {
	results := EvaluateMatches(rules, e)
	acc := merge(results)
	plan := resolvePlan(acc, e)
	return plan, results
}
