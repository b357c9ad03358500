package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/wattpower/watt/internal/config"
	"github.com/wattpower/watt/internal/daemon"
	"github.com/wattpower/watt/internal/probe"
	"github.com/wattpower/watt/internal/report"
	"github.com/wattpower/watt/internal/rule"
)

// newInfoCmd builds the `info` subcommand: a single probe, printed as a
// human-readable snapshot, optionally evaluated against a rule file to
// show what a live daemon would apply this tick.
func newInfoCmd(sysRoot, procRoot *string) *cobra.Command {
	var rulesPath string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print one system snapshot and, with --config, the plan it would produce",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := probe.New(*procRoot, *sysRoot)
			if err != nil {
				return err
			}
			rpt, err := p.Probe(time.Now())
			if err != nil {
				return err
			}

			printReport(cmd, rpt)

			if rulesPath == "" {
				return nil
			}
			rules, err := config.Load(rulesPath)
			if err != nil {
				return err
			}
			plan, matches := rule.EvaluateOnce(rules, rpt)
			printMatches(cmd, matches)
			printPlan(cmd, plan, rpt)
			return nil
		},
	}

	cmd.Flags().StringVarP(&rulesPath, "config", "c", "", "path to a TOML rule file to evaluate against this snapshot")
	return cmd
}

func printReport(cmd *cobra.Command, rpt *report.SystemReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "timestamp: %s\n", rpt.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(out, "load average: %.2f %.2f %.2f\n", rpt.LoadAverage1, rpt.LoadAverage5, rpt.LoadAverage15)
	fmt.Fprintf(out, "cpu usage (mean): %.1f%%\n", rpt.CPUUsageMean*100)
	if t, ok := rpt.MaxThermalZoneTempC(); ok {
		fmt.Fprintf(out, "max thermal zone: %.1f C\n", t)
	}
	fmt.Fprintf(out, "on ac: %v  discharging: %v\n", rpt.OnAC, rpt.Discharging)

	next := daemon.NextInterval(daemon.DefaultBaseInterval, daemon.IntervalInputs{OnAC: rpt.OnAC, CPUUsageMean: rpt.CPUUsageMean})
	fmt.Fprintf(out, "next adaptive interval: %s (%s)\n", next, humanize.Time(time.Now().Add(next)))

	fmt.Fprintln(out, "cores:")
	for _, c := range rpt.Cores {
		fmt.Fprintf(out, "  cpu%d: governor=%s epp=%q epb=%q freq=%s [%s,%s] usage=%.1f%%\n",
			c.ID, c.Governor, c.EPP, c.EPB,
			humanize.SI(float64(c.FrequencyKHz)*1000, "Hz"),
			humanize.SI(float64(c.ScalingMinKHz)*1000, "Hz"),
			humanize.SI(float64(c.ScalingMaxKHz)*1000, "Hz"),
			c.UsageFraction*100)
	}

	fmt.Fprintln(out, "batteries:")
	for _, b := range rpt.Batteries {
		fmt.Fprintf(out, "  %s (%s): charge=%.0f%% draw=%.1fW", b.Name, b.Vendor, b.ChargeFraction*100, b.DrawW)
		if b.ChargeThresholdSupported {
			fmt.Fprintf(out, " threshold=[%d,%d]", b.ChargeStartThreshold, b.ChargeEndThreshold)
		}
		fmt.Fprintln(out)
	}

	caps := rpt.Capabilities
	fmt.Fprintf(out, "governors: %v\n", sliceOf(caps.Governors))
	fmt.Fprintf(out, "epp values: %v\n", sliceOf(caps.EPPValues))
	fmt.Fprintf(out, "epb values: %v\n", sliceOf(caps.EPBValues))
	fmt.Fprintf(out, "platform profiles: %v\n", sliceOf(caps.PlatformProfiles))
	fmt.Fprintf(out, "frequency available: %v  turbo available: %v\n", caps.FrequencyAvailable, caps.TurboAvailable)
}

func printMatches(cmd *cobra.Command, matches []rule.MatchResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "rules:")
	for _, m := range matches {
		fmt.Fprintf(out, "  priority=%d matched=%v\n", m.Rule.Priority, m.Matched)
	}
}

func printPlan(cmd *cobra.Command, plan rule.Plan, rpt *report.SystemReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "plan:")
	for _, step := range rule.OrderedSteps(plan, rpt) {
		fmt.Fprintf(out, "  %s cores=%v supplies=%v value=%v%v%v\n",
			step.Kind, step.CoreTargets, step.PowerTargets, step.StringValue, numOrEmpty(step.NumberValue), boolOrEmpty(step))
	}
}

func sliceOf(c interface{ Slice() []string }) []string {
	if c == nil {
		return nil
	}
	return c.Slice()
}

func numOrEmpty(n float64) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%v", n)
}

func boolOrEmpty(step rule.Step) string {
	if step.Kind == rule.StepTurbo {
		return fmt.Sprintf("%v", step.BoolValue)
	}
	return ""
}
