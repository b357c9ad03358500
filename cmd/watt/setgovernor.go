package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wattpower/watt/internal/actuator"
	"github.com/wattpower/watt/internal/probe"
	"github.com/wattpower/watt/internal/sysfs"
)

// newSetGovernorCmd builds the one-shot `set-governor` subcommand, a thin
// surface over the same actuator package the daemon uses.
func newSetGovernorCmd(sysRoot, procRoot *string) *cobra.Command {
	var cores []int

	cmd := &cobra.Command{
		Use:   "set-governor <name>",
		Short: "Apply a cpufreq governor immediately, bypassing the rule engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireRoot(); err != nil {
				return err
			}
			if err := requirePlatformSupport(*sysRoot); err != nil {
				return err
			}

			p, err := probe.New(*procRoot, *sysRoot)
			if err != nil {
				return err
			}
			rpt, err := p.Probe(time.Now())
			if err != nil {
				return err
			}

			targets := cores
			if len(targets) == 0 {
				for _, c := range rpt.Cores {
					targets = append(targets, c.ID)
				}
			}

			fs := sysfs.NewFS(*sysRoot)
			gov := actuator.Governor{FS: fs, Writer: sysfs.NewWriter(nil)}
			results := gov.Apply(rpt.Capabilities, targets, args[0])

			out := cmd.OutOrStdout()
			for _, res := range results {
				fmt.Fprintf(out, "%s %s: %s\n", res.Setting, res.Target, res.Outcome)
			}
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&cores, "core", nil, "restrict to these core ids (default: all cores)")
	return cmd
}
