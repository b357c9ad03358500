package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wattpower/watt/internal/probe"
)

// newCapabilitiesCmd builds the `capabilities` subcommand: a quick,
// no-config probe limited to what the platform's actuators can accept,
// useful for writing a rule file's predicates against a real machine.
func newCapabilitiesCmd(sysRoot, procRoot *string) *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities",
		Short: "Print the governors, EPP/EPB values, and platform profiles this machine supports",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := probe.New(*procRoot, *sysRoot)
			if err != nil {
				return err
			}
			rpt, err := p.Probe(time.Now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			caps := rpt.Capabilities
			fmt.Fprintf(out, "governors: %v\n", sliceOf(caps.Governors))
			fmt.Fprintf(out, "epp values: %v\n", sliceOf(caps.EPPValues))
			fmt.Fprintf(out, "epb values: %v\n", sliceOf(caps.EPBValues))
			fmt.Fprintf(out, "platform profiles: %v\n", sliceOf(caps.PlatformProfiles))
			fmt.Fprintf(out, "frequency available: %v\n", caps.FrequencyAvailable)
			fmt.Fprintf(out, "turbo available: %v\n", caps.TurboAvailable)
			return nil
		},
	}
}
