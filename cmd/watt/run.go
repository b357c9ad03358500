package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wattpower/watt/internal/config"
	"github.com/wattpower/watt/internal/daemon"
	"github.com/wattpower/watt/internal/logging"
	"github.com/wattpower/watt/internal/rule"
)

// newRunCmd builds the `run` subcommand: the long-running supervisor
// loop, terminated only by SIGTERM/SIGINT.
func newRunCmd(sysRoot, procRoot *string) *cobra.Command {
	var (
		rulesPath  string
		logLevel   string
		historyMax int
		historyAge string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the adaptive CPU/power supervisor",
		Long:  "Probes the system, evaluates the configured rules, and applies the result to cpufreq/ACPI/power_supply sysfs until terminated.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireRoot(); err != nil {
				return err
			}
			if err := requirePlatformSupport(*sysRoot); err != nil {
				return err
			}

			rules, err := config.Load(rulesPath)
			if err != nil {
				return err
			}

			age, err := parseNonNegativeDuration(historyAge)
			if err != nil {
				return fmt.Errorf("invalid --history-age: %w", err)
			}

			log := logging.New(levelFlag(cmd, "log-level"), cmd.ErrOrStderr())

			d, err := daemon.New(daemon.Config{
				ProcRoot:          *procRoot,
				SysRoot:           *sysRoot,
				Rules:             rules,
				Logger:            log,
				HistoryMaxSamples: historyMax,
				HistoryMaxAge:     age,
				ReloadRules: func() ([]rule.Rule, error) {
					return config.Load(rulesPath)
				},
			})
			if err != nil {
				return err
			}

			return d.Run(context.Background())
		},
	}

	cmd.Flags().StringVarP(&rulesPath, "config", "c", "/etc/watt/watt.toml", "path to the TOML rule file")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: off, error, warn, info, debug, trace")
	cmd.Flags().IntVar(&historyMax, "history-samples", 300, "maximum samples retained in the rolling history window")
	cmd.Flags().StringVar(&historyAge, "history-age", "5m", "maximum age retained in the rolling history window")

	return cmd
}
