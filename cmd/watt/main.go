// watt — adaptive CPU frequency and power supervisor for Linux.
//
// Periodically probes /proc and /sys, evaluates a rule set against the
// snapshot, and writes the result into cpufreq, intel_pstate/amd_pstate,
// ACPI platform-profile, and power_supply.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/wattpower/watt/internal/config"
	"github.com/wattpower/watt/internal/logging"
	"github.com/wattpower/watt/internal/sysfs"
)

var version = "0.1.0"

// Exit codes per the daemon's external-interface contract: 0 clean
// shutdown, 64 config error, 77 permission denied, 69 unsupported
// platform, anything else non-zero for unexpected errors.
const (
	exitOK                  = 0
	exitConfigError         = 64
	exitUnsupportedPlatform = 69
	exitPermissionDenied    = 77
	exitUnexpected          = 1
)

// errUnsupportedPlatform signals "no cpufreq at all" distinctly from a
// generic probe/actuator error, so main can map it to exit 69.
var errUnsupportedPlatform = errors.New("no cpufreq interface present under /sys/devices/system/cpu")

// errPermissionDenied signals "not root" distinctly, for exit 77.
var errPermissionDenied = errors.New("watt must run as root to write sysfs attributes")

func main() {
	os.Exit(mainExitCode())
}

func mainExitCode() int {
	rootCmd := &cobra.Command{
		Use:     "watt",
		Short:   "Adaptive CPU frequency and power supervisor",
		Version: version,
	}

	var (
		sysRoot  string
		procRoot string
	)
	rootCmd.PersistentFlags().StringVar(&sysRoot, "sys-root", "/sys", "root of the sysfs tree (for testing)")
	rootCmd.PersistentFlags().StringVar(&procRoot, "proc-root", "/proc", "root of the procfs tree (for testing)")

	rootCmd.AddCommand(
		newRunCmd(&sysRoot, &procRoot),
		newInfoCmd(&sysRoot, &procRoot),
		newCapabilitiesCmd(&sysRoot, &procRoot),
		newSetGovernorCmd(&sysRoot, &procRoot),
	)

	err := rootCmd.Execute()
	return exitCodeFor(err)
}

func exitCodeFor(err error) int {
	if err == nil {
		return exitOK
	}
	var cfgErr *config.ConfigError
	if errors.As(err, &cfgErr) {
		return exitConfigError
	}
	if errors.Is(err, errUnsupportedPlatform) {
		return exitUnsupportedPlatform
	}
	if errors.Is(err, errPermissionDenied) || errors.Is(err, sysfs.ErrPermissionDenied) {
		return exitPermissionDenied
	}
	fmt.Fprintln(os.Stderr, "watt:", err)
	return exitUnexpected
}

// requirePlatformSupport checks that at least one CPU exposes a cpufreq
// directory, the minimum viable platform surface.
func requirePlatformSupport(sysRoot string) error {
	fs := sysfs.NewFS(sysRoot)
	ids, err := fs.CPUIDs()
	if err != nil || len(ids) == 0 {
		return errUnsupportedPlatform
	}
	if !sysfs.Exists(fs.CPUAttr(ids[0], "scaling_governor")) {
		return errUnsupportedPlatform
	}
	return nil
}

// requireRoot checks the effective UID, since a non-root process can
// never write the sysfs attributes watt owns.
func requireRoot() error {
	if os.Geteuid() != 0 {
		return errPermissionDenied
	}
	return nil
}

func levelFlag(cmd *cobra.Command, name string) hclog.Level {
	v, _ := cmd.Flags().GetString(name)
	return logging.ParseLevel(v)
}
