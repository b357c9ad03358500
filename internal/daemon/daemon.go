// Package daemon implements Watt's adaptive supervisor loop: probe →
// evaluate → apply → sleep, with the sleep interval recomputed every
// tick from the rolling history. A SIGTERM/SIGINT wakes the inter-tick
// sleep immediately and shuts the loop down cleanly; SIGHUP reloads the
// rule set between ticks.
package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/wattpower/watt/internal/actuator"
	"github.com/wattpower/watt/internal/env"
	"github.com/wattpower/watt/internal/history"
	"github.com/wattpower/watt/internal/logging"
	"github.com/wattpower/watt/internal/probe"
	"github.com/wattpower/watt/internal/rule"
	"github.com/wattpower/watt/internal/sysfs"
)

// maxConsecutivePanics is the fatal threshold: a single panicking tick is
// recovered and logged, but this many in a row means the bug is
// persistent and the daemon exits.
const maxConsecutivePanics = 3

// UserActivityFunc polls for externally signalled input-device activity
// since the last call. Watt carries no platform-specific evdev reader of
// its own; a nil func always reports no user-activity signal, leaving
// the CPU-usage-jump detection in internal/history as the only activity
// signal.
type UserActivityFunc func() bool

// Config configures a Daemon. ProcRoot/SysRoot default to "/proc"/"/sys"
// when empty; production callers leave them empty, tests point them at
// fixture trees.
type Config struct {
	ProcRoot string
	SysRoot  string

	Rules []rule.Rule

	Logger hclog.Logger

	HistoryMaxSamples int
	HistoryMaxAge     time.Duration

	UserActivity UserActivityFunc

	// ReloadRules re-reads the rule set on SIGHUP. A nil func means
	// SIGHUP is acknowledged but ignored; the caller restarts instead.
	ReloadRules func() ([]rule.Rule, error)

	// WritableRoots overrides sysfs.WritableRoots, for tests that write
	// under a temp directory instead of the real /sys.
	WritableRoots []string
}

// Daemon is the single-threaded cooperative loop. Every field here is
// process-wide state; no locks are needed because only the loop thread
// ever touches it.
type Daemon struct {
	prober   *probe.Prober
	rules    []rule.Rule
	hist     *history.History
	dispatch *actuator.Dispatcher
	dedup    *actuator.DedupCache
	log      hclog.Logger
	userAct  UserActivityFunc
	reload   func() ([]rule.Rule, error)

	interval          time.Duration
	tickCount         int64
	consecutivePanics int
}

// New builds a Daemon from cfg.
func New(cfg Config) (*Daemon, error) {
	procRoot := cfg.ProcRoot
	if procRoot == "" {
		procRoot = "/proc"
	}
	sysRoot := cfg.SysRoot
	if sysRoot == "" {
		sysRoot = "/sys"
	}
	prober, err := probe.New(procRoot, sysRoot)
	if err != nil {
		return nil, fmt.Errorf("daemon: %w", err)
	}

	for _, r := range cfg.Rules {
		if err := rule.Typecheck(r); err != nil {
			return nil, fmt.Errorf("daemon: config error: %w", err)
		}
	}

	log := cfg.Logger
	if log == nil {
		log = logging.New(hclog.Info, os.Stderr)
	}

	fs := sysfs.NewFS(sysRoot)
	writer := sysfs.NewWriter(cfg.WritableRoots)

	return &Daemon{
		prober:   prober,
		rules:    cfg.Rules,
		hist:     history.New(cfg.HistoryMaxSamples, cfg.HistoryMaxAge),
		dispatch: actuator.NewDispatcher(fs, writer),
		dedup:    actuator.NewDedupCache(),
		log:      log,
		userAct:  cfg.UserActivity,
		reload:   cfg.ReloadRules,
		interval: DefaultBaseInterval,
	}, nil
}

// Run loops probe → evaluate → apply → sleep until ctx is cancelled or a
// SIGTERM/SIGINT arrives. It returns nil on clean shutdown, or an error
// if maxConsecutivePanics ticks panicked in a row.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			d.log.Info("daemon.shutdown", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	hupCh := make(chan os.Signal, 1)
	signal.Notify(hupCh, syscall.SIGHUP)
	defer signal.Stop(hupCh)

	for {
		if ctx.Err() != nil {
			return nil
		}

		start := time.Now()
		d.tick(start)
		if d.consecutivePanics >= maxConsecutivePanics {
			return fmt.Errorf("daemon: %d consecutive tick panics, exiting", d.consecutivePanics)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-hupCh:
			// Reload happens here, on the loop thread, so the rule set
			// is never swapped mid-tick. The next tick follows
			// immediately so the new rules take effect without waiting
			// out the adaptive interval.
			d.reloadRules()
		case <-time.After(d.interval):
		}
	}
}

// reloadRules re-reads the rule set via cfg.ReloadRules. A reload failure
// keeps the running rules: a config error is only fatal at startup.
func (d *Daemon) reloadRules() {
	if d.reload == nil {
		d.log.Info("daemon.reload", "status", "unsupported, restart to pick up config changes")
		return
	}
	rules, err := d.reload()
	if err != nil {
		d.log.Error("daemon.reload", "error", err)
		return
	}
	d.rules = rules
	d.log.Info("daemon.reload", "rules", len(rules))
}

// tick runs one probe/evaluate/apply pass, recovering from a panic so a
// single bad tick never kills the loop outright.
func (d *Daemon) tick(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			d.consecutivePanics++
			d.log.Error("tick.panic", "recovered", r, "consecutive", d.consecutivePanics)
			return
		}
		d.consecutivePanics = 0
	}()

	logging.TickStart(d.log, d.tickCount)

	rpt, err := d.prober.Probe(now)
	if err != nil {
		d.log.Warn("probe.error", "error", err)
		d.tickCount++
		return
	}

	e := env.New(rpt, d.hist)
	plan, matches := rule.Evaluate(d.rules, e)
	for _, m := range matches {
		logging.RuleMatch(d.log, m.Rule.Priority, m.Matched)
	}

	for _, step := range rule.OrderedSteps(plan, rpt) {
		for _, res := range d.dispatch.Apply(step, rpt) {
			d.logResult(res)
		}
	}

	d.hist.Append(sampleFromReport(rpt, d.sawUserActivity()))
	d.interval = NextInterval(d.interval, intervalInputs(d.hist, rpt.OnAC))

	elapsed := time.Since(now)
	logging.TickEnd(d.log, d.tickCount, elapsed, d.interval)
	d.tickCount++
}

func (d *Daemon) sawUserActivity() bool {
	if d.userAct == nil {
		return false
	}
	return d.userAct()
}

func (d *Daemon) logResult(res actuator.Result) {
	if !d.dedup.ShouldLog(res) {
		return
	}
	switch res.Outcome {
	case actuator.Applied:
		logging.ActuatorApply(d.log, res.Setting, res.Target)
	case actuator.Unsupported:
		logging.ActuatorUnsupported(d.log, res.Setting, res.Target, res.Err)
	default:
		logging.ActuatorError(d.log, res.Setting, res.Target, res.Err)
	}
}

// Interval returns the daemon's current adaptive sleep interval, for
// inspection by tests.
func (d *Daemon) Interval() time.Duration { return d.interval }

// History exposes the daemon's rolling window.
func (d *Daemon) History() *history.History { return d.hist }
