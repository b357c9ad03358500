package actuator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-set/v3"

	"github.com/wattpower/watt/internal/report"
	"github.com/wattpower/watt/internal/sysfs"
)

// fakeCPUFreqTree lays out a single core's cpufreq attribute directory
// under a temp root and returns an *sysfs.FS / *sysfs.Writer pointed at it,
// mirroring how internal/sysfs's own tests fake a /sys root.
func fakeCPUFreqTree(t *testing.T, attrs map[string]string) (*sysfs.FS, *sysfs.Writer) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "devices/system/cpu/cpu0/cpufreq")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, val := range attrs {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(val), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	fs := sysfs.NewFS(root)
	return fs, sysfs.NewWriter([]string{root})
}

func TestGovernorRejectsUnavailableValue(t *testing.T) {
	fs, w := fakeCPUFreqTree(t, map[string]string{"scaling_governor": "powersave\n"})
	g := Governor{FS: fs, Writer: w}
	caps := report.Capabilities{Governors: set.From([]string{"performance", "powersave"})}

	results := g.Apply(caps, []int{0}, "schedutil")
	if len(results) != 1 || results[0].Outcome != Unsupported {
		t.Fatalf("got %+v, want single Unsupported result", results)
	}
}

func TestGovernorAppliesAvailableValue(t *testing.T) {
	fs, w := fakeCPUFreqTree(t, map[string]string{"scaling_governor": "powersave\n"})
	g := Governor{FS: fs, Writer: w}
	caps := report.Capabilities{Governors: set.From([]string{"performance", "powersave"})}

	results := g.Apply(caps, []int{0}, "performance")
	if len(results) != 1 || results[0].Outcome != Applied {
		t.Fatalf("got %+v, want Applied", results)
	}
	got, err := sysfs.ReadString(fs.CPUAttr(0, "scaling_governor"))
	if err != nil || got != "performance" {
		t.Fatalf("governor file = %q, %v; want performance", got, err)
	}
}

func TestEPBResolvesSymbolicAndRawNames(t *testing.T) {
	fs, w := fakeCPUFreqTree(t, map[string]string{"energy_perf_bias": "6\n"})
	e := EPB{FS: fs, Writer: w}

	if results := e.Apply([]int{0}, "balance-power"); results[0].Outcome != Applied {
		t.Fatalf("symbolic name: got %+v", results)
	}
	got, _ := sysfs.ReadInt64(fs.CPUAttr(0, "energy_perf_bias"))
	if got != 8 {
		t.Fatalf("got epb=%d, want 8 (balance-power)", got)
	}

	if results := e.Apply([]int{0}, "3"); results[0].Outcome != Applied {
		t.Fatalf("raw int: got %+v", results)
	}
	got, _ = sysfs.ReadInt64(fs.CPUAttr(0, "energy_perf_bias"))
	if got != 3 {
		t.Fatalf("got epb=%d, want 3", got)
	}

	if results := e.Apply([]int{0}, "not-a-value"); results[0].Outcome != Unsupported {
		t.Fatalf("bad value: got %+v, want Unsupported", results)
	}
}

func TestFrequencyRoundTripsMHzToKHz(t *testing.T) {
	fs, w := fakeCPUFreqTree(t, map[string]string{
		"scaling_min_freq": "800000\n",
		"scaling_max_freq": "3600000\n",
	})
	f := Frequency{FS: fs, Writer: w}

	results := f.SetMaxMHz([]int{0}, 2400)
	if results[len(results)-1].Outcome != Applied {
		t.Fatalf("got %+v", results)
	}
	got, _ := sysfs.ReadInt64(fs.CPUAttr(0, "scaling_max_freq"))
	if got != 2400000 {
		t.Fatalf("got scaling_max_freq=%d, want 2400000", got)
	}
}

func TestFrequencySetMaxBelowCurrentMinLowersMinFirst(t *testing.T) {
	fs, w := fakeCPUFreqTree(t, map[string]string{
		"scaling_min_freq": "2000000\n",
		"scaling_max_freq": "3600000\n",
	})
	f := Frequency{FS: fs, Writer: w}

	results := f.SetMaxMHz([]int{0}, 1800)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (defensive min write + max write): %+v", len(results), results)
	}
	minGot, _ := sysfs.ReadInt64(fs.CPUAttr(0, "scaling_min_freq"))
	maxGot, _ := sysfs.ReadInt64(fs.CPUAttr(0, "scaling_max_freq"))
	if minGot > maxGot {
		t.Fatalf("min=%d max=%d: inverted", minGot, maxGot)
	}
	if maxGot != 1800000 {
		t.Fatalf("got max=%d, want 1800000", maxGot)
	}
}

func TestChargeThresholdRejectsStartAtOrAboveEnd(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "class/power_supply/BAT0")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, val := range map[string]string{
		"charge_control_start_threshold": "40\n",
		"charge_control_end_threshold":   "80\n",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(val), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	fs := sysfs.NewFS(root)
	w := sysfs.NewWriter([]string{root})
	c := ChargeThreshold{FS: fs, Writer: w}

	bat := report.Battery{Name: "BAT0", Vendor: report.VendorThinkPad, ChargeThresholdSupported: true}
	result := c.SetStart(bat, 0.9, 0.8)
	if result.Outcome != Error {
		t.Fatalf("got %+v, want Error (start >= end)", result)
	}
}

func TestChargeThresholdPercentRoundTrip(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "class/power_supply/BAT0")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "charge_control_end_threshold"), []byte("80\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fs := sysfs.NewFS(root)
	w := sysfs.NewWriter([]string{root})
	c := ChargeThreshold{FS: fs, Writer: w}

	bat := report.Battery{Name: "BAT0", Vendor: report.VendorGeneric, ChargeThresholdSupported: true}
	result := c.SetEnd(bat, 0.4, 0.4+0.4)
	if result.Outcome != Applied {
		t.Fatalf("got %+v", result)
	}
	got, _ := sysfs.ReadInt64(fs.PowerSupplyAttr("BAT0", "charge_control_end_threshold"))
	if got != 80 {
		t.Fatalf("got %d, want 80 (0.8 -> 80%%)", got)
	}
}

func TestDedupCacheLogsOnceUntilKindChanges(t *testing.T) {
	c := NewDedupCache()
	r1 := Result{Setting: "governor", Target: "cpu0", Outcome: Unsupported, Err: errNotInCapabilitySet}

	if !c.ShouldLog(r1) {
		t.Fatal("first occurrence should log")
	}
	if c.ShouldLog(r1) {
		t.Fatal("repeat of same kind should not log again")
	}

	r2 := Result{Setting: "governor", Target: "cpu0", Outcome: Applied}
	if !c.ShouldLog(r2) {
		t.Fatal("kind change should log")
	}
}
