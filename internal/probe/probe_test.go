package probe

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeProcStat(t *testing.T, dir string, cpuTotal, cpu0, cpu1 string) {
	t.Helper()
	content := "cpu  " + cpuTotal + "\ncpu0 " + cpu0 + "\ncpu1 " + cpu1 + "\nctxt 1\nbtime 1700000000\nprocesses 1\n"
	if err := os.WriteFile(filepath.Join(dir, "stat"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func setupProcDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeProcStat(t, dir, "100 10 50 1000 20 0 5 0 0 0", "50 5 25 500 10 0 3 0 0 0", "50 5 25 500 10 0 2 0 0 0")
	if err := os.WriteFile(filepath.Join(dir, "loadavg"), []byte("1.25 0.98 0.77 2/543 12345\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func testdataSysRoot(t *testing.T) string {
	t.Helper()
	abs, err := filepath.Abs("../../testdata/sys")
	if err != nil {
		t.Fatal(err)
	}
	return abs
}

func TestProbeFirstTickZeroUsage(t *testing.T) {
	procDir := setupProcDir(t)
	p, err := New(procDir, testdataSysRoot(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	r, err := p.Probe(time.Unix(1700000000, 0))
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if len(r.Cores) != 2 {
		t.Fatalf("got %d cores, want 2", len(r.Cores))
	}
	for _, c := range r.Cores {
		if c.UsageFraction != 0 {
			t.Errorf("core %d usage = %v, want 0 on first tick", c.ID, c.UsageFraction)
		}
	}
}

func TestProbeSecondTickComputesDelta(t *testing.T) {
	procDir := setupProcDir(t)
	p, err := New(procDir, testdataSysRoot(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := p.Probe(time.Unix(1700000000, 0)); err != nil {
		t.Fatalf("first Probe: %v", err)
	}

	// cpu0: +50 user, +50 idle over the tick -> 50% usage.
	writeProcStat(t, procDir, "200 10 50 1100 20 0 5 0 0 0", "100 5 25 550 10 0 3 0 0 0", "50 5 25 500 10 0 2 0 0 0")

	r, err := p.Probe(time.Unix(1700000001, 0))
	if err != nil {
		t.Fatalf("second Probe: %v", err)
	}
	core0, ok := r.CoreByID(0)
	if !ok {
		t.Fatal("core 0 missing")
	}
	if core0.UsageFraction < 0.49 || core0.UsageFraction > 0.51 {
		t.Fatalf("core 0 usage = %v, want ~0.5", core0.UsageFraction)
	}
	core1, ok := r.CoreByID(1)
	if !ok {
		t.Fatal("core 1 missing")
	}
	if core1.UsageFraction != 0 {
		t.Fatalf("core 1 usage = %v, want 0 (no change)", core1.UsageFraction)
	}
}

func TestProbeReadsCapabilitiesAndStaticFields(t *testing.T) {
	procDir := setupProcDir(t)
	p, err := New(procDir, testdataSysRoot(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r, err := p.Probe(time.Unix(1700000000, 0))
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	if !r.Capabilities.HasGovernor("performance") || !r.Capabilities.HasGovernor("powersave") {
		t.Fatalf("governors = %v, want performance+powersave", r.Capabilities.Governors)
	}
	core0, _ := r.CoreByID(0)
	if core0.Governor != "powersave" {
		t.Fatalf("core 0 governor = %q, want powersave", core0.Governor)
	}
	if core0.FrequencyKHz != 2200000 {
		t.Fatalf("core 0 frequency = %d, want 2200000", core0.FrequencyKHz)
	}

	if len(r.Batteries) != 1 {
		t.Fatalf("got %d batteries, want 1", len(r.Batteries))
	}
	bat := r.Batteries[0]
	if bat.ChargeFraction < 0.71 || bat.ChargeFraction > 0.73 {
		t.Fatalf("charge fraction = %v, want ~0.72", bat.ChargeFraction)
	}
	if bat.DrawW >= 0 {
		t.Fatalf("draw = %v, want negative (discharging)", bat.DrawW)
	}
	if r.OnAC {
		t.Fatal("expected OnAC=false (AC reports offline in fixture)")
	}

	if len(r.ThermalZones) != 1 || r.ThermalZones[0].TempC != 57.3 {
		t.Fatalf("thermal zones = %v, want one zone at 57.3C", r.ThermalZones)
	}

	if r.LoadAverage1 != 1.25 {
		t.Fatalf("load average 1m = %v, want 1.25", r.LoadAverage1)
	}
}
