package daemon

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wattpower/watt/internal/expr"
	"github.com/wattpower/watt/internal/rule"
)

// copyTree clones a fixture directory into a temp dir so a test that
// writes through it (actuator applies) never mutates the shared
// testdata/sys fixture other packages' tests also read.
func copyTree(t *testing.T, src string) string {
	t.Helper()
	dst := t.TempDir()
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	if err != nil {
		t.Fatal(err)
	}
	return dst
}

func writeProcFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	stat := "cpu  100 10 50 1000 20 0 5 0 0 0\ncpu0 50 5 25 500 10 0 3 0 0 0\ncpu1 50 5 25 500 10 0 2 0 0 0\nctxt 1\nbtime 1700000000\nprocesses 1\n"
	if err := os.WriteFile(filepath.Join(dir, "stat"), []byte(stat), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "loadavg"), []byte("1.0 1.0 1.0 1/100 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestDaemonTickAppliesMatchingRuleAndRecordsHistory(t *testing.T) {
	procDir := writeProcFixture(t)
	abs, err := filepath.Abs("../../testdata/sys")
	if err != nil {
		t.Fatal(err)
	}
	sysDir := copyTree(t, abs)

	hot := expr.Cmp(expr.Var(expr.VarMetric, "cpu-temperature"), expr.CmpGT, expr.ConstNumber(10), nil)
	rules := []rule.Rule{
		{Priority: 10, When: hot, Actions: rule.Actions{CPU: rule.CPUActions{Governor: rule.SetValue("powersave")}}},
	}

	d, err := New(Config{
		ProcRoot:      procDir,
		SysRoot:       sysDir,
		Rules:         rules,
		WritableRoots: []string{sysDir},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	d.tick(time.Unix(1700000000, 0))

	if d.hist.Len() != 1 {
		t.Fatalf("history len = %d, want 1", d.hist.Len())
	}
	got, err := os.ReadFile(filepath.Join(sysDir, "devices/system/cpu/cpu0/cpufreq/scaling_governor"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "powersave" {
		t.Fatalf("scaling_governor = %q, want powersave", got)
	}
}

func TestDaemonTickResetsConsecutivePanicsOnSuccess(t *testing.T) {
	procDir := writeProcFixture(t)
	abs, err := filepath.Abs("../../testdata/sys")
	if err != nil {
		t.Fatal(err)
	}
	sysDir := copyTree(t, abs)

	d, err := New(Config{ProcRoot: procDir, SysRoot: sysDir, WritableRoots: []string{sysDir}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d.consecutivePanics = maxConsecutivePanics - 1

	d.tick(time.Unix(1700000000, 0))

	if d.consecutivePanics != 0 {
		t.Fatalf("consecutivePanics = %d after a clean tick, want 0", d.consecutivePanics)
	}
	if d.Interval() <= 0 {
		t.Fatalf("Interval() = %s, want positive", d.Interval())
	}
}

func TestReloadRulesSwapsRuleSetAndKeepsOldOnError(t *testing.T) {
	procDir := writeProcFixture(t)
	abs, err := filepath.Abs("../../testdata/sys")
	if err != nil {
		t.Fatal(err)
	}
	sysDir := copyTree(t, abs)

	initial := []rule.Rule{{Priority: 1}}
	next := []rule.Rule{{Priority: 2}, {Priority: 3}}
	reloadErr := error(nil)

	d, err := New(Config{
		ProcRoot:      procDir,
		SysRoot:       sysDir,
		Rules:         initial,
		WritableRoots: []string{sysDir},
		ReloadRules: func() ([]rule.Rule, error) {
			return next, reloadErr
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	d.reloadRules()
	if len(d.rules) != 2 {
		t.Fatalf("got %d rules after reload, want 2", len(d.rules))
	}

	reloadErr = os.ErrPermission
	next = []rule.Rule{{Priority: 9}}
	d.reloadRules()
	if len(d.rules) != 2 {
		t.Fatalf("got %d rules after failed reload, want the previous 2 kept", len(d.rules))
	}
}
