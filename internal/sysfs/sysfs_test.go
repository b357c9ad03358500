package sysfs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testdataSys(t *testing.T) string {
	t.Helper()
	abs, err := filepath.Abs("../../testdata/sys")
	if err != nil {
		t.Fatalf("resolving testdata path: %v", err)
	}
	if _, err := os.Stat(abs); os.IsNotExist(err) {
		t.Fatalf("testdata directory does not exist: %s", abs)
	}
	return abs
}

func TestFSCPUIDs(t *testing.T) {
	fs := NewFS(testdataSys(t))
	ids, err := fs.CPUIDs()
	if err != nil {
		t.Fatalf("CPUIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != 0 || ids[1] != 1 {
		t.Fatalf("got %v, want [0 1]", ids)
	}
}

func TestFSPowerSupplyNames(t *testing.T) {
	fs := NewFS(testdataSys(t))
	names, err := fs.PowerSupplyNames()
	if err != nil {
		t.Fatalf("PowerSupplyNames: %v", err)
	}
	want := map[string]bool{"AC": true, "BAT0": true}
	if len(names) != len(want) {
		t.Fatalf("got %v, want keys of %v", names, want)
	}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected power supply %q", n)
		}
	}
}

func TestFSThermalZones(t *testing.T) {
	fs := NewFS(testdataSys(t))
	zones, err := fs.ThermalZones()
	if err != nil {
		t.Fatalf("ThermalZones: %v", err)
	}
	if len(zones) != 1 || zones[0] != 0 {
		t.Fatalf("got %v, want [0]", zones)
	}
}

func TestReadString(t *testing.T) {
	fs := NewFS(testdataSys(t))
	got, err := ReadString(fs.CPUAttr(0, "scaling_governor"))
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if got != "powersave" {
		t.Fatalf("got %q, want %q", got, "powersave")
	}
}

func TestReadStringNotPresent(t *testing.T) {
	fs := NewFS(testdataSys(t))
	_, err := ReadString(fs.CPUAttr(0, "does_not_exist"))
	if !errors.Is(err, ErrNotPresent) {
		t.Fatalf("got %v, want ErrNotPresent", err)
	}
}

func TestReadInt64(t *testing.T) {
	fs := NewFS(testdataSys(t))
	got, err := ReadInt64(fs.CPUAttr(0, "scaling_cur_freq"))
	if err != nil {
		t.Fatalf("ReadInt64: %v", err)
	}
	if got != 2200000 {
		t.Fatalf("got %d, want 2200000", got)
	}
}

func TestReadList(t *testing.T) {
	fs := NewFS(testdataSys(t))
	got, err := ReadList(fs.CPUAttr(0, "scaling_available_governors"))
	if err != nil {
		t.Fatalf("ReadList: %v", err)
	}
	want := []string{"performance", "powersave"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestReadBracketed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scheduler")
	if err := os.WriteFile(path, []byte("noop [mq-deadline] bfq\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	all, active, err := ReadBracketed(path)
	if err != nil {
		t.Fatalf("ReadBracketed: %v", err)
	}
	if active != "mq-deadline" {
		t.Fatalf("active = %q, want mq-deadline", active)
	}
	if len(all) != 3 {
		t.Fatalf("all = %v, want 3 entries", all)
	}
}
