package sysfs

import "testing"

func TestPathGuardAllows(t *testing.T) {
	g := NewPathGuard([]string{"/sys/devices/system/cpu"})
	if err := g.Check("/sys/devices/system/cpu/cpu0/cpufreq/scaling_governor"); err != nil {
		t.Fatalf("expected allowed path, got %v", err)
	}
}

func TestPathGuardRejectsEscape(t *testing.T) {
	g := NewPathGuard([]string{"/sys/devices/system/cpu"})
	if err := g.Check("/sys/devices/system/cpu/../../../etc/passwd"); err == nil {
		t.Fatal("expected rejection of path traversal")
	}
}

func TestPathGuardRejectsUnrelatedRoot(t *testing.T) {
	g := NewPathGuard([]string{"/sys/class/power_supply"})
	if err := g.Check("/sys/devices/system/cpu/cpu0/cpufreq/scaling_governor"); err == nil {
		t.Fatal("expected rejection of path outside allowed roots")
	}
}

func TestPathGuardDefaultRoots(t *testing.T) {
	g := NewPathGuard(nil)
	if err := g.Check("/sys/firmware/acpi/platform_profile"); err != nil {
		t.Fatalf("expected default roots to allow platform_profile, got %v", err)
	}
}
