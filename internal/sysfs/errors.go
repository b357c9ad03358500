// Package sysfs provides typed, privilege-aware read/write access to the
// kernel's cpufreq, power_supply, thermal, and ACPI platform-profile
// attributes under /sys, plus enumeration of the CPUs and power supplies
// that expose them.
package sysfs

import "errors"

// Sentinel error kinds. These are classification outcomes, not a type
// hierarchy: callers compare with errors.Is against the values below.
var (
	// ErrNotPresent means the attribute file does not exist.
	ErrNotPresent = errors.New("sysfs: attribute not present")
	// ErrUnreadable means the attribute exists but could not be read
	// (permissions, or the kernel returned an I/O error on read).
	ErrUnreadable = errors.New("sysfs: attribute unreadable")
	// ErrPermissionDenied means a write failed with EACCES.
	ErrPermissionDenied = errors.New("sysfs: permission denied")
	// ErrUnsupported means a write target doesn't exist (ENOENT) or the
	// kernel reports the operation isn't supported (EOPNOTSUPP).
	ErrUnsupported = errors.New("sysfs: unsupported")
	// ErrInvalidValue means the kernel rejected the written value (EINVAL).
	ErrInvalidValue = errors.New("sysfs: invalid value")
	// ErrPathNotAllowed means the resolved path escapes the set of
	// directories watt is willing to write to.
	ErrPathNotAllowed = errors.New("sysfs: path not allowed")
)
