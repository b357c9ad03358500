package actuator

import (
	"github.com/wattpower/watt/internal/report"
	"github.com/wattpower/watt/internal/sysfs"
)

// PlatformProfile writes the ACPI platform_profile attribute. It is
// machine-wide, like Turbo.
type PlatformProfile struct {
	FS     *sysfs.FS
	Writer *sysfs.Writer
}

// Apply writes value, rejected as Unsupported when it isn't one of the
// platform's discovered profile choices (the single active profile
// counts as available when no choice list is published).
func (p PlatformProfile) Apply(caps report.Capabilities, value string) Result {
	if !caps.HasPlatformProfile(value) {
		return unsupported("platform-profile", "all", errNotInCapabilitySet)
	}
	err := p.Writer.WriteString(p.FS.PlatformProfilePath(), value)
	return classify("platform-profile", "all", err)
}
