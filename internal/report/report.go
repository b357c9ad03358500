// Package report defines the immutable snapshot of machine state the probe
// layer produces each tick and every downstream component (history,
// environment, rule engine) reads from.
package report

import (
	"time"

	"github.com/hashicorp/go-set/v3"
)

// VendorKind identifies the battery vendor-specific sysfs quirks a charge
// threshold actuator must account for.
type VendorKind int

const (
	VendorGeneric VendorKind = iota
	VendorThinkPad
	VendorIdeaPad
	VendorAsus
	VendorHuawei
	VendorFramework
)

func (v VendorKind) String() string {
	switch v {
	case VendorThinkPad:
		return "thinkpad"
	case VendorIdeaPad:
		return "ideapad"
	case VendorAsus:
		return "asus"
	case VendorHuawei:
		return "huawei"
	case VendorFramework:
		return "framework"
	default:
		return "generic"
	}
}

// Core is one CPU core's state at the time of a snapshot.
type Core struct {
	ID int

	FrequencyKHz int64
	Governor     string
	EPP          string
	EPB          string

	// UsageFraction is (non-idle Δjiffies)/(total Δjiffies) since the
	// previous tick, clamped to [0,1]. 0 on the first tick.
	UsageFraction float64

	ScalingMinKHz  int64
	ScalingMaxKHz  int64
	HardwareMinKHz int64
	HardwareMaxKHz int64

	// PackageID is the physical package this core belongs to, used by
	// rule.CoreSelector's PackageIDs.
	PackageID int
}

// ThermalZone is one /sys/class/thermal/thermal_zone* reading.
type ThermalZone struct {
	ID    int
	Type  string
	TempC float64
}

// Battery is one /sys/class/power_supply entry of type Battery.
type Battery struct {
	Name string

	ChargeFraction float64 // 0.0..1.0
	DrawW          float64 // signed, negative while discharging

	ChargeStartThreshold     int
	ChargeEndThreshold       int
	ChargeThresholdSupported bool

	Vendor VendorKind
}

// Capabilities is the set of values the platform's actuators can accept,
// rediscovered fresh on every probe.
type Capabilities struct {
	Governors        set.Collection[string]
	EPPValues        set.Collection[string]
	EPBValues        set.Collection[string]
	PlatformProfiles set.Collection[string]

	FrequencyAvailable bool
	TurboAvailable     bool
}

func (c Capabilities) HasGovernor(name string) bool { return memberOf(c.Governors, name) }
func (c Capabilities) HasEPP(name string) bool      { return memberOf(c.EPPValues, name) }
func (c Capabilities) HasEPB(name string) bool      { return memberOf(c.EPBValues, name) }
func (c Capabilities) HasPlatformProfile(name string) bool {
	return memberOf(c.PlatformProfiles, name)
}

// memberOf treats a nil collection (a probe that never populated this
// capability, e.g. no EPB support on this CPU) as empty rather than
// panicking.
func memberOf(values set.Collection[string], want string) bool {
	if values == nil {
		return false
	}
	return values.Contains(want)
}

// SystemReport is an immutable snapshot of the machine taken once per tick.
// Nothing mutates it after construction; the rule engine, evaluator, and
// history all read it as a plain value.
type SystemReport struct {
	Timestamp time.Time

	Cores []Core

	LoadAverage1  float64
	LoadAverage5  float64
	LoadAverage15 float64
	CPUUsageMean  float64 // mean of Cores[*].UsageFraction

	ThermalZones []ThermalZone

	Batteries   []Battery
	OnAC        bool
	Discharging bool

	Capabilities Capabilities
}

// CoreByID finds a core by id, returning ok=false if not present.
func (r *SystemReport) CoreByID(id int) (Core, bool) {
	for _, c := range r.Cores {
		if c.ID == id {
			return c, true
		}
	}
	return Core{}, false
}

// CoresInPackage returns every core whose PackageID matches pkg.
func (r *SystemReport) CoresInPackage(pkg int) []Core {
	var out []Core
	for _, c := range r.Cores {
		if c.PackageID == pkg {
			out = append(out, c)
		}
	}
	return out
}

// MaxThermalZoneTempC returns the highest zone temperature, ok=false when
// no thermal zone was readable.
func (r *SystemReport) MaxThermalZoneTempC() (float64, bool) {
	if len(r.ThermalZones) == 0 {
		return 0, false
	}
	max := r.ThermalZones[0].TempC
	for _, z := range r.ThermalZones[1:] {
		if z.TempC > max {
			max = z.TempC
		}
	}
	return max, true
}

// MeanBatteryCharge returns the mean charge fraction across all batteries,
// ok=false when there are none.
func (r *SystemReport) MeanBatteryCharge() (float64, bool) {
	if len(r.Batteries) == 0 {
		return 0, false
	}
	var sum float64
	for _, b := range r.Batteries {
		sum += b.ChargeFraction
	}
	return sum / float64(len(r.Batteries)), true
}

// TotalBatteryDrawW sums signed battery draw across all batteries, ok=false
// when there are none.
func (r *SystemReport) TotalBatteryDrawW() (float64, bool) {
	if len(r.Batteries) == 0 {
		return 0, false
	}
	var sum float64
	for _, b := range r.Batteries {
		sum += b.DrawW
	}
	return sum, true
}
