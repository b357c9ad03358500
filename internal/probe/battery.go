package probe

import (
	"strings"

	"github.com/wattpower/watt/internal/report"
	"github.com/wattpower/watt/internal/sysfs"
)

// detectVendor picks the VendorKind whose charge-threshold backend a
// power supply needs. Detection walks the attribute set actually present
// rather than trusting DMI strings, since the probe only has sysfs to
// work with.
func detectVendor(fs *sysfs.FS, name string) report.VendorKind {
	switch {
	case sysfs.Exists(fs.PowerSupplyAttr(name, "charge_control_start_threshold")) &&
		sysfs.Exists(fs.PowerSupplyAttr(name, "charge_control_end_threshold")):
		return report.VendorThinkPad
	case sysfs.Exists(fs.PowerSupplyAttr(name, "charge_control_end_threshold")):
		return report.VendorAsus
	default:
		return report.VendorGeneric
	}
}

// readBatteries reads every power_supply entry of type "Battery" and
// derives the overall on_ac flag from the "Mains"/"USB"/"Wireless"
// entries' online attribute.
func readBatteries(fs *sysfs.FS) (batteries []report.Battery, onAC bool) {
	names, err := fs.PowerSupplyNames()
	if err != nil {
		return nil, false
	}
	for _, name := range names {
		typ, err := sysfs.ReadString(fs.PowerSupplyAttr(name, "type"))
		if err != nil {
			continue
		}
		switch typ {
		case "Battery":
			batteries = append(batteries, readBattery(fs, name))
		case "Mains", "USB", "Wireless":
			if online, err := sysfs.ReadInt64(fs.PowerSupplyAttr(name, "online")); err == nil && online != 0 {
				onAC = true
			}
		}
	}
	return batteries, onAC
}

func readBattery(fs *sysfs.FS, name string) report.Battery {
	b := report.Battery{Name: name, Vendor: detectVendor(fs, name)}

	if v, err := sysfs.ReadInt64(fs.PowerSupplyAttr(name, "capacity")); err == nil {
		b.ChargeFraction = clampFraction(float64(v) / 100.0)
	}

	status, _ := sysfs.ReadString(fs.PowerSupplyAttr(name, "status"))
	discharging := strings.EqualFold(status, "Discharging")

	b.DrawW = readDrawW(fs, name, discharging)

	start, startErr := sysfs.ReadInt64(fs.PowerSupplyAttr(name, "charge_control_start_threshold"))
	end, endErr := sysfs.ReadInt64(fs.PowerSupplyAttr(name, "charge_control_end_threshold"))
	if startErr == nil && endErr == nil {
		b.ChargeThresholdSupported = true
		b.ChargeStartThreshold = int(start)
		b.ChargeEndThreshold = int(end)
	} else if endErr == nil {
		// ASUS-style boards expose only the end threshold; start is
		// implicitly 0.
		b.ChargeThresholdSupported = true
		b.ChargeEndThreshold = int(end)
	}

	return b
}

// readDrawW returns the signed instantaneous power draw in watts. Prefers
// power_now (already in µW) when present; otherwise derives watts from
// current_now and voltage_now (both µ-units). Sign follows "negative =
// discharging" regardless of what the kernel attribute itself reports,
// since some drivers publish an unsigned magnitude and rely on `status`
// for direction.
func readDrawW(fs *sysfs.FS, name string, discharging bool) float64 {
	var watts float64
	if v, err := sysfs.ReadInt64(fs.PowerSupplyAttr(name, "power_now")); err == nil {
		watts = float64(v) / 1_000_000.0
	} else {
		current, currErr := sysfs.ReadInt64(fs.PowerSupplyAttr(name, "current_now"))
		voltage, voltErr := sysfs.ReadInt64(fs.PowerSupplyAttr(name, "voltage_now"))
		if currErr != nil {
			return 0
		}
		if voltErr != nil {
			voltage = 12_000_000 // assume 12V nominal pack when unreported
		}
		watts = (float64(current) / 1_000_000.0) * (float64(voltage) / 1_000_000.0)
	}
	if watts < 0 {
		watts = -watts
	}
	if discharging {
		return -watts
	}
	return watts
}

func clampFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
