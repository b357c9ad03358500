package probe

import (
	"github.com/wattpower/watt/internal/report"
	"github.com/wattpower/watt/internal/sysfs"
)

// readThermalZones reads every thermal_zone's type and temperature,
// converting milli-°C to °C. A zone whose temp file can't be
// read is skipped rather than aborting the probe.
func readThermalZones(fs *sysfs.FS) []report.ThermalZone {
	ids, err := fs.ThermalZones()
	if err != nil {
		return nil
	}
	zones := make([]report.ThermalZone, 0, len(ids))
	for _, id := range ids {
		milliC, err := sysfs.ReadInt64(fs.ThermalZoneAttr(id, "temp"))
		if err != nil {
			continue
		}
		typ, _ := sysfs.ReadString(fs.ThermalZoneAttr(id, "type"))
		zones = append(zones, report.ThermalZone{
			ID:    id,
			Type:  typ,
			TempC: float64(milliC) / 1000.0,
		})
	}
	return zones
}
