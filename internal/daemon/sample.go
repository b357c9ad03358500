package daemon

import (
	"github.com/wattpower/watt/internal/history"
	"github.com/wattpower/watt/internal/report"
)

// sampleFromReport builds the history.Sample retained for one tick's
// SystemReport.
func sampleFromReport(rpt *report.SystemReport, userActivity bool) history.Sample {
	s := history.Sample{
		Timestamp:        rpt.Timestamp,
		CPUUsage:         rpt.CPUUsageMean,
		OnAC:             rpt.OnAC,
		UserActivitySeen: userActivity,
	}
	if t, ok := rpt.MaxThermalZoneTempC(); ok {
		s.MaxCoreTempC = t
		s.TempValid = true
	}
	if c, ok := rpt.MeanBatteryCharge(); ok {
		s.BatteryCharge = c
		s.BatteryValid = true
	}
	if w, ok := rpt.TotalBatteryDrawW(); ok {
		s.BatteryDrawW = w
	}
	return s
}

// intervalInputs reads the signals NextInterval needs out of hist.
func intervalInputs(hist *history.History, onAC bool) IntervalInputs {
	in := IntervalInputs{OnAC: onAC}

	last, ok := hist.Last()
	if ok {
		in.CPUUsageMean = last.CPUUsage
	}

	if v, ok := hist.CPUUsageVolatility(); ok {
		in.CPUUsageVolatility = v
		in.CPUUsageVolatilityOK = true
	}
	if v, ok := hist.CPUTemperatureVolatility(); ok {
		in.CPUTemperatureVolatility = v
		in.CPUTemperatureVolatilityOK = true
	}
	if v, ok := hist.CPUIdleSeconds(); ok {
		in.CPUIdleSeconds = v
		in.CPUIdleSecondsOK = true
	}
	if v, ok := hist.PowerSupplyDischargeRate(); ok {
		in.DischargeRateW = v
		in.DischargeRateOK = true
	}
	in.UserActivitySignal = hist.UserActivitySignal()

	return in
}
