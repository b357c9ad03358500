package env

import (
	"testing"
	"time"

	"github.com/hashicorp/go-set/v3"

	"github.com/wattpower/watt/internal/expr"
	"github.com/wattpower/watt/internal/history"
	"github.com/wattpower/watt/internal/report"
)

func baseReport() *report.SystemReport {
	return &report.SystemReport{
		Timestamp: time.Unix(1700000000, 0),
		Cores: []report.Core{
			{ID: 0, HardwareMaxKHz: 3600000, HardwareMinKHz: 800000, ScalingMaxKHz: 3600000},
			{ID: 1, HardwareMaxKHz: 3600000, HardwareMinKHz: 800000, ScalingMaxKHz: 2800000},
		},
		ThermalZones:  []report.ThermalZone{{ID: 0, TempC: 87.4}},
		LoadAverage1:  1.25,
		LoadAverage5:  0.98,
		LoadAverage15: 0.77,
		Capabilities: report.Capabilities{
			Governors:          set.From([]string{"performance", "powersave"}),
			TurboAvailable:     true,
			FrequencyAvailable: true,
		},
	}
}

func TestCpuTemperatureReadsMaxZone(t *testing.T) {
	e := New(baseReport(), history.New(0, 0))
	v := e.Var(expr.VarMetric, "cpu-temperature")
	n, ok := v.AsNumber()
	if !ok || n != 87.4 {
		t.Fatalf("got %v, want 87.4", v)
	}
}

func TestPowerSupplyChargeUnavailableWithoutBatteries(t *testing.T) {
	e := New(baseReport(), history.New(0, 0))
	v := e.Var(expr.VarRatio, "power-supply-charge")
	if !v.IsUnavailable() {
		t.Fatalf("got %v, want Unavailable on a desktop with no batteries", v)
	}
}

func TestDischargingPredicateRequiresNegativeDrawAndNotOnAC(t *testing.T) {
	r := baseReport()
	r.Batteries = []report.Battery{{Name: "BAT0", DrawW: -10}}
	r.OnAC = false
	e := New(r, history.New(0, 0))
	v := e.Var(expr.VarPredicate, "discharging")
	if !v.IsTrue() {
		t.Fatalf("got %v, want true", v)
	}
}

func TestDischargingPredicateFalseOnAC(t *testing.T) {
	r := baseReport()
	r.Batteries = []report.Battery{{Name: "BAT0", DrawW: -10}}
	r.OnAC = true
	e := New(r, history.New(0, 0))
	v := e.Var(expr.VarPredicate, "discharging")
	b, ok := v.AsBool()
	if !ok || b {
		t.Fatalf("got %v, want false while on AC", v)
	}
}

func TestGovernorPredicateMembership(t *testing.T) {
	e := New(baseReport(), history.New(0, 0))
	v := e.Predicate(expr.PredicateGovernor, "performance")
	if !v.IsTrue() {
		t.Fatal("expected performance to be an available governor")
	}
	v = e.Predicate(expr.PredicateGovernor, "ondemand")
	if v.IsTrue() {
		t.Fatal("expected ondemand to be unavailable")
	}
}

func TestCpuScalingMaximumTakesMaxAcrossCores(t *testing.T) {
	e := New(baseReport(), history.New(0, 0))
	v := e.Var(expr.VarMetric, "cpu-scaling-maximum")
	n, ok := v.AsNumber()
	if !ok || n != 3600 {
		t.Fatalf("got %v, want 3600 MHz", v)
	}
}

func TestCpuUsageSinceDelegatesToHistory(t *testing.T) {
	h := history.New(100, time.Hour)
	base := time.Unix(1700000000, 0)
	for i := 0; i <= 6; i++ {
		h.Append(history.Sample{Timestamp: base.Add(time.Duration(i) * time.Second), CPUUsage: 0.5})
	}
	e := New(baseReport(), h)
	v := e.CPUUsageSince(3 * time.Second)
	n, ok := v.AsNumber()
	if !ok || n != 0.5 {
		t.Fatalf("got %v, want 0.5", v)
	}
}

func TestFrequencyAvailablePredicate(t *testing.T) {
	e := New(baseReport(), history.New(0, 0))
	v := e.Var(expr.VarPredicate, "frequency-available")
	if !v.IsTrue() {
		t.Fatal("expected frequency-available to be true")
	}
}
