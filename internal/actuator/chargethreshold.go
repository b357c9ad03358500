package actuator

import (
	"github.com/wattpower/watt/internal/report"
	"github.com/wattpower/watt/internal/sysfs"
)

// ChargeThreshold writes battery charge-control thresholds, resolving the
// attribute path set from the battery's detected VendorKind: ThinkPad and
// the generic fallback expose both
// charge_control_start_threshold/_end_threshold; ASUS boards expose only
// the end threshold, so a start write against an ASUS battery is rejected
// as Unsupported rather than attempted.
type ChargeThreshold struct {
	FS     *sysfs.FS
	Writer *sysfs.Writer
}

// SetStart writes the start threshold, converting the 0.0..1.0 fraction to
// an integer 0..100 percentage. endFraction is the value the end
// threshold will hold once this tick's writes are done (either unchanged,
// or about to be written too) — used to reject start >= end before
// anything is written.
func (c ChargeThreshold) SetStart(b report.Battery, startFraction, endFraction float64) Result {
	if b.Vendor == report.VendorAsus {
		return unsupported("charge-start-threshold", b.Name, errNotInCapabilitySet)
	}
	if !b.ChargeThresholdSupported {
		return unsupported("charge-start-threshold", b.Name, errNotInCapabilitySet)
	}
	if startFraction >= endFraction {
		return errResult("charge-start-threshold", b.Name, errPairInversion)
	}
	err := c.Writer.WriteInt64(c.FS.PowerSupplyAttr(b.Name, "charge_control_start_threshold"), fractionToPercent(startFraction))
	return classify("charge-start-threshold", b.Name, err)
}

// SetEnd writes the end threshold, converting the fraction to a
// percentage. startFraction mirrors SetStart's pairing argument.
func (c ChargeThreshold) SetEnd(b report.Battery, startFraction, endFraction float64) Result {
	if !b.ChargeThresholdSupported {
		return unsupported("charge-end-threshold", b.Name, errNotInCapabilitySet)
	}
	if startFraction >= endFraction {
		return errResult("charge-end-threshold", b.Name, errPairInversion)
	}
	err := c.Writer.WriteInt64(c.FS.PowerSupplyAttr(b.Name, "charge_control_end_threshold"), fractionToPercent(endFraction))
	return classify("charge-end-threshold", b.Name, err)
}

func fractionToPercent(f float64) int64 {
	return int64(f*100.0 + 0.5)
}
