package probe

import (
	"fmt"
	"time"

	"github.com/prometheus/procfs"

	"github.com/wattpower/watt/internal/report"
	"github.com/wattpower/watt/internal/sysfs"
)

// Prober builds a fresh report.SystemReport from /proc and /sys each tick.
// It keeps the previous tick's jiffy counters so CPU usage can be computed
// as a delta. Cores are re-enumerated every tick; the last successful
// core list is kept only as a fallback for a failed enumeration. Power
// supplies are enumerated fresh every tick.
type Prober struct {
	proc procfs.FS
	sys  *sysfs.FS

	havePrev    bool
	prevPerCore map[int]cpuJiffies

	cachedCPUIDs []int
}

// New creates a Prober rooted at the given /proc and /sys mount points.
// Production callers pass "/proc" and "/sys"; tests point at fixture
// trees under testdata/.
func New(procRoot, sysRoot string) (*Prober, error) {
	proc, err := procfs.NewFS(procRoot)
	if err != nil {
		return nil, fmt.Errorf("open procfs at %s: %w", procRoot, err)
	}
	return &Prober{
		proc:        proc,
		sys:         sysfs.NewFS(sysRoot),
		prevPerCore: make(map[int]cpuJiffies),
	}, nil
}

// Probe takes one snapshot. now is passed in rather than read internally
// so callers (and tests) control the timestamp.
func (p *Prober) Probe(now time.Time) (*report.SystemReport, error) {
	stat, err := p.proc.Stat()
	if err != nil {
		return nil, fmt.Errorf("read /proc/stat: %w", err)
	}
	loadAvg, err := p.proc.LoadAvg()
	if err != nil {
		return nil, fmt.Errorf("read /proc/loadavg: %w", err)
	}

	ids, err := p.cpuIDs()
	if err != nil {
		return nil, fmt.Errorf("enumerate cpus: %w", err)
	}

	curPerCore := make(map[int]cpuJiffies, len(stat.CPU))
	for i, s := range stat.CPU {
		curPerCore[int(i)] = jiffiesFromStat(s)
	}

	cores := make([]report.Core, 0, len(ids))
	var usageSum float64
	for _, id := range ids {
		c := readCoreStatic(p.sys, id)
		if p.havePrev {
			if prev, ok := p.prevPerCore[id]; ok {
				if cur, ok := curPerCore[id]; ok {
					c.UsageFraction = usageFraction(prev, cur)
				}
			}
		}
		usageSum += c.UsageFraction
		cores = append(cores, c)
	}

	var cpuUsageMean float64
	if len(cores) > 0 {
		cpuUsageMean = usageSum / float64(len(cores))
	}

	batteries, onAC := readBatteries(p.sys)
	discharging := false
	for _, b := range batteries {
		if b.DrawW < 0 {
			discharging = true
			break
		}
	}

	r := &report.SystemReport{
		Timestamp:     now,
		Cores:         cores,
		LoadAverage1:  loadAvg.Load1,
		LoadAverage5:  loadAvg.Load5,
		LoadAverage15: loadAvg.Load15,
		CPUUsageMean:  cpuUsageMean,
		ThermalZones:  readThermalZones(p.sys),
		Batteries:     batteries,
		OnAC:          onAC,
		Discharging:   discharging,
		Capabilities:  readCapabilities(p.sys, ids),
	}

	p.prevPerCore = curPerCore
	p.havePrev = true

	return r, nil
}

// cpuIDs enumerates core ids afresh and caches the result. When
// enumeration fails it returns the cached list, if there is one.
func (p *Prober) cpuIDs() ([]int, error) {
	ids, err := p.sys.CPUIDs()
	if err != nil {
		if len(p.cachedCPUIDs) > 0 {
			return p.cachedCPUIDs, nil
		}
		return nil, err
	}
	p.cachedCPUIDs = ids
	return ids, nil
}
