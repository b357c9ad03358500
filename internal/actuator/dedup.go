package actuator

import (
	"errors"

	"github.com/wattpower/watt/internal/sysfs"
)

// DedupCache tracks the last-seen outcome kind per (target, setting) pair
// so the daemon logs a given failure once and then stays silent until the
// kind changes. A plain map with no lock: only the loop thread ever
// touches it.
type DedupCache struct {
	last map[string]string
}

// NewDedupCache creates an empty cache.
func NewDedupCache() *DedupCache {
	return &DedupCache{last: make(map[string]string)}
}

// ShouldLog reports whether r's outcome kind is new for its (Target,
// Setting) pair, and records it as the new baseline regardless of the
// answer — a kind that repeats across ticks returns false every time
// after the first.
func (c *DedupCache) ShouldLog(r Result) bool {
	key := r.Target + "\x00" + r.Setting
	kind := fingerprint(r)
	if c.last[key] == kind {
		return false
	}
	c.last[key] = kind
	return true
}

// fingerprint distinguishes an Error's underlying sentinel (permission
// denied vs. invalid value) so a change in failure kind still logs even
// though both map to the same Outcome.
func fingerprint(r Result) string {
	if r.Outcome != Error || r.Err == nil {
		return r.Outcome.String()
	}
	for _, sentinel := range []error{
		sysfs.ErrPermissionDenied, sysfs.ErrInvalidValue, sysfs.ErrPathNotAllowed,
		errNotInCapabilitySet, errPairInversion,
	} {
		if errors.Is(r.Err, sentinel) {
			return r.Outcome.String() + ":" + sentinel.Error()
		}
	}
	return r.Outcome.String() + ":" + r.Err.Error()
}
