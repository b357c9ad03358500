package main

import (
	"fmt"
	"time"
)

// parseNonNegativeDuration parses a flag-supplied duration string,
// rejecting negative durations early rather than letting them flow into
// history.New, which silently replaces them with the default window age.
func parseNonNegativeDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative: %s", s)
	}
	return d, nil
}
