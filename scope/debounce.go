package scope

import "time"

// Debouncer drops events arriving within Interval of the last accepted one.
// Touch panels often report a single tap more than once.
type Debouncer struct {
	Interval time.Duration
	last     time.Time
}

// Allow reports whether an event at now should be handled.
func (d *Debouncer) Allow(now time.Time) bool {
	if !d.last.IsZero() && now.Sub(d.last) < d.Interval {
		return false
	}
	d.last = now
	return true
}
