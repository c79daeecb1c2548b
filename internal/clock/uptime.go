package clock

import "math"

// MaxUptime is the largest value of the host's millisecond counter before
// it wraps to zero.
const MaxUptime = math.MaxUint32

// UptimeDelta returns the milliseconds elapsed between two readings of the
// uptime counter, tolerating one wraparound in between.
func UptimeDelta(last, now uint32) uint32 {
	if now >= last {
		return now - last
	}
	return MaxUptime - last + 1 + now
}
