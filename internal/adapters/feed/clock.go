package feed

import "time"

// Clock returns the current cycle count of the stream clock. Records carry
// their stage timestamps in cycles; sources stamp T1 at parse time.
type Clock func() uint32

// CycleClock returns a Clock counting periodNs-nanosecond cycles since its
// creation. The count wraps at 32 bits, matching the timestamp field width.
func CycleClock(periodNs uint64) Clock {
	if periodNs == 0 {
		periodNs = 1
	}
	start := time.Now()
	return func() uint32 {
		return uint32(uint64(time.Since(start).Nanoseconds()) / periodNs)
	}
}
