// Package time contains time related helpers for epoch-millisecond data
package time

import "time"

// FromMillis converts epoch milliseconds to a UTC time.Time
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
