package score

import (
	"math"
	"time"
)

// minLatencyMillis keeps near-instant evidence lookups from reporting 0.
const minLatencyMillis = 1

// Millis converts d to whole milliseconds, rounding up, never below 1.
func Millis(d time.Duration) int {
	ms := int(math.Ceil(d.Seconds() * 1000))
	if ms < minLatencyMillis {
		return minLatencyMillis
	}
	return ms
}

// Measure runs fn and returns its result with the elapsed wall-clock time
// in milliseconds as computed by Millis.
func Measure[T any](fn func() (T, error)) (T, int, error) {
	start := time.Now()
	v, err := fn()
	return v, Millis(time.Since(start)), err
}

// SumLatencies returns the net latency: the plain sum of the parts.
func SumLatencies(parts ...int) int {
	var total int
	for _, p := range parts {
		total += p
	}
	return total
}
