package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// SinceMs returns milliseconds elapsed since start measured with NowFunc.
func SinceMs(start time.Time) int64 {
	return Now().Sub(start).Milliseconds()
}
