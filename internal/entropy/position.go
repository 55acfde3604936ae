package entropy

import "math"

// Spatial hash multipliers: large odd primes, one per axis.
const (
	primeX int64 = 73856093
	primeY int64 = 19349663
	primeZ int64 = 83492791
)

// PositionQuantum is the scale applied to coordinates before hashing.
// Points closer together than 1/PositionQuantum in every axis share a seed.
const PositionQuantum = 1e6

// PositionSeed derives a seed that depends only on base and the exact
// position, so a body's identity is independent of generation order.
func PositionSeed(base uint64, x, y, z float64) uint64 {
	h := quantize(x*PositionQuantum)*primeX ^
		quantize(y*PositionQuantum)*primeY ^
		quantize(z*PositionQuantum)*primeZ
	return base + uint64(h)
}

// quantize truncates toward zero and saturates at the int64 limits.
// Go leaves out-of-range float conversions implementation-defined, and
// coordinates beyond ~60 AU overflow int64 once scaled to micrometers.
func quantize(v float64) int64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	}
	return int64(v)
}
