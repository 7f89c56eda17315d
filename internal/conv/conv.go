// Package conv provides checked integer conversions for graph construction.
//
// Node IDs are uint32 indices into an arena. Converting an arena length or an
// input offset must never wrap silently, so these helpers panic on overflow:
// a graph that large is a programming error, not a user error.
package conv

import "math"

// IntToUint32 converts n to uint32.
// Panics if n < 0 or n > math.MaxUint32.
func IntToUint32(n int) uint32 {
	// Compare as uint so 32-bit platforms do not overflow the constant.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// IntToUint64 converts a non-negative n to uint64.
// Panics if n < 0.
func IntToUint64(n int) uint64 {
	if n < 0 {
		panic("integer overflow: negative int has no uint64 value")
	}
	return uint64(n)
}
