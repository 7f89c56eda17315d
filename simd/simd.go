// Package simd provides fast byte searching for the prefilters that pick
// candidate start offsets.
//
// The package selects the best implementation based on the CPU. On x86-64
// with AVX2 it hands long scans to the runtime's vectorised bytes.IndexByte;
// elsewhere, and for short inputs, it uses SWAR (SIMD Within A Register) loops
// that test 8 bytes per uint64 operation.
package simd

// Broadcast constants for SWAR zero-byte detection.
const (
	lo8 = 0x0101010101010101
	hi8 = 0x8080808080808080
)

// zeroBytes returns a mask whose high bit is set in the lowest byte of v that
// is zero. Bits above the first zero byte may be spurious, so callers only use
// the lowest set bit.
func zeroBytes(v uint64) uint64 {
	return (v - lo8) & ^v & hi8
}
