package simd

import (
	"encoding/binary"
	"math/bits"
)

// memchrGeneric finds needle with SWAR: the needle is broadcast into every
// byte of a uint64, XORed against 8 haystack bytes at a time, and the first
// zero byte of the result marks the match.
func memchrGeneric(haystack []byte, needle byte) int {
	n := len(haystack)
	i := 0
	if n >= 8 {
		mask := uint64(needle) * lo8
		for ; i+8 <= n; i += 8 {
			chunk := binary.LittleEndian.Uint64(haystack[i:])
			if z := zeroBytes(chunk ^ mask); z != 0 {
				return i + bits.TrailingZeros64(z)/8
			}
		}
	}
	for ; i < n; i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}

// memchr2Generic is memchrGeneric for two needles checked in parallel.
func memchr2Generic(haystack []byte, needle1, needle2 byte) int {
	n := len(haystack)
	i := 0
	if n >= 8 {
		mask1 := uint64(needle1) * lo8
		mask2 := uint64(needle2) * lo8
		for ; i+8 <= n; i += 8 {
			chunk := binary.LittleEndian.Uint64(haystack[i:])
			if z := zeroBytes(chunk^mask1) | zeroBytes(chunk^mask2); z != 0 {
				return i + bits.TrailingZeros64(z)/8
			}
		}
	}
	for ; i < n; i++ {
		if c := haystack[i]; c == needle1 || c == needle2 {
			return i
		}
	}
	return -1
}

// memchr3Generic is memchrGeneric for three needles checked in parallel.
func memchr3Generic(haystack []byte, needle1, needle2, needle3 byte) int {
	n := len(haystack)
	i := 0
	if n >= 8 {
		mask1 := uint64(needle1) * lo8
		mask2 := uint64(needle2) * lo8
		mask3 := uint64(needle3) * lo8
		for ; i+8 <= n; i += 8 {
			chunk := binary.LittleEndian.Uint64(haystack[i:])
			z := zeroBytes(chunk^mask1) | zeroBytes(chunk^mask2) | zeroBytes(chunk^mask3)
			if z != 0 {
				return i + bits.TrailingZeros64(z)/8
			}
		}
	}
	for ; i < n; i++ {
		if c := haystack[i]; c == needle1 || c == needle2 || c == needle3 {
			return i
		}
	}
	return -1
}
