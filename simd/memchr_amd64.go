//go:build amd64

package simd

import (
	"bytes"

	"golang.org/x/sys/cpu"
)

// hasAVX2 reports whether the runtime's IndexByte runs its 256-bit loop.
var hasAVX2 = cpu.X86.HasAVX2

// vectorMinLen is the input length from which the vector path pays off.
const vectorMinLen = 32

// vectorWindow bounds how far a multi-needle scan runs ahead of the earliest
// match found so far.
const vectorWindow = 256

// Memchr returns the index of the first instance of needle in haystack,
// or -1 if needle is not present.
func Memchr(haystack []byte, needle byte) int {
	if hasAVX2 && len(haystack) >= vectorMinLen {
		return bytes.IndexByte(haystack, needle)
	}
	return memchrGeneric(haystack, needle)
}

// Memchr2 returns the index of the first instance of either needle1 or
// needle2 in haystack, or -1 if neither is present.
func Memchr2(haystack []byte, needle1, needle2 byte) int {
	if hasAVX2 && len(haystack) >= vectorMinLen {
		return indexWindowed(haystack, needle1, needle2, needle2)
	}
	return memchr2Generic(haystack, needle1, needle2)
}

// Memchr3 returns the index of the first instance of needle1, needle2 or
// needle3 in haystack, or -1 if none is present.
func Memchr3(haystack []byte, needle1, needle2, needle3 byte) int {
	if hasAVX2 && len(haystack) >= vectorMinLen {
		return indexWindowed(haystack, needle1, needle2, needle3)
	}
	return memchr3Generic(haystack, needle1, needle2, needle3)
}

// indexWindowed runs one vector scan per needle over fixed windows, each scan
// limited to the part of the window before the earliest hit so far.
func indexWindowed(haystack []byte, needle1, needle2, needle3 byte) int {
	for base := 0; base < len(haystack); base += vectorWindow {
		w := haystack[base:min(base+vectorWindow, len(haystack))]
		best := bytes.IndexByte(w, needle1)
		limit := len(w)
		if best >= 0 {
			limit = best
		}
		if i := bytes.IndexByte(w[:limit], needle2); i >= 0 {
			best, limit = i, i
		}
		if needle3 != needle2 {
			if i := bytes.IndexByte(w[:limit], needle3); i >= 0 {
				best = i
			}
		}
		if best >= 0 {
			return base + best
		}
	}
	return -1
}
