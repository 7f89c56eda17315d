package simd

import "bytes"

// Memmem returns the index of the first instance of needle in haystack,
// or -1 if needle is not present. An empty needle matches at 0, as with
// bytes.Index.
//
// The search anchors on the rarest byte of needle (see SelectRareByte),
// finds candidates for it with Memchr and verifies the full needle at each.
//
// Example:
//
//	pos := simd.Memmem([]byte("while (x) {"), []byte("(x)"))
//	// pos == 6
func Memmem(haystack, needle []byte) int {
	if len(needle) == 0 {
		return 0
	}
	if len(needle) > len(haystack) {
		return -1
	}
	if len(needle) == 1 {
		return Memchr(haystack, needle[0])
	}
	rare, rareIdx := SelectRareByte(needle)
	return MemmemRare(haystack, needle, rare, rareIdx)
}

// MemmemRare is Memmem with the anchor byte chosen by the caller, so a
// prefilter can select it once at build time. needle[rareIdx] must be rare.
func MemmemRare(haystack, needle []byte, rare byte, rareIdx int) int {
	n, m := len(haystack), len(needle)
	if m == 0 {
		return 0
	}
	// Candidates for the rare byte that leave room for the whole needle.
	pos := rareIdx
	for pos < n-(m-1-rareIdx) {
		i := Memchr(haystack[pos:n-(m-1-rareIdx)], rare)
		if i < 0 {
			return -1
		}
		pos += i
		start := pos - rareIdx
		if bytes.Equal(haystack[start:start+m], needle) {
			return start
		}
		pos++
	}
	return -1
}
