package simd

// ByteTable is a membership table over all 256 byte values.
type ByteTable [256]bool

// NewByteTable returns a table containing exactly the given bytes.
func NewByteTable(members []byte) *ByteTable {
	var t ByteTable
	for _, b := range members {
		t[b] = true
	}
	return &t
}

// IndexAny returns the index of the first byte of haystack that is in table,
// or -1 if there is none. The loop is unrolled four ways since a table lookup
// cannot be vectorised without a shuffle instruction.
func IndexAny(haystack []byte, table *ByteTable) int {
	n := len(haystack)
	i := 0
	for ; i+4 <= n; i += 4 {
		if table[haystack[i]] {
			return i
		}
		if table[haystack[i+1]] {
			return i + 1
		}
		if table[haystack[i+2]] {
			return i + 2
		}
		if table[haystack[i+3]] {
			return i + 3
		}
	}
	for ; i < n; i++ {
		if table[haystack[i]] {
			return i
		}
	}
	return -1
}
