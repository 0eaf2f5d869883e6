package intarray

// nextPowerOfTwo smears the highest set bit down and adds one.
// There is no pre-decrement, so a power of two maps to the next one
// (64 -> 128). The caller must keep 0 < n < 1<<31; larger inputs wrap.
func nextPowerOfTwo(n uint32) uint32 {
	n |= n >> 16
	n |= n >> 8
	n |= n >> 4
	n |= n >> 2
	n |= n >> 1
	return n + 1
}

func isPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// maxFootprint is the largest footprint nextPowerOfTwo accepts.
const maxFootprint = 1<<31 - 1
