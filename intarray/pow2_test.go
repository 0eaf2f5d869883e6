package intarray

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		in   uint32
		want uint32
	}{
		{1, 2},
		{2, 4},
		{3, 4},
		{5, 8},
		{64, 128},
		{65, 128},
		{100, 128},
		{408, 512},
		{4008, 4096},
		{32768, 65536},
		{1<<30 + 1, 1 << 31},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, nextPowerOfTwo(tt.in), "nextPowerOfTwo(%d)", tt.in)
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, n := range []uint64{1, 2, 64, 128, 1 << 31, 1 << 40} {
		assert.True(t, isPowerOfTwo(n), "%d", n)
	}
	for _, n := range []uint64{0, 3, 63, 408, 1<<31 + 1} {
		assert.False(t, isPowerOfTwo(n), "%d", n)
	}
}

func TestHandleString(t *testing.T) {
	assert.Equal(t, "0x48", Handle(72).String())
}
