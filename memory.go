package nativearray

// Memory represents a raw, byte-addressed memory region.
// Offsets are absolute addresses inside the region; 0 is never a valid block address.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU32(offset uint32) (uint32, error)
	WriteU32(offset uint32, value uint32) error
	// Copy copies length bytes from src to dst. Overlapping ranges are allowed.
	Copy(src, dst, length uint32) error
}

// MemorySizer provides the current size of the memory region in bytes.
type MemorySizer interface {
	Size() uint32
}

// Allocator hands out blocks of raw memory.
// The size passed to Free is advisory; implementations track their own block sizes.
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}
