package heap

// PageSize is the growth granularity of a Region (the WebAssembly page size).
const PageSize = 65536

// Region is a page-granular, growable span of raw bytes.
// It is the subset of wazero's api.Memory the heap needs, so a wazero
// memory satisfies it directly.
type Region interface {
	// Size returns the region size in bytes.
	Size() uint32

	// Grow adds deltaPages pages and returns the previous page count.
	// ok is false if the region cannot grow that far.
	Grow(deltaPages uint32) (previousPages uint32, ok bool)

	// Read returns a writable view of byteCount bytes at offset.
	// The view is invalidated by Grow.
	Read(offset, byteCount uint32) ([]byte, bool)

	// Write copies v into the region at offset.
	Write(offset uint32, v []byte) bool

	// ReadUint32Le reads a little-endian uint32 at offset.
	ReadUint32Le(offset uint32) (uint32, bool)

	// WriteUint32Le writes a little-endian uint32 at offset.
	WriteUint32Le(offset, v uint32) bool
}

// Config holds configuration for heap creation
type Config struct {
	// MemoryLimitPages caps the region size in pages (64KB each).
	// 0 means the backend default.
	// 256 = 16MB, 1024 = 64MB, 4096 = 256MB
	MemoryLimitPages uint32
}

func (c *Config) limitPages(def uint32) uint32 {
	if c == nil || c.MemoryLimitPages == 0 {
		return def
	}
	return c.MemoryLimitPages
}
