//go:build unix

package heap

import (
	"context"
	"encoding/binary"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/wippyai/nativearray/errors"
)

// defaultMappedLimitPages is 16MB.
const defaultMappedLimitPages = 256

// maxMappedPages keeps the region size representable as uint32.
const maxMappedPages = 65535

// mappedRegion is an anonymous private mapping reserved up front.
// Grow only moves the logical size; the kernel commits pages on first touch.
type mappedRegion struct {
	data     []byte
	pages    uint32
	maxPages uint32
}

// NewMapped creates a heap backed by an anonymous mmap reservation.
func NewMapped(cfg *Config) (*Heap, error) {
	limit := cfg.limitPages(defaultMappedLimitPages)
	if limit > maxMappedPages {
		return nil, errors.InvalidInput(errors.PhaseHeap, "mapped region limited to 65535 pages")
	}

	data, err := unix.Mmap(-1, 0, int(limit)*PageSize,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHeap, errors.KindAllocation, err, "mmap region")
	}

	r := &mappedRegion{data: data, pages: 1, maxPages: limit}
	Logger().Debug("mapped heap created", zap.Uint32("limit_pages", limit))

	return newHeap(r, func(context.Context) error {
		return r.unmap()
	}), nil
}

func (r *mappedRegion) unmap() error {
	if r.data == nil {
		return nil
	}
	err := unix.Munmap(r.data)
	r.data = nil
	r.pages = 0
	return err
}

func (r *mappedRegion) Size() uint32 {
	return r.pages * PageSize
}

func (r *mappedRegion) Grow(deltaPages uint32) (uint32, bool) {
	prev := r.pages
	if uint64(prev)+uint64(deltaPages) > uint64(r.maxPages) {
		return prev, false
	}
	r.pages += deltaPages
	return prev, true
}

func (r *mappedRegion) Read(offset, byteCount uint32) ([]byte, bool) {
	if !r.inBounds(offset, byteCount) {
		return nil, false
	}
	return r.data[offset : offset+byteCount : offset+byteCount], true
}

func (r *mappedRegion) Write(offset uint32, v []byte) bool {
	if !r.inBounds(offset, uint32(len(v))) {
		return false
	}
	copy(r.data[offset:], v)
	return true
}

func (r *mappedRegion) ReadUint32Le(offset uint32) (uint32, bool) {
	if !r.inBounds(offset, 4) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(r.data[offset:]), true
}

func (r *mappedRegion) WriteUint32Le(offset, v uint32) bool {
	if !r.inBounds(offset, 4) {
		return false
	}
	binary.LittleEndian.PutUint32(r.data[offset:], v)
	return true
}

func (r *mappedRegion) inBounds(offset, n uint32) bool {
	return uint64(offset)+uint64(n) <= uint64(r.Size())
}
