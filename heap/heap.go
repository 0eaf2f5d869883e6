package heap

import (
	"context"
	stderrors "errors"
	"sort"

	"go.uber.org/zap"

	nativearray "github.com/wippyai/nativearray"
	"github.com/wippyai/nativearray/errors"
)

var (
	_ nativearray.Memory      = (*Heap)(nil)
	_ nativearray.Allocator   = (*Heap)(nil)
	_ nativearray.MemorySizer = (*Heap)(nil)
)

const (
	// minAlign is the smallest alignment and size granule handed out.
	minAlign = 8

	// baseOffset keeps address 0 out of circulation so it can mean "no block".
	baseOffset = minAlign
)

// ErrNoSpace indicates the region could not grow to satisfy an allocation.
var ErrNoSpace = stderrors.New("heap: region cannot grow")

// span is a free range inside the region.
type span struct {
	off  uint32
	size uint32
}

func (s span) end() uint64 {
	return uint64(s.off) + uint64(s.size)
}

// Heap is a first-fit free-list allocator over a Region.
// It implements nativearray.Memory, nativearray.Allocator and nativearray.MemorySizer.
//
// Heap is not safe for concurrent use.
type Heap struct {
	region    Region
	closer    func(context.Context) error
	used      map[uint32]uint32
	free      []span // address ordered, never adjacent
	top       uint32
	liveBytes uint64
}

// Stats describes the allocator state.
type Stats struct {
	Allocations int
	LiveBytes   uint64
	FreeSpans   int
	FreeBytes   uint64
	Top         uint32
	RegionSize  uint32
}

// NewWithRegion creates a heap over a caller-supplied region.
// The region is not released by Close.
func NewWithRegion(r Region) *Heap {
	return newHeap(r, nil)
}

func newHeap(r Region, closer func(context.Context) error) *Heap {
	return &Heap{
		region: r,
		closer: closer,
		used:   make(map[uint32]uint32),
		top:    baseOffset,
	}
}

// Alloc reserves size bytes aligned to align and returns the block address.
// Sizes are rounded up to 8 bytes; alignments below 8 are raised to 8.
func (h *Heap) Alloc(size, align uint32) (uint32, error) {
	if h.region == nil {
		return 0, errors.NotInitialized(errors.PhaseHeap, "heap region")
	}
	if align < minAlign {
		align = minAlign
	}
	if align&(align-1) != 0 {
		return 0, errors.InvalidInput(errors.PhaseHeap, "alignment must be a power of two")
	}
	if size == 0 {
		size = minAlign
	}
	rounded := roundUp(uint64(size), minAlign)
	if rounded > uint64(^uint32(0)) {
		return 0, errors.AllocationFailed(errors.PhaseHeap, size, align, ErrNoSpace)
	}
	n := uint32(rounded)

	ptr, ok := h.takeFree(n, align)
	if !ok {
		var err error
		ptr, err = h.bump(n, align)
		if err != nil {
			return 0, err
		}
	}

	h.used[ptr] = n
	h.liveBytes += uint64(n)

	Logger().Debug("alloc",
		zap.Uint32("ptr", ptr),
		zap.Uint32("size", n),
		zap.Uint32("align", align))

	return ptr, nil
}

// takeFree carves n bytes out of the first free span that fits.
func (h *Heap) takeFree(n, align uint32) (uint32, bool) {
	for i, s := range h.free {
		start := roundUp(uint64(s.off), uint64(align))
		if start+uint64(n) > s.end() {
			continue
		}

		var repl []span
		if start > uint64(s.off) {
			repl = append(repl, span{off: s.off, size: uint32(start) - s.off})
		}
		if tail := s.end() - (start + uint64(n)); tail > 0 {
			repl = append(repl, span{off: uint32(start) + n, size: uint32(tail)})
		}

		h.free = append(h.free[:i], append(repl, h.free[i+1:]...)...)
		return uint32(start), true
	}
	return 0, false
}

// bump allocates from the top of the region, growing it by whole pages.
func (h *Heap) bump(n, align uint32) (uint32, error) {
	start := roundUp(uint64(h.top), uint64(align))
	end := start + uint64(n)
	if end > uint64(^uint32(0)) {
		return 0, errors.AllocationFailed(errors.PhaseHeap, n, align, ErrNoSpace)
	}

	if size := uint64(h.region.Size()); end > size {
		pages := (end - size + PageSize - 1) / PageSize
		if _, ok := h.region.Grow(uint32(pages)); !ok {
			return 0, errors.AllocationFailed(errors.PhaseHeap, n, align, ErrNoSpace)
		}
		Logger().Debug("region grown",
			zap.Uint64("pages", pages),
			zap.Uint32("size", h.region.Size()))
	}

	if start > uint64(h.top) {
		h.insertFree(span{off: h.top, size: uint32(start) - h.top})
	}
	h.top = uint32(end)
	return uint32(start), nil
}

// Free returns a block to the free list. Unknown pointers are ignored.
// The size and align arguments are advisory.
func (h *Heap) Free(ptr, size, align uint32) {
	n, ok := h.used[ptr]
	if !ok {
		Logger().Warn("free of unknown block", zap.Uint32("ptr", ptr), zap.Uint32("size", size))
		return
	}
	delete(h.used, ptr)
	h.liveBytes -= uint64(n)
	h.insertFree(span{off: ptr, size: n})

	Logger().Debug("free", zap.Uint32("ptr", ptr), zap.Uint32("size", n))
}

// insertFree adds s to the free list, merging neighbours and lowering top
// when the merged span reaches it.
func (h *Heap) insertFree(s span) {
	i := sort.Search(len(h.free), func(i int) bool { return h.free[i].off > s.off })

	if i > 0 && h.free[i-1].end() == uint64(s.off) {
		i--
		s = span{off: h.free[i].off, size: h.free[i].size + s.size}
		h.free = append(h.free[:i], h.free[i+1:]...)
	}
	if i < len(h.free) && s.end() == uint64(h.free[i].off) {
		s.size += h.free[i].size
		h.free = append(h.free[:i], h.free[i+1:]...)
	}

	if s.end() == uint64(h.top) {
		h.top = s.off
		return
	}

	h.free = append(h.free, span{})
	copy(h.free[i+1:], h.free[i:])
	h.free[i] = s
}

// Read returns a writable view of length bytes at offset.
// The view is only valid until the next Alloc.
func (h *Heap) Read(offset, length uint32) ([]byte, error) {
	if h.region == nil {
		return nil, errors.NotInitialized(errors.PhaseMemory, "heap region")
	}
	data, ok := h.region.Read(offset, length)
	if !ok {
		return nil, errors.OutOfRegion(errors.PhaseMemory, offset, length, h.region.Size())
	}
	return data, nil
}

// Write copies data into memory at offset.
func (h *Heap) Write(offset uint32, data []byte) error {
	if h.region == nil {
		return errors.NotInitialized(errors.PhaseMemory, "heap region")
	}
	if !h.region.Write(offset, data) {
		return errors.OutOfRegion(errors.PhaseMemory, offset, uint32(len(data)), h.region.Size())
	}
	return nil
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (h *Heap) ReadU32(offset uint32) (uint32, error) {
	if h.region == nil {
		return 0, errors.NotInitialized(errors.PhaseMemory, "heap region")
	}
	v, ok := h.region.ReadUint32Le(offset)
	if !ok {
		return 0, errors.OutOfRegion(errors.PhaseMemory, offset, 4, h.region.Size())
	}
	return v, nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (h *Heap) WriteU32(offset uint32, value uint32) error {
	if h.region == nil {
		return errors.NotInitialized(errors.PhaseMemory, "heap region")
	}
	if !h.region.WriteUint32Le(offset, value) {
		return errors.OutOfRegion(errors.PhaseMemory, offset, 4, h.region.Size())
	}
	return nil
}

// Copy copies length bytes from src to dst with memmove semantics.
func (h *Heap) Copy(src, dst, length uint32) error {
	if length == 0 {
		return nil
	}
	from, err := h.Read(src, length)
	if err != nil {
		return err
	}
	to, err := h.Read(dst, length)
	if err != nil {
		return err
	}
	copy(to, from)
	return nil
}

// Size returns the current region size in bytes.
func (h *Heap) Size() uint32 {
	if h.region == nil {
		return 0
	}
	return h.region.Size()
}

// Stats returns a snapshot of the allocator state.
func (h *Heap) Stats() Stats {
	st := Stats{
		Allocations: len(h.used),
		LiveBytes:   h.liveBytes,
		FreeSpans:   len(h.free),
		Top:         h.top,
		RegionSize:  h.Size(),
	}
	for _, s := range h.free {
		st.FreeBytes += uint64(s.size)
	}
	return st
}

// Close releases the backing region. The heap is unusable afterwards.
func (h *Heap) Close(ctx context.Context) error {
	if h.region == nil {
		return nil
	}
	h.region = nil
	h.used = nil
	h.free = nil
	if h.closer == nil {
		return nil
	}
	return h.closer(ctx)
}

func roundUp(v, align uint64) uint64 {
	return (v + align - 1) &^ (align - 1)
}
