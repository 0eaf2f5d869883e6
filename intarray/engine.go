package intarray

import (
	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	nativearray "github.com/wippyai/nativearray"
	"github.com/wippyai/nativearray/errors"
	"github.com/wippyai/nativearray/resource"
)

// Matchers for errors.Is.
var (
	ErrOutOfRange   = &errors.Error{Phase: errors.PhaseAccess, Kind: errors.KindOutOfBounds}
	ErrInvalidValue = &errors.Error{Phase: errors.PhaseAccess, Kind: errors.KindInvalidValue}
	ErrStale        = &errors.Error{Phase: errors.PhaseAccess, Kind: errors.KindStale}
)

// Config holds configuration for engine creation
type Config struct {
	// CopyYield is called between chunks of a chunked growth copy with the
	// number of bytes copied so far and the total. Copies of 32KB or more are
	// chunked in 1KB steps; smaller copies never call it.
	CopyYield func(copied, total uint32)
}

// Engine implements the array operations over raw memory.
//
// Every block it allocates is tracked until growth retires it, it is
// released, or the engine is closed. Operations on an address that is not
// tracked fail with ErrStale instead of reading freed memory.
//
// Engine is not safe for concurrent use.
type Engine struct {
	mem    nativearray.Memory
	alloc  nativearray.Allocator
	blocks *resource.Table
	cfg    Config
	closed bool
}

// New creates an engine over the given memory and allocator.
func New(mem nativearray.Memory, alloc nativearray.Allocator) *Engine {
	return NewWithConfig(mem, alloc, nil)
}

// NewWithConfig creates an engine with custom configuration
func NewWithConfig(mem nativearray.Memory, alloc nativearray.Allocator, cfg *Config) *Engine {
	e := &Engine{
		mem:    mem,
		alloc:  alloc,
		blocks: resource.NewTable(),
	}
	if cfg != nil {
		e.cfg = *cfg
	}
	return e
}

// Blocks returns the live block table, mainly for observers.
func (e *Engine) Blocks() *resource.Table {
	return e.blocks
}

// Live returns the number of live blocks.
func (e *Engine) Live() int {
	return e.blocks.Len()
}

// AllocateDefault allocates a 64-byte block with 14 empty slots.
func (e *Engine) AllocateDefault() (Handle, error) {
	return e.allocate(defaultFootprint, DefaultCapacity)
}

// AllocateWithCapacity allocates a block holding at least size slots.
//
// Sizes below DefaultCapacity get a default block. A size whose footprint
// (size*4+8) is a power of two gets exactly size slots. Any other footprint is
// rounded up to a power of two and the capacity is (footprint-12)/4, which
// leaves one unused slot at the end of the block.
func (e *Engine) AllocateWithCapacity(size uint32) (Handle, error) {
	if size < DefaultCapacity {
		return e.AllocateDefault()
	}

	bytes := footprint(size)
	if bytes > maxFootprint {
		return 0, errors.New(errors.PhaseAlloc, errors.KindAllocation).
			Value(size).
			Detail("capacity %d exceeds the 32-bit address space", size).
			Build()
	}

	if isPowerOfTwo(bytes) {
		return e.allocate(uint32(bytes), size)
	}

	rounded := nextPowerOfTwo(uint32(bytes))
	return e.allocate(rounded, (rounded-12)/slotSize)
}

func (e *Engine) allocate(bytes, capacity uint32) (Handle, error) {
	if e.closed {
		return 0, errors.NotInitialized(errors.PhaseAlloc, "engine")
	}

	ptr, err := e.alloc.Alloc(bytes, blockAlign)
	if err != nil {
		return 0, err
	}
	h := Handle(ptr)

	if err := e.writeHeader(h, Header{Capacity: capacity}); err != nil {
		e.alloc.Free(ptr, bytes, blockAlign)
		return 0, err
	}
	if err := e.fillSentinel(h, 0, capacity); err != nil {
		e.alloc.Free(ptr, bytes, blockAlign)
		return 0, err
	}

	e.blocks.Insert(ptr, bytes)
	Logger().Debug("block allocated",
		zap.Stringer("block", h),
		zap.Uint32("footprint", bytes),
		zap.Uint32("capacity", capacity))

	return h, nil
}

// Set stores value at index and returns h unchanged. It never grows the block.
//
// Filling an empty slot increments the occupied count. Writing above the
// occupied count does not fill the slots below it, so a later Append may
// land on or skip an already written slot.
func (e *Engine) Set(h Handle, index uint32, value int32) (Handle, error) {
	if err := e.checkLive(h); err != nil {
		return h, err
	}

	hd, err := e.readHeader(h)
	if err != nil {
		return h, err
	}
	if index >= hd.Capacity {
		return h, errors.OutOfBounds(errors.PhaseAccess, uint32(h), index, hd.Capacity)
	}
	if value == Sentinel {
		return h, sentinelWrite(h, value)
	}

	if err := e.store(h, hd, index, value); err != nil {
		return h, err
	}
	return h, nil
}

// Append stores value at the occupied count, growing the block when it is full.
//
// The returned handle replaces h, even when an error is returned. When growth
// happened h has been freed and must not be used again.
func (e *Engine) Append(h Handle, value int32) (Handle, error) {
	if err := e.checkLive(h); err != nil {
		return h, err
	}
	if value == Sentinel {
		return h, sentinelWrite(h, value)
	}

	hd, err := e.readHeader(h)
	if err != nil {
		return h, err
	}

	pos := hd.Occupied
	if pos == hd.Capacity {
		if h, err = e.grow(h, hd); err != nil {
			return h, err
		}
		if hd, err = e.readHeader(h); err != nil {
			return h, err
		}
	}

	if err := e.store(h, hd, pos, value); err != nil {
		return h, err
	}
	return h, nil
}

// store writes value at index, counting the slot if it was empty.
func (e *Engine) store(h Handle, hd Header, index uint32, value int32) error {
	cur, err := e.readSlot(h, index)
	if err != nil {
		return err
	}
	if cur == Sentinel {
		if err := e.mem.WriteU32(uint32(h)+occupiedOffset, hd.Occupied+1); err != nil {
			return err
		}
	}
	return e.writeSlot(h, index, value)
}

// Get returns the value at index.
func (e *Engine) Get(h Handle, index uint32) (int32, error) {
	if err := e.checkLive(h); err != nil {
		return 0, err
	}

	hd, err := e.readHeader(h)
	if err != nil {
		return 0, err
	}
	if index >= hd.Capacity {
		return 0, errors.OutOfBounds(errors.PhaseAccess, uint32(h), index, hd.Capacity)
	}

	v, err := e.readSlot(h, index)
	if err != nil {
		return 0, err
	}
	if v == Sentinel {
		return 0, errors.New(errors.PhaseAccess, errors.KindInvalidValue).
			Path("get").
			Addr(uint32(h)).
			Value(index).
			Detail("slot %d is empty", index).
			Build()
	}
	return v, nil
}

// Header returns the decoded header of a live block.
func (e *Engine) Header(h Handle) (Header, error) {
	if err := e.checkLive(h); err != nil {
		return Header{}, err
	}
	return e.readHeader(h)
}

// Digest hashes the first occupied slots of a block with xxhash.
// Under sequential appends this covers exactly the stored values, so the
// digest is unchanged by growth.
func (e *Engine) Digest(h Handle) (uint64, error) {
	hd, err := e.Header(h)
	if err != nil {
		return 0, err
	}
	data, err := e.mem.Read(slotAddr(h, 0), hd.Occupied*slotSize)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}

// Release frees a live block. h must not be used afterwards.
func (e *Engine) Release(h Handle) error {
	entry, ok := e.blocks.Lookup(uint32(h))
	if !ok {
		return errors.Stale(errors.PhaseAccess, uint32(h))
	}
	e.alloc.Free(uint32(h), entry.Footprint, blockAlign)
	e.blocks.Remove(uint32(h))

	Logger().Debug("block released", zap.Stringer("block", h))
	return nil
}

// Close frees every block that is still live and stops accepting allocations.
// Blocks reclaimed here were never released by their owner.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	leaked := e.blocks.Drain()
	for _, b := range leaked {
		e.alloc.Free(b.Addr, b.Footprint, blockAlign)
	}
	if len(leaked) > 0 {
		Logger().Warn("reclaimed unreleased blocks", zap.Int("count", len(leaked)))
	}
	return nil
}

func (e *Engine) checkLive(h Handle) error {
	if !e.blocks.Contains(uint32(h)) {
		return errors.Stale(errors.PhaseAccess, uint32(h))
	}
	return nil
}

func sentinelWrite(h Handle, value int32) error {
	return errors.InvalidValue(errors.PhaseAccess, uint32(h), value, "sentinel value cannot be stored")
}
