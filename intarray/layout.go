package intarray

import (
	"fmt"
	"math"
)

// Block layout: an 8-byte header followed by capacity int32 slots.
//
//	0..4   occupied  u32  non-sentinel slots, also the append cursor
//	4..8   capacity  u32  number of slots
//	8..    slots     i32  sentinel or caller value
const (
	occupiedOffset = 0
	capacityOffset = 4
	headerSize     = 8
	slotSize       = 4
	blockAlign     = 8
)

const (
	// Sentinel marks an empty slot. It can never be stored.
	Sentinel int32 = math.MinInt32

	// DefaultCapacity is the slot count of a default block (a 64-byte footprint).
	DefaultCapacity = 14

	defaultFootprint = DefaultCapacity*slotSize + headerSize
)

// Growth copies at least this large run in chunks.
const (
	chunkThreshold = 32768
	chunkSize      = 1024
)

// Handle is the base address of a live block.
// Zero is never a valid handle.
type Handle uint32

func (h Handle) String() string {
	return fmt.Sprintf("0x%x", uint32(h))
}

// Header is the decoded block header.
type Header struct {
	Occupied uint32
	Capacity uint32
}

// Footprint is the byte size covered by the header and capacity slots.
func (hd Header) Footprint() uint64 {
	return footprint(hd.Capacity)
}

func footprint(capacity uint32) uint64 {
	return uint64(capacity)*slotSize + headerSize
}

func slotAddr(h Handle, index uint32) uint32 {
	return uint32(h) + headerSize + index*slotSize
}

func (e *Engine) readHeader(h Handle) (Header, error) {
	occupied, err := e.mem.ReadU32(uint32(h) + occupiedOffset)
	if err != nil {
		return Header{}, err
	}
	capacity, err := e.mem.ReadU32(uint32(h) + capacityOffset)
	if err != nil {
		return Header{}, err
	}
	return Header{Occupied: occupied, Capacity: capacity}, nil
}

func (e *Engine) writeHeader(h Handle, hd Header) error {
	if err := e.mem.WriteU32(uint32(h)+occupiedOffset, hd.Occupied); err != nil {
		return err
	}
	return e.mem.WriteU32(uint32(h)+capacityOffset, hd.Capacity)
}

func (e *Engine) readSlot(h Handle, index uint32) (int32, error) {
	v, err := e.mem.ReadU32(slotAddr(h, index))
	return int32(v), err
}

func (e *Engine) writeSlot(h Handle, index uint32, v int32) error {
	return e.mem.WriteU32(slotAddr(h, index), uint32(v))
}

// fillSentinel marks slots [from, to) empty with a single Write.
func (e *Engine) fillSentinel(h Handle, from, to uint32) error {
	if from >= to {
		return nil
	}
	buf := make([]byte, (to-from)*slotSize)
	for i := 0; i < len(buf); i += slotSize {
		putSentinel(buf[i : i+slotSize])
	}
	return e.mem.Write(slotAddr(h, from), buf)
}

// putSentinel writes math.MinInt32 little-endian.
func putSentinel(b []byte) {
	b[0], b[1], b[2], b[3] = 0x00, 0x00, 0x00, 0x80
}
