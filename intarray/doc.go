// Package intarray implements a growable int32 array stored in raw memory.
//
// An array is one block obtained from a nativearray.Allocator. The block
// starts with an 8-byte header, occupied then capacity (little-endian u32),
// followed by capacity int32 slots. Empty slots hold Sentinel
// (math.MinInt32), which is why that value can never be stored.
//
// # Raw Handles
//
// The Engine works on Handles, the base address of a block:
//
//	eng := intarray.New(mem, alloc)
//	h, err := eng.AllocateDefault()          // 14 slots, 64 bytes
//	h, err = eng.Append(h, 7)                // may return a new handle
//	_, err = eng.Set(h, 3, 9)                // never grows
//	v, err := eng.Get(h, 3)
//
// Append grows a full block to the next power-of-two footprint, copies the
// old block (in 1KB chunks once the copy reaches 32KB), empties the new
// tail and frees the old block. The old handle is dead from then on; the
// engine rejects it with ErrStale as long as its address has not been
// handed out again.
//
// # Owned Arrays
//
// Array wraps a handle with single ownership. An Append that grows retires
// the receiver and returns the successor, and a retired Array always fails
// with ErrStale:
//
//	arr, err := eng.NewArray()
//	defer func() { _ = arr.Release() }() // releases whichever Array is live at return
//	arr, err = arr.Append(1)
//
// # Capacity
//
// AllocateWithCapacity(n) gives exactly n slots when n*4+8 is a power of two.
// Otherwise the footprint is rounded up and the capacity is (footprint-12)/4,
// one slot less than the footprint could hold; AllocateWithCapacity(100)
// yields 125 slots in a 512-byte block.
//
// # Sequential Fill
//
// Append writes at the occupied count. Set can fill a slot above that
// count, which raises the count without filling the slots below, so a later
// Append may overwrite a value or leave a gap. Mixing sparse Set with Append
// is supported but rarely what a caller wants.
//
// # Errors
//
// Use errors.Is with ErrOutOfRange (index >= capacity), ErrInvalidValue
// (storing Sentinel or reading an empty slot) and ErrStale (dead handle).
// Allocation failures from the allocator are returned unchanged.
package intarray
