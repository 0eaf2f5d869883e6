package intarray

import (
	"github.com/wippyai/nativearray/errors"
)

// noCopy lets go vet's copylocks check flag Array values copied by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

type arrayState uint8

const (
	stateLive arrayState = iota
	stateRetired
	stateReleased
)

// Array owns one block. Exactly one Array is live per logical array:
// an Append that grows the block retires the receiver and returns its
// successor, so the usual pattern is
//
//	arr, err = arr.Append(v)
//
// Any call on a retired or released Array fails with ErrStale, even if the
// freed address has since been reused by another block.
type Array struct {
	_     noCopy
	eng   *Engine
	h     Handle
	state arrayState
}

// NewArray allocates a default block and returns its owner.
func (e *Engine) NewArray() (*Array, error) {
	h, err := e.AllocateDefault()
	if err != nil {
		return nil, err
	}
	return &Array{eng: e, h: h}, nil
}

// NewArrayWithCapacity allocates a block sized for at least size slots.
func (e *Engine) NewArrayWithCapacity(size uint32) (*Array, error) {
	h, err := e.AllocateWithCapacity(size)
	if err != nil {
		return nil, err
	}
	return &Array{eng: e, h: h}, nil
}

// Append adds value after the occupied slots.
// If the block grew, a is retired and the returned Array must be used instead.
// This holds even when the store after growth fails, so the returned Array is
// always the live owner.
func (a *Array) Append(value int32) (*Array, error) {
	if err := a.check(); err != nil {
		return a, err
	}
	next, err := a.eng.Append(a.h, value)
	if next == a.h {
		return a, err
	}
	a.state = stateRetired
	return &Array{eng: a.eng, h: next}, err
}

// Set stores value at index. It never grows the block.
func (a *Array) Set(index uint32, value int32) error {
	if err := a.check(); err != nil {
		return err
	}
	_, err := a.eng.Set(a.h, index, value)
	return err
}

// Get returns the value at index.
func (a *Array) Get(index uint32) (int32, error) {
	if err := a.check(); err != nil {
		return 0, err
	}
	return a.eng.Get(a.h, index)
}

// Header returns the block header.
func (a *Array) Header() (Header, error) {
	if err := a.check(); err != nil {
		return Header{}, err
	}
	return a.eng.Header(a.h)
}

// Len returns the occupied count, or 0 if a is not live.
func (a *Array) Len() uint32 {
	hd, err := a.Header()
	if err != nil {
		return 0
	}
	return hd.Occupied
}

// Cap returns the slot count, or 0 if a is not live.
func (a *Array) Cap() uint32 {
	hd, err := a.Header()
	if err != nil {
		return 0
	}
	return hd.Capacity
}

// Digest hashes the occupied prefix of the block.
func (a *Array) Digest() (uint64, error) {
	if err := a.check(); err != nil {
		return 0, err
	}
	return a.eng.Digest(a.h)
}

// Handle returns the current block address. It is only meaningful while a is live.
func (a *Array) Handle() Handle {
	return a.h
}

// Live reports whether a still owns its block.
func (a *Array) Live() bool {
	return a.state == stateLive
}

// Release frees the block. a is unusable afterwards.
func (a *Array) Release() error {
	if err := a.check(); err != nil {
		return err
	}
	if err := a.eng.Release(a.h); err != nil {
		return err
	}
	a.state = stateReleased
	return nil
}

func (a *Array) check() error {
	if a.state == stateLive {
		return nil
	}
	b := errors.New(errors.PhaseAccess, errors.KindStale).Addr(uint32(a.h))
	if a.state == stateReleased {
		return b.Detail("array was released").Build()
	}
	return b.Detail("array was retired by growth").Build()
}
