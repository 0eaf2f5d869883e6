package intarray

import (
	"go.uber.org/zap"

	"github.com/wippyai/nativearray/errors"
)

// grow moves a full block into one whose footprint is the next power of two.
// The old block is freed; on error it is left untouched and still live.
func (e *Engine) grow(h Handle, hd Header) (Handle, error) {
	oldBytes := hd.Footprint()
	if oldBytes > maxFootprint {
		return h, errors.New(errors.PhaseGrow, errors.KindAllocation).
			Addr(uint32(h)).
			Detail("block of %d bytes cannot grow further", oldBytes).
			Build()
	}

	newBytes := nextPowerOfTwo(uint32(oldBytes))
	ptr, err := e.alloc.Alloc(newBytes, blockAlign)
	if err != nil {
		return h, err
	}
	next := Handle(ptr)
	newCap := (newBytes - headerSize) / slotSize

	if err := e.moveBlock(h, next, uint32(oldBytes), hd.Occupied, newCap); err != nil {
		e.alloc.Free(ptr, newBytes, blockAlign)
		return h, err
	}

	e.alloc.Free(uint32(h), uint32(oldBytes), blockAlign)
	e.blocks.Replace(uint32(h), ptr, newBytes)

	Logger().Debug("block grown",
		zap.Stringer("from", h),
		zap.Stringer("to", next),
		zap.Uint32("old_capacity", hd.Capacity),
		zap.Uint32("new_capacity", newCap),
		zap.Bool("chunked", oldBytes >= chunkThreshold))

	return next, nil
}

// moveBlock copies header and slots into dst, then sets the new capacity and
// empties every slot from the old occupied count onward.
func (e *Engine) moveBlock(src, dst Handle, length, occupied, capacity uint32) error {
	if err := e.copyBytes(uint32(src), uint32(dst), length); err != nil {
		return err
	}
	if err := e.mem.WriteU32(uint32(dst)+capacityOffset, capacity); err != nil {
		return err
	}
	return e.fillSentinel(dst, occupied, capacity)
}

// copyBytes copies in one call below chunkThreshold and in chunkSize steps
// above it, offering CopyYield a turn after each step.
func (e *Engine) copyBytes(src, dst, length uint32) error {
	if length < chunkThreshold {
		return e.mem.Copy(src, dst, length)
	}

	for done := uint32(0); done < length; {
		n := min(length-done, chunkSize)
		if err := e.mem.Copy(src+done, dst+done, n); err != nil {
			return err
		}
		done += n
		if e.cfg.CopyYield != nil {
			e.cfg.CopyYield(done, length)
		}
	}
	return nil
}
