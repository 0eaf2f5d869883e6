//go:build !unix

package heap

import "github.com/wippyai/nativearray/errors"

// NewMapped is only available on unix platforms.
func NewMapped(cfg *Config) (*Heap, error) {
	return nil, errors.Unsupported(errors.PhaseHeap, "mmap regions are not supported on this platform")
}
