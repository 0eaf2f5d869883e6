package heap

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/nativearray/errors"
)

// memoryWASM is a minimal WASM module with 1 page of memory exported as "memory"
var memoryWASM = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 page, no max
	0x07, 0x0a, 0x01, // export section: 10 bytes, 1 export
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, // name: "memory" (6 bytes + string)
	0x02, 0x00, // kind: memory, index 0
}

// defaultLinearLimitPages is 16MB.
const defaultLinearLimitPages = 256

// NewLinear creates a heap backed by a wazero WebAssembly linear memory.
func NewLinear(ctx context.Context) (*Heap, error) {
	return NewLinearWithConfig(ctx, nil)
}

// NewLinearWithConfig creates a linear-memory heap with custom configuration
func NewLinearWithConfig(ctx context.Context, cfg *Config) (*Heap, error) {
	limit := cfg.limitPages(defaultLinearLimitPages)
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithMemoryLimitPages(limit))

	mod, err := rt.Instantiate(ctx, memoryWASM)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseHeap, errors.KindNotInitialized, err, "instantiate memory module")
	}

	mem := mod.ExportedMemory("memory")
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, errors.NotInitialized(errors.PhaseHeap, "exported memory")
	}

	Logger().Debug("linear heap created", zap.Uint32("limit_pages", limit))

	return newHeap(mem, func(ctx context.Context) error {
		return rt.Close(ctx)
	}), nil
}

// compile-time check that a wazero memory is usable as a Region
var _ Region = (api.Memory)(nil)
