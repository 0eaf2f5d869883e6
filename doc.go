// Package nativearray provides a growable array of 32-bit integers that lives
// entirely in raw, manually managed memory instead of a Go slice.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	nativearray/        Root package with the Memory and Allocator contracts
//	├── heap/           Raw memory providers (wazero linear memory, mmap) and a free-list allocator
//	├── intarray/       The array engine: block layout, growth, get/set/append, owned handles
//	├── resource/       Live block table with lifecycle events
//	├── errors/         Structured error types
//	└── cmd/intarray/   Inspector CLI (script, REPL and TUI modes)
//
// # Quick Start
//
//	h, err := heap.NewLinear(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer h.Close(ctx)
//
//	eng := intarray.New(h, h)
//	defer eng.Close()
//
//	arr, err := eng.NewArray()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for i := int32(0); i < 100; i++ {
//	    if arr, err = arr.Append(i); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	v, err := arr.Get(42)
//
// # Block Layout
//
// Every array is one contiguous block: an 8-byte header (occupied count and
// capacity, both little-endian u32) followed by capacity int32 slots. Empty
// slots hold math.MinInt32, so that value can never be stored.
//
// # Thread Safety
//
// Nothing in this module is safe for concurrent use. An append that grows a
// block frees the old address, so every holder of the old handle must switch
// to the returned one.
//
// # Memory Model
//
// Linear memory can only grow, never shrink. Freed blocks are reused by later
// allocations but the region keeps its high-water size until the heap is closed.
package nativearray
