// Package heap provides raw memory for native arrays.
//
// A Heap is a first-fit free-list allocator layered over a page-granular
// Region. It implements the root package's Memory, Allocator and MemorySizer
// contracts, so the array engine can use one value for both.
//
// # Regions
//
// Two backends are provided:
//
//	h, err := heap.NewLinear(ctx)          // wazero WebAssembly linear memory
//	h, err := heap.NewMapped(&heap.Config{ // anonymous mmap reservation (unix)
//	    MemoryLimitPages: 1024,
//	})
//
// Any type with the Region method set can be used through NewWithRegion;
// a wazero api.Memory qualifies directly.
//
// # Allocation
//
// Blocks are 8-byte aligned and rounded to 8 bytes. Freed blocks are merged
// with free neighbours; a free range touching the top of the heap lowers the
// top instead. When no free range fits, the region grows by whole 64KB pages
// up to its limit, after which Alloc fails with ErrNoSpace.
//
// Address 0 is never returned.
package heap
