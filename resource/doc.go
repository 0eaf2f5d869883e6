// Package resource tracks the lifetime of native array blocks.
//
// Every block handed out by the array engine is recorded in a Table under its
// base address. Growth retires the old address and records the new one as its
// successor; releasing a block removes it. An address that is not in the table
// is dangling and must not be dereferenced.
//
// # Lifecycle
//
//	created  - block allocated (default or sized)
//	grown    - block replaced by a larger copy; Event.Prev holds the old address
//	released - block freed by its owner
//	reclaimed - block still live when the engine closed (a leak)
//
// # Observers
//
// Observers receive every event synchronously:
//
//	cancel := table.Subscribe(resource.ObserverFunc(func(e resource.Event) {
//	    log.Printf("%s 0x%x", e.Type, e.Addr)
//	}))
//	defer cancel()
package resource
