package resource

import (
	"reflect"
	"sort"
)

// Table tracks the blocks that are currently live.
// A block leaves the table when growth retires it or when it is released,
// so membership is what separates a live handle from a dangling one.
//
// Table is not safe for concurrent use.
type Table struct {
	entries   map[uint32]Entry
	observers []subscription
	nextID    uint64
}

type subscription struct {
	id uint64
	o  Observer
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		entries: make(map[uint32]Entry),
	}
}

// Insert records a freshly allocated block.
// It returns false if addr is zero or already live.
func (t *Table) Insert(addr, footprint uint32) bool {
	if addr == 0 {
		return false
	}
	if _, ok := t.entries[addr]; ok {
		return false
	}

	e := Entry{Addr: addr, Footprint: footprint}
	t.entries[addr] = e
	t.notify(Event{Type: EventCreated, Entry: e})
	return true
}

// Replace retires old and records next as its successor with a bumped generation.
// It returns false if old is not live or next is zero or already live.
func (t *Table) Replace(old, next, footprint uint32) bool {
	prev, ok := t.entries[old]
	if !ok || next == 0 {
		return false
	}
	if _, taken := t.entries[next]; taken && next != old {
		return false
	}

	delete(t.entries, old)
	e := Entry{Addr: next, Footprint: footprint, Generation: prev.Generation + 1}
	t.entries[next] = e
	t.notify(Event{Type: EventGrown, Entry: e, Prev: old})
	return true
}

// Lookup returns the entry for a live block.
func (t *Table) Lookup(addr uint32) (Entry, bool) {
	e, ok := t.entries[addr]
	return e, ok
}

// Contains reports whether addr is a live block.
func (t *Table) Contains(addr uint32) bool {
	_, ok := t.entries[addr]
	return ok
}

// Remove drops a released block and returns its entry.
func (t *Table) Remove(addr uint32) (Entry, bool) {
	e, ok := t.entries[addr]
	if !ok {
		return Entry{}, false
	}
	delete(t.entries, addr)
	t.notify(Event{Type: EventReleased, Entry: e})
	return e, true
}

// Drain removes every live block, in address order, and returns them.
// Observers see EventReclaimed for each.
func (t *Table) Drain() []Entry {
	out := t.Entries()
	for _, e := range out {
		delete(t.entries, e.Addr)
		t.notify(Event{Type: EventReclaimed, Entry: e})
	}
	return out
}

// Entries returns the live blocks in address order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Addr < out[j].Addr })
	return out
}

// Len returns the number of live blocks.
func (t *Table) Len() int {
	return len(t.entries)
}

// Subscribe adds an observer for lifecycle events and returns a function
// that removes it. The returned function is the only way to remove an
// observer that is not comparable, such as an ObserverFunc.
func (t *Table) Subscribe(o Observer) (cancel func()) {
	t.nextID++
	id := t.nextID
	t.observers = append(t.observers, subscription{id: id, o: o})
	return func() {
		for i, sub := range t.observers {
			if sub.id == id {
				t.observers = append(t.observers[:i], t.observers[i+1:]...)
				return
			}
		}
	}
}

// Unsubscribe removes the first subscription of o.
// Observers whose dynamic type is not comparable are never matched.
func (t *Table) Unsubscribe(o Observer) {
	if o == nil || !reflect.TypeOf(o).Comparable() {
		return
	}
	for i, sub := range t.observers {
		if reflect.TypeOf(sub.o) == reflect.TypeOf(o) && sub.o == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

func (t *Table) notify(e Event) {
	for _, sub := range t.observers {
		sub.o.OnBlockEvent(e)
	}
}
