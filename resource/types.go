package resource

// EventType identifies a block lifecycle notification.
type EventType uint8

const (
	EventCreated EventType = iota
	EventGrown
	EventReleased
	EventReclaimed
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventGrown:
		return "grown"
	case EventReleased:
		return "released"
	case EventReclaimed:
		return "reclaimed"
	default:
		return "unknown"
	}
}

// Entry describes one live block.
type Entry struct {
	// Addr is the block's base address.
	Addr uint32
	// Footprint is the block size in bytes, header included.
	Footprint uint32
	// Generation counts how many times the logical array has been moved by growth.
	Generation uint32
}

// Event represents a block lifecycle event.
// Prev is the retired address for EventGrown and zero otherwise.
type Event struct {
	Entry
	Prev uint32
	Type EventType
}

// Observer receives notifications about block lifecycle events.
type Observer interface {
	OnBlockEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// OnBlockEvent calls f(e).
func (f ObserverFunc) OnBlockEvent(e Event) {
	f(e)
}
