package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnBlockEvent(e Event) {
	o.events = append(o.events, e)
}

func TestTable_Basic(t *testing.T) {
	table := NewTable()

	require.True(t, table.Insert(64, 64))
	assert.False(t, table.Insert(64, 64), "duplicate insert")
	assert.False(t, table.Insert(0, 64), "zero address")

	e, ok := table.Lookup(64)
	require.True(t, ok)
	assert.Equal(t, Entry{Addr: 64, Footprint: 64}, e)
	assert.True(t, table.Contains(64))
	assert.Equal(t, 1, table.Len())

	e, ok = table.Remove(64)
	require.True(t, ok)
	assert.Equal(t, uint32(64), e.Addr)
	assert.False(t, table.Contains(64))
	assert.Zero(t, table.Len())

	_, ok = table.Remove(64)
	assert.False(t, ok)
}

func TestTable_Replace(t *testing.T) {
	table := NewTable()
	table.Insert(8, 64)
	table.Insert(200, 64)

	require.True(t, table.Replace(8, 72, 128))
	assert.False(t, table.Contains(8))

	e, ok := table.Lookup(72)
	require.True(t, ok)
	assert.Equal(t, uint32(1), e.Generation)
	assert.Equal(t, uint32(128), e.Footprint)

	require.True(t, table.Replace(72, 400, 256))
	e, _ = table.Lookup(400)
	assert.Equal(t, uint32(2), e.Generation)

	assert.False(t, table.Replace(8, 500, 64), "retired address")
	assert.False(t, table.Replace(400, 200, 64), "successor already live")
	assert.False(t, table.Replace(400, 0, 64), "zero successor")
	assert.Equal(t, 2, table.Len())
}

func TestTable_Observer(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	table.Insert(8, 64)
	table.Replace(8, 72, 128)
	table.Remove(72)

	require.Len(t, obs.events, 3)
	assert.Equal(t, EventCreated, obs.events[0].Type)
	assert.Equal(t, EventGrown, obs.events[1].Type)
	assert.Equal(t, uint32(8), obs.events[1].Prev)
	assert.Equal(t, uint32(72), obs.events[1].Addr)
	assert.Equal(t, EventReleased, obs.events[2].Type)

	table.Unsubscribe(obs)
	table.Insert(8, 64)
	assert.Len(t, obs.events, 3)
}

func TestTable_ObserverFunc(t *testing.T) {
	table := NewTable()
	var seen []EventType
	table.Subscribe(ObserverFunc(func(e Event) {
		seen = append(seen, e.Type)
	}))

	table.Insert(8, 64)
	table.Drain()

	assert.Equal(t, []EventType{EventCreated, EventReclaimed}, seen)
}

func TestTable_UnsubscribeObserverFunc(t *testing.T) {
	table := NewTable()
	var fnSeen int
	fn := ObserverFunc(func(Event) { fnSeen++ })
	obs := &testObserver{}

	cancel := table.Subscribe(fn)
	table.Subscribe(obs)

	require.NotPanics(t, func() { table.Unsubscribe(fn) })
	table.Insert(8, 64)
	assert.Equal(t, 1, fnSeen, "a func observer is not matched by Unsubscribe")

	cancel()
	cancel()
	table.Insert(16, 64)
	assert.Equal(t, 1, fnSeen)
	assert.Len(t, obs.events, 2)

	table.Unsubscribe(obs)
	table.Insert(24, 64)
	assert.Len(t, obs.events, 2)
}

func TestTable_DrainOrdered(t *testing.T) {
	table := NewTable()
	table.Insert(300, 64)
	table.Insert(8, 64)
	table.Insert(100, 64)

	drained := table.Drain()
	require.Len(t, drained, 3)
	assert.Equal(t, uint32(8), drained[0].Addr)
	assert.Equal(t, uint32(100), drained[1].Addr)
	assert.Equal(t, uint32(300), drained[2].Addr)
	assert.Zero(t, table.Len())
	assert.Empty(t, table.Drain())
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "created", EventCreated.String())
	assert.Equal(t, "grown", EventGrown.String())
	assert.Equal(t, "released", EventReleased.String())
	assert.Equal(t, "reclaimed", EventReclaimed.String())
	assert.Equal(t, "unknown", EventType(99).String())
}
