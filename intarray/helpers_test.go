package intarray

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wippyai/nativearray/errors"
	"github.com/wippyai/nativearray/heap"
)

func newTestHeap(t testing.TB, pages uint32) *heap.Heap {
	t.Helper()
	return newBackendHeap(t, "linear", pages)
}

// testBackends lists the heap regions engines are exercised over.
var testBackends = []string{"linear", "mapped"}

func newBackendHeap(t testing.TB, backend string, pages uint32) *heap.Heap {
	t.Helper()
	ctx := context.Background()
	cfg := &heap.Config{MemoryLimitPages: pages}

	var (
		h   *heap.Heap
		err error
	)
	switch backend {
	case "linear":
		h, err = heap.NewLinearWithConfig(ctx, cfg)
	case "mapped":
		h, err = heap.NewMapped(cfg)
		if stderrors.Is(err, &errors.Error{Kind: errors.KindUnsupported}) {
			t.Skip("mmap regions not supported on this platform")
		}
	default:
		t.Fatalf("unknown backend %q", backend)
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close(ctx) })
	return h
}

func newTestEngine(t testing.TB) (*Engine, *heap.Heap) {
	t.Helper()
	h := newTestHeap(t, 256)
	return New(h, h), h
}

func mustHeader(t testing.TB, e *Engine, h Handle) Header {
	t.Helper()
	hd, err := e.Header(h)
	require.NoError(t, err)
	return hd
}

// copyingMemory returns detached copies from Read, as a Memory over a
// foreign address space would.
type copyingMemory struct {
	*heap.Heap
}

func (m copyingMemory) Read(offset, length uint32) ([]byte, error) {
	data, err := m.Heap.Read(offset, length)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), data...), nil
}

var errInjected = stderrors.New("injected write failure")

// faultyMemory fails the failAt-th WriteU32 after the most recent Copy.
// Copy only happens during growth, so failAt 2 hits the store that follows it.
type faultyMemory struct {
	*heap.Heap
	failAt int
	writes int
	armed  bool
}

func (m *faultyMemory) Copy(src, dst, length uint32) error {
	m.armed = true
	m.writes = 0
	return m.Heap.Copy(src, dst, length)
}

func (m *faultyMemory) WriteU32(offset, value uint32) error {
	if m.armed {
		m.writes++
		if m.writes == m.failAt {
			return errInjected
		}
	}
	return m.Heap.WriteU32(offset, value)
}
