package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/nativearray/heap"
	"github.com/wippyai/nativearray/intarray"
	"github.com/wippyai/nativearray/resource"
)

var errQuit = stderrors.New("quit")

const maxEvents = 50

const helpText = `Commands:
  new [N]             - Release the current array and allocate a new one (N slots or default)
  append V [V...]     - Append values, following the block if it grows
  set I V             - Store V at index I (never grows)
  get I               - Read the value at index I
  dump                - Show every slot (. marks an empty slot)
  info                - Show the block header, digest and heap statistics
  events              - Show block lifecycle events
  release             - Free the current array
  help                - Show this help message
  exit                - Exit the program`

// session holds one engine, its heap and the array being inspected.
type session struct {
	ctx     context.Context
	heap    *heap.Heap
	eng     *intarray.Engine
	arr     *intarray.Array
	backend string
	events  []string
}

func openHeap(ctx context.Context, backend string, pages uint32) (*heap.Heap, error) {
	cfg := &heap.Config{MemoryLimitPages: pages}
	switch backend {
	case "linear", "":
		return heap.NewLinearWithConfig(ctx, cfg)
	case "mapped":
		return heap.NewMapped(cfg)
	default:
		return nil, fmt.Errorf("unknown backend %q (want linear or mapped)", backend)
	}
}

func newSession(ctx context.Context, backend string, pages, capacity uint32) (*session, error) {
	h, err := openHeap(ctx, backend, pages)
	if err != nil {
		return nil, fmt.Errorf("open heap: %w", err)
	}

	s := &session{
		ctx:     ctx,
		heap:    h,
		eng:     intarray.New(h, h),
		backend: backend,
	}
	s.eng.Blocks().Subscribe(resource.ObserverFunc(s.record))

	if _, err := s.exec(fmt.Sprintf("new %d", capacity)); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *session) record(e resource.Event) {
	line := fmt.Sprintf("%-9s 0x%x (%d bytes, gen %d)", e.Type, e.Addr, e.Footprint, e.Generation)
	if e.Type == resource.EventGrown {
		line = fmt.Sprintf("%-9s 0x%x -> 0x%x (%d bytes, gen %d)", e.Type, e.Prev, e.Addr, e.Footprint, e.Generation)
	}
	s.events = append(s.events, line)
	if len(s.events) > maxEvents {
		s.events = s.events[len(s.events)-maxEvents:]
	}
}

// Close releases the engine and the heap.
func (s *session) Close() error {
	_ = s.eng.Close()
	return s.heap.Close(s.ctx)
}

// exec runs one command line and returns its output.
func (s *session) exec(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "help", ".help":
		return helpText, nil
	case "exit", "quit", ".exit":
		return "", errQuit
	case "new":
		return s.cmdNew(args)
	case "events":
		return strings.Join(s.events, "\n"), nil
	}

	if s.arr == nil {
		return "", fmt.Errorf("no array; use new")
	}

	switch cmd {
	case "append":
		return s.cmdAppend(args)
	case "set":
		return s.cmdSet(args)
	case "get":
		return s.cmdGet(args)
	case "dump":
		return s.dump(), nil
	case "info":
		return s.info()
	case "release":
		if err := s.arr.Release(); err != nil {
			return "", err
		}
		s.arr = nil
		return "released", nil
	default:
		return "", fmt.Errorf("unknown command %q (try help)", cmd)
	}
}

func (s *session) cmdNew(args []string) (string, error) {
	var size uint32
	if len(args) > 0 {
		n, err := parseIndex(args[0])
		if err != nil {
			return "", err
		}
		size = n
	}

	arr, err := s.eng.NewArrayWithCapacity(size)
	if err != nil {
		return "", err
	}
	if s.arr != nil {
		_ = s.arr.Release()
	}
	s.arr = arr
	return fmt.Sprintf("block %s: capacity %d", arr.Handle(), arr.Cap()), nil
}

func (s *session) cmdAppend(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("usage: append V [V...]")
	}
	before := s.arr.Handle()
	for _, a := range args {
		v, err := parseValue(a)
		if err != nil {
			return "", err
		}
		if s.arr, err = s.arr.Append(v); err != nil {
			return "", err
		}
	}

	out := fmt.Sprintf("appended %d; occupied %d/%d", len(args), s.arr.Len(), s.arr.Cap())
	if s.arr.Handle() != before {
		out += fmt.Sprintf("; block moved %s -> %s", before, s.arr.Handle())
	}
	return out, nil
}

func (s *session) cmdSet(args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("usage: set I V")
	}
	idx, err := parseIndex(args[0])
	if err != nil {
		return "", err
	}
	v, err := parseValue(args[1])
	if err != nil {
		return "", err
	}
	if err := s.arr.Set(idx, v); err != nil {
		return "", err
	}
	return fmt.Sprintf("[%d] = %d; occupied %d/%d", idx, v, s.arr.Len(), s.arr.Cap()), nil
}

func (s *session) cmdGet(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: get I")
	}
	idx, err := parseIndex(args[0])
	if err != nil {
		return "", err
	}
	v, err := s.arr.Get(idx)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(int64(v), 10), nil
}

// slots returns every slot value with ok=false for empty slots.
func (s *session) slots() ([]int32, []bool) {
	n := s.arr.Cap()
	vals := make([]int32, n)
	ok := make([]bool, n)
	for i := uint32(0); i < n; i++ {
		v, err := s.arr.Get(i)
		vals[i], ok[i] = v, err == nil
	}
	return vals, ok
}

func (s *session) dump() string {
	vals, ok := s.slots()
	var b strings.Builder
	for i := range vals {
		if i > 0 && i%8 == 0 {
			b.WriteByte('\n')
		} else if i > 0 {
			b.WriteByte(' ')
		}
		if ok[i] {
			fmt.Fprintf(&b, "%d", vals[i])
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

func (s *session) info() (string, error) {
	hd, err := s.arr.Header()
	if err != nil {
		return "", err
	}
	digest, err := s.arr.Digest()
	if err != nil {
		return "", err
	}
	entry, _ := s.eng.Blocks().Lookup(uint32(s.arr.Handle()))
	st := s.heap.Stats()

	var b strings.Builder
	fmt.Fprintf(&b, "block      %s (%s backend)\n", s.arr.Handle(), s.backend)
	fmt.Fprintf(&b, "occupied   %d\n", hd.Occupied)
	fmt.Fprintf(&b, "capacity   %d\n", hd.Capacity)
	fmt.Fprintf(&b, "footprint  %d bytes\n", entry.Footprint)
	fmt.Fprintf(&b, "generation %d\n", entry.Generation)
	fmt.Fprintf(&b, "digest     %016x\n", digest)
	fmt.Fprintf(&b, "heap       %d live blocks, %d live bytes, %d free spans, region %d bytes",
		st.Allocations, st.LiveBytes, st.FreeSpans, st.RegionSize)
	return b.String(), nil
}

func parseIndex(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad index %q: %w", s, err)
	}
	return uint32(n), nil
}

func parseValue(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad value %q: %w", s, err)
	}
	return int32(n), nil
}
