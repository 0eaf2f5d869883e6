package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/nativearray/intarray"
)

func newTestSession(t *testing.T, capacity uint32) *session {
	t.Helper()
	s, err := newSession(context.Background(), "linear", 64, capacity)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSession_NewDefault(t *testing.T) {
	s := newTestSession(t, 0)
	assert.Equal(t, uint32(intarray.DefaultCapacity), s.arr.Cap())
	assert.Equal(t, uint32(0), s.arr.Len())

	out, err := s.exec("new 100")
	require.NoError(t, err)
	assert.Contains(t, out, "capacity 125")
	assert.Equal(t, 1, s.eng.Live())
}

func TestSession_AppendGrows(t *testing.T) {
	s := newTestSession(t, 0)
	before := s.arr.Handle()

	args := make([]string, 15)
	for i := range args {
		args[i] = strings.Repeat("1", i%3+1)
	}
	out, err := s.exec("append " + strings.Join(args, " "))
	require.NoError(t, err)
	assert.Contains(t, out, "occupied 15/30")
	assert.Contains(t, out, "block moved "+before.String())

	v, err := s.exec("get 14")
	require.NoError(t, err)
	assert.Equal(t, "111", v)

	joined := strings.Join(s.events, "\n")
	assert.Contains(t, joined, "created")
	assert.Contains(t, joined, "grown")
}

func TestSession_SetGetDump(t *testing.T) {
	s := newTestSession(t, 0)

	_, err := s.exec("set 2 -7")
	require.NoError(t, err)

	v, err := s.exec("get 2")
	require.NoError(t, err)
	assert.Equal(t, "-7", v)

	dump, err := s.exec("dump")
	require.NoError(t, err)
	assert.Equal(t, ". . -7 . . . . .\n. . . . . .", dump)
}

func TestSession_Errors(t *testing.T) {
	s := newTestSession(t, 0)

	tests := []struct {
		line string
		want string
	}{
		{"get 0", "empty"},
		{"get 14", "out of bounds"},
		{"set 20 1", "out of bounds"},
		{"append -2147483648", "sentinel"},
		{"append x", "bad value"},
		{"set -1 1", "bad index"},
		{"set 1", "usage"},
		{"bogus", "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := s.exec(tt.line)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSession_ReleaseAndNew(t *testing.T) {
	s := newTestSession(t, 0)

	out, err := s.exec("release")
	require.NoError(t, err)
	assert.Equal(t, "released", out)
	assert.Equal(t, 0, s.eng.Live())

	_, err = s.exec("get 0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no array")

	_, err = s.exec("new")
	require.NoError(t, err)
	assert.Equal(t, 1, s.eng.Live())
}

func TestSession_Info(t *testing.T) {
	s := newTestSession(t, 0)
	_, err := s.exec("append 1 2 3")
	require.NoError(t, err)

	out, err := s.exec("info")
	require.NoError(t, err)
	assert.Contains(t, out, "occupied   3")
	assert.Contains(t, out, "capacity   14")
	assert.Contains(t, out, "footprint  64 bytes")
	assert.Contains(t, out, "linear backend")
}

func TestSession_UnknownBackend(t *testing.T) {
	_, err := newSession(context.Background(), "tape", 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}

func TestRunScript(t *testing.T) {
	s := newTestSession(t, 0)
	var buf bytes.Buffer

	err := runScript(s, []string{"append 5 6", "get 1", "exit", "get 0"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "appended 2; occupied 2/14\n6\n", buf.String())

	err = runScript(s, []string{"get 9"}, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get 9")
}

func TestRunLines(t *testing.T) {
	s := newTestSession(t, 0)
	var buf bytes.Buffer

	in := strings.NewReader("append 1\n\nget 3\nget 0\nquit\nappend 2\n")
	require.NoError(t, runLines(s, in, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "appended 1; occupied 1/14", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Error: "))
	assert.Equal(t, "1", lines[2])
	assert.Equal(t, uint32(1), s.arr.Len())
}
