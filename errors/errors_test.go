package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseAccess,
				Kind:   KindOutOfBounds,
				Path:   []string{"array", "set"},
				Addr:   0x40,
				Detail: "index 14 out of bounds (capacity 14)",
			},
			contains: []string{"[access]", "out_of_bounds", "array.set", "block 0x40", "capacity 14"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseGrow,
				Kind:  KindAllocation,
			},
			contains: []string{"[grow]", "allocation"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseHeap,
				Kind:   KindAllocation,
				Detail: "memory full",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[heap]", "allocation", "memory full", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_NoAddrWhenZero(t *testing.T) {
	err := &Error{Phase: PhaseAccess, Kind: KindStale}
	if strings.Contains(err.Error(), "block") {
		t.Errorf("unexpected block address in %q", err.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseMemory,
		Kind:  KindOutOfBounds,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseAccess,
		Kind:  KindInvalidValue,
		Addr:  8,
	}

	if !err.Is(&Error{Phase: PhaseAccess, Kind: KindInvalidValue}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseGrow, Kind: KindInvalidValue}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseAccess, Kind: KindOutOfBounds}) {
		t.Error("Is should not match different kind")
	}

	if !err.Is(&Error{Kind: KindInvalidValue}) {
		t.Error("Is should match any phase when target phase is empty")
	}

	target := &Error{Phase: PhaseAccess, Kind: KindInvalidValue}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseAccess, KindInvalidValue).
		Path("array", "append").
		Addr(0x80).
		Value(int32(-1)).
		Cause(cause).
		Detail("expected %s, got %s", "value", "sentinel").
		Build()

	if err.Phase != PhaseAccess {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseAccess)
	}
	if err.Kind != KindInvalidValue {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidValue)
	}
	if len(err.Path) != 2 || err.Path[0] != "array" || err.Path[1] != "append" {
		t.Errorf("Path = %v, want [array append]", err.Path)
	}
	if err.Addr != 0x80 {
		t.Errorf("Addr = %#x, want 0x80", err.Addr)
	}
	if err.Value != int32(-1) {
		t.Errorf("Value = %v, want -1", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected value, got sentinel" {
		t.Errorf("Detail = %v, want 'expected value, got sentinel'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseAccess, 16, 14, 14)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Value != uint32(14) {
			t.Errorf("Value = %v, want 14", err.Value)
		}
		if err.Addr != 16 {
			t.Errorf("Addr = %d, want 16", err.Addr)
		}
	})

	t.Run("OutOfRegion", func(t *testing.T) {
		err := OutOfRegion(PhaseMemory, 65536, 4, 65536)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if !strings.Contains(err.Detail, "65536") {
			t.Errorf("Detail = %v, should contain offset", err.Detail)
		}
	})

	t.Run("InvalidValue", func(t *testing.T) {
		err := InvalidValue(PhaseAccess, 8, int32(-2147483648), "empty slot")
		if err.Kind != KindInvalidValue {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidValue)
		}
	})

	t.Run("AllocationFailed", func(t *testing.T) {
		cause := errors.New("limit reached")
		err := AllocationFailed(PhaseHeap, 1024, 8, cause)
		if err.Kind != KindAllocation {
			t.Errorf("Kind = %v, want %v", err.Kind, KindAllocation)
		}
		if !strings.Contains(err.Detail, "1024") {
			t.Errorf("Detail = %v, should contain size", err.Detail)
		}
		if !errors.Is(err, cause) {
			t.Error("AllocationFailed should wrap cause")
		}
	})

	t.Run("Stale", func(t *testing.T) {
		err := Stale(PhaseAccess, 0x40)
		if err.Kind != KindStale {
			t.Errorf("Kind = %v, want %v", err.Kind, KindStale)
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseHeap, "mmap")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
	})

	t.Run("InvalidInput", func(t *testing.T) {
		err := InvalidInput(PhaseHeap, "zero pages")
		if err.Kind != KindInvalidInput {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidInput)
		}
	})

	t.Run("NotInitialized", func(t *testing.T) {
		err := NotInitialized(PhaseAlloc, "allocator")
		if err.Kind != KindNotInitialized {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotInitialized)
		}
		if err.Detail != "allocator not initialized" {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("boom")
		err := Wrap(PhaseGrow, KindAllocation, cause, "copy block")
		if !errors.Is(err, cause) {
			t.Error("Wrap should keep cause")
		}
	})
}
