package history

import (
	"reflect"
	"testing"
)

func TestUndoRedoRoundTrip(t *testing.T) {
	t.Parallel()

	h := New[[]string](0)
	before := []string{"a"}
	h.Record(before)
	after := []string{"a", "b"}

	restored, ok := h.Undo(after)
	if !ok || !reflect.DeepEqual(restored, before) {
		t.Fatalf("expected undo to restore %v, got %v (ok=%v)", before, restored, ok)
	}
	if h.RedoDepth() != 1 || h.UndoDepth() != 0 {
		t.Fatalf("unexpected depths undo=%d redo=%d", h.UndoDepth(), h.RedoDepth())
	}

	redone, ok := h.Redo(restored)
	if !ok || !reflect.DeepEqual(redone, after) {
		t.Fatalf("expected redo to restore %v, got %v (ok=%v)", after, redone, ok)
	}
	if h.UndoDepth() != 1 || h.RedoDepth() != 0 {
		t.Fatalf("unexpected depths undo=%d redo=%d", h.UndoDepth(), h.RedoDepth())
	}
}

func TestEmptyHistory(t *testing.T) {
	t.Parallel()

	h := New[int](3)
	if _, ok := h.Undo(1); ok {
		t.Fatal("expected undo on empty history to fail")
	}
	if _, ok := h.Redo(1); ok {
		t.Fatal("expected redo on empty history to fail")
	}
}

func TestRecordClearsRedo(t *testing.T) {
	t.Parallel()

	h := New[int](5)
	h.Record(1)
	current, _ := h.Undo(2)
	h.Record(current)
	if h.RedoDepth() != 0 {
		t.Fatalf("expected redo to be cleared, got %d", h.RedoDepth())
	}
	if _, ok := h.Redo(current); ok {
		t.Fatal("expected no redo after a new mutation")
	}
}

func TestHistoryIsBounded(t *testing.T) {
	t.Parallel()

	h := New[int](DefaultLimit)
	for i := 0; i < 25; i++ {
		h.Record(i)
	}
	if h.UndoDepth() != 20 {
		t.Fatalf("expected 20 snapshots, got %d", h.UndoDepth())
	}

	current := 25
	var steps []int
	for {
		previous, ok := h.Undo(current)
		if !ok {
			break
		}
		steps = append(steps, previous)
		current = previous
	}
	if len(steps) != 20 || steps[0] != 24 || steps[19] != 5 {
		t.Fatalf("expected to walk back from 24 to 5, got %v", steps)
	}
}

func TestRedoRespectsLimit(t *testing.T) {
	t.Parallel()

	h := New[int](2)
	h.Record(1)
	h.Record(2)
	current, _ := h.Undo(3)
	current, _ = h.Redo(current)
	if current != 3 || h.UndoDepth() != 2 {
		t.Fatalf("unexpected state current=%d undo=%d", current, h.UndoDepth())
	}
	h.Reset()
	if h.UndoDepth() != 0 || h.RedoDepth() != 0 {
		t.Fatal("expected reset to clear both stacks")
	}
}
