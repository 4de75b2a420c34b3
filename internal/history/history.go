// Package history keeps a bounded, linear undo/redo history of immutable
// snapshots.
package history

// DefaultLimit is the number of undo steps kept when no limit is configured.
const DefaultLimit = 20

// History stores past and future snapshots around a current value owned by
// the caller. Snapshots are stored as given, so T must be treated as
// immutable by everyone holding it.
type History[T any] struct {
	limit int
	past  []T
	next  []T
}

// New returns an empty history keeping at most limit undo steps.
func New[T any](limit int) *History[T] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History[T]{limit: limit}
}

// Record stores current as the state to return to on Undo and discards the
// redo branch. The oldest snapshot is dropped once the limit is reached.
func (h *History[T]) Record(current T) {
	h.past = append(h.past, current)
	if overflow := len(h.past) - h.limit; overflow > 0 {
		clear(h.past[:overflow])
		h.past = append(h.past[:0], h.past[overflow:]...)
	}
	clear(h.next)
	h.next = h.next[:0]
}

// Undo returns the previous snapshot and moves current onto the redo stack.
func (h *History[T]) Undo(current T) (T, bool) {
	if len(h.past) == 0 {
		var zero T
		return zero, false
	}
	last := len(h.past) - 1
	previous := h.past[last]
	var zero T
	h.past[last] = zero
	h.past = h.past[:last]
	h.next = append(h.next, current)
	return previous, true
}

// Redo is the mirror of Undo.
func (h *History[T]) Redo(current T) (T, bool) {
	if len(h.next) == 0 {
		var zero T
		return zero, false
	}
	last := len(h.next) - 1
	following := h.next[last]
	var zero T
	h.next[last] = zero
	h.next = h.next[:last]
	h.past = append(h.past, current)
	if overflow := len(h.past) - h.limit; overflow > 0 {
		h.past = append(h.past[:0], h.past[overflow:]...)
	}
	return following, true
}

// UndoDepth is the number of snapshots Undo can step back through.
func (h *History[T]) UndoDepth() int { return len(h.past) }

// RedoDepth is the number of snapshots Redo can step forward through.
func (h *History[T]) RedoDepth() int { return len(h.next) }

// Limit returns the configured capacity.
func (h *History[T]) Limit() int { return h.limit }

// Reset forgets every snapshot.
func (h *History[T]) Reset() {
	h.past = nil
	h.next = nil
}
