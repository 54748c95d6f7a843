package project

// DefaultHistorySize bounds the undo depth. Design parameter.
const DefaultHistorySize = 256

// HistoryRing is a bounded stack of prior project snapshots with
// undo/redo cursors. Snapshots are structurally independent deep
// copies. The locked flag suppresses pushes during bulk apply so an
// installed project does not record itself as its own history.
type HistoryRing struct {
	undo   []Project
	redo   []Project
	size   int
	locked bool
}

// NewHistoryRing creates a ring bounded at size entries; size <= 0
// falls back to DefaultHistorySize.
func NewHistoryRing(size int) *HistoryRing {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &HistoryRing{size: size}
}

// Push records a snapshot of the pre-mutation state and invalidates any
// redo entries. Oldest entries fall off once the bound is reached.
// No-op while locked.
func (h *HistoryRing) Push(p Project) {
	if h.locked {
		return
	}
	h.redo = h.redo[:0]
	h.undo = append(h.undo, p.Clone())
	if len(h.undo) > h.size {
		copy(h.undo, h.undo[len(h.undo)-h.size:])
		h.undo = h.undo[:h.size]
	}
}

// Undo returns the most recent prior snapshot, recording current as a
// redo entry. The second return is false at the bound.
func (h *HistoryRing) Undo(current Project) (Project, bool) {
	if len(h.undo) == 0 {
		return Project{}, false
	}
	h.redo = append(h.redo, current.Clone())
	last := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	return last, true
}

// Redo reverses the most recent Undo. The second return is false at the
// bound.
func (h *HistoryRing) Redo(current Project) (Project, bool) {
	if len(h.redo) == 0 {
		return Project{}, false
	}
	h.undo = append(h.undo, current.Clone())
	last := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	return last, true
}

// Lock suppresses pushes until Unlock.
func (h *HistoryRing) Lock() { h.locked = true }

// Unlock re-enables pushes.
func (h *HistoryRing) Unlock() { h.locked = false }

// Locked reports whether pushes are currently suppressed.
func (h *HistoryRing) Locked() bool { return h.locked }

// CanUndo reports whether an undo step is available.
func (h *HistoryRing) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo step is available.
func (h *HistoryRing) CanRedo() bool { return len(h.redo) > 0 }

// Depth returns the number of undoable snapshots.
func (h *HistoryRing) Depth() int { return len(h.undo) }

// Reset drops all snapshots.
func (h *HistoryRing) Reset() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}
