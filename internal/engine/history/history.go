// Package history tracks buffer changes for undo and redo.
//
// Changes are recorded as buffer.Change values and collected into groups;
// a group undoes or redoes as a single step. The workspace edit applier
// wraps each document batch in one group so the whole batch reverts
// together, and the transaction coordinator can truncate the stack back
// to a checkpoint mark when it rolls a document back.
package history

import (
	"errors"
	"sync"

	"github.com/dshills/wsedit/internal/engine/buffer"
)

// Errors returned by history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// group is a set of changes that undo and redo as one step.
type group struct {
	name    string
	changes []buffer.Change
}

// History is an undo/redo stack of change groups for one buffer.
// All methods are thread-safe.
type History struct {
	mu      sync.Mutex
	undo    []*group
	redo    []*group
	current *group
	depth   int
}

// New creates an empty history.
func New() *History {
	return &History{}
}

// BeginGroup starts collecting changes into a named group.
// Nested calls are allowed; the group commits when the outermost
// EndGroup is reached.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.depth == 0 {
		h.current = &group{name: name}
	}
	h.depth++
}

// EndGroup commits the current group to the undo stack.
// Empty groups are discarded.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.depth == 0 {
		return
	}
	h.depth--
	if h.depth > 0 {
		return
	}
	if h.current != nil && len(h.current.changes) > 0 {
		h.undo = append(h.undo, h.current)
		h.redo = nil
	}
	h.current = nil
}

// CancelGroup discards the current group without committing it.
// Changes already applied to the buffer are not reverted; callers
// restore the buffer themselves (typically from a snapshot).
func (h *History) CancelGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.depth = 0
	h.current = nil
}

// Record adds a change to the current group. Outside a group the
// change commits immediately as its own single-change group.
func (h *History) Record(c buffer.Change) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current != nil {
		h.current.changes = append(h.current.changes, c)
		return
	}
	h.undo = append(h.undo, &group{changes: []buffer.Change{c}})
	h.redo = nil
}

// Transaction runs fn with all recorded changes collected into one group.
// If fn returns an error the group is cancelled.
func (h *History) Transaction(name string, fn func() error) error {
	h.BeginGroup(name)
	if err := fn(); err != nil {
		h.CancelGroup()
		return err
	}
	h.EndGroup()
	return nil
}

// Undo reverts the most recent group on the buffer.
func (h *History) Undo(buf *buffer.Buffer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undo) == 0 {
		return ErrNothingToUndo
	}
	g := h.undo[len(h.undo)-1]

	// Inverses apply last-change-first: each change's NewRange is valid
	// in the coordinates that exist once every later change is undone.
	for i := len(g.changes) - 1; i >= 0; i-- {
		inv := g.changes[i].Invert()
		if _, err := buf.ApplyEdit(inv.AsEdit()); err != nil {
			return err
		}
	}

	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, g)
	return nil
}

// Redo reapplies the most recently undone group on the buffer.
func (h *History) Redo(buf *buffer.Buffer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.redo) == 0 {
		return ErrNothingToRedo
	}
	g := h.redo[len(h.redo)-1]

	for _, c := range g.changes {
		if _, err := buf.ApplyEdit(c.AsEdit()); err != nil {
			return err
		}
	}

	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, g)
	return nil
}

// CanUndo returns true if there is a group to undo.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo) > 0
}

// CanRedo returns true if there is a group to redo.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo) > 0
}

// Mark returns the current undo stack depth. Together with TruncateTo
// it lets a caller discard groups committed after a checkpoint.
func (h *History) Mark() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo)
}

// TruncateTo drops undo groups committed after the given mark.
// The buffer itself is not touched.
func (h *History) TruncateTo(mark int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if mark < 0 {
		mark = 0
	}
	if mark < len(h.undo) {
		h.undo = h.undo[:mark]
	}
}
