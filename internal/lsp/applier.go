package lsp

import (
	"fmt"
	"sort"

	"github.com/dshills/wsedit/internal/engine/buffer"
)

// Checkpoint marks a document's state before a batch of edits. The
// coordinator holds checkpoints for the lifetime of one apply call:
// discarded on success, consumed by Restore on rollback.
type Checkpoint struct {
	doc      *Document
	snapshot *buffer.Snapshot
	mark     int
}

// Restore reverts the document to its checkpointed state and discards
// any undo groups committed since the checkpoint was taken.
func (cp *Checkpoint) Restore() {
	cp.doc.Buffer.Restore(cp.snapshot)
	cp.doc.History.TruncateTo(cp.mark)
}

// newCheckpoint captures the document's buffer and history state.
func newCheckpoint(doc *Document) *Checkpoint {
	return &Checkpoint{
		doc:      doc,
		snapshot: doc.Buffer.Snapshot(),
		mark:     doc.History.Mark(),
	}
}

// ApplyTextEdits applies one document's batch of edits atomically.
//
// Edits are sorted in descending order by range start and applied from
// the bottom of the document upward, so every range stays valid in
// original-document coordinates while earlier edits apply. Before each
// edit the batch is validated: ranges must be well-formed, must not
// overlap the previously applied edit (exact adjacency is allowed), and
// must start inside the document's current extent.
//
// On success all mutations are grouped into a single undo step and the
// pre-batch checkpoint is returned. On any failure the document is
// reverted to the checkpoint and no partial edits remain visible.
//
// Batches targeting the same document are serialized; a later batch
// maps its positions against the text the earlier batch produced.
func ApplyTextEdits(doc *Document, edits []TextEdit) (*Checkpoint, error) {
	doc.applyMu.Lock()
	defer doc.applyMu.Unlock()

	cp := newCheckpoint(doc)
	if len(edits) == 0 {
		return cp, nil
	}

	order := make([]int, len(edits))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		if c := edits[order[i]].Range.Start.Compare(edits[order[j]].Range.Start); c != 0 {
			return c > 0
		}
		// Same-position inserts appear in array order in the resulting
		// text, so the later entry must apply first.
		return order[i] > order[j]
	})
	sorted := make([]TextEdit, len(edits))
	for i, k := range order {
		sorted[i] = edits[k]
	}

	doc.History.BeginGroup("workspace edit")
	var prev *TextEdit
	for i := range sorted {
		edit := &sorted[i]
		if err := validateEdit(doc, edit, prev); err != nil {
			rollback(doc, cp)
			return nil, err
		}

		start := positionToOffset(doc.Buffer, edit.Range.Start)
		end := positionToOffset(doc.Buffer, edit.Range.End)
		res, err := doc.Buffer.Replace(start, end, edit.NewText)
		if err != nil {
			rollback(doc, cp)
			return nil, err
		}
		doc.History.Record(buffer.ChangeFromResult(res))
		prev = edit
	}
	doc.History.EndGroup()
	doc.markModified()

	return cp, nil
}

// validateEdit checks one edit against the batch invariants. prev is the
// previously applied edit, which sorts after the current one.
func validateEdit(doc *Document, edit, prev *TextEdit) error {
	if !edit.Range.IsValid() {
		return fmt.Errorf("%w: range start %d:%d after end %d:%d", ErrEditOutOfRange,
			edit.Range.Start.Line, edit.Range.Start.Character,
			edit.Range.End.Line, edit.Range.End.Character)
	}

	// Applying bottom-up, the current edit must end at or before the
	// previous edit's start or the two ranges overlap.
	if prev != nil && edit.Range.End.Compare(prev.Range.Start) > 0 {
		return fmt.Errorf("%w: [%d:%d-%d:%d] and [%d:%d-%d:%d]", ErrEditsOverlap,
			edit.Range.Start.Line, edit.Range.Start.Character,
			edit.Range.End.Line, edit.Range.End.Character,
			prev.Range.Start.Line, prev.Range.Start.Character,
			prev.Range.End.Line, prev.Range.End.Character)
	}

	lastLine := doc.Buffer.LineCount() - 1
	if edit.Range.Start.Line > lastLine {
		return fmt.Errorf("%w: line %d beyond last line %d", ErrEditOutOfRange,
			edit.Range.Start.Line, lastLine)
	}
	lineLen := UTF16Len(doc.Buffer.LineText(edit.Range.Start.Line))
	if edit.Range.Start.Character > lineLen {
		return fmt.Errorf("%w: column %d beyond line %d length %d", ErrEditOutOfRange,
			edit.Range.Start.Character, edit.Range.Start.Line, lineLen)
	}
	return nil
}

// rollback restores the checkpoint and abandons the in-progress undo group.
func rollback(doc *Document, cp *Checkpoint) {
	doc.History.CancelGroup()
	cp.Restore()
}
