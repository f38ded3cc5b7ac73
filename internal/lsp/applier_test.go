package lsp

import (
	"errors"
	"testing"
)

func openTestDoc(t *testing.T, content string) *Document {
	t.Helper()
	ws := NewWorkspace()
	doc, err := ws.Open("/test/doc.txt", "plaintext", content)
	if err != nil {
		t.Fatalf("opening test document: %v", err)
	}
	return doc
}

func edit(startLine, startChar, endLine, endChar int, newText string) TextEdit {
	return TextEdit{
		Range: Range{
			Start: Position{Line: startLine, Character: startChar},
			End:   Position{Line: endLine, Character: endChar},
		},
		NewText: newText,
	}
}

func TestApplyTextEditsSimple(t *testing.T) {
	doc := openTestDoc(t, "hello world")

	cp, err := ApplyTextEdits(doc, []TextEdit{
		edit(0, 0, 0, 5, "goodbye"),
		edit(0, 6, 0, 11, "earth"),
	})
	if err != nil {
		t.Fatalf("ApplyTextEdits: %v", err)
	}
	if cp == nil {
		t.Fatal("expected a checkpoint")
	}
	if got := doc.Buffer.Text(); got != "goodbye earth" {
		t.Errorf("expected %q, got %q", "goodbye earth", got)
	}
}

func TestApplyTextEditsOrderIndependent(t *testing.T) {
	batch := []TextEdit{
		edit(0, 0, 0, 3, "ONE"),
		edit(0, 4, 0, 7, "TWO"),
		edit(1, 0, 1, 5, "THREE"),
	}
	orders := [][]int{
		{0, 1, 2},
		{2, 1, 0},
		{1, 2, 0},
		{2, 0, 1},
	}

	var results []string
	for _, order := range orders {
		doc := openTestDoc(t, "one two\nthree")
		edits := make([]TextEdit, len(order))
		for i, idx := range order {
			edits[i] = batch[idx]
		}
		if _, err := ApplyTextEdits(doc, edits); err != nil {
			t.Fatalf("order %v: %v", order, err)
		}
		results = append(results, doc.Buffer.Text())
	}

	for i, got := range results {
		if got != "ONE TWO\nTHREE" {
			t.Errorf("order %v: expected %q, got %q", orders[i], "ONE TWO\nTHREE", got)
		}
	}
}

func TestApplyTextEditsOverlapFails(t *testing.T) {
	doc := openTestDoc(t, "hello world")

	_, err := ApplyTextEdits(doc, []TextEdit{
		edit(0, 0, 0, 6, "a"),
		edit(0, 5, 0, 11, "b"),
	})
	if !errors.Is(err, ErrEditsOverlap) {
		t.Fatalf("expected ErrEditsOverlap, got %v", err)
	}
	if got := doc.Buffer.Text(); got != "hello world" {
		t.Errorf("document should be unchanged after overlap, got %q", got)
	}
	if doc.History.CanUndo() {
		t.Error("failed batch should leave no undo group")
	}
}

func TestApplyTextEditsAdjacencyAllowed(t *testing.T) {
	doc := openTestDoc(t, "hello world")

	_, err := ApplyTextEdits(doc, []TextEdit{
		edit(0, 0, 0, 5, "hi"),
		edit(0, 5, 0, 11, "!"),
	})
	if err != nil {
		t.Fatalf("adjacent edits should be allowed: %v", err)
	}
	if got := doc.Buffer.Text(); got != "hi!" {
		t.Errorf("expected %q, got %q", "hi!", got)
	}
}

func TestApplyTextEditsOutOfRangeLine(t *testing.T) {
	doc := openTestDoc(t, "hello")

	_, err := ApplyTextEdits(doc, []TextEdit{edit(5, 0, 5, 1, "x")})
	if !errors.Is(err, ErrEditOutOfRange) {
		t.Fatalf("expected ErrEditOutOfRange, got %v", err)
	}
	if doc.Buffer.Text() != "hello" {
		t.Errorf("document should be unchanged, got %q", doc.Buffer.Text())
	}
}

func TestApplyTextEditsOutOfRangeColumn(t *testing.T) {
	doc := openTestDoc(t, "hello")

	_, err := ApplyTextEdits(doc, []TextEdit{edit(0, 20, 0, 21, "x")})
	if !errors.Is(err, ErrEditOutOfRange) {
		t.Fatalf("expected ErrEditOutOfRange, got %v", err)
	}
}

func TestApplyTextEditsInvertedRange(t *testing.T) {
	doc := openTestDoc(t, "hello")

	_, err := ApplyTextEdits(doc, []TextEdit{edit(0, 3, 0, 1, "x")})
	if !errors.Is(err, ErrEditOutOfRange) {
		t.Fatalf("expected ErrEditOutOfRange for inverted range, got %v", err)
	}
}

func TestApplyTextEditsPartialFailureReverts(t *testing.T) {
	doc := openTestDoc(t, "aaa\nbbb")

	// The line 1 edit applies first (bottom-up), then the line 0 edit
	// fails validation; nothing of the batch may remain.
	_, err := ApplyTextEdits(doc, []TextEdit{
		edit(1, 0, 1, 3, "BBB"),
		edit(0, 20, 0, 21, "X"),
	})
	if !errors.Is(err, ErrEditOutOfRange) {
		t.Fatalf("expected ErrEditOutOfRange, got %v", err)
	}
	if got := doc.Buffer.Text(); got != "aaa\nbbb" {
		t.Errorf("expected full revert, got %q", got)
	}
}

func TestApplyTextEditsEmptyBatch(t *testing.T) {
	doc := openTestDoc(t, "hello")
	rev := doc.Buffer.RevisionID()

	cp, err := ApplyTextEdits(doc, nil)
	if err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if cp == nil {
		t.Fatal("expected a checkpoint for an empty batch")
	}
	if doc.Buffer.RevisionID() != rev {
		t.Error("empty batch should not mutate the buffer")
	}
}

func TestApplyTextEditsMultiLine(t *testing.T) {
	doc := openTestDoc(t, "one\ntwo\nthree")

	_, err := ApplyTextEdits(doc, []TextEdit{
		edit(0, 0, 1, 3, "replaced"),
	})
	if err != nil {
		t.Fatalf("ApplyTextEdits: %v", err)
	}
	if got := doc.Buffer.Text(); got != "replaced\nthree" {
		t.Errorf("expected %q, got %q", "replaced\nthree", got)
	}
}

func TestApplyTextEditsUndoesAsSingleStep(t *testing.T) {
	doc := openTestDoc(t, "hello world")

	if _, err := ApplyTextEdits(doc, []TextEdit{
		edit(0, 0, 0, 5, "goodbye"),
		edit(0, 6, 0, 11, "earth"),
	}); err != nil {
		t.Fatalf("ApplyTextEdits: %v", err)
	}

	if err := doc.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := doc.Buffer.Text(); got != "hello world" {
		t.Errorf("expected one undo to revert the batch, got %q", got)
	}
	if doc.History.CanUndo() {
		t.Error("batch should be a single undo step")
	}

	if err := doc.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if got := doc.Buffer.Text(); got != "goodbye earth" {
		t.Errorf("expected redo to reapply the batch, got %q", got)
	}
}

func TestCheckpointRestore(t *testing.T) {
	doc := openTestDoc(t, "hello world")

	cp, err := ApplyTextEdits(doc, []TextEdit{edit(0, 0, 0, 5, "goodbye")})
	if err != nil {
		t.Fatalf("ApplyTextEdits: %v", err)
	}
	if doc.Buffer.Text() != "goodbye world" {
		t.Fatalf("unexpected content %q", doc.Buffer.Text())
	}

	cp.Restore()
	if got := doc.Buffer.Text(); got != "hello world" {
		t.Errorf("expected checkpoint restore, got %q", got)
	}
	if doc.History.CanUndo() {
		t.Error("restore should discard the batch's undo group")
	}
}

func TestApplyTextEditsBumpsVersion(t *testing.T) {
	doc := openTestDoc(t, "hello")
	v := doc.Version()

	if _, err := ApplyTextEdits(doc, []TextEdit{edit(0, 0, 0, 5, "bye")}); err != nil {
		t.Fatalf("ApplyTextEdits: %v", err)
	}
	if doc.Version() != v+1 {
		t.Errorf("expected version %d, got %d", v+1, doc.Version())
	}
	if !doc.IsDirty() {
		t.Error("applied batch should mark the document dirty")
	}
}

func TestApplyTextEditsInsertAtEnd(t *testing.T) {
	doc := openTestDoc(t, "hello")

	if _, err := ApplyTextEdits(doc, []TextEdit{edit(0, 5, 0, 5, "!")}); err != nil {
		t.Fatalf("insert at line end: %v", err)
	}
	if got := doc.Buffer.Text(); got != "hello!" {
		t.Errorf("expected %q, got %q", "hello!", got)
	}
}

func TestApplyTextEditsSamePositionInserts(t *testing.T) {
	doc := openTestDoc(t, "ab")

	// Inserts at the same position land in array order.
	edits := []TextEdit{
		edit(0, 1, 0, 1, "1"),
		edit(0, 1, 0, 1, "2"),
		edit(0, 1, 0, 1, "3"),
	}
	if _, err := ApplyTextEdits(doc, edits); err != nil {
		t.Fatalf("ApplyTextEdits: %v", err)
	}
	if got := doc.Buffer.Text(); got != "a123b" {
		t.Errorf("expected %q, got %q", "a123b", got)
	}
}
