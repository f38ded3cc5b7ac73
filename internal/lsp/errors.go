package lsp

import (
	"errors"
	"fmt"
)

// Standard errors returned by the workspace edit engine.
var (
	// ErrEditsOverlap indicates two edits in one document batch have
	// overlapping ranges. Exact adjacency is not an overlap.
	ErrEditsOverlap = errors.New("text edits overlap")

	// ErrEditOutOfRange indicates an edit starts beyond the document's
	// current extent.
	ErrEditOutOfRange = errors.New("text edit out of range")

	// ErrDocumentNotOpen indicates the document is not open.
	ErrDocumentNotOpen = errors.New("document not open")

	// ErrDocumentAlreadyOpen indicates the document is already open.
	ErrDocumentAlreadyOpen = errors.New("document already open")
)

// ApplyError is the aggregate failure for one workspace edit apply call.
// It wraps the error (or joined errors) that caused the call to fail
// after all concurrent operations settled.
type ApplyError struct {
	Cause error
}

// Error implements the error interface.
func (e *ApplyError) Error() string {
	return fmt.Sprintf("applying workspace edit: %v", e.Cause)
}

// Unwrap returns the causing error.
func (e *ApplyError) Unwrap() error {
	return e.Cause
}
