package lsp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/dshills/wsedit/internal/engine/buffer"
	"github.com/dshills/wsedit/internal/engine/history"
)

// Document is an open text document: its buffer, undo history, and
// tracking metadata.
type Document struct {
	URI        DocumentURI
	Path       string
	LanguageID string
	Buffer     *buffer.Buffer
	History    *history.History

	// applyMu serializes edit batches targeting this document. A
	// workspace edit may name the same URI in more than one batch;
	// each batch's position mapping must see the previous batch's
	// result, not a buffer mid-mutation.
	applyMu sync.Mutex

	mu         sync.Mutex
	version    int
	openedAt   time.Time
	modifiedAt time.Time
	dirty      bool
}

// Version returns the document's current version. Versions start at 1
// and increment on every applied batch.
func (d *Document) Version() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

// IsDirty returns true if the document has unsaved changes.
func (d *Document) IsDirty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dirty
}

// markModified bumps the version and dirty state after a batch applies.
func (d *Document) markModified() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.version++
	d.modifiedAt = time.Now()
	d.dirty = true
}

// Undo reverts the document's most recent undo group.
func (d *Document) Undo() error {
	return d.History.Undo(d.Buffer)
}

// Redo reapplies the document's most recently undone group.
func (d *Document) Redo() error {
	return d.History.Redo(d.Buffer)
}

// Save writes the buffer content to the document's path.
func (d *Document) Save() error {
	if err := os.WriteFile(d.Path, []byte(d.Buffer.Text()), 0o644); err != nil {
		return fmt.Errorf("saving %s: %w", d.Path, err)
	}
	d.mu.Lock()
	d.dirty = false
	d.mu.Unlock()
	return nil
}

// Workspace tracks open documents and resolves URIs to buffers,
// opening documents from disk when they are not already open.
// It is the engine's BufferResolver implementation.
type Workspace struct {
	mu        sync.RWMutex
	documents map[DocumentURI]*Document

	bufferOpts []buffer.Option
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*Workspace)

// WithBufferOptions sets the options applied to every buffer the
// workspace opens.
func WithBufferOptions(opts ...buffer.Option) WorkspaceOption {
	return func(w *Workspace) {
		w.bufferOpts = opts
	}
}

// NewWorkspace creates an empty workspace.
func NewWorkspace(opts ...WorkspaceOption) *Workspace {
	w := &Workspace{
		documents: make(map[DocumentURI]*Document),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Open opens a document with the given content.
func (w *Workspace) Open(path, languageID, content string) (*Document, error) {
	uri := FilePathToURI(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.documents[uri]; exists {
		return nil, ErrDocumentAlreadyOpen
	}

	doc := &Document{
		URI:        uri,
		Path:       path,
		LanguageID: languageID,
		Buffer:     buffer.NewBufferFromString(content, w.bufferOpts...),
		History:    history.New(),
		version:    1,
		openedAt:   time.Now(),
	}
	w.documents[uri] = doc
	return doc, nil
}

// OpenFile opens a document by reading its content from disk.
func (w *Workspace) OpenFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return w.Open(path, languageIDForPath(path), string(data))
}

// Get returns an open document by URI.
func (w *Workspace) Get(uri DocumentURI) (*Document, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	doc, ok := w.documents[uri]
	return doc, ok
}

// Close removes a document from the workspace. Unsaved changes are lost.
func (w *Workspace) Close(uri DocumentURI) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.documents[uri]; !ok {
		return ErrDocumentNotOpen
	}
	delete(w.documents, uri)
	return nil
}

// Documents returns all open documents.
func (w *Workspace) Documents() []*Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	docs := make([]*Document, 0, len(w.documents))
	for _, doc := range w.documents {
		docs = append(docs, doc)
	}
	return docs
}

// Resolve returns the open document for uri, opening it from disk in the
// background if necessary. Implements BufferResolver.
func (w *Workspace) Resolve(ctx context.Context, uri DocumentURI) (*Document, error) {
	if doc, ok := w.Get(uri); ok {
		return doc, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := w.OpenFile(URIToFilePath(uri))
	if err == nil {
		return doc, nil
	}
	// Another resolve may have opened it while this one was reading.
	if doc, ok := w.Get(uri); ok {
		return doc, nil
	}
	return nil, err
}

// SaveModified writes every dirty document back to disk.
func (w *Workspace) SaveModified() error {
	var result *multierror.Error
	for _, doc := range w.Documents() {
		if doc.IsDirty() {
			result = multierror.Append(result, doc.Save())
		}
	}
	return result.ErrorOrNil()
}

// languageIDForPath maps a file extension to an LSP language identifier.
func languageIDForPath(path string) string {
	switch filepath.Ext(path) {
	case ".go":
		return "go"
	case ".js":
		return "javascript"
	case ".ts":
		return "typescript"
	case ".py":
		return "python"
	case ".rs":
		return "rust"
	case ".md":
		return "markdown"
	case ".json":
		return "json"
	default:
		return "plaintext"
	}
}
