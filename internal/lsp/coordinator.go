package lsp

import (
	"context"
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// BufferResolver resolves a document URI to an open document, opening it
// in the background if it is not already open.
type BufferResolver interface {
	Resolve(ctx context.Context, uri DocumentURI) (*Document, error)
}

// Notifier surfaces user-facing errors. The coordinator emits exactly
// one notification per failed apply call.
type Notifier interface {
	Error(title, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(title, message string)

// Error implements Notifier.
func (f NotifierFunc) Error(title, message string) {
	f(title, message)
}

type nopNotifier struct{}

func (nopNotifier) Error(string, string) {}

// ApplyEditResult contains the result of applying a workspace edit.
// Applied is the sole machine-readable outcome; FailureReason and
// ModifiedFiles carry detail for display.
type ApplyEditResult struct {
	// Whether the edit was applied successfully
	Applied bool `json:"applied"`

	// Error message if not applied
	FailureReason string `json:"failureReason,omitempty"`

	// Files that were modified
	ModifiedFiles []string `json:"-"`
}

// Coordinator drives a workspace edit through the normalizer, the edit
// applier, and the resource executor, and reports a single aggregate
// outcome. Collaborators are injected at construction.
type Coordinator struct {
	resolver BufferResolver
	notifier Notifier
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithNotifier sets the notifier used to surface apply failures.
func WithNotifier(n Notifier) CoordinatorOption {
	return func(c *Coordinator) {
		c.notifier = n
	}
}

// NewCoordinator creates a coordinator using the given resolver.
func NewCoordinator(resolver BufferResolver, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		resolver: resolver,
		notifier: nopNotifier{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ApplyWorkspaceEdit applies a workspace edit with best-effort
// all-or-nothing semantics.
//
// All normalized operations run concurrently and every one runs to
// completion; there is no cancellation once launched and no ordering
// between operations on distinct documents. Batches naming the same
// document serialize on the document's apply lock, each seeing the
// previous batch's result. If every operation succeeds the recorded document
// checkpoints are discarded (each batch remains a single undoable step)
// and the result is applied. If any operation fails, every document
// batch that did succeed is reverted to its checkpoint, one failure
// notification is emitted, and the result is not applied. Resource
// operations that already completed are not undone; that is a stated
// limitation of the protocol semantics, not an oversight.
//
// The returned error reports a failure of the call machinery itself; a
// workspace edit that could not be applied is a result, not an error.
func (c *Coordinator) ApplyWorkspaceEdit(ctx context.Context, edit WorkspaceEdit) (*ApplyEditResult, error) {
	ops := NormalizeWorkspaceEdit(edit)

	var (
		mu sync.Mutex
		// One checkpoint per document. When several batches hit the
		// same document, only the earliest checkpoint matters: its
		// snapshot predates every batch, so restoring it alone
		// reverts them all.
		checkpoints = make(map[*Document]*Checkpoint)
		modified    []string
		failures    []error
	)

	var g errgroup.Group
	for _, op := range ops {
		op := op
		g.Go(func() error {
			paths, cp, err := c.runOperation(ctx, op)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err)
				return err
			}
			if cp != nil {
				if prev, ok := checkpoints[cp.doc]; !ok || cp.mark < prev.mark {
					checkpoints[cp.doc] = cp
				}
			}
			modified = append(modified, paths...)
			return nil
		})
	}
	_ = g.Wait() // every failure is collected above

	if len(failures) > 0 {
		// Best-effort rollback of every document batch that succeeded.
		for _, cp := range checkpoints {
			cp.Restore()
		}
		aggErr := &ApplyError{Cause: multierror.Append(nil, failures...).ErrorOrNil()}
		c.notifier.Error("Workspace edit failed", aggErr.Error())
		return &ApplyEditResult{
			Applied:       false,
			FailureReason: aggErr.Cause.Error(),
		}, nil
	}

	sort.Strings(modified)
	modified = dedupeSorted(modified)
	return &ApplyEditResult{
		Applied:       true,
		ModifiedFiles: modified,
	}, nil
}

// dedupeSorted removes adjacent duplicates from a sorted slice. A
// document named by several batches is still one modified file.
func dedupeSorted(paths []string) []string {
	out := paths[:0]
	for _, p := range paths {
		if len(out) == 0 || out[len(out)-1] != p {
			out = append(out, p)
		}
	}
	return out
}

// runOperation dispatches one normalized operation.
func (c *Coordinator) runOperation(ctx context.Context, op Operation) ([]string, *Checkpoint, error) {
	if op.Resource != nil {
		if err := ExecuteResourceOperation(op.Resource); err != nil {
			return nil, nil, err
		}
		return op.Resource.Paths(), nil, nil
	}

	doc, err := c.resolver.Resolve(ctx, op.Edit.TextDocument.URI)
	if err != nil {
		return nil, nil, err
	}
	cp, err := ApplyTextEdits(doc, op.Edit.Edits)
	if err != nil {
		return nil, nil, err
	}
	if len(op.Edit.Edits) == 0 {
		// An empty batch succeeds but modifies nothing.
		return nil, cp, nil
	}
	return []string{doc.Path}, cp, nil
}
