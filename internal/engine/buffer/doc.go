// Package buffer provides the text buffer used by the workspace edit engine.
//
// A Buffer holds one document's content as UTF-8 text with an index of line
// start offsets, and exposes the operations the edit pipeline needs: point
// and offset addressing, range replacement, and snapshot/restore. Snapshots
// are the checkpoint capability the transaction coordinator relies on: a
// snapshot taken before a batch of mutations can restore the buffer to its
// pre-batch state.
//
// All Buffer methods are safe for concurrent use.
package buffer
