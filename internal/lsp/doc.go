// Package lsp implements the workspace edit engine: the receiving end of
// the LSP workspace/applyEdit request.
//
// A WorkspaceEdit arrives in one of two wire shapes — version-aware
// per-document batches under documentChanges, or a legacy uri-to-edits
// map under changes — and may mix text edit batches with file create,
// rename, and delete resource operations. The pipeline is:
//
//	WorkspaceEdit → NormalizeWorkspaceEdit → []Operation → Coordinator
//
// The Coordinator resolves each text batch to an open buffer through an
// injected BufferResolver, applies it atomically under a checkpoint, and
// executes resource operations against the filesystem. All operations in
// one apply call run concurrently; if any fails, every document batch
// that succeeded is reverted to its checkpoint and a single failure
// notification is emitted. Resource operations are not reversible and
// are not compensated on partial failure.
package lsp
