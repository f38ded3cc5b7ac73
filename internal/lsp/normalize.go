package lsp

import "sort"

// ResourceOperation is a normalized file create, rename, or delete.
// Exactly one field is non-nil.
type ResourceOperation struct {
	Create *CreateFile
	Rename *RenameFile
	Delete *DeleteFile
}

// Kind returns the operation's protocol kind string.
func (op *ResourceOperation) Kind() string {
	switch {
	case op.Create != nil:
		return KindCreate
	case op.Rename != nil:
		return KindRename
	case op.Delete != nil:
		return KindDelete
	default:
		return ""
	}
}

// Paths returns the file paths the operation touches.
func (op *ResourceOperation) Paths() []string {
	switch {
	case op.Create != nil:
		return []string{URIToFilePath(op.Create.URI)}
	case op.Rename != nil:
		return []string{URIToFilePath(op.Rename.OldURI), URIToFilePath(op.Rename.NewURI)}
	case op.Delete != nil:
		return []string{URIToFilePath(op.Delete.URI)}
	default:
		return nil
	}
}

// Operation is one normalized unit of a workspace edit: a document's
// text edit batch or a resource operation. Exactly one field is non-nil.
type Operation struct {
	Edit     *TextDocumentEdit
	Resource *ResourceOperation
}

// NormalizeWorkspaceEdit flattens the two wire shapes of a workspace edit
// into one operation sequence. DocumentChanges is authoritative when
// present (batches are version-aware); otherwise the legacy changes map
// is converted to per-document batches with a null version, in URI order
// so the result is deterministic. No validation happens here — ranges may
// still be invalid or overlapping.
func NormalizeWorkspaceEdit(edit WorkspaceEdit) []Operation {
	if len(edit.DocumentChanges) > 0 {
		ops := make([]Operation, 0, len(edit.DocumentChanges))
		for _, dc := range edit.DocumentChanges {
			switch {
			case dc.TextDocumentEdit != nil:
				ops = append(ops, Operation{Edit: dc.TextDocumentEdit})
			case dc.CreateFile != nil:
				ops = append(ops, Operation{Resource: &ResourceOperation{Create: dc.CreateFile}})
			case dc.RenameFile != nil:
				ops = append(ops, Operation{Resource: &ResourceOperation{Rename: dc.RenameFile}})
			case dc.DeleteFile != nil:
				ops = append(ops, Operation{Resource: &ResourceOperation{Delete: dc.DeleteFile}})
			}
		}
		return ops
	}

	uris := make([]DocumentURI, 0, len(edit.Changes))
	for uri := range edit.Changes {
		uris = append(uris, uri)
	}
	sort.Slice(uris, func(i, j int) bool { return uris[i] < uris[j] })

	ops := make([]Operation, 0, len(uris))
	for _, uri := range uris {
		ops = append(ops, Operation{
			Edit: &TextDocumentEdit{
				TextDocument: OptionalVersionedTextDocumentIdentifier{
					TextDocumentIdentifier: TextDocumentIdentifier{URI: uri},
				},
				Edits: edit.Changes[uri],
			},
		})
	}
	return ops
}
