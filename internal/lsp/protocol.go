package lsp

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// DocumentURI represents a URI as used in LSP.
// It is typically a file:// URI.
type DocumentURI string

// Position in a text document expressed as zero-based line and character offset.
// Character offset is measured in UTF-16 code units per the LSP specification.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Compare returns -1 if p is before other, 0 if equal, 1 if after.
func (p Position) Compare(other Position) int {
	if p.Line != other.Line {
		if p.Line < other.Line {
			return -1
		}
		return 1
	}
	if p.Character != other.Character {
		if p.Character < other.Character {
			return -1
		}
		return 1
	}
	return 0
}

// Range in a text document expressed as start and end positions.
// The range is half-open: the end position is excluded.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// IsValid returns true if the range's start does not come after its end.
func (r Range) IsValid() bool {
	return r.Start.Compare(r.End) <= 0
}

// TextEdit represents a textual edit applicable to a text document.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// TextDocumentIdentifier identifies a text document.
type TextDocumentIdentifier struct {
	URI DocumentURI `json:"uri"`
}

// OptionalVersionedTextDocumentIdentifier identifies a text document with an
// optional version. A null version means the document's version is unknown,
// which is how batches synthesized from the legacy changes map arrive.
type OptionalVersionedTextDocumentIdentifier struct {
	TextDocumentIdentifier
	Version *int `json:"version"`
}

// TextDocumentEdit is one document's batch of edits within a workspace edit.
type TextDocumentEdit struct {
	TextDocument OptionalVersionedTextDocumentIdentifier `json:"textDocument"`
	Edits        []TextEdit                              `json:"edits"`
}

// Resource operation kinds carried in documentChanges entries.
const (
	KindCreate = "create"
	KindRename = "rename"
	KindDelete = "delete"
)

// CreateFileOptions control create behavior. Decoded for wire parity;
// the executor currently writes unconditionally.
type CreateFileOptions struct {
	Overwrite      bool `json:"overwrite,omitempty"`
	IgnoreIfExists bool `json:"ignoreIfExists,omitempty"`
}

// CreateFile is a resource operation that creates a file.
type CreateFile struct {
	Kind    string             `json:"kind"`
	URI     DocumentURI        `json:"uri"`
	Options *CreateFileOptions `json:"options,omitempty"`
}

// RenameFileOptions control rename behavior.
type RenameFileOptions struct {
	Overwrite      bool `json:"overwrite,omitempty"`
	IgnoreIfExists bool `json:"ignoreIfExists,omitempty"`
}

// RenameFile is a resource operation that renames or moves a file.
type RenameFile struct {
	Kind    string             `json:"kind"`
	OldURI  DocumentURI        `json:"oldUri"`
	NewURI  DocumentURI        `json:"newUri"`
	Options *RenameFileOptions `json:"options,omitempty"`
}

// DeleteFileOptions control delete behavior.
type DeleteFileOptions struct {
	Recursive         bool `json:"recursive,omitempty"`
	IgnoreIfNotExists bool `json:"ignoreIfNotExists,omitempty"`
}

// DeleteFile is a resource operation that deletes a file.
type DeleteFile struct {
	Kind    string             `json:"kind"`
	URI     DocumentURI        `json:"uri"`
	Options *DeleteFileOptions `json:"options,omitempty"`
}

// DocumentChange is one entry of a workspace edit's documentChanges array:
// either a text document edit or one of the three resource operations.
// Exactly one field is non-nil.
type DocumentChange struct {
	TextDocumentEdit *TextDocumentEdit
	CreateFile       *CreateFile
	RenameFile       *RenameFile
	DeleteFile       *DeleteFile
}

// UnmarshalJSON decodes the documentChanges union. Resource operations are
// distinguished by their kind field; entries without a kind are text
// document edits.
func (dc *DocumentChange) UnmarshalJSON(data []byte) error {
	*dc = DocumentChange{}

	switch kind := gjson.GetBytes(data, "kind").String(); kind {
	case KindCreate:
		dc.CreateFile = &CreateFile{}
		return json.Unmarshal(data, dc.CreateFile)
	case KindRename:
		dc.RenameFile = &RenameFile{}
		return json.Unmarshal(data, dc.RenameFile)
	case KindDelete:
		dc.DeleteFile = &DeleteFile{}
		return json.Unmarshal(data, dc.DeleteFile)
	case "":
		dc.TextDocumentEdit = &TextDocumentEdit{}
		return json.Unmarshal(data, dc.TextDocumentEdit)
	default:
		return fmt.Errorf("unknown document change kind %q", kind)
	}
}

// MarshalJSON encodes whichever variant is set.
func (dc DocumentChange) MarshalJSON() ([]byte, error) {
	switch {
	case dc.TextDocumentEdit != nil:
		return json.Marshal(dc.TextDocumentEdit)
	case dc.CreateFile != nil:
		return json.Marshal(dc.CreateFile)
	case dc.RenameFile != nil:
		return json.Marshal(dc.RenameFile)
	case dc.DeleteFile != nil:
		return json.Marshal(dc.DeleteFile)
	default:
		return []byte("null"), nil
	}
}

// WorkspaceEdit represents changes to many resources managed in the workspace.
// Servers send either Changes (legacy map shape, no version information) or
// DocumentChanges (ordered, version-aware, may contain resource operations).
type WorkspaceEdit struct {
	Changes         map[DocumentURI][]TextEdit `json:"changes,omitempty"`
	DocumentChanges []DocumentChange           `json:"documentChanges,omitempty"`
}

// ApplyWorkspaceEditParams is the payload of a workspace/applyEdit request.
type ApplyWorkspaceEditParams struct {
	Label string        `json:"label,omitempty"`
	Edit  WorkspaceEdit `json:"edit"`
}
