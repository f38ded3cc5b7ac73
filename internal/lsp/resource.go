package lsp

import (
	"fmt"
	"os"
)

// ExecuteResourceOperation performs a file create, rename, or delete.
// Resource operations mutate the filesystem directly; they involve no
// buffer or checkpoint and cannot be reverted by this engine.
func ExecuteResourceOperation(op *ResourceOperation) error {
	switch {
	case op.Create != nil:
		// No existence check: an existing file at the target path is
		// truncated. Options are decoded but not consulted.
		path := URIToFilePath(op.Create.URI)
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		return nil

	case op.Rename != nil:
		oldPath := URIToFilePath(op.Rename.OldURI)
		newPath := URIToFilePath(op.Rename.NewURI)
		if err := os.Rename(oldPath, newPath); err != nil {
			return fmt.Errorf("renaming %s to %s: %w", oldPath, newPath, err)
		}
		return nil

	case op.Delete != nil:
		path := URIToFilePath(op.Delete.URI)
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("deleting %s: %w", path, err)
		}
		return nil

	default:
		return fmt.Errorf("empty resource operation")
	}
}
