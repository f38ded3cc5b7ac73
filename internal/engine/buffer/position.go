package buffer

import (
	"fmt"
	"sync/atomic"
)

// ByteOffset is a byte position in the buffer content.
// This is the fundamental position type, directly indexing into the text.
type ByteOffset = int

// Point is a line and column position.
// Line is zero-based; Column is a zero-based byte offset within the line.
type Point struct {
	Line   int
	Column int
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Compare returns -1 if p is before other, 0 if equal, 1 if after.
func (p Point) Compare(other Point) int {
	if p.Line != other.Line {
		if p.Line < other.Line {
			return -1
		}
		return 1
	}
	if p.Column != other.Column {
		if p.Column < other.Column {
			return -1
		}
		return 1
	}
	return 0
}

// Before returns true if p is strictly before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// After returns true if p is strictly after other.
func (p Point) After(other Point) bool {
	return p.Compare(other) > 0
}

// RevisionID uniquely identifies a buffer revision.
// Every mutation produces a new revision ID.
type RevisionID uint64

var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
// Revision IDs are process-wide monotonic.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}
