package buffer

import (
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
)

// ErrRangeInvalid is returned for malformed or out-of-bounds edit ranges.
var ErrRangeInvalid = errors.New("invalid range")

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
)

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	if le == LineEndingCRLF {
		return "\r\n"
	}
	return "\n"
}

// Buffer holds one document's text with a line index.
// It provides the primary interface for text manipulation.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	content    string
	lineStarts []int
	revisionID RevisionID
	lineEnding LineEnding
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.rebuildIndex()
	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.content = b.normalizeLineEndings(s)
	b.rebuildIndex()
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	// Read everything first so CRLF sequences split across read
	// boundaries normalize correctly.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

// normalizeLineEndings converts all line endings to the buffer's preferred style.
func (b *Buffer) normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if b.lineEnding == LineEndingCRLF {
		s = strings.ReplaceAll(s, "\n", "\r\n")
	}
	return s
}

// rebuildIndex recomputes the line start offsets for the current content.
// Callers must hold the write lock (or have exclusive access during init).
func (b *Buffer) rebuildIndex() {
	seq := b.lineEnding.Sequence()
	starts := b.lineStarts[:0]
	starts = append(starts, 0)
	for i := 0; i+len(seq) <= len(b.content); {
		if b.content[i:i+len(seq)] == seq {
			starts = append(starts, i+len(seq))
			i += len(seq)
			continue
		}
		i++
	}
	b.lineStarts = starts
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content
}

// TextRange returns text in the given byte range.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start = clamp(start, 0, len(b.content))
	end = clamp(end, start, len(b.content))
	return b.content[start:end]
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.content)
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.content) == 0
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lineStarts)
}

// LineText returns the text of a specific line (without the line ending).
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 || line >= len(b.lineStarts) {
		return ""
	}
	return b.content[b.lineStarts[line]:b.lineEndLocked(line)]
}

// LineLen returns the length of a specific line in bytes (without the line ending).
func (b *Buffer) LineLen(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 || line >= len(b.lineStarts) {
		return 0
	}
	return b.lineEndLocked(line) - b.lineStarts[line]
}

// LineStartOffset returns the byte offset of the start of a line.
func (b *Buffer) LineStartOffset(line int) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 {
		return 0
	}
	if line >= len(b.lineStarts) {
		return len(b.content)
	}
	return b.lineStarts[line]
}

// LineEndOffset returns the byte offset of the end of a line (before the line ending).
func (b *Buffer) LineEndOffset(line int) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 {
		return 0
	}
	if line >= len(b.lineStarts) {
		return len(b.content)
	}
	return b.lineEndLocked(line)
}

// lineEndLocked returns the end offset of a line. Callers hold at least a read lock.
func (b *Buffer) lineEndLocked(line int) int {
	if line+1 < len(b.lineStarts) {
		return b.lineStarts[line+1] - len(b.lineEnding.Sequence())
	}
	return len(b.content)
}

// PointToOffset converts a line/column point to a byte offset.
// Points beyond the buffer extent clamp to the nearest valid offset.
func (b *Buffer) PointToOffset(p Point) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pointToOffsetLocked(p)
}

func (b *Buffer) pointToOffsetLocked(p Point) int {
	if p.Line < 0 {
		return 0
	}
	if p.Line >= len(b.lineStarts) {
		return len(b.content)
	}
	start := b.lineStarts[p.Line]
	end := b.lineEndLocked(p.Line)
	return start + clamp(p.Column, 0, end-start)
}

// OffsetToPoint converts a byte offset to a line/column point.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	offset = clamp(offset, 0, len(b.content))
	line := sort.Search(len(b.lineStarts), func(i int) bool {
		return b.lineStarts[i] > offset
	}) - 1
	return Point{Line: line, Column: offset - b.lineStarts[line]}
}

// Write Operations

// Replace replaces text in the given byte range with new text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (EditResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > len(b.content) {
		return EditResult{}, ErrRangeInvalid
	}

	oldText := b.content[start:end]
	text = b.normalizeLineEndings(text)
	b.content = b.content[:start] + text + b.content[end:]
	b.rebuildIndex()
	b.revisionID = NewRevisionID()

	return EditResult{
		OldRange: Range{Start: start, End: end},
		NewRange: Range{Start: start, End: start + len(text)},
		OldText:  oldText,
		NewText:  text,
		Delta:    len(text) - (end - start),
	}, nil
}

// ApplyEdit applies a single edit to the buffer.
func (b *Buffer) ApplyEdit(edit Edit) (EditResult, error) {
	if !edit.Range.IsValid() {
		return EditResult{}, ErrRangeInvalid
	}
	return b.Replace(edit.Range.Start, edit.Range.End, edit.NewText)
}

// Insert inserts text at the given offset.
func (b *Buffer) Insert(offset ByteOffset, text string) (EditResult, error) {
	return b.Replace(offset, offset, text)
}

// Delete removes text in the given range.
func (b *Buffer) Delete(start, end ByteOffset) (EditResult, error) {
	return b.Replace(start, end, "")
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
