package lsp

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/dshills/wsedit/internal/engine/buffer"
)

// LSP positions count columns in UTF-16 code units; buffers address bytes.
// These helpers convert between the two against a single line of text.

// UTF16Len returns the length of s in UTF-16 code units.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += len(utf16.AppendRune(nil, r))
	}
	return n
}

// UTF16ToByteColumn converts a UTF-16 column in line to a byte column.
// Columns past the end of the line clamp to the line length.
func UTF16ToByteColumn(line string, col int) int {
	if col <= 0 {
		return 0
	}
	units := 0
	for i, r := range line {
		if units >= col {
			return i
		}
		units += len(utf16.AppendRune(nil, r))
	}
	return len(line)
}

// ByteToUTF16Column converts a byte column in line to a UTF-16 column.
// Byte columns past the end of the line clamp to the line's UTF-16 length.
func ByteToUTF16Column(line string, byteCol int) int {
	if byteCol <= 0 {
		return 0
	}
	if byteCol > len(line) {
		byteCol = len(line)
	}
	units := 0
	for i := 0; i < byteCol; {
		r, size := utf8.DecodeRuneInString(line[i:])
		units += len(utf16.AppendRune(nil, r))
		i += size
	}
	return units
}

// positionToOffset resolves an LSP position to a byte offset in the buffer.
// Positions beyond the buffer extent clamp, matching how editors resolve
// server-sent ranges that reach past the end of a document.
func positionToOffset(buf *buffer.Buffer, pos Position) buffer.ByteOffset {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= buf.LineCount() {
		return buf.Len()
	}
	byteCol := UTF16ToByteColumn(buf.LineText(pos.Line), pos.Character)
	return buf.LineStartOffset(pos.Line) + byteCol
}

// offsetToPosition converts a byte offset in the buffer to an LSP position.
func offsetToPosition(buf *buffer.Buffer, offset buffer.ByteOffset) Position {
	p := buf.OffsetToPoint(offset)
	return Position{
		Line:      p.Line,
		Character: ByteToUTF16Column(buf.LineText(p.Line), p.Column),
	}
}
