package lsp

import (
	"testing"

	"github.com/dshills/wsedit/internal/engine/buffer"
)

func TestUTF16Len(t *testing.T) {
	tests := []struct {
		s    string
		want int
	}{
		{"", 0},
		{"hello", 5},
		{"héllo", 5},        // é is one UTF-16 unit
		{"a\U0001F600b", 4}, // emoji is a surrogate pair
	}
	for _, tt := range tests {
		if got := UTF16Len(tt.s); got != tt.want {
			t.Errorf("UTF16Len(%q): expected %d, got %d", tt.s, tt.want, got)
		}
	}
}

func TestUTF16ToByteColumn(t *testing.T) {
	line := "a\U0001F600b" // 1 + 4 + 1 bytes; 1 + 2 + 1 UTF-16 units

	tests := []struct {
		col  int
		want int
	}{
		{0, 0},
		{1, 1},
		{3, 5}, // past the surrogate pair
		{4, 6},
		{99, 6}, // clamps to line length
		{-1, 0},
	}
	for _, tt := range tests {
		if got := UTF16ToByteColumn(line, tt.col); got != tt.want {
			t.Errorf("UTF16ToByteColumn(%d): expected %d, got %d", tt.col, tt.want, got)
		}
	}
}

func TestByteToUTF16Column(t *testing.T) {
	line := "a\U0001F600b"

	tests := []struct {
		byteCol int
		want    int
	}{
		{0, 0},
		{1, 1},
		{5, 3},
		{6, 4},
		{99, 4}, // clamps
	}
	for _, tt := range tests {
		if got := ByteToUTF16Column(line, tt.byteCol); got != tt.want {
			t.Errorf("ByteToUTF16Column(%d): expected %d, got %d", tt.byteCol, tt.want, got)
		}
	}
}

func TestPositionToOffset(t *testing.T) {
	buf := buffer.NewBufferFromString("hello\nwörld")

	tests := []struct {
		pos  Position
		want buffer.ByteOffset
	}{
		{Position{0, 0}, 0},
		{Position{0, 5}, 5},
		{Position{1, 0}, 6},
		{Position{1, 2}, 9},  // ö is two bytes
		{Position{1, 5}, 12}, // full line
		{Position{9, 0}, 12}, // past last line clamps to end
		{Position{0, 99}, 5}, // past line end clamps
	}
	for _, tt := range tests {
		if got := positionToOffset(buf, tt.pos); got != tt.want {
			t.Errorf("positionToOffset(%v): expected %d, got %d", tt.pos, tt.want, got)
		}
	}
}

func TestOffsetToPosition(t *testing.T) {
	buf := buffer.NewBufferFromString("hello\nwörld")

	tests := []struct {
		offset buffer.ByteOffset
		want   Position
	}{
		{0, Position{0, 0}},
		{6, Position{1, 0}},
		{9, Position{1, 2}},
		{12, Position{1, 5}},
	}
	for _, tt := range tests {
		if got := offsetToPosition(buf, tt.offset); got != tt.want {
			t.Errorf("offsetToPosition(%d): expected %v, got %v", tt.offset, tt.want, got)
		}
	}
}
