package lsp

import (
	"testing"

	"github.com/bpclang/bpc/diag"
)

func TestOffsetAt(t *testing.T) {
	content := []byte("using Gtk 4.0;\n\nGtk.Box {\n}\n")
	tests := []struct {
		name      string
		line      int
		character int
		want      int
	}{
		{name: "start of file", line: 0, character: 0, want: 0},
		{name: "middle of first line", line: 0, character: 6, want: 6},
		{name: "start of second line", line: 1, character: 0, want: 15},
		{name: "third line", line: 2, character: 4, want: 20},
		{name: "character past line end is clamped to content", line: 3, character: 99, want: len(content)},
		{name: "line past end of file", line: 42, character: 0, want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := offsetAt(content, tt.line, tt.character); got != tt.want {
				t.Errorf("offsetAt(%d, %d) = %d, want %d", tt.line, tt.character, got, tt.want)
			}
		})
	}
}

func TestSpanToRangeIsZeroBased(t *testing.T) {
	span := diag.Span{
		Start: diag.Position{Line: 3, Column: 5},
		End:   diag.Position{Line: 3, Column: 9},
	}
	r := spanToRange(span)
	if r.Start.Line != 2 || r.Start.Character != 4 {
		t.Errorf("start = %d:%d, want 2:4", r.Start.Line, r.Start.Character)
	}
	if r.End.Line != 2 || r.End.Character != 8 {
		t.Errorf("end = %d:%d, want 2:8", r.End.Line, r.End.Character)
	}
}

func TestSpanToRangeClampsZeroPositions(t *testing.T) {
	r := spanToRange(diag.Span{})
	if r.Start.Line != 0 || r.Start.Character != 0 {
		t.Errorf("zero span should clamp to 0:0, got %d:%d", r.Start.Line, r.Start.Character)
	}
}
