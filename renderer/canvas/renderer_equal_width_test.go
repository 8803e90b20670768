package canvasrenderer

import "testing"

// 当第一行宽度与容器宽度恰好相等且后面紧跟一个显式换行时，不应产生额外的空行。
func TestNoBlankLineWhenEqualWidthThenNewline(t *testing.T) {
	face := testFace(t, 18)

	first := "SAMPLE-A"
	measured := LayoutLines(first, 1e6, face, 0, 0)
	if len(measured) != 1 {
		t.Fatalf("unexpected measured lines: %d", len(measured))
	}
	limit := measured[0].Width
	if limit <= 0 {
		t.Fatalf("invalid measured width: %g", limit)
	}

	content := first + "\n" + "SAMPLE"
	lines := LayoutLines(content, limit, face, 0, 0)
	if got := len(lines); got != 2 {
		t.Fatalf("expected 2 lines without blank, got %d", got)
	}
	if lines[0].Content != first {
		t.Fatalf("first line mismatch: got=%q want=%q", lines[0].Content, first)
	}
	if lines[1].Content != "SAMPLE" {
		t.Fatalf("second line mismatch: got=%q want=%q", lines[1].Content, "SAMPLE")
	}
}
