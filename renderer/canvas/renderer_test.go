package canvasrenderer

import (
	"bytes"
	"image/color"
	"math"
	"testing"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
)

func testFace(t *testing.T, sizePx float64) *canvas.FontFace {
	t.Helper()
	face, err := NewTypesetter(".").Face(FontSpec{Family: "Arial"}, sizePx, color.Black)
	if err != nil {
		t.Fatalf("face error: %v", err)
	}
	return face
}

func TestLayoutLinesGreedyWrapsText(t *testing.T) {
	lines := LayoutLines("hello world again", 40, testFace(t, 18), 0, 0)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %d", len(lines))
	}
}

func TestGreedyWrapHonorsNewlines(t *testing.T) {
	lines := LayoutLines("foo\n\nbar", 400, testFace(t, 18), 0, 0)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines including blank, got %d", len(lines))
	}
	if lines[1].Content != "" {
		t.Fatalf("expected middle line to be blank, got %q", lines[1].Content)
	}
}

// TestLineHeightsInvariant 验证：
// 1) 首行 GapBefore == 0；
// 2) 其余行 GapBefore ≈ max(lineHeight - textHeight, 0)；
// 3) 各行的 Height 与 textHeight 一致。
func TestLineHeightsInvariant(t *testing.T) {
	face := testFace(t, 18)
	lineHeight := 18 * 2.0

	content := "longlonglong longlonglong longlonglong longlonglong longlonglong"
	lines := LayoutLines(content, 150, face, lineHeight, 0)
	if len(lines) < 2 {
		t.Fatalf("expected multiple lines for invariant test, got %d", len(lines))
	}

	textHeight := lines[0].Height
	if textHeight <= 0 {
		t.Fatalf("invalid text height: %g", textHeight)
	}
	wantLeading := math.Max(lineHeight-textHeight, 0)

	if lines[0].GapBefore != 0 {
		t.Fatalf("first line GapBefore must be 0, got %g", lines[0].GapBefore)
	}
	const eps = 1e-6
	for i := 1; i < len(lines); i++ {
		if diff := math.Abs(lines[i].GapBefore - wantLeading); diff > eps {
			t.Fatalf("line %d GapBefore mismatch: got=%g want=%g diff=%g", i, lines[i].GapBefore, wantLeading, diff)
		}
		if diff := math.Abs(lines[i].Height - textHeight); diff > eps {
			t.Fatalf("line %d Height mismatch: got=%g want=%g diff=%g", i, lines[i].Height, textHeight, diff)
		}
	}
}

// TestGreedyWrapWidthLimit 验证每行宽度不超过限制（像素）。
func TestGreedyWrapWidthLimit(t *testing.T) {
	limit := 80.0
	content := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	lines := LayoutLines(content, limit, testFace(t, 18), 0, 0)
	if len(lines) < 2 {
		t.Fatalf("expected the long word to be split, got %d lines", len(lines))
	}
	for i, ln := range lines {
		if ln.Width-limit > 1e-6 {
			t.Fatalf("line %d width exceeds limit: width=%g limit=%g", i, ln.Width, limit)
		}
	}
}

func TestLetterSpacingWidensText(t *testing.T) {
	face := testFace(t, 18)
	plain := Measure(face, "abcd", 0)
	spaced := Measure(face, "abcd", 2)
	if math.Abs(spaced-plain-6) > 1e-9 {
		t.Fatalf("letter spacing should add 3 gaps of 2px: plain=%g spaced=%g", plain, spaced)
	}
}

func TestBoldAndRegularFacesDiffer(t *testing.T) {
	ts := NewTypesetter(".")
	regular, err := ts.Face(FontSpec{Family: "Arial"}, 18, color.Black)
	if err != nil {
		t.Fatalf("regular face: %v", err)
	}
	bold, err := ts.Face(FontSpec{Family: "Arial", Bold: true}, 18, color.Black)
	if err != nil {
		t.Fatalf("bold face: %v", err)
	}
	if regular.TextWidth("Headline") == bold.TextWidth("Headline") {
		t.Fatalf("bold face should measure differently from regular")
	}
}

func TestGlyphAdvancesAreProportional(t *testing.T) {
	face := testFace(t, 18)
	narrow, wide := face.TextWidth("iiii"), face.TextWidth("WWWW")
	if narrow <= 0 || narrow >= wide {
		t.Fatalf("advances should follow glyph widths: iiii=%g WWWW=%g", narrow, wide)
	}
}

// inkOf 统计单个字符串栅格化后的非透明像素数。
func inkOf(t *testing.T, face *canvas.FontFace, s string) int {
	t.Helper()
	frame := canvas.New(120, 60)
	ctx := canvas.NewContext(frame)
	ctx.DrawText(10, 20, canvas.NewTextLine(face, s, canvas.Left))
	img := rasterizer.Draw(frame, canvas.DPMM(1), canvas.DefaultColorSpace)
	ink := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
				ink++
			}
		}
	}
	return ink
}

func TestGlyphsAreNotPlaceholderBoxes(t *testing.T) {
	face := testFace(t, 18)
	l, o, dot := inkOf(t, face, "l"), inkOf(t, face, "o"), inkOf(t, face, ".")
	if l == 0 || o == 0 || dot == 0 {
		t.Fatalf("glyphs should leave ink: l=%d o=%d .=%d", l, o, dot)
	}
	if l == o && o == dot {
		t.Fatalf("distinct glyphs rendered identically (%d px), looks like .notdef", l)
	}
	if dot >= l {
		t.Fatalf("a period should carry less ink than an l: .=%d l=%d", dot, l)
	}
}

func TestExportersProduceFiles(t *testing.T) {
	frame := canvas.New(120, 80)
	ctx := canvas.NewContext(frame)
	ctx.SetFillColor(canvas.Red)
	ctx.DrawPath(10, 10, canvas.Rectangle(50, 30))

	pngBytes, err := PNG{}.Render(frame)
	if err != nil {
		t.Fatalf("png export: %v", err)
	}
	if !bytes.HasPrefix(pngBytes, []byte("\x89PNG")) {
		t.Fatalf("png signature missing")
	}
	pdfBytes, err := PDF{Meta: Meta{Title: "frame"}}.Render(frame)
	if err != nil {
		t.Fatalf("pdf export: %v", err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Fatalf("pdf header missing")
	}
	if _, err := (PNG{}).Render(nil); err == nil {
		t.Fatalf("nil frame should fail")
	}
}
