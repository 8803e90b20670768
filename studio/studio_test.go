package studio

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/ByLCY/designcanvas/design"
	"github.com/ByLCY/designcanvas/geometry"
	canvasrenderer "github.com/ByLCY/designcanvas/renderer/canvas"
	"github.com/ByLCY/designcanvas/stage"
)

func el(id string, kind design.Kind, x, y float64) design.Element {
	return design.Element{
		ID:       id,
		Kind:     kind,
		Position: design.Position{X: x, Y: y},
		Size:     geometry.Size{Width: 100, Height: 40},
		Style:    design.DefaultStyle(kind),
	}
}

func newTestCanvas(t *testing.T, list ...design.Element) (*Canvas, *Session) {
	t.Helper()
	s := NewSession(design.Document{Elements: list})
	c := New(s, WithClock(func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }))
	t.Cleanup(c.Close)
	return c, s
}

func TestClickSelectsAndClears(t *testing.T) {
	bg := el("bg", design.KindBackground, 0, 0)
	shape := el("box", design.KindShape, 50, 50)
	c, s := newTestCanvas(t, bg, shape)

	if err := c.Click(geometry.Point{X: 400, Y: 225}); err != nil {
		t.Fatalf("click: %v", err)
	}
	sel, ok := s.Selected()
	if !ok || sel.ID != "box" {
		t.Fatalf("expected box selected, got %+v ok=%v", sel, ok)
	}
	if n, ok := c.Transformer().Attached(); !ok || n.ID != "box" {
		t.Fatalf("transformer should be attached to box")
	}

	if err := c.Click(geometry.Point{X: 5, Y: 5}); err != nil {
		t.Fatalf("click: %v", err)
	}
	if _, ok := s.Selected(); ok {
		t.Fatalf("click on empty stage should clear the selection")
	}
	if _, ok := c.Transformer().Attached(); ok {
		t.Fatalf("transformer should be detached")
	}
}

func TestCommentPlacement(t *testing.T) {
	shape := el("box", design.KindShape, 50, 50)
	c, s := newTestCanvas(t, shape)

	c.BeginComment("looks good")
	if err := c.Click(geometry.Point{X: 400, Y: 225}); err != nil {
		t.Fatalf("click: %v", err)
	}
	comments := s.Comments()
	if len(comments) != 1 {
		t.Fatalf("expected one comment, got %d", len(comments))
	}
	cm := comments[0]
	if !strings.HasPrefix(cm.ID, "comment-") || cm.Content != "looks good" || cm.Resolved {
		t.Fatalf("unexpected comment %+v", cm)
	}
	if math.Abs(cm.Position.X-50) > 1e-9 || math.Abs(cm.Position.Y-50) > 1e-9 {
		t.Fatalf("comment should be placed at (50,50), got %+v", cm.Position)
	}
	if !cm.Timestamp.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected timestamp %v", cm.Timestamp)
	}
	if _, ok := c.PendingComment(); ok {
		t.Fatalf("placing a comment should clear the pending state")
	}
	if _, ok := s.Selected(); ok {
		t.Fatalf("comment click must not change the selection")
	}
}

func TestBlankCommentIsIgnored(t *testing.T) {
	c, s := newTestCanvas(t, el("box", design.KindShape, 50, 50))
	c.BeginComment("   ")
	if err := c.Click(geometry.Point{X: 400, Y: 225}); err != nil {
		t.Fatalf("click: %v", err)
	}
	if len(s.Comments()) != 0 {
		t.Fatalf("blank comment must not be placed")
	}
	if _, ok := c.PendingComment(); !ok {
		t.Fatalf("blank comment keeps the placement mode")
	}
	if _, ok := s.Selected(); ok {
		t.Fatalf("click in comment mode must not select")
	}
	c.CancelComment()
	if _, ok := c.PendingComment(); ok {
		t.Fatalf("cancel should leave comment mode")
	}
}

func TestDragEndCommitsPercent(t *testing.T) {
	c, s := newTestCanvas(t, el("box", design.KindShape, 50, 50))
	if err := c.DragEnd("box", geometry.Point{X: 0, Y: 0}); err != nil {
		t.Fatalf("drag: %v", err)
	}
	got, _ := s.Elements().Find("box")
	if got.Position.X != 0 || got.Position.Y != 0 {
		t.Fatalf("expected {0,0}, got %+v", got.Position)
	}
	if err := c.DragEnd("missing", geometry.Point{}); !errors.Is(err, ErrUnknownNode) {
		t.Fatalf("expected ErrUnknownNode, got %v", err)
	}
}

func TestTransformAspectLock(t *testing.T) {
	rect := el("rect", design.KindShape, 25, 50)
	tri := el("tri", design.KindShape, 75, 50)
	tri.Shape = design.ShapeTriangle
	c, s := newTestCanvas(t, rect, tri)

	if err := c.Transform("rect", Gesture{Anchor: "bottom-right", ScaleX: 2, ScaleY: 1.2}); !errors.Is(err, ErrNotSelected) {
		t.Fatalf("transform without selection should fail, got %v", err)
	}

	if err := c.Click(geometry.Point{X: 200, Y: 225}); err != nil {
		t.Fatalf("click: %v", err)
	}
	if err := c.Transform("rect", Gesture{Anchor: "bottom-right", ScaleX: 2, ScaleY: 1.2}); err != nil {
		t.Fatalf("transform: %v", err)
	}
	got, _ := s.Elements().Find("rect")
	if math.Abs(got.Size.Width-200) > 1e-9 || math.Abs(got.Size.Height-80) > 1e-9 {
		t.Fatalf("corner drag on rect keeps ratio, got %+v", got.Size)
	}
	if c.Transformer().KeepRatio() {
		t.Fatalf("keep ratio should revert after the gesture")
	}

	if err := c.Click(geometry.Point{X: 600, Y: 225}); err != nil {
		t.Fatalf("click: %v", err)
	}
	if err := c.Transform("tri", Gesture{Anchor: "bottom-right", ScaleX: 2, ScaleY: 1.2}); err != nil {
		t.Fatalf("transform: %v", err)
	}
	got, _ = s.Elements().Find("tri")
	if math.Abs(got.Size.Width-200) > 1e-9 || math.Abs(got.Size.Height-48) > 1e-9 {
		t.Fatalf("triangle resizes freely, got %+v", got.Size)
	}
}

func TestSnapshotRendersBackground(t *testing.T) {
	bg := el("bg", design.KindBackground, 0, 0)
	bg.Style = design.BackgroundStyle{Background: "#ff0000"}
	c, _ := newTestCanvas(t, bg)

	data := c.Snapshot()
	if data == nil {
		t.Fatalf("expected a snapshot")
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 800 || b.Dy() != 450 {
		t.Fatalf("unexpected snapshot size %v", b)
	}
	r, g, bl, _ := img.At(b.Dx()/2, b.Dy()/2).RGBA()
	if r>>8 < 250 || g>>8 > 5 || bl>>8 > 5 {
		t.Fatalf("center pixel should be red, got %d,%d,%d", r>>8, g>>8, bl>>8)
	}
}

func TestSnapshotAfterCloseIsNil(t *testing.T) {
	c, _ := newTestCanvas(t, el("bg", design.KindBackground, 0, 0))
	c.Close()
	if data := c.Snapshot(); data != nil {
		t.Fatalf("closed canvas should produce no snapshot")
	}
	if err := c.Click(geometry.Point{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestExportPDF(t *testing.T) {
	c, _ := newTestCanvas(t, el("bg", design.KindBackground, 0, 0), el("box", design.KindShape, 50, 50))
	data, err := c.ExportPDF(canvasrenderer.Meta{Title: "design"})
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("pdf header missing")
	}
}

func TestPlatformResizeAndSafeZone(t *testing.T) {
	width := 1080.0
	sizer := stage.NewSizer(func() (float64, bool) { return width, true }, stage.Options{})
	redraws := 0
	s := NewSession(design.Document{})
	c := New(s, WithSizer(sizer), WithRedraw(func() { redraws++ }))
	defer c.Close()

	p := &stage.Platform{
		ID:          "square",
		Dimensions:  geometry.Size{Width: 1080, Height: 1080},
		AspectRatio: "1:1",
		Specs:       stage.Specs{SafeZones: &stage.SafeZones{Top: 108, Bottom: 108, Left: 54, Right: 54}},
	}
	size := c.SetPlatform(p)
	if size.Width != 1080 || size.Height != 1080 {
		t.Fatalf("unexpected stage size %+v", size)
	}
	if c.Cache().StageWidth() != 1080 {
		t.Fatalf("cache should follow the stage width, got %g", c.Cache().StageWidth())
	}
	if redraws == 0 {
		t.Fatalf("resize should request a redraw")
	}

	width = 540
	if _, err := sizer.Resize(); err != nil {
		t.Fatalf("resize: %v", err)
	}
	sc := c.Scene()
	if sc.SafeZone == nil {
		t.Fatalf("expected a safe zone")
	}
	want := geometry.Rect{X: 27, Y: 54, Width: 486, Height: 432}
	if *sc.SafeZone != want {
		t.Fatalf("safe zone mismatch: got %+v want %+v", *sc.SafeZone, want)
	}
	if c.Snapshot() == nil {
		t.Fatalf("snapshot with safe zone should render")
	}
}

func TestSceneBoxes(t *testing.T) {
	text := el("title", design.KindText, 50, 50)
	c, s := newTestCanvas(t, el("bg", design.KindBackground, 0, 0), text)
	s.SetSelected(&text)

	var buf bytes.Buffer
	if err := c.WriteScene(&buf); err != nil {
		t.Fatalf("scene: %v", err)
	}
	sc := c.Scene()
	if len(sc.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(sc.Items))
	}
	if sc.Items[0].Box != (geometry.Rect{Width: 800, Height: 450}) {
		t.Fatalf("background should cover the stage, got %+v", sc.Items[0].Box)
	}
	if sc.Items[1].Box != (geometry.Rect{X: 400, Y: 225, Width: 100, Height: 40}) || !sc.Items[1].Selected {
		t.Fatalf("unexpected text item %+v", sc.Items[1])
	}
	if !strings.Contains(buf.String(), `"title"`) {
		t.Fatalf("json dump should mention the element id")
	}
}
