package studio

import (
	"image/color"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/designcanvas/csscolor"
	"github.com/ByLCY/designcanvas/elements"
	"github.com/ByLCY/designcanvas/geometry"
	"github.com/ByLCY/designcanvas/selection"
)

// 安全区参考线的外观。
const (
	SafeZoneStroke  = "#f59e0b"
	SafeZoneOpacity = 0.6
)

var SafeZoneDash = []float64{6, 6}

func overlayColor(s string, opacity float64) color.NRGBA {
	return csscolor.WithOpacity(csscolor.MustParse(s, color.NRGBA{A: 255}), opacity)
}

// drawSafeZone 绘制不可交互的虚线安全区矩形。
func drawSafeZone(ctx *canvas.Context, zone geometry.Rect) {
	if zone.Width <= 0 || zone.Height <= 0 {
		return
	}
	elements.StrokeOutline(ctx, zone.X, zone.Y, elements.RectPath(zone.Width, zone.Height),
		overlayColor(SafeZoneStroke, SafeZoneOpacity), 1, SafeZoneDash...)
}

// drawTransformer 绘制附着节点的虚线边框与八个手柄。
func drawTransformer(ctx *canvas.Context, tr *selection.Transformer) {
	n, ok := tr.Attached()
	if !ok {
		return
	}
	st := tr.Style()
	b := n.Bounds()
	ctx.Push()
	defer ctx.Pop()
	if n.Rotation != 0 {
		ctx.ComposeView(canvas.Identity.RotateAbout(n.Rotation, n.X, n.Y))
	}
	elements.StrokeOutline(ctx, b.X, b.Y, elements.RectPath(b.Width, b.Height),
		overlayColor(st.BorderStroke, 1), 1, st.BorderDash...)

	size := st.AnchorSize
	for _, name := range selection.Anchors {
		p := handlePoint(b, name)
		ctx.SetFillColor(overlayColor(st.AnchorFill, 1))
		ctx.SetStrokeColor(overlayColor(st.AnchorStroke, 1))
		ctx.SetStrokeWidth(1)
		ctx.SetDashes(0)
		ctx.DrawPath(p.X-size/2, p.Y-size/2, elements.RectPath(size, size))
	}
}

// handlePoint 返回手柄在未旋转边框上的位置。
func handlePoint(b geometry.Rect, name string) geometry.Point {
	x, y := b.X+b.Width/2, b.Y+b.Height/2
	switch name {
	case "top-left", "middle-left", "bottom-left":
		x = b.X
	case "top-right", "middle-right", "bottom-right":
		x = b.X + b.Width
	}
	switch name {
	case "top-left", "top-center", "top-right":
		y = b.Y
	case "bottom-left", "bottom-center", "bottom-right":
		y = b.Y + b.Height
	}
	return geometry.Point{X: x, Y: y}
}
