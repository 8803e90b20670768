package elements

import (
	"image/color"

	"github.com/tdewolff/canvas"
)

var transparent = color.RGBA{0, 0, 0, 0}

// withTransform 把原点移到 (x,y) 并旋转 rotation 度后执行 fn。
func withTransform(ctx *canvas.Context, x, y, rotation float64, fn func()) {
	ctx.Push()
	defer ctx.Pop()
	m := canvas.Identity.Translate(x, y)
	if rotation != 0 {
		m = m.Rotate(rotation)
	}
	ctx.ComposeView(m)
	fn()
}

// stroke 描述路径描边；Width 为 0 时不描边。
type stroke struct {
	Color  color.Color
	Width  float64
	Dashes []float64
}

func fillPath(ctx *canvas.Context, x, y float64, p *canvas.Path, fill color.Color, st stroke) {
	ctx.SetFillColor(fill)
	if st.Width > 0 && st.Color != nil {
		ctx.SetStrokeColor(st.Color)
		ctx.SetStrokeWidth(st.Width)
		ctx.SetDashes(0, st.Dashes...)
	} else {
		ctx.SetStrokeColor(transparent)
		ctx.SetStrokeWidth(0)
		ctx.SetDashes(0)
	}
	ctx.DrawPath(x, y, p)
}

// StrokeOutline 只描边不填充，供选中框与安全区参考线使用。
func StrokeOutline(ctx *canvas.Context, x, y float64, p *canvas.Path, col color.Color, width float64, dashes ...float64) {
	ctx.SetFillColor(transparent)
	ctx.SetStrokeColor(col)
	ctx.SetStrokeWidth(width)
	ctx.SetDashes(0, dashes...)
	ctx.DrawPath(x, y, p)
	ctx.SetDashes(0)
}

// RectPath 返回以 (0,0) 为左上角的 w×h 矩形路径。
func RectPath(w, h float64) *canvas.Path { return rectPath(w, h) }
