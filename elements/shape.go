package elements

import (
	"math"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/designcanvas/csscolor"
	"github.com/ByLCY/designcanvas/design"
	"github.com/ByLCY/designcanvas/selection"
)

// DashPattern 是 dashed 描边的虚线间隔。
var DashPattern = []float64{10, 6}

// Shape 以中心为原点绘制 rect/circle/triangle/rounded，旋转围绕中心。
type Shape struct{}

func (Shape) Mount(el design.Element, env *Env) *selection.Node {
	dims := el.Dimensions()
	n := newNode(el, env, true, dims.Width, dims.Height)
	id := el.ID
	n.OnTransformEnd = func(node *selection.Node) {
		commitTransform(env, id, node, true)
	}
	return n
}

func (Shape) Draw(ctx *canvas.Context, el design.Element, env *Env) error {
	st := design.ShapeStyleOf(el)
	topLeft, dims := RenderBox(el, env.Stage)
	w, h := dims.Width, dims.Height
	opacity := st.OpacityOr(1)
	fill := csscolor.WithOpacity(parseColor(st.Fill(), "#fff"), opacity)
	line := shapeStroke(st, opacity)

	withTransform(ctx, topLeft.X+w/2, topLeft.Y+h/2, el.Rotation, func() {
		switch el.Shape.Resolve() {
		case design.ShapeRect:
			fillPath(ctx, -w/2, -h/2, roundedRectPath(w, h, st.CornerRadius), fill, line)
		case design.ShapeCircle:
			fillPath(ctx, 0, 0, ellipsePath(w/2, h/2), fill, line)
		case design.ShapeTriangle:
			fillPath(ctx, 0, 0, trianglePath(w, h), fill, line)
		default:
			r := st.CornerRadius
			if r == 0 {
				r = math.Min(w, h) / 2
			}
			fillPath(ctx, -w/2, -h/2, roundedRectPath(w, h, r), fill, stroke{})
		}
	})
	return nil
}

func shapeStroke(st design.ShapeStyle, opacity float64) stroke {
	if !st.HasStroke() || st.Stroke == "" {
		return stroke{}
	}
	s := stroke{
		Color: csscolor.WithOpacity(parseColor(st.Stroke, "#000"), opacity),
		Width: st.StrokeWidth,
	}
	if st.Dashed() {
		s.Dashes = DashPattern
	}
	return s
}
