package elements

import (
	"math"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/designcanvas/csscolor"
	"github.com/ByLCY/designcanvas/design"
	"github.com/ByLCY/designcanvas/geometry"
	"github.com/ByLCY/designcanvas/selection"
)

const (
	// EffectInflation 是光晕相对元素尺寸的放大倍数，只影响绘制。
	EffectInflation = 1.5
	// EffectOpacity 是未设置 opacity 时的光晕不透明度。
	EffectOpacity = 0.18
)

// Effect 以元素中心为中心绘制 1.5 倍大小的模糊圆角矩形。
type Effect struct{}

// effectBox 返回光晕中心与存储尺寸。
func effectBox(el design.Element, stage geometry.Size) (geometry.Point, geometry.Size) {
	topLeft, dims := RenderBox(el, stage)
	half := dims.Half()
	return geometry.Point{X: topLeft.X + half.X, Y: topLeft.Y + half.Y}, dims
}

func (Effect) Mount(el design.Element, env *Env) *selection.Node {
	dims := el.Dimensions()
	n := newNode(el, env, true, dims.Width*EffectInflation, dims.Height*EffectInflation)
	id := el.ID
	n.OnTransformEnd = func(node *selection.Node) {
		commitTransform(env, id, node, false)
	}
	return n
}

func (Effect) Draw(ctx *canvas.Context, el design.Element, env *Env) error {
	st := design.EffectStyleOf(el)
	center, dims := effectBox(el, env.Stage)
	w, h := dims.Width*EffectInflation, dims.Height*EffectInflation
	radius := st.CornerRadius
	if radius == 0 {
		radius = math.Min(dims.Width, dims.Height)
	}
	fill := csscolor.WithOpacity(parseColor(st.Fill(), "#fff"), st.OpacityOr(EffectOpacity))

	img, pad, err := glow(w, h, radius, st.Blur(), fill)
	if err != nil {
		return err
	}
	withTransform(ctx, center.X, center.Y, el.Rotation, func() {
		ctx.DrawImage(-w/2-pad, -h/2-pad, img, canvas.DPMM(1))
		fillPath(ctx, -w/2, -h/2, roundedRectPath(w, h, radius), fill, stroke{})
	})
	return nil
}
