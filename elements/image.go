package elements

import (
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/designcanvas/design"
	"github.com/ByLCY/designcanvas/selection"
)

// Image 把缓存中的图片拉伸到元素尺寸绘制；图片未就绪或加载失败时不绘制。
type Image struct{}

func (Image) Mount(el design.Element, env *Env) *selection.Node {
	dims := el.Dimensions()
	n := newNode(el, env, false, dims.Width, dims.Height)
	id := el.ID
	n.OnTransformEnd = func(node *selection.Node) {
		commitTransform(env, id, node, false)
	}
	return n
}

func (Image) Draw(ctx *canvas.Context, el design.Element, env *Env) error {
	img := env.image(el.ImageSource())
	if img == nil {
		env.log().Debug("图片未就绪，跳过绘制", "id", el.ID, "src", el.ImageSource())
		return nil
	}
	topLeft, dims := RenderBox(el, env.Stage)
	opacity := design.ImageStyleOf(el).OpacityOr(1)
	withTransform(ctx, topLeft.X, topLeft.Y, el.Rotation, func() {
		drawStretched(ctx, img, 0, 0, dims.Width, dims.Height, opacity)
	})
	return nil
}
