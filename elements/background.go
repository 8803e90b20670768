package elements

import (
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/designcanvas/csscolor"
	"github.com/ByLCY/designcanvas/design"
	"github.com/ByLCY/designcanvas/imagecache"
	"github.com/ByLCY/designcanvas/selection"
)

// Background 铺满整个舞台，不参与拖拽与变换。
type Background struct{}

func (Background) Mount(design.Element, *Env) *selection.Node { return nil }

// Draw 依次尝试 backgroundImage、渐变栅格，最后回退到纯色（缺省白色）。
// 图片未就绪时同样回退到纯色。
func (Background) Draw(ctx *canvas.Context, el design.Element, env *Env) error {
	st := design.BackgroundStyleOf(el)
	w, h := env.Stage.Width, env.Stage.Height
	opacity := st.OpacityOr(1)

	key := ""
	switch {
	case st.BackgroundImage != "":
		key = st.BackgroundImage
	case st.IsGradient():
		key = imagecache.GradientKey(st.Background)
	}
	if img := env.image(key); img != nil {
		drawStretched(ctx, img, 0, 0, w, h, opacity)
		return nil
	}

	fill := "#fff"
	if st.Background != "" && !st.IsGradient() {
		fill = st.Background
	}
	fillPath(ctx, 0, 0, rectPath(w, h), csscolor.WithOpacity(parseColor(fill, "#fff"), opacity), stroke{})
	return nil
}
