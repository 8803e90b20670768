package elements

import (
	"errors"
	"math"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/designcanvas/csscolor"
	"github.com/ByLCY/designcanvas/design"
	canvasrenderer "github.com/ByLCY/designcanvas/renderer/canvas"
	"github.com/ByLCY/designcanvas/selection"
)

var errNoTypesetter = errors.New("未配置排版器")

// Text 在元素框内按宽度换行绘制文本，旋转以框的左上角为轴。
type Text struct{}

func (Text) Mount(el design.Element, env *Env) *selection.Node {
	dims := el.Dimensions()
	n := newNode(el, env, false, dims.Width, dims.Height)
	id := el.ID
	n.OnTransformEnd = func(node *selection.Node) {
		commitTransform(env, id, node, false)
	}
	return n
}

func (Text) Draw(ctx *canvas.Context, el design.Element, env *Env) error {
	if env.Text == nil {
		return errNoTypesetter
	}
	st := design.TextStyleOf(el)
	size := st.Size()
	col := csscolor.WithOpacity(parseColor(st.Fill(), "#000"), st.OpacityOr(1))
	face, err := env.Text.Face(canvasrenderer.FontSpec{
		Family: st.Family(),
		Bold:   st.IsBold(),
		Italic: st.IsItalic(),
	}, size, col)
	if err != nil {
		return err
	}

	topLeft, dims := RenderBox(el, env.Stage)
	spacing := 0.0
	if st.LetterSpacing != nil {
		spacing = *st.LetterSpacing
	}
	lineHeight := st.LineHeightFactor() * size
	lines := canvasrenderer.LayoutLines(el.Content, dims.Width, face, lineHeight, spacing)
	ascent := face.Metrics().Ascent
	align := st.Align()

	withTransform(ctx, topLeft.X, topLeft.Y, el.Rotation, func() {
		cursorY := 0.0
		for _, line := range lines {
			cursorY += line.GapBefore
			x := alignOffset(align, dims.Width, line.Width)
			baseline := cursorY + ascent
			drawLine(ctx, face, line.Content, x, baseline, spacing)
			if st.IsUnderline() && line.Content != "" {
				thick := math.Max(1, size/15)
				fillPath(ctx, x, baseline+thick*1.5, rectPath(line.Width, thick), col, stroke{})
			}
			cursorY += line.Height
		}
	})
	return nil
}

func alignOffset(align string, box, line float64) float64 {
	switch align {
	case "center":
		return (box - line) / 2
	case "right":
		return box - line
	default:
		return 0
	}
}

// drawLine 在基线位置绘制一行；字间距不为 0 时逐字绘制。
func drawLine(ctx *canvas.Context, face *canvas.FontFace, s string, x, baseline, spacing float64) {
	if s == "" {
		return
	}
	if spacing == 0 {
		ctx.DrawText(x, baseline, canvas.NewTextLine(face, s, canvas.Left))
		return
	}
	for _, r := range s {
		ch := string(r)
		ctx.DrawText(x, baseline, canvas.NewTextLine(face, ch, canvas.Left))
		x += face.TextWidth(ch) + spacing
	}
}
