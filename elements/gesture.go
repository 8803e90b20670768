package elements

import (
	"math"

	"github.com/ByLCY/designcanvas/design"
	"github.com/ByLCY/designcanvas/geometry"
	"github.com/ByLCY/designcanvas/selection"
)

// anchorOf 返回元素的定位锚点；effect 始终以中心定位。
func anchorOf(el design.Element) geometry.Anchor {
	if el.Kind == design.KindEffect {
		return geometry.AnchorCenter
	}
	return el.Anchor()
}

// RenderBox 返回元素的像素左上角与尺寸。
func RenderBox(el design.Element, stage geometry.Size) (geometry.Point, geometry.Size) {
	dims := el.Dimensions()
	return geometry.ToPixels(el.Position.Point(), stage, dims, anchorOf(el)), dims
}

// newNode 按元素几何创建节点。centered 为 true 时节点原点放在元素中心。
func newNode(el design.Element, env *Env, centered bool, w, h float64) *selection.Node {
	topLeft, dims := RenderBox(el, env.Stage)
	n := selection.NewNode(el.ID, el.Kind)
	n.Shape = el.Shape
	n.Width, n.Height = w, h
	n.Rotation = el.Rotation
	n.Centered = centered
	n.Draggable = true
	n.Transformable = true
	if centered {
		n.X, n.Y = topLeft.X+dims.Width/2, topLeft.Y+dims.Height/2
	} else {
		n.X, n.Y = topLeft.X, topLeft.Y
	}

	id := el.ID
	n.OnSelect = func(*selection.Node) { selectFresh(env.Host, id) }
	n.OnDragMove = func(node *selection.Node) { previewDrag(env, id, node) }
	n.OnDragEnd = func(node *selection.Node) { commitDrag(env, id, node) }
	return n
}

// topLeftOf 把节点位置换算回元素左上角；dims 为元素当前的设计尺寸。
func topLeftOf(n *selection.Node, dims geometry.Size) geometry.Point {
	if n.Centered {
		return geometry.Point{X: n.X - dims.Width/2, Y: n.Y - dims.Height/2}
	}
	return geometry.Point{X: n.X, Y: n.Y}
}

// selectFresh 从宿主当前列表中按 id 重新取元素后选中。
func selectFresh(host Host, id string) {
	if host == nil {
		return
	}
	if el, ok := host.Elements().Find(id); ok {
		host.SetSelected(&el)
	}
}

// previewDrag 只在被拖动的元素正被选中时更新选中副本，不写回元素列表。
// 预览坐标不做 0-100 限制。
func previewDrag(env *Env, id string, n *selection.Node) {
	host := env.Host
	if host == nil {
		return
	}
	sel, ok := host.Selected()
	if !ok || sel.ID != id {
		return
	}
	dims := sel.Dimensions()
	p := topLeftOf(n, dims)
	if anchorOf(sel) == geometry.AnchorCenter {
		p.X += dims.Width / 2
		p.Y += dims.Height / 2
	}
	pct := geometry.PercentOf(p, env.Stage)
	sel.Position.X, sel.Position.Y = pct.X, pct.Y
	if sel.Kind == design.KindShape {
		sel.Position.Anchor = "center"
	}
	host.SetSelected(&sel)
}

// commitDrag 在拖拽结束时把位置换算成百分比（限制在 0-100）写回一次，保留原锚点。
func commitDrag(env *Env, id string, n *selection.Node) {
	host := env.Host
	if host == nil {
		return
	}
	host.UpdateElements(func(list design.List) design.List {
		return list.Update(id, func(el *design.Element) {
			dims := el.Dimensions()
			p := geometry.ToPercent(topLeftOf(n, dims), env.Stage, dims, anchorOf(*el))
			el.Position.X, el.Position.Y = p.X, p.Y
		})
	})
	syncSelected(host, id)
}

// scaledSize 按节点缩放计算新尺寸，每个维度至少 1px。
func scaledSize(base geometry.Size, sx, sy float64) geometry.Size {
	return geometry.Size{
		Width:  math.Max(1, base.Width*math.Abs(sx)),
		Height: math.Max(1, base.Height*math.Abs(sy)),
	}
}

// commitTransform 以元素当前存储尺寸为基准写回尺寸与旋转，并立即把节点缩放复位为 1，
// 使连续的变换手势按新尺寸累积。recenter 为 true 时同时以节点位置作为新的中心点。
func commitTransform(env *Env, id string, n *selection.Node, recenter bool) {
	sx, sy := n.Scale()
	rotation := n.Rotation
	center := geometry.Point{X: n.X, Y: n.Y}
	n.ResetScale()

	host := env.Host
	if host == nil {
		return
	}
	var size geometry.Size
	host.UpdateElements(func(list design.List) design.List {
		return list.Update(id, func(el *design.Element) {
			size = scaledSize(el.Dimensions(), sx, sy)
			el.Size = size
			el.Rotation = rotation
			if recenter {
				p := geometry.ToPercent(center, env.Stage, geometry.Size{}, geometry.AnchorTopLeft)
				el.Position = design.Position{X: p.X, Y: p.Y, Anchor: "center"}
			}
		})
	})
	if size.Valid() {
		n.Width, n.Height = nodeSizeFor(n, size)
	}
	syncSelected(host, id)
}

// nodeSizeFor 保持节点尺寸与元素尺寸的比例（effect 节点比元素大 EffectInflation 倍）。
func nodeSizeFor(n *selection.Node, size geometry.Size) (float64, float64) {
	if n.Kind == design.KindEffect {
		return size.Width * EffectInflation, size.Height * EffectInflation
	}
	return size.Width, size.Height
}

func syncSelected(host Host, id string) {
	sel, ok := host.Selected()
	if !ok || sel.ID != id {
		return
	}
	if fresh, ok := host.Elements().Find(id); ok {
		host.SetSelected(&fresh)
	}
}
