package studio

import (
	"encoding/json"
	"io"

	"github.com/ByLCY/designcanvas/design"
	"github.com/ByLCY/designcanvas/elements"
	"github.com/ByLCY/designcanvas/geometry"
)

// SceneItem 是调试输出中的单个元素。
type SceneItem struct {
	ID       string        `json:"id"`
	Kind     design.Kind   `json:"type"`
	Box      geometry.Rect `json:"box"`
	Rotation float64       `json:"rotation,omitempty"`
	Selected bool          `json:"selected,omitempty"`
}

// Scene 是一帧的几何快照。
type Scene struct {
	Stage    geometry.Size    `json:"stage"`
	Platform string           `json:"platform,omitempty"`
	SafeZone *geometry.Rect   `json:"safeZone,omitempty"`
	Items    []SceneItem      `json:"items"`
	Comments []design.Comment `json:"comments,omitempty"`
}

// Scene 返回每个元素在舞台上的像素框（背景铺满舞台）。
func (c *Canvas) Scene() Scene {
	size := c.Size()
	sc := Scene{Stage: size, Items: []SceneItem{}}
	if p := c.sizer.Platform(); p != nil {
		sc.Platform = p.ID
		if zone, ok := p.SafeZone(size); ok {
			sc.SafeZone = &zone
		}
	}
	sel, hasSel := c.host.Selected()
	for _, el := range c.host.Elements() {
		item := SceneItem{ID: el.ID, Kind: el.Kind, Rotation: el.Rotation, Selected: hasSel && sel.ID == el.ID}
		if el.Kind == design.KindBackground {
			item.Box = geometry.Rect{Width: size.Width, Height: size.Height}
		} else {
			p, dims := elements.RenderBox(el, size)
			item.Box = geometry.Rect{X: p.X, Y: p.Y, Width: dims.Width, Height: dims.Height}
		}
		sc.Items = append(sc.Items, item)
	}
	if s, ok := c.host.(interface{ Comments() []design.Comment }); ok {
		sc.Comments = s.Comments()
	}
	return sc
}

// WriteScene 以缩进 JSON 输出 Scene。
func (c *Canvas) WriteScene(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c.Scene())
}
