package design

// 该文件定义画布元素模型，供几何换算、渲染器、选择控制与调试 JSON 共用。

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ByLCY/designcanvas/geometry"
)

// 元素尺寸缺省值（像素）。
const (
	DefaultWidth  = 100.0
	DefaultHeight = 40.0
)

// ErrUnknownKind 表示元素类型不在 background/text/image/shape/effect 之列。
var ErrUnknownKind = errors.New("design: unknown element kind")

// Kind 决定元素由哪个渲染器处理以及锚点模式。
type Kind string

const (
	KindBackground Kind = "background"
	KindText       Kind = "text"
	KindImage      Kind = "image"
	KindShape      Kind = "shape"
	KindEffect     Kind = "effect"
)

// Kinds 按绘制层级列出全部元素类型。
var Kinds = []Kind{KindBackground, KindText, KindImage, KindShape, KindEffect}

// ParseKind 校验并返回元素类型。
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// ShapeKind 是 shape 元素的子类型。
type ShapeKind string

const (
	ShapeRect     ShapeKind = "rect"
	ShapeCircle   ShapeKind = "circle"
	ShapeTriangle ShapeKind = "triangle"
	ShapeRounded  ShapeKind = "rounded" // 未识别的子类型按圆角矩形绘制
)

// Resolve 归一化子类型：空值视为 rect，未知值视为圆角矩形。
func (s ShapeKind) Resolve() ShapeKind {
	switch ShapeKind(strings.ToLower(string(s))) {
	case "", ShapeRect:
		return ShapeRect
	case ShapeCircle:
		return ShapeCircle
	case ShapeTriangle:
		return ShapeTriangle
	default:
		return ShapeRounded
	}
}

// Position 以舞台宽高的百分比（0-100）存储，从不保存像素值。
type Position struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Anchor string  `json:"anchor,omitempty"` // "center" 表示中心锚点
}

// Point 返回不含锚点信息的百分比坐标。
func (p Position) Point() geometry.Point { return geometry.Point{X: p.X, Y: p.Y} }

// Element 是画布上的一个对象。
type Element struct {
	ID       string        `json:"id"`
	Kind     Kind          `json:"type"`
	Content  string        `json:"content,omitempty"`
	Src      string        `json:"src,omitempty"`
	Shape    ShapeKind     `json:"shape,omitempty"`
	Position Position      `json:"position"`
	Size     geometry.Size `json:"size"`
	Rotation float64       `json:"rotation,omitempty"`
	Center   bool          `json:"center,omitempty"`
	Style    Style         `json:"style,omitempty"`
}

// Anchor 判定锚点：shape、position.anchor=center 或 center 标志任一成立即为中心锚点。
func (e Element) Anchor() geometry.Anchor {
	return geometry.AnchorFor(e.Kind == KindShape, e.Position.Anchor, e.Center)
}

// Dimensions 返回设计空间尺寸，缺失的维度取缺省值。
func (e Element) Dimensions() geometry.Size {
	w, h := e.Size.Width, e.Size.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return geometry.Size{Width: w, Height: h}
}

// ImageSource 返回 image 元素的图片地址（src 优先，其次 content）。
func (e Element) ImageSource() string {
	if e.Src != "" {
		return e.Src
	}
	return e.Content
}

// AspectLocked 返回样式中显式声明的等比锁定。
func (e Element) AspectLocked() bool {
	if e.Style == nil {
		return false
	}
	return e.Style.AspectLock()
}

// IsTriangle 判断是否为三角形 shape。
func (e Element) IsTriangle() bool {
	return e.Kind == KindShape && e.Shape.Resolve() == ShapeTriangle
}

// Validate 在元素进入画布的边界处做校验。
func (e Element) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("元素缺少 id")
	}
	if _, err := ParseKind(string(e.Kind)); err != nil {
		return fmt.Errorf("元素 %s: %w", e.ID, err)
	}
	if e.Style != nil && e.Style.StyleKind() != e.Kind {
		return fmt.Errorf("元素 %s: 样式类型 %s 与元素类型 %s 不匹配", e.ID, e.Style.StyleKind(), e.Kind)
	}
	if e.Size.Width < 0 || e.Size.Height < 0 {
		return fmt.Errorf("元素 %s: 尺寸不能为负数", e.ID)
	}
	return nil
}

// Normalize 补齐缺失的样式，使每个元素都持有与类型匹配的样式值。
func (e Element) Normalize() Element {
	if e.Style == nil {
		e.Style = DefaultStyle(e.Kind)
	}
	return e
}
