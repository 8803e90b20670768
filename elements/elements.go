// Package elements 为每种元素提供绘制与交互策略：由百分比坐标计算像素位置、
// 挂载可拖拽/变换的节点，并在手势结束时把几何变化提交给宿主。
package elements

import (
	"image"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/designcanvas/design"
	"github.com/ByLCY/designcanvas/geometry"
	"github.com/ByLCY/designcanvas/logging"
	canvasrenderer "github.com/ByLCY/designcanvas/renderer/canvas"
	"github.com/ByLCY/designcanvas/selection"
)

// Host 持有元素列表与选中状态，画布只通过它提出修改。
type Host interface {
	Elements() design.List
	UpdateElements(fn func(design.List) design.List)
	Selected() (design.Element, bool)
	SetSelected(el *design.Element)
}

// Images 按缓存键读取已加载的图片，未就绪或失败时返回 nil。
type Images interface {
	Image(key string) image.Image
}

// Env 是渲染一帧所需的上下文。
type Env struct {
	Stage  geometry.Size
	Images Images
	Text   *canvasrenderer.Typesetter
	Host   Host
	Logger logging.Logger
}

func (e *Env) log() logging.Logger { return logging.OrNop(e.Logger) }

func (e *Env) image(key string) image.Image {
	if e.Images == nil || key == "" {
		return nil
	}
	return e.Images.Image(key)
}

// Renderer 是单一元素类型的绘制与交互策略。
type Renderer interface {
	// Mount 构建可交互节点；不参与交互的类型返回 nil。
	Mount(el design.Element, env *Env) *selection.Node
	// Draw 把元素绘制到 ctx 上（坐标为舞台像素，原点在左上角）。
	Draw(ctx *canvas.Context, el design.Element, env *Env) error
}

var renderers = map[design.Kind]Renderer{
	design.KindBackground: Background{},
	design.KindText:       Text{},
	design.KindImage:      Image{},
	design.KindShape:      Shape{},
	design.KindEffect:     Effect{},
}

// For 返回元素类型对应的渲染器；未知类型按文本处理。
func For(kind design.Kind) Renderer {
	if r, ok := renderers[kind]; ok {
		return r
	}
	return Text{}
}
