package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/designcanvas/renderer"
)

var (
	_ renderer.Renderer = PNG{}
	_ renderer.Renderer = PDF{}
)

// PNG 把画布栅格化为 PNG，画布的 1 个单位对应 Scale 个像素。
type PNG struct {
	Scale float64
}

func (p PNG) Render(frame *canvas.Canvas) ([]byte, error) {
	if frame == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	scale := p.Scale
	if scale <= 0 {
		scale = 1
	}
	img := rasterizer.Draw(frame, canvas.DPMM(scale), canvas.DefaultColorSpace)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// Meta 是写入 PDF 的文档信息。
type Meta struct {
	Title    string
	Subject  string
	Keywords string
	Author   string
	Creator  string
}

// PDF 把画布输出为单页矢量 PDF。
type PDF struct {
	Meta Meta
}

func (p PDF) Render(frame *canvas.Canvas) ([]byte, error) {
	if frame == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	var buf bytes.Buffer
	writer := pdf.New(&buf, frame.W, frame.H, nil)
	writer.SetInfo(p.Meta.Title, p.Meta.Subject, p.Meta.Keywords, p.Meta.Author, p.Meta.Creator)
	frame.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}
