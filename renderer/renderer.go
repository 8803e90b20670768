package renderer

import "github.com/tdewolff/canvas"

// Renderer 将绘制好的一帧画布输出为最终文件，例如 PNG 快照或 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(frame *canvas.Canvas) ([]byte, error)
}
