package gradient

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/gogpu/gg"

	"github.com/ByLCY/designcanvas/csscolor"
	"github.com/ByLCY/designcanvas/logging"
)

// MinRasterSize 是渐变栅格的最小边长。
const MinRasterSize = 300

// RasterSize 返回正方形栅格边长：max(300, stageWidth)。
func RasterSize(stageWidth float64) int {
	size := int(math.Ceil(stageWidth))
	if size < MinRasterSize {
		return MinRasterSize
	}
	return size
}

func angleLine(deg, w, h float64) Line {
	rad := deg * math.Pi / 180
	cx, cy := w/2, h/2
	dx, dy := math.Cos(rad), math.Sin(rad)
	return Line{X0: cx - dx*w, Y0: cy - dy*h, X1: cx + dx*w, Y1: cy + dy*h}
}

// Rasterizer 在离屏 gg 画布上合成渐变图片。
type Rasterizer struct {
	Logger logging.Logger
}

// Rasterize 解析 css 并生成 RasterSize(stageWidth) 见方的图片。
// 无法识别的色标被跳过；所有色标都不可用时返回 ErrNoStops。
// 相同输入总是得到逐像素一致的输出。
func (r Rasterizer) Rasterize(css string, stageWidth float64) (image.Image, error) {
	spec, err := Parse(css)
	if err != nil {
		return nil, err
	}
	return r.Draw(spec, stageWidth)
}

// Draw 按已解析的渐变生成图片。
func (r Rasterizer) Draw(spec *Spec, stageWidth float64) (image.Image, error) {
	log := logging.OrNop(r.Logger)
	size := RasterSize(stageWidth)
	line := spec.Vector(float64(size), float64(size))
	brush := gg.NewLinearGradientBrush(line.X0, line.Y0, line.X1, line.Y1)

	added := 0
	for _, stop := range spec.Stops {
		c, ok := resolveStopColor(stop.Color)
		if !ok {
			log.Warn("跳过无法解析的渐变色标", "color", stop.Color, "gradient", spec.Source)
			continue
		}
		brush.AddColorStop(stop.Offset, csscolor.ToRGBA(c))
		added++
	}
	if added == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoStops, spec.Source)
	}

	dc := gg.NewContext(size, size)
	defer dc.Close()
	dc.SetFillBrush(brush)
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("填充渐变失败: %w", err)
	}
	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("填充渐变失败: %w", err)
	}
	return cloneImage(dc.Image()), nil
}

// resolveStopColor 先去掉残留的百分比再解析；失败时只取第一个空白分隔的片段重试。
func resolveStopColor(raw string) (c color.NRGBA, ok bool) {
	v := strings.TrimSpace(trailingPct.ReplaceAllString(raw, ""))
	if parsed, err := csscolor.Parse(v); err == nil {
		return parsed, true
	}
	fields := strings.Fields(v)
	if len(fields) == 0 {
		return c, false
	}
	if parsed, err := csscolor.Parse(fields[0]); err == nil {
		return parsed, true
	}
	return c, false
}

// cloneImage 复制像素，使返回的图片不依赖已关闭的画布。
func cloneImage(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
