package elements

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/designcanvas/csscolor"
)

// ImageDPMM 是位图以像素为单位嵌入画布时每像素的采样数。
const ImageDPMM = 2.0

// stretch 把图片非等比拉伸到 w×h（像素）并按 ImageDPMM 采样。
func stretch(img image.Image, w, h float64) *image.NRGBA {
	pw := int(math.Max(1, math.Round(w*ImageDPMM)))
	ph := int(math.Max(1, math.Round(h*ImageDPMM)))
	return imaging.Resize(img, pw, ph, imaging.Linear)
}

// fade 按不透明度叠加到透明底上；opacity>=1 时原样返回。
func fade(img *image.NRGBA, opacity float64) *image.NRGBA {
	if opacity >= 1 {
		return img
	}
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.NRGBA{})
	return imaging.Overlay(bg, img, image.Pt(0, 0), math.Max(opacity, 0))
}

// drawStretched 把图片拉伸到 w×h 后绘制，(x,y) 为左上角。
func drawStretched(ctx *canvas.Context, img image.Image, x, y, w, h, opacity float64) {
	ctx.DrawImage(x, y, fade(stretch(img, w, h), opacity), canvas.DPMM(ImageDPMM))
}

// glow 生成 w×h 圆角矩形的模糊光晕，返回图片及其四周留白（像素）。
func glow(w, h, radius, blur float64, fill color.NRGBA) (*image.NRGBA, float64, error) {
	pad := math.Ceil(blur)
	iw := int(math.Ceil(w + 2*pad))
	ih := int(math.Ceil(h + 2*pad))
	if iw < 1 || ih < 1 {
		return nil, 0, fmt.Errorf("光晕尺寸无效: %gx%g", w, h)
	}
	dc := gg.NewContext(iw, ih)
	defer dc.Close()
	dc.SetColor(fill)
	dc.DrawRoundedRectangle(pad, pad, w, h, math.Min(radius, math.Min(w, h)/2))
	if err := dc.Fill(); err != nil {
		return nil, 0, fmt.Errorf("绘制光晕失败: %w", err)
	}
	if err := dc.FlushGPU(); err != nil {
		return nil, 0, fmt.Errorf("绘制光晕失败: %w", err)
	}
	img := imaging.Clone(dc.Image())
	if blur > 0 {
		img = imaging.Blur(img, blur/2)
	}
	return img, pad, nil
}

// parseColor 解析颜色，失败时返回 fallback。
func parseColor(s, fallback string) color.NRGBA {
	return csscolor.MustParse(s, csscolor.MustParse(fallback, color.NRGBA{A: 255}))
}
