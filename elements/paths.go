package elements

import (
	"math"

	"github.com/tdewolff/canvas"
)

// kappa 是用四段三次贝塞尔逼近椭圆的控制点系数。
const kappa = 0.5522847498307936

// 三角形按外接圆半径 triangleRadius 的正三角形构造，再缩放到目标尺寸。
const triangleRadius = 50.0

// TriangleNaturalSize 返回未缩放三角形的宽高（√3·r × 1.5·r）。
func TriangleNaturalSize() (w, h float64) {
	return math.Sqrt(3) * triangleRadius, 1.5 * triangleRadius
}

// TriangleScale 返回把基础三角形拉伸到 w×h 所需的两个缩放系数，通常二者不相等。
func TriangleScale(w, h float64) (sx, sy float64) {
	nw, nh := TriangleNaturalSize()
	return w / nw, h / nh
}

// rectPath 以 (0,0) 为左上角。
func rectPath(w, h float64) *canvas.Path {
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(w, 0)
	p.LineTo(w, h)
	p.LineTo(0, h)
	p.Close()
	return p
}

// roundedRectPath 以 (0,0) 为左上角，圆角半径不超过短边的一半。
func roundedRectPath(w, h, r float64) *canvas.Path {
	r = math.Min(math.Max(r, 0), math.Min(w, h)/2)
	if r == 0 {
		return rectPath(w, h)
	}
	k := r * (1 - kappa)
	p := &canvas.Path{}
	p.MoveTo(r, 0)
	p.LineTo(w-r, 0)
	p.CubeTo(w-k, 0, w, k, w, r)
	p.LineTo(w, h-r)
	p.CubeTo(w, h-k, w-k, h, w-r, h)
	p.LineTo(r, h)
	p.CubeTo(k, h, 0, h-k, 0, h-r)
	p.LineTo(0, r)
	p.CubeTo(0, k, k, 0, r, 0)
	p.Close()
	return p
}

// ellipsePath 以 (0,0) 为中心，rx/ry 相互独立。
func ellipsePath(rx, ry float64) *canvas.Path {
	ox, oy := rx*kappa, ry*kappa
	p := &canvas.Path{}
	p.MoveTo(rx, 0)
	p.CubeTo(rx, oy, ox, ry, 0, ry)
	p.CubeTo(-ox, ry, -rx, oy, -rx, 0)
	p.CubeTo(-rx, -oy, -ox, -ry, 0, -ry)
	p.CubeTo(ox, -ry, rx, -oy, rx, 0)
	p.Close()
	return p
}

// trianglePath 以 w×h 框的中心为原点，尖角朝上。
func trianglePath(w, h float64) *canvas.Path {
	sx, sy := TriangleScale(w, h)
	// 外接圆心到底边为 r/2，到顶点为 r；整体下移 r/4 使包围盒居中
	shift := triangleRadius / 4
	pts := make([][2]float64, 3)
	for i := range pts {
		a := -math.Pi/2 + float64(i)*2*math.Pi/3
		pts[i] = [2]float64{
			triangleRadius * math.Cos(a) * sx,
			(triangleRadius*math.Sin(a) + shift) * sy,
		}
	}
	p := &canvas.Path{}
	p.MoveTo(pts[0][0], pts[0][1])
	p.LineTo(pts[1][0], pts[1][1])
	p.LineTo(pts[2][0], pts[2][1])
	p.Close()
	return p
}
