package geometry

import "math"

// This file defines the conversions between stored percentage positions and
// stage pixel positions.

// Anchor tells which point of an element its stored position refers to.
type Anchor int

const (
	AnchorTopLeft Anchor = iota // position is the element's top-left corner
	AnchorCenter                // position is the element's center
)

// String returns a short string for an Anchor value.
func (a Anchor) String() string {
	switch a {
	case AnchorCenter:
		return "center"
	default:
		return "top-left"
	}
}

// Point is a 2D coordinate, either in percent (0-100) or in pixels depending on context.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool { return s.Width > 0 && s.Height > 0 }

// Half returns the offset from a top-left corner to the center.
func (s Size) Half() Point { return Point{X: s.Width / 2, Y: s.Height / 2} }

// Scale multiplies both dimensions.
func (s Size) Scale(sx, sy float64) Size { return Size{Width: s.Width * sx, Height: s.Height * sy} }

// Rect is an axis-aligned box in pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the center of the rectangle.
func (r Rect) Center() Point { return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2} }

// Contains reports whether p lies inside r (edges included).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// AnchorFor resolves the anchor mode. Any one of the three signals is
// sufficient to make an element centered.
func AnchorFor(isShape bool, positionAnchor string, center bool) Anchor {
	if isShape || positionAnchor == "center" || center {
		return AnchorCenter
	}
	return AnchorTopLeft
}

func anchorOffset(element Size, anchor Anchor) Point {
	if anchor == AnchorCenter {
		return element.Half()
	}
	return Point{}
}

// ToPixels converts a stored percentage position to the pixel position of the
// element's top-left corner on a stage of the given size.
func ToPixels(percent Point, stage Size, element Size, anchor Anchor) Point {
	off := anchorOffset(element, anchor)
	return Point{
		X: percent.X/100*stage.Width - off.X,
		Y: percent.Y/100*stage.Height - off.Y,
	}
}

// ToPercent is the inverse of ToPixels. The result is clamped to [0,100] on
// both axes, so a position dragged off stage is stored at the nearest edge.
func ToPercent(pixel Point, stage Size, element Size, anchor Anchor) Point {
	off := anchorOffset(element, anchor)
	return Point{
		X: ClampPercent(ratio(pixel.X+off.X, stage.Width)),
		Y: ClampPercent(ratio(pixel.Y+off.Y, stage.Height)),
	}
}

// PercentOf converts a raw pointer position to unclamped percentages.
func PercentOf(pixel Point, stage Size) Point {
	return Point{X: ratio(pixel.X, stage.Width), Y: ratio(pixel.Y, stage.Height)}
}

func ratio(v, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return v / total * 100
}

// ClampPercent restricts v to [0,100]. NaN becomes 0.
func ClampPercent(v float64) float64 { return Clamp(v, 0, 100) }

// Clamp restricts v to [lo,hi]. NaN becomes lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
