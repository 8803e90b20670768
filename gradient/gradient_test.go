package gradient

import (
	"bytes"
	"errors"
	"image"
	"math"
	"testing"
)

func offsets(t *testing.T, css string) []float64 {
	t.Helper()
	spec, err := Parse(css)
	if err != nil {
		t.Fatalf("parse %q failed: %v", css, err)
	}
	out := make([]float64, len(spec.Stops))
	for i, s := range spec.Stops {
		out[i] = s.Offset
	}
	return out
}

func assertOffsets(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d stops, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("stop %d offset=%.4f want %.4f (all %v)", i, got[i], want[i], got)
		}
	}
}

func TestStopInferenceEndpoints(t *testing.T) {
	assertOffsets(t, offsets(t, "linear-gradient(red, blue 50%, green)"), []float64{0, 0.5, 1})
}

func TestStopInterpolation(t *testing.T) {
	assertOffsets(t, offsets(t, "linear-gradient(red, green, blue 100%)"), []float64{0, 0.5, 1})
	assertOffsets(t, offsets(t, "linear-gradient(to right, a, b, c, d 90%)"), []float64{0, 0.3, 0.6, 0.9})
}

func TestSingleStopAndClamp(t *testing.T) {
	assertOffsets(t, offsets(t, "linear-gradient(red)"), []float64{0})
	assertOffsets(t, offsets(t, "linear-gradient(red 150%, blue)"), []float64{1, 1})
}

func TestNestedCommasKeepColorFunctions(t *testing.T) {
	spec, err := Parse("linear-gradient(45deg, rgba(0, 0, 0, 0.5) 10%, #fff)")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if spec.Direction != "45deg" {
		t.Fatalf("direction=%q", spec.Direction)
	}
	if len(spec.Stops) != 2 || spec.Stops[0].Color != "rgba(0, 0, 0, 0.5)" {
		t.Fatalf("unexpected stops: %+v", spec.Stops)
	}
	if math.Abs(spec.Stops[0].Offset-0.1) > 1e-9 {
		t.Fatalf("offset=%.3f want 0.1", spec.Stops[0].Offset)
	}
}

func TestDirectionVectors(t *testing.T) {
	const w, h = 300.0, 300.0
	cases := []struct {
		css  string
		want Line
	}{
		{"linear-gradient(red, blue)", Line{0, 0, w, 0}},
		{"linear-gradient(to right, red, blue)", Line{0, 0, w, 0}},
		{"linear-gradient(to bottom, red, blue)", Line{0, 0, 0, h}},
		{"linear-gradient(to top, red, blue)", Line{0, h, 0, 0}},
		{"linear-gradient(to left, red, blue)", Line{w, 0, 0, 0}},
		{"linear-gradient(to bottom right, red, blue)", Line{0, 0, w, h}},
		{"linear-gradient(to top left, red, blue)", Line{w, h, 0, 0}},
		{"linear-gradient(0deg, red, blue)", Line{150 - w, 150, 150 + w, 150}},
		{"linear-gradient(90deg, red, blue)", Line{150, 150 - h, 150, 150 + h}},
	}
	for _, tc := range cases {
		spec, err := Parse(tc.css)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.css, err)
		}
		got := spec.Vector(w, h)
		if math.Abs(got.X0-tc.want.X0) > 1e-6 || math.Abs(got.Y0-tc.want.Y0) > 1e-6 ||
			math.Abs(got.X1-tc.want.X1) > 1e-6 || math.Abs(got.Y1-tc.want.Y1) > 1e-6 {
			t.Fatalf("%s: vector=%+v want %+v", tc.css, got, tc.want)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, css := range []string{"radial-gradient(red, blue)", "#fff", "linear-gradient(red, blue", "linear-gradient()"} {
		if _, err := Parse(css); !errors.Is(err, ErrNotGradient) && !errors.Is(err, ErrNoStops) {
			t.Fatalf("Parse(%q) expected failure, got %v", css, err)
		}
	}
}

func TestRasterSize(t *testing.T) {
	if RasterSize(100) != 300 || RasterSize(1080) != 1080 {
		t.Fatalf("unexpected raster sizes")
	}
}

func TestRasterizeDeterministic(t *testing.T) {
	r := Rasterizer{}
	css := "linear-gradient(to right, #ff0000, #0000ff)"
	a, err := r.Rasterize(css, 400)
	if err != nil {
		t.Fatalf("rasterize failed: %v", err)
	}
	b, err := r.Rasterize(css, 400)
	if err != nil {
		t.Fatalf("rasterize failed: %v", err)
	}
	if a.Bounds() != image.Rect(0, 0, 400, 400) {
		t.Fatalf("bounds=%v", a.Bounds())
	}
	if !bytes.Equal(a.(*image.NRGBA).Pix, b.(*image.NRGBA).Pix) {
		t.Fatalf("same input produced different pixels")
	}
	left := a.(*image.NRGBA).NRGBAAt(1, 200)
	right := a.(*image.NRGBA).NRGBAAt(398, 200)
	if left.R < 200 || left.B > 60 {
		t.Fatalf("left edge should be red, got %+v", left)
	}
	if right.B < 200 || right.R > 60 {
		t.Fatalf("right edge should be blue, got %+v", right)
	}
}

func TestRasterizeSkipsBadStops(t *testing.T) {
	r := Rasterizer{}
	if _, err := r.Rasterize("linear-gradient(red, nope, blue)", 300); err != nil {
		t.Fatalf("a single bad stop should be skipped, got %v", err)
	}
	if _, err := r.Rasterize("linear-gradient(red 10% extra, blue)", 300); err != nil {
		t.Fatalf("leading color token should be retried, got %v", err)
	}
	if img, err := r.Rasterize("linear-gradient(nope, alsonope)", 300); !errors.Is(err, ErrNoStops) || img != nil {
		t.Fatalf("all bad stops should yield ErrNoStops, got %v", err)
	}
}
