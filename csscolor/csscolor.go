// Package csscolor 解析 CSS 颜色字符串，供渐变色标、形状填充与文字颜色使用。
package csscolor

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/image/colornames"
)

// ErrInvalidColor 表示无法识别的颜色字符串。
var ErrInvalidColor = errors.New("csscolor: invalid color")

// Parse 支持 #rgb/#rgba/#rrggbb/#rrggbbaa、rgb()/rgba()、hsl()/hsla()、transparent 以及 CSS 颜色名。
func Parse(s string) (color.NRGBA, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == "":
		return color.NRGBA{}, fmt.Errorf("%w: empty", ErrInvalidColor)
	case v == "transparent":
		return color.NRGBA{}, nil
	case strings.HasPrefix(v, "#"):
		return parseHex(v)
	case strings.HasPrefix(v, "rgb"):
		return parseRGB(v)
	case strings.HasPrefix(v, "hsl"):
		return parseHSL(v)
	}
	if c, ok := colornames.Map[v]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

// MustParse 解析失败时返回 fallback。
func MustParse(s string, fallback color.NRGBA) color.NRGBA {
	c, err := Parse(s)
	if err != nil {
		return fallback
	}
	return c
}

// ToRGBA 转换为 gg 的浮点颜色。
func ToRGBA(c color.NRGBA) gg.RGBA {
	return gg.RGBA2(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
}

// WithOpacity 把不透明度乘到 alpha 通道上。
func WithOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity >= 1 {
		return c
	}
	if opacity <= 0 {
		c.A = 0
		return c
	}
	c.A = uint8(float64(c.A)*opacity + 0.5)
	return c
}

func parseHex(v string) (color.NRGBA, error) {
	hex := v[1:]
	switch len(hex) {
	case 3, 4, 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, v)
	}
	if _, err := strconv.ParseUint(hex, 16, 64); err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, v)
	}
	return toNRGBA(gg.Hex(hex)), nil
}

func parseRGB(v string) (color.NRGBA, error) {
	args, err := funcArgs(v, "rgba", "rgb")
	if err != nil {
		return color.NRGBA{}, err
	}
	if len(args) != 3 && len(args) != 4 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, v)
	}
	var ch [3]float64
	for i := 0; i < 3; i++ {
		f, pct, err := number(args[i])
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, v)
		}
		if pct {
			f = f / 100 * 255
		}
		ch[i] = f / 255
	}
	alpha := 1.0
	if len(args) == 4 {
		if alpha, err = alphaValue(args[3]); err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, v)
		}
	}
	return toNRGBA(gg.RGBA2(ch[0], ch[1], ch[2], alpha)), nil
}

func parseHSL(v string) (color.NRGBA, error) {
	args, err := funcArgs(v, "hsla", "hsl")
	if err != nil {
		return color.NRGBA{}, err
	}
	if len(args) != 3 && len(args) != 4 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, v)
	}
	h, _, errH := number(strings.TrimSuffix(args[0], "deg"))
	s, _, errS := number(args[1])
	l, _, errL := number(args[2])
	if errH != nil || errS != nil || errL != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, v)
	}
	c := gg.HSL(h, clamp01(s/100), clamp01(l/100))
	if len(args) == 4 {
		if c.A, err = alphaValue(args[3]); err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, v)
		}
	}
	return toNRGBA(c), nil
}

// funcArgs 拆出 name(...) 中的参数，兼容逗号与空格（含 "/ alpha"）两种写法。
func funcArgs(v string, names ...string) ([]string, error) {
	for _, name := range names {
		if !strings.HasPrefix(v, name+"(") {
			continue
		}
		if !strings.HasSuffix(v, ")") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidColor, v)
		}
		body := v[len(name)+1 : len(v)-1]
		body = strings.ReplaceAll(body, "/", " ")
		body = strings.ReplaceAll(body, ",", " ")
		return strings.Fields(body), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidColor, v)
}

func number(s string) (float64, bool, error) {
	pct := strings.HasSuffix(s, "%")
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	return f, pct, err
}

func alphaValue(s string) (float64, error) {
	f, pct, err := number(s)
	if err != nil {
		return 0, err
	}
	if pct {
		f /= 100
	}
	return clamp01(f), nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// toNRGBA 四舍五入到 8 位通道。
func toNRGBA(c gg.RGBA) color.NRGBA {
	ch := func(v float64) uint8 { return uint8(math.Round(clamp01(v) * 255)) }
	return color.NRGBA{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: ch(c.A)}
}
