package design

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Style 是按元素类型区分的样式联合体，每个实现只包含该类型实际使用的字段。
type Style interface {
	StyleKind() Kind
	AspectLock() bool
}

// Common 是各类样式共享的字段。
type Common struct {
	Opacity      *float64 `json:"opacity,omitempty"`
	AspectLocked bool     `json:"aspectLocked,omitempty"`
}

func (c Common) AspectLock() bool { return c.AspectLocked }

// OpacityOr 返回不透明度，未设置时返回 def。
func (c Common) OpacityOr(def float64) float64 {
	if c.Opacity == nil {
		return def
	}
	return *c.Opacity
}

// Number 兼容 JSON 数字与数字字符串（例如 "24" 或 "24px"）。
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		*n = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		s = leadingNumber(unq)
		if s == "" {
			*n = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("无法解析数值 %s: %w", data, err)
	}
	*n = Number(f)
	return nil
}

func leadingNumber(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] == '.' || s[end] == '-' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	return s[:end]
}

// TextStyle 用于 text 元素。
type TextStyle struct {
	Common
	Color          string   `json:"color,omitempty"`
	FontFamily     string   `json:"fontFamily,omitempty"`
	FontSize       Number   `json:"fontSize,omitempty"`
	FontWeight     string   `json:"fontWeight,omitempty"`
	FontStyle      string   `json:"fontStyle,omitempty"`
	Bold           bool     `json:"bold,omitempty"`
	Italic         bool     `json:"italic,omitempty"`
	Underline      bool     `json:"underline,omitempty"`
	TextDecoration string   `json:"textDecoration,omitempty"`
	LetterSpacing  *float64 `json:"letterSpacing,omitempty"`
	LineHeight     *float64 `json:"lineHeight,omitempty"` // 百分比，例如 120 表示 1.2 倍
	TextAlign      string   `json:"textAlign,omitempty"`
}

func (TextStyle) StyleKind() Kind { return KindText }

// Size 返回字号（像素），缺省 18，按整数截断。
func (s TextStyle) Size() float64 {
	if s.FontSize <= 0 {
		return 18
	}
	return float64(int(s.FontSize))
}

// Family 返回字体族名，缺省 Arial。
func (s TextStyle) Family() string {
	if s.FontFamily == "" {
		return "Arial"
	}
	return s.FontFamily
}

// Fill 返回文字颜色，缺省黑色。
func (s TextStyle) Fill() string {
	if s.Color == "" {
		return "#000"
	}
	return s.Color
}

func (s TextStyle) IsBold() bool { return strings.EqualFold(s.FontWeight, "bold") || s.Bold }

func (s TextStyle) IsItalic() bool { return s.FontStyle == "italic" || s.Italic }

func (s TextStyle) IsUnderline() bool { return s.TextDecoration == "underline" || s.Underline }

// Align 返回 left/center/right 之一。
func (s TextStyle) Align() string {
	switch s.TextAlign {
	case "center", "right":
		return s.TextAlign
	default:
		return "left"
	}
}

// LineHeightFactor 返回行高倍数；未设置时返回 0，由排版后端使用字体度量。
func (s TextStyle) LineHeightFactor() float64 {
	if s.LineHeight == nil {
		return 0
	}
	return *s.LineHeight / 100
}

// ShapeStyle 用于 shape 元素。
type ShapeStyle struct {
	Common
	Background   string  `json:"background,omitempty"`
	Stroke       string  `json:"stroke,omitempty"`
	StrokeWidth  float64 `json:"strokeWidth,omitempty"`
	StrokeStyle  string  `json:"strokeStyle,omitempty"`
	CornerRadius float64 `json:"cornerRadius,omitempty"`
}

func (ShapeStyle) StyleKind() Kind { return KindShape }

// Fill 返回填充色，缺省白色。
func (s ShapeStyle) Fill() string {
	if s.Background == "" {
		return "#fff"
	}
	return s.Background
}

// HasStroke 描边宽度为 0 时不描边。
func (s ShapeStyle) HasStroke() bool { return s.StrokeWidth > 0 }

func (s ShapeStyle) Dashed() bool { return s.StrokeStyle == "dashed" }

// BackgroundStyle 用于 background 元素。
type BackgroundStyle struct {
	Common
	Background      string `json:"background,omitempty"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
	Filter          string `json:"filter,omitempty"`
}

func (BackgroundStyle) StyleKind() Kind { return KindBackground }

// IsGradient 判断 background 是否为 linear-gradient 字符串。
func (s BackgroundStyle) IsGradient() bool {
	return strings.HasPrefix(strings.TrimSpace(s.Background), "linear-gradient")
}

// EffectStyle 用于 effect（光晕）元素。
type EffectStyle struct {
	Common
	Color        string   `json:"color,omitempty"`
	ShadowBlur   *float64 `json:"shadowBlur,omitempty"`
	CornerRadius float64  `json:"cornerRadius,omitempty"`
}

func (EffectStyle) StyleKind() Kind { return KindEffect }

func (s EffectStyle) Fill() string {
	if s.Color == "" {
		return "#fff"
	}
	return s.Color
}

// Blur 返回阴影模糊半径，缺省 60。
func (s EffectStyle) Blur() float64 {
	if s.ShadowBlur == nil {
		return 60
	}
	return *s.ShadowBlur
}

// ImageStyle 用于 image 元素。
type ImageStyle struct {
	Common
}

func (ImageStyle) StyleKind() Kind { return KindImage }

// DefaultStyle 返回指定类型的零值样式。
func DefaultStyle(kind Kind) Style {
	switch kind {
	case KindText:
		return TextStyle{}
	case KindShape:
		return ShapeStyle{}
	case KindBackground:
		return BackgroundStyle{}
	case KindEffect:
		return EffectStyle{}
	case KindImage:
		return ImageStyle{}
	default:
		return nil
	}
}

func decodeStyle(kind Kind, raw json.RawMessage) (Style, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return DefaultStyle(kind), nil
	}
	var (
		st  Style
		err error
	)
	switch kind {
	case KindText:
		var s TextStyle
		err = json.Unmarshal(raw, &s)
		st = s
	case KindShape:
		var s ShapeStyle
		err = json.Unmarshal(raw, &s)
		st = s
	case KindBackground:
		var s BackgroundStyle
		err = json.Unmarshal(raw, &s)
		st = s
	case KindEffect:
		var s EffectStyle
		err = json.Unmarshal(raw, &s)
		st = s
	case KindImage:
		var s ImageStyle
		err = json.Unmarshal(raw, &s)
		st = s
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("解析 %s 样式失败: %w", kind, err)
	}
	return st, nil
}

// TextStyleOf 返回元素的文本样式；类型不符时返回零值。
func TextStyleOf(e Element) TextStyle {
	s, _ := e.Style.(TextStyle)
	return s
}

// ShapeStyleOf 返回元素的形状样式；类型不符时返回零值。
func ShapeStyleOf(e Element) ShapeStyle {
	s, _ := e.Style.(ShapeStyle)
	return s
}

// BackgroundStyleOf 返回元素的背景样式；类型不符时返回零值。
func BackgroundStyleOf(e Element) BackgroundStyle {
	s, _ := e.Style.(BackgroundStyle)
	return s
}

// EffectStyleOf 返回元素的光晕样式；类型不符时返回零值。
func EffectStyleOf(e Element) EffectStyle {
	s, _ := e.Style.(EffectStyle)
	return s
}

// ImageStyleOf 返回元素的图片样式；类型不符时返回零值。
func ImageStyleOf(e Element) ImageStyle {
	s, _ := e.Style.(ImageStyle)
	return s
}
