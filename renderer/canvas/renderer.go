package canvasrenderer

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/designcanvas/fonts"
)

// MmToPt 用于字号换算：画布以像素为长度单位，1 像素按 1mm 传给 canvas，字体系统以 pt 为单位。
const MmToPt = 72.0 / 25.4

// Typesetter 管理字体族缓存并对文本做贪心换行。
type Typesetter struct {
	baseDir string

	// injected resources
	fontBlobs map[string][]byte // by family name

	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry
}

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the typesetter.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // 按字体族名注册的字体，例如 "Inter"
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// FontSpec 描述文本元素请求的字体。
type FontSpec struct {
	Family string
	Bold   bool
	Italic bool
}

// TextLine 是换行后的一行文本，宽高单位为像素。
type TextLine struct {
	Content   string
	Width     float64
	Height    float64
	GapBefore float64
}

// NewTypesetter creates a typesetter rooted at baseDir for resolving font paths.
func NewTypesetter(baseDir string) *Typesetter {
	return NewTypesetterWithOptions(Options{BaseDir: baseDir})
}

// NewTypesetterWithOptions creates a typesetter with injected font resources.
func NewTypesetterWithOptions(opts Options) *Typesetter {
	t := &Typesetter{
		baseDir:      opts.BaseDir,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			t.fontBlobs[strings.ToLower(name)] = res.Bytes
			continue
		}
		if res.Path != "" {
			path := res.Path
			if !filepath.IsAbs(path) && t.baseDir != "" {
				path = filepath.Join(t.baseDir, path)
			}
			data, _ := os.ReadFile(path) // 读取失败时在使用处回退到内置字体
			if len(data) > 0 {
				t.fontBlobs[strings.ToLower(name)] = data
			}
		}
	}
	return t
}

// Face 返回指定字号（像素）与颜色的字体面。
func (t *Typesetter) Face(spec FontSpec, sizePx float64, col color.Color) (*canvas.FontFace, error) {
	family, style, err := t.ensureFontFamily(spec)
	if err != nil {
		return nil, err
	}
	return family.Face(toPt(sizePx), col, style, canvas.FontNormal), nil
}

func (t *Typesetter) ensureFontFamily(spec FontSpec) (*canvas.FontFamily, canvas.FontStyle, error) {
	style := fontStyle(spec)
	key := fontCacheKey(spec)
	t.fontMu.Lock()
	defer t.fontMu.Unlock()

	if entry, ok := t.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	if blob, ok := t.fontBlobs[strings.ToLower(spec.Family)]; ok {
		family := canvas.NewFontFamily(spec.Family)
		if err := family.LoadFont(blob, 0, style); err == nil {
			t.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
			return family, style, nil
		}
	}

	// 未注册的字体族（包括 Arial 等系统字体名）使用内置 Go 字体。
	data, err := fonts.Load(fonts.NameFor(spec.Bold, spec.Italic))
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily("designcanvas-" + fonts.NameFor(spec.Bold, spec.Italic))
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("加载内置字体失败: %w", err)
	}
	t.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

func fontStyle(spec FontSpec) canvas.FontStyle {
	style := canvas.FontRegular
	if spec.Bold {
		style = canvas.FontBold
	}
	if spec.Italic {
		style |= canvas.FontItalic
	}
	return style
}

func fontCacheKey(spec FontSpec) string {
	return fmt.Sprintf("%s|%t|%t", strings.ToLower(spec.Family), spec.Bold, spec.Italic)
}

// Measure 返回文本宽度，letterSpacing 加在相邻字符之间。
func Measure(face *canvas.FontFace, s string, letterSpacing float64) float64 {
	w := face.TextWidth(s)
	if letterSpacing != 0 {
		if n := utf8.RuneCountInString(s); n > 1 {
			w += letterSpacing * float64(n-1)
		}
	}
	return w
}

// LayoutLines 使用贪心换行算法把文本排进 width 宽的框。
// lineHeight 为 0 时使用字体度量的行高；否则各行之间补足到 lineHeight。
func LayoutLines(content string, width float64, face *canvas.FontFace, lineHeight, letterSpacing float64) []TextLine {
	measure := func(s string) float64 { return Measure(face, s, letterSpacing) }
	lines := greedyWrapTokens(content, width, measure)
	textHeight := face.Metrics().LineHeight
	if textHeight <= 0 {
		textHeight = lineHeight
	}
	leading := math.Max(lineHeight-textHeight, 0)
	if len(lines) == 0 {
		lines = []TextLine{{Content: "", Width: 0, Height: textHeight}}
	}
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = textHeight
		}
		if i > 0 {
			lines[i].GapBefore = leading
		}
	}
	return lines
}

// toPt 将像素（按 mm 处理）转换为点(pt)。
func toPt(px float64) float64 { return px * MmToPt }

func greedyWrapTokens(content string, width float64, measure func(string) float64) []TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	// 优先在空白处分割，超过限制时在词内拆分
	tokens := tokenizeContent(content)
	var lines []TextLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, TextLine{Content: "", Width: 0})
			}
			return
		}
		lineStr := strings.TrimRightFunc(builder.String(), unicode.IsSpace)
		lines = append(lines, TextLine{
			Content: lineStr,
			Width:   measure(lineStr),
		})
		builder.Reset()
		currentWidth = 0
	}

	appendToken := func(token string) {
		// 行首的空白不占宽度
		if builder.Len() == 0 && strings.TrimSpace(token) == "" {
			return
		}
		builder.WriteString(token)
		currentWidth = measure(builder.String())
	}

	for _, token := range tokens {
		if token == "\n" {
			emit(true)
			continue
		}

		tokenWidth := measure(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit && strings.TrimSpace(token) != "" {
			emit(false)
		}
		if tokenWidth <= limit {
			appendToken(token)
			continue
		}

		for _, chunk := range splitTokenByWidth(token, limit, measure) {
			chunkWidth := measure(chunk)
			if currentWidth > 0 && currentWidth+chunkWidth > limit {
				emit(false)
			}
			appendToken(chunk)
		}
	}

	emit(false)
	return lines
}

func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitTokenByWidth(token string, limit float64, measure func(string) float64) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var builder strings.Builder
	for _, r := range token {
		builder.WriteRune(r)
		if measure(builder.String()) > limit && builder.Len() > 1 {
			runes := []rune(builder.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			builder.Reset()
			builder.WriteRune(r)
		}
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}
