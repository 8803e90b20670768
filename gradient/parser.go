// Package gradient 把 CSS linear-gradient 字符串解析为方向与色标，并栅格化为图片。
package gradient

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	ErrNotGradient = errors.New("gradient: not a linear-gradient")
	ErrNoStops     = errors.New("gradient: no usable color stops")
)

var (
	gradientLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Punct", Pattern: `[(),]`},
		{Name: "Word", Pattern: `[^ \t\r\n(),]+`},
	})

	punctTokenType = mustTokenType("Punct")

	gradientParser = participle.MustBuild[Expr](
		participle.Lexer(gradientLexer),
	)

	stopPattern    = regexp.MustCompile(`^(.+?)\s+([0-9]*\.?[0-9]+)%$`)
	trailingPct    = regexp.MustCompile(`\s+[0-9]*\.?[0-9]+%$`)
	sidePattern    = regexp.MustCompile(`(?i)^to\b`)
	anglePattern   = regexp.MustCompile(`(-?[0-9.]+)deg`)
	directionWords = map[string]bool{"top": true, "bottom": true, "left": true, "right": true}
)

// Expr 是 name(arg, arg, ...) 形式的函数调用。
type Expr struct {
	Func string `parser:"Whitespace? @Word Whitespace?"`
	Args []*Arg `parser:"'(' @@ ( ',' @@ )* ')' Whitespace?"`
}

// Arg 保留单个参数的原始文本，括号内的逗号不会拆分参数。
type Arg struct {
	Raw string
}

// Parse implements participle.Parseable for Arg.
func (a *Arg) Parse(lex *lexer.PeekingLexer) error {
	var (
		buf   strings.Builder
		depth int
	)
	for {
		tok := lex.Peek()
		if tok.EOF() {
			break
		}
		if tok.Type == punctTokenType {
			switch tok.Value {
			case "(":
				depth++
			case ")":
				if depth == 0 {
					return a.finish(buf.String())
				}
				depth--
			case ",":
				if depth == 0 {
					return a.finish(buf.String())
				}
			}
		}
		buf.WriteString(lex.Next().Value)
	}
	return a.finish(buf.String())
}

func (a *Arg) finish(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return participle.NextMatch
	}
	a.Raw = raw
	return nil
}

// Stop 是一个色标；Positioned 为 false 的色标由 Parse 推断位置。
type Stop struct {
	Color      string
	Offset     float64
	Positioned bool
}

// Spec 是解析后的渐变。
type Spec struct {
	Source    string
	Direction string // 原始方向片段，例如 "to bottom" 或 "45deg"；空表示从左到右
	Stops     []Stop
}

// IsGradient 判断字符串是否以 linear-gradient 开头。
func IsGradient(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "linear-gradient")
}

// Parse 解析 linear-gradient(...) 字符串并补全所有色标位置。
func Parse(css string) (*Spec, error) {
	if !IsGradient(css) {
		return nil, fmt.Errorf("%w: %q", ErrNotGradient, css)
	}
	expr, err := gradientParser.ParseString("", css)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotGradient, err)
	}
	if expr.Func != "linear-gradient" {
		return nil, fmt.Errorf("%w: %q", ErrNotGradient, expr.Func)
	}

	args := make([]string, 0, len(expr.Args))
	for _, a := range expr.Args {
		args = append(args, a.Raw)
	}

	spec := &Spec{Source: css}
	if len(args) > 1 && isDirection(args[0]) {
		spec.Direction = args[0]
		args = args[1:]
	}
	if len(args) == 0 {
		return nil, ErrNoStops
	}
	spec.Stops = make([]Stop, len(args))
	for i, raw := range args {
		spec.Stops[i] = parseStop(raw)
	}
	inferOffsets(spec.Stops)
	return spec, nil
}

func isDirection(s string) bool {
	return sidePattern.MatchString(s) || strings.HasSuffix(s, "deg")
}

func parseStop(raw string) Stop {
	if m := stopPattern.FindStringSubmatch(raw); m != nil {
		pos, err := strconv.ParseFloat(m[2], 64)
		if err == nil {
			return Stop{Color: strings.TrimSpace(m[1]), Offset: clamp(pos, 0, 100) / 100, Positioned: true}
		}
	}
	return Stop{Color: strings.TrimSpace(raw)}
}

// inferOffsets 补全缺失的位置：单个色标为 0，首尾缺省为 0 与 1，
// 中间连续缺失的色标在两侧已知位置之间等距插值。
func inferOffsets(stops []Stop) {
	n := len(stops)
	if n == 0 {
		return
	}
	if n == 1 {
		stops[0].Offset, stops[0].Positioned = 0, true
		return
	}
	if !stops[0].Positioned {
		stops[0].Offset, stops[0].Positioned = 0, true
	}
	if !stops[n-1].Positioned {
		stops[n-1].Offset, stops[n-1].Positioned = 1, true
	}
	for i := 1; i < n; {
		if stops[i].Positioned {
			i++
			continue
		}
		j := i + 1
		for j < n && !stops[j].Positioned {
			j++
		}
		start, end := stops[i-1].Offset, stops[j].Offset
		gap := float64(j - i + 1)
		for k := i; k < j; k++ {
			t := float64(k-(i-1)) / gap
			stops[k].Offset = start + t*(end-start)
			stops[k].Positioned = true
		}
		i = j
	}
}

// Line 是渐变轴的起点与终点（像素）。
type Line struct {
	X0, Y0, X1, Y1 float64
}

// Vector 计算 w×h 画布上的渐变轴。角度从画布中心沿 cos/sin 延伸到边界，
// 方位词 to <side> 从对边指向该边，两个方位词组合时对角线贯穿画布。
func (s *Spec) Vector(w, h float64) Line {
	line := Line{X0: 0, Y0: 0, X1: w, Y1: 0}
	dir := strings.ToLower(strings.TrimSpace(s.Direction))
	if dir == "" {
		return line
	}
	if m := anglePattern.FindStringSubmatch(dir); m != nil {
		if deg, err := strconv.ParseFloat(m[1], 64); err == nil {
			return angleLine(deg, w, h)
		}
	}
	if !sidePattern.MatchString(dir) {
		return line
	}
	var horiz, vert string
	for _, word := range strings.Fields(dir)[1:] {
		if !directionWords[word] {
			continue
		}
		switch word {
		case "left", "right":
			horiz = word
		case "top", "bottom":
			vert = word
		}
	}
	if horiz == "" && vert == "" {
		return line
	}
	line = Line{}
	switch horiz {
	case "right":
		line.X0, line.X1 = 0, w
	case "left":
		line.X0, line.X1 = w, 0
	}
	switch vert {
	case "bottom":
		line.Y0, line.Y1 = 0, h
	case "top":
		line.Y0, line.Y1 = h, 0
	}
	return line
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mustTokenType(name string) lexer.TokenType {
	tt, ok := gradientLexer.Symbols()[name]
	if !ok {
		panic(fmt.Sprintf("token %s not defined", name))
	}
	return tt
}
