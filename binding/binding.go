// Package binding 把宿主数据填入元素内容中的 ${path.to.value} 占位符。
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ByLCY/designcanvas/design"
)

var placeholder = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 替换文本中的 ${path} 与 ${path|默认值}。
// 路径不存在且没有默认值时保留原占位符。
func Interpolate(text string, data any) string {
	if !strings.Contains(text, "${") {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-1])
		path, fallback, hasFallback := strings.Cut(expr, "|")
		path = strings.TrimSpace(path)
		if path != "" && data != nil {
			if val, ok := Lookup(data, path); ok && val != nil {
				return format(val)
			}
		}
		if hasFallback {
			return strings.TrimSpace(fallback)
		}
		return match
	})
}

// Bind 返回元素列表副本：text 元素的内容与 image 元素的地址都经过插值。
func Bind(elements design.List, data any) design.List {
	out := make(design.List, len(elements))
	for i, el := range elements {
		switch el.Kind {
		case design.KindText:
			el.Content = Interpolate(el.Content, data)
		case design.KindImage:
			el.Src = Interpolate(el.Src, data)
			el.Content = Interpolate(el.Content, data)
		}
		out[i] = el
	}
	return out
}

// Lookup 沿 "a.b[0].c" 形式的路径在 JSON 解码后的数据中取值。
func Lookup(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes := splitSegment(segment)
		if name != "" {
			obj, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			if current, ok = obj[name]; !ok {
				return nil, false
			}
		}
		for _, raw := range indexes {
			idx, err := strconv.Atoi(raw)
			if err != nil {
				return nil, false
			}
			arr, ok := current.([]any)
			if !ok || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
		}
	}
	return current, true
}

func splitSegment(segment string) (string, []string) {
	open := strings.IndexByte(segment, '[')
	if open < 0 {
		return segment, nil
	}
	name, rest := segment[:open], segment[open:]
	var indexes []string
	for strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			break
		}
		indexes = append(indexes, rest[1:end])
		rest = rest[end+1:]
	}
	return name, indexes
}

// format 让整数值的 float64 不带小数点输出。
func format(v any) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprint(v)
}
