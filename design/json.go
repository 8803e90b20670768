package design

import (
	"encoding/json"
	"fmt"

	"github.com/ByLCY/designcanvas/geometry"
)

type elementJSON struct {
	ID       string          `json:"id"`
	Kind     string          `json:"type"`
	Content  string          `json:"content,omitempty"`
	Src      string          `json:"src,omitempty"`
	Shape    ShapeKind       `json:"shape,omitempty"`
	Position Position        `json:"position"`
	Size     geometry.Size   `json:"size"`
	Rotation float64         `json:"rotation,omitempty"`
	Center   bool            `json:"center,omitempty"`
	Style    json.RawMessage `json:"style,omitempty"`
}

// UnmarshalJSON 根据 type 字段把 style 解码为对应的具体样式类型。
func (e *Element) UnmarshalJSON(data []byte) error {
	var raw elementJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	kind, err := ParseKind(raw.Kind)
	if err != nil {
		return fmt.Errorf("元素 %s: %w", raw.ID, err)
	}
	style, err := decodeStyle(kind, raw.Style)
	if err != nil {
		return fmt.Errorf("元素 %s: %w", raw.ID, err)
	}
	*e = Element{
		ID:       raw.ID,
		Kind:     kind,
		Content:  raw.Content,
		Src:      raw.Src,
		Shape:    raw.Shape,
		Position: raw.Position,
		Size:     raw.Size,
		Rotation: raw.Rotation,
		Center:   raw.Center,
		Style:    style,
	}
	return nil
}
