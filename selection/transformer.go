package selection

import (
	"strings"
	"sync"
)

// Event 是变换控制框发出的手势事件。
type Event string

const (
	TransformStart Event = "transformstart"
	TransformEnd   Event = "transformend"
)

// OverlayStyle 是控制框的外观常量。
type OverlayStyle struct {
	AnchorStroke string
	AnchorFill   string
	AnchorSize   float64
	BorderStroke string
	BorderDash   []float64
}

// DefaultOverlay 是附着到选中元素时使用的外观。
var DefaultOverlay = OverlayStyle{
	AnchorStroke: "#ffffff",
	AnchorFill:   "#2563eb",
	AnchorSize:   10,
	BorderStroke: "#2563eb",
	BorderDash:   []float64{6, 4},
}

// Anchors 是控制框的八个缩放手柄。
var Anchors = []string{
	"top-left", "top-center", "top-right",
	"middle-right", "middle-left",
	"bottom-left", "bottom-center", "bottom-right",
}

// IsCorner 判断手柄名同时包含 top/bottom 与 left/right。
func IsCorner(anchor string) bool {
	a := strings.ToLower(anchor)
	vertical := strings.Contains(a, "top") || strings.Contains(a, "bottom")
	horizontal := strings.Contains(a, "left") || strings.Contains(a, "right")
	return vertical && horizontal
}

type listener struct {
	id int
	fn func()
}

// Transformer 是附着在零个或一个节点上的缩放/旋转控制框。
type Transformer struct {
	mu        sync.Mutex
	nodes     []*Node
	keepRatio bool
	active    string
	style     OverlayStyle
	listeners map[Event][]listener
	nextID    int
}

func NewTransformer() *Transformer {
	return &Transformer{listeners: make(map[Event][]listener)}
}

// SetNodes 附着到给定节点；不传参数即卸载控制框。
func (t *Transformer) SetNodes(nodes ...*Node) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nodes = append([]*Node(nil), nodes...)
}

func (t *Transformer) Nodes() []*Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*Node(nil), t.nodes...)
}

// Attached 返回当前附着的节点。
func (t *Transformer) Attached() (*Node, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.nodes) == 0 {
		return nil, false
	}
	return t.nodes[0], true
}

func (t *Transformer) SetKeepRatio(v bool) {
	t.mu.Lock()
	t.keepRatio = v
	t.mu.Unlock()
}

func (t *Transformer) KeepRatio() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.keepRatio
}

func (t *Transformer) SetStyle(s OverlayStyle) {
	t.mu.Lock()
	t.style = s
	t.mu.Unlock()
}

func (t *Transformer) Style() OverlayStyle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.style
}

// ActiveAnchor 返回手势进行中被拖动的手柄，空闲时为空。
func (t *Transformer) ActiveAnchor() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// On 注册事件回调，返回注销函数。
func (t *Transformer) On(ev Event, fn func()) (off func()) {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.listeners[ev] = append(t.listeners[ev], listener{id: id, fn: fn})
	t.mu.Unlock()
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		ls := t.listeners[ev]
		for i, l := range ls {
			if l.id == id {
				t.listeners[ev] = append(ls[:i], ls[i+1:]...)
				return
			}
		}
	}
}

// ListenerCount 返回某个事件上的回调数量。
func (t *Transformer) ListenerCount(ev Event) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners[ev])
}

// Begin 以指定手柄开始变换手势并触发 TransformStart。
func (t *Transformer) Begin(anchor string) {
	t.mu.Lock()
	t.active = anchor
	t.mu.Unlock()
	t.emit(TransformStart)
}

// End 结束手势并触发 TransformEnd。
func (t *Transformer) End() {
	t.emit(TransformEnd)
	t.mu.Lock()
	t.active = ""
	t.mu.Unlock()
}

// Constrain 在保持宽高比时把两个缩放统一为变化更大的那个。
func (t *Transformer) Constrain(sx, sy float64) (float64, float64) {
	if !t.KeepRatio() {
		return sx, sy
	}
	if abs(sx-1) >= abs(sy-1) {
		return sx, sx
	}
	return sy, sy
}

func (t *Transformer) emit(ev Event) {
	t.mu.Lock()
	ls := append([]listener(nil), t.listeners[ev]...)
	t.mu.Unlock()
	for _, l := range ls {
		l.fn()
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
