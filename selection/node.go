// Package selection 维护画布上的渲染节点注册表，以及附着在选中节点上的变换控制框。
package selection

import (
	"math"
	"sync"

	"github.com/ByLCY/designcanvas/design"
	"github.com/ByLCY/designcanvas/geometry"
)

// Node 是一个已挂载元素在舞台上的可交互句柄。
// Centered 为 true 时 X/Y 是节点中心，否则是左上角；旋转围绕 X/Y 进行。
type Node struct {
	ID       string
	Kind     design.Kind
	Shape    design.ShapeKind
	X, Y     float64
	Width    float64
	Height   float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	Centered bool

	Draggable     bool
	Transformable bool

	OnDragMove     func(n *Node)
	OnDragEnd      func(n *Node)
	OnTransformEnd func(n *Node)
	OnSelect       func(n *Node)
}

// NewNode 创建缩放为 1 的节点。
func NewNode(id string, kind design.Kind) *Node {
	return &Node{ID: id, Kind: kind, ScaleX: 1, ScaleY: 1}
}

// ResetScale 把缩放恢复为 1。
func (n *Node) ResetScale() {
	n.ScaleX, n.ScaleY = 1, 1
}

// Scale 返回当前缩放，0 视为 1。
func (n *Node) Scale() (sx, sy float64) {
	sx, sy = n.ScaleX, n.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return sx, sy
}

// Bounds 返回未旋转时节点占据的矩形（已计入缩放）。
func (n *Node) Bounds() geometry.Rect {
	sx, sy := n.Scale()
	w, h := n.Width*math.Abs(sx), n.Height*math.Abs(sy)
	if n.Centered {
		return geometry.Rect{X: n.X - w/2, Y: n.Y - h/2, Width: w, Height: h}
	}
	return geometry.Rect{X: n.X, Y: n.Y, Width: w, Height: h}
}

// Contains 判断舞台坐标是否落在节点内（考虑旋转）。
func (n *Node) Contains(p geometry.Point) bool {
	if n.Rotation != 0 {
		rad := -n.Rotation * math.Pi / 180
		dx, dy := p.X-n.X, p.Y-n.Y
		p = geometry.Point{
			X: n.X + dx*math.Cos(rad) - dy*math.Sin(rad),
			Y: n.Y + dx*math.Sin(rad) + dy*math.Cos(rad),
		}
	}
	return n.Bounds().Contains(p)
}

// Registry 是 id 到节点的映射，按挂载顺序保存以便自顶向下命中测试。
type Registry struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	order []string
}

func NewRegistry() *Registry {
	return &Registry{nodes: make(map[string]*Node)}
}

// Mount 注册节点；同 id 的旧节点被替换并保持原有层级。
func (r *Registry) Mount(n *Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.nodes[n.ID]; !ok {
		r.order = append(r.order, n.ID)
	}
	r.nodes[n.ID] = n
}

// Reset 清空注册表。
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes = make(map[string]*Node)
	r.order = nil
}

// Find 按 id 查找节点。
func (r *Registry) Find(id string) (*Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.nodes[id]
	return n, ok
}

// Nodes 按挂载顺序返回全部节点。
func (r *Registry) Nodes() []*Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Node, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.nodes[id])
	}
	return out
}

// HitTest 返回最上层包含该点的节点。
func (r *Registry) HitTest(p geometry.Point) (*Node, bool) {
	nodes := r.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		if nodes[i].Contains(p) {
			return nodes[i], true
		}
	}
	return nil, false
}
