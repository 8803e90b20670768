package selection

import (
	"sync"

	"github.com/ByLCY/designcanvas/design"
	"github.com/ByLCY/designcanvas/logging"
)

// KeepRatio 计算手势开始时的等比锁定：样式显式锁定，或拖动角手柄且元素不是三角形。
func KeepRatio(el design.Element, anchor string) bool {
	return el.AspectLocked() || (IsCorner(anchor) && !el.IsTriangle())
}

// Controller 把选中状态同步到控制框上。
type Controller struct {
	mu       sync.Mutex
	registry *Registry
	tr       *Transformer
	offs     []func()
	selected string
	log      logging.Logger
}

func NewController(reg *Registry, tr *Transformer, log logging.Logger) *Controller {
	return &Controller{registry: reg, tr: tr, log: logging.OrNop(log)}
}

// Transformer 返回受控的控制框。
func (c *Controller) Transformer() *Transformer { return c.tr }

// Selected 返回当前附着的元素 id。
func (c *Controller) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Sync 根据选中元素（nil 表示未选中）重新附着控制框。
// 每次调用都会先注销上一次注册的手势回调。
func (c *Controller) Sync(sel *design.Element) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detachLocked()

	if sel == nil {
		c.tr.SetNodes()
		return
	}
	node, ok := c.registry.Find(sel.ID)
	if !ok {
		c.log.Debug("选中元素尚未挂载", "id", sel.ID)
		c.tr.SetNodes()
		return
	}

	el := *sel
	c.selected = el.ID
	c.tr.SetNodes(node)
	c.tr.SetKeepRatio(el.AspectLocked())
	c.tr.SetStyle(DefaultOverlay)
	c.offs = append(c.offs,
		c.tr.On(TransformStart, func() {
			active := c.tr.ActiveAnchor()
			if active == "" {
				return
			}
			c.tr.SetKeepRatio(KeepRatio(el, active))
		}),
		c.tr.On(TransformEnd, func() {
			c.tr.SetKeepRatio(el.AspectLocked())
		}),
	)
}

// Close 注销回调并卸载控制框。
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detachLocked()
	c.tr.SetNodes()
}

func (c *Controller) detachLocked() {
	for _, off := range c.offs {
		off()
	}
	c.offs = nil
	c.selected = ""
}
