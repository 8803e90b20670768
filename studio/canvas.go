// Package studio 是设计画布的编排层：管理舞台尺寸与图片缓存，按固定图层顺序绘制一帧，
// 并把点击、拖拽与变换手势分发给对应的元素节点。
package studio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/designcanvas/design"
	"github.com/ByLCY/designcanvas/elements"
	"github.com/ByLCY/designcanvas/geometry"
	"github.com/ByLCY/designcanvas/imagecache"
	"github.com/ByLCY/designcanvas/logging"
	canvasrenderer "github.com/ByLCY/designcanvas/renderer/canvas"
	"github.com/ByLCY/designcanvas/selection"
	"github.com/ByLCY/designcanvas/stage"
)

var (
	ErrClosed      = errors.New("画布已关闭")
	ErrUnknownNode = errors.New("元素未挂载")
	ErrNotSelected = errors.New("元素未被选中")
)

// Gesture 描述一次完整的缩放/旋转手势。
type Gesture struct {
	Anchor   string          // 被拖动的手柄，例如 "top-left"
	ScaleX   float64         // 手势结束时的缩放，0 视为 1
	ScaleY   float64         // 同 ScaleX
	Rotation float64         // 手势结束时的绝对旋转角（度）
	Position *geometry.Point // 手势结束时的节点位置，nil 表示不变
}

// Canvas 编排一个设计画布。
type Canvas struct {
	host Host
	log  logging.Logger

	sizer    *stage.Sizer
	cache    *imagecache.Cache
	loader   imagecache.Loader
	text     *canvasrenderer.Typesetter
	registry *selection.Registry
	tr       *selection.Transformer
	ctrl     *selection.Controller

	author        design.Author
	now           func() time.Time
	snapshotScale float64
	redraw        func()
	unsubscribe   func()

	mu      sync.Mutex
	pending *string
	closed  bool
}

// New 创建画布。未提供 Sizer 时舞台固定为 800×450。
func New(host Host, opts ...Option) *Canvas {
	c := &Canvas{
		host:          host,
		log:           logging.Nop(),
		registry:      selection.NewRegistry(),
		tr:            selection.NewTransformer(),
		now:           time.Now,
		snapshotScale: 1,
		author:        design.Author{ID: "user-1", Name: "Designer"},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sizer == nil {
		c.sizer = stage.NewSizer(nil, stage.Options{Logger: c.log})
	}
	if c.text == nil {
		c.text = canvasrenderer.NewTypesetter("")
	}
	cacheOpts := []imagecache.Option{imagecache.WithLogger(c.log)}
	if c.loader != nil {
		cacheOpts = append(cacheOpts, imagecache.WithLoader(c.loader))
	}
	c.cache = imagecache.New(c.sizer.Size().Width, cacheOpts...)
	c.cache.OnUpdate(func(string) { c.notify() })
	c.ctrl = selection.NewController(c.registry, c.tr, c.log)
	c.unsubscribe = c.sizer.Subscribe(func(size geometry.Size) {
		c.cache.SetStageWidth(size.Width)
		c.notify()
	})
	return c
}

func (c *Canvas) notify() {
	if c.redraw != nil && !c.isClosed() {
		c.redraw()
	}
}

func (c *Canvas) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Size 返回当前舞台像素尺寸。
func (c *Canvas) Size() geometry.Size { return c.sizer.Size() }

// Sizer 返回舞台测量器。
func (c *Canvas) Sizer() *stage.Sizer { return c.sizer }

// Cache 返回图片缓存。
func (c *Canvas) Cache() *imagecache.Cache { return c.cache }

// Transformer 返回变换控制框。
func (c *Canvas) Transformer() *selection.Transformer { return c.tr }

// SetPlatform 切换输出平台（nil 表示不限定），舞台按新宽高比重新测量。
func (c *Canvas) SetPlatform(p *stage.Platform) geometry.Size {
	size, err := c.sizer.SetPlatform(p)
	if err != nil && !errors.Is(err, stage.ErrNotMeasured) {
		c.log.Warn("舞台测量失败", "err", err)
	}
	return size
}

// Preload 加载全部图片与渐变并等待完成。
func (c *Canvas) Preload(ctx context.Context) error {
	return c.cache.Preload(ctx, c.host.Elements())
}

func (c *Canvas) env(size geometry.Size) *elements.Env {
	return &elements.Env{Stage: size, Images: c.cache, Text: c.text, Host: c.host, Logger: c.log}
}

// Sync 按宿主当前状态重新挂载节点、补齐图片缓存并同步控制框。
func (c *Canvas) Sync() error {
	if c.isClosed() {
		return ErrClosed
	}
	list := c.host.Elements()
	env := c.env(c.Size())
	c.registry.Reset()
	for _, el := range list.Foreground() {
		if n := elements.For(el.Kind).Mount(el, env); n != nil {
			c.registry.Mount(n)
		}
	}
	c.cache.Ensure(list)
	c.syncSelection()
	return nil
}

func (c *Canvas) syncSelection() {
	if sel, ok := c.host.Selected(); ok {
		c.ctrl.Sync(&sel)
		return
	}
	c.ctrl.Sync(nil)
}

// Frame 同步后绘制一帧：背景层，元素层与控制框，最后是安全区参考线。
// 单个元素绘制失败只记录日志。
func (c *Canvas) Frame() (*canvas.Canvas, error) {
	if err := c.Sync(); err != nil {
		return nil, err
	}
	size := c.Size()
	env := c.env(size)
	list := c.host.Elements()

	frame := canvas.New(size.Width, size.Height)
	ctx := canvas.NewContext(frame)
	ctx.SetCoordSystem(canvas.CartesianIV)

	for _, el := range list.OfKind(design.KindBackground) {
		c.drawElement(ctx, el, env)
	}
	for _, el := range list.Foreground() {
		c.drawElement(ctx, el, env)
	}
	drawTransformer(ctx, c.tr)
	if zone, ok := c.sizer.Platform().SafeZone(size); ok {
		drawSafeZone(ctx, zone)
	}
	return frame, nil
}

func (c *Canvas) drawElement(ctx *canvas.Context, el design.Element, env *elements.Env) {
	if err := elements.For(el.Kind).Draw(ctx, el, env); err != nil {
		c.log.Warn("绘制元素失败", "id", el.ID, "type", el.Kind, "err", err)
	}
}

// Click 处理舞台点击：待放置评论时在点击处放置评论；否则选中命中的元素，未命中则取消选中。
func (c *Canvas) Click(pt geometry.Point) error {
	if c.isClosed() {
		return ErrClosed
	}
	if c.placeComment(pt) {
		return nil
	}
	if err := c.Sync(); err != nil {
		return err
	}
	var selected *design.Element
	if n, ok := c.registry.HitTest(pt); ok {
		if el, found := c.host.Elements().Find(n.ID); found {
			selected = &el
		}
	}
	c.host.SetSelected(selected)
	c.syncSelection()
	return nil
}

// MouseDown 在命中元素时立即选中它，未命中时不改变选中状态。
func (c *Canvas) MouseDown(pt geometry.Point) error {
	if err := c.Sync(); err != nil {
		return err
	}
	if n, ok := c.registry.HitTest(pt); ok && n.OnSelect != nil {
		n.OnSelect(n)
		c.syncSelection()
	}
	return nil
}

func (c *Canvas) node(id string) (*selection.Node, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}
	n, ok := c.registry.Find(id)
	if !ok {
		if err := c.Sync(); err != nil {
			return nil, err
		}
		if n, ok = c.registry.Find(id); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
		}
	}
	return n, nil
}

// DragMove 把节点移动到 to（节点坐标）并更新选中元素的实时预览。
func (c *Canvas) DragMove(id string, to geometry.Point) error {
	n, err := c.node(id)
	if err != nil {
		return err
	}
	if !n.Draggable {
		return nil
	}
	n.X, n.Y = to.X, to.Y
	if n.OnDragMove != nil {
		n.OnDragMove(n)
	}
	return nil
}

// DragEnd 把节点放到 to 并提交位置。
func (c *Canvas) DragEnd(id string, to geometry.Point) error {
	n, err := c.node(id)
	if err != nil {
		return err
	}
	if !n.Draggable {
		return nil
	}
	n.X, n.Y = to.X, to.Y
	if n.OnDragEnd != nil {
		n.OnDragEnd(n)
	}
	return c.Sync()
}

// Transform 在已选中的元素上执行一次缩放/旋转手势。
// 等比锁定在手势开始时按手柄重新计算，结束后恢复。
func (c *Canvas) Transform(id string, g Gesture) error {
	if err := c.Sync(); err != nil {
		return err
	}
	attached, ok := c.tr.Attached()
	if !ok || attached.ID != id {
		return fmt.Errorf("%w: %s", ErrNotSelected, id)
	}
	n := attached
	if !n.Transformable {
		return nil
	}
	c.tr.Begin(g.Anchor)
	sx, sy := g.ScaleX, g.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	n.ScaleX, n.ScaleY = c.tr.Constrain(sx, sy)
	n.Rotation = g.Rotation
	if g.Position != nil {
		n.X, n.Y = g.Position.X, g.Position.Y
	}
	if n.OnTransformEnd != nil {
		n.OnTransformEnd(n)
	}
	c.tr.End()
	return c.Sync()
}

// BeginComment 进入评论放置模式，下一次点击会在点击处放置 text。
func (c *Canvas) BeginComment(text string) {
	c.mu.Lock()
	c.pending = &text
	c.mu.Unlock()
}

// SetCommentText 修改待放置评论的内容。
func (c *Canvas) SetCommentText(text string) {
	c.mu.Lock()
	if c.pending != nil {
		c.pending = &text
	}
	c.mu.Unlock()
}

// CancelComment 退出评论放置模式。
func (c *Canvas) CancelComment() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
}

// PendingComment 返回待放置评论的内容。
func (c *Canvas) PendingComment() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return "", false
	}
	return *c.pending, true
}

// placeComment 在评论模式下消费点击。内容为空白时不放置，也不退出评论模式。
func (c *Canvas) placeComment(pt geometry.Point) bool {
	c.mu.Lock()
	if c.pending == nil {
		c.mu.Unlock()
		return false
	}
	text := *c.pending
	if strings.TrimSpace(text) == "" {
		c.mu.Unlock()
		return true
	}
	c.pending = nil
	c.mu.Unlock()

	at := geometry.PercentOf(pt, c.Size())
	comment := design.NewComment(c.author, text, at, c.now().UTC())
	c.host.AddComment(comment)
	c.log.Debug("放置评论", "id", comment.ID, "x", at.X, "y", at.Y)
	return true
}

// Snapshot 返回当前画面的 PNG；任何失败都只记录日志并返回 nil。
func (c *Canvas) Snapshot() (out []byte) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Warn("生成快照失败", "panic", r)
			out = nil
		}
	}()
	frame, err := c.Frame()
	if err != nil {
		c.log.Warn("生成快照失败", "err", err)
		return nil
	}
	data, err := canvasrenderer.PNG{Scale: c.snapshotScale}.Render(frame)
	if err != nil {
		c.log.Warn("生成快照失败", "err", err)
		return nil
	}
	return data
}

// ExportPDF 把当前画面输出为单页 PDF。
func (c *Canvas) ExportPDF(meta canvasrenderer.Meta) ([]byte, error) {
	frame, err := c.Frame()
	if err != nil {
		return nil, err
	}
	return canvasrenderer.PDF{Meta: meta}.Render(frame)
}

// Close 停止响应尺寸变化，卸载控制框与全部节点。重复调用无副作用。
func (c *Canvas) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.pending = nil
	c.mu.Unlock()

	c.unsubscribe()
	c.sizer.Close()
	c.ctrl.Close()
	c.registry.Reset()
}
