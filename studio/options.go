package studio

import (
	"time"

	"github.com/ByLCY/designcanvas/design"
	"github.com/ByLCY/designcanvas/imagecache"
	"github.com/ByLCY/designcanvas/logging"
	canvasrenderer "github.com/ByLCY/designcanvas/renderer/canvas"
	"github.com/ByLCY/designcanvas/stage"
)

// Option 配置 Canvas。
type Option func(*Canvas)

// WithLogger 设置日志。
func WithLogger(l logging.Logger) Option { return func(c *Canvas) { c.log = logging.OrNop(l) } }

// WithSizer 使用外部创建的舞台测量器。
func WithSizer(s *stage.Sizer) Option { return func(c *Canvas) { c.sizer = s } }

// WithLoader 替换图片加载器。
func WithLoader(l imagecache.Loader) Option { return func(c *Canvas) { c.loader = l } }

// WithTypesetter 替换文本排版器。
func WithTypesetter(t *canvasrenderer.Typesetter) Option { return func(c *Canvas) { c.text = t } }

// WithAuthor 设置新评论的作者。
func WithAuthor(a design.Author) Option { return func(c *Canvas) { c.author = a } }

// WithClock 替换评论时间戳来源。
func WithClock(now func() time.Time) Option { return func(c *Canvas) { c.now = now } }

// WithSnapshotScale 设置快照每个舞台像素对应的输出像素数。
func WithSnapshotScale(scale float64) Option { return func(c *Canvas) { c.snapshotScale = scale } }

// WithRedraw 注册需要重绘时的回调（图片加载完成、舞台尺寸变化）。
func WithRedraw(fn func()) Option { return func(c *Canvas) { c.redraw = fn } }
