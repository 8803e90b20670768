// Package imagecache 把图片地址与合成渐变键映射到已加载的图片。
// 加载在后台进行；渲染器只读取当前已缓存的内容，缓存更新后通过回调触发重绘。
package imagecache

import (
	"context"
	"image"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/designcanvas/design"
	"github.com/ByLCY/designcanvas/gradient"
	"github.com/ByLCY/designcanvas/logging"
)

// GradientPrefix 标记由渐变字符串合成的缓存键。
const GradientPrefix = "__grad__"

// GradientKey 返回渐变字符串对应的缓存键。
func GradientKey(css string) string { return GradientPrefix + css }

// IsGradientKey 判断缓存键是否来自渐变。
func IsGradientKey(key string) bool { return strings.HasPrefix(key, GradientPrefix) }

// Sources 按出现顺序收集元素引用的全部缓存键并去重。
func Sources(elements design.List) []string {
	seen := make(map[string]struct{})
	var keys []string
	add := func(k string) {
		if k == "" {
			return
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	for _, el := range elements {
		switch el.Kind {
		case design.KindImage:
			add(el.ImageSource())
		case design.KindBackground:
			st := design.BackgroundStyleOf(el)
			add(st.BackgroundImage)
			if st.IsGradient() {
				add(GradientKey(st.Background))
			}
		}
	}
	return keys
}

type entry struct {
	img  image.Image
	done bool
	gen  uint64
}

// Cache 是进程内缓存，不做淘汰。失败的加载记为 nil，不会自动重试。
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*entry
	width    float64
	gen      uint64 // 舞台宽度每变化一次加一，旧代的渐变结果被丢弃
	onUpdate []func(key string)

	loader Loader
	raster gradient.Rasterizer
	log    logging.Logger
	ctx    context.Context
	wg     sync.WaitGroup
}

// Option 配置 Cache。
type Option func(*Cache)

// WithLoader 替换图片加载器。
func WithLoader(l Loader) Option { return func(c *Cache) { c.loader = l } }

// WithLogger 设置日志。
func WithLogger(l logging.Logger) Option {
	return func(c *Cache) {
		c.log = logging.OrNop(l)
		c.raster.Logger = c.log
	}
}

// WithContext 设置后台加载使用的 context。
func WithContext(ctx context.Context) Option { return func(c *Cache) { c.ctx = ctx } }

// New 创建缓存，stageWidth 决定渐变栅格尺寸。
func New(stageWidth float64, opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*entry),
		width:   stageWidth,
		loader:  NewSourceLoader(""),
		log:     logging.Nop(),
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnUpdate 注册缓存条目完成时的回调；回调在加载 goroutine 中执行。
func (c *Cache) OnUpdate(fn func(key string)) {
	c.mu.Lock()
	c.onUpdate = append(c.onUpdate, fn)
	c.mu.Unlock()
}

// Get 返回缓存图片。ok 为 false 表示尚未加载完成；ok 为 true 且图片为 nil 表示加载失败。
func (c *Cache) Get(key string) (img image.Image, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, found := c.entries[key]
	if !found || !e.done {
		return nil, false
	}
	return e.img, true
}

// Image 返回元素使用的图片，未就绪或失败时返回 nil。
func (c *Cache) Image(key string) image.Image {
	img, _ := c.Get(key)
	return img
}

// StageWidth 返回当前用于渐变合成的舞台宽度。
func (c *Cache) StageWidth() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width
}

// Ensure 为元素引用的每个尚无条目的键启动后台加载，立即返回。
// 已存在的条目（包括失败记录与加载中的条目）不会重复加载。
func (c *Cache) Ensure(elements design.List) {
	for _, key := range Sources(elements) {
		c.ensureKey(key)
	}
}

func (c *Cache) ensureKey(key string) {
	c.mu.Lock()
	if _, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return
	}
	gen, width := c.gen, c.width
	c.entries[key] = &entry{gen: gen}
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.store(key, gen, c.load(c.ctx, key, width))
	}()
}

// SetStageWidth 在宽度变化时丢弃所有渐变条目并按新宽度重新合成；图片地址条目保持不变。
func (c *Cache) SetStageWidth(width float64) {
	c.mu.Lock()
	if width == c.width {
		c.mu.Unlock()
		return
	}
	c.width = width
	c.gen++
	var stale []string
	for key := range c.entries {
		if IsGradientKey(key) {
			stale = append(stale, key)
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()

	c.log.Debug("舞台宽度变化，重新合成渐变", "width", width, "count", len(stale))
	for _, key := range stale {
		c.ensureKey(key)
	}
}

// Wait 阻塞直到所有后台加载完成或 ctx 结束。
func (c *Cache) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Preload 并发加载元素引用的全部资源并等待完成，用于离线导出。
// 单个资源失败只记为 nil，不会让 Preload 返回错误。
func (c *Cache) Preload(ctx context.Context, elements design.List) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, key := range Sources(elements) {
		c.mu.Lock()
		if _, ok := c.entries[key]; ok {
			c.mu.Unlock()
			continue
		}
		gen, width := c.gen, c.width
		c.entries[key] = &entry{gen: gen}
		c.mu.Unlock()

		g.Go(func() error {
			c.store(key, gen, c.load(gctx, key, width))
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return c.Wait(ctx)
}

func (c *Cache) load(ctx context.Context, key string, width float64) image.Image {
	if IsGradientKey(key) {
		img, err := c.raster.Rasterize(strings.TrimPrefix(key, GradientPrefix), width)
		if err != nil {
			c.log.Warn("渐变合成失败", "gradient", strings.TrimPrefix(key, GradientPrefix), "err", err)
			return nil
		}
		return img
	}
	img, err := c.loader.Load(ctx, key)
	if err != nil {
		c.log.Warn("图片加载失败", "src", key, "err", err)
		return nil
	}
	return img
}

func (c *Cache) store(key string, gen uint64, img image.Image) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || e.gen != gen || e.done {
		c.mu.Unlock()
		return
	}
	e.img, e.done = img, true
	listeners := append([]func(string){}, c.onUpdate...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(key)
	}
}
