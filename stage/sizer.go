// Package stage 根据宿主容器宽度与输出平台计算舞台像素尺寸，并在尺寸变化时通知订阅者。
package stage

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/ByLCY/designcanvas/geometry"
	"github.com/ByLCY/designcanvas/logging"
)

// 舞台尺寸约束。
const (
	MinWidth      = 300.0
	DefaultWidth  = 800.0
	DefaultHeight = 450.0
)

// ErrNotMeasured 表示容器当前无法测量（未提供测量函数或容器尚未挂载）。
var ErrNotMeasured = errors.New("stage: container width not measurable")

// Measure 返回宿主容器当前宽度（像素）；ok 为 false 表示容器未挂载。
type Measure func() (width float64, ok bool)

// Options 控制尺寸计算。
type Options struct {
	// FixedHeight 大于 0 时高度固定为该值，不随宽高比变化。
	FixedHeight float64
	Logger      logging.Logger
}

// Compute 计算舞台尺寸：宽度向下取整并至少为 300，高度为 round(width/aspect)，
// 或在 fixedHeight > 0 时直接使用 fixedHeight。
func Compute(containerWidth float64, aspect float64, fixedHeight float64) geometry.Size {
	w := math.Floor(containerWidth)
	if math.IsNaN(w) || w < MinWidth {
		w = MinWidth
	}
	if fixedHeight > 0 {
		return geometry.Size{Width: w, Height: fixedHeight}
	}
	if aspect <= 0 || math.IsNaN(aspect) || math.IsInf(aspect, 0) {
		aspect = DefaultAspect
	}
	return geometry.Size{Width: w, Height: math.Round(w / aspect)}
}

// Sizer 持有当前舞台尺寸。Close 之后不再响应任何尺寸变化。
type Sizer struct {
	mu       sync.Mutex
	size     geometry.Size
	platform *Platform
	measure  Measure
	opts     Options
	log      logging.Logger
	subs     map[int]func(geometry.Size)
	nextID   int
	closed   bool
}

// NewSizer 创建 Sizer，首次测量前尺寸为 800×450。
func NewSizer(measure Measure, opts Options) *Sizer {
	return &Sizer{
		size:    geometry.Size{Width: DefaultWidth, Height: DefaultHeight},
		measure: measure,
		opts:    opts,
		log:     logging.OrNop(opts.Logger),
		subs:    make(map[int]func(geometry.Size)),
	}
}

// Size 返回当前舞台尺寸。
func (s *Sizer) Size() geometry.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Platform 返回当前平台，可能为 nil。
func (s *Sizer) Platform() *Platform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.platform
}

// SetPlatform 切换输出平台并重新测量。
func (s *Sizer) SetPlatform(p *Platform) (geometry.Size, error) {
	s.mu.Lock()
	s.platform = p
	s.mu.Unlock()
	return s.Resize()
}

// Resize 测量容器并发布新尺寸；尺寸未变化时不通知订阅者。
// 测量失败时保留原尺寸并返回 ErrNotMeasured。
func (s *Sizer) Resize() (geometry.Size, error) {
	s.mu.Lock()
	if s.closed {
		size := s.size
		s.mu.Unlock()
		return size, nil
	}
	if s.measure == nil {
		size := s.size
		s.mu.Unlock()
		return size, ErrNotMeasured
	}
	measure, platform := s.measure, s.platform
	s.mu.Unlock()

	width, ok := measure()
	if !ok || math.IsNaN(width) || width <= 0 {
		return s.Size(), ErrNotMeasured
	}
	next := Compute(width, platform.Aspect(), s.opts.FixedHeight)

	s.mu.Lock()
	if s.closed || next == s.size {
		size := s.size
		s.mu.Unlock()
		return size, nil
	}
	s.size = next
	subs := make([]func(geometry.Size), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	s.log.Debug("舞台尺寸更新", "width", next.Width, "height", next.Height)
	for _, fn := range subs {
		fn(next)
	}
	return next, nil
}

// Subscribe 注册尺寸变化回调，返回取消函数。
func (s *Sizer) Subscribe(fn func(geometry.Size)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Run 在每次收到 resize 事件时重新测量，直到 ctx 结束、通道关闭或 Sizer 关闭。
func (s *Sizer) Run(ctx context.Context, resizes <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-resizes:
			if !ok {
				return
			}
			if _, err := s.Resize(); err != nil {
				s.log.Warn("舞台测量失败", "err", err)
			}
			if s.isClosed() {
				return
			}
		}
	}
}

// Close 停止响应尺寸变化并移除全部订阅。
func (s *Sizer) Close() {
	s.mu.Lock()
	s.closed = true
	s.subs = make(map[int]func(geometry.Size))
	s.mu.Unlock()
}

func (s *Sizer) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
