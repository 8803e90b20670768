package studio

import (
	"sync"

	"github.com/ByLCY/designcanvas/design"
)

// Host 持有设计状态：元素列表、选中元素与评论。
type Host interface {
	Elements() design.List
	UpdateElements(fn func(design.List) design.List)
	Selected() (design.Element, bool)
	SetSelected(el *design.Element)
	AddComment(c design.Comment)
}

// Session 是内存中的 Host，供 CLI 与测试使用。
type Session struct {
	mu       sync.Mutex
	doc      design.Document
	selected *design.Element
	onChange []func()
}

// NewSession 以文档副本创建会话。
func NewSession(doc design.Document) *Session {
	doc.Elements = append(design.List(nil), doc.Elements...)
	doc.Comments = append([]design.Comment(nil), doc.Comments...)
	return &Session{doc: doc}
}

// OnChange 注册元素列表或评论变化时的回调。
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

func (s *Session) Elements() design.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Elements
}

func (s *Session) UpdateElements(fn func(design.List) design.List) {
	s.mu.Lock()
	s.doc.Elements = fn(s.doc.Elements)
	subs := append([]func(){}, s.onChange...)
	s.mu.Unlock()
	for _, f := range subs {
		f()
	}
}

func (s *Session) Selected() (design.Element, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return design.Element{}, false
	}
	return *s.selected, true
}

// SetSelected 保存选中元素的副本；nil 表示取消选中。
func (s *Session) SetSelected(el *design.Element) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el == nil {
		s.selected = nil
		return
	}
	cp := *el
	s.selected = &cp
}

func (s *Session) AddComment(c design.Comment) {
	s.mu.Lock()
	s.doc.Comments = append(s.doc.Comments, c)
	subs := append([]func(){}, s.onChange...)
	s.mu.Unlock()
	for _, f := range subs {
		f()
	}
}

// Comments 返回评论副本。
func (s *Session) Comments() []design.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]design.Comment(nil), s.doc.Comments...)
}

// Document 返回当前文档快照。
func (s *Session) Document() design.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.doc
	doc.Elements = append(design.List(nil), s.doc.Elements...)
	doc.Comments = append([]design.Comment(nil), s.doc.Comments...)
	return doc
}
