package design

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ByLCY/designcanvas/geometry"
)

// Document 是 CLI 读取的设计文件。
type Document struct {
	Name     string    `json:"name,omitempty"`
	Platform string    `json:"platform,omitempty"`
	Elements List      `json:"elements"`
	Comments []Comment `json:"comments,omitempty"`
}

// Decode 读取并校验设计文件。
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("解析设计文件失败: %w", err)
	}
	for i := range doc.Elements {
		doc.Elements[i] = doc.Elements[i].Normalize()
	}
	if err := doc.Elements.Validate(); err != nil {
		return nil, err
	}
	for i := range doc.Comments {
		doc.Comments[i].normalize()
	}
	return &doc, nil
}

// Load 从路径读取设计文件。
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开设计文件失败: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// NewID 生成带前缀的唯一 id，ulid 保证同一毫秒内也不冲突。
func NewID(prefix string) string {
	id := strings.ToLower(ulid.Make().String())
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}

// NewElement 创建带缺省样式的新元素。
func NewElement(kind Kind) Element {
	return Element{ID: NewID(string(kind)), Kind: kind, Style: DefaultStyle(kind)}
}

// Author 是评论作者。
type Author struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Comment 是钉在画布百分比坐标上的批注。
type Comment struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	UserName   string         `json:"userName"`
	UserAvatar string         `json:"userAvatar,omitempty"`
	Content    string         `json:"content"`
	Position   geometry.Point `json:"position"`
	Timestamp  time.Time      `json:"timestamp"`
	Replies    []Comment      `json:"replies"`
	Resolved   bool           `json:"resolved"`
}

// normalize 让 replies 始终编码为数组。
func (c *Comment) normalize() {
	if c.Replies == nil {
		c.Replies = []Comment{}
	}
	for i := range c.Replies {
		c.Replies[i].normalize()
	}
}

// NewComment 构造一条未解决的评论，id 形如 comment-<ulid>。
func NewComment(author Author, content string, at geometry.Point, now time.Time) Comment {
	return Comment{
		ID:         NewID("comment"),
		UserID:     author.ID,
		UserName:   author.Name,
		UserAvatar: author.Avatar,
		Content:    content,
		Position:   at,
		Timestamp:  now,
		Replies:    []Comment{},
	}
}
