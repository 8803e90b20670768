package imagecache

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedSource 表示无法识别的图片来源（例如未知协议）。
var ErrUnsupportedSource = errors.New("imagecache: unsupported source")

// Loader 把来源字符串解码为图片。
type Loader interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

// LoaderFunc 适配普通函数。
type LoaderFunc func(ctx context.Context, src string) (image.Image, error)

func (f LoaderFunc) Load(ctx context.Context, src string) (image.Image, error) { return f(ctx, src) }

// SourceLoader 支持 http(s) 地址、data: URI 与本地文件路径。
type SourceLoader struct {
	Client  *http.Client
	BaseDir string // 相对路径的根目录
}

// NewSourceLoader 返回带超时的缺省加载器。
func NewSourceLoader(baseDir string) *SourceLoader {
	return &SourceLoader{Client: &http.Client{Timeout: 20 * time.Second}, BaseDir: baseDir}
}

func (l *SourceLoader) Load(ctx context.Context, src string) (image.Image, error) {
	switch {
	case strings.HasPrefix(src, "data:"):
		return decodeDataURI(src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return l.fetch(ctx, src)
	}
	if u, err := url.Parse(src); err == nil && u.Scheme != "" && u.Scheme != "file" && len(u.Scheme) > 1 {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, src)
	}
	path := strings.TrimPrefix(src, "file://")
	if l.BaseDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(l.BaseDir, path)
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", path, err)
	}
	return img, nil
}

func (l *SourceLoader) fetch(ctx context.Context, src string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("下载图片失败: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("下载图片失败: %s 返回 %d", src, resp.StatusCode)
	}
	img, err := imaging.Decode(resp.Body, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("解码图片失败: %w", err)
	}
	return img, nil
}

func decodeDataURI(src string) (image.Image, error) {
	comma := strings.IndexByte(src, ',')
	if comma < 0 {
		return nil, fmt.Errorf("%w: malformed data uri", ErrUnsupportedSource)
	}
	meta, payload := src[len("data:"):comma], src[comma+1:]
	var r io.Reader
	if strings.HasSuffix(meta, ";base64") {
		raw, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("解码 data uri 失败: %w", err)
		}
		r = bytes.NewReader(raw)
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("解码 data uri 失败: %w", err)
		}
		r = strings.NewReader(unescaped)
	}
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("解码 data uri 失败: %w", err)
	}
	return img, nil
}
