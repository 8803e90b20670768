package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ByLCY/designcanvas/binding"
	"github.com/ByLCY/designcanvas/design"
	"github.com/ByLCY/designcanvas/geometry"
	"github.com/ByLCY/designcanvas/imagecache"
	"github.com/ByLCY/designcanvas/logging"
	canvasrenderer "github.com/ByLCY/designcanvas/renderer/canvas"
	"github.com/ByLCY/designcanvas/stage"
	"github.com/ByLCY/designcanvas/studio"
)

// options 汇总命令行参数。
type options struct {
	input    string
	output   string
	pdf      string
	debug    string
	platform string
	width    float64
	scale    float64
	data     any

	author      string
	comment     *commentFlag
	commentsOut string
}

// commentFlag 是 -comment 指定的批注：位置为舞台百分比坐标。
type commentFlag struct {
	at   geometry.Point
	text string
}

// parseCommentFlag 解析 "x,y:内容" 形式的批注参数。
func parseCommentFlag(v string) (*commentFlag, error) {
	pos, text, ok := strings.Cut(v, ":")
	if !ok {
		return nil, fmt.Errorf("批注格式应为 x,y:内容，得到 %q", v)
	}
	xs, ys, ok := strings.Cut(pos, ",")
	if !ok {
		return nil, fmt.Errorf("批注位置应为 x,y，得到 %q", pos)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return nil, fmt.Errorf("批注横坐标无效: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return nil, fmt.Errorf("批注纵坐标无效: %w", err)
	}
	return &commentFlag{
		at:   geometry.Point{X: geometry.ClampPercent(x), Y: geometry.ClampPercent(y)},
		text: strings.TrimSpace(text),
	}, nil
}

func main() {
	input := flag.String("in", "examples/demo.json", "设计 JSON 文件路径")
	output := flag.String("out", "output/demo.png", "PNG 快照输出路径")
	pdfPath := flag.String("pdf", "", "可选的 PDF 输出路径")
	debug := flag.String("debug", "", "场景调试 JSON 输出路径")
	platform := flag.String("platform", "", "输出平台，例如 instagram-post（缺省取设计文件中的 platform）")
	platforms := flag.String("platforms", "", "自定义平台目录 YAML 文件")
	width := flag.Float64("width", stage.DefaultWidth, "容器宽度（像素）")
	scale := flag.Float64("scale", 1, "快照缩放倍数")
	dataJSON := flag.String("data", "", "绑定到 ${...} 占位符的 JSON 数据")
	watch := flag.Bool("watch", false, "设计文件变化时重新生成")
	verbose := flag.Bool("v", false, "输出调试日志")
	listPlatforms := flag.Bool("list-platforms", false, "列出可用平台后退出")
	author := flag.String("author", "", "批注作者名")
	comment := flag.String("comment", "", "在 x,y（百分比）处放置批注，格式 x,y:内容")
	commentsOut := flag.String("comments-out", "", "批注变化时写出全部批注的 JSON 路径")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(os.Stderr, level)

	catalog := stage.BuiltinCatalog()
	if *platforms != "" {
		c, err := stage.LoadCatalog(*platforms)
		if err != nil {
			log.Fatalf("读取平台目录失败: %v", err)
		}
		catalog = c
	}
	if *listPlatforms {
		for _, id := range catalog.IDs() {
			fmt.Println(id)
		}
		return
	}

	opts := options{
		input:    *input,
		output:   *output,
		pdf:      *pdfPath,
		debug:    *debug,
		platform: *platform,
		width:    *width,
		scale:    *scale,

		author:      *author,
		commentsOut: *commentsOut,
	}
	if *comment != "" {
		c, err := parseCommentFlag(*comment)
		if err != nil {
			log.Fatalf("解析批注参数失败: %v", err)
		}
		opts.comment = c
	}
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &opts.data); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	if err := run(context.Background(), opts, catalog, logger); err != nil {
		log.Fatalf("生成快照失败: %v", err)
	}
	fmt.Printf("已生成快照：%s\n", opts.output)

	if !*watch {
		return
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	w, err := newFileWatcher(opts.input, defaultWatchDebounce, func() error {
		if err := run(ctx, opts, catalog, logger); err != nil {
			return err
		}
		logger.Info("已重新生成", "out", opts.output)
		return nil
	}, func(err error) {
		logger.Error("重新生成失败", "err", err)
	})
	if err != nil {
		log.Fatalf("监听设计文件失败: %v", err)
	}
	w.Start()
	logger.Info("正在监听设计文件", "path", opts.input)
	<-ctx.Done()
	w.Stop()
}

// run 串联读取、绑定、加载资源与输出。
func run(ctx context.Context, opts options, catalog *stage.Catalog, logger logging.Logger) error {
	doc, err := design.Load(opts.input)
	if err != nil {
		return err
	}
	if opts.data != nil {
		doc.Elements = binding.Bind(doc.Elements, opts.data)
	}

	platformID := opts.platform
	if platformID == "" {
		platformID = doc.Platform
	}
	var platform *stage.Platform
	if platformID != "" {
		p, ok := catalog.Lookup(platformID)
		if !ok {
			return fmt.Errorf("未知平台 %q（可用：%s）", platformID, strings.Join(catalog.IDs(), ", "))
		}
		platform = p
	}

	baseDir := filepath.Dir(opts.input)
	width := opts.width
	sizer := stage.NewSizer(func() (float64, bool) { return width, true }, stage.Options{Logger: logger})
	session := studio.NewSession(*doc)
	if opts.commentsOut != "" {
		session.OnChange(func() {
			if err := writeJSON(opts.commentsOut, session.Comments()); err != nil {
				logger.Warn("写出批注失败", "err", err)
			}
		})
	}
	studioOpts := []studio.Option{
		studio.WithLogger(logger),
		studio.WithSizer(sizer),
		studio.WithLoader(imagecache.NewSourceLoader(baseDir)),
		studio.WithTypesetter(canvasrenderer.NewTypesetter(baseDir)),
		studio.WithSnapshotScale(opts.scale),
	}
	if opts.author != "" {
		studioOpts = append(studioOpts, studio.WithAuthor(design.Author{ID: "cli", Name: opts.author}))
	}
	canvas := studio.New(session, studioOpts...)
	defer canvas.Close()

	size := canvas.SetPlatform(platform)
	logger.Debug("舞台尺寸", "width", size.Width, "height", size.Height, "platform", platformID)

	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := canvas.Preload(loadCtx); err != nil {
		logger.Warn("部分资源加载失败", "err", err)
	}

	if opts.comment != nil {
		if err := placeComment(canvas, *opts.comment); err != nil {
			return err
		}
	}

	if opts.debug != "" {
		if err := writeScene(canvas, opts.debug); err != nil {
			return err
		}
	}

	png := canvas.Snapshot()
	if png == nil {
		return fmt.Errorf("渲染快照失败")
	}
	if err := writeFile(opts.output, png); err != nil {
		return err
	}

	if opts.pdf != "" {
		data, err := canvas.ExportPDF(canvasrenderer.Meta{Title: doc.Name, Creator: "designcanvas"})
		if err != nil {
			return fmt.Errorf("渲染 PDF 失败: %w", err)
		}
		if err := writeFile(opts.pdf, data); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入文件 %s 失败: %w", path, err)
	}
	return nil
}

// placeComment 按交互流程放置批注：进入评论模式、输入内容、在目标位置点击。
func placeComment(c *studio.Canvas, cf commentFlag) error {
	c.BeginComment("")
	c.SetCommentText(cf.text)
	size := c.Size()
	pt := geometry.Point{X: cf.at.X / 100 * size.Width, Y: cf.at.Y / 100 * size.Height}
	if err := c.Click(pt); err != nil {
		return fmt.Errorf("放置批注失败: %w", err)
	}
	if _, pending := c.PendingComment(); pending {
		c.CancelComment()
		return fmt.Errorf("批注内容为空")
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("编码 JSON 失败: %w", err)
	}
	return writeFile(path, data)
}

func writeScene(c *studio.Canvas, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建调试文件失败: %w", err)
	}
	defer f.Close()
	if err := c.WriteScene(f); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
