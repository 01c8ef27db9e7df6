package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/svg"
	"go.uber.org/zap"

	"github.com/ByLCY/paraflow/fonts"
	"github.com/ByLCY/paraflow/layout"
	"github.com/ByLCY/paraflow/renderer"
)

const (
	FormatPDF = "pdf"
	FormatSVG = "svg"

	defaultFontSize = 11.0 // pt
	ruleWidth       = 0.2  // mm
)

// Renderer draws laid out documents via github.com/tdewolff/canvas.
type Renderer struct {
	opts Options
	log  *zap.Logger

	// injected font resources by variant name
	fontBlobs map[string][]byte
	fontPaths map[string]string

	fontMu sync.Mutex
	family *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ renderer.Measurer = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	BaseDir  string
	Fonts    map[string]Resource // overrides for regular/bold/italic/bolditalic
	FontSize float64             // pt
	Margin   float64             // mm
	Format   string              // pdf 或 svg
	Meta     Meta
	Logger   *zap.Logger
}

// Meta 是写入 PDF 的文档信息。
type Meta struct {
	Title    string
	Subject  string
	Author   string
	Creator  string
	Keywords []string
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a PDF renderer with the built-in fonts, resolving font paths against baseDir.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		opts:      opts,
		log:       opts.Logger,
		fontBlobs: map[string][]byte{},
		fontPaths: map[string]string{},
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	for name, res := range opts.Fonts {
		name = strings.ToLower(name)
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			r.fontPaths[name] = res.Path
		}
	}
	return r
}

// Measurer 返回一个不绘制的 Surface，供排版阶段测量文字。
func (r *Renderer) Measurer() (layout.Style, error) {
	return r.surface(nil)
}

// Render 按 Options.Format 把文档输出为 PDF 或 SVG，四周留出 Margin。
func (r *Renderer) Render(doc *layout.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("渲染文档为空")
	}
	format := r.format()
	if format != FormatPDF && format != FormatSVG {
		return nil, fmt.Errorf("不支持的输出格式 %q", r.opts.Format)
	}

	margin := math.Max(r.opts.Margin, 0)
	w := math.Max(doc.Width+2*margin, 1)
	h := math.Max(doc.Height+2*margin, 1)

	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与排版保持左上角为原点

	s, err := r.surface(ctx)
	if err != nil {
		return nil, err
	}
	doc.Render(s, margin, margin)

	var buf bytes.Buffer
	switch format {
	case FormatPDF:
		writer := pdf.New(&buf, w, h, nil)
		r.applyMeta(writer)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	case FormatSVG:
		writer := svg.New(&buf, w, h, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 SVG 失败: %w", err)
		}
	}
	r.log.Debug("document rendered",
		zap.String("format", format),
		zap.Float64("width", w),
		zap.Float64("height", h),
		zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

func (r *Renderer) format() string {
	if r.opts.Format == "" {
		return FormatPDF
	}
	return strings.ToLower(r.opts.Format)
}

func (r *Renderer) applyMeta(writer *pdf.PDF) {
	if writer == nil {
		return
	}
	meta := r.opts.Meta
	creator := meta.Creator
	if creator == "" {
		creator = "paraflow"
	}
	writer.SetInfo(meta.Title, meta.Subject, strings.Join(meta.Keywords, ", "), meta.Author, creator)
}

func (r *Renderer) surface(ctx *canvas.Context) (*Surface, error) {
	family, err := r.ensureFontFamily()
	if err != nil {
		return nil, err
	}
	size := r.opts.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	return newSurface(family, size, ctx), nil
}

func fontStyle(bold, italic bool) canvas.FontStyle {
	style := canvas.FontRegular
	if bold {
		style = canvas.FontBold
	}
	if italic {
		style |= canvas.FontItalic
	}
	return style
}

func (r *Renderer) ensureFontFamily() (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if r.family != nil {
		return r.family, nil
	}
	family := canvas.NewFontFamily("paraflow")
	for _, bold := range []bool{false, true} {
		for _, italic := range []bool{false, true} {
			name := fonts.Variant(bold, italic)
			data, err := r.loadFontBytes(name)
			if err != nil {
				return nil, err
			}
			if err := family.LoadFont(data, 0, fontStyle(bold, italic)); err != nil {
				return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
			}
		}
	}
	r.family = family
	return family, nil
}

func (r *Renderer) loadFontBytes(name string) ([]byte, error) {
	if blob, ok := r.fontBlobs[name]; ok {
		return blob, nil
	}
	path, ok := r.fontPaths[name]
	if !ok {
		return fonts.Load(name)
	}
	if strings.HasPrefix(path, "embed:") {
		return fonts.Load(path)
	}
	if r.opts.BaseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 embed:）", path)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.opts.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	return data, nil
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

var transparent = color.RGBA{0, 0, 0, 0}
