package layout

import "go.uber.org/zap"

const (
	defaultLineGap      = 5.0
	defaultParagraphGap = 15.0
	defaultListGap      = 10.0
	defaultIndent       = 50.0
)

// Options 配置一次段落排版。
type Options struct {
	Width     float64 // 目标行宽，<=0 时每个记号单独成行
	LineGap   float64 // 行间固定间隙，0 表示默认值
	LinkColor *Color  // 链接文字颜色，nil 表示绿色
	Logger    *zap.Logger
}

func (o Options) lineGap() float64 {
	if o.LineGap > 0 {
		return o.LineGap
	}
	return defaultLineGap
}

func (o Options) linkColor() Color {
	if o.LinkColor != nil {
		return *o.LinkColor
	}
	return Green
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

// BuildOptions 配置文档级排版，例如可用宽度与块间距。
type BuildOptions struct {
	Width        float64
	LineGap      float64
	ParagraphGap float64
	ListGap      float64
	Indent       float64
	Gutter       float64 // 每一层右侧保留的空白，从可用宽度中扣除
	LinkColor    *Color
	Logger       *zap.Logger
	Debug        DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Tokens bool // 在调试 JSON 中输出每行的记号
}

func (o BuildOptions) paragraphGap() float64 {
	if o.ParagraphGap > 0 {
		return o.ParagraphGap
	}
	return defaultParagraphGap
}

func (o BuildOptions) listGap() float64 {
	if o.ListGap > 0 {
		return o.ListGap
	}
	return defaultListGap
}

func (o BuildOptions) indent() float64 {
	if o.Indent > 0 {
		return o.Indent
	}
	return defaultIndent
}

func (o BuildOptions) paragraph(width float64) Options {
	return Options{Width: width, LineGap: o.LineGap, LinkColor: o.LinkColor, Logger: o.Logger}
}

// Style 是可变的排版样式上下文：粗体、斜体、填充色，以及当前字体下的度量。
type Style interface {
	Bold() bool
	SetBold(bool)
	Italic() bool
	SetItalic(bool)
	FillColor() Color
	SetFillColor(Color)
	FontSize() float64
	InterTokenSpacing() float64
	Ascent() float64
	Descent() float64
	MeasureText(s string) float64
}

// Drawer 负责实际绘制。
type Drawer interface {
	DrawText(s string, x, y float64)
	StrokeHorizontalLine(x, y, length float64)
	DrawBullet(x, y float64)
}

// Canvas combines the style context with a drawing surface, the way a render
// pass sees it.
type Canvas interface {
	Style
	Drawer
}

// Element 是不透明的行内子元素（公式、图片、嵌套框等）。
// Prepare 与 Render 对 Style 的净影响必须为零。
type Element interface {
	Prepare(st Style)
	Metrics() ElementMetrics
	Render(c Canvas, x, y float64)
}

// Locator is implemented by elements that can resolve a point to something
// finer than themselves. originX/originY are the element's top-left corner
// in the caller's coordinates.
type Locator interface {
	Locate(x, y, originX, originY float64) (any, bool)
}
