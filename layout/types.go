package layout

import (
	"math"
	"sort"
)

// 该文件定义段落排版使用的基本几何与记号类型，供排版、渲染、命中测试与调试 JSON 共用。

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

var (
	Black = Color{}
	Green = Color{G: 128}
	Blue  = Color{B: 255}
)

// Rect 是段落局部坐标系中的矩形（原点位于段落左上角）。
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether the point lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && y >= r.Y && x <= r.X+r.Width && y <= r.Y+r.Height
}

// Union 返回同时覆盖 r 与 o 的最小矩形。
func (r Rect) Union(o Rect) Rect {
	maxX := math.Max(r.X+r.Width, o.X+o.Width)
	maxY := math.Max(r.Y+r.Height, o.Y+o.Height)
	x := math.Min(r.X, o.X)
	y := math.Min(r.Y, o.Y)
	return Rect{X: x, Y: y, Width: maxX - x, Height: maxY - y}
}

// Translate moves the rectangle by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// RectangleSet 按行号记录一个内容项在每一行上占据的矩形。
type RectangleSet struct {
	MinLine int
	MaxLine int
	rects   map[int]Rect
}

func newRectangleSet() *RectangleSet {
	return &RectangleSet{MinLine: math.MaxInt, MaxLine: math.MinInt, rects: map[int]Rect{}}
}

// Set 写入某一行的矩形，并扩展行号范围。
func (s *RectangleSet) Set(line int, r Rect) {
	s.rects[line] = r
	if line < s.MinLine {
		s.MinLine = line
	}
	if line > s.MaxLine {
		s.MaxLine = line
	}
}

// At returns the rectangle on the given line.
func (s *RectangleSet) At(line int) (Rect, bool) {
	if s == nil {
		return Rect{}, false
	}
	r, ok := s.rects[line]
	return r, ok
}

// Len 返回包含矩形的行数。
func (s *RectangleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rects)
}

// Lines returns the covered line numbers in ascending order.
func (s *RectangleSet) Lines() []int {
	if s == nil {
		return nil
	}
	out := make([]int, 0, len(s.rects))
	for l := range s.rects {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}

// Contains 判断点是否落在任意一行的矩形内。
func (s *RectangleSet) Contains(x, y float64) bool {
	if s == nil {
		return false
	}
	for l := s.MinLine; l <= s.MaxLine; l++ {
		if r, ok := s.rects[l]; ok && r.Contains(x, y) {
			return true
		}
	}
	return false
}

// Clone 深拷贝矩形集合。
func (s *RectangleSet) Clone() *RectangleSet {
	out := newRectangleSet()
	if s == nil {
		return out
	}
	for l, r := range s.rects {
		out.Set(l, r)
	}
	return out
}

// merge 将 o 按行合并进 s：仅一方存在的行直接复制，双方都有的行取并集。
func (s *RectangleSet) merge(o *RectangleSet) {
	for l, r := range o.rects {
		if cur, ok := s.rects[l]; ok {
			s.rects[l] = cur.Union(r)
			continue
		}
		s.Set(l, r)
	}
}

// TokenKind 区分内容记号与格式记号。
type TokenKind int

const (
	TokenContent TokenKind = iota
	TokenApply
	TokenRestore
)

func (k TokenKind) String() string {
	switch k {
	case TokenContent:
		return "content"
	case TokenApply:
		return "apply"
	case TokenRestore:
		return "restore"
	default:
		return "unknown"
	}
}

// Token 是行内的一个记号：单词、子元素，或格式的应用/恢复标记。
type Token struct {
	Kind   TokenKind `json:"kind"`
	Node   NodeID    `json:"node"`
	Word   string    `json:"word,omitempty"`
	X      float64   `json:"x"`
	Width  float64   `json:"width"`
	Marker int       `json:"marker"` // 仅对 TokenApply/TokenRestore 有效，指向 Paragraph.markers
}

// Line 记录一行的记号与几何信息。Ascent 为行顶到基线的距离，Descent 为基线以下的延伸。
type Line struct {
	Tokens   []Token `json:"tokens"`
	Width    float64 `json:"width"`
	Ascent   float64 `json:"ascent"`
	Descent  float64 `json:"descent"`
	Baseline float64 `json:"baseline"` // Finalize 之后为段落内的绝对基线
	content  int
}

// Chunk 记录某个内容项占据的记号区间 [StartLine,StartToken]..[EndLine,EndToken]。
type Chunk struct {
	Node          NodeID  `json:"node"`
	StartLine     int     `json:"startLine"`
	StartToken    int     `json:"startToken"`
	EndLine       int     `json:"endLine"`
	EndToken      int     `json:"endToken"`
	EndTokenWidth float64 `json:"endTokenWidth"`
	FontSize      float64 `json:"fontSize"`
}

// Lines returns the number of lines the chunk touches.
func (c Chunk) Lines() int { return c.EndLine - c.StartLine + 1 }

// ElementMetrics 描述子元素在 Prepare 之后的尺寸。Baseline 为顶部到自身基线的距离。
type ElementMetrics struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Baseline float64 `json:"baseline"`
}
