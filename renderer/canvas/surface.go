package canvasrenderer

import (
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/paraflow/layout"
)

// Surface 同时是排版用的样式上下文与绘制表面。
// 所有长度均为毫米；字号内部以 pt 创建字体面。ctx 为空时只测量、不绘制。
type Surface struct {
	family *canvas.FontFamily
	sizePt float64
	ctx    *canvas.Context

	bold   bool
	italic bool
	fill   layout.Color

	faces map[faceKey]*canvas.FontFace
}

var _ layout.Canvas = (*Surface)(nil)

type faceKey struct {
	bold, italic bool
	fill         layout.Color
}

func newSurface(family *canvas.FontFamily, sizePt float64, ctx *canvas.Context) *Surface {
	return &Surface{family: family, sizePt: sizePt, ctx: ctx, faces: map[faceKey]*canvas.FontFace{}}
}

func (s *Surface) face() *canvas.FontFace {
	key := faceKey{bold: s.bold, italic: s.italic, fill: s.fill}
	if f, ok := s.faces[key]; ok {
		return f
	}
	f := s.family.Face(s.sizePt, colorFromLayout(s.fill), fontStyle(s.bold, s.italic), canvas.FontNormal)
	s.faces[key] = f
	return f
}

func (s *Surface) Bold() bool                  { return s.bold }
func (s *Surface) SetBold(v bool)              { s.bold = v }
func (s *Surface) Italic() bool                { return s.italic }
func (s *Surface) SetItalic(v bool)            { s.italic = v }
func (s *Surface) FillColor() layout.Color     { return s.fill }
func (s *Surface) SetFillColor(c layout.Color) { s.fill = c }

// FontSize returns the font size in millimetres.
func (s *Surface) FontSize() float64 { return s.sizePt * layout.PtToMm }

// InterTokenSpacing 是当前字体下一个空格的宽度。
func (s *Surface) InterTokenSpacing() float64 { return s.face().TextWidth(" ") }

func (s *Surface) Ascent() float64  { return s.face().Metrics().Ascent }
func (s *Surface) Descent() float64 { return s.face().Metrics().Descent }

func (s *Surface) MeasureText(text string) float64 { return s.face().TextWidth(text) }

// DrawText 以 (x, y) 为基线起点绘制文字。
func (s *Surface) DrawText(text string, x, y float64) {
	if s.ctx == nil {
		return
	}
	s.ctx.DrawText(x, y, canvas.NewTextLine(s.face(), text, canvas.Left))
}

// StrokeHorizontalLine 用当前填充色描一条细横线。
func (s *Surface) StrokeHorizontalLine(x, y, length float64) {
	if s.ctx == nil || length <= 0 {
		return
	}
	s.ctx.SetFillColor(transparent)
	s.ctx.SetStrokeColor(colorFromLayout(s.fill))
	s.ctx.SetStrokeWidth(ruleWidth)
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(length, 0)
	s.ctx.DrawPath(x, y, p)
}

// DrawBullet 在 x 处、基线上方约三分之一上升高度的位置画一个实心圆点。
func (s *Surface) DrawBullet(x, y float64) {
	if s.ctx == nil {
		return
	}
	s.ctx.SetStrokeColor(transparent)
	s.ctx.SetFillColor(colorFromLayout(s.fill))
	s.ctx.DrawPath(x, y-s.Ascent()/3, canvas.Circle(s.FontSize()/6))
}
