package layout

import "unicode/utf8"

// stubStyle 是测试用的等宽样式：每个字符 10 个单位宽，粗体时 12。
// 间距 10，上升 8，下降 4，字号 12。
type stubStyle struct {
	bold, italic bool
	fill         Color
}

func newStubStyle() *stubStyle { return &stubStyle{} }

func (s *stubStyle) Bold() bool                 { return s.bold }
func (s *stubStyle) SetBold(v bool)             { s.bold = v }
func (s *stubStyle) Italic() bool               { return s.italic }
func (s *stubStyle) SetItalic(v bool)           { s.italic = v }
func (s *stubStyle) FillColor() Color           { return s.fill }
func (s *stubStyle) SetFillColor(c Color)       { s.fill = c }
func (s *stubStyle) FontSize() float64          { return 12 }
func (s *stubStyle) InterTokenSpacing() float64 { return 10 }
func (s *stubStyle) Ascent() float64            { return 8 }
func (s *stubStyle) Descent() float64           { return 4 }

func (s *stubStyle) MeasureText(text string) float64 {
	w := 10.0
	if s.bold {
		w = 12
	}
	return float64(utf8.RuneCountInString(text)) * w
}

type drawCall struct {
	op     string
	text   string
	x, y   float64
	length float64
	bold   bool
	italic bool
	fill   Color
}

// recorder 记录所有绘制调用以及调用时的样式状态。
type recorder struct {
	*stubStyle
	calls []drawCall
}

func newRecorder() *recorder { return &recorder{stubStyle: newStubStyle()} }

func (r *recorder) DrawText(s string, x, y float64) {
	r.calls = append(r.calls, drawCall{op: "text", text: s, x: x, y: y, bold: r.bold, italic: r.italic, fill: r.fill})
}

func (r *recorder) StrokeHorizontalLine(x, y, length float64) {
	r.calls = append(r.calls, drawCall{op: "line", x: x, y: y, length: length})
}

func (r *recorder) DrawBullet(x, y float64) {
	r.calls = append(r.calls, drawCall{op: "bullet", x: x, y: y})
}

func (r *recorder) texts() []drawCall {
	var out []drawCall
	for _, c := range r.calls {
		if c.op == "text" {
			out = append(out, c)
		}
	}
	return out
}

// contentTokens returns only the word and element tokens of a line.
func contentTokens(l Line) []Token {
	var out []Token
	for _, t := range l.Tokens {
		if t.Kind == TokenContent {
			out = append(out, t)
		}
	}
	return out
}
