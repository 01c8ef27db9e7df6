package canvasrenderer

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/ByLCY/paraflow/fonts"
	"github.com/ByLCY/paraflow/layout"
)

func measurer(t *testing.T, r *Renderer) *Surface {
	t.Helper()
	s, err := r.surface(nil)
	if err != nil {
		t.Fatalf("load fonts: %v", err)
	}
	return s
}

func TestSurfaceMetrics(t *testing.T) {
	s := measurer(t, NewRenderer("."))
	if math.Abs(s.FontSize()-11*layout.PtToMm) > 1e-9 {
		t.Fatalf("font size = %v mm", s.FontSize())
	}
	if s.Ascent() <= 0 || s.Descent() <= 0 || s.InterTokenSpacing() <= 0 {
		t.Fatalf("invalid metrics ascent=%v descent=%v spacing=%v", s.Ascent(), s.Descent(), s.InterTokenSpacing())
	}
	if s.MeasureText("") != 0 {
		t.Fatalf("empty text should have zero width")
	}
	if a, b := s.MeasureText("ab"), s.MeasureText("abab"); b <= a {
		t.Fatalf("longer text should be wider: %v vs %v", a, b)
	}
}

func TestSurfaceBoldMeasuresWider(t *testing.T) {
	s := measurer(t, NewRenderer("."))
	regular := s.MeasureText("Paragraph")
	s.SetBold(true)
	bold := s.MeasureText("Paragraph")
	s.SetBold(false)
	if bold <= regular {
		t.Fatalf("bold width %v should exceed regular %v", bold, regular)
	}
	if again := s.MeasureText("Paragraph"); again != regular {
		t.Fatalf("measurement should follow the current style, got %v want %v", again, regular)
	}
}

func TestSurfaceCachesFaces(t *testing.T) {
	s := measurer(t, NewRenderer("."))
	a := s.face()
	s.SetFillColor(layout.Blue)
	b := s.face()
	s.SetFillColor(layout.Black)
	if s.face() != a || a == b {
		t.Fatalf("faces should be cached per style")
	}
}

func TestCustomFontOverride(t *testing.T) {
	regular, err := fonts.Load(fonts.Regular)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	r := NewRendererWithOptions(Options{Fonts: map[string]Resource{"Bold": {Bytes: regular}}})
	s := measurer(t, r)
	plain := s.MeasureText("Paragraph")
	s.SetBold(true)
	if got := s.MeasureText("Paragraph"); got != plain {
		t.Fatalf("bold override with the regular cut should measure the same: %v vs %v", got, plain)
	}
}

func TestFontPathRequiresBaseDir(t *testing.T) {
	r := NewRendererWithOptions(Options{Fonts: map[string]Resource{"italic": {Path: "fonts/x.otf"}}})
	if _, err := r.Measurer(); err == nil || !strings.Contains(err.Error(), "fonts/x.otf") {
		t.Fatalf("expected a path error, got %v", err)
	}
}

func composeSample(t *testing.T, r *Renderer) *layout.Document {
	t.Helper()
	st, err := r.Measurer()
	if err != nil {
		t.Fatalf("measurer: %v", err)
	}
	tree := layout.NewTree()
	p := layout.ParagraphBlock(tree, tree.Paragraph(
		tree.Text("The quick brown fox"),
		tree.Bold(tree.Text("jumps over")),
		tree.Link("https://example.com", "the lazy dog"),
		tree.Embed(&layout.Box{Width: 10, Height: 6, Baseline: 5, Label: "x", Outline: true}),
	))
	list := layout.ListBlock(
		layout.ParagraphBlock(tree, tree.Paragraph(tree.Text("first"))),
		layout.ParagraphBlock(tree, tree.Paragraph(tree.Italic(tree.Text("second")))),
	)
	doc, err := layout.Compose(st, layout.BuildOptions{Width: 60}, p, layout.RuleBlock(), list)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	return doc
}

func TestFlowWithRealFontsJustifies(t *testing.T) {
	doc := composeSample(t, NewRenderer("."))
	para := doc.Paragraphs()[0].Para
	lines := para.Lines()
	if len(lines) < 2 {
		t.Fatalf("expected wrapping at 60mm, got %d lines", len(lines))
	}
	if math.Abs(lines[0].Width-60) > 1e-6 {
		t.Fatalf("first line width %v, want 60", lines[0].Width)
	}
}

func TestRenderPDF(t *testing.T) {
	r := NewRendererWithOptions(Options{Margin: 10, Meta: Meta{Title: "sample"}})
	out, err := r.Render(composeSample(t, r))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %q", out[:min(len(out), 16)])
	}
}

func TestRenderSVG(t *testing.T) {
	r := NewRendererWithOptions(Options{Format: "SVG"})
	out, err := r.Render(composeSample(t, r))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "<svg") {
		t.Fatalf("output is not SVG")
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	if _, err := NewRenderer(".").Render(nil); err == nil {
		t.Fatalf("nil document should fail")
	}
	r := NewRendererWithOptions(Options{Format: "png"})
	if _, err := r.Render(composeSample(t, r)); err == nil {
		t.Fatalf("unknown format should fail")
	}
}
