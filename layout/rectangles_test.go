package layout

import "testing"

func TestRectanglesForTextChunk(t *testing.T) {
	p, _, ids := flowText(t, 50, "aa bb cc dd ee")
	set, ok := p.Rectangles(ids[0])
	if !ok || set.Len() != 3 {
		t.Fatalf("expected rectangles on 3 lines, got %v", set.Lines())
	}
	want := map[int]Rect{
		0: {X: 0, Y: 2, Width: 50, Height: 12},
		1: {X: 0, Y: 19, Width: 50, Height: 12},
		2: {X: 0, Y: 36, Width: 20, Height: 12},
	}
	for l, w := range want {
		got, ok := set.At(l)
		if !ok || got != w {
			t.Fatalf("line %d rect = %+v, want %+v", l, got, w)
		}
	}
	if set.MinLine != 0 || set.MaxLine != 2 {
		t.Fatalf("line range %d..%d", set.MinLine, set.MaxLine)
	}
}

func TestRectanglesChunkStartsMidLine(t *testing.T) {
	p, _, ids := flowText(t, 1000, "aa", "bb")
	got, ok := p.Rectangles(ids[1])
	if !ok {
		t.Fatalf("missing rectangles")
	}
	r, _ := got.At(0)
	if r.X != 30 || r.Width != 20 {
		t.Fatalf("rect = %+v", r)
	}
}

func TestRectanglesCompositeUnion(t *testing.T) {
	tree := NewTree()
	text := tree.Text("aa")
	box := tree.Embed(&Box{Width: 30, Height: 20, Baseline: 15})
	bold := tree.Bold(text, box)
	p := Flow(tree, tree.Paragraph(bold), newStubStyle(), Options{Width: 1000})

	tr, _ := p.Rectangles(text)
	if r, _ := tr.At(0); r != (Rect{X: 0, Y: 9, Width: 24, Height: 12}) {
		t.Fatalf("text rect = %+v", r)
	}
	br, _ := p.Rectangles(box)
	if r, _ := br.At(0); r != (Rect{X: 34, Y: 0, Width: 30, Height: 20}) {
		t.Fatalf("box rect = %+v", r)
	}
	set, ok := p.Rectangles(bold)
	if !ok {
		t.Fatalf("composite should have rectangles")
	}
	if r, _ := set.At(0); r != (Rect{X: 0, Y: 0, Width: 64, Height: 21}) {
		t.Fatalf("union rect = %+v", r)
	}
	again, _ := p.Rectangles(bold)
	if again != set {
		t.Fatalf("composite rectangles should be computed once")
	}
	if o, ok := p.ElementOrigin(box); !ok || o != (Point{X: 34, Y: 0}) {
		t.Fatalf("element origin = %+v", o)
	}
}

func TestRectanglesCompositeAcrossLines(t *testing.T) {
	tree := NewTree()
	first := tree.Text("aa bb")
	second := tree.Text("cc")
	bold := tree.Bold(first, second)
	p := Flow(tree, tree.Paragraph(bold), newStubStyle(), Options{Width: 50})

	set, _ := p.Rectangles(bold)
	if set.Len() != 3 || set.MinLine != 0 || set.MaxLine != 2 {
		t.Fatalf("merged lines = %v", set.Lines())
	}
	cs, _ := p.Rectangles(second)
	want, _ := cs.At(2)
	if got, _ := set.At(2); got != want {
		t.Fatalf("line 2 = %+v, want %+v", got, want)
	}
	fs, _ := p.Rectangles(first)
	if fs.Len() != 2 {
		t.Fatalf("child rectangles must not be modified by the merge, got %v", fs.Lines())
	}
}

func TestRectanglesEmptyWrapper(t *testing.T) {
	tree := NewTree()
	empty := tree.Bold()
	p := Flow(tree, tree.Paragraph(tree.Text("aa"), empty), newStubStyle(), Options{Width: 100})
	if _, ok := p.Rectangles(empty); ok {
		t.Fatalf("an item without tokens has no rectangles")
	}
}

func TestRectanglesBeforeFinalize(t *testing.T) {
	tree := NewTree()
	text := tree.Text("aa")
	root := tree.Paragraph(text)
	p := NewParagraph(tree, root, newStubStyle(), Options{Width: 100})
	p.Append(text)
	if _, ok := p.Rectangles(text); !ok {
		t.Fatalf("rectangles should finalize on first use")
	}
	if p.Height != 12 {
		t.Fatalf("paragraph not finalized, height=%v", p.Height)
	}
}
