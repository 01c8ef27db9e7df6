package layout

import "math"

// Point 是段落局部坐标系中的一个点。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// rectIndex 保存一次排版的矩形结果：direct 来自分块，merged 为复合节点按需合成并缓存。
type rectIndex struct {
	tree    *Tree
	direct  map[NodeID]*RectangleSet
	merged  map[NodeID]*RectangleSet
	origins map[NodeID]Point
}

// rectangles 在首次需要时由分块与行几何计算每个内容项的矩形。
func (p *Paragraph) rectangles() *rectIndex {
	if p.rects != nil {
		return p.rects
	}
	if !p.finalized {
		p.Finalize()
	}
	idx := &rectIndex{
		tree:    p.tree,
		direct:  map[NodeID]*RectangleSet{},
		merged:  map[NodeID]*RectangleSet{},
		origins: map[NodeID]Point{},
	}
	for _, ch := range p.chunks {
		set, ok := idx.direct[ch.Node]
		if !ok {
			set = newRectangleSet()
			idx.direct[ch.Node] = set
		}
		n := p.tree.Node(ch.Node)
		for l := ch.StartLine; l <= ch.EndLine; l++ {
			r := p.chunkRect(ch, n, l)
			if n.Kind == KindElement {
				idx.origins[ch.Node] = Point{X: r.X, Y: r.Y}
			}
			if cur, ok := set.At(l); ok {
				r = cur.Union(r)
			}
			set.Set(l, r)
		}
	}
	p.rects = idx
	return idx
}

func (p *Paragraph) chunkRect(ch Chunk, n *Node, l int) Rect {
	line := &p.lines[l]
	var x, right float64
	if l == ch.StartLine {
		x = math.Floor(line.Tokens[ch.StartToken].X)
	}
	if l == ch.EndLine {
		right = math.Floor(line.Tokens[ch.EndToken].X + ch.EndTokenWidth)
	} else {
		right = math.Floor(line.Width)
	}

	if n.Kind == KindElement {
		m := n.Element.Metrics()
		return Rect{X: x, Y: math.Floor(line.Baseline) - m.Baseline, Width: right - x, Height: m.Height}
	}
	return Rect{
		X:      x,
		Y:      math.Floor(line.Baseline - ch.FontSize/2),
		Width:  right - x,
		Height: math.Floor(ch.FontSize),
	}
}

// of 返回节点的矩形集合；没有直接矩形的复合节点由子节点逐行合并得到。
// 结果按 NodeID 缓存，重复调用不会重新计算。
func (idx *rectIndex) of(id NodeID) *RectangleSet {
	if s, ok := idx.direct[id]; ok {
		return s
	}
	if s, ok := idx.merged[id]; ok {
		return s
	}
	var acc *RectangleSet
	for _, c := range idx.tree.Node(id).Children {
		cs := idx.of(c)
		if cs.Len() == 0 {
			continue
		}
		if acc == nil {
			acc = cs.Clone()
			continue
		}
		acc.merge(cs)
	}
	idx.merged[id] = acc
	return acc
}

// Rectangles 返回节点在各行上的矩形（段落局部坐标）。
func (p *Paragraph) Rectangles(id NodeID) (*RectangleSet, bool) {
	s := p.rectangles().of(id)
	return s, s.Len() > 0
}

// ElementOrigin returns the top-left corner assigned to an element node.
func (p *Paragraph) ElementOrigin(id NodeID) (Point, bool) {
	o, ok := p.rectangles().origins[id]
	return o, ok
}
