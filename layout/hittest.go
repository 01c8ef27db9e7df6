package layout

// Hit 是命中测试的结果。Inner 为子元素 Locator 返回的更细粒度目标。
type Hit struct {
	Node  NodeID
	Inner any
}

// HitTest 返回包含点 (x, y) 的内容项；坐标为段落局部坐标。
// 没有任何子项命中时返回段落根节点本身。
func (p *Paragraph) HitTest(x, y float64) Hit {
	if h, ok := p.hitChildren(p.root, x, y); ok {
		return h
	}
	return Hit{Node: p.root}
}

func (p *Paragraph) hitChildren(parent NodeID, x, y float64) (Hit, bool) {
	idx := p.rectangles()
	for _, c := range p.tree.Node(parent).Children {
		if !idx.of(c).Contains(x, y) {
			continue
		}
		n := p.tree.Node(c)
		switch {
		case n.Kind.textLike():
		case n.Kind == KindElement:
			if loc, ok := n.Element.(Locator); ok {
				o := idx.origins[c]
				if inner, ok := loc.Locate(x, y, o.X, o.Y); ok {
					return Hit{Node: c, Inner: inner}, true
				}
			}
		case n.Kind.composite():
			if h, ok := p.hitChildren(c, x, y); ok {
				return h, true
			}
		}
		return Hit{Node: c}, true
	}
	return Hit{}, false
}
