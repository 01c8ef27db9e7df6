package layout

import (
	"math"
	"strings"

	"go.uber.org/zap"
)

// Paragraph 负责一个段落的排版：贪心折行、回溯两端对齐、格式标记与分块记录。
// 一个 Paragraph 只对应一次排版；宽度或内容变化时应重新构建。
type Paragraph struct {
	tree   *Tree
	root   NodeID
	style  Style
	opts   Options
	log    *zap.Logger
	format *FormatState

	lines   []Line
	chunks  []Chunk
	markers []*Marker

	current     int     // 当前行号
	lastSpacing float64 // 上一个记号要求的间距

	// Finalize 之后有效
	Width     float64
	Height    float64
	Baseline  float64
	CenterX   float64
	finalized bool

	rects *rectIndex
}

// NewParagraph 创建空段落。root 是段落根节点，其子节点由 Append 逐个摄入。
func NewParagraph(tree *Tree, root NodeID, st Style, opts Options) *Paragraph {
	return &Paragraph{
		tree:        tree,
		root:        root,
		style:       st,
		opts:        opts,
		log:         opts.logger(),
		format:      NewFormatState(st),
		lines:       []Line{{}},
		lastSpacing: st.InterTokenSpacing(),
	}
}

// Flow 摄入 root 的全部子节点并完成行度量计算。
func Flow(tree *Tree, root NodeID, st Style, opts Options) *Paragraph {
	p := NewParagraph(tree, root, st, opts)
	for _, child := range tree.Node(root).Children {
		p.Append(child)
	}
	p.Finalize()
	return p
}

// Append 按节点类型摄入一个内容项。
func (p *Paragraph) Append(id NodeID) {
	n := p.tree.Node(id)
	switch n.Kind {
	case KindText:
		p.appendWords(strings.Fields(n.Text), id)
	case KindLink:
		p.wrap(&Marker{Kind: SetColor, Color: p.opts.linkColor()}, func() {
			p.appendWords(strings.Fields(n.Text), id)
		})
	case KindBold:
		p.wrap(&Marker{Kind: ToggleBold}, func() { p.appendChildren(n.Children) })
	case KindItalic:
		p.wrap(&Marker{Kind: ToggleItalic}, func() { p.appendChildren(n.Children) })
	case KindColor:
		p.wrap(&Marker{Kind: SetColor, Color: n.Color}, func() { p.appendChildren(n.Children) })
	case KindParagraph:
		p.appendChildren(n.Children)
	case KindElement:
		p.prepareElement(id, n.Element)
		p.appendElement(id, n.Element)
	default:
		panic("layout: unhandled node kind " + n.Kind.String())
	}
}

func (p *Paragraph) appendChildren(children []NodeID) {
	for _, c := range children {
		p.Append(c)
	}
}

// wrap 在 body 前后插入一对应用/恢复标记，并在摄入期间真正应用格式，
// 以便 body 中的宽度测量反映该格式。
func (p *Paragraph) wrap(m *Marker, body func()) {
	idx := len(p.markers)
	p.markers = append(p.markers, m)
	p.pushMarker(TokenApply, idx)
	release := p.format.Scope(m)
	defer func() {
		p.pushMarker(TokenRestore, idx)
		release()
	}()
	body()
}

func (p *Paragraph) pushMarker(kind TokenKind, idx int) {
	line := &p.lines[p.current]
	line.Tokens = append(line.Tokens, Token{Kind: kind, Node: NoNode, Marker: idx, X: line.Width})
}

// prepareElement lets the element compute its metrics and undoes any style
// change it leaks.
func (p *Paragraph) prepareElement(id NodeID, el Element) {
	bold, italic, fill := p.style.Bold(), p.style.Italic(), p.style.FillColor()
	el.Prepare(p.style)
	if p.style.Bold() != bold || p.style.Italic() != italic || p.style.FillColor() != fill {
		p.log.Warn("element leaked style changes, restoring", zap.Int("node", int(id)))
		p.style.SetBold(bold)
		p.style.SetItalic(italic)
		p.style.SetFillColor(fill)
	}
}

// piece 是一次 appendPieces 调用中的单个记号来源：一个单词或一个子元素。
type piece struct {
	word    string
	element bool
	metrics ElementMetrics
}

func (p *Paragraph) appendWords(words []string, owner NodeID) {
	pieces := make([]piece, len(words))
	for i, w := range words {
		pieces[i] = piece{word: w}
	}
	p.appendPieces(pieces, owner)
}

func (p *Paragraph) appendElement(owner NodeID, el Element) {
	p.appendPieces([]piece{{element: true, metrics: el.Metrics()}}, owner)
}

// appendPieces 是贪心折行的核心。一行放不下下一个记号且已有两个以上记号时，
// 把剩余宽度回溯分配到该行的记号间隙中，然后另起一行。
func (p *Paragraph) appendPieces(pieces []piece, owner NodeID) {
	if len(pieces) == 0 {
		return
	}
	line := &p.lines[p.current]
	chunk := Chunk{Node: owner}
	var width float64

	for i, pc := range pieces {
		if pc.element {
			width = pc.metrics.Width
		} else {
			width = p.style.MeasureText(pc.word)
		}
		spacing := p.style.InterTokenSpacing()
		gap := math.Max(p.lastSpacing, spacing)

		if line.content > 0 && line.Width+gap+width > p.opts.Width {
			if line.content > 1 {
				p.justify(line)
			}
			p.lines = append(p.lines, Line{})
			p.current++
			line = &p.lines[p.current]
		}

		tok := Token{Kind: TokenContent, Node: owner, Word: pc.word, Width: width, Marker: -1}
		if line.content > 0 {
			line.Width += gap
			tok.X = line.Width
		}
		line.Tokens = append(line.Tokens, tok)
		line.Width += width
		line.content++
		p.lastSpacing = spacing

		if i == 0 {
			chunk.StartLine = p.current
			chunk.StartToken = len(line.Tokens) - 1
			chunk.FontSize = p.style.FontSize()
		}

		ascent, descent := p.style.Ascent(), p.style.Descent()
		if pc.element {
			ascent, descent = pc.metrics.Baseline, pc.metrics.Height-pc.metrics.Baseline
		}
		line.Ascent = math.Max(line.Ascent, ascent)
		line.Descent = math.Max(line.Descent, descent)
	}

	chunk.EndLine = p.current
	chunk.EndToken = len(line.Tokens) - 1
	chunk.EndTokenWidth = width
	p.chunks = append(p.chunks, chunk)
}

func (p *Paragraph) justify(line *Line) {
	extra := p.opts.Width - line.Width
	share := extra / float64(line.content-1)
	// markers do not take a share; they stay right after the content token
	// preceding them
	k := 0
	for i := range line.Tokens {
		if line.Tokens[i].Kind != TokenContent {
			if k > 1 {
				line.Tokens[i].X += float64(k-1) * share
			}
			continue
		}
		if k > 0 {
			line.Tokens[i].X += float64(k) * share
		}
		k++
	}
	line.Width = p.opts.Width
	p.log.Debug("line justified",
		zap.Int("line", p.current),
		zap.Int("tokens", line.content),
		zap.Float64("extra", extra))
}

// Finalize 计算各行的绝对基线以及段落整体的宽、高与基线。
func (p *Paragraph) Finalize() {
	gap := p.opts.lineGap()
	var width, height float64
	for l := range p.lines {
		line := &p.lines[l]
		width = math.Max(width, line.Width)
		if l > 0 {
			height += gap
		}
		height += line.Ascent
		line.Baseline = height
		height += line.Descent
	}
	if len(p.chunks) == 0 {
		p.lines[0].Baseline = p.style.Ascent()
	}

	p.Width = math.Round(width)
	p.Height = math.Round(height)
	p.Baseline = p.lines[0].Baseline
	p.CenterX = math.Round(width / 2)
	p.finalized = true
	p.rects = nil

	p.log.Debug("paragraph finalized",
		zap.Int("lines", len(p.lines)),
		zap.Int("chunks", len(p.chunks)),
		zap.Float64("width", p.Width),
		zap.Float64("height", p.Height))
}

// Render 重放记号流：依次应用/恢复格式标记，绘制单词并委托子元素绘制。
// (x, y) 是段落左上角在画布上的位置。
func (p *Paragraph) Render(c Canvas, x, y float64) {
	idx := p.rectangles()
	fs := NewFormatState(c)
	for l := range p.lines {
		line := &p.lines[l]
		for _, tok := range line.Tokens {
			switch tok.Kind {
			case TokenApply:
				fs.Apply(p.markers[tok.Marker])
			case TokenRestore:
				fs.Restore(p.markers[tok.Marker])
			case TokenContent:
				n := p.tree.Node(tok.Node)
				if n.Kind == KindElement {
					o := idx.origins[tok.Node]
					n.Element.Render(c, x+o.X, y+o.Y)
					continue
				}
				c.DrawText(tok.Word, x+tok.X, y+line.Baseline)
			}
		}
	}
}

// Lines returns the laid out lines.
func (p *Paragraph) Lines() []Line { return p.lines }

// Chunks returns the chunks in ingestion order.
func (p *Paragraph) Chunks() []Chunk { return p.chunks }

// Marker returns the marker referenced by an apply or restore token.
func (p *Paragraph) Marker(i int) Marker { return *p.markers[i] }

// Root returns the paragraph root node.
func (p *Paragraph) Root() NodeID { return p.root }

// Tree returns the content tree the paragraph was built from.
func (p *Paragraph) Tree() *Tree { return p.tree }
