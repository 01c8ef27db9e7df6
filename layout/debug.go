package layout

import (
	"encoding/json"
	"os"
)

// Snapshot 是文档排版结果的调试视图，便于输出 JSON 检查折行与矩形。
type Snapshot struct {
	Width      float64             `json:"width"`
	Height     float64             `json:"height"`
	Root       *Block              `json:"root"`
	Paragraphs []ParagraphSnapshot `json:"paragraphs"`
}

// ParagraphSnapshot 记录单个段落的行、分块与各内容项的矩形。
type ParagraphSnapshot struct {
	Width      float64          `json:"width"`
	Height     float64          `json:"height"`
	Baseline   float64          `json:"baseline"`
	Lines      []Line           `json:"lines"`
	Chunks     []Chunk          `json:"chunks"`
	Rectangles []NodeRectangles `json:"rectangles"`
}

// NodeRectangles lists the per-line rectangles of one node.
type NodeRectangles struct {
	Node  NodeID `json:"node"`
	Kind  string `json:"kind"`
	Rects []Rect `json:"rects"`
}

// Snapshot 生成调试视图。opts.Tokens 为 false 时省略每行的记号。
func (d *Document) Snapshot(opts DebugOptions) Snapshot {
	out := Snapshot{Width: d.Width, Height: d.Height, Root: d.Root}
	for _, b := range d.Paragraphs() {
		out.Paragraphs = append(out.Paragraphs, b.Para.snapshot(opts))
	}
	return out
}

func (p *Paragraph) snapshot(opts DebugOptions) ParagraphSnapshot {
	ps := ParagraphSnapshot{Width: p.Width, Height: p.Height, Baseline: p.Baseline, Chunks: p.chunks}
	for _, ln := range p.lines {
		if !opts.Tokens {
			ln.Tokens = nil
		}
		ps.Lines = append(ps.Lines, ln)
	}
	for id := 0; id < p.tree.Len(); id++ {
		set, ok := p.Rectangles(NodeID(id))
		if !ok {
			continue
		}
		nr := NodeRectangles{Node: NodeID(id), Kind: p.tree.Node(NodeID(id)).Kind.String()}
		for _, l := range set.Lines() {
			r, _ := set.At(l)
			nr.Rects = append(nr.Rects, r)
		}
		ps.Rectangles = append(ps.Rectangles, nr)
	}
	return ps
}

// WriteDebugJSON 将排版快照输出为 JSON，便于调试或可视化。
func WriteDebugJSON(d *Document, opts DebugOptions, path string) error {
	if d == nil {
		return nil
	}
	data, err := json.MarshalIndent(d.Snapshot(opts), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
