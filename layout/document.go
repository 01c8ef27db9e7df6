package layout

import (
	"fmt"
	"math"
)

// BlockKind 是块级结构的类型。
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockStack
	BlockList
	BlockCenter
	BlockRule
)

func (k BlockKind) String() string {
	switch k {
	case BlockParagraph:
		return "paragraph"
	case BlockStack:
		return "stack"
	case BlockList:
		return "list"
	case BlockCenter:
		return "center"
	case BlockRule:
		return "rule"
	default:
		return fmt.Sprintf("block(%d)", int(k))
	}
}

// Block 是文档中的块：段落、多段落、项目列表、居中或分隔线。
// X/Y 为相对父块的偏移，尺寸在 Compose 之后有效。
type Block struct {
	Kind     BlockKind `json:"kind"`
	Tree     *Tree     `json:"-"`
	Root     NodeID    `json:"-"`
	Children []*Block  `json:"children,omitempty"`

	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Baseline float64    `json:"baseline"`
	Level    int        `json:"level"`
	Para     *Paragraph `json:"-"`
}

// ParagraphBlock wraps a paragraph root of tree.
func ParagraphBlock(tree *Tree, root NodeID) *Block {
	return &Block{Kind: BlockParagraph, Tree: tree, Root: root}
}

// StackBlock 纵向排列多个块。
func StackBlock(children ...*Block) *Block { return &Block{Kind: BlockStack, Children: children} }

// ListBlock 是带项目符号的列表，每个子块为一项。
func ListBlock(items ...*Block) *Block { return &Block{Kind: BlockList, Children: items} }

// CenterBlock 把恰好一个子块水平居中。
func CenterBlock(child *Block) *Block { return &Block{Kind: BlockCenter, Children: []*Block{child}} }

// RuleBlock 是占满可用宽度的水平线。
func RuleBlock() *Block { return &Block{Kind: BlockRule} }

// Document 是排版完成的块树。
type Document struct {
	Root   *Block
	Width  float64
	Height float64
	opts   BuildOptions
}

// Compose 对块树排版。顶层多个块按多段落方式纵向排列。
func Compose(st Style, opts BuildOptions, blocks ...*Block) (*Document, error) {
	root := StackBlock(blocks...)
	if len(blocks) == 1 {
		root = blocks[0]
	}
	d := &Document{Root: root, opts: opts}
	if err := d.layout(root, st, 0); err != nil {
		return nil, err
	}
	d.Width, d.Height = root.Width, root.Height
	return d, nil
}

func (d *Document) available(level int) float64 {
	return d.opts.Width - float64(level)*d.opts.indent() - math.Max(d.opts.Gutter, 0)
}

func (d *Document) layout(b *Block, st Style, level int) error {
	b.Level = level
	switch b.Kind {
	case BlockParagraph:
		if b.Tree == nil {
			return fmt.Errorf("paragraph block without content: %w", ErrChildCount)
		}
		b.Para = Flow(b.Tree, b.Root, st, d.opts.paragraph(d.available(level)))
		b.Width, b.Height, b.Baseline = b.Para.Width, b.Para.Height, b.Para.Baseline

	case BlockStack, BlockList:
		gap, childLevel, x := d.opts.paragraphGap(), level, 0.0
		if b.Kind == BlockList {
			gap, childLevel, x = d.opts.listGap(), level+1, d.opts.indent()
		}
		var y, width float64
		for i, ch := range b.Children {
			if err := d.layout(ch, st, childLevel); err != nil {
				return err
			}
			if i == 0 {
				b.Baseline = ch.Baseline
			} else {
				y += gap
			}
			ch.X, ch.Y = x, y
			y += ch.Height
			width = math.Max(width, ch.Width)
		}
		b.Width, b.Height = width+x, y

	case BlockCenter:
		if len(b.Children) != 1 {
			return fmt.Errorf("center block has %d children: %w", len(b.Children), ErrChildCount)
		}
		ch := b.Children[0]
		if err := d.layout(ch, st, level); err != nil {
			return err
		}
		offset := math.Max(math.Round((d.available(level)-ch.Width)/2), 0)
		ch.X, ch.Y = offset, 0
		b.Width, b.Height, b.Baseline = offset+ch.Width, ch.Height, ch.Baseline

	case BlockRule:
		b.Width, b.Height, b.Baseline = math.Max(d.available(level), 0), 1, 0

	default:
		return fmt.Errorf("block %v: %w", b.Kind, ErrUnknownCommand)
	}
	return nil
}

// Render 在 (x, y) 处绘制整个文档。
func (d *Document) Render(c Canvas, x, y float64) {
	d.render(d.Root, c, x, y)
}

func (d *Document) render(b *Block, c Canvas, x, y float64) {
	switch b.Kind {
	case BlockParagraph:
		b.Para.Render(c, x, y)
	case BlockRule:
		c.StrokeHorizontalLine(x, y, b.Width)
	default:
		for _, ch := range b.Children {
			if b.Kind == BlockList {
				c.DrawBullet(x+ch.X-d.opts.indent()/2, y+ch.Y+ch.Baseline)
			}
			d.render(ch, c, x+ch.X, y+ch.Y)
		}
	}
}

// Bounds returns the block's rectangle in its parent's coordinates.
func (b *Block) Bounds() Rect {
	return Rect{Width: b.Width, Height: b.Height}.Translate(b.X, b.Y)
}

// DocumentHit 是文档级命中测试的结果。Hit 仅在 Block 为段落时有意义。
type DocumentHit struct {
	Block *Block
	Hit   Hit
}

// HitTest 以文档坐标定位最内层的块，段落块再转换为段落局部坐标继续定位内容项。
func (d *Document) HitTest(x, y float64) DocumentHit {
	return d.hit(d.Root, x, y)
}

func (d *Document) hit(b *Block, x, y float64) DocumentHit {
	if b.Kind == BlockParagraph {
		return DocumentHit{Block: b, Hit: b.Para.HitTest(x, y)}
	}
	for _, ch := range b.Children {
		if ch.Bounds().Contains(x, y) {
			return d.hit(ch, x-ch.X, y-ch.Y)
		}
	}
	return DocumentHit{Block: b, Hit: Hit{Node: NoNode}}
}

// Paragraphs returns every paragraph block in document order.
func (d *Document) Paragraphs() []*Block {
	var out []*Block
	var walk func(*Block)
	walk = func(b *Block) {
		if b.Kind == BlockParagraph {
			out = append(out, b)
		}
		for _, ch := range b.Children {
			walk(ch)
		}
	}
	walk(d.Root)
	return out
}
