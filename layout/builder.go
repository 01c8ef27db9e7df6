package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/paraflow/binding"
	"github.com/ByLCY/paraflow/dsl"
)

// Build 根据标记文档构建内容树与块树，并以 st 完成排版。
func Build(doc *dsl.Document, data any, st Style, opts BuildOptions) (*Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if st == nil {
		return nil, fmt.Errorf("layout: 缺少样式上下文 Style")
	}
	b := &builder{tree: NewTree(), data: data}
	blocks, err := b.blocks(doc.Statements)
	if err != nil {
		return nil, err
	}
	return Compose(st, opts, blocks...)
}

type builder struct {
	tree *Tree
	data any
}

func (b *builder) text(s dsl.StringLiteral) string {
	return binding.Interpolate(string(s), b.data)
}

func (b *builder) blocks(stmts []*dsl.Statement) ([]*Block, error) {
	out := make([]*Block, 0, len(stmts))
	for _, st := range stmts {
		blk, err := b.block(st)
		if err != nil {
			return nil, err
		}
		out = append(out, blk)
	}
	return out, nil
}

func (b *builder) block(st *dsl.Statement) (*Block, error) {
	if st.Text != nil {
		// 顶层裸文本视为单独的段落
		root := b.tree.Paragraph(b.tree.Text(b.text(st.Text.Value)))
		return ParagraphBlock(b.tree, root), nil
	}
	cmd := st.Command
	switch cmd.Name {
	case "paragraph", "p":
		children, err := b.inlineBody(cmd)
		if err != nil {
			return nil, err
		}
		return ParagraphBlock(b.tree, b.tree.Paragraph(children...)), nil

	case "stack", "list":
		if cmd.Block == nil {
			return nil, cmdError(cmd, "缺少内容块", ErrChildCount)
		}
		children, err := b.blocks(cmd.Block.Statements)
		if err != nil {
			return nil, err
		}
		if cmd.Name == "list" {
			return ListBlock(children...), nil
		}
		return StackBlock(children...), nil

	case "center":
		if cmd.Block == nil || len(cmd.Block.Statements) != 1 {
			return nil, cmdError(cmd, "需要恰好一个子块", ErrChildCount)
		}
		child, err := b.block(cmd.Block.Statements[0])
		if err != nil {
			return nil, err
		}
		return CenterBlock(child), nil

	case "rule", "hr":
		if cmd.Block != nil || len(cmd.Args) > 0 {
			return nil, cmdError(cmd, "不接受参数", ErrBadArgument)
		}
		return RuleBlock(), nil
	}
	return nil, cmdError(cmd, "不是块级命令", ErrUnknownCommand)
}

func (b *builder) inlineBody(cmd *dsl.Command) ([]NodeID, error) {
	if cmd.Block == nil {
		return nil, cmdError(cmd, "缺少内容块", ErrChildCount)
	}
	out := make([]NodeID, 0, len(cmd.Block.Statements))
	for _, st := range cmd.Block.Statements {
		id, err := b.inline(st)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (b *builder) inline(st *dsl.Statement) (NodeID, error) {
	if st.Text != nil {
		return b.tree.Text(b.text(st.Text.Value)), nil
	}
	cmd := st.Command
	switch cmd.Name {
	case "bold", "b", "italic", "i":
		children, err := b.inlineBody(cmd)
		if err != nil {
			return NoNode, err
		}
		if len(children) == 0 {
			return NoNode, cmdError(cmd, "至少需要一个子项", ErrChildCount)
		}
		if strings.HasPrefix(cmd.Name, "b") {
			return b.tree.Bold(children...), nil
		}
		return b.tree.Italic(children...), nil

	case "color":
		if len(cmd.Args) != 1 || cmd.Args[0].Color == nil {
			return NoNode, cmdError(cmd, "需要一个 #RRGGBB 颜色参数", ErrBadArgument)
		}
		c, err := ParseColor(*cmd.Args[0].Color)
		if err != nil {
			return NoNode, cmdError(cmd, err.Error(), ErrBadArgument)
		}
		children, err := b.inlineBody(cmd)
		if err != nil {
			return NoNode, err
		}
		if len(children) == 0 {
			return NoNode, cmdError(cmd, "至少需要一个子项", ErrChildCount)
		}
		return b.tree.Colored(c, children...), nil

	case "link", "a":
		if cmd.Block != nil || len(cmd.Args) < 1 || len(cmd.Args) > 2 {
			return NoNode, cmdError(cmd, `用法: link "url" ["描述"]`, ErrBadArgument)
		}
		strs := make([]string, 0, 2)
		for _, a := range cmd.Args {
			if a.String == nil {
				return NoNode, cmdError(cmd, "参数必须是字符串", ErrBadArgument)
			}
			strs = append(strs, b.text(*a.String))
		}
		desc := strs[0]
		if len(strs) == 2 {
			desc = strs[1]
		}
		return b.tree.Link(strs[0], desc), nil

	case "box":
		return b.box(cmd)
	}
	return NoNode, cmdError(cmd, "不是行内命令", ErrUnknownCommand)
}

// box 解析 `box 宽 高 [基线] ["标签"] [outline]`，基线缺省为高度。
func (b *builder) box(cmd *dsl.Command) (NodeID, error) {
	var nums []float64
	box := &Box{}
	for _, a := range cmd.Args {
		switch {
		case a.Number != nil:
			nums = append(nums, *a.Number)
		case a.String != nil:
			box.Label = b.text(*a.String)
		case a.Ident != nil && *a.Ident == "outline":
			box.Outline = true
		default:
			return NoNode, cmdError(cmd, "无法识别参数 "+a.Literal(), ErrBadArgument)
		}
	}
	if len(nums) < 2 || len(nums) > 3 {
		return NoNode, cmdError(cmd, "需要宽、高以及可选的基线", ErrBadArgument)
	}
	box.Width, box.Height, box.Baseline = nums[0], nums[1], nums[1]
	if len(nums) == 3 {
		box.Baseline = nums[2]
	}
	if box.Width < 0 || box.Height < 0 || box.Baseline < 0 || box.Baseline > box.Height {
		return NoNode, cmdError(cmd, "尺寸必须非负且基线不超过高度", ErrBadArgument)
	}
	return b.tree.Embed(box), nil
}

// ParseColor 解析 #RGB、#RRGGBB 或 #RRGGBBAA（忽略透明度）。
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 8 {
		hex = hex[:6]
	}
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("颜色格式错误: %s", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("颜色格式错误: %s", s)
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

func cmdError(cmd *dsl.Command, msg string, kind error) error {
	return fmt.Errorf("第 %d 行 %s: %s: %w", cmd.Pos.Line, cmd.Name, msg, kind)
}
