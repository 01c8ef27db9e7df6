package layout

import "fmt"

// NodeID 是内容树中节点的下标。
type NodeID int

// NoNode marks the absence of a node.
const NoNode NodeID = -1

// Kind 是内容项的封闭类型集合。
type Kind int

const (
	KindText Kind = iota
	KindLink
	KindBold
	KindItalic
	KindColor
	KindElement
	KindParagraph
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindLink:
		return "link"
	case KindBold:
		return "bold"
	case KindItalic:
		return "italic"
	case KindColor:
		return "color"
	case KindElement:
		return "element"
	case KindParagraph:
		return "paragraph"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// textLike 的节点以文字带的方式生成矩形，且命中测试时直接返回。
func (k Kind) textLike() bool { return k == KindText || k == KindLink }

// composite 的节点自身不生成记号，其矩形由子节点合成。
func (k Kind) composite() bool {
	return k == KindBold || k == KindItalic || k == KindColor || k == KindParagraph
}

// Node 是内容树的一个节点。各字段按 Kind 取用。
type Node struct {
	Kind     Kind
	Text     string // KindText 的文字，KindLink 的描述
	URL      string
	Color    Color
	Element  Element
	Children []NodeID
	Parent   NodeID
}

// Tree 以数组保存内容节点，节点之间只通过 NodeID 相互引用。
type Tree struct {
	nodes []Node
}

// NewTree returns an empty content tree.
func NewTree() *Tree { return &Tree{} }

func (t *Tree) add(n Node) NodeID {
	id := NodeID(len(t.nodes))
	n.Parent = NoNode
	t.nodes = append(t.nodes, n)
	for _, c := range n.Children {
		t.nodes[c].Parent = id
	}
	return id
}

// Text 添加一段纯文本。
func (t *Tree) Text(s string) NodeID { return t.add(Node{Kind: KindText, Text: s}) }

// Link 添加一个链接，desc 为显示文字。
func (t *Tree) Link(url, desc string) NodeID {
	return t.add(Node{Kind: KindLink, URL: url, Text: desc})
}

// Bold wraps children in a bold toggle.
func (t *Tree) Bold(children ...NodeID) NodeID {
	return t.add(Node{Kind: KindBold, Children: children})
}

// Italic wraps children in an italic toggle.
func (t *Tree) Italic(children ...NodeID) NodeID {
	return t.add(Node{Kind: KindItalic, Children: children})
}

// Colored wraps children in a fill color.
func (t *Tree) Colored(c Color, children ...NodeID) NodeID {
	return t.add(Node{Kind: KindColor, Color: c, Children: children})
}

// Embed 添加一个不透明子元素。
func (t *Tree) Embed(el Element) NodeID { return t.add(Node{Kind: KindElement, Element: el}) }

// Paragraph 添加段落根节点。
func (t *Tree) Paragraph(children ...NodeID) NodeID {
	return t.add(Node{Kind: KindParagraph, Children: children})
}

// Node returns the node with the given id.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		panic(fmt.Sprintf("layout: node %d out of range", id))
	}
	return &t.nodes[id]
}

// Len 返回节点数量。
func (t *Tree) Len() int { return len(t.nodes) }
