package layout

import "fmt"

// MarkerKind 是格式标记的种类。
type MarkerKind int

const (
	SetBold MarkerKind = iota + 1
	ToggleBold
	SetItalic
	ToggleItalic
	SetColor
)

func (k MarkerKind) String() string {
	switch k {
	case SetBold:
		return "set-bold"
	case ToggleBold:
		return "toggle-bold"
	case SetItalic:
		return "set-italic"
	case ToggleItalic:
		return "toggle-italic"
	case SetColor:
		return "set-color"
	default:
		return fmt.Sprintf("marker(%d)", int(k))
	}
}

// Marker 是一个格式应用标记。应用时把旧值快照到 saved*，恢复时写回。
type Marker struct {
	Kind  MarkerKind `json:"kind"`
	Flag  bool       `json:"flag,omitempty"` // SetBold/SetItalic 的目标值
	Color Color      `json:"color"`          // SetColor 的目标值

	savedFlag  bool
	savedColor Color
}

// FormatState 把 Marker 的应用/恢复组织成栈：恢复必须与最近一次应用配对。
type FormatState struct {
	style Style
	open  []*Marker
}

// NewFormatState returns a state machine driving st.
func NewFormatState(st Style) *FormatState { return &FormatState{style: st} }

// Apply 快照旧值、修改样式并入栈。
func (f *FormatState) Apply(m *Marker) {
	st := f.style
	switch m.Kind {
	case SetBold:
		m.savedFlag = st.Bold()
		st.SetBold(m.Flag)
	case ToggleBold:
		m.savedFlag = st.Bold()
		st.SetBold(!m.savedFlag)
	case SetItalic:
		m.savedFlag = st.Italic()
		st.SetItalic(m.Flag)
	case ToggleItalic:
		m.savedFlag = st.Italic()
		st.SetItalic(!m.savedFlag)
	case SetColor:
		m.savedColor = st.FillColor()
		st.SetFillColor(m.Color)
	default:
		panic(fmt.Sprintf("layout: unknown marker kind %v", m.Kind))
	}
	f.open = append(f.open, m)
}

// Restore 写回 m 的快照并出栈。m 不是栈顶时立即 panic。
func (f *FormatState) Restore(m *Marker) {
	n := len(f.open)
	if n == 0 || f.open[n-1] != m {
		panic(fmt.Errorf("layout: restoring %v with %d open: %w", m.Kind, n, ErrUnbalancedMarker))
	}
	f.open = f.open[:n-1]
	switch m.Kind {
	case SetBold, ToggleBold:
		f.style.SetBold(m.savedFlag)
	case SetItalic, ToggleItalic:
		f.style.SetItalic(m.savedFlag)
	case SetColor:
		f.style.SetFillColor(m.savedColor)
	}
}

// Scope applies m and returns the matching release, meant for defer.
func (f *FormatState) Scope(m *Marker) func() {
	f.Apply(m)
	return func() { f.Restore(m) }
}

// Depth 返回尚未恢复的标记数量。
func (f *FormatState) Depth() int { return len(f.open) }
