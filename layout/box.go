package layout

// Box 是固定尺寸的行内子元素，可选描边与标签。
type Box struct {
	Width    float64
	Height   float64
	Baseline float64
	Label    string
	Outline  bool
}

var _ Element = (*Box)(nil)

// Prepare implements Element; a box has nothing to measure.
func (b *Box) Prepare(Style) {}

// Metrics implements Element.
func (b *Box) Metrics() ElementMetrics {
	return ElementMetrics{Width: b.Width, Height: b.Height, Baseline: b.Baseline}
}

// Render 绘制上下边框与标签。
func (b *Box) Render(c Canvas, x, y float64) {
	if b.Outline {
		c.StrokeHorizontalLine(x, y, b.Width)
		c.StrokeHorizontalLine(x, y+b.Height, b.Width)
	}
	if b.Label != "" {
		c.DrawText(b.Label, x, y+b.Baseline)
	}
}
