package renderer

import "github.com/ByLCY/paraflow/layout"

// Renderer 将排版完成的文档输出为最终文件，例如 PDF 或 SVG。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(doc *layout.Document) ([]byte, error)
}

// Measurer 提供排版阶段使用的样式上下文。
// 排版与渲染必须使用同一套字体度量，否则折行位置会与绘制结果不一致。
type Measurer interface {
	Measurer() (layout.Style, error)
}
