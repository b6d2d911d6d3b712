package renderer

import "github.com/ByLCY/lingnan/turtle"

// Renderer 将画笔留下的显示列表输出为最终文件，例如 SVG、PDF 或 PNG。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(d *turtle.Drawing) ([]byte, error)
}
