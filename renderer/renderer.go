package renderer

import "github.com/ByLCY/subtitlebar/layout"

// Canvas 是引擎每帧绘制时使用的渲染目标。
// Save/RestoreToCount 成对保存与恢复变换；Scale 以 (px, py) 为中心做等比缩放。
type Canvas interface {
	Save() int
	RestoreToCount(count int)
	Scale(s, px, py float64)
	// DrawText 以 (x, y) 为基线起点绘制单行文本。
	DrawText(text string, x, y float64, paint layout.Paint)
	// DrawBitmap 以 (x, y) 为左上角绘制位图。
	DrawBitmap(bitmap Bitmap, x, y float64)
	DrawRect(rect layout.RectF, color layout.Color)
}

// Bitmap 是离屏 ARGB 位图，持有原生像素缓冲，不再使用时必须 Release。
type Bitmap interface {
	Width() int
	Height() int
	DrawText(text string, x, y float64, paint layout.Paint)
	Release()
}

// BitmapAllocator 创建离屏位图。
type BitmapAllocator interface {
	NewBitmap(width, height int) (Bitmap, error)
}

// Page 是输出文件中的一页：固定尺寸与背景，由 Draw 回调填充内容。
type Page struct {
	Width      float64
	Height     float64
	Background layout.Color
	Draw       func(Canvas)
}

// Renderer 将若干页面输出为最终文件，例如 PDF 或图像。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(pages []Page) ([]byte, error)
}
