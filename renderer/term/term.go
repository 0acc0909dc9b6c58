// Package term draws collapsing header frames onto a tcell screen.
//
// Host units are virtual pixels: a cell is CellWidth units wide and CellHeight units tall.
// Text keeps its cell size whatever the paint size is; only anchor positions follow the
// canvas transform, which is enough to preview how both lines move and fade.
package term

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/ByLCY/subtitlebar/layout"
	"github.com/ByLCY/subtitlebar/renderer"
)

const (
	// 单元格在宿主单位下的默认尺寸。
	CellWidth  = 8.0
	CellHeight = 16.0

	ascentRatio  = 0.8
	descentRatio = 0.2
	advanceRatio = 0.5
)

// Typesetter 是等宽排版：每个显示列宽 size/2，ascent/descent 按字号比例给出。
type Typesetter struct{}

var _ layout.Typesetter = Typesetter{}

func (Typesetter) Metrics(_ layout.Typeface, size float64) (layout.FontMetrics, error) {
	return layout.FontMetrics{Ascent: size * ascentRatio, Descent: size * descentRatio}, nil
}

func (Typesetter) Measure(text string, _ layout.Typeface, size float64) (float64, error) {
	return columnsWidth(text, size), nil
}

func (Typesetter) Ellipsize(text string, _ layout.Typeface, size, avail float64) (string, error) {
	return layout.EllipsizeEnd(text, avail, func(s string) float64 { return columnsWidth(s, size) }), nil
}

func columnsWidth(text string, size float64) float64 {
	return float64(runewidth.StringWidth(text)) * size * advanceRatio
}

// Canvas 实现 renderer.Canvas，把文本写入屏幕单元格。
type Canvas struct {
	screen     tcell.Screen
	background tcell.Color
	cellW      float64
	cellH      float64
	stack      *renderer.TransformStack
}

var _ renderer.Canvas = (*Canvas)(nil)

// NewCanvas 使用默认单元格尺寸创建画布。
func NewCanvas(screen tcell.Screen) *Canvas {
	return &Canvas{
		screen:     screen,
		background: tcell.ColorReset,
		cellW:      CellWidth,
		cellH:      CellHeight,
		stack:      renderer.NewTransformStack(),
	}
}

// SetBackground 设置文本单元格的背景色。
func (c *Canvas) SetBackground(col layout.Color) {
	c.background = toTcell(col)
}

// Size 返回屏幕在宿主单位下的尺寸。
func (c *Canvas) Size() (float64, float64) {
	w, h := c.screen.Size()
	return float64(w) * c.cellW, float64(h) * c.cellH
}

func (c *Canvas) Save() int { return c.stack.Save() }

func (c *Canvas) RestoreToCount(count int) { c.stack.RestoreToCount(count) }

func (c *Canvas) Scale(s, px, py float64) { c.stack.Scale(s, px, py) }

// DrawText 把基线所在的单元格行作为文本行；终端无法绘制阴影，忽略 paint.Shadow。
func (c *Canvas) DrawText(text string, x, y float64, paint layout.Paint) {
	if text == "" || paint.Color.A == 0 {
		return
	}
	ax, ay := c.stack.Current().Apply(x, y)
	col := int(math.Round(ax / c.cellW))
	row := int(math.Ceil(ay/c.cellH)) - 1

	style := tcell.StyleDefault.Foreground(toTcell(paint.Color)).Background(c.background)
	if paint.Typeface.Style == layout.FontBold || paint.Typeface.Style == layout.FontBoldItalic {
		style = style.Bold(true)
	}
	if paint.Typeface.Style == layout.FontItalic || paint.Typeface.Style == layout.FontBoldItalic {
		style = style.Italic(true)
	}
	for _, r := range text {
		c.screen.SetContent(col, row, r, nil, style)
		col += runewidth.RuneWidth(r)
	}
}

// DrawBitmap 在终端上没有像素缓冲可用，位图不会出现在这里。
func (c *Canvas) DrawBitmap(renderer.Bitmap, float64, float64) {}

// DrawRect 用背景色填充覆盖的单元格。
func (c *Canvas) DrawRect(rect layout.RectF, col layout.Color) {
	tr := c.stack.Current()
	left, top := tr.Apply(rect.Left, rect.Top)
	right, bottom := tr.Apply(rect.Right, rect.Bottom)
	style := tcell.StyleDefault.Background(toTcell(col))
	for row := int(math.Floor(top / c.cellH)); float64(row)*c.cellH < bottom; row++ {
		for cx := int(math.Floor(left / c.cellW)); float64(cx)*c.cellW < right; cx++ {
			c.screen.SetContent(cx, row, ' ', nil, style)
		}
	}
}

// toTcell 按 alpha 与黑色背景预乘，终端没有透明度。
func toTcell(col layout.Color) tcell.Color {
	a := int32(col.A)
	return tcell.NewRGBColor(int32(col.R)*a/255, int32(col.G)*a/255, int32(col.B)*a/255)
}
