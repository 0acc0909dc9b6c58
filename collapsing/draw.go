package collapsing

import (
	"github.com/ByLCY/subtitlebar/layout"
	"github.com/ByLCY/subtitlebar/renderer"
)

// Draw 把当前帧绘制到 c：先副标题后标题，缩放比不为 1 时以锚点为中心等比缩放。
// 任一端边界为空时不产生任何绘制调用。
func (e *Engine) Draw(c renderer.Canvas) {
	if e.dirty {
		e.Recalculate()
	}
	if !e.drawable || e.dirty {
		return
	}
	save := c.Save()
	defer c.RestoreToCount(save)

	if debugDraw {
		title := e.lines[layout.Title]
		c.DrawRect(layout.RectF{
			Left:   e.current.Left,
			Top:    title.currentY - title.metrics.Ascent*title.scale,
			Right:  e.current.Right,
			Bottom: title.currentY + title.metrics.Descent*title.scale,
		}, debugDrawColor)
	}

	e.drawLine(c, e.lines[layout.Subtitle])
	e.drawLine(c, e.lines[layout.Title])
}

func (e *Engine) drawLine(c renderer.Canvas, l *lineState) {
	if !l.present() || l.toDraw == "" || l.failed {
		return
	}
	x, y := l.currentX, l.currentY
	tex, ok := e.textures.lookup(l.id)
	drawTexture := l.useTexture && ok
	if drawTexture {
		// 位图以左上角定位，需要把基线上移 ascent
		y -= tex.ascent * l.scale
	}

	save := c.Save()
	defer c.RestoreToCount(save)
	if l.scale != 1 {
		c.Scale(l.scale, x, y)
	}
	if drawTexture {
		c.DrawBitmap(tex.bitmap, x, y)
		return
	}
	c.DrawText(l.toDraw, x, y, l.paint)
}
