package collapsing

import "github.com/ByLCY/subtitlebar/layout"

func (e *Engine) calculateCurrentOffsets() {
	e.calculateOffsets(e.fraction)
}

// calculateOffsets 在展开端（0）与折叠端（1）之间按 fraction 插值位置、字号、颜色与阴影。
func (e *Engine) calculateOffsets(fraction float64) {
	e.interpolateBounds(fraction)
	for _, l := range e.lines {
		l.currentX = layout.Lerp(l.x.Expanded, l.x.Collapsed, fraction, e.positionInterp)
		l.currentY = layout.Lerp(l.y.Expanded, l.y.Collapsed, fraction, e.positionInterp)

		e.setInterpolatedSize(l, layout.Lerp(l.size.Expanded, l.size.Collapsed, fraction, e.sizeInterp))

		if l.color.Collapsed != l.color.Expanded {
			l.paint.Color = layout.BlendColors(e.resolveColor(l.color.Expanded), e.resolveColor(l.color.Collapsed), fraction)
		} else {
			l.paint.Color = e.resolveColor(l.color.Collapsed)
		}
		l.paint.Shadow = layout.LerpShadow(l.shadow.Expanded, l.shadow.Collapsed, fraction)
	}
	e.view.PostInvalidateOnAnimation()
}

// interpolateBounds 计算调试用的当前边界，顶部取标题基线。
func (e *Engine) interpolateBounds(fraction float64) {
	exp, col := e.bounds.Expanded, e.bounds.Collapsed
	title := e.lines[layout.Title]
	e.current = layout.RectF{
		Left:   layout.Lerp(float64(exp.Left), float64(col.Left), fraction, e.positionInterp),
		Top:    layout.Lerp(title.y.Expanded, title.y.Collapsed, fraction, e.positionInterp),
		Right:  layout.Lerp(float64(exp.Right), float64(col.Right), fraction, e.positionInterp),
		Bottom: layout.Lerp(float64(exp.Bottom), float64(col.Bottom), fraction, e.positionInterp),
	}
}

func (e *Engine) setInterpolatedSize(l *lineState, size float64) {
	e.calculateUsingSize(l, size)
	l.useTexture = e.textures.enabled() && l.scale != 1
	if l.useTexture {
		e.textures.ensure(e, l)
	}
}

func (e *Engine) resolveColor(src layout.ColorSource) layout.Color {
	return layout.ResolveColor(src, e.state, e.hasState)
}
