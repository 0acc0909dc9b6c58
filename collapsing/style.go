package collapsing

import "github.com/ByLCY/subtitlebar/layout"

// SetBounds 设置某一端点的边界。两端边界都非空时引擎才可绘制。
func (e *Engine) SetBounds(end layout.End, r layout.Rect) {
	if e.bounds.At(end) == r {
		return
	}
	e.bounds.Set(end, r)
	for _, l := range e.lines {
		l.boundsChanged = true
	}
	e.drawable = !e.bounds.Collapsed.Empty() && !e.bounds.Expanded.Empty()
	e.invalidate()
}

// Bounds 返回某一端点的边界。
func (e *Engine) Bounds(end layout.End) layout.Rect { return e.bounds.At(end) }

// SetGravity 设置某一端点的对齐方式；两行共用同一对齐。
func (e *Engine) SetGravity(end layout.End, g layout.Gravity) {
	if e.gravity.At(end) == g {
		return
	}
	e.gravity.Set(end, g)
	e.invalidate()
}

func (e *Engine) Gravity(end layout.End) layout.Gravity { return e.gravity.At(end) }

// SetTextSize 设置某一行在某一端点的字号，非正数被忽略。
func (e *Engine) SetTextSize(line layout.Line, end layout.End, size float64) {
	l := e.line(line)
	if size <= 0 || l.size.At(end) == size {
		return
	}
	l.size.Set(end, size)
	e.invalidate()
}

func (e *Engine) TextSize(line layout.Line, end layout.End) float64 {
	return e.line(line).size.At(end)
}

// SetTextColor 设置某一行在某一端点的颜色来源；nil 视为黑色。
// 状态颜色表按引用判等。
func (e *Engine) SetTextColor(line layout.Line, end layout.End, src layout.ColorSource) {
	if src == nil {
		src = layout.StaticColor(layout.Black)
	}
	l := e.line(line)
	if l.color.At(end) == src {
		return
	}
	l.color.Set(end, src)
	e.invalidate()
}

func (e *Engine) TextColor(line layout.Line, end layout.End) layout.ColorSource {
	return e.line(line).color.At(end)
}

// CurrentColor 返回某一行按当前状态解析出的折叠端颜色。
func (e *Engine) CurrentColor(line layout.Line) layout.Color {
	return e.resolveColor(e.line(line).color.Collapsed)
}

// SetTypeface 设置某一行在某一端点的字体。
func (e *Engine) SetTypeface(line layout.Line, end layout.End, face layout.Typeface) {
	l := e.line(line)
	if l.face.At(end) == face {
		return
	}
	l.face.Set(end, face)
	e.invalidate()
}

// SetTypefaces 同时设置某一行两端的字体，只触发一次重算。
func (e *Engine) SetTypefaces(line layout.Line, face layout.Typeface) {
	l := e.line(line)
	if l.face.Collapsed == face && l.face.Expanded == face {
		return
	}
	l.face = layout.Both(face)
	e.invalidate()
}

func (e *Engine) Typeface(line layout.Line, end layout.End) layout.Typeface {
	return e.line(line).face.At(end)
}

// SetShadow 设置某一行在某一端点的阴影。
func (e *Engine) SetShadow(line layout.Line, end layout.End, s layout.Shadow) {
	l := e.line(line)
	if l.shadow.At(end) == s {
		return
	}
	l.shadow.Set(end, s)
	e.invalidate()
}

func (e *Engine) Shadow(line layout.Line, end layout.End) layout.Shadow {
	return e.line(line).shadow.At(end)
}

// SetTitle 设置标题文本。
func (e *Engine) SetTitle(text string) { e.setText(layout.Title, text) }

// SetSubtitle 设置副标题文本；空字符串表示只有标题。
func (e *Engine) SetSubtitle(text string) { e.setText(layout.Subtitle, text) }

func (e *Engine) Title() string    { return e.lines[layout.Title].text }
func (e *Engine) Subtitle() string { return e.lines[layout.Subtitle].text }

func (e *Engine) setText(line layout.Line, text string) {
	l := e.line(line)
	if l.text == text {
		return
	}
	l.text = text
	l.resetText()
	e.textures.clear()
	e.invalidate()
}

// SetExpansionFraction 设置折叠比例：0 为完全展开，1 为完全折叠，超出范围时截断。
func (e *Engine) SetExpansionFraction(fraction float64) {
	fraction = layout.Clamp01(fraction)
	if fraction == e.fraction {
		return
	}
	e.fraction = fraction
	if e.dirty {
		e.Recalculate()
		return
	}
	e.calculateCurrentOffsets()
}

func (e *Engine) ExpansionFraction() float64 { return e.fraction }

// SetState 设置交互状态。仅当状态改变且某个颜色随状态变化时才重算，返回是否发生了重算。
func (e *Engine) SetState(state layout.State) bool {
	if e.hasState && e.state == state {
		return false
	}
	e.state = state
	e.hasState = true
	if !e.IsStateful() {
		return false
	}
	e.invalidate()
	return true
}

func (e *Engine) State() (layout.State, bool) { return e.state, e.hasState }

// IsStateful 判断任一行任一端的颜色是否随状态变化。
func (e *Engine) IsStateful() bool {
	for _, l := range e.lines {
		for _, end := range layout.Ends {
			if src := l.color.At(end); src != nil && src.IsStateful() {
				return true
			}
		}
	}
	return false
}

// SetPositionInterpolator 设置位置插值使用的缓动，nil 表示线性。
func (e *Engine) SetPositionInterpolator(interp layout.Interpolator) {
	if layout.SameInterpolator(e.positionInterp, interp) {
		return
	}
	e.positionInterp = interp
	e.invalidate()
}

// SetTextSizeInterpolator 设置字号插值使用的缓动，nil 表示线性。
func (e *Engine) SetTextSizeInterpolator(interp layout.Interpolator) {
	if layout.SameInterpolator(e.sizeInterp, interp) {
		return
	}
	e.sizeInterp = interp
	e.invalidate()
}
