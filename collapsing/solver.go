package collapsing

import "github.com/ByLCY/subtitlebar/layout"

// lineMeasure 是某个端点上一行文本的宽度与度量。
type lineMeasure struct {
	width   float64
	metrics layout.FontMetrics
}

func (m lineMeasure) height() float64 { return m.metrics.Height() }

// calculateBaseOffsets 依次在折叠端与展开端的字号下排版两行文本，
// 求出两端的锚点（基线起点），并丢弃已失效的位图缓存。
func (e *Engine) calculateBaseOffsets() {
	e.recalculations++
	titleOnly := !e.lines[layout.Subtitle].present()

	for _, end := range layout.Ends {
		title := e.measureAt(e.lines[layout.Title], end)
		subtitle := e.measureAt(e.lines[layout.Subtitle], end)
		bounds := e.bounds.At(end)
		gravity := e.gravity.At(end)

		var titleY, subtitleY float64
		if end == layout.Collapsed {
			titleY, subtitleY = collapsedBaselines(bounds, gravity, title, subtitle, titleOnly)
		} else {
			titleY, subtitleY = expandedBaselines(bounds, gravity, title, subtitle, titleOnly)
		}
		e.lines[layout.Title].y.Set(end, titleY)
		e.lines[layout.Subtitle].y.Set(end, subtitleY)

		align := gravity.Horizontal(e.rtl)
		e.lines[layout.Title].x.Set(end, anchorX(bounds, align, title.width))
		e.lines[layout.Subtitle].x.Set(end, anchorX(bounds, align, subtitle.width))
	}

	e.textures.clear()
}

func (e *Engine) measureAt(l *lineState, end layout.End) lineMeasure {
	e.calculateUsingSize(l, l.size.At(end))
	return lineMeasure{width: e.measuredWidth(l), metrics: l.metrics}
}

// singleBaseline 是只有标题时的基线：顶部、底部或垂直居中。
func singleBaseline(b layout.Rect, v layout.VAlign, title lineMeasure) float64 {
	switch v {
	case layout.AlignBottom:
		return float64(b.Bottom)
	case layout.AlignTop:
		return float64(b.Top) + title.metrics.Ascent
	default:
		offset := title.height()/2 - title.metrics.Descent
		return float64(b.CenterY()) + offset
	}
}

// collapsedBaselines 在两行都存在时把剩余高度三等分：标题上方一份、两行之间一份，
// 与请求的垂直对齐无关。
func collapsedBaselines(b layout.Rect, g layout.Gravity, title, subtitle lineMeasure, titleOnly bool) (float64, float64) {
	if titleOnly {
		return singleBaseline(b, g.Vertical(), title), 0
	}
	offset := (float64(b.Height()) - (title.height() + subtitle.height())) / 3
	titleY := float64(b.Top) + offset + title.metrics.Ascent
	subtitleY := float64(b.Top) + offset*2 + title.height() + subtitle.metrics.Ascent
	return titleY, subtitleY
}

// expandedBaselines 在两行都存在时按标题的垂直对齐放置标题，副标题紧随其后。
// 标题基线使用副标题的 ascent 修正，保持与折叠端不对称的历史行为。
func expandedBaselines(b layout.Rect, g layout.Gravity, title, subtitle lineMeasure, titleOnly bool) (float64, float64) {
	v := g.Vertical()
	if titleOnly {
		return singleBaseline(b, v, title), 0
	}
	var titleY float64
	switch v {
	case layout.AlignBottom:
		titleY = float64(b.Bottom) - subtitle.metrics.Ascent
	case layout.AlignTop:
		titleY = float64(b.Top) + title.metrics.Ascent
	default:
		offset := title.height()/2 - title.metrics.Descent
		titleY = float64(b.CenterY()) + offset - subtitle.metrics.Ascent
	}
	subtitleY := titleY + subtitle.height()/2 + subtitle.metrics.Ascent
	return titleY, subtitleY
}

func anchorX(b layout.Rect, align layout.HAlign, width float64) float64 {
	switch align {
	case layout.AlignCenter:
		return float64(b.CenterX()) - width/2
	case layout.AlignRight:
		return float64(b.Right) - width
	default:
		return float64(b.Left)
	}
}
