package collapsing

import (
	"log/slog"
	"math"

	"github.com/ByLCY/subtitlebar/layout"
)

// lineState 是单行文本的样式、端点几何与当前插值结果。
type lineState struct {
	id   layout.Line
	text string

	size   layout.Endpoint[float64]
	color  layout.Endpoint[layout.ColorSource]
	face   layout.Endpoint[layout.Typeface]
	shadow layout.Endpoint[layout.Shadow]
	x      layout.Endpoint[float64]
	y      layout.Endpoint[float64]

	currentX    float64
	currentY    float64
	currentSize float64 // 排版字号，总是某个端点的字号
	currentFace layout.Typeface
	scale       float64
	metrics     layout.FontMetrics

	paint      layout.Paint
	toDraw     string
	hasToDraw  bool
	failed     bool // 度量失败时跳过绘制
	useTexture bool

	boundsChanged bool
}

func newLineState(id layout.Line) *lineState {
	black := layout.StaticColor(layout.Black)
	return &lineState{
		id:    id,
		size:  layout.Both(defaultTextSize),
		color: layout.Endpoint[layout.ColorSource]{Collapsed: black, Expanded: black},
		scale: 1,
	}
}

func (l *lineState) present() bool { return l.text != "" }

// resetText 丢弃已截断的绘制文本，下次计算时重新截断。
func (l *lineState) resetText() {
	l.toDraw = ""
	l.hasToDraw = false
}

// calculateUsingSize 选择与 size 对应的端点字号与字体，计算缩放比，
// 并仅在字号、字体或边界变化时重新截断文本。
func (e *Engine) calculateUsingSize(l *lineState, size float64) {
	collapsedWidth := float64(e.bounds.Collapsed.Width())
	expandedWidth := float64(e.bounds.Expanded.Width())

	var availableWidth, newSize float64
	updateDrawText := false

	if layout.IsClose(size, l.size.Collapsed) {
		newSize = l.size.Collapsed
		l.scale = 1
		if l.currentFace != l.face.Collapsed {
			l.currentFace = l.face.Collapsed
			updateDrawText = true
		}
		availableWidth = collapsedWidth
	} else {
		newSize = l.size.Expanded
		if l.currentFace != l.face.Expanded {
			l.currentFace = l.face.Expanded
			updateDrawText = true
		}
		if layout.IsClose(size, l.size.Expanded) {
			l.scale = 1
		} else {
			l.scale = size / l.size.Expanded
		}

		ratio := l.size.Collapsed / l.size.Expanded
		scaledDownWidth := expandedWidth * ratio
		if scaledDownWidth > collapsedWidth {
			// 等比缩小后会超出折叠宽度，只允许使用缩小后恰好放得下的宽度
			availableWidth = math.Min(collapsedWidth/ratio, expandedWidth)
		} else {
			availableWidth = expandedWidth
		}
	}

	if availableWidth > 0 {
		updateDrawText = l.currentSize != newSize || l.boundsChanged || updateDrawText
		l.currentSize = newSize
		l.boundsChanged = false
	}

	if l.hasToDraw && !updateDrawText {
		return
	}

	l.paint.Size = l.currentSize
	l.paint.Typeface = l.currentFace
	l.paint.LinearText = l.scale != 1
	l.failed = false

	metrics, err := e.typesetter.Metrics(l.currentFace, l.currentSize)
	if err != nil {
		e.measureFailed(l, "metrics", err)
		metrics = layout.FontMetrics{}
	}
	l.metrics = metrics

	text, err := e.typesetter.Ellipsize(l.text, l.currentFace, l.currentSize, availableWidth)
	if err != nil {
		e.measureFailed(l, "ellipsize", err)
		text = ""
	}
	l.hasToDraw = true
	if text != l.toDraw {
		l.toDraw = text
		e.rtl = e.resolveDirection()
	}
}

// measuredWidth 返回当前绘制文本的宽度，度量失败按 0 处理。
func (e *Engine) measuredWidth(l *lineState) float64 {
	if l.toDraw == "" {
		return 0
	}
	w, err := e.typesetter.Measure(l.toDraw, l.currentFace, l.currentSize)
	if err != nil {
		e.measureFailed(l, "measure", err)
		return 0
	}
	return w
}

func (e *Engine) measureFailed(l *lineState, op string, err error) {
	l.failed = true
	e.log.Debug("文字度量失败，跳过该行绘制",
		slog.String("line", l.id.String()),
		slog.String("op", op),
		slog.Any("err", err))
}
