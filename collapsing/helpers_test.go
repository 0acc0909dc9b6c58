package collapsing

import (
	"errors"
	"fmt"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/ByLCY/subtitlebar/layout"
	"github.com/ByLCY/subtitlebar/renderer"
)

// stubTypesetter 是等宽的假排版后端：每个字符宽 size/2，ascent 与 descent 为字号的 3/4 与 1/4。
type stubTypesetter struct {
	metricsCalls   int
	ellipsizeCalls int
}

var errBrokenFace = errors.New("broken face")

func (s *stubTypesetter) Metrics(face layout.Typeface, size float64) (layout.FontMetrics, error) {
	s.metricsCalls++
	if face.Family == "broken" {
		return layout.FontMetrics{}, errBrokenFace
	}
	return layout.FontMetrics{Ascent: size * 0.75, Descent: size * 0.25}, nil
}

func (s *stubTypesetter) Measure(text string, face layout.Typeface, size float64) (float64, error) {
	if face.Family == "broken" {
		return 0, errBrokenFace
	}
	return stubWidth(text, size), nil
}

func (s *stubTypesetter) Ellipsize(text string, face layout.Typeface, size, avail float64) (string, error) {
	s.ellipsizeCalls++
	if face.Family == "broken" {
		return "", errBrokenFace
	}
	return layout.EllipsizeEnd(text, avail, func(v string) float64 { return stubWidth(v, size) }), nil
}

func stubWidth(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * size / 2
}

// stubView 记录重绘请求次数。
type stubView struct {
	width, height int
	rtl           bool
	invalidations int
}

func (v *stubView) Width() int                 { return v.width }
func (v *stubView) Height() int                { return v.height }
func (v *stubView) LayoutRTL() bool            { return v.rtl }
func (v *stubView) PostInvalidateOnAnimation() { v.invalidations++ }

// drawOp 是 recordingCanvas 记录的一次绘制调用。
type drawOp struct {
	kind  string
	text  string
	x, y  float64
	scale float64
	paint layout.Paint
}

// recordingCanvas 记录全部绘制调用，并用变换栈跟踪当前缩放。
type recordingCanvas struct {
	stack *renderer.TransformStack
	ops   []drawOp
}

func newRecordingCanvas() *recordingCanvas {
	return &recordingCanvas{stack: renderer.NewTransformStack()}
}

func (c *recordingCanvas) Save() int { return c.stack.Save() }

func (c *recordingCanvas) RestoreToCount(count int) { c.stack.RestoreToCount(count) }

func (c *recordingCanvas) Scale(s, px, py float64) {
	c.ops = append(c.ops, drawOp{kind: "scale", x: px, y: py, scale: s})
	c.stack.Scale(s, px, py)
}

func (c *recordingCanvas) DrawText(text string, x, y float64, paint layout.Paint) {
	c.ops = append(c.ops, drawOp{kind: "text", text: text, x: x, y: y, scale: c.stack.Current().Scale, paint: paint})
}

func (c *recordingCanvas) DrawBitmap(bitmap renderer.Bitmap, x, y float64) {
	text := ""
	if b, ok := bitmap.(*stubBitmap); ok {
		text = b.text
	}
	c.ops = append(c.ops, drawOp{kind: "bitmap", text: text, x: x, y: y, scale: c.stack.Current().Scale})
}

func (c *recordingCanvas) DrawRect(rect layout.RectF, color layout.Color) {
	c.ops = append(c.ops, drawOp{kind: "rect"})
}

func (c *recordingCanvas) draws() []drawOp {
	var out []drawOp
	for _, op := range c.ops {
		if op.kind == "text" || op.kind == "bitmap" {
			out = append(out, op)
		}
	}
	return out
}

// stubBitmap 与 stubAllocator 统计位图的创建与释放。
type stubBitmap struct {
	w, h     int
	text     string
	baseline float64
	released bool
}

func (b *stubBitmap) Width() int  { return b.w }
func (b *stubBitmap) Height() int { return b.h }

func (b *stubBitmap) DrawText(text string, x, y float64, paint layout.Paint) {
	b.text = text
	b.baseline = y
}

func (b *stubBitmap) Release() { b.released = true }

type stubAllocator struct {
	bitmaps []*stubBitmap
	fail    bool
}

func (a *stubAllocator) NewBitmap(w, h int) (renderer.Bitmap, error) {
	if a.fail {
		return nil, fmt.Errorf("out of memory")
	}
	b := &stubBitmap{w: w, h: h}
	a.bitmaps = append(a.bitmaps, b)
	return b, nil
}

func (a *stubAllocator) live() int {
	n := 0
	for _, b := range a.bitmaps {
		if !b.released {
			n++
		}
	}
	return n
}

// stubStyles 是内存中的外观表，未知标识返回 ConfigError。
type stubStyles map[string]layout.Appearance

func (s stubStyles) Appearance(id string) (layout.Appearance, error) {
	a, ok := s[id]
	if !ok {
		return layout.Appearance{}, &layout.ConfigError{Resource: id, Err: errors.New("未定义")}
	}
	return a, nil
}

// newHeaderEngine 构造常用场景：展开端 (0,0,200,50)、折叠端 (0,0,200,30)，
// 标题 "Hello World" 字号 12/24，副标题 "sub" 使用默认字号 15。
func newHeaderEngine(t *testing.T, opts Options) (*Engine, *stubView, *stubTypesetter) {
	t.Helper()
	view := &stubView{width: 200, height: 80}
	ts := &stubTypesetter{}
	e, err := New(view, ts, opts)
	require.NoError(t, err)

	e.SetBounds(layout.Expanded, layout.Rect{Right: 200, Bottom: 50})
	e.SetBounds(layout.Collapsed, layout.Rect{Right: 200, Bottom: 30})
	e.SetTitle("Hello World")
	e.SetSubtitle("sub")
	e.SetTextSize(layout.Title, layout.Collapsed, 12)
	e.SetTextSize(layout.Title, layout.Expanded, 24)
	return e, view, ts
}
