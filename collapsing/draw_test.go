package collapsing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ByLCY/subtitlebar/layout"
)

func TestDrawOrderSubtitleFirst(t *testing.T) {
	e, _, _ := newHeaderEngine(t, Options{})
	c := newRecordingCanvas()
	e.Draw(c)

	draws := c.draws()
	require.Len(t, draws, 2)
	require.Equal(t, "sub", draws[0].text)
	require.Equal(t, "Hello World", draws[1].text)
	require.InDelta(t, 19.75, draws[1].y, delta)
	require.Equal(t, 24.0, draws[1].paint.Size)
	require.Zero(t, c.stack.Depth(), "draw must restore every save")
}

func TestDrawScalesAroundAnchor(t *testing.T) {
	e, _, _ := newHeaderEngine(t, Options{})
	e.SetExpansionFraction(0.5)
	c := newRecordingCanvas()
	e.Draw(c)

	var scales []drawOp
	for _, op := range c.ops {
		if op.kind == "scale" {
			scales = append(scales, op)
		}
	}
	// 副标题两端字号相同，不需要缩放
	require.Len(t, scales, 1)
	require.InDelta(t, 0.75, scales[0].scale, delta)
	require.InDelta(t, 14.875, scales[0].y, delta)

	draws := c.draws()
	require.Len(t, draws, 2)
	require.Equal(t, 1.0, draws[0].scale)
	require.InDelta(t, 0.75, draws[1].scale, delta)
}

func TestDrawSkipsWhenBoundsEmpty(t *testing.T) {
	e, _, _ := newHeaderEngine(t, Options{})
	e.SetBounds(layout.Collapsed, layout.Rect{Bottom: 30})
	require.False(t, e.Drawable())

	for _, f := range []float64{0, 0.5, 1} {
		e.SetExpansionFraction(f)
		c := newRecordingCanvas()
		e.Draw(c)
		require.Empty(t, c.ops)
		require.Zero(t, c.stack.Depth())
	}

	e.SetBounds(layout.Collapsed, layout.Rect{Right: 200, Bottom: 30})
	require.True(t, e.Drawable())
}

func TestDrawSkipsFailedLine(t *testing.T) {
	e, _, _ := newHeaderEngine(t, Options{})
	e.SetTypefaces(layout.Title, layout.Typeface{Family: "broken"})

	c := newRecordingCanvas()
	e.Draw(c)
	draws := c.draws()
	require.Len(t, draws, 1)
	require.Equal(t, "sub", draws[0].text)
}

func TestTextureMode(t *testing.T) {
	alloc := &stubAllocator{}
	e, _, _ := newHeaderEngine(t, Options{UseTexture: true, Bitmaps: alloc})

	// 端点上不缩放，不需要位图
	c := newRecordingCanvas()
	e.Draw(c)
	require.Empty(t, alloc.bitmaps)
	require.Equal(t, "text", c.draws()[1].kind)

	e.SetExpansionFraction(0.5)
	require.Len(t, alloc.bitmaps, 1)
	bm := alloc.bitmaps[0]
	require.Equal(t, 132, bm.w)
	require.Equal(t, 24, bm.h)
	require.Equal(t, "Hello World", bm.text)
	require.InDelta(t, 18, bm.baseline, delta)
	require.True(t, e.Frame().Title.Textured)

	c = newRecordingCanvas()
	e.Draw(c)
	draws := c.draws()
	require.Len(t, draws, 2)
	require.Equal(t, "text", draws[0].kind)
	require.Equal(t, "bitmap", draws[1].kind)
	// 位图左上角 = 基线 - ascent * scale
	require.InDelta(t, 14.875-18*0.75, draws[1].y, delta)

	// 位图只创建一次
	e.SetExpansionFraction(0.6)
	require.Len(t, alloc.bitmaps, 1)

	// 文本变化时释放旧位图
	e.SetTitle("Bye")
	require.True(t, bm.released)
	require.LessOrEqual(t, alloc.live(), 1)

	e.Release()
	require.Zero(t, alloc.live())
}

func TestTextureAllocationFailureFallsBack(t *testing.T) {
	alloc := &stubAllocator{fail: true}
	e, _, _ := newHeaderEngine(t, Options{UseTexture: true, Bitmaps: alloc})
	e.SetExpansionFraction(0.5)

	c := newRecordingCanvas()
	e.Draw(c)
	draws := c.draws()
	require.Len(t, draws, 2)
	require.Equal(t, "text", draws[1].kind)
	require.False(t, e.Frame().Title.Textured)
}

func TestTextureReleasedWhenExpandedBoundsChange(t *testing.T) {
	alloc := &stubAllocator{}
	e, _, _ := newHeaderEngine(t, Options{UseTexture: true, Bitmaps: alloc})
	e.SetExpansionFraction(0.5)
	require.Len(t, alloc.bitmaps, 1)
	old := alloc.bitmaps[0]

	e.SetBounds(layout.Expanded, layout.Rect{Right: 200, Bottom: 60})
	require.True(t, old.released)

	c := newRecordingCanvas()
	e.Draw(c)
	require.Len(t, alloc.bitmaps, 2)
	require.False(t, alloc.bitmaps[1].released)
	require.Equal(t, 1, alloc.live())
	require.Equal(t, "bitmap", c.draws()[1].kind)
}
