package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/subtitlebar/layout"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func TestTypesetterUsesDisplayColumns(t *testing.T) {
	ts := Typesetter{}
	w, err := ts.Measure("ab", layout.DefaultTypeface, 16)
	require.NoError(t, err)
	require.Equal(t, 16.0, w)

	// 全角字符占两列
	w, err = ts.Measure("中", layout.DefaultTypeface, 16)
	require.NoError(t, err)
	require.Equal(t, 16.0, w)

	m, err := ts.Metrics(layout.DefaultTypeface, 10)
	require.NoError(t, err)
	require.InDelta(t, 8, m.Ascent, 1e-12)
	require.InDelta(t, 2, m.Descent, 1e-12)

	got, err := ts.Ellipsize("Hello World", layout.DefaultTypeface, 16, 48)
	require.NoError(t, err)
	require.Equal(t, "Hello…", got)
}

func TestCanvasWritesBaselineRow(t *testing.T) {
	s := newScreen(t, 20, 4)
	c := NewCanvas(s)

	// 基线 y=32 落在第 1 行底边，x=16 对应第 2 列
	c.DrawText("Hi", 16, 32, layout.Paint{Color: layout.White, Typeface: layout.Typeface{Style: layout.FontBold}})

	r, _, style, _ := s.GetContent(2, 1)
	require.Equal(t, 'H', r)
	r, _, _, _ = s.GetContent(3, 1)
	require.Equal(t, 'i', r)
	_, _, attrs := style.Decompose()
	require.NotZero(t, attrs&tcell.AttrBold)
}

func TestCanvasFollowsTransform(t *testing.T) {
	s := newScreen(t, 20, 4)
	c := NewCanvas(s)

	save := c.Save()
	c.Scale(0.5, 0, 0)
	c.DrawText("x", 64, 64, layout.Paint{Color: layout.White})
	c.RestoreToCount(save)

	r, _, _, _ := s.GetContent(4, 1)
	require.Equal(t, 'x', r)
}

func TestCanvasSkipsTransparentText(t *testing.T) {
	s := newScreen(t, 10, 2)
	c := NewCanvas(s)
	c.DrawText("z", 0, 16, layout.Paint{Color: layout.Transparent})

	r, _, _, _ := s.GetContent(0, 0)
	require.NotEqual(t, 'z', r)
}

func TestSizeInHostUnits(t *testing.T) {
	s := newScreen(t, 10, 3)
	w, h := NewCanvas(s).Size()
	require.Equal(t, 80.0, w)
	require.Equal(t, 48.0, h)
}
