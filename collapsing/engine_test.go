package collapsing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ByLCY/subtitlebar/layout"
)

const delta = 1e-9

func TestNewValidatesDependencies(t *testing.T) {
	_, err := New(nil, &stubTypesetter{}, Options{})
	require.Error(t, err)

	_, err = New(&stubView{}, nil, Options{})
	require.Error(t, err)

	_, err = New(&stubView{}, &stubTypesetter{}, Options{UseTexture: true})
	require.Error(t, err, "texture mode without an allocator")
}

func TestHeaderEndpoints(t *testing.T) {
	e, _, _ := newHeaderEngine(t, Options{})
	require.True(t, e.Drawable())

	f := e.Frame()
	require.Equal(t, 0.0, f.Fraction)
	require.Equal(t, "Hello World", f.Title.Text)
	require.Equal(t, 24.0, f.Title.Size)
	require.Equal(t, 1.0, f.Title.Scale)
	// 展开端垂直居中：CenterY(25) + 24/2 - 6 - 副标题 ascent(11.25)
	require.InDelta(t, 19.75, f.Title.Y, delta)
	require.InDelta(t, 38.5, f.Subtitle.Y, delta)
	require.InDelta(t, 0, f.Title.X, delta)

	e.SetExpansionFraction(1)
	f = e.Frame()
	require.Equal(t, 12.0, f.Title.Size)
	require.Equal(t, 1.0, f.Title.Scale)
	// 折叠端三等分：offset = (30 - 12 - 15) / 3 = 1
	require.InDelta(t, 10, f.Title.Y, delta)
	require.InDelta(t, 25.25, f.Subtitle.Y, delta)
	require.Equal(t, 15.0, f.Subtitle.Size)
}

func TestFractionRoundTrip(t *testing.T) {
	e, _, _ := newHeaderEngine(t, Options{})
	title := e.lines[layout.Title]

	e.SetExpansionFraction(1)
	require.Equal(t, title.x.Collapsed, title.currentX)
	require.Equal(t, title.y.Collapsed, title.currentY)
	require.Equal(t, title.size.Collapsed, title.currentSize)

	e.SetExpansionFraction(0)
	require.Equal(t, title.x.Expanded, title.currentX)
	require.Equal(t, title.y.Expanded, title.currentY)
	require.Equal(t, title.size.Expanded, title.currentSize)
}

func TestSetExpansionFractionClamps(t *testing.T) {
	e, view, _ := newHeaderEngine(t, Options{})

	e.SetExpansionFraction(1.7)
	require.Equal(t, 1.0, e.ExpansionFraction())
	e.SetExpansionFraction(-2)
	require.Equal(t, 0.0, e.ExpansionFraction())
	e.SetExpansionFraction(math.NaN())
	require.Equal(t, 0.0, e.ExpansionFraction())

	frameAt := func(f float64) layout.Frame {
		e.SetExpansionFraction(f)
		return e.Frame()
	}
	collapsed := frameAt(1)
	frameAt(0.3)
	require.Equal(t, collapsed, frameAt(1.7))
	expanded := frameAt(0)
	frameAt(0.6)
	require.Equal(t, expanded, frameAt(-0.5))

	before := view.invalidations
	e.SetExpansionFraction(0)
	require.Equal(t, before, view.invalidations, "unchanged fraction must not redraw")
	e.SetExpansionFraction(0.25)
	require.Equal(t, before+1, view.invalidations)
}

func TestIntermediateFractionScalesExpandedText(t *testing.T) {
	e, _, _ := newHeaderEngine(t, Options{})
	e.SetExpansionFraction(0.5)

	f := e.Frame()
	require.Equal(t, 24.0, f.Title.Size, "text is laid out at the expanded size")
	require.InDelta(t, 0.75, f.Title.Scale, delta)
	require.InDelta(t, 14.875, f.Title.Y, delta)
}

func TestSettersAreIdempotent(t *testing.T) {
	e, _, ts := newHeaderEngine(t, Options{})
	n := e.Recalculations()
	calls := ts.ellipsizeCalls

	e.SetTextSize(layout.Title, layout.Collapsed, 12)
	e.SetTextSize(layout.Title, layout.Expanded, -3)
	e.SetTextSize(layout.Title, layout.Expanded, 0)
	e.SetBounds(layout.Collapsed, layout.Rect{Right: 200, Bottom: 30})
	e.SetTitle("Hello World")
	e.SetGravity(layout.Expanded, layout.GravityCenterVertical)
	e.SetTypefaces(layout.Title, layout.DefaultTypeface)
	e.SetShadow(layout.Subtitle, layout.Collapsed, layout.Shadow{})
	e.SetTextColor(layout.Title, layout.Collapsed, layout.StaticColor(layout.Black))

	require.Equal(t, n, e.Recalculations())
	require.Equal(t, calls, ts.ellipsizeCalls)
	require.Equal(t, 24.0, e.TextSize(layout.Title, layout.Expanded))

	e.SetTextSize(layout.Title, layout.Collapsed, 14)
	require.Equal(t, n+1, e.Recalculations())
}

func TestStyleSettersRecalculateOnce(t *testing.T) {
	list := layout.NewStateList(
		layout.StateSpec{Required: layout.StatePressed, Color: layout.White},
		layout.StateSpec{Color: layout.Black},
	)
	styles := stubStyles{
		"Headline": {
			Name:     "Headline",
			Color:    layout.StaticColor(layout.White),
			Size:     30,
			Typeface: layout.Typeface{Family: "go", Style: layout.FontBold},
			Shadow:   layout.Shadow{Radius: 2, Color: layout.Black},
		},
	}
	e, _, _ := newHeaderEngine(t, Options{Styles: styles})
	e.SetTextColor(layout.Title, layout.Collapsed, list)

	cases := []struct {
		name string
		set  func()
	}{
		{"state", func() { e.SetState(layout.StatePressed) }},
		{"position interpolator", func() { e.SetPositionInterpolator(layout.FastOutSlowIn) }},
		{"size interpolator", func() { e.SetTextSizeInterpolator(layout.Accelerate) }},
		{"appearance", func() {
			require.NoError(t, e.SetAppearance(layout.Title, layout.Expanded, "Headline"))
		}},
	}
	for _, tc := range cases {
		n := e.Recalculations()
		tc.set()
		tc.set()
		require.Equal(t, n+1, e.Recalculations(), tc.name)
	}

	// nil 与 Linear 等价
	n := e.Recalculations()
	e.SetPositionInterpolator(nil)
	e.SetPositionInterpolator(layout.Linear)
	require.Equal(t, n+1, e.Recalculations())
	require.False(t, e.SetState(layout.StatePressed))
}

func TestSetTypefacesRecalculatesOnce(t *testing.T) {
	e, _, _ := newHeaderEngine(t, Options{})
	n := e.Recalculations()

	face := layout.Typeface{Family: "go", Style: layout.FontBold}
	e.SetTypefaces(layout.Subtitle, face)
	require.Equal(t, n+1, e.Recalculations())
	require.Equal(t, face, e.Typeface(layout.Subtitle, layout.Collapsed))
	require.Equal(t, face, e.Typeface(layout.Subtitle, layout.Expanded))
}

func TestTruncationUsesAvailableWidth(t *testing.T) {
	e, _, _ := newHeaderEngine(t, Options{})
	e.SetBounds(layout.Collapsed, layout.Rect{Right: 40, Bottom: 30})

	// 折叠端只有 40 宽：6 * (5+1) = 36 <= 40
	e.SetExpansionFraction(1)
	require.Equal(t, "Hello…", e.Frame().Title.Text)

	// 展开端缩小一半后超出折叠宽度，可用宽度为 min(40/0.5, 200) = 80
	e.SetExpansionFraction(0)
	text := e.Frame().Title.Text
	require.Equal(t, "Hello…", text)
	require.LessOrEqual(t, stubWidth(text, 24), 80.0)
}

func TestTextOnlyRetruncatedOnChange(t *testing.T) {
	e, _, ts := newHeaderEngine(t, Options{})
	e.SetExpansionFraction(0.5)
	calls := ts.ellipsizeCalls

	// 在展开端字号范围内移动比例不改变排版字号，不需要重新截断
	e.SetExpansionFraction(0.4)
	e.SetExpansionFraction(0.3)
	require.Equal(t, calls, ts.ellipsizeCalls)
}

func TestSingleLineFallback(t *testing.T) {
	e, _, _ := newHeaderEngine(t, Options{})
	e.SetSubtitle("")

	f := e.Frame()
	require.False(t, f.Subtitle.Present)
	// 展开端：CenterY(25) + 24/2 - 6
	require.InDelta(t, 31, f.Title.Y, delta)

	e.SetExpansionFraction(1)
	// 折叠端：CenterY(15) + 12/2 - 3
	require.InDelta(t, 18, e.Frame().Title.Y, delta)

	e.SetGravity(layout.Collapsed, layout.GravityBottom)
	require.InDelta(t, 30, e.Frame().Title.Y, delta)
	e.SetGravity(layout.Collapsed, layout.GravityTop)
	require.InDelta(t, 9, e.Frame().Title.Y, delta)
}

func TestCollapsedTwoLineIgnoresGravity(t *testing.T) {
	e, _, _ := newHeaderEngine(t, Options{})
	e.SetExpansionFraction(1)
	center := e.Frame().Title.Y

	e.SetGravity(layout.Collapsed, layout.GravityBottom)
	require.Equal(t, center, e.Frame().Title.Y)
	e.SetGravity(layout.Collapsed, layout.GravityTop)
	require.Equal(t, center, e.Frame().Title.Y)
}

func TestExpandedTwoLineGravity(t *testing.T) {
	e, _, _ := newHeaderEngine(t, Options{})

	e.SetGravity(layout.Expanded, layout.GravityBottom)
	require.InDelta(t, 50-11.25, e.Frame().Title.Y, delta)

	e.SetGravity(layout.Expanded, layout.GravityTop)
	f := e.Frame()
	require.InDelta(t, 18, f.Title.Y, delta)
	require.InDelta(t, 18+7.5+11.25, f.Subtitle.Y, delta)
}

func TestHorizontalGravity(t *testing.T) {
	e, _, _ := newHeaderEngine(t, Options{})

	e.SetGravity(layout.Expanded, layout.GravityCenterHorizontal|layout.GravityCenterVertical)
	f := e.Frame()
	require.InDelta(t, 100-66, f.Title.X, delta)
	require.InDelta(t, 100-11.25, f.Subtitle.X, delta)

	e.SetGravity(layout.Expanded, layout.GravityEnd)
	require.InDelta(t, 200-132, e.Frame().Title.X, delta)
}

func TestRTLTitleFlipsStartGravity(t *testing.T) {
	e, _, _ := newHeaderEngine(t, Options{})
	e.SetGravity(layout.Collapsed, layout.GravityStart|layout.GravityCenterVertical)
	e.SetTitle("שלום")
	require.True(t, e.IsRTL())

	e.SetExpansionFraction(1)
	require.InDelta(t, 200-24, e.Frame().Title.X, delta)

	e.SetTitle("Hello")
	require.False(t, e.IsRTL())
	require.InDelta(t, 0, e.Frame().Title.X, delta)
}

func TestDirectionFallsBackToView(t *testing.T) {
	view := &stubView{width: 200, height: 80, rtl: true}
	e, err := New(view, &stubTypesetter{}, Options{})
	require.NoError(t, err)
	e.SetBounds(layout.Expanded, layout.Rect{Right: 200, Bottom: 50})
	e.SetBounds(layout.Collapsed, layout.Rect{Right: 200, Bottom: 30})
	e.SetTitle("123")
	require.True(t, e.IsRTL())

	e.SetSubtitle("abc")
	require.False(t, e.IsRTL(), "subtitle decides when the title has no strong character")
}

func TestColorBlend(t *testing.T) {
	e, _, _ := newHeaderEngine(t, Options{})
	e.SetTextColor(layout.Title, layout.Expanded, layout.StaticColor(layout.Black))
	e.SetTextColor(layout.Title, layout.Collapsed, layout.StaticColor(layout.White))

	prev := -1
	for i := 0; i <= 20; i++ {
		e.SetExpansionFraction(float64(i) / 20)
		c := e.Frame().Title.Color
		require.GreaterOrEqual(t, int(c.R), prev)
		prev = int(c.R)
	}
	require.Equal(t, layout.White, e.Frame().Title.Color)
	e.SetExpansionFraction(0)
	require.Equal(t, layout.Black, e.Frame().Title.Color)

	// 通道值按截断取整
	e.SetExpansionFraction(0.5)
	require.Equal(t, uint8(127), e.Frame().Title.Color.R)
}

func TestIdenticalColorsStayExact(t *testing.T) {
	e, _, _ := newHeaderEngine(t, Options{})
	c := layout.Color{A: 0xff, R: 10, G: 20, B: 30}
	e.SetTextColor(layout.Subtitle, layout.Expanded, layout.StaticColor(c))
	e.SetTextColor(layout.Subtitle, layout.Collapsed, layout.StaticColor(c))

	for _, f := range []float64{0, 0.13, 0.37, 0.5, 0.91, 1} {
		e.SetExpansionFraction(f)
		require.Equal(t, c, e.Frame().Subtitle.Color)
	}
}

func TestStatefulColors(t *testing.T) {
	e, _, _ := newHeaderEngine(t, Options{})
	red := layout.Color{A: 0xff, R: 0xff}
	blue := layout.Color{A: 0xff, B: 0xff}

	require.False(t, e.SetState(layout.StateFocused), "static colors ignore state")

	list := layout.NewStateList(
		layout.StateSpec{Required: layout.StatePressed, Color: red},
		layout.StateSpec{Color: blue},
	)
	e.SetTextColor(layout.Title, layout.Collapsed, list)
	e.SetTextColor(layout.Title, layout.Expanded, list)
	require.True(t, e.IsStateful())

	require.True(t, e.SetState(layout.StatePressed))
	require.Equal(t, red, e.Frame().Title.Color)
	require.Equal(t, red, e.CurrentColor(layout.Title))

	require.True(t, e.SetState(layout.StateEnabled))
	require.Equal(t, blue, e.Frame().Title.Color)
}

func TestShadowInterpolation(t *testing.T) {
	e, _, _ := newHeaderEngine(t, Options{})
	e.SetShadow(layout.Title, layout.Expanded, layout.Shadow{Radius: 4, Dy: 2, Color: layout.Black})
	e.SetExpansionFraction(0.5)

	s := e.Frame().Title.Shadow
	require.InDelta(t, 2, s.Radius, delta)
	require.InDelta(t, 1, s.Dy, delta)
}

func TestSetAppearance(t *testing.T) {
	styles := stubStyles{
		"Headline": {
			Name:     "Headline",
			Color:    layout.StaticColor(layout.White),
			Size:     30,
			Typeface: layout.Typeface{Family: "go", Style: layout.FontBold},
		},
		"Shadowed": {
			Name:   "Shadowed",
			Shadow: layout.Shadow{Radius: 2, Color: layout.Black},
		},
	}
	e, _, _ := newHeaderEngine(t, Options{Styles: styles})

	require.NoError(t, e.SetAppearance(layout.Title, layout.Expanded, "Headline"))
	require.Equal(t, 30.0, e.TextSize(layout.Title, layout.Expanded))
	require.Equal(t, layout.FontBold, e.Typeface(layout.Title, layout.Expanded).Style)

	// 未声明颜色与字号时保留原值，字体重置为默认
	require.NoError(t, e.SetAppearance(layout.Title, layout.Expanded, "Shadowed"))
	require.Equal(t, 30.0, e.TextSize(layout.Title, layout.Expanded))
	require.Equal(t, layout.StaticColor(layout.White), e.TextColor(layout.Title, layout.Expanded))
	require.True(t, e.Typeface(layout.Title, layout.Expanded).IsDefault())
	require.Equal(t, 2.0, e.Shadow(layout.Title, layout.Expanded).Radius)
}

func TestSetAppearanceConfigError(t *testing.T) {
	e, _, _ := newHeaderEngine(t, Options{Styles: stubStyles{}})
	n := e.Recalculations()

	err := e.SetAppearance(layout.Subtitle, layout.Collapsed, "Missing")
	require.Error(t, err)
	require.True(t, errors.Is(err, layout.ErrConfig))
	var cfg *layout.ConfigError
	require.True(t, errors.As(err, &cfg))
	require.Equal(t, "Missing", cfg.Resource)

	require.Equal(t, n, e.Recalculations(), "failed lookup leaves state untouched")
	require.Equal(t, 15.0, e.TextSize(layout.Subtitle, layout.Collapsed))

	noStyles, _, _ := newHeaderEngine(t, Options{})
	require.ErrorIs(t, noStyles.SetAppearance(layout.Title, layout.Collapsed, "Any"), layout.ErrConfig)
}

func TestWaitsForViewSize(t *testing.T) {
	view := &stubView{}
	e, err := New(view, &stubTypesetter{}, Options{})
	require.NoError(t, err)
	e.SetBounds(layout.Expanded, layout.Rect{Right: 200, Bottom: 50})
	e.SetBounds(layout.Collapsed, layout.Rect{Right: 200, Bottom: 30})
	e.SetTitle("Hello")
	require.True(t, e.Dirty())
	require.Zero(t, e.Recalculations())

	c := newRecordingCanvas()
	e.Draw(c)
	require.Empty(t, c.ops)

	view.width, view.height = 200, 80
	e.Draw(c)
	require.False(t, e.Dirty())
	require.Len(t, c.draws(), 1)
}
