package layout

// 该文件定义折叠标题引擎共享的几何与帧快照类型，供引擎、渲染器与调试 JSON 共用。

// Line 标识两行文本中的一行。
type Line int

const (
	Title Line = iota
	Subtitle
)

// Lines 按绘制无关的固定顺序列出两行。
var Lines = [...]Line{Title, Subtitle}

func (l Line) String() string {
	switch l {
	case Title:
		return "title"
	case Subtitle:
		return "subtitle"
	default:
		return "unknown"
	}
}

// End 标识插值的两个端点之一。
type End int

const (
	Collapsed End = iota
	Expanded
)

// Ends 列出两个端点，折叠端在前（求解顺序与之一致）。
var Ends = [...]End{Collapsed, Expanded}

func (e End) String() string {
	if e == Collapsed {
		return "collapsed"
	}
	return "expanded"
}

// Endpoint 保存同一属性在折叠端与展开端的两个取值。
type Endpoint[T any] struct {
	Collapsed T `json:"collapsed"`
	Expanded  T `json:"expanded"`
}

// Both 返回两个端点取值相同的 Endpoint。
func Both[T any](v T) Endpoint[T] {
	return Endpoint[T]{Collapsed: v, Expanded: v}
}

// At 返回指定端点的取值。
func (e Endpoint[T]) At(end End) T {
	if end == Collapsed {
		return e.Collapsed
	}
	return e.Expanded
}

// Set 写入指定端点的取值。
func (e *Endpoint[T]) Set(end End, v T) {
	if end == Collapsed {
		e.Collapsed = v
		return
	}
	e.Expanded = v
}

// Rect 是宿主视图坐标中的整数矩形，Right/Bottom 为开区间。
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

// Empty 在宽或高不为正时返回 true，此时该端点不可绘制。
func (r Rect) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// CenterX 与宿主框架一致，使用整数中点。
func (r Rect) CenterX() int { return (r.Left + r.Right) >> 1 }
func (r Rect) CenterY() int { return (r.Top + r.Bottom) >> 1 }

// Inset 按四边边距收缩矩形。
func (r Rect) Inset(m Margin) Rect {
	return Rect{
		Left:   r.Left + m.Left,
		Top:    r.Top + m.Top,
		Right:  r.Right - m.Right,
		Bottom: r.Bottom - m.Bottom,
	}
}

// RectF 为浮点矩形，用于插值后的当前边界。
type RectF struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Margin 以宿主坐标单位记录四边边距。
type Margin struct {
	Left   int `json:"left" toml:"left"`
	Top    int `json:"top" toml:"top"`
	Right  int `json:"right" toml:"right"`
	Bottom int `json:"bottom" toml:"bottom"`
}

// Shadow 描述文字阴影，Color 的 alpha 为 0 时视为无阴影。
type Shadow struct {
	Radius float64 `json:"radius"`
	Dx     float64 `json:"dx"`
	Dy     float64 `json:"dy"`
	Color  Color   `json:"color"`
}

// Visible 判断阴影是否需要绘制。
func (s Shadow) Visible() bool { return s.Color.A > 0 }

// LerpShadow 线性插值阴影参数并混合阴影颜色。
func LerpShadow(from, to Shadow, fraction float64) Shadow {
	return Shadow{
		Radius: Lerp(from.Radius, to.Radius, fraction, nil),
		Dx:     Lerp(from.Dx, to.Dx, fraction, nil),
		Dy:     Lerp(from.Dy, to.Dy, fraction, nil),
		Color:  BlendColors(from.Color, to.Color, fraction),
	}
}

// Paint 是绘制一行文本所需的全部样式。
type Paint struct {
	Typeface   Typeface `json:"typeface"`
	Size       float64  `json:"size"`
	Color      Color    `json:"color"`
	Shadow     Shadow   `json:"shadow"`
	LinearText bool     `json:"linearText,omitempty"` // 按比例缩放绘制时关闭字形微调
}

// Frame 是某一折叠比例下可直接绘制的快照。
type Frame struct {
	Fraction float64   `json:"fraction"`
	Drawable bool      `json:"drawable"`
	RTL      bool      `json:"rtl,omitempty"`
	Bounds   RectF     `json:"bounds"`
	Title    LineFrame `json:"title"`
	Subtitle LineFrame `json:"subtitle"`
}

// Line 按行标识返回对应的行快照。
func (f Frame) Line(l Line) LineFrame {
	if l == Subtitle {
		return f.Subtitle
	}
	return f.Title
}

// LineFrame 记录一行文本在当前比例下的位置、缩放与样式。
type LineFrame struct {
	Present  bool     `json:"present"`
	Text     string   `json:"text"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Scale    float64  `json:"scale"`
	Size     float64  `json:"size"`
	Typeface Typeface `json:"typeface"`
	Color    Color    `json:"color"`
	Shadow   Shadow   `json:"shadow"`
	Textured bool     `json:"textured,omitempty"`
}
