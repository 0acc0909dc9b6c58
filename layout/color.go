package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Color 采用 0-255 的 ARGB 分量。
type Color struct {
	A uint8
	R uint8
	G uint8
	B uint8
}

var (
	Black       = Color{A: 0xff}
	White       = Color{A: 0xff, R: 0xff, G: 0xff, B: 0xff}
	Transparent = Color{}
	Magenta     = Color{A: 0xff, R: 0xff, B: 0xff}
)

// ARGB 由 0xAARRGGBB 形式的整数构造颜色。
func ARGB(v uint32) Color {
	return Color{A: uint8(v >> 24), R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// Uint32 返回 0xAARRGGBB 形式。
func (c Color) Uint32() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// RGBA 实现 image/color.Color，返回预乘后的分量。
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A)
	a |= a << 8
	r = uint32(c.R) * a / 0xff
	g = uint32(c.G) * a / 0xff
	b = uint32(c.B) * a / 0xff
	return r, g, b, a
}

// WithAlpha 返回替换 alpha 后的颜色。
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

func (c Color) String() string { return fmt.Sprintf("#%08X", c.Uint32()) }

// MarshalText 让调试 JSON 中的颜色以 #AARRGGBB 输出。
func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText 解析 #RGB、#RRGGBB、#AARRGGBB。
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseHexColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseHexColor 解析 #RGB、#RRGGBB 与 #AARRGGBB；省略 alpha 时为不透明。
func ParseHexColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		hex = "ff" + string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
		hex = "ff" + hex
	case 8:
	default:
		return Color{}, fmt.Errorf("无效的颜色 %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("无效的颜色 %q: %w", s, err)
	}
	return ARGB(uint32(v)), nil
}

// BlendColors 按 ratio 对 ARGB 各通道做线性混合，ratio=0 得到 from，ratio=1 得到 to。
// 两色相同时原样返回，避免浮点截断带来的偏差。
func BlendColors(from, to Color, ratio float64) Color {
	if from == to {
		return from
	}
	inverse := 1 - ratio
	mix := func(a, b uint8) uint8 {
		v := float64(a)*inverse + float64(b)*ratio
		switch {
		case v <= 0:
			return 0
		case v >= 255:
			return 255
		}
		return uint8(v)
	}
	return Color{
		A: mix(from.A, to.A),
		R: mix(from.R, to.R),
		G: mix(from.G, to.G),
		B: mix(from.B, to.B),
	}
}

// State 是交互状态位集合（按下、聚焦等）。
type State uint32

const (
	StateEnabled State = 1 << iota
	StatePressed
	StateFocused
	StateSelected
	StateActivated
	StateHovered
	StateChecked
)

var stateNames = []struct {
	name  string
	state State
}{
	{"enabled", StateEnabled},
	{"pressed", StatePressed},
	{"focused", StateFocused},
	{"selected", StateSelected},
	{"activated", StateActivated},
	{"hovered", StateHovered},
	{"checked", StateChecked},
}

// ParseState 将状态名解析为单个状态位。
func ParseState(name string) (State, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, s := range stateNames {
		if s.name == n {
			return s.state, nil
		}
	}
	return 0, fmt.Errorf("未知的交互状态 %q", name)
}

func (s State) String() string {
	var parts []string
	for _, n := range stateNames {
		if s&n.state != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ColorSource 是文字颜色的来源：单一静态颜色或随交互状态变化的颜色表。
type ColorSource interface {
	// ColorForState 返回给定状态下的颜色。
	ColorForState(state State) Color
	// DefaultColor 在尚未提供状态时使用。
	DefaultColor() Color
	// IsStateful 表示颜色是否会随状态变化。
	IsStateful() bool
}

// StaticColor 是与状态无关的颜色。
type StaticColor Color

func (c StaticColor) ColorForState(State) Color { return Color(c) }
func (c StaticColor) DefaultColor() Color       { return Color(c) }
func (c StaticColor) IsStateful() bool          { return false }

// StateSpec 是状态颜色表中的一项：Required 全部置位且 Excluded 全部未置位时命中。
type StateSpec struct {
	Required State
	Excluded State
	Color    Color
}

// Matches 判断状态集合是否命中该项。
func (s StateSpec) Matches(state State) bool {
	return state&s.Required == s.Required && state&s.Excluded == 0
}

// StateList 是按顺序匹配的状态颜色表，第一项命中即返回。
// 只以指针形式使用，比较时按引用判等。
type StateList struct {
	Specs        []StateSpec
	defaultColor Color
}

// NewStateList 构造颜色表；默认色取第一个无条件项，没有则取第一项。
func NewStateList(specs ...StateSpec) *StateList {
	l := &StateList{Specs: specs}
	for _, s := range specs {
		if s.Required == 0 && s.Excluded == 0 {
			l.defaultColor = s.Color
			return l
		}
	}
	if len(specs) > 0 {
		l.defaultColor = specs[0].Color
	}
	return l
}

func (l *StateList) ColorForState(state State) Color {
	for _, s := range l.Specs {
		if s.Matches(state) {
			return s.Color
		}
	}
	return l.defaultColor
}

func (l *StateList) DefaultColor() Color { return l.defaultColor }

func (l *StateList) IsStateful() bool {
	for _, s := range l.Specs {
		if s.Required != 0 || s.Excluded != 0 {
			return true
		}
	}
	return false
}

// ResolveColor 在有状态时按状态取色，否则取默认色；src 为空时返回黑色。
func ResolveColor(src ColorSource, state State, hasState bool) Color {
	if src == nil {
		return Black
	}
	if hasState {
		return src.ColorForState(state)
	}
	return src.DefaultColor()
}
