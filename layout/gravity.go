package layout

import (
	"fmt"
	"strings"
)

// Gravity 描述文本在边界内的对齐方式，水平与垂直位可组合。
// 未设置水平位时按左对齐处理，未设置垂直位时按垂直居中处理。
type Gravity uint16

const (
	GravityLeft Gravity = 1 << iota
	GravityRight
	GravityCenterHorizontal
	GravityStart // 相对方向：LTR 为左，RTL 为右
	GravityEnd
	GravityTop
	GravityBottom
	GravityCenterVertical

	GravityCenter = GravityCenterHorizontal | GravityCenterVertical

	horizontalMask = GravityLeft | GravityRight | GravityCenterHorizontal | GravityStart | GravityEnd
	verticalMask   = GravityTop | GravityBottom | GravityCenterVertical
)

// HAlign 是解析方向后的绝对水平对齐。
type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

// VAlign 是垂直对齐。
type VAlign int

const (
	AlignCenterVertical VAlign = iota
	AlignTop
	AlignBottom
)

// Horizontal 按文本方向把相对对齐解析为绝对对齐。
func (g Gravity) Horizontal(rtl bool) HAlign {
	switch {
	case g&GravityCenterHorizontal != 0:
		return AlignCenter
	case g&GravityStart != 0:
		if rtl {
			return AlignRight
		}
		return AlignLeft
	case g&GravityEnd != 0:
		if rtl {
			return AlignLeft
		}
		return AlignRight
	case g&GravityRight != 0:
		return AlignRight
	default:
		return AlignLeft
	}
}

// Vertical 返回垂直对齐，底部优先于顶部。
func (g Gravity) Vertical() VAlign {
	switch {
	case g&GravityBottom != 0:
		return AlignBottom
	case g&GravityTop != 0:
		return AlignTop
	default:
		return AlignCenterVertical
	}
}

var gravityNames = []struct {
	name string
	g    Gravity
}{
	{"left", GravityLeft},
	{"right", GravityRight},
	{"center-horizontal", GravityCenterHorizontal},
	{"start", GravityStart},
	{"end", GravityEnd},
	{"top", GravityTop},
	{"bottom", GravityBottom},
	{"center-vertical", GravityCenterVertical},
}

// ParseGravity 解析形如 "bottom|start" 的组合，"center" 同时设置两个方向的居中。
func ParseGravity(s string) (Gravity, error) {
	var g Gravity
	for _, part := range strings.Split(s, "|") {
		p := strings.ToLower(strings.TrimSpace(part))
		if p == "" {
			continue
		}
		if p == "center" {
			g |= GravityCenter
			continue
		}
		found := false
		for _, n := range gravityNames {
			if n.name == p {
				g |= n.g
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("未知的 gravity %q", part)
		}
	}
	if g&horizontalMask == (GravityLeft|GravityRight) || g&verticalMask == (GravityTop|GravityBottom) {
		return 0, fmt.Errorf("gravity %q 同时包含相反方向", s)
	}
	return g, nil
}

func (g Gravity) String() string {
	if g == GravityCenter {
		return "center"
	}
	var parts []string
	for _, n := range gravityNames {
		if g&n.g != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
