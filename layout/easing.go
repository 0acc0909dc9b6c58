package layout

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Interpolator 将 [0,1] 的输入映射为缓动后的比例。
type Interpolator interface {
	Interpolation(input float64) float64
}

// InterpolatorFunc 让普通函数实现 Interpolator。
type InterpolatorFunc func(float64) float64

func (f InterpolatorFunc) Interpolation(input float64) float64 { return f(input) }

// polynomial 是内置的多项式缓动，取值可比较。
type polynomial uint8

const (
	linear polynomial = iota
	accelerate
	decelerate
)

func (p polynomial) Interpolation(t float64) float64 {
	switch p {
	case accelerate:
		return t * t
	case decelerate:
		return 1 - (1-t)*(1-t)
	default:
		return t
	}
}

var (
	Linear     Interpolator = linear
	Accelerate Interpolator = accelerate
	Decelerate Interpolator = decelerate

	FastOutSlowIn   = CubicBezier(0.4, 0, 0.2, 1)
	FastOutLinearIn = CubicBezier(0.4, 0, 1, 1)
	LinearOutSlowIn = CubicBezier(0, 0, 0.2, 1)
)

// SameInterpolator 判断两个缓动是否相同。nil 与 Linear 等价；
// 函数等不可比较的实现永远视为不同。
func SameInterpolator(a, b Interpolator) bool {
	if a == nil {
		a = Linear
	}
	if b == nil {
		b = Linear
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// InterpolatorByName 按名称查找内置缓动曲线，空字符串表示线性。
func InterpolatorByName(name string) (Interpolator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear":
		return Linear, nil
	case "accelerate":
		return Accelerate, nil
	case "decelerate":
		return Decelerate, nil
	case "fast-out-slow-in":
		return FastOutSlowIn, nil
	case "fast-out-linear-in":
		return FastOutLinearIn, nil
	case "linear-out-slow-in":
		return LinearOutSlowIn, nil
	default:
		return nil, fmt.Errorf("未知的缓动曲线 %q", name)
	}
}

// cubicBezier 是端点固定为 (0,0)、(1,1) 的三次贝塞尔缓动。
type cubicBezier struct {
	x1, y1, x2, y2 float64
}

// CubicBezier 返回由两个控制点确定的缓动曲线。
func CubicBezier(x1, y1, x2, y2 float64) Interpolator {
	return cubicBezier{x1: x1, y1: y1, x2: x2, y2: y2}
}

func bezierCoord(t, p1, p2 float64) float64 {
	u := 1 - t
	return 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t
}

func bezierSlope(t, p1, p2 float64) float64 {
	u := 1 - t
	return 3*u*u*p1 + 6*u*t*(p2-p1) + 3*t*t*(1-p2)
}

func (c cubicBezier) Interpolation(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	// 先用牛顿迭代求 t，收敛失败时退回二分。
	t := x
	for i := 0; i < 8; i++ {
		dx := bezierCoord(t, c.x1, c.x2) - x
		if math.Abs(dx) < 1e-7 {
			return bezierCoord(t, c.y1, c.y2)
		}
		slope := bezierSlope(t, c.x1, c.x2)
		if math.Abs(slope) < 1e-6 {
			break
		}
		t -= dx / slope
	}
	lo, hi := 0.0, 1.0
	t = x
	for i := 0; i < 32; i++ {
		v := bezierCoord(t, c.x1, c.x2)
		if math.Abs(v-x) < 1e-7 {
			break
		}
		if v < x {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) / 2
	}
	return bezierCoord(t, c.y1, c.y2)
}
