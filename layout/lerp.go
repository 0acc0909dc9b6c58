package layout

import "math"

// closeEpsilon 用于判断插值字号是否已经落在端点上。
const closeEpsilon = 0.001

// IsClose 判断两个值的差是否小于 closeEpsilon。
func IsClose(value, target float64) bool {
	return math.Abs(value-target) < closeEpsilon
}

// Clamp01 将比例限制在 [0,1]，NaN 视为 0。
func Clamp01(f float64) float64 {
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// Lerp 在 start 与 end 之间插值，interp 非空时先对比例做缓动变换。
// 使用 start*(1-f)+end*f 的形式，保证 f=0 与 f=1 时精确还原端点值。
func Lerp(start, end, fraction float64, interp Interpolator) float64 {
	if interp != nil {
		fraction = interp.Interpolation(fraction)
	}
	return start*(1-fraction) + end*fraction
}
