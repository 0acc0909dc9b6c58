package layout

// FontMetrics 记录某字体在某字号下的度量，Ascent 与 Descent 均为正值：
// Ascent 为基线以上高度，Descent 为基线以下高度。
type FontMetrics struct {
	Ascent  float64 `json:"ascent"`
	Descent float64 `json:"descent"`
}

// Height 返回 Ascent+Descent。
func (m FontMetrics) Height() float64 { return m.Ascent + m.Descent }

// Typesetter 是文字度量服务：返回字体度量、单行宽度，并按宽度截断加省略号。
// 所有长度与字号均使用宿主坐标单位；返回错误视为度量失败。
type Typesetter interface {
	Metrics(face Typeface, size float64) (FontMetrics, error)
	Measure(text string, face Typeface, size float64) (float64, error)
	Ellipsize(text string, face Typeface, size float64, avail float64) (string, error)
}
