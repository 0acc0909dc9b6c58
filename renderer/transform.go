package renderer

// Transform 是只含等比缩放与平移的仿射变换：p' = p*Scale + (TX, TY)。
type Transform struct {
	Scale float64
	TX    float64
	TY    float64
}

// Identity 是单位变换。
var Identity = Transform{Scale: 1}

// Apply 变换一个点。
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.Scale + t.TX, y*t.Scale + t.TY
}

// ScaleAbout 返回先在局部坐标中以 (px, py) 为中心缩放 s、再应用 t 的变换。
func (t Transform) ScaleAbout(s, px, py float64) Transform {
	return Transform{
		Scale: t.Scale * s,
		TX:    t.Scale*px*(1-s) + t.TX,
		TY:    t.Scale*py*(1-s) + t.TY,
	}
}

// TransformStack 为 Canvas 实现提供 Save/RestoreToCount/Scale 语义。
type TransformStack struct {
	saved   []Transform
	current Transform
}

// NewTransformStack 返回以单位变换开始的栈。
func NewTransformStack() *TransformStack {
	return &TransformStack{current: Identity}
}

// Save 压栈并返回压栈前的深度，供 RestoreToCount 使用。
func (s *TransformStack) Save() int {
	s.saved = append(s.saved, s.current)
	return len(s.saved) - 1
}

// RestoreToCount 弹栈直到深度回到 count。
func (s *TransformStack) RestoreToCount(count int) {
	if count < 0 {
		count = 0
	}
	for len(s.saved) > count {
		s.current = s.saved[len(s.saved)-1]
		s.saved = s.saved[:len(s.saved)-1]
	}
}

// Scale 在当前变换上叠加以 (px, py) 为中心的等比缩放。
func (s *TransformStack) Scale(scale, px, py float64) {
	s.current = s.current.ScaleAbout(scale, px, py)
}

// Current 返回当前变换。
func (s *TransformStack) Current() Transform { return s.current }

// Depth 返回已保存的层数。
func (s *TransformStack) Depth() int { return len(s.saved) }
