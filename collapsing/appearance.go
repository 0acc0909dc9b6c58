package collapsing

import (
	"fmt"

	"github.com/ByLCY/subtitlebar/layout"
)

// SetAppearance 从样式资源加载某一行在某一端点的外观。
// 资源声明了颜色或字号时才覆盖对应属性；阴影与字体总会被覆盖。
// 解析失败时返回包装了 *layout.ConfigError 的错误，引擎状态保持不变。
func (e *Engine) SetAppearance(line layout.Line, end layout.End, id string) error {
	if e.styles == nil {
		return &layout.ConfigError{Resource: id, Err: fmt.Errorf("引擎未配置 StyleResolver")}
	}
	a, err := e.styles.Appearance(id)
	if err != nil {
		return fmt.Errorf("加载 %s 的 %s 外观 %q 失败: %w", line, end, id, err)
	}

	l := e.line(line)
	changed := false
	if a.Color != nil && l.color.At(end) != a.Color {
		l.color.Set(end, a.Color)
		changed = true
	}
	if a.Size > 0 && l.size.At(end) != a.Size {
		l.size.Set(end, a.Size)
		changed = true
	}
	if l.shadow.At(end) != a.Shadow {
		l.shadow.Set(end, a.Shadow)
		changed = true
	}
	if l.face.At(end) != a.Typeface {
		l.face.Set(end, a.Typeface)
		changed = true
	}
	if changed {
		e.invalidate()
	}
	return nil
}
