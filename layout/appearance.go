package layout

import (
	"errors"
	"fmt"
)

// ErrConfig 标记样式资源配置错误，可用 errors.Is 判断。
var ErrConfig = errors.New("样式资源配置错误")

// ConfigError 描述无法解析的样式资源。
type ConfigError struct {
	Resource string // 资源标识，例如 appearance 名称
	Key      string // 出错的属性，可为空
	Err      error
}

func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("样式资源 %s 的属性 %s 无效: %v", e.Resource, e.Key, e.Err)
	}
	return fmt.Sprintf("样式资源 %s 无效: %v", e.Resource, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// Appearance 是从样式资源解析出的文字外观。
// Color 为 nil、Size 为 0 表示资源中未声明；Shadow 与 Typeface 总会被应用。
type Appearance struct {
	Name     string      `json:"name"`
	Color    ColorSource `json:"-"`
	Size     float64     `json:"size,omitempty"`
	Shadow   Shadow      `json:"shadow"`
	Typeface Typeface    `json:"typeface"`
}
