package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// builtin 为内置 Go 字体族的 TTF 数据，键为不带扩展名的文件名。
var builtin = map[string][]byte{
	"Go-Regular":     goregular.TTF,
	"Go-Bold":        gobold.TTF,
	"Go-Italic":      goitalic.TTF,
	"Go-BoldItalic":  gobolditalic.TTF,
	"Go-Medium":      gomedium.TTF,
	"GoMono-Regular": gomono.TTF,
	"GoMono-Bold":    gomonobold.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:Go-Regular"、"Go-Regular.ttf" 或 "Go-Regular"。
func Load(name string) ([]byte, error) {
	clean := strings.TrimPrefix(strings.TrimSpace(name), "embed:")
	clean = strings.TrimSuffix(clean, ".ttf")
	data, ok := builtin[clean]
	if !ok {
		return nil, fmt.Errorf("内置字体 %s 不存在，可用: %s", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names 列出全部内置字体名称（已排序）。
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
