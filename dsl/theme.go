package dsl

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ByLCY/subtitlebar/layout"
)

var (
	errUndefined = errors.New("未定义")
	errCycle     = errors.New("继承关系存在循环")
)

// FontSource 是主题中登记的字体来源。
type FontSource struct {
	Family string
	Style  layout.FontStyle
	Src    string
}

// Theme 是编译后的主题：命名颜色、状态颜色表、字体来源与外观。
// 外观在首次查找时才解析，错误以 *layout.ConfigError 返回。
type Theme struct {
	Name    string
	Version string
	Fonts   []FontSource

	density     float64
	colors      map[string]layout.Color
	lists       map[string]*layout.StateList
	appearances map[string]*AppearanceDecl
	cache       map[string]layout.Appearance
}

// Load 读取并编译主题文件。
func Load(path string) (*Theme, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开主题文件 %s: %w", path, err)
	}
	defer file.Close()

	doc, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("解析主题 %s 失败: %w", path, err)
	}
	return Compile(doc)
}

// Compile 校验声明并建立名称索引；名称重复、颜色或状态无效时返回错误。
func Compile(doc *Document) (*Theme, error) {
	if doc == nil {
		return nil, fmt.Errorf("主题为空")
	}
	t := &Theme{
		Name:        doc.Name,
		Version:     doc.Version,
		density:     1,
		colors:      map[string]layout.Color{},
		lists:       map[string]*layout.StateList{},
		appearances: map[string]*AppearanceDecl{},
		cache:       map[string]layout.Appearance{},
	}

	// 先登记命名颜色，颜色表可以引用声明在后面的颜色
	for _, e := range doc.Entries {
		if e.Color == nil {
			continue
		}
		if err := t.declareName(e.Color.Name, e.Color.Pos.String()); err != nil {
			return nil, err
		}
		c, err := layout.ParseHexColor(e.Color.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: 颜色 %s: %w", e.Color.Pos, e.Color.Name, err)
		}
		t.colors[e.Color.Name] = c
	}

	for _, e := range doc.Entries {
		var err error
		switch {
		case e.Meta != nil:
			err = t.compileMeta(e.Meta)
		case e.Font != nil:
			err = t.compileFont(e.Font)
		case e.Colors != nil:
			err = t.compileColorList(e.Colors)
		case e.Appearance != nil:
			if _, dup := t.appearances[e.Appearance.Name]; dup {
				err = fmt.Errorf("%s: 外观 %s 重复定义", e.Appearance.Pos, e.Appearance.Name)
				break
			}
			t.appearances[e.Appearance.Name] = e.Appearance
		}
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Theme) declareName(name, pos string) error {
	if _, ok := t.colors[name]; ok {
		return fmt.Errorf("%s: 颜色 %s 重复定义", pos, name)
	}
	if _, ok := t.lists[name]; ok {
		return fmt.Errorf("%s: 颜色 %s 重复定义", pos, name)
	}
	return nil
}

func (t *Theme) compileMeta(m *MetaDecl) error {
	for _, a := range m.Block.Assignments {
		switch a.Key {
		case "density":
			d, err := strconv.ParseFloat(a.Value.Raw(), 64)
			if err != nil || d <= 0 || a.Value.Number == nil {
				return fmt.Errorf("%s: 无效的 density %q", a.Pos, a.Value.Raw())
			}
			t.density = d
		default:
			return fmt.Errorf("%s: 未知的 meta 属性 %s", a.Pos, a.Key)
		}
	}
	return nil
}

func (t *Theme) compileFont(f *FontDecl) error {
	src := FontSource{Family: f.Family}
	for _, a := range f.Block.Assignments {
		switch a.Key {
		case "src":
			if a.Value.String == nil {
				return fmt.Errorf("%s: 字体 %s 的 src 必须是字符串", a.Pos, f.Family)
			}
			src.Src = string(*a.Value.String)
		case "style":
			src.Style = layout.ParseFontStyle(a.Value.Raw())
		default:
			return fmt.Errorf("%s: 字体 %s 未知属性 %s", a.Pos, f.Family, a.Key)
		}
	}
	if src.Src == "" {
		return fmt.Errorf("%s: 字体 %s 缺少 src", f.Pos, f.Family)
	}
	t.Fonts = append(t.Fonts, src)
	return nil
}

func (t *Theme) compileColorList(d *ColorListDecl) error {
	if err := t.declareName(d.Name, d.Pos.String()); err != nil {
		return err
	}
	if len(d.Items) == 0 {
		return fmt.Errorf("%s: 颜色表 %s 为空", d.Pos, d.Name)
	}
	specs := make([]layout.StateSpec, 0, len(d.Items))
	for _, item := range d.Items {
		c, err := t.staticColor(item.Value)
		if err != nil {
			return fmt.Errorf("%s: 颜色表 %s: %w", item.Pos, d.Name, err)
		}
		spec := layout.StateSpec{Color: c}
		if !item.IsDefault() {
			for _, ref := range item.States {
				s, err := layout.ParseState(ref.Name)
				if err != nil {
					return fmt.Errorf("%s: 颜色表 %s: %w", item.Pos, d.Name, err)
				}
				if ref.Not {
					spec.Excluded |= s
				} else {
					spec.Required |= s
				}
			}
		}
		specs = append(specs, spec)
	}
	t.lists[d.Name] = layout.NewStateList(specs...)
	return nil
}

// staticColor 解析颜色字面量或命名颜色。
func (t *Theme) staticColor(v *Value) (layout.Color, error) {
	switch {
	case v.Color != nil:
		return layout.ParseHexColor(*v.Color)
	case v.Ident != nil:
		c, ok := t.colors[*v.Ident]
		if !ok {
			return layout.Color{}, fmt.Errorf("颜色 %s %w", *v.Ident, errUndefined)
		}
		return c, nil
	default:
		return layout.Color{}, fmt.Errorf("需要颜色，得到 %q", v.Raw())
	}
}

// Density 返回 dp/sp 换算到宿主像素的倍数。
func (t *Theme) Density() float64 { return t.density }

// SetDensity 覆盖主题声明的密度，非正数被忽略。
func (t *Theme) SetDensity(d float64) {
	if d <= 0 || d == t.density {
		return
	}
	t.density = d
	clear(t.cache)
}

// Appearances 返回全部外观名称（已排序）。
func (t *Theme) Appearances() []string {
	names := make([]string, 0, len(t.appearances))
	for n := range t.appearances {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Color 按名称查找颜色来源：颜色表优先，其次命名颜色。
func (t *Theme) Color(name string) (layout.ColorSource, error) {
	if l, ok := t.lists[name]; ok {
		return l, nil
	}
	if c, ok := t.colors[name]; ok {
		return layout.StaticColor(c), nil
	}
	return nil, &layout.ConfigError{Resource: name, Err: errUndefined}
}

// Appearance 解析外观，子外观的属性覆盖基外观的同名属性。
func (t *Theme) Appearance(id string) (layout.Appearance, error) {
	if a, ok := t.cache[id]; ok {
		return a, nil
	}
	props, err := t.collect(id, map[string]bool{})
	if err != nil {
		return layout.Appearance{}, err
	}

	a := layout.Appearance{Name: id}
	// 按键名排序，保证错误信息稳定
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := t.apply(&a, key, props[key]); err != nil {
			return layout.Appearance{}, &layout.ConfigError{Resource: id, Key: key, Err: err}
		}
	}
	t.cache[id] = a
	return a, nil
}

func (t *Theme) collect(id string, visiting map[string]bool) (map[string]*Value, error) {
	decl, ok := t.appearances[id]
	if !ok {
		return nil, &layout.ConfigError{Resource: id, Err: errUndefined}
	}
	if visiting[id] {
		return nil, &layout.ConfigError{Resource: id, Err: errCycle}
	}
	visiting[id] = true

	props := map[string]*Value{}
	if decl.Base != "" {
		base, err := t.collect(decl.Base, visiting)
		if err != nil {
			return nil, err
		}
		for k, v := range base {
			props[k] = v
		}
	}
	for _, a := range decl.Block.Assignments {
		props[canonicalKey(a.Key)] = a.Value
	}
	return props, nil
}

func canonicalKey(key string) string {
	k := strings.ToLower(key)
	switch k {
	case "text-color":
		return "color"
	case "text-size":
		return "size"
	}
	return k
}

func (t *Theme) apply(a *layout.Appearance, key string, v *Value) error {
	switch key {
	case "color":
		src, err := t.colorSource(v)
		if err != nil {
			return err
		}
		a.Color = src
	case "size":
		px, err := t.length(v)
		if err != nil {
			return err
		}
		if px <= 0 {
			return fmt.Errorf("字号必须为正数，得到 %s", v.Raw())
		}
		a.Size = px
	case "font-family":
		if v.String == nil && v.Ident == nil {
			return fmt.Errorf("字体族必须是名称或字符串，得到 %q", v.Raw())
		}
		a.Typeface.Family = v.Raw()
	case "font-style":
		if v.String == nil && v.Ident == nil {
			return fmt.Errorf("字体样式必须是名称或字符串，得到 %q", v.Raw())
		}
		a.Typeface.Style = layout.ParseFontStyle(v.Raw())
	case "shadow-color":
		c, err := t.staticColor(v)
		if err != nil {
			return err
		}
		a.Shadow.Color = c
	case "shadow-dx", "shadow-dy", "shadow-radius":
		px, err := t.length(v)
		if err != nil {
			return err
		}
		switch key {
		case "shadow-dx":
			a.Shadow.Dx = px
		case "shadow-dy":
			a.Shadow.Dy = px
		default:
			if px < 0 {
				return fmt.Errorf("阴影半径不能为负数")
			}
			a.Shadow.Radius = px
		}
	default:
		return fmt.Errorf("未知属性")
	}
	return nil
}

func (t *Theme) colorSource(v *Value) (layout.ColorSource, error) {
	if v.Ident != nil {
		if l, ok := t.lists[*v.Ident]; ok {
			return l, nil
		}
	}
	c, err := t.staticColor(v)
	if err != nil {
		return nil, err
	}
	return layout.StaticColor(c), nil
}

func (t *Theme) length(v *Value) (float64, error) {
	if v.Number == nil {
		return 0, fmt.Errorf("需要长度，得到 %q", v.Raw())
	}
	l, err := layout.ParseLength(*v.Number)
	if err != nil {
		return 0, err
	}
	return l.Pixels(t.density), nil
}
