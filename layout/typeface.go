package layout

import "strings"

// FontStyle 为字重与斜体的组合。
type FontStyle int

const (
	FontRegular FontStyle = iota
	FontBold
	FontItalic
	FontBoldItalic
)

func (s FontStyle) String() string {
	switch s {
	case FontBold:
		return "bold"
	case FontItalic:
		return "italic"
	case FontBoldItalic:
		return "bold-italic"
	default:
		return "regular"
	}
}

// MarshalText 让调试 JSON 输出样式名称。
func (s FontStyle) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ParseFontStyle 宽松解析样式名，识别 bold/semibold/black 与 italic/oblique。
func ParseFontStyle(style string) FontStyle {
	s := strings.ToLower(strings.TrimSpace(style))
	bold := strings.Contains(s, "bold") || strings.Contains(s, "black") || strings.Contains(s, "heavy")
	italic := strings.Contains(s, "italic") || strings.Contains(s, "oblique")
	switch {
	case bold && italic:
		return FontBoldItalic
	case bold:
		return FontBold
	case italic:
		return FontItalic
	default:
		return FontRegular
	}
}

// Typeface 是字体引用，零值表示默认字体。按值比较。
type Typeface struct {
	Family string    `json:"family,omitempty"`
	Style  FontStyle `json:"style"`
}

// DefaultTypeface 交给排版后端解析为其默认字体族。
var DefaultTypeface = Typeface{}

// IsDefault 判断是否为默认字体。
func (t Typeface) IsDefault() bool { return t == DefaultTypeface }

func (t Typeface) String() string {
	family := t.Family
	if family == "" {
		family = "default"
	}
	return family + "/" + t.Style.String()
}
