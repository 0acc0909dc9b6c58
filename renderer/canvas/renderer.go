package canvasrenderer

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/subtitlebar/fonts"
	"github.com/ByLCY/subtitlebar/layout"
	"github.com/ByLCY/subtitlebar/renderer"
)

// Renderer draws collapsing header frames via github.com/tdewolff/canvas.
// Host coordinates map 1:1 onto canvas millimetres; font sizes are converted to pt at the boundary.
type Renderer struct {
	baseDir    string
	info       DocumentInfo
	bitmapDPMM float64
	log        *slog.Logger

	// injected resources
	fontBlobs map[string][]byte // by unique name

	fontMu         sync.Mutex
	sources        map[string]map[layout.FontStyle]string // family -> style -> src
	fontFamilies   map[layout.Typeface]*canvas.FontFamily
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer        = (*Renderer)(nil)
	_ renderer.BitmapAllocator = (*Renderer)(nil)
	_ layout.Typesetter        = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // built-in fonts accessible via built-in:<name>
	Info    DocumentInfo
	// BitmapDPMM 是文字位图每宿主单位的像素数，应与输出分辨率一致；非正数按 1 处理。
	BitmapDPMM float64
	Logger     *slog.Logger
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// DocumentInfo 写入 PDF 文档信息。
type DocumentInfo struct {
	Title    string
	Subject  string
	Keywords []string
	Author   string
	Creator  string
}

// 内置字体族，family 为空时使用 "go"。
var builtinFamilies = map[string]map[layout.FontStyle]string{
	"go": {
		layout.FontRegular:    "embed:Go-Regular",
		layout.FontBold:       "embed:Go-Bold",
		layout.FontItalic:     "embed:Go-Italic",
		layout.FontBoldItalic: "embed:Go-BoldItalic",
	},
	"go-medium": {
		layout.FontRegular: "embed:Go-Medium",
	},
	"go-mono": {
		layout.FontRegular: "embed:GoMono-Regular",
		layout.FontBold:    "embed:GoMono-Bold",
	},
}

var familyAliases = map[string]string{
	"":           "go",
	"default":    "go",
	"sans-serif": "go",
	"monospace":  "go-mono",
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving font paths.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	bitmapDPMM := opts.BitmapDPMM
	if bitmapDPMM <= 0 {
		bitmapDPMM = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{
		baseDir:      opts.BaseDir,
		info:         opts.Info,
		bitmapDPMM:   bitmapDPMM,
		log:          logger,
		fontBlobs:    map[string][]byte{},
		sources:      map[string]map[layout.FontStyle]string{},
		fontFamilies: map[layout.Typeface]*canvas.FontFamily{},
	}
	for family, styles := range builtinFamilies {
		r.sources[family] = map[layout.FontStyle]string{}
		for style, src := range styles {
			r.sources[family][style] = src
		}
	}
	// ingest fonts
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // ignore error here; will be caught when actually used
			if len(data) > 0 {
				r.fontBlobs[name] = data
			}
		}
	}
	return r
}

// RegisterFont 为字体族的某个样式登记字体来源：built-in:<name>、embed:<name> 或相对 baseDir 的路径。
// 重复登记时后者覆盖前者，并丢弃已缓存的字体面。
func (r *Renderer) RegisterFont(family string, style layout.FontStyle, src string) error {
	if strings.TrimSpace(src) == "" {
		return fmt.Errorf("字体 %s 缺少 src", family)
	}
	key := normalizeFamily(family)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if r.sources[key] == nil {
		r.sources[key] = map[layout.FontStyle]string{}
	}
	r.sources[key][style] = src
	for face := range r.fontFamilies {
		if normalizeFamily(face.Family) == key {
			delete(r.fontFamilies, face)
		}
	}
	return nil
}

// Families 返回已登记的字体族名称。
func (r *Renderer) Families() []string {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	out := make([]string, 0, len(r.sources))
	for name := range r.sources {
		out = append(out, name)
	}
	return out
}

// Metrics 实现 layout.Typesetter：ascent/descent 以宿主单位（mm）返回，均为正值。
func (r *Renderer) Metrics(face layout.Typeface, size float64) (layout.FontMetrics, error) {
	f, err := r.fontFace(face, size, layout.Black)
	if err != nil {
		return layout.FontMetrics{}, err
	}
	m := f.Metrics()
	return layout.FontMetrics{Ascent: math.Abs(m.Ascent), Descent: math.Abs(m.Descent)}, nil
}

// Measure 实现 layout.Typesetter，返回单行文本宽度（mm）。
func (r *Renderer) Measure(text string, face layout.Typeface, size float64) (float64, error) {
	f, err := r.fontFace(face, size, layout.Black)
	if err != nil {
		return 0, err
	}
	return f.TextWidth(text), nil
}

// Ellipsize 实现 layout.Typesetter，按真实字形宽度截断尾部。
func (r *Renderer) Ellipsize(text string, face layout.Typeface, size, avail float64) (string, error) {
	f, err := r.fontFace(face, size, layout.Black)
	if err != nil {
		return "", err
	}
	return layout.EllipsizeEnd(text, avail, f.TextWidth), nil
}

// fontFace 创建字体面；size 为宿主单位（mm），创建字体面需要 pt，这里做一次 mm→pt。
func (r *Renderer) fontFace(face layout.Typeface, size float64, col layout.Color) (*canvas.FontFace, error) {
	if size <= 0 {
		return nil, fmt.Errorf("无效的字号 %g", size)
	}
	family, err := r.ensureFontFamily(face)
	if err != nil {
		return nil, err
	}
	return family.Face(toPt(size), colorFromLayout(col), canvas.FontRegular, canvas.FontNormal), nil
}

// ensureFontFamily 每个 (family, style) 组合加载为独立的 canvas 字体族；
// 缺少该样式时退回同族常规体，族不存在或加载失败时退回内置字体。
func (r *Renderer) ensureFontFamily(face layout.Typeface) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[face]; ok {
		return family, nil
	}

	key := normalizeFamily(face.Family)
	src, ok := r.sources[key][face.Style]
	if !ok {
		src, ok = r.sources[key][layout.FontRegular]
	}
	family := canvas.NewFontFamily(face.String())
	if ok {
		if err := r.loadFontIntoFamily(family, src); err == nil {
			r.fontFamilies[face] = family
			return family, nil
		}
	}

	fallback, err := r.fallback()
	if err != nil {
		return nil, err
	}
	r.fontFamilies[face] = fallback
	return fallback, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, src string) error {
	data, err := r.loadFontBytes(src)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, canvas.FontRegular)
}

func (r *Renderer) loadFontBytes(src string) ([]byte, error) {
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	// Path based
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in: 或 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func (r *Renderer) fallback() (*canvas.FontFamily, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, nil
	}
	data, err := fonts.Load("Go-Regular")
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("subtitlebar-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	r.fallbackFamily = family
	return family, nil
}

func normalizeFamily(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := familyAliases[n]; ok {
		return alias
	}
	return n
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, float64(c.A)/255.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }
