package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ByLCY/subtitlebar/binding"
	"github.com/ByLCY/subtitlebar/collapsing"
	"github.com/ByLCY/subtitlebar/dsl"
	"github.com/ByLCY/subtitlebar/layout"
	"github.com/ByLCY/subtitlebar/renderer"
)

// Config 是演示程序的 TOML 配置。
type Config struct {
	View       ViewConfig       `toml:"view"`
	Header     HeaderConfig     `toml:"header"`
	Theme      string           `toml:"theme"`
	Density    float64          `toml:"density"`
	Appearance AppearanceConfig `toml:"appearance"`
	Gravity    GravityConfig    `toml:"gravity"`
	Collapsed  Box              `toml:"collapsed"`
	Margin     layout.Margin    `toml:"expanded_margin"`
	Easing     EasingConfig     `toml:"easing"`
	UseTexture bool             `toml:"use_texture"`
	Frames     int              `toml:"frames"`
	Scrim      string           `toml:"content_scrim"`
	State      []string         `toml:"state"`

	// 相对路径以配置文件所在目录为基准
	dir string
}

type ViewConfig struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	RTL        bool   `toml:"rtl"`
	Background string `toml:"background"`
}

type HeaderConfig struct {
	Title    string `toml:"title"`
	Subtitle string `toml:"subtitle"`
}

// AppearanceConfig 按行与端点给出主题中的外观名称，空值表示保持默认样式。
type AppearanceConfig struct {
	TitleCollapsed    string `toml:"title_collapsed"`
	TitleExpanded     string `toml:"title_expanded"`
	SubtitleCollapsed string `toml:"subtitle_collapsed"`
	SubtitleExpanded  string `toml:"subtitle_expanded"`
}

func (a AppearanceConfig) id(line layout.Line, end layout.End) string {
	switch {
	case line == layout.Title && end == layout.Collapsed:
		return a.TitleCollapsed
	case line == layout.Title:
		return a.TitleExpanded
	case end == layout.Collapsed:
		return a.SubtitleCollapsed
	default:
		return a.SubtitleExpanded
	}
}

type GravityConfig struct {
	Collapsed string `toml:"collapsed"`
	Expanded  string `toml:"expanded"`
}

type EasingConfig struct {
	Position string `toml:"position"`
	Size     string `toml:"size"`
}

// Box 是配置中的矩形。
type Box struct {
	Left   int `toml:"left"`
	Top    int `toml:"top"`
	Right  int `toml:"right"`
	Bottom int `toml:"bottom"`
}

func (b Box) Rect() layout.Rect {
	return layout.Rect{Left: b.Left, Top: b.Top, Right: b.Right, Bottom: b.Bottom}
}

// defaultConfig 对应一个 360x160 的折叠工具栏，收起后高 56。
func defaultConfig() Config {
	return Config{
		View:      ViewConfig{Width: 360, Height: 160, Background: "#FFFFFF"},
		Header:    HeaderConfig{Title: "Title"},
		Collapsed: Box{Left: 72, Right: 360, Bottom: 56},
		Margin:    layout.Margin{Left: 32, Right: 32, Bottom: 16},
		Gravity:   GravityConfig{Collapsed: "center-vertical|start", Expanded: "bottom|start"},
		Easing:    EasingConfig{Position: "linear", Size: "fast-out-slow-in"},
		Frames:    5,
	}
}

// LoadConfig 读取 TOML 配置，未出现的键保留默认值。
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("解析配置 %s 失败: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("配置 %s 无效: %w", path, err)
	}
	return cfg, nil
}

// Validate 检查不能交给引擎静默处理的配置。
func (c Config) Validate() error {
	if c.View.Width <= 0 || c.View.Height <= 0 {
		return fmt.Errorf("视图尺寸必须为正数，得到 %dx%d", c.View.Width, c.View.Height)
	}
	if c.Frames < 1 {
		return fmt.Errorf("frames 至少为 1，得到 %d", c.Frames)
	}
	for _, g := range []string{c.Gravity.Collapsed, c.Gravity.Expanded} {
		if _, err := layout.ParseGravity(g); err != nil {
			return err
		}
	}
	for _, name := range []string{c.Easing.Position, c.Easing.Size} {
		if _, err := layout.InterpolatorByName(name); err != nil {
			return err
		}
	}
	if _, err := c.state(); err != nil {
		return err
	}
	for _, s := range []string{c.View.Background, c.Scrim} {
		if s == "" {
			continue
		}
		if _, err := layout.ParseHexColor(s); err != nil {
			return err
		}
	}
	return nil
}

// ViewRect 是整个宿主视图。
func (c Config) ViewRect() layout.Rect {
	return layout.Rect{Right: c.View.Width, Bottom: c.View.Height}
}

// ExpandedBounds 是视图按展开边距收缩后的矩形。
func (c Config) ExpandedBounds() layout.Rect {
	return c.ViewRect().Inset(c.Margin)
}

// Fractions 返回从展开 (0) 到收起 (1) 均匀分布的帧比例。
func (c Config) Fractions() []float64 {
	if c.Frames <= 1 {
		return []float64{0}
	}
	out := make([]float64, c.Frames)
	for i := range out {
		out[i] = float64(i) / float64(c.Frames-1)
	}
	return out
}

func (c Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.dir == "" {
		return path
	}
	return filepath.Join(c.dir, path)
}

func (c Config) state() (layout.State, error) {
	var s layout.State
	for _, name := range c.State {
		for _, part := range strings.Split(name, "|") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			bit, err := layout.ParseState(part)
			if err != nil {
				return 0, err
			}
			s |= bit
		}
	}
	return s, nil
}

func (c Config) color(s string) layout.Color {
	if s == "" {
		return layout.Color{}
	}
	col, _ := layout.ParseHexColor(s) // 已在 Validate 中检查
	return col
}

// LoadTheme 加载配置引用的主题；未配置主题时返回 nil。
// 配置中的正数 density 覆盖主题的 meta 声明。
func (c Config) LoadTheme() (*dsl.Theme, error) {
	if c.Theme == "" {
		return nil, nil
	}
	theme, err := dsl.Load(c.resolve(c.Theme))
	if err != nil {
		return nil, err
	}
	if c.Density > 0 {
		theme.SetDensity(c.Density)
	}
	return theme, nil
}

// fontRegistrar 由支持自定义字体的排版后端实现。
type fontRegistrar interface {
	RegisterFont(family string, style layout.FontStyle, src string) error
}

func registerThemeFonts(theme *dsl.Theme, ts layout.Typesetter) error {
	reg, ok := ts.(fontRegistrar)
	if theme == nil || !ok {
		return nil
	}
	for _, f := range theme.Fonts {
		if err := reg.RegisterFont(f.Family, f.Style, f.Src); err != nil {
			return fmt.Errorf("登记字体 %s 失败: %w", f.Family, err)
		}
	}
	return nil
}

// hostView 是演示程序的固定尺寸宿主视图。
type hostView struct {
	width, height int
	rtl           bool
	invalidations int
}

func (v *hostView) Width() int                 { return v.width }
func (v *hostView) Height() int                { return v.height }
func (v *hostView) LayoutRTL() bool            { return v.rtl }
func (v *hostView) PostInvalidateOnAnimation() { v.invalidations++ }

// header 把配置、主题和数据装配成一个可绘制的引擎。
type header struct {
	cfg    Config
	view   *hostView
	engine *collapsing.Engine

	// 收起边界的右边与视图同宽时随视图伸缩
	stretch bool
}

// buildHeader 按配置创建引擎。theme 可为 nil；alloc 仅在 use_texture 时使用。
func buildHeader(cfg Config, theme *dsl.Theme, ts layout.Typesetter, alloc renderer.BitmapAllocator, data any, logger *slog.Logger) (*header, error) {
	if logger == nil {
		logger = slog.Default()
	}
	view := &hostView{width: cfg.View.Width, height: cfg.View.Height, rtl: cfg.View.RTL}
	opts := collapsing.Options{
		UseTexture: cfg.UseTexture,
		Bitmaps:    alloc,
		Logger:     logger,
	}
	// 避免把 nil *dsl.Theme 包装成非 nil 接口
	if theme != nil {
		opts.Styles = theme
	}
	engine, err := collapsing.New(view, ts, opts)
	if err != nil {
		return nil, err
	}
	h := &header{
		cfg:     cfg,
		view:    view,
		engine:  engine,
		stretch: cfg.Collapsed.Right >= cfg.View.Width,
	}

	for _, end := range layout.Ends {
		for _, line := range layout.Lines {
			id := cfg.Appearance.id(line, end)
			if id == "" {
				continue
			}
			if err := engine.SetAppearance(line, end, id); err != nil {
				return nil, err
			}
		}
	}

	collapsedGravity, _ := layout.ParseGravity(cfg.Gravity.Collapsed)
	expandedGravity, _ := layout.ParseGravity(cfg.Gravity.Expanded)
	engine.SetGravity(layout.Collapsed, collapsedGravity)
	engine.SetGravity(layout.Expanded, expandedGravity)

	position, _ := layout.InterpolatorByName(cfg.Easing.Position)
	size, _ := layout.InterpolatorByName(cfg.Easing.Size)
	engine.SetPositionInterpolator(position)
	engine.SetTextSizeInterpolator(size)

	engine.SetTitle(binding.Interpolate(cfg.Header.Title, data))
	engine.SetSubtitle(binding.Interpolate(cfg.Header.Subtitle, data))

	h.resize(cfg.View.Width, cfg.View.Height)

	if state, _ := cfg.state(); state != 0 {
		if !engine.SetState(state) {
			logger.Debug("header colors are not stateful, state ignored", "state", state)
		}
	}
	engine.Recalculate()
	return h, nil
}

// resize 更新视图尺寸并按新尺寸重设两端边界。
func (h *header) resize(width, height int) {
	h.view.width, h.view.height = width, height
	h.cfg.View.Width, h.cfg.View.Height = width, height

	collapsed := h.cfg.Collapsed.Rect()
	if h.stretch {
		collapsed.Right = width
	}
	h.engine.SetBounds(layout.Collapsed, collapsed)
	h.engine.SetBounds(layout.Expanded, h.cfg.ExpandedBounds())
}

// drawFrame 先绘制随比例渐显的内容遮罩，再绘制两行文本。
func (h *header) drawFrame(c renderer.Canvas, fraction float64) {
	h.engine.SetExpansionFraction(fraction)
	if scrim := h.cfg.color(h.cfg.Scrim); scrim.A > 0 {
		alpha := uint8(float64(scrim.A) * layout.Clamp01(fraction))
		if alpha > 0 {
			r := h.cfg.ViewRect()
			c.DrawRect(layout.RectF{
				Right:  float64(r.Right),
				Bottom: float64(r.Bottom),
			}, scrim.WithAlpha(alpha))
		}
	}
	h.engine.Draw(c)
}

// frames 按配置的比例依次求解快照。
func (h *header) frames() []layout.Frame {
	fractions := h.cfg.Fractions()
	out := make([]layout.Frame, 0, len(fractions))
	for _, f := range fractions {
		h.engine.SetExpansionFraction(f)
		out = append(out, h.engine.Frame())
	}
	return out
}

// debugDump 汇总调试 JSON。
func (h *header) debugDump() *layout.DebugDump {
	return &layout.DebugDump{
		Width:  h.view.width,
		Height: h.view.height,
		Bounds: layout.Endpoint[layout.Rect]{
			Collapsed: h.engine.Bounds(layout.Collapsed),
			Expanded:  h.engine.Bounds(layout.Expanded),
		},
		Frames: h.frames(),
	}
}
