// Package collapsing implements a two-line (title and subtitle) collapsing header text
// engine. A host feeds it bounds, styles and an expansion fraction; the engine solves the
// collapsed and expanded geometry of both lines, interpolates between them and draws the
// result onto a renderer.Canvas.
//
// The engine is single-threaded: every method must be called from the host's UI thread.
package collapsing

import (
	"fmt"
	"log/slog"

	"github.com/ByLCY/subtitlebar/layout"
	"github.com/ByLCY/subtitlebar/renderer"
)

const (
	// debugDraw 打开后在标题行后面绘制当前边界。
	debugDraw = false

	defaultTextSize = 15.0
)

var debugDrawColor = layout.Magenta

// View 是承载引擎的宿主视图。
type View interface {
	Width() int
	Height() int
	// LayoutRTL 是文本中没有强方向字符时采用的默认方向。
	LayoutRTL() bool
	// PostInvalidateOnAnimation 请求在下一帧重绘。
	PostInvalidateOnAnimation()
}

// StyleResolver 按标识查找样式资源，资源无法解析时返回 *layout.ConfigError。
type StyleResolver interface {
	Appearance(id string) (layout.Appearance, error)
}

// Options 配置引擎的可选依赖。
type Options struct {
	// UseTexture 在位图缩放比逐帧缩放字形更便宜的后端上开启，需要同时提供 Bitmaps。
	UseTexture bool
	Bitmaps    renderer.BitmapAllocator
	Styles     StyleResolver
	Logger     *slog.Logger
}

// Engine 持有两行文本的全部布局状态。
type Engine struct {
	view       View
	typesetter layout.Typesetter
	styles     StyleResolver
	log        *slog.Logger
	textures   textureCache

	bounds  layout.Endpoint[layout.Rect]
	gravity layout.Endpoint[layout.Gravity]
	current layout.RectF
	lines   [2]*lineState

	fraction float64
	state    layout.State
	hasState bool
	rtl      bool
	drawable bool
	dirty    bool

	positionInterp layout.Interpolator
	sizeInterp     layout.Interpolator

	recalculations uint64
}

// New 创建引擎。typesetter 是文字度量服务，view 提供尺寸、默认方向与重绘请求。
func New(view View, typesetter layout.Typesetter, opts Options) (*Engine, error) {
	if view == nil {
		return nil, fmt.Errorf("collapsing: 缺少宿主视图 View")
	}
	if typesetter == nil {
		return nil, fmt.Errorf("collapsing: 缺少排版后端 Typesetter")
	}
	var textures textureCache = noTextures{}
	if opts.UseTexture {
		if opts.Bitmaps == nil {
			return nil, fmt.Errorf("collapsing: 启用位图缓存时必须提供 BitmapAllocator")
		}
		textures = newScaledTextures(opts.Bitmaps)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		view:       view,
		typesetter: typesetter,
		styles:     opts.Styles,
		log:        logger,
		textures:   textures,
		gravity:    layout.Both(layout.GravityCenterVertical),
		dirty:      true,
	}
	for _, l := range layout.Lines {
		e.lines[l] = newLineState(l)
	}
	return e, nil
}

func (e *Engine) line(l layout.Line) *lineState {
	if l == layout.Subtitle {
		return e.lines[layout.Subtitle]
	}
	return e.lines[layout.Title]
}

// Recalculate 在宿主视图已有尺寸时重新求解两端几何并按当前比例插值；
// 否则保持脏状态，等到尺寸可用后再次调用或首次绘制时再求解。
func (e *Engine) Recalculate() {
	if e.view.Width() > 0 && e.view.Height() > 0 {
		e.calculateBaseOffsets()
		e.calculateCurrentOffsets()
		e.dirty = false
		return
	}
	e.dirty = true
}

// invalidate 标记输入已变化并立即尝试求解。
func (e *Engine) invalidate() {
	e.dirty = true
	e.Recalculate()
}

// Dirty 表示是否仍有未求解的输入变化。
func (e *Engine) Dirty() bool { return e.dirty }

// Recalculations 返回两端几何被求解的次数。
func (e *Engine) Recalculations() uint64 { return e.recalculations }

// Drawable 当且仅当两端边界都非空时为 true。
func (e *Engine) Drawable() bool { return e.drawable }

// IsRTL 返回当前解析出的文本方向。
func (e *Engine) IsRTL() bool { return e.rtl }

// Release 释放位图缓存持有的像素缓冲。
func (e *Engine) Release() {
	e.textures.clear()
}

// Frame 返回当前比例下的快照。
func (e *Engine) Frame() layout.Frame {
	if e.dirty {
		e.Recalculate()
	}
	return layout.Frame{
		Fraction: e.fraction,
		Drawable: e.drawable,
		RTL:      e.rtl,
		Bounds:   e.current,
		Title:    e.lineFrame(e.lines[layout.Title]),
		Subtitle: e.lineFrame(e.lines[layout.Subtitle]),
	}
}

func (e *Engine) lineFrame(l *lineState) layout.LineFrame {
	_, textured := e.textures.lookup(l.id)
	return layout.LineFrame{
		Present:  l.text != "",
		Text:     l.toDraw,
		X:        l.currentX,
		Y:        l.currentY,
		Scale:    l.scale,
		Size:     l.paint.Size,
		Typeface: l.paint.Typeface,
		Color:    l.paint.Color,
		Shadow:   l.paint.Shadow,
		Textured: textured && l.useTexture,
	}
}
