package collapsing

import (
	"log/slog"
	"math"

	"github.com/ByLCY/subtitlebar/layout"
	"github.com/ByLCY/subtitlebar/renderer"
)

// textureCache 是按构造参数选定的位图缓存策略。
type textureCache interface {
	enabled() bool
	// ensure 在缓存缺失时把该行展开端字号的文本渲染到位图。
	ensure(e *Engine, l *lineState)
	lookup(id layout.Line) (*texture, bool)
	// clear 释放并丢弃全部位图。
	clear()
}

// texture 是预先渲染的展开端文本及其度量。
type texture struct {
	bitmap  renderer.Bitmap
	ascent  float64
	descent float64
}

// noTextures 用于逐帧缩放字形即可的后端。
type noTextures struct{}

func (noTextures) enabled() bool                       { return false }
func (noTextures) ensure(*Engine, *lineState)          {}
func (noTextures) lookup(layout.Line) (*texture, bool) { return nil, false }
func (noTextures) clear()                              {}

// scaledTextures 为每行缓存一张展开端位图，逐帧只做等比缩放。
type scaledTextures struct {
	alloc   renderer.BitmapAllocator
	entries [2]*texture
}

func newScaledTextures(alloc renderer.BitmapAllocator) *scaledTextures {
	return &scaledTextures{alloc: alloc}
}

func (t *scaledTextures) enabled() bool { return true }

func (t *scaledTextures) lookup(id layout.Line) (*texture, bool) {
	tex := t.entries[id]
	return tex, tex != nil
}

func (t *scaledTextures) ensure(e *Engine, l *lineState) {
	if t.entries[l.id] != nil || e.bounds.Expanded.Empty() || l.toDraw == "" || l.failed {
		return
	}
	// 缩放比不为 1 只出现在展开端分支，此时 currentSize/currentFace 即展开端取值。
	m := l.metrics
	width := math.Round(e.measuredWidth(l))
	height := math.Round(m.Height())
	if width <= 0 || height <= 0 {
		return
	}
	bitmap, err := t.alloc.NewBitmap(int(width), int(height))
	if err != nil {
		e.log.Warn("创建文字位图失败，退回逐帧绘制",
			slog.String("line", l.id.String()),
			slog.Any("err", err))
		return
	}
	paint := layout.Paint{
		Typeface: l.currentFace,
		Size:     l.currentSize,
		Color:    e.resolveColor(l.color.Expanded),
		Shadow:   l.shadow.Expanded,
	}
	bitmap.DrawText(l.toDraw, 0, height-m.Descent, paint)
	t.entries[l.id] = &texture{bitmap: bitmap, ascent: m.Ascent, descent: m.Descent}
}

func (t *scaledTextures) clear() {
	for i, tex := range t.entries {
		if tex == nil {
			continue
		}
		tex.bitmap.Release()
		t.entries[i] = nil
	}
}
