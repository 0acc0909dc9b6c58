package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/subtitlebar/layout"
	"github.com/ByLCY/subtitlebar/renderer"
)

// rasterBitmap 是离屏位图。w、h 以宿主单位计，像素尺寸为其 dpmm 倍。
type rasterBitmap struct {
	r    *Renderer
	w    int
	h    int
	dpmm float64
	img  *image.NRGBA
}

var _ renderer.Bitmap = (*rasterBitmap)(nil)

// NewBitmap 实现 renderer.BitmapAllocator。
func (r *Renderer) NewBitmap(width, height int) (renderer.Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("无效的位图尺寸 %dx%d", width, height)
	}
	k := r.bitmapDPMM
	return &rasterBitmap{
		r:    r,
		w:    width,
		h:    height,
		dpmm: k,
		img:  imaging.New(int(math.Ceil(float64(width)*k)), int(math.Ceil(float64(height)*k)), color.NRGBA{}),
	}, nil
}

func (b *rasterBitmap) Width() int  { return b.w }
func (b *rasterBitmap) Height() int { return b.h }

// Image 返回当前像素，释放后为 nil。
func (b *rasterBitmap) Image() *image.NRGBA { return b.img }

// DrawText 把文本栅格化进位图；可见阴影先模糊再叠加在文本下方。
func (b *rasterBitmap) DrawText(text string, x, y float64, paint layout.Paint) {
	if b.img == nil || text == "" {
		return
	}
	if paint.Shadow.Visible() {
		shadowPaint := paint
		shadowPaint.Color = paint.Shadow.Color
		shadowPaint.Shadow = layout.Shadow{}
		layer := b.rasterize(text, x+paint.Shadow.Dx, y+paint.Shadow.Dy, shadowPaint)
		var blurred image.Image = layer
		if paint.Shadow.Radius > 0 {
			blurred = imaging.Blur(layer, paint.Shadow.Radius*b.dpmm/2)
		}
		b.img = imaging.Overlay(b.img, blurred, image.Pt(0, 0), 1)
	}
	plain := paint
	plain.Shadow = layout.Shadow{}
	b.img = imaging.Overlay(b.img, b.rasterize(text, x, y, plain), image.Pt(0, 0), 1)
}

func (b *rasterBitmap) rasterize(text string, x, y float64, paint layout.Paint) *image.RGBA {
	c := canvas.New(float64(b.w), float64(b.h))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)
	newTarget(b.r, ctx).DrawText(text, x, y, paint)
	return rasterizer.Draw(c, canvas.DPMM(b.dpmm), canvas.DefaultColorSpace)
}

// Release 丢弃像素缓冲。
func (b *rasterBitmap) Release() { b.img = nil }
