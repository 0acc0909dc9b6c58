package canvasrenderer

import (
	"image/color"
	"log/slog"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/subtitlebar/layout"
	"github.com/ByLCY/subtitlebar/renderer"
)

// target 把 renderer.Canvas 调用映射到 *canvas.Context。
// 缩放由自身的变换栈维护：锚点经变换后定位，字号与位图分辨率按缩放比调整。
type target struct {
	r     *Renderer
	ctx   *canvas.Context
	stack *renderer.TransformStack
}

var _ renderer.Canvas = (*target)(nil)

func newTarget(r *Renderer, ctx *canvas.Context) *target {
	return &target{r: r, ctx: ctx, stack: renderer.NewTransformStack()}
}

func (t *target) Save() int { return t.stack.Save() }

func (t *target) RestoreToCount(count int) { t.stack.RestoreToCount(count) }

func (t *target) Scale(s, px, py float64) { t.stack.Scale(s, px, py) }

// DrawText 以 (x, y) 为基线起点绘制文本；阴影以偏移后的同文本先行绘制。
func (t *target) DrawText(text string, x, y float64, paint layout.Paint) {
	if text == "" {
		return
	}
	tr := t.stack.Current()
	size := paint.Size * tr.Scale
	if paint.Shadow.Visible() {
		sx, sy := tr.Apply(x+paint.Shadow.Dx, y+paint.Shadow.Dy)
		t.drawLine(text, sx, sy, size, paint.Typeface, paint.Shadow.Color)
	}
	ax, ay := tr.Apply(x, y)
	t.drawLine(text, ax, ay, size, paint.Typeface, paint.Color)
}

func (t *target) drawLine(text string, x, y, size float64, face layout.Typeface, col layout.Color) {
	f, err := t.r.fontFace(face, size, col)
	if err != nil {
		t.r.log.Debug("创建字体面失败，跳过文本", slog.String("face", face.String()), slog.Any("err", err))
		return
	}
	t.ctx.DrawText(x, y, canvas.NewTextLine(f, text, canvas.Left))
}

// DrawBitmap 以 (x, y) 为左上角绘制位图，位图按其栅格化分辨率映射回宿主单位。
func (t *target) DrawBitmap(bitmap renderer.Bitmap, x, y float64) {
	bm, ok := bitmap.(*rasterBitmap)
	if !ok || bm.img == nil {
		return
	}
	tr := t.stack.Current()
	if tr.Scale <= 0 {
		return
	}
	ax, ay := tr.Apply(x, y)
	t.ctx.DrawImage(ax, ay, bm.img, canvas.DPMM(bm.dpmm/tr.Scale))
}

func (t *target) DrawRect(rect layout.RectF, col layout.Color) {
	tr := t.stack.Current()
	left, top := tr.Apply(rect.Left, rect.Top)
	right, bottom := tr.Apply(rect.Right, rect.Bottom)
	if right <= left || bottom <= top {
		return
	}
	t.ctx.SetFillColor(colorFromLayout(col))
	t.ctx.SetStrokeColor(color.RGBA{})
	t.ctx.DrawPath(left, top, canvas.Rectangle(right-left, bottom-top))
}
