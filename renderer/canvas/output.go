package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/subtitlebar/renderer"
)

// sheetGap 是 PNG 联系表中相邻帧之间的像素间距。
const sheetGap = 4

// Render renders the pages into a PDF byte slice, one page per frame.
func (r *Renderer) Render(pages []renderer.Page) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, pages[0].Width, pages[0].Height, nil)
	r.applyInfo(writer)
	for i, page := range pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		r.drawPage(page).RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPNG 把全部页面栅格化后自上而下拼接为一张 PNG 联系表。
// dpmm 为每宿主单位的像素数，非正数按 1 处理。
func (r *Renderer) RenderPNG(pages []renderer.Page, dpmm float64) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	if dpmm <= 0 {
		dpmm = 1
	}

	frames := make([]*image.RGBA, 0, len(pages))
	width, height := 0, 0
	for _, page := range pages {
		img := rasterizer.Draw(r.drawPage(page), canvas.DPMM(dpmm), canvas.DefaultColorSpace)
		frames = append(frames, img)
		width = max(width, img.Bounds().Dx())
		height += img.Bounds().Dy() + sheetGap
	}
	height -= sheetGap

	sheet := imaging.New(width, height, color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff})
	y := 0
	for _, img := range frames {
		sheet = imaging.Paste(sheet, img, image.Pt(0, y))
		y += img.Bounds().Dy() + sheetGap
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, sheet, imaging.PNG); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawPage(page renderer.Page) *canvas.Canvas {
	c := canvas.New(page.Width, page.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与宿主视图保持左上角为原点

	if page.Background.A > 0 {
		ctx.SetFillColor(colorFromLayout(page.Background))
		ctx.SetStrokeColor(color.RGBA{})
		ctx.DrawPath(0, 0, canvas.Rectangle(page.Width, page.Height))
	}
	if page.Draw != nil {
		page.Draw(newTarget(r, ctx))
	}
	return c
}

func (r *Renderer) applyInfo(writer *pdf.PDF) {
	if writer == nil {
		return
	}
	keywords := strings.Join(r.info.Keywords, ", ")
	writer.SetInfo(r.info.Title, r.info.Subject, keywords, r.info.Author, r.info.Creator)
}
