/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"panelcanvas/internal/domain"
	applog "panelcanvas/internal/log"
	"panelcanvas/internal/textlayout"
	"panelcanvas/internal/vector"
)

// PNGOptions controls raster export.
//   - Scale multiplies the output pixel size (default 1).
//   - IncludeGrid, when set, overrides the document's showGrid flag.
//   - Fonts resolves panel fonts; the Go fonts are used when nil.
type PNGOptions struct {
	Scale       float64
	IncludeGrid *bool
	Fonts       textlayout.Provider
}

// Render draws doc into an RGBA image.
func Render(doc domain.Document, opt PNGOptions) (image.Image, error) {
	doc, panels := scene(doc)
	scale := opt.Scale
	if scale <= 0 {
		scale = 1
	}
	fonts := opt.Fonts
	if fonts == nil {
		fonts = defaultFonts()
	}
	w := int(math.Ceil(doc.CanvasWidth * scale))
	h := int(math.Ceil(doc.CanvasHeight * scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid canvas size %vx%v", doc.CanvasWidth, doc.CanvasHeight)
	}

	dc := gg.NewContext(w, h)
	dc.Scale(scale, scale)
	cw, ch := doc.CanvasWidth, doc.CanvasHeight

	if *doc.RoundedCorners {
		dc.DrawRoundedRectangle(0, 0, cw, ch, canvasCornerRadius)
		dc.Clip()
	}
	dc.SetColor(nrgba(domain.ColorOr(doc.CanvasBgColor, color.RGBA{R: 255, G: 255, B: 255, A: 255})))
	dc.DrawRectangle(0, 0, cw, ch)
	dc.Fill()

	if doc.CanvasBgImage != nil && *doc.CanvasBgImage != "" {
		img, _, err := decodeImageRef(*doc.CanvasBgImage)
		if err != nil {
			applog.WithComponent("export").Warn("skipping background image", "err", err)
		} else {
			b := img.Bounds()
			dc.Push()
			dc.Scale(cw/float64(b.Dx()), ch/float64(b.Dy()))
			dc.DrawImage(img, -b.Min.X, -b.Min.Y)
			dc.Pop()
		}
	}

	fg := domain.ColorOr(doc.CanvasFgColor, color.RGBA{A: 255})
	if showGrid(doc, opt.IncludeGrid) {
		drawGridPNG(dc, cw, ch, fg)
	}
	for _, p := range panels {
		drawPanelPNG(dc, p, fonts)
	}
	dc.ResetClip()
	return dc.Image(), nil
}

// WritePNG encodes the rendered document to w.
func WritePNG(doc domain.Document, w io.Writer, opt PNGOptions) error {
	img, err := Render(doc, opt)
	if err != nil {
		return err
	}
	dc := gg.NewContextForImage(img)
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// ExportPNG renders doc and writes it to path, creating parent directories.
func ExportPNG(doc domain.Document, path string, opt PNGOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	img, err := Render(doc, opt)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

func drawGridPNG(dc *gg.Context, cw, ch float64, fg color.RGBA) {
	dc.Push()
	dc.SetRGBA255(int(fg.R), int(fg.G), int(fg.B), 26)
	dc.SetLineWidth(1)
	for x := gridStep; x < cw; x += gridStep {
		dc.DrawLine(x, 0, x, ch)
	}
	for y := gridStep; y < ch; y += gridStep {
		dc.DrawLine(0, y, cw, y)
	}
	dc.Stroke()
	dc.Pop()
}

// traceOutline adds the outline path to the context without painting it.
func traceOutline(dc *gg.Context, o vector.Outline) {
	r := o.Bounds
	switch o.Kind {
	case vector.OutlineEllipse:
		dc.DrawEllipse(r.X+r.W/2, r.Y+r.H/2, r.W/2, r.H/2)
	case vector.OutlinePolygon:
		dc.NewSubPath()
		for i, pt := range o.Points {
			if i == 0 {
				dc.MoveTo(pt.X, pt.Y)
			} else {
				dc.LineTo(pt.X, pt.Y)
			}
		}
		dc.ClosePath()
	default:
		if o.Radius > 0 {
			dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, o.Radius)
		} else {
			dc.DrawRectangle(r.X, r.Y, r.W, r.H)
		}
	}
}

func drawPanelPNG(dc *gg.Context, p domain.Panel, fonts textlayout.Provider) {
	r := vector.PanelRect(p)
	c := r.Center()
	dc.Push()
	defer dc.Pop()
	if p.Rotation != 0 {
		dc.RotateAbout(gg.Radians(p.Rotation), c.X, c.Y)
	}

	if hasShadow(p) {
		dx, dy := p.ShadowDirection.Offset()
		traceOutline(dc, vector.ShapeOutline(p.Shape, r.Translate(dx*shadowDistance, dy*shadowDistance), p.BorderRadius))
		dc.SetColor(nrgba(shadowColor(p)))
		dc.Fill()
	}

	o := vector.ShapeOutline(p.Shape, r, p.BorderRadius)
	traceOutline(dc, o)
	if p.Gradient != nil && len(p.Gradient.Stops) > 0 {
		dc.SetFillStyle(gradientPattern(p.Gradient, r))
	} else {
		dc.SetColor(nrgba(fillColor(p)))
	}
	if hasBorder(p) {
		dc.FillPreserve()
		dc.SetColor(nrgba(domain.ColorOr(p.BorderColor, color.RGBA{A: 255})))
		dc.SetLineWidth(p.BorderWidth)
		dc.Stroke()
	} else {
		dc.Fill()
	}

	if text := panelText(p); text != "" {
		drawTextPNG(dc, p, text, r, fonts)
	}
}

func gradientPattern(g *domain.Gradient, r vector.Rect) gg.Gradient {
	c := r.Center()
	var grad gg.Gradient
	if g.Type == domain.GradientRadial {
		grad = gg.NewRadialGradient(c.X, c.Y, 0, c.X, c.Y, math.Max(r.W, r.H)/2)
	} else {
		x0, y0, x1, y1 := linearEndpoints(g.Angle, r)
		grad = gg.NewLinearGradient(x0, y0, x1, y1)
	}
	for _, s := range g.Stops {
		grad.AddColorStop(s.Offset, nrgba(domain.ColorOr(s.Color, color.RGBA{})))
	}
	return grad
}

// linearEndpoints spans a gradient line at angle degrees across r so that the
// first and last stops touch opposite corners.
func linearEndpoints(angle float64, r vector.Rect) (x0, y0, x1, y1 float64) {
	rad := vector.Radians(angle)
	dx, dy := math.Cos(rad), math.Sin(rad)
	half := (math.Abs(r.W*dx) + math.Abs(r.H*dy)) / 2
	c := r.Center()
	return c.X - dx*half, c.Y - dy*half, c.X + dx*half, c.Y + dy*half
}

func drawTextPNG(dc *gg.Context, p domain.Panel, text string, r vector.Rect, fonts textlayout.Provider) {
	st := textlayout.StyleFor(p)
	box := r.Inset(textPadding, textPadding)
	block := textlayout.Layout(fonts, text, st, box.W)
	dc.SetFontFace(block.Face)
	dc.SetColor(nrgba(domain.ColorOr(st.Color, color.RGBA{A: 255})))
	tracking := st.TrackingEm * st.Font.SizePx
	for i, line := range block.Lines {
		x := block.LineX(line, box.X, box.W)
		y := block.Baseline(i, box.Y, box.H)
		if tracking == 0 {
			dc.DrawString(line.Text, x, y)
		} else {
			cx := x
			for _, ru := range line.Text {
				s := string(ru)
				dc.DrawString(s, cx, y)
				cx += textlayout.Advance(block.Face, s, tracking)
			}
		}
		thickness := math.Max(1, st.Font.SizePx/16)
		if st.Underline {
			dc.SetLineWidth(thickness)
			dc.DrawLine(x, y+thickness*2, x+line.Width, y+thickness*2)
			dc.Stroke()
		}
		if st.Strike {
			dc.SetLineWidth(thickness)
			mid := y - block.Metrics.Ascent/3
			dc.DrawLine(x, mid, x+line.Width, mid)
			dc.Stroke()
		}
	}
}
