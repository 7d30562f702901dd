/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"panelcanvas/internal/domain"
	applog "panelcanvas/internal/log"
	"panelcanvas/internal/textlayout"
	"panelcanvas/internal/vector"
	"panelcanvas/internal/version"
)

// PDFOptions controls PDF export. The page is sized to the canvas with one
// canvas pixel mapped to one point.
type PDFOptions struct {
	IncludeGrid *bool
	Title       string
}

// roundedSegs is the number of segments per rounded corner.
const roundedSegs = 8

// WritePDF writes doc as a single-page PDF. Text uses the core Helvetica and
// Courier fonts so nothing is embedded; letter spacing is not reproduced.
// Gradients are drawn between their first and last stops.
func WritePDF(doc domain.Document, w io.Writer, opt PDFOptions) error {
	doc, panels := scene(doc)
	cw, ch := doc.CanvasWidth, doc.CanvasHeight

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: cw, Ht: ch},
		OrientationStr: "",
	})
	title := opt.Title
	if title == "" {
		title = "Canvas"
	}
	pdf.SetTitle(title, true)
	pdf.SetCreator("panelcanvas "+version.String(), false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	full := vector.R(0, 0, cw, ch)
	if *doc.RoundedCorners {
		pdf.ClipPolygon(toPDFPoints(vector.RoundedRectPoints(full, canvasCornerRadius, roundedSegs)), false)
	}
	setFillColor(pdf, domain.ColorOr(doc.CanvasBgColor, color.RGBA{R: 255, G: 255, B: 255, A: 255}))
	pdf.Rect(0, 0, cw, ch, "F")
	pdf.SetAlpha(1, "Normal")

	if doc.CanvasBgImage != nil && *doc.CanvasBgImage != "" {
		if err := drawBackgroundPDF(pdf, *doc.CanvasBgImage, cw, ch); err != nil {
			applog.WithComponent("export").Warn("skipping background image", "err", err)
		}
	}
	if showGrid(doc, opt.IncludeGrid) {
		fg := domain.ColorOr(doc.CanvasFgColor, color.RGBA{A: 255})
		pdf.SetDrawColor(int(fg.R), int(fg.G), int(fg.B))
		pdf.SetAlpha(0.1, "Normal")
		pdf.SetLineWidth(1)
		for x := gridStep; x < cw; x += gridStep {
			pdf.Line(x, 0, x, ch)
		}
		for y := gridStep; y < ch; y += gridStep {
			pdf.Line(0, y, cw, y)
		}
		pdf.SetAlpha(1, "Normal")
	}

	for _, p := range panels {
		drawPanelPDF(pdf, p, tr)
	}
	if *doc.RoundedCorners {
		pdf.ClipEnd()
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// ExportPDF writes doc as PDF to path, creating parent directories.
func ExportPDF(doc domain.Document, path string, opt PDFOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	var buf bytes.Buffer
	if err := WritePDF(doc, &buf, opt); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setDrawColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

// setFillColor also applies the alpha of c; callers reset it afterwards.
func setFillColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	pdf.SetAlpha(float64(c.A)/255, "Normal")
}

func toPDFPoints(pts []vector.Pt) []gofpdf.PointType {
	out := make([]gofpdf.PointType, len(pts))
	for i, p := range pts {
		out[i] = gofpdf.PointType{X: p.X, Y: p.Y}
	}
	return out
}

// outlinePoints flattens any outline into a polygon for clipping and filling.
func outlinePoints(o vector.Outline) []vector.Pt {
	switch o.Kind {
	case vector.OutlinePolygon:
		return o.Points
	case vector.OutlineEllipse:
		c := o.Bounds.Center()
		n := 64
		pts := make([]vector.Pt, n)
		for i := range pts {
			a := 2 * math.Pi * float64(i) / float64(n)
			pts[i] = vector.Pt{X: c.X + math.Cos(a)*o.Bounds.W/2, Y: c.Y + math.Sin(a)*o.Bounds.H/2}
		}
		return pts
	default:
		return vector.RoundedRectPoints(o.Bounds, o.Radius, roundedSegs)
	}
}

func drawBackgroundPDF(pdf *gofpdf.Fpdf, ref string, cw, ch float64) error {
	img, _, err := decodeImageRef(ref)
	if err != nil {
		return err
	}
	// re-encode so formats gofpdf cannot read (webp, bmp) still embed
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode background image: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("canvas-bg", opts, &buf)
	if err := pdf.Error(); err != nil {
		return err
	}
	pdf.ImageOptions("canvas-bg", 0, 0, cw, ch, false, opts, 0, "")
	return pdf.Error()
}

func drawPanelPDF(pdf *gofpdf.Fpdf, p domain.Panel, tr func(string) string) {
	r := vector.PanelRect(p)
	c := r.Center()
	pdf.TransformBegin()
	defer pdf.TransformEnd()
	if p.Rotation != 0 {
		// gofpdf rotates counter-clockwise
		pdf.TransformRotate(-p.Rotation, c.X, c.Y)
	}

	if hasShadow(p) {
		dx, dy := p.ShadowDirection.Offset()
		so := vector.ShapeOutline(p.Shape, r.Translate(dx*shadowDistance, dy*shadowDistance), p.BorderRadius)
		setFillColor(pdf, shadowColor(p))
		pdf.Polygon(toPDFPoints(outlinePoints(so)), "F")
		pdf.SetAlpha(1, "Normal")
	}

	pts := toPDFPoints(outlinePoints(vector.ShapeOutline(p.Shape, r, p.BorderRadius)))
	if g := p.Gradient; g != nil && len(g.Stops) > 0 {
		from := domain.ColorOr(g.Stops[0].Color, color.RGBA{})
		to := domain.ColorOr(g.Stops[len(g.Stops)-1].Color, color.RGBA{})
		pdf.ClipPolygon(pts, false)
		if g.Type == domain.GradientRadial {
			pdf.RadialGradient(r.X, r.Y, r.W, r.H, int(from.R), int(from.G), int(from.B), int(to.R), int(to.G), int(to.B), 0.5, 0.5, 0.5, 0.5, 0.5)
		} else {
			x0, y0, x1, y1 := linearEndpoints(g.Angle, vector.R(0, 0, 1, 1))
			// gradient space has its origin at the bottom left
			pdf.LinearGradient(r.X, r.Y, r.W, r.H, int(from.R), int(from.G), int(from.B), int(to.R), int(to.G), int(to.B), x0, 1-y0, x1, 1-y1)
		}
		pdf.ClipEnd()
	} else if fill := fillColor(p); fill.A > 0 {
		setFillColor(pdf, fill)
		pdf.Polygon(pts, "F")
		pdf.SetAlpha(1, "Normal")
	}
	if hasBorder(p) {
		setDrawColor(pdf, domain.ColorOr(p.BorderColor, color.RGBA{A: 255}))
		pdf.SetLineWidth(p.BorderWidth)
		pdf.Polygon(pts, "D")
	}

	if text := panelText(p); text != "" {
		drawTextPDF(pdf, p, text, r, tr)
	}
}

func pdfFontStyle(st textlayout.Style) string {
	s := ""
	if st.Font.Bold {
		s += "B"
	}
	if st.Font.Italic {
		s += "I"
	}
	return s
}

func drawTextPDF(pdf *gofpdf.Fpdf, p domain.Panel, text string, r vector.Rect, tr func(string) string) {
	st := textlayout.StyleFor(p)
	family := "Helvetica"
	if textlayout.IsMonospace(st.Font.Family) {
		family = "Courier"
	}
	pdf.SetFont(family, pdfFontStyle(st), st.Font.SizePx)
	col := domain.ColorOr(st.Color, color.RGBA{A: 255})
	pdf.SetTextColor(int(col.R), int(col.G), int(col.B))
	setDrawColor(pdf, col)

	box := r.Inset(textPadding, textPadding)
	text = textlayout.ApplyTransform(text, st.Transform)
	var lines []string
	for _, para := range strings.Split(tr(text), "\n") {
		if para == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, pdf.SplitText(para, math.Max(box.W, 1))...)
	}

	adv := st.Font.SizePx * st.LineHeight
	ascent := st.Font.SizePx * 0.8
	top := box.Y + (box.H-adv*float64(len(lines)))/2
	for i, line := range lines {
		lw := pdf.GetStringWidth(line)
		x := textlayout.AlignX(st.Align, lw, box.X, box.W)
		y := top + float64(i)*adv + (adv-st.Font.SizePx)/2 + ascent
		pdf.Text(x, y, line)
		thickness := math.Max(0.5, st.Font.SizePx/16)
		pdf.SetLineWidth(thickness)
		if st.Underline {
			pdf.Line(x, y+thickness*2, x+lw, y+thickness*2)
		}
		if st.Strike {
			pdf.Line(x, y-ascent/3, x+lw, y-ascent/3)
		}
	}
}

