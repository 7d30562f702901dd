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
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"panelcanvas/internal/domain"
	"panelcanvas/internal/textlayout"
	"panelcanvas/internal/vector"
)

// SVGOptions controls vector export. Text is positioned with Fonts metrics
// but emitted as live <text> so viewers may substitute fonts.
type SVGOptions struct {
	IncludeGrid *bool
	Fonts       textlayout.Provider
}

// WriteSVG writes doc as a standalone SVG document.
func WriteSVG(doc domain.Document, w io.Writer, opt SVGOptions) error {
	doc, panels := scene(doc)
	fonts := opt.Fonts
	if fonts == nil {
		fonts = defaultFonts()
	}
	cw, ch := doc.CanvasWidth, doc.CanvasHeight

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%gpx\" height=\"%gpx\" viewBox=\"0 0 %g %g\">\n", cw, ch, cw, ch)

	wf("  <defs>\n")
	if *doc.RoundedCorners {
		wf("    <clipPath id=\"canvas-clip\"><rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" rx=\"%g\" ry=\"%g\"/></clipPath>\n", cw, ch, canvasCornerRadius, canvasCornerRadius)
	}
	fg := domain.ColorOr(doc.CanvasFgColor, color.RGBA{A: 255})
	grid := showGrid(doc, opt.IncludeGrid)
	if grid {
		wf("    <pattern id=\"grid\" width=\"%g\" height=\"%g\" patternUnits=\"userSpaceOnUse\">", gridStep, gridStep)
		wf("<path d=\"M %g 0 L 0 0 0 %g\" fill=\"none\" stroke=\"%s\" stroke-opacity=\"0.1\" stroke-width=\"1\"/></pattern>\n", gridStep, gridStep, svgColor(fg))
	}
	for i, p := range panels {
		if p.Gradient != nil && len(p.Gradient.Stops) > 0 {
			writeGradientDef(wf, gradientID(i), p.Gradient, vector.PanelRect(p))
		}
	}
	wf("  </defs>\n")

	if *doc.RoundedCorners {
		wf("  <g clip-path=\"url(#canvas-clip)\">\n")
	} else {
		wf("  <g>\n")
	}
	bg := domain.ColorOr(doc.CanvasBgColor, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	wf("    <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" %s/>\n", cw, ch, paint("fill", bg))
	if doc.CanvasBgImage != nil && *doc.CanvasBgImage != "" {
		wf("    <image x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" preserveAspectRatio=\"none\" href=\"%s\"/>\n", cw, ch, escAttr(*doc.CanvasBgImage))
	}
	if grid {
		wf("    <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"url(#grid)\"/>\n", cw, ch)
	}

	for i, p := range panels {
		r := vector.PanelRect(p)
		c := r.Center()
		if p.Rotation != 0 {
			wf("    <g id=\"%s\" transform=\"rotate(%g %g %g)\">\n", escAttr(p.ID), p.Rotation, c.X, c.Y)
		} else {
			wf("    <g id=\"%s\">\n", escAttr(p.ID))
		}
		if hasShadow(p) {
			dx, dy := p.ShadowDirection.Offset()
			so := vector.ShapeOutline(p.Shape, r.Translate(dx*shadowDistance, dy*shadowDistance), p.BorderRadius)
			wf("      %s\n", outlineElement(so, paint("fill", shadowColor(p))))
		}
		fill := paint("fill", fillColor(p))
		if p.Gradient != nil && len(p.Gradient.Stops) > 0 {
			fill = fmt.Sprintf("fill=\"url(#%s)\"", gradientID(i))
		}
		stroke := "stroke=\"none\""
		if hasBorder(p) {
			stroke = fmt.Sprintf("%s stroke-width=\"%g\"", paint("stroke", domain.ColorOr(p.BorderColor, color.RGBA{A: 255})), p.BorderWidth)
		}
		wf("      %s\n", outlineElement(vector.ShapeOutline(p.Shape, r, p.BorderRadius), fill+" "+stroke))
		if text := panelText(p); text != "" {
			writeTextSVG(wf, p, text, r, fonts)
		}
		wf("    </g>\n")
	}
	wf("  </g>\n")
	wf("</svg>\n")

	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// ExportSVG writes doc as SVG to path, creating parent directories.
func ExportSVG(doc domain.Document, path string, opt SVGOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	var buf bytes.Buffer
	if err := WriteSVG(doc, &buf, opt); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func gradientID(i int) string { return fmt.Sprintf("grad-%d", i) }

func writeGradientDef(wf func(string, ...any), id string, g *domain.Gradient, r vector.Rect) {
	if g.Type == domain.GradientRadial {
		c := r.Center()
		wf("    <radialGradient id=\"%s\" gradientUnits=\"userSpaceOnUse\" cx=\"%g\" cy=\"%g\" r=\"%g\">\n", id, c.X, c.Y, math.Max(r.W, r.H)/2)
	} else {
		x0, y0, x1, y1 := linearEndpoints(g.Angle, r)
		wf("    <linearGradient id=\"%s\" gradientUnits=\"userSpaceOnUse\" x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\">\n", id,
			vector.FloatRound(x0, 3), vector.FloatRound(y0, 3), vector.FloatRound(x1, 3), vector.FloatRound(y1, 3))
	}
	for _, s := range g.Stops {
		c := domain.ColorOr(s.Color, color.RGBA{})
		wf("      <stop offset=\"%g\" stop-color=\"%s\" stop-opacity=\"%g\"/>\n", s.Offset, svgColor(c), opacity(c))
	}
	if g.Type == domain.GradientRadial {
		wf("    </radialGradient>\n")
	} else {
		wf("    </linearGradient>\n")
	}
}

func outlineElement(o vector.Outline, attrs string) string {
	r := o.Bounds
	switch o.Kind {
	case vector.OutlineEllipse:
		return fmt.Sprintf("<ellipse cx=\"%g\" cy=\"%g\" rx=\"%g\" ry=\"%g\" %s/>", r.X+r.W/2, r.Y+r.H/2, r.W/2, r.H/2, attrs)
	case vector.OutlinePolygon:
		pts := make([]string, len(o.Points))
		for i, p := range o.Points {
			pts[i] = fmt.Sprintf("%g,%g", vector.FloatRound(p.X, 3), vector.FloatRound(p.Y, 3))
		}
		return fmt.Sprintf("<polygon points=\"%s\" %s/>", strings.Join(pts, " "), attrs)
	default:
		if o.Radius > 0 {
			return fmt.Sprintf("<rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" rx=\"%g\" ry=\"%g\" %s/>", r.X, r.Y, r.W, r.H, o.Radius, o.Radius, attrs)
		}
		return fmt.Sprintf("<rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" %s/>", r.X, r.Y, r.W, r.H, attrs)
	}
}

func writeTextSVG(wf func(string, ...any), p domain.Panel, text string, r vector.Rect, fonts textlayout.Provider) {
	st := textlayout.StyleFor(p)
	box := r.Inset(textPadding, textPadding)
	block := textlayout.Layout(fonts, text, st, box.W)

	family := "sans-serif"
	if st.Font.Family != "" {
		family = st.Font.Family
	}
	attrs := fmt.Sprintf("font-family=\"%s\" font-size=\"%g\" %s", escAttr(family), st.Font.SizePx, paint("fill", domain.ColorOr(st.Color, color.RGBA{A: 255})))
	if st.Font.Bold {
		attrs += " font-weight=\"bold\""
	}
	if st.Font.Italic {
		attrs += " font-style=\"italic\""
	}
	if st.TrackingEm != 0 {
		attrs += fmt.Sprintf(" letter-spacing=\"%g\"", vector.FloatRound(st.TrackingEm*st.Font.SizePx, 3))
	}
	var deco []string
	if st.Underline {
		deco = append(deco, "underline")
	}
	if st.Strike {
		deco = append(deco, "line-through")
	}
	if len(deco) > 0 {
		attrs += fmt.Sprintf(" text-decoration=\"%s\"", strings.Join(deco, " "))
	}

	wf("      <text %s>", attrs)
	for i, line := range block.Lines {
		x := block.LineX(line, box.X, box.W)
		y := block.Baseline(i, box.Y, box.H)
		wf("<tspan x=\"%g\" y=\"%g\">%s</tspan>", vector.FloatRound(x, 2), vector.FloatRound(y, 2), escText(line.Text))
	}
	wf("</text>\n")
}

func svgColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func opacity(c color.RGBA) float64 { return vector.FloatRound(float64(c.A)/255, 3) }

// paint renders a fill or stroke attribute pair for c.
func paint(attr string, c color.RGBA) string {
	if c.A == 0 {
		return fmt.Sprintf("%s=\"none\"", attr)
	}
	if c.A == 255 {
		return fmt.Sprintf("%s=\"%s\"", attr, svgColor(c))
	}
	return fmt.Sprintf("%s=\"%s\" %s-opacity=\"%g\"", attr, svgColor(c), attr, opacity(c))
}

func escAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", "\"", "&quot;", "<", "&lt;", ">", "&gt;", "\n", " ", "\r", "")
	return r.Replace(s)
}

func escText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
