/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Text measurement and line breaking for panel text.
// All measurement goes through a Provider so exporters and tests can swap
// the font engine; results are in canvas pixels.

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FontSpec describes a requested font.
type FontSpec struct {
	Family string // logical family name
	SizePx float64
	Bold   bool
	Italic bool
}

// Metrics provides font metrics in pixels for the resolved face.
type Metrics struct {
	Ascent, Descent, LineGap float64
}

// Provider maps FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// BasicProvider uses x/image/basicfont Face7x13 for deterministic tests.
type BasicProvider struct{}

func (BasicProvider) Resolve(FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	return f, metricsOf(f)
}

func metricsOf(f font.Face) Metrics {
	m := f.Metrics()
	return Metrics{
		Ascent:  float64(m.Ascent.Round()),
		Descent: float64(m.Descent.Round()),
		LineGap: float64(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
	}
}

// Line is a single laid out line.
type Line struct {
	Text  string
	Width float64
}

// Block is text laid out into a box.
type Block struct {
	Lines []Line
	Style Style
	// LineAdvance is the distance between consecutive baselines.
	LineAdvance float64
	Width       float64
	Height      float64
	Metrics     Metrics
	Face        font.Face
}

// Advance measures s on face, adding tracking after every rune.
func Advance(face font.Face, s string, tracking float64) float64 {
	d := &font.Drawer{Face: face}
	w := float64(d.MeasureString(s)) / 64
	return w + tracking*float64(utf8.RuneCountInString(s))
}

// Wrap breaks text into lines no wider than maxWidth. Explicit newlines are
// kept; words wider than maxWidth get a line of their own. maxWidth <= 0
// disables wrapping.
func Wrap(face font.Face, text string, maxWidth, tracking float64) []Line {
	var lines []Line
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, Line{})
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			next := cur + " " + w
			if maxWidth > 0 && Advance(face, next, tracking) > maxWidth {
				lines = append(lines, Line{Text: cur, Width: Advance(face, cur, tracking)})
				cur = w
				continue
			}
			cur = next
		}
		lines = append(lines, Line{Text: cur, Width: Advance(face, cur, tracking)})
	}
	return lines
}

// Layout resolves st's font, transforms and wraps text to maxWidth.
func Layout(provider Provider, text string, st Style, maxWidth float64) Block {
	if provider == nil {
		provider = BasicProvider{}
	}
	face, met := provider.Resolve(st.Font)
	text = ApplyTransform(text, st.Transform)
	tracking := st.TrackingEm * st.Font.SizePx
	lines := Wrap(face, text, maxWidth, tracking)

	adv := st.Font.SizePx * st.LineHeight
	if adv <= 0 {
		adv = met.Ascent + met.Descent + met.LineGap
	}
	b := Block{Lines: lines, Style: st, LineAdvance: adv, Metrics: met, Face: face}
	for _, l := range lines {
		b.Width = max(b.Width, l.Width)
	}
	b.Height = adv * float64(len(lines))
	return b
}

// LineX returns the left x of line within a box starting at boxX of width boxW.
// Justified text is laid out left aligned; callers stretch word gaps themselves.
func (b Block) LineX(l Line, boxX, boxW float64) float64 {
	return AlignX(b.Style.Align, l.Width, boxX, boxW)
}

// Baseline returns the baseline y of line i when the block is vertically
// centered in a box starting at boxY of height boxH.
func (b Block) Baseline(i int, boxY, boxH float64) float64 {
	top := boxY + (boxH-b.Height)/2
	// center the glyphs within each line slot
	pad := (b.LineAdvance - (b.Metrics.Ascent + b.Metrics.Descent)) / 2
	return top + float64(i)*b.LineAdvance + pad + b.Metrics.Ascent
}
