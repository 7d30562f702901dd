/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"panelcanvas/internal/domain"
)

// Style is the resolved text style of a panel.
type Style struct {
	Font       FontSpec
	Color      string
	Align      domain.TextAlign
	TrackingEm float64 // letter spacing in em
	LineHeight float64 // multiple of the font size
	Transform  domain.TextTransform
	Underline  bool
	Strike     bool
}

// StyleFor maps the text fields of p to a Style, filling defaults.
func StyleFor(p domain.Panel) Style {
	size := p.FontSize
	if size <= 0 {
		size = 16
	}
	align := p.TextAlign
	if align == "" {
		align = domain.AlignCenter
	}
	color := p.FontColor
	if color == "" {
		color = domain.DefaultFgColor
	}
	return Style{
		Font:       FontSpec{Family: p.FontFamily, SizePx: size, Bold: p.IsBold, Italic: p.IsItalic},
		Color:      color,
		Align:      align,
		TrackingEm: TrackingEm(p.LetterSpacing),
		LineHeight: LineHeightFactor(p.LineHeight),
		Transform:  p.TextTransform,
		Underline:  p.IsUnderline,
		Strike:     p.IsStrikethrough,
	}
}

// TrackingEm maps a letter-spacing bucket to em units.
func TrackingEm(ls domain.LetterSpacing) float64 {
	switch ls {
	case domain.TrackingTighter:
		return -0.05
	case domain.TrackingTight:
		return -0.025
	case domain.TrackingWide:
		return 0.025
	case domain.TrackingWider:
		return 0.05
	case domain.TrackingWidest:
		return 0.1
	default:
		return 0
	}
}

// LineHeightFactor maps a line-height bucket to a multiple of the font size.
func LineHeightFactor(lh domain.LineHeight) float64 {
	switch lh {
	case domain.LeadingNone:
		return 1
	case domain.LeadingTight:
		return 1.25
	case domain.LeadingSnug:
		return 1.375
	case domain.LeadingRelaxed:
		return 1.625
	case domain.LeadingLoose:
		return 2
	default:
		return 1.5
	}
}

// ApplyTransform applies a text-transform to s.
func ApplyTransform(s string, t domain.TextTransform) string {
	switch t {
	case domain.TransformUppercase:
		return cases.Upper(language.Und).String(s)
	case domain.TransformLowercase:
		return cases.Lower(language.Und).String(s)
	case domain.TransformCapitalize:
		return cases.Title(language.Und, cases.NoLower).String(s)
	default:
		return s
	}
}

// AlignX positions a line of width lineW inside [boxX, boxX+boxW].
func AlignX(align domain.TextAlign, lineW, boxX, boxW float64) float64 {
	switch align {
	case domain.AlignLeft, domain.AlignJustify:
		return boxX
	case domain.AlignRight:
		return boxX + boxW - lineW
	default:
		return boxX + (boxW-lineW)/2
	}
}
