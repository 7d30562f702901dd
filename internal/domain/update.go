/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// PanelUpdate is a partial update: nil fields are left untouched.
// The panel id cannot be changed through an update.
type PanelUpdate struct {
	X        *float64   `json:"x,omitempty"`
	Y        *float64   `json:"y,omitempty"`
	Width    *float64   `json:"width,omitempty"`
	Height   *float64   `json:"height,omitempty"`
	Rotation *float64   `json:"rotation,omitempty"`
	ZIndex   *int       `json:"zIndex,omitempty"`
	Shape    *ShapeKind `json:"shape,omitempty"`

	BackgroundColor *string          `json:"backgroundColor,omitempty"`
	Gradient        *Gradient        `json:"gradient,omitempty"`
	ClearGradient   bool             `json:"clearGradient,omitempty"`
	BorderColor     *string          `json:"borderColor,omitempty"`
	BorderWidth     *float64         `json:"borderWidth,omitempty"`
	BorderRadius    *float64         `json:"borderRadius,omitempty"`
	ShadowDirection *ShadowDirection `json:"shadowDirection,omitempty"`

	Text            *string        `json:"text,omitempty"`
	FontSize        *float64       `json:"fontSize,omitempty"`
	FontColor       *string        `json:"fontColor,omitempty"`
	FontFamily      *string        `json:"fontFamily,omitempty"`
	IsBold          *bool          `json:"isBold,omitempty"`
	IsItalic        *bool          `json:"isItalic,omitempty"`
	IsUnderline     *bool          `json:"isUnderline,omitempty"`
	IsStrikethrough *bool          `json:"isStrikethrough,omitempty"`
	TextAlign       *TextAlign     `json:"textAlign,omitempty"`
	LetterSpacing   *LetterSpacing `json:"letterSpacing,omitempty"`
	LineHeight      *LineHeight    `json:"lineHeight,omitempty"`
	TextTransform   *TextTransform `json:"textTransform,omitempty"`

	IsLocked *bool `json:"isLocked,omitempty"`
}

// Apply merges the non-nil fields of u onto p and returns the result.
// ZIndex is copied verbatim; callers that need arbitration resolve it first.
func (u PanelUpdate) Apply(p Panel) Panel {
	out := p.Clone()
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setS := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setB := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&out.X, u.X)
	setF(&out.Y, u.Y)
	setF(&out.Width, u.Width)
	setF(&out.Height, u.Height)
	setF(&out.Rotation, u.Rotation)
	if u.ZIndex != nil {
		out.ZIndex = *u.ZIndex
	}
	if u.Shape != nil {
		out.Shape = *u.Shape
	}

	setS(&out.BackgroundColor, u.BackgroundColor)
	if u.ClearGradient {
		out.Gradient = nil
	}
	if u.Gradient != nil {
		out.Gradient = u.Gradient.Clone()
	}
	setS(&out.BorderColor, u.BorderColor)
	setF(&out.BorderWidth, u.BorderWidth)
	setF(&out.BorderRadius, u.BorderRadius)
	if u.ShadowDirection != nil {
		out.ShadowDirection = *u.ShadowDirection
	}

	setS(&out.Text, u.Text)
	setF(&out.FontSize, u.FontSize)
	setS(&out.FontColor, u.FontColor)
	setS(&out.FontFamily, u.FontFamily)
	setB(&out.IsBold, u.IsBold)
	setB(&out.IsItalic, u.IsItalic)
	setB(&out.IsUnderline, u.IsUnderline)
	setB(&out.IsStrikethrough, u.IsStrikethrough)
	if u.TextAlign != nil {
		out.TextAlign = *u.TextAlign
	}
	if u.LetterSpacing != nil {
		out.LetterSpacing = *u.LetterSpacing
	}
	if u.LineHeight != nil {
		out.LineHeight = *u.LineHeight
	}
	if u.TextTransform != nil {
		out.TextTransform = *u.TextTransform
	}
	setB(&out.IsLocked, u.IsLocked)
	return out
}

// TouchesGeometry reports whether the update changes position or size.
func (u PanelUpdate) TouchesGeometry() bool {
	return u.X != nil || u.Y != nil || u.Width != nil || u.Height != nil
}
