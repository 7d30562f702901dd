/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the canvas data model: placed panels, the canvas
// aggregate held by the store, and the persisted document shape.
// JSON field names match the export format so documents round-trip unchanged.

// ShapeKind is the fixed set of shapes a panel can take.
type ShapeKind string

const (
	ShapeSquare    ShapeKind = "square"
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
	ShapeEllipse   ShapeKind = "ellipse"
	ShapeTriangle  ShapeKind = "triangle"
	ShapeHexagon   ShapeKind = "hexagon"
	ShapePentagon  ShapeKind = "pentagon"
	ShapeStar      ShapeKind = "star"
	ShapeDiamond   ShapeKind = "diamond"
	ShapeTextbox   ShapeKind = "textbox"
)

var shapeKinds = []ShapeKind{
	ShapeSquare, ShapeRectangle, ShapeCircle, ShapeEllipse, ShapeTriangle,
	ShapeHexagon, ShapePentagon, ShapeStar, ShapeDiamond, ShapeTextbox,
}

// ShapeKinds lists every known shape in stable order.
func ShapeKinds() []ShapeKind { return append([]ShapeKind(nil), shapeKinds...) }

// Valid reports whether k is one of the known shapes.
func (k ShapeKind) Valid() bool {
	for _, s := range shapeKinds {
		if s == k {
			return true
		}
	}
	return false
}

// SupportsBorderRadius reports whether borderRadius affects rendering of k.
func (k ShapeKind) SupportsBorderRadius() bool {
	return k == ShapeRectangle || k == ShapeSquare
}

type ShadowDirection string

const (
	ShadowNone        ShadowDirection = "none"
	ShadowTop         ShadowDirection = "top"
	ShadowBottom      ShadowDirection = "bottom"
	ShadowLeft        ShadowDirection = "left"
	ShadowRight       ShadowDirection = "right"
	ShadowTopLeft     ShadowDirection = "top-left"
	ShadowTopRight    ShadowDirection = "top-right"
	ShadowBottomLeft  ShadowDirection = "bottom-left"
	ShadowBottomRight ShadowDirection = "bottom-right"
)

// Offset returns the unit offset of a shadow cast in direction d.
// Unknown directions and ShadowNone yield (0, 0).
func (d ShadowDirection) Offset() (dx, dy float64) {
	switch d {
	case ShadowTop:
		return 0, -1
	case ShadowBottom:
		return 0, 1
	case ShadowLeft:
		return -1, 0
	case ShadowRight:
		return 1, 0
	case ShadowTopLeft:
		return -1, -1
	case ShadowTopRight:
		return 1, -1
	case ShadowBottomLeft:
		return -1, 1
	case ShadowBottomRight:
		return 1, 1
	default:
		return 0, 0
	}
}

type TextAlign string

const (
	AlignLeft    TextAlign = "left"
	AlignCenter  TextAlign = "center"
	AlignRight   TextAlign = "right"
	AlignJustify TextAlign = "justify"
)

// LetterSpacing is a named tracking bucket.
type LetterSpacing string

const (
	TrackingTighter LetterSpacing = "tighter"
	TrackingTight   LetterSpacing = "tight"
	TrackingNormal  LetterSpacing = "normal"
	TrackingWide    LetterSpacing = "wide"
	TrackingWider   LetterSpacing = "wider"
	TrackingWidest  LetterSpacing = "widest"
)

// LineHeight is a named leading bucket.
type LineHeight string

const (
	LeadingNone    LineHeight = "none"
	LeadingTight   LineHeight = "tight"
	LeadingSnug    LineHeight = "snug"
	LeadingNormal  LineHeight = "normal"
	LeadingRelaxed LineHeight = "relaxed"
	LeadingLoose   LineHeight = "loose"
)

type TextTransform string

const (
	TransformNone       TextTransform = "none"
	TransformUppercase  TextTransform = "uppercase"
	TransformLowercase  TextTransform = "lowercase"
	TransformCapitalize TextTransform = "capitalize"
)

type GradientType string

const (
	GradientLinear GradientType = "linear"
	GradientRadial GradientType = "radial"
)

// GradientStop is a color at a relative offset in [0,1].
type GradientStop struct {
	Color  string  `json:"color"`
	Offset float64 `json:"offset"`
}

// Gradient replaces the solid background color when set.
// Angle is in degrees; 0 runs left to right, 90 top to bottom.
type Gradient struct {
	Type  GradientType   `json:"type"`
	Angle float64        `json:"angle,omitempty"`
	Stops []GradientStop `json:"stops"`
}

// Clone returns a deep copy of g (nil stays nil).
func (g *Gradient) Clone() *Gradient {
	if g == nil {
		return nil
	}
	c := *g
	c.Stops = append([]GradientStop(nil), g.Stops...)
	return &c
}

// Panel is a placed shape or text box.
// Geometry is in canvas space with (X, Y) at the top-left corner.
// Rotation is in degrees and is stored as given.
type Panel struct {
	ID       string    `json:"id"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Rotation float64   `json:"rotation"`
	ZIndex   int       `json:"zIndex"`
	Shape    ShapeKind `json:"shape"`

	BackgroundColor string          `json:"backgroundColor,omitempty"`
	Gradient        *Gradient       `json:"gradient,omitempty"`
	BorderColor     string          `json:"borderColor,omitempty"`
	BorderWidth     float64         `json:"borderWidth,omitempty"`
	BorderRadius    float64         `json:"borderRadius,omitempty"`
	ShadowDirection ShadowDirection `json:"shadowDirection,omitempty"`

	Text            string        `json:"text,omitempty"`
	FontSize        float64       `json:"fontSize,omitempty"`
	FontColor       string        `json:"fontColor,omitempty"`
	FontFamily      string        `json:"fontFamily,omitempty"`
	IsBold          bool          `json:"isBold,omitempty"`
	IsItalic        bool          `json:"isItalic,omitempty"`
	IsUnderline     bool          `json:"isUnderline,omitempty"`
	IsStrikethrough bool          `json:"isStrikethrough,omitempty"`
	TextAlign       TextAlign     `json:"textAlign,omitempty"`
	LetterSpacing   LetterSpacing `json:"letterSpacing,omitempty"`
	LineHeight      LineHeight    `json:"lineHeight,omitempty"`
	TextTransform   TextTransform `json:"textTransform,omitempty"`

	IsLocked bool `json:"isLocked,omitempty"`
}

// Clone returns a copy of p that shares no memory with it.
func (p Panel) Clone() Panel {
	p.Gradient = p.Gradient.Clone()
	return p
}

// Bounds returns the unrotated bounding rectangle.
func (p Panel) Bounds() (x, y, w, h float64) { return p.X, p.Y, p.Width, p.Height }

// Center returns the center point of the panel.
func (p Panel) Center() (cx, cy float64) { return p.X + p.Width/2, p.Y + p.Height/2 }

// ClonePanels deep-copies a panel slice. A nil input yields an empty, non-nil slice.
func ClonePanels(ps []Panel) []Panel {
	out := make([]Panel, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}
