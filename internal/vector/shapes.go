/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"

	"panelcanvas/internal/domain"
)

// Outline kinds returned by ShapeOutline.
type OutlineKind int

const (
	OutlinePolygon OutlineKind = iota
	OutlineEllipse
	OutlineRect
)

// Outline describes how to draw a panel shape inside its bounds.
// Polygon outlines carry their vertices; ellipses and rects use Bounds
// (Radius applies to rects only).
type Outline struct {
	Kind   OutlineKind
	Bounds Rect
	Radius float64
	Points []Pt
}

// relative vertex tables, fractions of the bounding box
var (
	trianglePts = []Pt{{0.5, 0}, {1, 1}, {0, 1}}
	diamondPts  = []Pt{{0.5, 0}, {1, 0.5}, {0.5, 1}, {0, 0.5}}
	pentagonPts = []Pt{{0.5, 0}, {1, 0.38}, {0.82, 1}, {0.18, 1}, {0, 0.38}}
	hexagonPts  = []Pt{{0.25, 0}, {0.75, 0}, {1, 0.5}, {0.75, 1}, {0.25, 1}, {0, 0.5}}
	starPts     = []Pt{
		{0.5, 0}, {0.61, 0.35}, {0.98, 0.35}, {0.68, 0.57}, {0.79, 0.91},
		{0.5, 0.7}, {0.21, 0.91}, {0.32, 0.57}, {0.02, 0.35}, {0.39, 0.35},
	}
)

// ShapeOutline returns the unrotated outline of shape within r.
// radius is honored only by shapes that support a border radius; textboxes
// and unknown shapes are plain rects.
func ShapeOutline(shape domain.ShapeKind, r Rect, radius float64) Outline {
	switch shape {
	case domain.ShapeCircle, domain.ShapeEllipse:
		return Outline{Kind: OutlineEllipse, Bounds: r}
	case domain.ShapeTriangle:
		return polygon(r, trianglePts)
	case domain.ShapeDiamond:
		return polygon(r, diamondPts)
	case domain.ShapePentagon:
		return polygon(r, pentagonPts)
	case domain.ShapeHexagon:
		return polygon(r, hexagonPts)
	case domain.ShapeStar:
		return polygon(r, starPts)
	}
	if !shape.SupportsBorderRadius() {
		radius = 0
	}
	return Outline{Kind: OutlineRect, Bounds: r, Radius: ClampRadius(r, radius)}
}

func polygon(r Rect, rel []Pt) Outline {
	pts := make([]Pt, len(rel))
	for i, p := range rel {
		pts[i] = Pt{X: r.X + p.X*r.W, Y: r.Y + p.Y*r.H}
	}
	return Outline{Kind: OutlinePolygon, Bounds: r, Points: pts}
}

// ClampRadius limits a corner radius to half the shorter side.
func ClampRadius(r Rect, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	return min(radius, math.Min(r.W, r.H)/2)
}

// RoundedRectPoints approximates a rounded rectangle with segs points per corner.
func RoundedRectPoints(r Rect, radius float64, segs int) []Pt {
	radius = ClampRadius(r, radius)
	if radius == 0 || segs < 1 {
		return []Pt{{r.X, r.Y}, {r.X + r.W, r.Y}, {r.X + r.W, r.Y + r.H}, {r.X, r.Y + r.H}}
	}
	corners := []struct {
		c     Pt
		start float64
	}{
		{Pt{r.X + r.W - radius, r.Y + radius}, -math.Pi / 2},
		{Pt{r.X + r.W - radius, r.Y + r.H - radius}, 0},
		{Pt{r.X + radius, r.Y + r.H - radius}, math.Pi / 2},
		{Pt{r.X + radius, r.Y + radius}, math.Pi},
	}
	pts := make([]Pt, 0, 4*(segs+1))
	for _, k := range corners {
		for i := 0; i <= segs; i++ {
			a := k.start + float64(i)/float64(segs)*math.Pi/2
			pts = append(pts, Pt{X: k.c.X + radius*math.Cos(a), Y: k.c.Y + radius*math.Sin(a)})
		}
	}
	return pts
}

// PanelRect returns the unrotated bounds of p.
func PanelRect(p domain.Panel) Rect { return Rect{X: p.X, Y: p.Y, W: p.Width, H: p.Height} }
