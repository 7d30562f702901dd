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
	"testing"

	"panelcanvas/internal/domain"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRectBasics(t *testing.T) {
	r := R(10, 20, 100, 50)
	if c := r.Center(); c != (Pt{60, 45}) {
		t.Fatalf("Center = %+v", c)
	}
	if !r.Contains(Pt{10, 20}) || r.Contains(Pt{111, 20}) {
		t.Fatalf("Contains mismatch")
	}
	u := r.Union(R(0, 0, 5, 5))
	if u != R(0, 0, 110, 70) {
		t.Fatalf("Union = %+v", u)
	}
	if !r.Intersects(R(50, 30, 10, 10)) || r.Intersects(R(110, 20, 10, 10)) {
		t.Fatalf("Intersects mismatch")
	}
	if got := r.Inset(5, 5); got != R(15, 25, 90, 40) {
		t.Fatalf("Inset = %+v", got)
	}
}

func TestRotateAboutQuarterTurn(t *testing.T) {
	m := RotateAbout(90, Pt{50, 50})
	p := m.Apply(Pt{100, 50})
	if !approx(p.X, 50) || !approx(p.Y, 100) {
		t.Fatalf("rotated point = %+v, want (50,100)", p)
	}
}

func TestRotatedBounds(t *testing.T) {
	r := R(0, 0, 100, 50)
	if got := RotatedBounds(r, 360); got != r {
		t.Fatalf("full turn changed bounds: %+v", got)
	}
	b := RotatedBounds(r, 90)
	if !approx(b.W, 50) || !approx(b.H, 100) || !approx(b.X, 25) || !approx(b.Y, -25) {
		t.Fatalf("quarter-turn bounds = %+v", b)
	}
}

func TestFloatRound(t *testing.T) {
	if got := FloatRound(1.23456, 3); got != 1.235 {
		t.Fatalf("FloatRound = %v", got)
	}
	if got := FloatRound(1.5, -1); got != 1.5 {
		t.Fatalf("negative places should be identity, got %v", got)
	}
}

func TestShapeOutline(t *testing.T) {
	r := R(0, 0, 100, 100)
	if o := ShapeOutline(domain.ShapeCircle, r, 0); o.Kind != OutlineEllipse {
		t.Fatalf("circle outline kind = %v", o.Kind)
	}
	tri := ShapeOutline(domain.ShapeTriangle, R(10, 10, 100, 50), 0)
	if tri.Kind != OutlinePolygon || len(tri.Points) != 3 || tri.Points[0] != (Pt{60, 10}) {
		t.Fatalf("triangle = %+v", tri)
	}
	if star := ShapeOutline(domain.ShapeStar, r, 0); len(star.Points) != 10 {
		t.Fatalf("star points = %d", len(star.Points))
	}
	if hex := ShapeOutline(domain.ShapeHexagon, r, 0); len(hex.Points) != 6 {
		t.Fatalf("hexagon points = %d", len(hex.Points))
	}
	rect := ShapeOutline(domain.ShapeRectangle, R(0, 0, 100, 40), 50)
	if rect.Kind != OutlineRect || rect.Radius != 20 {
		t.Fatalf("rectangle radius = %v, want clamped to 20", rect.Radius)
	}
	if tb := ShapeOutline(domain.ShapeTextbox, r, 12); tb.Radius != 0 {
		t.Fatalf("textbox must ignore radius, got %v", tb.Radius)
	}
	for _, k := range domain.ShapeKinds() {
		o := ShapeOutline(k, r, 0)
		for _, p := range o.Points {
			if !r.Contains(p) {
				t.Fatalf("%s vertex %+v outside bounds", k, p)
			}
		}
	}
}

func TestRoundedRectPoints(t *testing.T) {
	r := R(0, 0, 100, 60)
	if pts := RoundedRectPoints(r, 0, 4); len(pts) != 4 {
		t.Fatalf("square corners = %d points, want 4", len(pts))
	}
	pts := RoundedRectPoints(r, 10, 4)
	if len(pts) != 20 {
		t.Fatalf("points = %d, want 20", len(pts))
	}
	b := Bounds(pts)
	if !approx(b.X, 0) || !approx(b.Y, 0) || !approx(b.W, 100) || !approx(b.H, 60) {
		t.Fatalf("rounded rect bounds = %+v, want %+v", b, r)
	}
}

func TestSmartGuidesSnapEdges(t *testing.T) {
	anchor := Anchor{Rect: R(100, 100, 50, 50), Weight: 1}
	moving := R(153, 40, 20, 20) // 3 units right of the anchor's right edge
	snapped, guides := ComputeSmartGuides(moving, []Anchor{anchor}, SnapOptions{Threshold: 6, SnapToEdges: true})
	if snapped.X != 150 {
		t.Fatalf("snapped.X = %v, want 150", snapped.X)
	}
	if snapped.Y != 40 {
		t.Fatalf("Y should not snap, got %v", snapped.Y)
	}
	if len(guides) != 1 || guides[0].Orientation != "vertical" || guides[0].Position != 150 {
		t.Fatalf("guides = %+v", guides)
	}
}

func TestSmartGuidesSnapCenters(t *testing.T) {
	anchor := Anchor{Rect: R(0, 0, 200, 200)}
	moving := R(88, 300, 20, 20) // center x 98 vs anchor 100
	snapped, guides := ComputeSmartGuides(moving, []Anchor{anchor}, SnapOptions{Threshold: 5, SnapToCenters: true})
	if snapped.X != 90 {
		t.Fatalf("snapped.X = %v, want 90", snapped.X)
	}
	if len(guides) != 1 || guides[0].Kind != "center" {
		t.Fatalf("guides = %+v", guides)
	}
}

func TestSmartGuidesOutOfRange(t *testing.T) {
	moving := R(500, 500, 10, 10)
	snapped, guides := ComputeSmartGuides(moving, []Anchor{{Rect: R(0, 0, 10, 10)}}, DefaultSnapOptions)
	if snapped != moving || len(guides) != 0 {
		t.Fatalf("far rect snapped: %+v %+v", snapped, guides)
	}
}

func TestSmartGuidesPrefersCloserAndHeavier(t *testing.T) {
	near := Anchor{Rect: R(102, 0, 10, 10), Weight: 1}
	far := Anchor{Rect: R(105, 0, 10, 10), Weight: 1}
	moving := R(100, 300, 10, 10)
	snapped, _ := ComputeSmartGuides(moving, []Anchor{far, near}, SnapOptions{Threshold: 6, SnapToEdges: true})
	if snapped.X != 102 {
		t.Fatalf("closer anchor should win, got X=%v", snapped.X)
	}
	heavy := Anchor{Rect: R(105, 0, 10, 10), Weight: 4}
	snapped, _ = ComputeSmartGuides(moving, []Anchor{near, heavy}, SnapOptions{Threshold: 6, SnapToEdges: true})
	if snapped.X != 105 {
		t.Fatalf("heavier anchor should win, got X=%v", snapped.X)
	}
}
