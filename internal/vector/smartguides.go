/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Smart guides and snapping helpers for dragging panels.
// These utilities are UI-agnostic and deterministic to enable unit testing.

import "math"

// SnapOptions controls which guide candidates are considered and the threshold.
type SnapOptions struct {
	// Threshold is the maximum distance at which snapping occurs.
	// Typical UI values are 6–8 pixels.
	Threshold float64
	// Snap to edges (left, right, top, bottom)
	SnapToEdges bool
	// Snap to centers (cx, cy)
	SnapToCenters bool
}

// DefaultSnapOptions snaps to edges and centers within 6 units.
var DefaultSnapOptions = SnapOptions{Threshold: 6, SnapToEdges: true, SnapToCenters: true}

// Anchor represents a static reference rect (another panel or the canvas).
// Weight biases selection when distances tie (higher = preferred); 0 counts as 1.
type Anchor struct {
	Rect   Rect
	Weight float64
}

// GuideLine describes a visual guide generated during a snap alignment.
// Orientation is "vertical" or "horizontal".
// Kind indicates which features aligned: "edge" or "center".
// Position is the x (vertical) or y (horizontal) coordinate of the guide.
type GuideLine struct {
	Orientation string
	Kind        string
	Position    float64
	From        Pt
	To          Pt
}

type axisBest struct {
	delta, score float64
	guide        GuideLine
	ok           bool
}

func (b *axisBest) consider(delta, threshold, weight float64, g GuideLine) {
	dist := math.Abs(delta)
	if dist > threshold {
		return
	}
	score := dist / max(1, weight)
	if !b.ok || score < b.score {
		*b = axisBest{delta: delta, score: score, guide: g, ok: true}
	}
}

// ComputeSmartGuides computes snapping adjustments for a moving rectangle
// against a set of anchors. It returns the snapped rectangle and any guide
// lines to render for visual feedback. Snapping happens independently in X and Y.
func ComputeSmartGuides(moving Rect, anchors []Anchor, opts SnapOptions) (Rect, []GuideLine) {
	if opts.Threshold <= 0 {
		opts.Threshold = 6
	}
	var bx, by axisBest

	mL, mR, mT, mB := moving.X, moving.X+moving.W, moving.Y, moving.Y+moving.H
	mc := moving.Center()

	for _, a := range anchors {
		aL, aR, aT, aB := a.Rect.X, a.Rect.X+a.Rect.W, a.Rect.Y, a.Rect.Y+a.Rect.H
		ac := a.Rect.Center()
		w := a.Weight

		if opts.SnapToEdges {
			// left-left, right-right, then abutting edges
			bx.consider(mL-aL, opts.Threshold, w, vertical(aL, moving, a.Rect, "edge"))
			bx.consider(mR-aR, opts.Threshold, w, vertical(aR, moving, a.Rect, "edge"))
			bx.consider(mL-aR, opts.Threshold, w, vertical(aR, moving, a.Rect, "edge"))
			bx.consider(mR-aL, opts.Threshold, w, vertical(aL, moving, a.Rect, "edge"))

			by.consider(mT-aT, opts.Threshold, w, horizontal(aT, moving, a.Rect, "edge"))
			by.consider(mB-aB, opts.Threshold, w, horizontal(aB, moving, a.Rect, "edge"))
			by.consider(mT-aB, opts.Threshold, w, horizontal(aB, moving, a.Rect, "edge"))
			by.consider(mB-aT, opts.Threshold, w, horizontal(aT, moving, a.Rect, "edge"))
		}
		if opts.SnapToCenters {
			bx.consider(mc.X-ac.X, opts.Threshold, w, vertical(ac.X, moving, a.Rect, "center"))
			by.consider(mc.Y-ac.Y, opts.Threshold, w, horizontal(ac.Y, moving, a.Rect, "center"))
		}
	}

	snapped := moving
	var guides []GuideLine
	if bx.ok {
		snapped.X = FloatRound(moving.X-bx.delta, 3)
		guides = append(guides, bx.guide)
	}
	if by.ok {
		snapped.Y = FloatRound(moving.Y-by.delta, 3)
		guides = append(guides, by.guide)
	}
	return snapped, guides
}

func vertical(x float64, a, b Rect, kind string) GuideLine {
	minY := min(a.Y, b.Y)
	maxY := max(a.Y+a.H, b.Y+b.H)
	x = FloatRound(x, 3)
	return GuideLine{Orientation: "vertical", Kind: kind, Position: x, From: Pt{x, minY}, To: Pt{x, maxY}}
}

func horizontal(y float64, a, b Rect, kind string) GuideLine {
	minX := min(a.X, b.X)
	maxX := max(a.X+a.W, b.X+b.W)
	y = FloatRound(y, 3)
	return GuideLine{Orientation: "horizontal", Kind: kind, Position: y, From: Pt{minX, y}, To: Pt{maxX, y}}
}
