/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"log/slog"
	"math"

	"panelcanvas/internal/domain"
)

// clamp limits v to [lo, hi]; lo wins when the range is empty.
func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// finitePanel reports whether every numeric field of p is a real number.
// A NaN would never compare equal to itself and break no-op detection.
func finitePanel(p domain.Panel) bool {
	if !finite(p.X, p.Y, p.Width, p.Height, p.Rotation, p.BorderWidth, p.BorderRadius, p.FontSize) {
		return false
	}
	if g := p.Gradient; g != nil {
		if !finite(g.Angle) {
			return false
		}
		for _, st := range g.Stops {
			if !finite(st.Offset) {
				return false
			}
		}
	}
	return true
}

// clampPosition keeps p inside a cw×ch canvas.
func clampPosition(p *domain.Panel, cw, ch float64) {
	p.X = clamp(p.X, 0, cw-p.Width)
	p.Y = clamp(p.Y, 0, ch-p.Height)
}

// rejectReason explains why a panel cannot enter the canvas, or returns "".
func rejectReason(p domain.Panel) string {
	switch {
	case p.ID == "":
		return "missing id"
	case !finitePanel(p):
		return "non-finite geometry"
	case p.Width < domain.MinPanelSize || p.Height < domain.MinPanelSize:
		return "below minimum size"
	case !p.Shape.Valid():
		return "unknown shape"
	}
	return ""
}

// validatePanels filters panels that cannot be shown and clamps the rest into
// a cw×ch canvas. Dropped panels are logged, never reported as errors.
func (s *Store) validatePanels(panels []domain.Panel, cw, ch float64) []domain.Panel {
	out := make([]domain.Panel, 0, len(panels))
	for _, p := range panels {
		if reason := rejectReason(p); reason != "" {
			s.log.Debug("dropping panel", slog.String("id", p.ID), slog.String("reason", reason))
			continue
		}
		p = p.Clone()
		clampPosition(&p, cw, ch)
		p.ZIndex = max(1, p.ZIndex)
		out = append(out, p)
	}
	return out
}

// boundCanvasSize maps a requested dimension into [MinCanvasSize, MaxCanvasSize].
// Missing or unusable values yield def.
func boundCanvasSize(v, def float64) float64 {
	if !finite(v) || v <= 0 {
		return def
	}
	return clamp(v, domain.MinCanvasSize, domain.MaxCanvasSize)
}
