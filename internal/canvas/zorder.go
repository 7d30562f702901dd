/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"math"

	"panelcanvas/internal/domain"
)

// arbitrateZ resolves a requested zIndex against the zIndices held by the other panels.
func arbitrateZ(requested int, others []int) int {
	if requested < 1 {
		return 1
	}
	taken := make(map[int]bool, len(others))
	maxZ := 0
	for _, z := range others {
		taken[z] = true
		maxZ = max(maxZ, z)
	}
	if requested > len(others)+1 {
		if len(others) == 0 {
			return 1
		}
		return maxZ + 1
	}
	for taken[requested] {
		requested++
	}
	return requested
}

func otherZ(panels []domain.Panel, skip int) []int {
	zs := make([]int, 0, len(panels))
	for i, p := range panels {
		if i != skip {
			zs = append(zs, p.ZIndex)
		}
	}
	return zs
}

// BringForward swaps the panel's zIndex with the holder of the next higher
// zIndex. The topmost panel is raised by one instead.
func (s *Store) BringForward(id string) {
	s.apply("bring-forward", true, func(st *domain.CanvasState) {
		i := st.FindPanel(id)
		if i < 0 {
			return
		}
		z := st.Panels[i].ZIndex
		j, best := -1, math.MaxInt
		for k, p := range st.Panels {
			if k != i && p.ZIndex > z && p.ZIndex < best {
				j, best = k, p.ZIndex
			}
		}
		if j < 0 {
			st.Panels[i].ZIndex = z + 1
			return
		}
		st.Panels[i].ZIndex, st.Panels[j].ZIndex = best, z
	})
}

// BringBackward swaps the panel's zIndex with the holder of the next lower
// zIndex. Panels already at 1 or below stay put.
func (s *Store) BringBackward(id string) {
	s.apply("bring-backward", true, func(st *domain.CanvasState) {
		i := st.FindPanel(id)
		if i < 0 {
			return
		}
		z := st.Panels[i].ZIndex
		if z <= 1 {
			return
		}
		j, best := -1, math.MinInt
		for k, p := range st.Panels {
			if k != i && p.ZIndex < z && p.ZIndex > best {
				j, best = k, p.ZIndex
			}
		}
		if j < 0 {
			st.Panels[i].ZIndex = max(1, z-1)
			return
		}
		st.Panels[i].ZIndex, st.Panels[j].ZIndex = best, z
	})
}
