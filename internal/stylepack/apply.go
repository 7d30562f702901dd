/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package stylepack

import (
	"reflect"

	"panelcanvas/internal/canvas"
)

// Apply styles the panels with the given ids, or every panel when ids is
// empty, as a single undo step. Locked and unknown panels are skipped. It
// returns the number of panels that changed.
func Apply(s *canvas.Store, st Style, ids []string) int {
	before := s.State()
	if len(ids) == 0 {
		for _, p := range before.Panels {
			ids = append(ids, p.ID)
		}
	}
	u := st.Update()
	var targets []string
	for _, id := range ids {
		if i := before.FindPanel(id); i >= 0 && !before.Panels[i].IsLocked {
			targets = append(targets, id)
			s.UpdatePanel(id, u, false)
		}
	}
	after := s.State()
	changed := 0
	for _, id := range targets {
		i, j := before.FindPanel(id), after.FindPanel(id)
		if j >= 0 && !reflect.DeepEqual(before.Panels[i], after.Panels[j]) {
			changed++
		}
	}
	s.CommitCheckpoint(before)
	return changed
}
