/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"slices"

	"panelcanvas/internal/domain"
)

// pasteOffset shifts duplicated and pasted panels so they do not hide their source.
const pasteOffset = 20.0

// SetPanels replaces the collection after validating it against the current
// canvas size. Selection and editing state lose references to dropped panels.
func (s *Store) SetPanels(panels []domain.Panel) {
	s.apply("set-panels", true, func(st *domain.CanvasState) {
		st.Panels = s.validatePanels(panels, st.CanvasWidth, st.CanvasHeight)
		pruneTransient(st)
	})
}

// AddPanel appends p without size validation. Its zIndex is raised to at least 1
// and empty fill or border colors get the defaults. A panel without id gets one.
// Panels with non-finite numbers are ignored.
func (s *Store) AddPanel(p domain.Panel) {
	if !finitePanel(p) {
		s.log.Debug("ignoring non-finite panel", "id", p.ID)
		return
	}
	p = p.Clone()
	if p.ID == "" {
		p.ID = s.newID()
	}
	s.apply("add-panel", true, func(st *domain.CanvasState) {
		st.Panels = append(st.Panels, withAddDefaults(p))
	})
}

func withAddDefaults(p domain.Panel) domain.Panel {
	p.ZIndex = max(1, p.ZIndex)
	if p.BackgroundColor == "" {
		p.BackgroundColor = domain.DefaultPanelFill
	}
	if p.BorderColor == "" {
		p.BorderColor = domain.DefaultPanelBorder
	}
	return p
}

// defaultSize returns the initial size of a new panel of the given shape.
func defaultSize(shape domain.ShapeKind) (w, h float64) {
	switch shape {
	case domain.ShapeRectangle, domain.ShapeEllipse:
		return 300, 200
	case domain.ShapeTextbox:
		return 300, 100
	default:
		return 200, 200
	}
}

// NewPanel builds, without adding it, a panel of the given shape with a fresh
// id, its default size, centered on the viewport and stacked on top.
func (s *Store) NewPanel(shape domain.ShapeKind) domain.Panel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newPanelLocked(shape, s.state.MaxZIndex()+1)
}

func (s *Store) newPanelLocked(shape domain.ShapeKind, z int) domain.Panel {
	w, h := defaultSize(shape)
	vw, vh := s.viewportW, s.viewportH
	if vw <= 0 || vh <= 0 {
		vw, vh = s.state.CanvasWidth, s.state.CanvasHeight
	}
	p := domain.Panel{
		ID:              s.newID(),
		X:               max(0, (vw-w)/2),
		Y:               max(0, (vh-h)/2),
		Width:           w,
		Height:          h,
		ZIndex:          z,
		Shape:           shape,
		BackgroundColor: domain.DefaultPanelFill,
		BorderColor:     domain.DefaultPanelBorder,
		BorderWidth:     2,
		ShadowDirection: domain.ShadowNone,
		FontSize:        16,
		FontColor:       domain.DefaultFgColor,
		TextAlign:       domain.AlignCenter,
		LetterSpacing:   domain.TrackingNormal,
		LineHeight:      domain.LeadingNormal,
		TextTransform:   domain.TransformNone,
	}
	if shape == domain.ShapeTextbox {
		p.Text = "Text"
		p.BackgroundColor = "transparent"
		p.BorderWidth = 0
	}
	return p
}

// AddShape adds a freshly built panel of the given shape and returns it.
func (s *Store) AddShape(shape domain.ShapeKind) domain.Panel {
	p := s.NewPanel(shape)
	s.AddPanel(p)
	return p
}

// RemovePanel drops the panel with id. Unknown ids are ignored.
func (s *Store) RemovePanel(id string) {
	s.apply("remove-panel", true, func(st *domain.CanvasState) {
		i := st.FindPanel(id)
		if i < 0 {
			return
		}
		st.Panels = slices.Delete(st.Panels, i, i+1)
		pruneTransient(st)
	})
}

// UpdatePanel merges u into the panel with id. A zIndex in u is arbitrated
// against the other panels first; the position is re-clamped afterwards.
func (s *Store) UpdatePanel(id string, u domain.PanelUpdate, saveHistory bool) {
	s.apply("update-panel", saveHistory, func(st *domain.CanvasState) {
		i := st.FindPanel(id)
		if i < 0 {
			return
		}
		if u.ZIndex != nil {
			z := arbitrateZ(*u.ZIndex, otherZ(st.Panels, i))
			u.ZIndex = &z
		}
		p := u.Apply(st.Panels[i])
		if !finitePanel(p) {
			s.log.Debug("ignoring non-finite update", "id", id)
			return
		}
		clampPosition(&p, st.CanvasWidth, st.CanvasHeight)
		st.Panels[i] = p
	})
}

// UpdatePanelPosition moves the panel with id, clamped to the canvas.
func (s *Store) UpdatePanelPosition(id string, x, y float64, saveHistory bool) {
	if !finite(x, y) {
		return
	}
	s.apply("update-position", saveHistory, func(st *domain.CanvasState) {
		i := st.FindPanel(id)
		if i < 0 {
			return
		}
		p := &st.Panels[i]
		p.X, p.Y = x, y
		clampPosition(p, st.CanvasWidth, st.CanvasHeight)
	})
}

// UpdatePanelDimensions sets the size of the panel with id as given. Neither
// the minimum size nor the canvas bounds are enforced here.
func (s *Store) UpdatePanelDimensions(id string, width, height float64) {
	if !finite(width, height) {
		return
	}
	s.apply("update-dimensions", true, func(st *domain.CanvasState) {
		if i := st.FindPanel(id); i >= 0 {
			st.Panels[i].Width, st.Panels[i].Height = width, height
		}
	})
}

// ClearPanels removes every panel along with the selection and editing panel.
func (s *Store) ClearPanels() {
	s.apply("clear-panels", true, func(st *domain.CanvasState) {
		st.Panels = []domain.Panel{}
		st.SelectedPanels = []string{}
		st.EditingPanel = ""
	})
}

// SetSelectedPanels replaces the selection. It never creates a checkpoint.
func (s *Store) SetSelectedPanels(ids []string) {
	s.apply("set-selection", false, func(st *domain.CanvasState) {
		st.SelectedPanels = append([]string{}, ids...)
	})
}

// DuplicatePanel copies the panel with id next to the original, on top of the
// stack, and selects the copy.
func (s *Store) DuplicatePanel(id string) (domain.Panel, error) {
	var dup domain.Panel
	found := false
	s.apply("duplicate-panel", true, func(st *domain.CanvasState) {
		i := st.FindPanel(id)
		if i < 0 {
			return
		}
		found = true
		dup = s.copyForPaste(st, st.Panels[i])
		st.Panels = append(st.Panels, dup)
		st.SelectedPanels = []string{dup.ID}
	})
	if !found {
		return domain.Panel{}, ErrPanelNotFound
	}
	return dup.Clone(), nil
}

// PastePanels adds copies of panels with fresh ids, offset from the originals,
// as a single checkpoint, and selects them. It returns the added panels.
func (s *Store) PastePanels(panels []domain.Panel) []domain.Panel {
	var srcs []domain.Panel
	for _, p := range panels {
		if finitePanel(p) {
			srcs = append(srcs, p)
		}
	}
	if len(srcs) == 0 {
		return nil
	}
	var added []domain.Panel
	s.apply("paste-panels", true, func(st *domain.CanvasState) {
		sel := make([]string, 0, len(srcs))
		for _, src := range srcs {
			p := s.copyForPaste(st, src)
			st.Panels = append(st.Panels, p)
			sel = append(sel, p.ID)
			added = append(added, p.Clone())
		}
		st.SelectedPanels = sel
	})
	return added
}

func (s *Store) copyForPaste(st *domain.CanvasState, src domain.Panel) domain.Panel {
	p := src.Clone()
	p.ID = s.newID()
	p.X += pasteOffset
	p.Y += pasteOffset
	clampPosition(&p, st.CanvasWidth, st.CanvasHeight)
	p.ZIndex = st.MaxZIndex() + 1
	p.IsLocked = false
	return withAddDefaults(p)
}

// pruneTransient drops selection and editing references to missing panels.
func pruneTransient(st *domain.CanvasState) {
	st.SelectedPanels = existingIDs(st.Panels, st.SelectedPanels)
	if st.EditingPanel != "" && st.FindPanel(st.EditingPanel) < 0 {
		st.EditingPanel = ""
	}
}
