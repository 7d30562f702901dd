/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"panelcanvas/internal/domain"
)

// CanvasColors is a partial update of the canvas colors; nil fields are kept.
type CanvasColors struct {
	BgColor *string `json:"bgColor,omitempty"`
	FgColor *string `json:"fgColor,omitempty"`
}

// CanvasOptions is a partial update of the canvas display options.
type CanvasOptions struct {
	RoundedCorners *bool `json:"roundedCorners,omitempty"`
	ShowGrid       *bool `json:"showGrid,omitempty"`
}

// EditingStates is a partial update of the editing flags.
// An EditingPanel pointing at "" ends text editing.
type EditingStates struct {
	EditingPanel    *string `json:"editingPanel,omitempty"`
	IsEditingCanvas *bool   `json:"isEditingCanvas,omitempty"`
}

// SetCanvasDimensions resizes the canvas within [MinCanvasSize, MaxCanvasSize]
// and re-validates every panel against the new size. Unusable values are ignored.
func (s *Store) SetCanvasDimensions(width, height float64, saveHistory bool) {
	if !finite(width, height) || width <= 0 || height <= 0 {
		return
	}
	s.apply("set-dimensions", saveHistory, func(st *domain.CanvasState) {
		st.CanvasWidth = boundCanvasSize(width, st.CanvasWidth)
		st.CanvasHeight = boundCanvasSize(height, st.CanvasHeight)
		st.Panels = s.validatePanels(st.Panels, st.CanvasWidth, st.CanvasHeight)
		pruneTransient(st)
	})
}

// SetCanvasColors sets the background and foreground colors that are given.
func (s *Store) SetCanvasColors(c CanvasColors) {
	s.apply("set-colors", true, func(st *domain.CanvasState) {
		if c.BgColor != nil {
			st.CanvasBgColor = *c.BgColor
		}
		if c.FgColor != nil {
			st.CanvasFgColor = *c.FgColor
		}
	})
}

// SetCanvasBackgroundImage sets the background image reference; nil removes it.
func (s *Store) SetCanvasBackgroundImage(img *string) {
	s.apply("set-background-image", true, func(st *domain.CanvasState) {
		if img == nil {
			st.CanvasBgImage = nil
			return
		}
		v := *img
		st.CanvasBgImage = &v
	})
}

// SetCanvasOptions toggles rounded corners and the grid where given.
func (s *Store) SetCanvasOptions(o CanvasOptions) {
	s.apply("set-options", true, func(st *domain.CanvasState) {
		if o.RoundedCorners != nil {
			st.RoundedCorners = *o.RoundedCorners
		}
		if o.ShowGrid != nil {
			st.ShowGrid = *o.ShowGrid
		}
	})
}

// SetEditingStates updates the editing flags. It never creates a checkpoint.
func (s *Store) SetEditingStates(e EditingStates) {
	s.apply("set-editing", false, func(st *domain.CanvasState) {
		if e.EditingPanel != nil {
			st.EditingPanel = *e.EditingPanel
		}
		if e.IsEditingCanvas != nil {
			st.IsEditingCanvas = *e.IsEditingCanvas
		}
	})
}

// LoadConfig replaces the whole canvas with doc. Absent fields take the
// defaults, panels are validated against the declared size, and selection and
// editing state are cleared.
func (s *Store) LoadConfig(doc domain.Document) {
	doc = doc.WithDefaults()
	s.apply("load-config", true, func(st *domain.CanvasState) {
		cw := boundCanvasSize(doc.CanvasWidth, domain.DefaultCanvasWidth)
		ch := boundCanvasSize(doc.CanvasHeight, domain.DefaultCanvasHeight)
		*st = domain.CanvasState{
			Panels:         s.validatePanels(doc.Panels, cw, ch),
			SelectedPanels: []string{},
			CanvasWidth:    cw,
			CanvasHeight:   ch,
			CanvasBgColor:  doc.CanvasBgColor,
			CanvasBgImage:  doc.CanvasBgImage,
			CanvasFgColor:  doc.CanvasFgColor,
			RoundedCorners: *doc.RoundedCorners,
			ShowGrid:       *doc.ShowGrid,
		}
	})
}
