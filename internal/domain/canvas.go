/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// Canvas limits and defaults shared by the store, storage, and exporters.
const (
	DefaultCanvasWidth  = 1280.0
	DefaultCanvasHeight = 720.0
	MinCanvasSize       = 200.0
	MaxCanvasSize       = 4096.0

	// MinPanelSize is the smallest width/height a panel may have on validated paths.
	MinPanelSize = 50.0

	DefaultBgColor     = "#ffffff"
	DefaultFgColor     = "#000000"
	DefaultPanelFill   = "#3b82f6"
	DefaultPanelBorder = "#1e3a8a"
)

// CanvasState is the aggregate owned by the canvas store.
// SelectedPanels, EditingPanel and IsEditingCanvas are transient UI state and
// are never the reason for a history checkpoint.
type CanvasState struct {
	Panels          []Panel  `json:"panels"`
	SelectedPanels  []string `json:"selectedPanels"`
	EditingPanel    string   `json:"editingPanel,omitempty"`
	CanvasWidth     float64  `json:"canvasWidth"`
	CanvasHeight    float64  `json:"canvasHeight"`
	CanvasBgColor   string   `json:"canvasBgColor"`
	CanvasBgImage   *string  `json:"canvasBgImage"`
	CanvasFgColor   string   `json:"canvasFgColor"`
	RoundedCorners  bool     `json:"roundedCorners"`
	ShowGrid        bool     `json:"showGrid"`
	IsEditingCanvas bool     `json:"isEditingCanvas"`
}

// NewCanvasState returns an empty canvas with the documented defaults.
func NewCanvasState() CanvasState {
	return CanvasState{
		Panels:         []Panel{},
		SelectedPanels: []string{},
		CanvasWidth:    DefaultCanvasWidth,
		CanvasHeight:   DefaultCanvasHeight,
		CanvasBgColor:  DefaultBgColor,
		CanvasFgColor:  DefaultFgColor,
		RoundedCorners: true,
	}
}

// Clone returns a deep copy of s.
func (s CanvasState) Clone() CanvasState {
	c := s
	c.Panels = ClonePanels(s.Panels)
	c.SelectedPanels = append([]string{}, s.SelectedPanels...)
	c.CanvasBgImage = cloneString(s.CanvasBgImage)
	return c
}

// FindPanel returns the index of the panel with id, or -1.
func (s CanvasState) FindPanel(id string) int {
	for i := range s.Panels {
		if s.Panels[i].ID == id {
			return i
		}
	}
	return -1
}

// MaxZIndex returns the highest zIndex in use, or 0 when there are no panels.
func (s CanvasState) MaxZIndex() int {
	maxZ := 0
	for _, p := range s.Panels {
		if p.ZIndex > maxZ {
			maxZ = p.ZIndex
		}
	}
	return maxZ
}

// Document is the persisted canvas layout accepted by LoadConfig and produced by export.
// Pointer fields distinguish "absent" from zero values so defaults can be applied.
type Document struct {
	Panels         []Panel `json:"panels"`
	CanvasWidth    float64 `json:"canvasWidth,omitempty"`
	CanvasHeight   float64 `json:"canvasHeight,omitempty"`
	CanvasBgColor  string  `json:"canvasBgColor,omitempty"`
	CanvasFgColor  string  `json:"canvasFgColor,omitempty"`
	CanvasBgImage  *string `json:"canvasBgImage"`
	RoundedCorners *bool   `json:"roundedCorners,omitempty"`
	ShowGrid       *bool   `json:"showGrid,omitempty"`
}

// Document converts the persistent part of the state into the export shape.
func (s CanvasState) Document() Document {
	rc, grid := s.RoundedCorners, s.ShowGrid
	return Document{
		Panels:         ClonePanels(s.Panels),
		CanvasWidth:    s.CanvasWidth,
		CanvasHeight:   s.CanvasHeight,
		CanvasBgColor:  s.CanvasBgColor,
		CanvasFgColor:  s.CanvasFgColor,
		CanvasBgImage:  cloneString(s.CanvasBgImage),
		RoundedCorners: &rc,
		ShowGrid:       &grid,
	}
}

// WithDefaults fills absent document fields with the documented fallbacks.
func (d Document) WithDefaults() Document {
	out := d
	out.Panels = ClonePanels(d.Panels)
	if out.CanvasWidth == 0 {
		out.CanvasWidth = DefaultCanvasWidth
	}
	if out.CanvasHeight == 0 {
		out.CanvasHeight = DefaultCanvasHeight
	}
	if out.CanvasBgColor == "" {
		out.CanvasBgColor = DefaultBgColor
	}
	if out.CanvasFgColor == "" {
		out.CanvasFgColor = DefaultFgColor
	}
	out.CanvasBgImage = cloneString(d.CanvasBgImage)
	if out.RoundedCorners == nil {
		out.RoundedCorners = Bool(true)
	} else {
		out.RoundedCorners = Bool(*d.RoundedCorners)
	}
	if out.ShowGrid == nil {
		out.ShowGrid = Bool(false)
	} else {
		out.ShowGrid = Bool(*d.ShowGrid)
	}
	return out
}

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
