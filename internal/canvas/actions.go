/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"errors"

	"panelcanvas/internal/domain"
)

// Action is a tagged store intent. The set is closed: only the types in this
// file implement it.
type Action interface {
	apply(s *Store) error
}

type (
	SetPanelsAction   struct{ Panels []domain.Panel }
	AddPanelAction    struct{ Panel domain.Panel }
	AddShapeAction    struct{ Shape domain.ShapeKind }
	RemovePanelAction struct{ ID string }
	UpdatePanelAction struct {
		ID          string
		Update      domain.PanelUpdate
		SaveHistory bool
	}
	UpdatePanelPositionAction struct {
		ID          string
		X, Y        float64
		SaveHistory bool
	}
	UpdatePanelDimensionsAction struct {
		ID            string
		Width, Height float64
	}
	ClearPanelsAction         struct{}
	SetSelectedPanelsAction   struct{ IDs []string }
	SetCanvasDimensionsAction struct {
		Width, Height float64
		SaveHistory   bool
	}
	SetCanvasColorsAction          struct{ Colors CanvasColors }
	SetCanvasBackgroundImageAction struct{ Image *string }
	SetCanvasOptionsAction         struct{ Options CanvasOptions }
	SetEditingStatesAction         struct{ States EditingStates }
	LoadConfigAction               struct{ Document domain.Document }
	UndoAction                     struct{}
	RedoAction                     struct{}
	BringForwardAction             struct{ ID string }
	BringBackwardAction            struct{ ID string }
	DuplicatePanelAction           struct{ ID string }
	PastePanelsAction              struct{ Panels []domain.Panel }
	CommitCheckpointAction         struct{ Before domain.CanvasState }
)

func (a SetPanelsAction) apply(s *Store) error   { s.SetPanels(a.Panels); return nil }
func (a AddPanelAction) apply(s *Store) error    { s.AddPanel(a.Panel); return nil }
func (a AddShapeAction) apply(s *Store) error    { s.AddShape(a.Shape); return nil }
func (a RemovePanelAction) apply(s *Store) error { s.RemovePanel(a.ID); return nil }
func (a UpdatePanelAction) apply(s *Store) error {
	s.UpdatePanel(a.ID, a.Update, a.SaveHistory)
	return nil
}
func (a UpdatePanelPositionAction) apply(s *Store) error {
	s.UpdatePanelPosition(a.ID, a.X, a.Y, a.SaveHistory)
	return nil
}
func (a UpdatePanelDimensionsAction) apply(s *Store) error {
	s.UpdatePanelDimensions(a.ID, a.Width, a.Height)
	return nil
}
func (ClearPanelsAction) apply(s *Store) error         { s.ClearPanels(); return nil }
func (a SetSelectedPanelsAction) apply(s *Store) error { s.SetSelectedPanels(a.IDs); return nil }
func (a SetCanvasDimensionsAction) apply(s *Store) error {
	s.SetCanvasDimensions(a.Width, a.Height, a.SaveHistory)
	return nil
}
func (a SetCanvasColorsAction) apply(s *Store) error { s.SetCanvasColors(a.Colors); return nil }
func (a SetCanvasBackgroundImageAction) apply(s *Store) error {
	s.SetCanvasBackgroundImage(a.Image)
	return nil
}
func (a SetCanvasOptionsAction) apply(s *Store) error  { s.SetCanvasOptions(a.Options); return nil }
func (a SetEditingStatesAction) apply(s *Store) error  { s.SetEditingStates(a.States); return nil }
func (a LoadConfigAction) apply(s *Store) error        { s.LoadConfig(a.Document); return nil }
func (UndoAction) apply(s *Store) error                { s.Undo(); return nil }
func (RedoAction) apply(s *Store) error                { s.Redo(); return nil }
func (a BringForwardAction) apply(s *Store) error      { s.BringForward(a.ID); return nil }
func (a BringBackwardAction) apply(s *Store) error     { s.BringBackward(a.ID); return nil }
func (a PastePanelsAction) apply(s *Store) error       { s.PastePanels(a.Panels); return nil }
func (a CommitCheckpointAction) apply(s *Store) error  { s.CommitCheckpoint(a.Before); return nil }
func (a DuplicatePanelAction) apply(s *Store) error {
	_, err := s.DuplicatePanel(a.ID)
	return err
}

// Dispatch applies a tagged action. Only DuplicatePanelAction can fail.
func (s *Store) Dispatch(a Action) error {
	if a == nil {
		return errors.New("canvas: nil action")
	}
	return a.apply(s)
}
