/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package canvas owns the authoritative canvas state: the panel collection,
// z-order arbitration, bounds-clamped geometry and a bounded undo/redo history.
// Collaborators call Store methods (or Dispatch tagged actions) and never
// mutate state directly.
package canvas

import (
	"errors"
	"log/slog"
	"reflect"
	"sync"

	"panelcanvas/internal/domain"
	"panelcanvas/internal/ids"
	applog "panelcanvas/internal/log"
	"panelcanvas/internal/undo"
)

// ErrPanelNotFound is returned by operations that cannot silently ignore a missing panel.
var ErrPanelNotFound = errors.New("canvas: panel not found")

// Listener receives a copy of the state after every change.
type Listener func(domain.CanvasState)

type subscription struct {
	id int
	fn Listener
}

// Store is the canvas state machine. It is safe for concurrent use; listeners
// are invoked outside the internal lock, in subscription order.
type Store struct {
	mu      sync.Mutex
	state   domain.CanvasState
	history *undo.History[domain.CanvasState]

	viewportW, viewportH float64
	newID                func() string
	log                  *slog.Logger

	subs   []subscription
	nextID int
}

// Option configures a Store.
type Option func(*Store)

// WithViewport sets the visible viewport size used to center new panels.
// Non-positive values fall back to the canvas size.
func WithViewport(width, height float64) Option {
	return func(s *Store) { s.viewportW, s.viewportH = width, height }
}

// WithIDSource replaces the panel id generator.
func WithIDSource(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithHistoryDepth caps the undo and redo stacks.
func WithHistoryDepth(n int) Option {
	return func(s *Store) { s.history = undo.New[domain.CanvasState](undo.Config{MaxDepth: n}) }
}

// WithLogger replaces the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a store holding an empty default canvas.
func New(opts ...Option) *Store {
	s := &Store{
		state:   domain.NewCanvasState(),
		history: undo.New[domain.CanvasState](undo.Config{MaxDepth: undo.DefaultMaxDepth}),
		newID:   ids.NewPanelID,
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = applog.WithComponent("canvas")
	}
	return s
}

// State returns a deep copy of the current state.
func (s *Store) State() domain.CanvasState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Export returns the persisted document shape of the current state.
func (s *Store) Export() domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Document()
}

// CanUndo reports whether Undo would change anything.
func (s *Store) CanUndo() bool {
	past, _ := s.history.Stats()
	return past > 0
}

// CanRedo reports whether Redo would change anything.
func (s *Store) CanRedo() bool {
	_, future := s.history.Stats()
	return future > 0
}

// HistoryLen returns the number of undoable checkpoints.
func (s *Store) HistoryLen() int {
	past, _ := s.history.Stats()
	return past
}

// Subscribe registers fn for state changes and returns a func that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// apply runs fn on a copy of the current state. When the copy differs from the
// current state it becomes current, the old state is checkpointed if
// checkpoint is set and persistent content changed, and listeners are notified.
func (s *Store) apply(op string, checkpoint bool, fn func(next *domain.CanvasState)) bool {
	s.mu.Lock()
	next := s.state.Clone()
	fn(&next)
	if reflect.DeepEqual(next, s.state) {
		s.mu.Unlock()
		s.log.Debug("no-op", slog.String("op", op))
		return false
	}
	saved := checkpoint && !sameContent(next, s.state)
	if saved {
		s.history.Push(s.state)
	}
	s.state = next
	s.log.Debug("applied", slog.String("op", op), slog.Int("panels", len(next.Panels)), slog.Bool("checkpoint", saved))
	s.notifyLocked()
	return true
}

// notifyLocked snapshots listeners and state, releases the lock and calls them.
func (s *Store) notifyLocked() {
	subs := append([]subscription(nil), s.subs...)
	st := s.state
	s.mu.Unlock()
	for _, sub := range subs {
		sub.fn(st.Clone())
	}
}

// Undo restores the most recent checkpoint. Selection and editing state are
// kept, minus references to panels the restored state does not contain.
func (s *Store) Undo() bool {
	return s.travel("undo", s.history.Undo)
}

// Redo re-applies the most recently undone checkpoint.
func (s *Store) Redo() bool {
	return s.travel("redo", s.history.Redo)
}

func (s *Store) travel(op string, move func(domain.CanvasState) (domain.CanvasState, bool)) bool {
	s.mu.Lock()
	restored, ok := move(s.state)
	if !ok {
		s.mu.Unlock()
		return false
	}
	restored.SelectedPanels = existingIDs(restored.Panels, s.state.SelectedPanels)
	restored.EditingPanel = ""
	if s.state.EditingPanel != "" && restored.FindPanel(s.state.EditingPanel) >= 0 {
		restored.EditingPanel = s.state.EditingPanel
	}
	restored.IsEditingCanvas = s.state.IsEditingCanvas
	s.state = restored
	s.log.Debug("applied", slog.String("op", op), slog.Int("panels", len(restored.Panels)))
	s.notifyLocked()
	return true
}

// CommitCheckpoint records before as an undo point when the current state
// differs from it. Gestures call it once after a series of unsaved updates.
func (s *Store) CommitCheckpoint(before domain.CanvasState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sameContent(before, s.state) {
		return false
	}
	s.history.Push(before.Clone())
	s.log.Debug("checkpoint committed", slog.Int("panels", len(s.state.Panels)))
	return true
}

// sameContent compares the persistent parts of two states.
func sameContent(a, b domain.CanvasState) bool {
	return reflect.DeepEqual(a.Document(), b.Document())
}

func existingIDs(panels []domain.Panel, wanted []string) []string {
	present := make(map[string]bool, len(panels))
	for _, p := range panels {
		present[p.ID] = true
	}
	out := []string{}
	for _, id := range wanted {
		if present[id] {
			out = append(out, id)
		}
	}
	return out
}
