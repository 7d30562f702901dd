/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package undo

import "sync"

// DefaultMaxDepth is used when Config.MaxDepth is not positive.
const DefaultMaxDepth = 50

// Config controls the depth cap of the history.
type Config struct {
	// MaxDepth limits the number of past entries kept; the oldest are dropped first.
	// The future stack is bounded by the same cap.
	MaxDepth int
}

// History is a linear undo/redo history of state snapshots.
// Snapshots are stored as given; callers pass values that share no memory with live state.
// It is safe for concurrent use.
type History[T any] struct {
	cfg    Config
	mu     sync.Mutex
	past   []T
	future []T
}

func New[T any](cfg Config) *History[T] {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return &History[T]{cfg: cfg}
}

// Push records the state that existed before a change. Any new change invalidates redo.
func (h *History[T]) Push(prev T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.past = append(h.past, prev)
	h.future = nil
	h.past = capped(h.past, h.cfg.MaxDepth)
}

// Undo pops the most recent past snapshot and parks current on the future stack.
// It returns false, and records nothing, when there is nothing to undo.
func (h *History[T]) Undo(current T) (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.past) == 0 {
		var zero T
		return zero, false
	}
	s := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = capped(append(h.future, current), h.cfg.MaxDepth)
	return s, true
}

// Redo pops the most recent future snapshot and parks current on the past stack.
func (h *History[T]) Redo(current T) (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.future) == 0 {
		var zero T
		return zero, false
	}
	s := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = capped(append(h.past, current), h.cfg.MaxDepth)
	return s, true
}

// Clear drops both stacks.
func (h *History[T]) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.past = nil
	h.future = nil
}

// Stats returns current stack sizes for diagnostics.
func (h *History[T]) Stats() (past int, future int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.past), len(h.future)
}

// MaxDepth returns the effective depth cap.
func (h *History[T]) MaxDepth() int { return h.cfg.MaxDepth }

func capped[T any](stack []T, limit int) []T {
	if limit > 0 && len(stack) > limit {
		// drop the oldest extras
		toDrop := len(stack) - limit
		return append([]T{}, stack[toDrop:]...)
	}
	return stack
}
