/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package undo

import "testing"

func TestUndoRedoBasic(t *testing.T) {
	h := New[string](Config{MaxDepth: 10})
	h.Push("a")
	h.Push("b")
	if past, future := h.Stats(); past != 2 || future != 0 {
		t.Fatalf("expected 2 past and 0 future, got past=%d future=%d", past, future)
	}
	s, ok := h.Undo("c")
	if !ok || s != "b" {
		t.Fatalf("undo expected 'b', got ok=%v s=%q", ok, s)
	}
	s, ok = h.Redo("b")
	if !ok || s != "c" {
		t.Fatalf("redo expected 'c', got ok=%v s=%q", ok, s)
	}
	if past, future := h.Stats(); past != 2 || future != 0 {
		t.Fatalf("after redo expected 2/0, got %d/%d", past, future)
	}
}

func TestEmptyStacksAreNoOps(t *testing.T) {
	h := New[int](Config{})
	if _, ok := h.Undo(1); ok {
		t.Fatalf("undo on empty history should report false")
	}
	if _, ok := h.Redo(1); ok {
		t.Fatalf("redo on empty history should report false")
	}
	if past, future := h.Stats(); past != 0 || future != 0 {
		t.Fatalf("no-op undo/redo recorded entries: %d/%d", past, future)
	}
	if h.MaxDepth() != DefaultMaxDepth {
		t.Fatalf("MaxDepth = %d, want %d", h.MaxDepth(), DefaultMaxDepth)
	}
}

func TestPushClearsFuture(t *testing.T) {
	h := New[int](Config{MaxDepth: 5})
	h.Push(1)
	if _, ok := h.Undo(2); !ok {
		t.Fatalf("undo failed")
	}
	h.Push(1)
	if _, ok := h.Redo(3); ok {
		t.Fatalf("redo should be impossible after a new push")
	}
}

func TestCapDropsOldest(t *testing.T) {
	h := New[int](Config{MaxDepth: 50})
	for i := 0; i < 60; i++ {
		h.Push(i)
	}
	past, _ := h.Stats()
	if past != 50 {
		t.Fatalf("expected cap to limit past to 50, got %d", past)
	}
	// The oldest remaining entry is 10; undo everything and check the last one popped.
	last := -1
	for {
		s, ok := h.Undo(0)
		if !ok {
			break
		}
		last = s
	}
	if last != 10 {
		t.Fatalf("expected oldest surviving snapshot 10, got %d", last)
	}
}

func TestClear(t *testing.T) {
	h := New[int](Config{MaxDepth: 3})
	h.Push(1)
	h.Push(2)
	_, _ = h.Undo(3)
	h.Clear()
	if past, future := h.Stats(); past != 0 || future != 0 {
		t.Fatalf("expected cleared stats to be zero, got %d/%d", past, future)
	}
}
