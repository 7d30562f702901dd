/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package clipboard moves panels between canvases through a text clipboard.
package clipboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/atotto/clipboard"

	"panelcanvas/internal/domain"
)

// ErrNoPanels is returned by Paste when the clipboard holds something else.
var ErrNoPanels = errors.New("clipboard does not contain panels")

// ErrUnavailable is returned when no system clipboard utility is installed.
var ErrUnavailable = errors.New("system clipboard unavailable")

const (
	envelopeKind    = "panelcanvas/panels"
	envelopeVersion = 1
)

// Clipboard is a plain-text clipboard.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type envelope struct {
	Kind    string         `json:"kind"`
	Version int            `json:"version"`
	Panels  []domain.Panel `json:"panels"`
}

// Copy writes panels to cb as a JSON envelope.
func Copy(cb Clipboard, panels []domain.Panel) error {
	b, err := json.Marshal(envelope{Kind: envelopeKind, Version: envelopeVersion, Panels: domain.ClonePanels(panels)})
	if err != nil {
		return fmt.Errorf("encode panels: %w", err)
	}
	if err := cb.WriteAll(string(b)); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// Paste reads panels previously written by Copy. Any other clipboard content
// yields ErrNoPanels.
func Paste(cb Clipboard) ([]domain.Panel, error) {
	text, err := cb.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read clipboard: %w", err)
	}
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") {
		return nil, ErrNoPanels
	}
	var env envelope
	if err := json.Unmarshal([]byte(text), &env); err != nil || env.Kind != envelopeKind {
		return nil, ErrNoPanels
	}
	if env.Version > envelopeVersion {
		return nil, fmt.Errorf("clipboard envelope version %d is newer than supported %d", env.Version, envelopeVersion)
	}
	return env.Panels, nil
}

// System is the operating system clipboard.
type System struct{}

func (System) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnavailable
	}
	if runtime.GOOS == "darwin" {
		if out, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(out), nil
		}
	}
	return clipboard.ReadAll()
}

func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

// Memory is an in-process clipboard for headless use.
type Memory struct {
	mu   sync.Mutex
	text string
}

func (m *Memory) ReadAll() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

func (m *Memory) WriteAll(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}
