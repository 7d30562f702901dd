/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package ids generates the identifiers used across the editor.
// Panel ids are type-prefixed ids so they read well in exported JSON;
// session ids tag crash reports and are plain UUIDs.
package ids

import (
	"fmt"

	"github.com/google/uuid"
	"go.jetify.com/typeid/v2"
)

const PrefixPanel = "panel"

// New returns a fresh typeid with the given prefix.
func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

// NewPanelID returns a fresh panel id such as panel_01h455vb4pex5vsknk084sn02q.
func NewPanelID() string { return New(PrefixPanel) }

// NewSessionID returns a random UUID identifying one run of the application.
func NewSessionID() string { return uuid.NewString() }

// Validate checks that id is a well-formed typeid with the expected prefix.
func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
