/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"panelcanvas/internal/domain"
	applog "panelcanvas/internal/log"
)

// ErrMalformedDocument reports input that is not a canvas document at all.
var ErrMalformedDocument = errors.New("storage: malformed document")

//go:embed schema/document.schema.json
var documentSchema []byte

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(documentSchema))
})

// requiredPanelKeys must be present and non-null for a panel to be imported.
var requiredPanelKeys = []string{"id", "x", "y", "width", "height", "zIndex", "shape"}

// wireDocument decodes panels lazily so one bad entry cannot sink the import.
type wireDocument struct {
	domain.Document
	Panels []json.RawMessage `json:"panels"`
}

// wirePanel accepts fractional zIndex values.
type wirePanel struct {
	domain.Panel
	ZIndex float64 `json:"zIndex"`
}

// DecodeDocument validates data against the document schema and decodes it.
// Panels missing required keys or failing to decode are dropped and logged.
func DecodeDocument(data []byte) (domain.Document, error) {
	schema, err := compiledSchema()
	if err != nil {
		return domain.Document{}, fmt.Errorf("compile document schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return domain.Document{}, fmt.Errorf("%w: %s", ErrMalformedDocument, strings.Join(msgs, "; "))
	}

	var w wireDocument
	if err := json.Unmarshal(data, &w); err != nil {
		return domain.Document{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	doc := w.Document
	doc.Panels = make([]domain.Panel, 0, len(w.Panels))
	l := applog.WithComponent("storage")
	for i, raw := range w.Panels {
		p, reason := decodePanel(raw)
		if reason != "" {
			l.Debug("dropping panel on import", slog.Int("index", i), slog.String("reason", reason))
			continue
		}
		doc.Panels = append(doc.Panels, p)
	}
	return doc, nil
}

func decodePanel(raw json.RawMessage) (domain.Panel, string) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil || keys == nil {
		return domain.Panel{}, "not an object"
	}
	for _, k := range requiredPanelKeys {
		v, ok := keys[k]
		if !ok || string(v) == "null" {
			return domain.Panel{}, "missing " + k
		}
	}
	var w wirePanel
	if err := json.Unmarshal(raw, &w); err != nil {
		return domain.Panel{}, err.Error()
	}
	p := w.Panel
	p.ZIndex = int(math.Round(max(math.MinInt32, min(w.ZIndex, math.MaxInt32))))
	return p, ""
}

// EncodeDocument renders doc as indented JSON with a trailing newline.
func EncodeDocument(doc domain.Document) ([]byte, error) {
	if doc.Panels == nil {
		doc.Panels = []domain.Panel{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return append(data, '\n'), nil
}
