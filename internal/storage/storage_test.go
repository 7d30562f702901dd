/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"panelcanvas/internal/domain"
)

func sampleDocument() domain.Document {
	return domain.Document{
		Panels: []domain.Panel{
			{ID: "a", X: 10, Y: 20, Width: 120, Height: 80, ZIndex: 1, Shape: domain.ShapeRectangle, BackgroundColor: "#ff0000"},
			{ID: "b", X: 200, Y: 100, Width: 90, Height: 90, ZIndex: 2, Shape: domain.ShapeStar, Rotation: 30,
				Gradient: &domain.Gradient{Type: domain.GradientRadial, Stops: []domain.GradientStop{{Color: "#fff", Offset: 0}, {Color: "#000", Offset: 1}}}},
		},
		CanvasWidth:    800,
		CanvasHeight:   600,
		CanvasBgColor:  "#fafafa",
		CanvasFgColor:  "#111111",
		RoundedCorners: domain.Bool(false),
		ShowGrid:       domain.Bool(true),
	}
}

func TestCreateOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "board.json")
	doc := sampleDocument()
	if _, err := Create(path, doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	h, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !reflect.DeepEqual(h.Document, doc) {
		t.Fatalf("round trip = %+v, want %+v", h.Document, doc)
	}
}

func TestSaveKeepsBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	h, err := Create(path, sampleDocument())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	h.Document.CanvasBgColor = "#000000"
	if err := Save(h); err != nil {
		t.Fatalf("Save: %v", err)
	}
	ents, err := os.ReadDir(BackupDir(path))
	if err != nil {
		t.Fatalf("read backups: %v", err)
	}
	found := false
	for _, e := range ents {
		if strings.HasPrefix(e.Name(), "board.json.") && strings.HasSuffix(e.Name(), ".bak") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no backup written, entries: %v", ents)
	}
	// no temp files left behind
	dirEnts, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range dirEnts {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestOpenFallsBackToBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	h, err := Create(path, sampleDocument())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := Save(h); err != nil { // backs up the first version
		t.Fatalf("Save: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Open(path)
	if err != nil {
		t.Fatalf("Open with corrupt file: %v", err)
	}
	if got.Document.CanvasBgColor != "#fafafa" {
		t.Fatalf("backup document not used: %+v", got.Document)
	}
}

func TestOpenMissingWithoutBackup(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected error for missing document")
	}
}

func TestSaveAsMovesHandle(t *testing.T) {
	dir := t.TempDir()
	h, err := Create(filepath.Join(dir, "a.json"), sampleDocument())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	target := filepath.Join(dir, "copies", "b.json")
	if err := SaveAs(h, target); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	if h.Path != target {
		t.Fatalf("handle path = %q, want %q", h.Path, target)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("target not written: %v", err)
	}
	if err := SaveAs(h, ""); err == nil {
		t.Fatalf("empty path should fail")
	}
	if err := Save(nil); err == nil {
		t.Fatalf("nil handle should fail")
	}
}

func TestAutosaveCrashSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	h := &DocumentHandle{Path: path, Document: sampleDocument()}
	out, err := AutosaveCrashSnapshot(h)
	if err != nil {
		t.Fatalf("AutosaveCrashSnapshot: %v", err)
	}
	if filepath.Dir(out) != BackupDir(path) || !strings.HasPrefix(filepath.Base(out), "board.crash-") {
		t.Fatalf("unexpected snapshot path %q", out)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(doc.Panels) != 2 {
		t.Fatalf("snapshot panels = %d, want 2", len(doc.Panels))
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("crash snapshot must not write the live file")
	}
}

func TestDecodeDropsBrokenPanels(t *testing.T) {
	data := []byte(`{
  "panels": [
    {"id": "ok", "x": 1, "y": 2, "width": 60, "height": 60, "zIndex": 2.6, "shape": "circle"},
    {"id": "no-shape", "x": 1, "y": 2, "width": 60, "height": 60, "zIndex": 1},
    {"id": "null-x", "x": null, "y": 2, "width": 60, "height": 60, "zIndex": 1, "shape": "star"},
    {"id": "bad-type", "x": "left", "y": 2, "width": 60, "height": 60, "zIndex": 1, "shape": "star"},
    null
  ],
  "canvasWidth": 640
}`)
	doc, err := DecodeDocument(data)
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	if len(doc.Panels) != 1 || doc.Panels[0].ID != "ok" {
		t.Fatalf("panels = %+v, want only ok", doc.Panels)
	}
	if got, want := doc.Panels[0].ZIndex, 3; got != want {
		t.Fatalf("zIndex = %d, want %d", got, want)
	}
	if doc.CanvasWidth != 640 || doc.CanvasHeight != 0 {
		t.Fatalf("canvas size = %vx%v", doc.CanvasWidth, doc.CanvasHeight)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":         `{"panels": [`,
		"array root":       `[1, 2]`,
		"panels not array": `{"panels": {"id": "a"}}`,
		"width string":     `{"panels": [], "canvasWidth": "wide"}`,
	}
	for name, in := range cases {
		if _, err := DecodeDocument([]byte(in)); !errors.Is(err, ErrMalformedDocument) {
			t.Fatalf("%s: err = %v, want ErrMalformedDocument", name, err)
		}
	}
}

func TestEncodeDocument(t *testing.T) {
	data, err := EncodeDocument(domain.Document{})
	if err != nil {
		t.Fatalf("EncodeDocument: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Fatalf("missing trailing newline")
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := m["panels"].([]any); !ok {
		t.Fatalf("panels should encode as an array, got %v", m["panels"])
	}
	if _, err := DecodeDocument(data); err != nil {
		t.Fatalf("encoded empty document fails validation: %v", err)
	}
}

func TestDecodeClampsHugeZIndex(t *testing.T) {
	data := []byte(`{"panels": [
    {"id": "top", "x": 0, "y": 0, "width": 60, "height": 60, "zIndex": 1e300, "shape": "circle"},
    {"id": "bottom", "x": 0, "y": 0, "width": 60, "height": 60, "zIndex": -1e300, "shape": "circle"}
  ]}`)
	doc, err := DecodeDocument(data)
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	if len(doc.Panels) != 2 {
		t.Fatalf("panels = %d, want 2", len(doc.Panels))
	}
	if got := doc.Panels[0].ZIndex; got != math.MaxInt32 {
		t.Fatalf("top zIndex = %d, want %d", got, math.MaxInt32)
	}
	if got := doc.Panels[1].ZIndex; got != math.MinInt32 {
		t.Fatalf("bottom zIndex = %d, want %d", got, math.MinInt32)
	}
}
