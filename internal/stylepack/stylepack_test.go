/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package stylepack

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"panelcanvas/internal/canvas"
	"panelcanvas/internal/domain"
	applog "panelcanvas/internal/log"
)

const nightYAML = `name: Night
fill: "#111827"
border: {color: "#f9fafb", width: 3, radius: 12}
shadow: bottom-right
text:
  font: Go Mono
  size: 18
  color: "#ffffff"
  bold: true
  align: left
  letter_spacing: wide
`

const sunsetYAML = `name: Sunset
gradient:
  type: linear
  angle: 90
  stops:
    - {color: "#f97316", offset: 0}
    - {color: "#db2777", offset: 1}
`

func writeStyles(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, "dark"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "dark", "night.yaml"), []byte(nightYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sunset.yml"), []byte(sunsetYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("not a style"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestParseAndUpdate(t *testing.T) {
	st, err := Parse([]byte(nightYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	u := st.Update()
	if u.BackgroundColor == nil || *u.BackgroundColor != "#111827" || !u.ClearGradient {
		t.Fatalf("fill not mapped: %+v", u)
	}
	if u.BorderWidth == nil || *u.BorderWidth != 3 || u.BorderRadius == nil || *u.BorderRadius != 12 {
		t.Fatalf("border not mapped: %+v", u)
	}
	if u.ShadowDirection == nil || *u.ShadowDirection != domain.ShadowBottomRight {
		t.Fatalf("shadow not mapped")
	}
	if u.FontFamily == nil || *u.FontFamily != "Go Mono" || u.IsBold == nil || !*u.IsBold || u.IsItalic != nil {
		t.Fatalf("text not mapped: %+v", u)
	}
	if u.TextAlign == nil || *u.TextAlign != domain.AlignLeft || u.LetterSpacing == nil || *u.LetterSpacing != "wide" {
		t.Fatalf("text style not mapped")
	}
	if u.X != nil || u.Width != nil || u.Text != nil {
		t.Fatalf("style must not touch geometry or text content")
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"missing name":  "fill: red\n",
		"bad color":     "name: x\nfill: nope\n",
		"bad shadow":    "name: x\nshadow: sideways\n",
		"bad gradient":  "name: x\ngradient: {type: conic, stops: [{color: red, offset: 0}]}\n",
		"no stops":      "name: x\ngradient: {type: linear}\n",
		"not yaml":      "name: [\n",
	}
	for label, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", label)
		}
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeStyles(t, dir)
	p, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := p.Names(); len(got) != 2 {
		t.Fatalf("names = %v, want 2 styles", got)
	}
	if _, err := p.Find("Sunset"); err != nil {
		t.Fatalf("find: %v", err)
	}
	if _, err := p.Find("Noon"); !errors.Is(err, ErrStyleNotFound) {
		t.Fatalf("err = %v, want ErrStyleNotFound", err)
	}
}

func TestExportInstallAndLoadArchive(t *testing.T) {
	src := t.TempDir()
	writeStyles(t, src)
	zipPath := filepath.Join(t.TempDir(), "packs", "mine.zip")
	if err := ExportPack(src, zipPath); err != nil {
		t.Fatalf("export: %v", err)
	}

	p, err := LoadArchive(zipPath)
	if err != nil {
		t.Fatalf("load archive: %v", err)
	}
	if _, err := p.Find("Night"); err != nil {
		t.Fatalf("archive missing Night: %v", err)
	}

	dst := t.TempDir()
	n, err := InstallPack(dst, zipPath)
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	if n != 3 {
		t.Fatalf("installed = %d, want 3", n)
	}
	if _, err := os.Stat(filepath.Join(dst, "dark", "night.yaml")); err != nil {
		t.Fatalf("night.yaml not installed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, ManifestName)); err == nil {
		t.Fatalf("manifest should not be installed")
	}
	// second install keeps existing files
	if n, err := InstallPack(dst, zipPath); err != nil || n != 0 {
		t.Fatalf("reinstall = %d, %v; want 0, nil", n, err)
	}
}

func TestExportPackWithoutStylesDir(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "empty.zip")
	if err := ExportPack(filepath.Join(t.TempDir(), "missing"), zipPath); err != nil {
		t.Fatalf("export: %v", err)
	}
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	defer r.Close()
	if len(r.File) != 1 || r.File[0].Name != ManifestName {
		t.Fatalf("entries = %d, want manifest only", len(r.File))
	}
}

func TestInstallRejectsEscapingEntries(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "evil.zip")
	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	w, _ := zw.Create("../outside.yaml")
	_, _ = w.Write([]byte(nightYAML))
	_ = zw.Close()
	_ = f.Close()

	if _, err := InstallPack(t.TempDir(), zipPath); err == nil {
		t.Fatalf("expected error for escaping entry")
	}
}

func TestApplySingleUndoStep(t *testing.T) {
	s := canvas.New(canvas.WithLogger(applog.Discard()))
	locked := domain.Panel{ID: "l", X: 300, Y: 0, Width: 100, Height: 100, ZIndex: 3, Shape: domain.ShapeSquare, IsLocked: true, BackgroundColor: "#000000"}
	s.SetPanels([]domain.Panel{
		{ID: "a", X: 0, Y: 0, Width: 100, Height: 100, ZIndex: 1, Shape: domain.ShapeSquare, BackgroundColor: "#000000"},
		{ID: "b", X: 150, Y: 0, Width: 100, Height: 100, ZIndex: 2, Shape: domain.ShapeCircle, BackgroundColor: "#000000"},
		locked,
	})
	base := s.HistoryLen()
	st, err := Parse([]byte(sunsetYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if n := Apply(s, st, nil); n != 2 {
		t.Fatalf("changed = %d, want 2", n)
	}
	if got := s.HistoryLen(); got != base+1 {
		t.Fatalf("history = %d, want %d", got, base+1)
	}
	state := s.State()
	for _, p := range state.Panels {
		if p.ID == "l" && p.Gradient != nil {
			t.Fatalf("locked panel was styled")
		}
		if p.ID != "l" && (p.Gradient == nil || len(p.Gradient.Stops) != 2) {
			t.Fatalf("panel %s gradient = %+v", p.ID, p.Gradient)
		}
	}
	s.Undo()
	for _, p := range s.State().Panels {
		if p.Gradient != nil {
			t.Fatalf("undo left gradient on %s", p.ID)
		}
	}
	if n := Apply(s, st, []string{"missing"}); n != 0 {
		t.Fatalf("changed = %d for unknown id", n)
	}
}
