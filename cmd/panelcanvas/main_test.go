/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"panelcanvas/internal/clipboard"
	"panelcanvas/internal/config"
	applog "panelcanvas/internal/log"
	"panelcanvas/internal/storage"
	"panelcanvas/internal/stylepack"
	"panelcanvas/internal/telemetry"
)

func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	cfg := config.Defaults()
	cfg.Export.OutDir = filepath.Join(t.TempDir(), "exports")
	return &app{
		cfg: cfg,
		doc: &storage.DocumentHandle{},
		out: &out,
		log: applog.Discard(),
		cb:  &clipboard.Memory{},
	}, &out
}

func mustRun(t *testing.T, a *app, out *bytes.Buffer, args ...string) string {
	t.Helper()
	out.Reset()
	if code := run(a, args); code != 0 {
		t.Fatalf("%v exit = %d, output:\n%s", args, code, out.String())
	}
	return out.String()
}

func TestCLI_NewAddInfo(t *testing.T) {
	a, out := newTestApp(t)
	file := filepath.Join(t.TempDir(), "board.json")

	mustRun(t, a, out, "new", file, "800", "600")
	if a.doc.Path != file {
		t.Fatalf("handle path = %q, want %q", a.doc.Path, file)
	}
	got := mustRun(t, a, out, "add", file, "Circle")
	if !strings.Contains(got, "Added circle") {
		t.Fatalf("add output = %q", got)
	}
	got = mustRun(t, a, out, "info", file)
	if !strings.Contains(got, "Canvas: 800x600") || !strings.Contains(got, "Panels: 1") {
		t.Fatalf("info output = %q", got)
	}
}

func TestCLI_UsageErrors(t *testing.T) {
	a, out := newTestApp(t)
	if code := run(a, []string{"nope"}); code != 2 {
		t.Fatalf("unknown command exit = %d, want 2", code)
	}
	if code := run(a, []string{"add", "x.json", "blob"}); code != 2 {
		t.Fatalf("unknown shape exit = %d, want 2", code)
	}
	if !strings.Contains(out.String(), `unknown shape "blob"`) {
		t.Fatalf("output = %q", out.String())
	}
	if code := run(a, []string{"info", filepath.Join(t.TempDir(), "missing.json")}); code != 1 {
		t.Fatalf("missing file exit = %d, want 1", code)
	}
}

func TestCLI_ValidateReportsDropped(t *testing.T) {
	a, out := newTestApp(t)
	file := filepath.Join(t.TempDir(), "in.json")
	doc := `{"panels":[
		{"id":"ok","x":0,"y":0,"width":100,"height":100,"zIndex":1,"shape":"square"},
		{"id":"tiny","x":0,"y":0,"width":40,"height":40,"zIndex":2,"shape":"square"}
	]}`
	if err := os.WriteFile(file, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := mustRun(t, a, out, "validate", file)
	if !strings.Contains(got, "1 kept, 1 dropped") || !strings.Contains(got, "dropped tiny") {
		t.Fatalf("validate output = %q", got)
	}
}

func TestCLI_MoveAndReorder(t *testing.T) {
	a, out := newTestApp(t)
	file := filepath.Join(t.TempDir(), "board.json")
	doc := `{"panels":[
		{"id":"a","x":0,"y":0,"width":100,"height":100,"zIndex":1,"shape":"square"},
		{"id":"b","x":400,"y":400,"width":100,"height":100,"zIndex":2,"shape":"circle"}
	],"canvasWidth":1000,"canvasHeight":800}`
	if err := os.WriteFile(file, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := mustRun(t, a, out, "move", file, "a", "150", "200")
	if !strings.Contains(got, "Moved a to (150,200)") {
		t.Fatalf("move output = %q", got)
	}
	got = mustRun(t, a, out, "front", file, "a")
	if !strings.Contains(got, "a z=2") {
		t.Fatalf("front output = %q", got)
	}
	h, err := storage.Open(file)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, p := range h.Document.Panels {
		if p.ID == "b" && p.ZIndex != 1 {
			t.Fatalf("b z = %d, want 1", p.ZIndex)
		}
	}
}

func TestCLI_CopyPaste(t *testing.T) {
	a, out := newTestApp(t)
	file := filepath.Join(t.TempDir(), "board.json")
	mustRun(t, a, out, "new", file)
	mustRun(t, a, out, "add", file, "star")
	if got := mustRun(t, a, out, "copy", file); !strings.Contains(got, "Copied 1 panel(s)") {
		t.Fatalf("copy output = %q", got)
	}
	mustRun(t, a, out, "paste", file)
	h, err := storage.Open(file)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(h.Document.Panels) != 2 {
		t.Fatalf("panels after paste = %d, want 2", len(h.Document.Panels))
	}
}

func TestCLI_ExportAndBatch(t *testing.T) {
	a, out := newTestApp(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "board.json")
	mustRun(t, a, out, "new", file, "400", "300")
	mustRun(t, a, out, "add", file, "hexagon")

	for _, name := range []string{"out.png", "out.svg", "out.pdf"} {
		path := filepath.Join(dir, name)
		mustRun(t, a, out, "export", file, path)
		if st, err := os.Stat(path); err != nil || st.Size() == 0 {
			t.Fatalf("export %s: %v", name, err)
		}
	}
	if code := run(a, []string{"export", file, filepath.Join(dir, "out.gif")}); code != 2 {
		t.Fatalf("gif export exit = %d, want 2", code)
	}

	got := mustRun(t, a, out, "batch", file, filepath.Join(dir, "batch"), "print")
	want := filepath.Join(dir, "batch", "print", "pdf", "board.pdf")
	if !strings.Contains(got, want) {
		t.Fatalf("batch output = %q, want %s", got, want)
	}
}

func TestCLI_StylesAndStyle(t *testing.T) {
	a, out := newTestApp(t)
	dir := t.TempDir()
	styles := filepath.Join(dir, "styles")
	if err := os.MkdirAll(styles, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	yml := "name: Ink\nfill: \"#000000\"\nborder: {width: 4}\n"
	if err := os.WriteFile(filepath.Join(styles, "ink.yaml"), []byte(yml), 0o644); err != nil {
		t.Fatalf("write style: %v", err)
	}
	zipPath := filepath.Join(dir, "ink.zip")
	if err := stylepack.ExportPack(styles, zipPath); err != nil {
		t.Fatalf("export pack: %v", err)
	}

	if got := mustRun(t, a, out, "styles", zipPath); strings.TrimSpace(got) != "Ink" {
		t.Fatalf("styles output = %q", got)
	}
	file := filepath.Join(dir, "board.json")
	mustRun(t, a, out, "new", file)
	mustRun(t, a, out, "add", file, "square")
	if got := mustRun(t, a, out, "style", file, styles, "Ink"); !strings.Contains(got, "Styled 1 panel(s) with Ink") {
		t.Fatalf("style output = %q", got)
	}
	h, err := storage.Open(file)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if p := h.Document.Panels[0]; p.BackgroundColor != "#000000" || p.BorderWidth != 4 {
		t.Fatalf("panel not styled: %+v", p)
	}
	if code := run(a, []string{"style", file, styles, "Chalk"}); code != 1 {
		t.Fatalf("unknown style exit = %d, want 1", code)
	}
	if code := run(a, []string{"style", file, styles, "Ink", "nope"}); code != 1 {
		t.Fatalf("unknown panel exit = %d, want 1", code)
	}
}

func TestCLI_SendsCommandEvents(t *testing.T) {
	events := make(chan map[string]any, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		var m map[string]any
		_ = json.Unmarshal(b, &m)
		events <- m
	}))
	defer srv.Close()

	a, out := newTestApp(t)
	a.tel = telemetry.New(telemetry.Config{OptIn: true, EventsURL: srv.URL})
	defer a.tel.Close()

	mustRun(t, a, out, "version")
	select {
	case m := <-events:
		if m["name"] != "command" || m["cmd"] != "version" || m["ok"] != true {
			t.Fatalf("event = %v", m)
		}
	default:
		t.Fatalf("no event sent")
	}
}
