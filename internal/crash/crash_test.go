/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"panelcanvas/internal/domain"
	"panelcanvas/internal/storage"
	"panelcanvas/internal/telemetry"
)

func TestWriteReportCreatesFileInTemp(t *testing.T) {
	path, report, err := writeReport(nil, "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(path) })
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if s != string(report) {
		t.Fatalf("returned report differs from file")
	}
	if !strings.Contains(s, "panelcanvas crash report") {
		t.Fatalf("report header missing")
	}
	if !strings.Contains(s, "Panic: boom") || !strings.Contains(s, "Session: "+sessionID) {
		t.Fatalf("report content missing: %s", s)
	}
}

func TestWriteReportCreatesFileInBackups(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "board.json")
	h := &storage.DocumentHandle{Path: doc}

	path, _, err := writeReport(h, "kaboom", []byte("stack"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	if filepath.Dir(path) != storage.BackupDir(doc) {
		t.Fatalf("report dir = %s, want %s", filepath.Dir(path), storage.BackupDir(doc))
	}
	b, _ := os.ReadFile(path)
	if !strings.Contains(string(b), "Document: "+doc) {
		t.Fatalf("report does not name the document: %s", b)
	}
}

func TestRecover_WritesReportAndSnapshot(t *testing.T) {
	var out bytes.Buffer
	oldStderr := stderr
	stderr = &out
	t.Cleanup(func() { stderr = oldStderr })

	code := 0
	oldExit := exitFn
	exitFn = func(c int) { code = c }
	t.Cleanup(func() { exitFn = oldExit })

	doc := filepath.Join(t.TempDir(), "board.json")
	h := &storage.DocumentHandle{Path: doc, Document: domain.Document{Panels: []domain.Panel{
		{ID: "a", X: 1, Y: 2, Width: 100, Height: 100, ZIndex: 1, Shape: domain.ShapeCircle},
	}}}

	func() {
		defer Recover(h)
		panic("boom")
	}()

	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	entries, err := os.ReadDir(storage.BackupDir(doc))
	if err != nil {
		t.Fatalf("read backups: %v", err)
	}
	var report, snapshot string
	for _, e := range entries {
		switch {
		case strings.HasPrefix(e.Name(), "crash-") && strings.HasSuffix(e.Name(), ".log"):
			report = filepath.Join(storage.BackupDir(doc), e.Name())
		case strings.HasPrefix(e.Name(), "board.crash-") && strings.HasSuffix(e.Name(), ".json"):
			snapshot = filepath.Join(storage.BackupDir(doc), e.Name())
		}
	}
	if report == "" || snapshot == "" {
		t.Fatalf("missing report (%q) or snapshot (%q)", report, snapshot)
	}
	b, err := os.ReadFile(snapshot)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	got, err := storage.DecodeDocument(b)
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(got.Panels) != 1 || got.Panels[0].ID != "a" {
		t.Fatalf("snapshot panels = %+v", got.Panels)
	}
	if !strings.Contains(out.String(), report) {
		t.Fatalf("stderr does not mention report: %s", out.String())
	}
}

func TestRecover_NoPanicIsNoop(t *testing.T) {
	called := false
	oldExit := exitFn
	exitFn = func(int) { called = true }
	t.Cleanup(func() { exitFn = oldExit })

	func() {
		defer Recover(nil)
	}()
	if called {
		t.Fatalf("exit called without a panic")
	}
}

func TestRecover_UploadsWhenOptedIn(t *testing.T) {
	var got []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	c := telemetry.New(telemetry.Config{OptIn: true, CrashURL: srv.URL})
	defer c.Close()
	oldUploader := uploader
	uploader = func() *telemetry.Client { return c }
	t.Cleanup(func() { uploader = oldUploader })

	oldStderr := stderr
	stderr = io.Discard
	t.Cleanup(func() { stderr = oldStderr })
	oldExit := exitFn
	exitFn = func(int) {}
	t.Cleanup(func() { exitFn = oldExit })

	func() {
		defer Recover(&storage.DocumentHandle{Path: filepath.Join(t.TempDir(), "board.json")})
		panic("upload me")
	}()

	if !strings.Contains(string(got), "Panic: upload me") {
		t.Fatalf("uploaded report = %q", got)
	}
}
