/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a crash report plus an autosaved copy of
// the open document.
package crash

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"panelcanvas/internal/ids"
	applog "panelcanvas/internal/log"
	"panelcanvas/internal/storage"
	"panelcanvas/internal/telemetry"
	"panelcanvas/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// stderr receives the user-facing crash message.
var stderr io.Writer = os.Stderr

// sessionID identifies this process in crash reports.
var sessionID = ids.NewSessionID()

// Recover captures a panic, logs it with its stack, writes a crash report and
// autosaves h's document when h names a file. It must be deferred directly;
// callers that open a document later fill in the same handle.
//
// Usage: defer crash.Recover(h)
func Recover(h *storage.DocumentHandle) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("session", sessionID), slog.String("stack", string(stack)))

	reportPath, report, err := writeReport(h, r, stack)
	if err != nil {
		l.Error("crash report failed", slog.Any("err", err))
	}
	if err := uploader().UploadCrash(context.Background(), report); err != nil {
		l.Warn("crash upload failed", slog.Any("err", err))
	}
	if h != nil && h.Path != "" {
		if path, err := storage.AutosaveCrashSnapshot(h); err != nil {
			l.Error("autosave crash snapshot failed", slog.Any("err", err))
		} else {
			l.Info("autosave crash snapshot written", slog.String("path", path))
			_, _ = fmt.Fprintf(stderr, "Your document was saved to: %s\n", path)
		}
	}

	_, _ = fmt.Fprintf(stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath)
	_, _ = fmt.Fprintf(stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
	exitFn(2)
}

// uploader sends reports when the user opted in to telemetry.
var uploader = telemetry.Default

func writeReport(h *storage.DocumentHandle, panicVal any, stack []byte) (string, []byte, error) {
	dir := os.TempDir()
	if h != nil && h.Path != "" {
		dir = storage.BackupDir(h.Path)
		_ = os.MkdirAll(dir, 0o755)
	}
	now := time.Now()
	path := filepath.Join(dir, fmt.Sprintf("crash-%s.log", now.Format("20060102-150405.000")))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "panelcanvas crash report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", now.Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Session: %s\n", sessionID)
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if h != nil && h.Path != "" {
		_, _ = fmt.Fprintf(&buf, "Document: %s\n", h.Path)
		_, _ = fmt.Fprintf(&buf, "Panels: %d\n", len(h.Document.Panels))
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, buf.Bytes(), err
	}
	defer func() {
		if err := f.Close(); err != nil {
			applog.WithComponent("crash").Error("failed to close crash report file", slog.Any("err", err), slog.String("path", path))
		}
	}()
	if _, err := f.Write(buf.Bytes()); err != nil {
		return path, buf.Bytes(), err
	}
	_ = f.Sync()
	return path, buf.Bytes(), nil
}
