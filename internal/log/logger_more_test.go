/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bytes"
	"os"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestFromEnv(t *testing.T) {
	t.Setenv("PNC_LOG_LEVEL", "debug")
	t.Setenv("PNC_LOG_FORMAT", "json")
	t.Setenv("PNC_LOG_SOURCE", "true")
	t.Setenv("PNC_LOG_FILE", "/tmp/pnc.log")
	o := FromEnv()
	if o.Level != "debug" || o.Format != "json" || !o.AddSource || o.File != "/tmp/pnc.log" {
		t.Fatalf("FromEnv() = %#v", o)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PNC_LOG_LEVEL", "PNC_LOG_FORMAT", "PNC_LOG_SOURCE", "PNC_LOG_FILE"} {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
	o := FromEnv()
	if o.Level != "info" || o.Format != "console" || o.AddSource || o.File != "" {
		t.Fatalf("FromEnv() defaults = %#v", o)
	}
}

func TestFromEnvMalformedBool(t *testing.T) {
	t.Setenv("PNC_LOG_SOURCE", "maybe")
	o := FromEnv()
	if o.Level != "info" || o.Format != "console" || o.AddSource {
		t.Fatalf("malformed env should fall back to defaults, got %#v", o)
	}
}

func TestPrettyTextHandler_Behavior(t *testing.T) {
	var buf bytes.Buffer
	h := &prettyTextHandler{level: slog.LevelDebug, w: &buf, mu: &sync.Mutex{}}
	l := slog.New(h).With("k", "v").WithGroup("grp")
	l.Error("boom", "n", 42, "pi", 3.14, "msg2", "two words")

	out := buf.String()
	for _, want := range []string{"ERR", "boom", "k=v", "grp.n=42", "grp.pi=3.14", `grp.msg2="two words"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
	if strings.Contains(out, "grp.k=") {
		t.Fatalf("attrs added before WithGroup must not be prefixed: %q", out)
	}
}

func TestPrettyTextHandler_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	h := &prettyTextHandler{level: slog.LevelWarn, w: &buf, mu: &sync.Mutex{}}
	slog.New(h).Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info record written at warn level: %q", buf.String())
	}
}

func TestMultiFansOut(t *testing.T) {
	var a, b bytes.Buffer
	m := &multi{hs: []slog.Handler{
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	}}
	slog.New(m).Info("only-a")
	if !strings.Contains(a.String(), "only-a") {
		t.Fatalf("first handler missed record")
	}
	if b.Len() != 0 {
		t.Fatalf("second handler should filter info: %q", b.String())
	}
}
