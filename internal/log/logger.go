/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log provides centralized slog-based logging for panelcanvas.
// It wraps slog with a small configuration surface: a human-friendly console
// handler or JSON output, plus an optional rotating file sink.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/kelseyhightower/envconfig"
	lj "gopkg.in/natefinch/lumberjack.v2"

	"panelcanvas/internal/version"
)

// EnvPrefix prefixes every logging environment variable (PNC_LOG_LEVEL, ...).
const EnvPrefix = "PNC"

// Options controls logger initialization.
// Values can be provided directly or via environment variables:
//   - PNC_LOG_LEVEL=debug|info|warn|error
//   - PNC_LOG_FORMAT=console|json
//   - PNC_LOG_FILE=<path> (enables file logging with rotation)
//   - PNC_LOG_SOURCE=true|false (include source)
//
// Defaults: INFO level, console format, no source.
type Options struct {
	Level     string `envconfig:"LOG_LEVEL" default:"info"`
	Format    string `envconfig:"LOG_FORMAT" default:"console"` // "console" or "json"
	AddSource bool   `envconfig:"LOG_SOURCE" default:"false"`
	File      string `envconfig:"LOG_FILE"` // optional path for file logging (rotated)
}

var (
	defaultLoggerMu sync.RWMutex
	defaultLogger   *slog.Logger
)

// L returns the default application logger, initializing from env if needed.
func L() *slog.Logger {
	defaultLoggerMu.RLock()
	l := defaultLogger
	defaultLoggerMu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLogger
}

// Init configures the global logger writing to stderr and sets slog.Default as well.
func Init(opts Options) {
	logger := New(opts, os.Stderr)
	defaultLoggerMu.Lock()
	defaultLogger = logger
	defaultLoggerMu.Unlock()
	slog.SetDefault(logger)
}

// New builds a logger writing console or JSON records to w, plus the rotating
// file sink when opts.File is set. It does not touch the global logger.
func New(opts Options, w io.Writer) *slog.Logger {
	lvl := parseLevel(opts.Level)
	format := strings.ToLower(strings.TrimSpace(opts.Format))

	var handlers []slog.Handler
	if format == "json" {
		handlers = append(handlers, slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}))
	} else {
		handlers = append(handlers, &prettyTextHandler{level: lvl, addSource: opts.AddSource, w: w, mu: &sync.Mutex{}})
	}
	if file := strings.TrimSpace(opts.File); file != "" {
		fw := &lj.Logger{Filename: file, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		handlers = append(handlers, slog.NewJSONHandler(fw, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}))
	}

	var h slog.Handler = handlers[0]
	if len(handlers) > 1 {
		h = &multi{hs: handlers}
	}
	return slog.New(h).With(
		slog.String("app", "panelcanvas"),
		slog.String("ver", version.Version),
	)
}

// Discard returns a logger that drops everything; handy for tests and embedding.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// FromEnv builds Options from PNC_LOG_* environment variables.
// Malformed values fall back to the defaults.
func FromEnv() Options {
	var opts Options
	if err := envconfig.Process(EnvPrefix, &opts); err != nil {
		return Options{Level: "info", Format: "console"}
	}
	return opts
}

// WithComponent returns a logger with the component attribute pre-set.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation annotates the logger with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
