/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"panelcanvas/internal/canvas"
	"panelcanvas/internal/clipboard"
	"panelcanvas/internal/config"
	"panelcanvas/internal/domain"
	"panelcanvas/internal/export"
	"panelcanvas/internal/gesture"
	"panelcanvas/internal/storage"
	"panelcanvas/internal/stylepack"
	"panelcanvas/internal/telemetry"
	"panelcanvas/internal/vector"
	"panelcanvas/internal/version"
)

// errUsage marks argument errors; run prints usage and exits with 2.
var errUsage = errors.New("usage")

type app struct {
	cfg config.AppConfig
	doc *storage.DocumentHandle
	out io.Writer
	log *slog.Logger
	cb  clipboard.Clipboard
	tel *telemetry.Client
}

func (a *app) clip() clipboard.Clipboard {
	if a.cb == nil {
		a.cb = clipboard.System{}
	}
	return a.cb
}

func run(a *app, args []string) int {
	if len(args) == 0 {
		usage(a.out)
		return 0
	}
	a.log.Debug("start", slog.String("cmd", args[0]), slog.Int("args", len(args)))
	cmds := map[string]func([]string) error{
		"version":   a.cmdVersion,
		"--version": a.cmdVersion,
		"-v":        a.cmdVersion,
		"new":       a.cmdNew,
		"info":      a.cmdInfo,
		"validate":  a.cmdValidate,
		"add":       a.cmdAdd,
		"move":      a.cmdMove,
		"front":     a.cmdFront,
		"back":      a.cmdBack,
		"copy":      a.cmdCopy,
		"paste":     a.cmdPaste,
		"export":    a.cmdExport,
		"batch":     a.cmdBatch,
		"styles":    a.cmdStyles,
		"style":     a.cmdStyle,
	}
	cmd, ok := cmds[args[0]]
	if !ok {
		usage(a.out)
		return 2
	}
	err := cmd(args[1:])
	a.event(args[0], err)
	if err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(a.out, err)
			usage(a.out)
			return 2
		}
		a.log.Error(args[0]+" failed", slog.Any("err", err))
		fmt.Fprintln(a.out, "Error:", err)
		return 1
	}
	return 0
}

// event reports the command name and outcome when telemetry is enabled.
func (a *app) event(cmd string, err error) {
	if !a.tel.Enabled() {
		return
	}
	a.tel.Event("command", map[string]any{"cmd": cmd, "ok": err == nil})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	a.tel.Flush(ctx)
}

func usageErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// newStore returns a store configured from the user config.
func (a *app) newStore() *canvas.Store {
	c := a.cfg.Canvas
	return canvas.New(
		canvas.WithHistoryDepth(c.HistoryDepth),
		canvas.WithViewport(float64(c.ViewportWidth), float64(c.ViewportHeight)),
	)
}

// open loads path into the shared handle and a fresh store.
func (a *app) open(path string) (*canvas.Store, error) {
	h, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	*a.doc = *h
	s := a.newStore()
	s.LoadConfig(h.Document)
	return s, nil
}

// save writes the store's document back to the open file.
func (a *app) save(s *canvas.Store) error {
	a.doc.Document = s.Export()
	return storage.Save(a.doc)
}

func (a *app) cmdVersion([]string) error {
	fmt.Fprintln(a.out, version.String())
	return nil
}

func (a *app) cmdNew(args []string) error {
	if len(args) != 1 && len(args) != 3 {
		return usageErr("new requires <file> [width height]")
	}
	w, h := float64(a.cfg.Canvas.Width), float64(a.cfg.Canvas.Height)
	if len(args) == 3 {
		var err1, err2 error
		w, err1 = strconv.ParseFloat(args[1], 64)
		h, err2 = strconv.ParseFloat(args[2], 64)
		if err1 != nil || err2 != nil {
			return usageErr("width and height must be numbers")
		}
	}
	s := a.newStore()
	s.SetCanvasDimensions(w, h, false)
	abs, _ := filepath.Abs(args[0])
	doc, err := storage.Create(abs, s.Export())
	if err != nil {
		return err
	}
	*a.doc = *doc
	st := s.State()
	a.log.Info("created document", slog.String("path", abs))
	fmt.Fprintf(a.out, "Created %s (%gx%g)\n", abs, st.CanvasWidth, st.CanvasHeight)
	return nil
}

func (a *app) cmdInfo(args []string) error {
	if len(args) != 1 {
		return usageErr("info requires <file>")
	}
	s, err := a.open(args[0])
	if err != nil {
		return err
	}
	st := s.State()
	fmt.Fprintf(a.out, "Canvas: %gx%g bg=%s fg=%s rounded=%t grid=%t\n",
		st.CanvasWidth, st.CanvasHeight, st.CanvasBgColor, st.CanvasFgColor, st.RoundedCorners, st.ShowGrid)
	fmt.Fprintf(a.out, "Panels: %d\n", len(st.Panels))
	for _, p := range st.Panels {
		fmt.Fprintf(a.out, "  %s %s z=%d at (%g,%g) %gx%g", p.ID, p.Shape, p.ZIndex, p.X, p.Y, p.Width, p.Height)
		if p.Rotation != 0 {
			fmt.Fprintf(a.out, " rot=%g", p.Rotation)
		}
		if p.IsLocked {
			fmt.Fprint(a.out, " locked")
		}
		fmt.Fprintln(a.out)
	}
	return nil
}

func (a *app) cmdValidate(args []string) error {
	if len(args) != 1 {
		return usageErr("validate requires <file>")
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	doc, err := storage.DecodeDocument(b)
	if err != nil {
		return err
	}
	s := a.newStore()
	s.LoadConfig(doc)
	kept := s.State().Panels
	keptIDs := make(map[string]bool, len(kept))
	for _, p := range kept {
		keptIDs[p.ID] = true
	}
	var dropped []string
	for _, p := range doc.Panels {
		if !keptIDs[p.ID] {
			dropped = append(dropped, p.ID)
		}
	}
	fmt.Fprintf(a.out, "Panels: %d kept, %d dropped\n", len(kept), len(doc.Panels)-len(kept))
	for _, id := range dropped {
		if id == "" {
			id = "(no id)"
		}
		fmt.Fprintf(a.out, "  dropped %s\n", id)
	}
	return nil
}

func (a *app) cmdAdd(args []string) error {
	if len(args) != 2 {
		return usageErr("add requires <file> <shape>")
	}
	shape := domain.ShapeKind(strings.ToLower(args[1]))
	if !shape.Valid() {
		names := make([]string, 0, len(domain.ShapeKinds()))
		for _, k := range domain.ShapeKinds() {
			names = append(names, string(k))
		}
		return usageErr("unknown shape %q (one of %s)", args[1], strings.Join(names, ", "))
	}
	s, err := a.open(args[0])
	if err != nil {
		return err
	}
	p := s.AddShape(shape)
	if err := a.save(s); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s %s at (%g,%g)\n", p.Shape, p.ID, p.X, p.Y)
	return nil
}

func (a *app) cmdMove(args []string) error {
	if len(args) != 4 {
		return usageErr("move requires <file> <id> <x> <y>")
	}
	x, err1 := strconv.ParseFloat(args[2], 64)
	y, err2 := strconv.ParseFloat(args[3], 64)
	if err1 != nil || err2 != nil {
		return usageErr("x and y must be numbers")
	}
	s, err := a.open(args[0])
	if err != nil {
		return err
	}
	st := s.State()
	i := st.FindPanel(args[1])
	if i < 0 {
		return fmt.Errorf("move %q: %w", args[1], canvas.ErrPanelNotFound)
	}
	start := st.Panels[i]
	g, err := gesture.BeginDrag(s, start.ID, vector.Pt{X: start.X, Y: start.Y})
	if err != nil {
		return err
	}
	g.Move(vector.Pt{X: x, Y: y})
	guides := len(g.Guides())
	g.End()
	if err := a.save(s); err != nil {
		return err
	}
	p := s.State().Panels[i]
	fmt.Fprintf(a.out, "Moved %s to (%g,%g), %d guide(s)\n", p.ID, p.X, p.Y, guides)
	return nil
}

func (a *app) cmdFront(args []string) error { return a.reorder(args, "front") }
func (a *app) cmdBack(args []string) error  { return a.reorder(args, "back") }

func (a *app) reorder(args []string, dir string) error {
	if len(args) != 2 {
		return usageErr("%s requires <file> <id>", dir)
	}
	s, err := a.open(args[0])
	if err != nil {
		return err
	}
	if s.State().FindPanel(args[1]) < 0 {
		return fmt.Errorf("%s %q: %w", dir, args[1], canvas.ErrPanelNotFound)
	}
	if dir == "front" {
		s.BringForward(args[1])
	} else {
		s.BringBackward(args[1])
	}
	if err := a.save(s); err != nil {
		return err
	}
	st := s.State()
	fmt.Fprintf(a.out, "%s z=%d\n", args[1], st.Panels[st.FindPanel(args[1])].ZIndex)
	return nil
}

func (a *app) cmdCopy(args []string) error {
	if len(args) < 1 {
		return usageErr("copy requires <file> [id...]")
	}
	s, err := a.open(args[0])
	if err != nil {
		return err
	}
	st := s.State()
	panels := st.Panels
	if ids := args[1:]; len(ids) > 0 {
		panels = panels[:0:0]
		for _, id := range ids {
			i := st.FindPanel(id)
			if i < 0 {
				return fmt.Errorf("copy %q: %w", id, canvas.ErrPanelNotFound)
			}
			panels = append(panels, st.Panels[i])
		}
	}
	if err := clipboard.Copy(a.clip(), panels); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Copied %d panel(s)\n", len(panels))
	return nil
}

func (a *app) cmdPaste(args []string) error {
	if len(args) != 1 {
		return usageErr("paste requires <file>")
	}
	panels, err := clipboard.Paste(a.clip())
	if err != nil {
		return err
	}
	s, err := a.open(args[0])
	if err != nil {
		return err
	}
	added := s.PastePanels(panels)
	if err := a.save(s); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Pasted %d panel(s)\n", len(added))
	return nil
}

// gridOverride forces the grid on when the config asks for it and otherwise
// leaves the document's setting alone.
func (a *app) gridOverride() *bool {
	if a.cfg.Export.IncludeGrid {
		return domain.Bool(true)
	}
	return nil
}

func (a *app) cmdExport(args []string) error {
	if len(args) != 2 && len(args) != 3 {
		return usageErr("export requires <file> <out> [png|svg|pdf]")
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(args[1])), ".")
	if len(args) == 3 {
		format = strings.ToLower(args[2])
	}
	s, err := a.open(args[0])
	if err != nil {
		return err
	}
	doc := s.Export()
	out := args[1]
	switch format {
	case "png":
		err = export.ExportPNG(doc, out, export.PNGOptions{Scale: a.cfg.Export.Scale, IncludeGrid: a.gridOverride()})
	case "svg":
		err = export.ExportSVG(doc, out, export.SVGOptions{IncludeGrid: a.gridOverride()})
	case "pdf":
		title := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		err = export.ExportPDF(doc, out, export.PDFOptions{IncludeGrid: a.gridOverride(), Title: title})
	default:
		return usageErr("unknown export format %q", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported %s\n", out)
	return nil
}

func (a *app) cmdBatch(args []string) error {
	if len(args) < 1 || len(args) > 3 {
		return usageErr("batch requires <file> [dir] [web|print]")
	}
	dir := a.cfg.Export.OutDir
	if len(args) >= 2 {
		dir = args[1]
	}
	preset := export.PresetWeb
	if len(args) == 3 {
		preset = export.PresetName(strings.ToLower(args[2]))
		if preset != export.PresetWeb && preset != export.PresetPrint {
			return usageErr("unknown preset %q", args[2])
		}
	}
	s, err := a.open(args[0])
	if err != nil {
		return err
	}
	paths, err := export.BatchExport(s.Export(), export.BatchOptions{
		Preset:      preset,
		OutDir:      filepath.Join(dir, string(preset)),
		BaseName:    strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])),
		Scale:       a.cfg.Export.Scale,
		IncludeGrid: a.gridOverride(),
	})
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(a.out, p)
	}
	return nil
}

// loadStyles reads a style pack from a zip archive or a directory.
func loadStyles(src string) (stylepack.Pack, error) {
	if strings.EqualFold(filepath.Ext(src), ".zip") {
		return stylepack.LoadArchive(src)
	}
	return stylepack.LoadDir(src)
}

func (a *app) cmdStyles(args []string) error {
	if len(args) != 1 {
		return usageErr("styles requires <pack.zip|dir>")
	}
	p, err := loadStyles(args[0])
	if err != nil {
		return err
	}
	for _, n := range p.Names() {
		fmt.Fprintln(a.out, n)
	}
	return nil
}

func (a *app) cmdStyle(args []string) error {
	if len(args) < 3 {
		return usageErr("style requires <file> <pack.zip|dir> <name> [id...]")
	}
	p, err := loadStyles(args[1])
	if err != nil {
		return err
	}
	st, err := p.Find(args[2])
	if err != nil {
		return err
	}
	s, err := a.open(args[0])
	if err != nil {
		return err
	}
	for _, id := range args[3:] {
		if s.State().FindPanel(id) < 0 {
			return fmt.Errorf("style %q: %w", id, canvas.ErrPanelNotFound)
		}
	}
	n := stylepack.Apply(s, st, args[3:])
	if err := a.save(s); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Styled %d panel(s) with %s\n", n, st.Name)
	return nil
}
