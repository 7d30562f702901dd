/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"panelcanvas/internal/config"
	"panelcanvas/internal/crash"
	applog "panelcanvas/internal/log"
	"panelcanvas/internal/storage"
	"panelcanvas/internal/telemetry"
	"panelcanvas/internal/version"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "panelcanvas: panel canvas editor toolkit")
	fmt.Fprintf(w, "Version: %s\n", version.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  panelcanvas version|-v|--version              Show version")
	fmt.Fprintln(w, "  panelcanvas new <file> [width height]         Create an empty canvas document")
	fmt.Fprintln(w, "  panelcanvas info <file>                       Print canvas and panel summary")
	fmt.Fprintln(w, "  panelcanvas validate <file>                   Report panels the canvas would drop")
	fmt.Fprintln(w, "  panelcanvas add <file> <shape>                Add a default panel of <shape>")
	fmt.Fprintln(w, "  panelcanvas move <file> <id> <x> <y>          Drag a panel to x,y with smart guides")
	fmt.Fprintln(w, "  panelcanvas front|back <file> <id>            Bring a panel forward or backward")
	fmt.Fprintln(w, "  panelcanvas copy <file> [id...]               Copy panels to the system clipboard")
	fmt.Fprintln(w, "  panelcanvas paste <file>                      Paste panels from the system clipboard")
	fmt.Fprintln(w, "  panelcanvas export <file> <out> [png|svg|pdf] Export the canvas")
	fmt.Fprintln(w, "  panelcanvas batch <file> [dir] [web|print]    Export with a preset")
	fmt.Fprintln(w, "  panelcanvas styles <pack.zip|dir>             List the styles in a pack")
	fmt.Fprintln(w, "  panelcanvas style <file> <pack> <name> [id...] Apply a style to panels")
}

func main() {
	cfg, cfgErr := config.Load()
	applog.Init(cfg.Logging.Options())
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("configuration", slog.Any("err", cfgErr))
	}

	// filled in by commands once a document is open
	h := &storage.DocumentHandle{}
	defer crash.Recover(h)

	tel := telemetry.Default()
	defer tel.Close()

	os.Exit(run(&app{cfg: cfg, doc: h, out: os.Stdout, log: l, tel: tel}, os.Args[1:]))
}
