/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"panelcanvas/internal/domain"
	applog "panelcanvas/internal/log"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls batch export across formats.
//
// Files are written as <OutDir>/<format>/<BaseName>.<format>. An empty OutDir
// defaults to the preset name; an empty BaseName defaults to "canvas".
// Scale applies to PNG output; zero uses the preset's default.
type BatchOptions struct {
	Preset      PresetName
	Formats     []string // allowed: png, svg, pdf; empty means preset defaults
	OutDir      string
	BaseName    string
	Scale       float64
	IncludeGrid *bool // when set, overrides the preset and the document
}

// BatchExport exports doc in every requested format and returns the written
// paths in format order.
func BatchExport(doc domain.Document, opt BatchOptions) ([]string, error) {
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	baseOut := opt.OutDir
	if baseOut == "" {
		baseOut = string(opt.Preset)
	}
	if baseOut == "" {
		return nil, errors.New("output directory is required")
	}
	name := opt.BaseName
	if name == "" {
		name = "canvas"
	}
	scale := opt.Scale
	if scale <= 0 {
		scale = presetScale(opt.Preset)
	}
	grid := opt.IncludeGrid
	if grid == nil {
		grid = presetIncludeGrid(opt.Preset)
	}

	lg := applog.WithOperation(applog.WithComponent("export"), "batch")
	var written []string
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		out := filepath.Join(baseOut, f, name+"."+f)
		var err error
		switch f {
		case "png":
			err = ExportPNG(doc, out, PNGOptions{Scale: scale, IncludeGrid: grid})
		case "svg":
			err = ExportSVG(doc, out, SVGOptions{IncludeGrid: grid})
		case "pdf":
			err = ExportPDF(doc, out, PDFOptions{IncludeGrid: grid, Title: name})
		default:
			return written, fmt.Errorf("unknown format: %s", f)
		}
		if err != nil {
			return written, fmt.Errorf("%s: %w", f, err)
		}
		lg.Debug("exported", "format", f, "path", out)
		written = append(written, out)
	}
	return written, nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"png", "svg"}
	case PresetPrint:
		return []string{"pdf", "png"}
	default:
		return []string{"png"}
	}
}

func presetScale(p PresetName) float64 {
	if p == PresetPrint {
		return 2
	}
	return 1
}

// presetIncludeGrid returns nil when the document's own setting should win.
func presetIncludeGrid(p PresetName) *bool {
	if p == PresetPrint {
		return domain.Bool(false)
	}
	return nil
}
