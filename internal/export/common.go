/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders canvas documents to PNG, SVG and PDF files.
// Every exporter draws the same scene: background, optional grid, then the
// panels in ascending zIndex (ties keep document order).
package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"panelcanvas/internal/domain"
	"panelcanvas/internal/textlayout"
)

const (
	// canvasCornerRadius is used when the document asks for rounded corners.
	canvasCornerRadius = 16.0
	gridStep           = 20.0
	// shadowDistance is the offset of a panel shadow along its direction.
	shadowDistance = 6.0
	textPadding    = 8.0
)

var defaultFonts = sync.OnceValue(func() textlayout.Provider { return textlayout.NewGoFontProvider() })

// scene normalizes doc and returns its panels in paint order.
func scene(doc domain.Document) (domain.Document, []domain.Panel) {
	doc = doc.WithDefaults()
	panels := domain.ClonePanels(doc.Panels)
	sort.SliceStable(panels, func(i, j int) bool { return panels[i].ZIndex < panels[j].ZIndex })
	return doc, panels
}

func showGrid(doc domain.Document, override *bool) bool {
	if override != nil {
		return *override
	}
	return doc.ShowGrid != nil && *doc.ShowGrid
}

// fillColor returns the solid fill of p, using the first gradient stop when a
// gradient is set.
func fillColor(p domain.Panel) color.RGBA {
	if p.Gradient != nil && len(p.Gradient.Stops) > 0 {
		return domain.ColorOr(p.Gradient.Stops[0].Color, color.RGBA{})
	}
	return domain.ColorOr(p.BackgroundColor, color.RGBA{})
}

// shadowColor darkens the panel fill towards black and makes it translucent.
func shadowColor(p domain.Panel) color.RGBA {
	base := fillColor(p)
	c, ok := colorful.MakeColor(color.RGBA{R: base.R, G: base.G, B: base.B, A: 255})
	if !ok {
		c = colorful.Color{}
	}
	r, g, b := c.BlendRgb(colorful.Color{}, 0.7).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 89}
}

// nrgba reinterprets a parsed color for image/draw. Parsed colors carry
// straight (not premultiplied) alpha.
func nrgba(c color.RGBA) color.NRGBA { return color.NRGBA(c) }

func hasShadow(p domain.Panel) bool {
	dx, dy := p.ShadowDirection.Offset()
	return dx != 0 || dy != 0
}

func hasBorder(p domain.Panel) bool {
	c, ok := domain.ParseColor(p.BorderColor)
	return p.BorderWidth > 0 && ok && c.A > 0
}

// panelText returns the text of p, or "" when it is blank.
func panelText(p domain.Panel) string {
	if strings.TrimSpace(p.Text) == "" {
		return ""
	}
	return p.Text
}

// decodeImageRef loads a background image from a data URL or a file path.
func decodeImageRef(ref string) (image.Image, string, error) {
	data, err := imageBytes(ref)
	if err != nil {
		return nil, "", err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode background image: %w", err)
	}
	return img, format, nil
}

func imageBytes(ref string) ([]byte, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.New("empty image reference")
	}
	if rest, ok := strings.CutPrefix(ref, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found {
			return nil, errors.New("malformed data URL")
		}
		if !strings.HasSuffix(meta, ";base64") {
			return nil, errors.New("data URL is not base64 encoded")
		}
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decode data URL: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("read background image: %w", err)
	}
	return b, nil
}
