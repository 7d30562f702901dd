/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Family names registered by NewGoFontLibrary.
const (
	FamilySans = "Go"
	FamilyMono = "Go Mono"
)

// FontLibrary stores loaded OpenType fonts mapped by family/bold/italic.
type FontLibrary struct {
	mu    sync.RWMutex
	fonts map[fontKey]*opentype.Font
}

type fontKey struct {
	family string
	bold   bool
	italic bool
}

func NewFontLibrary() *FontLibrary { return &FontLibrary{fonts: make(map[fontKey]*opentype.Font)} }

// NewGoFontLibrary returns a library preloaded with the Go font families.
func NewGoFontLibrary() *FontLibrary {
	fl := NewFontLibrary()
	builtin := []struct {
		family       string
		bold, italic bool
		data         []byte
	}{
		{FamilySans, false, false, goregular.TTF},
		{FamilySans, true, false, gobold.TTF},
		{FamilySans, false, true, goitalic.TTF},
		{FamilySans, true, true, gobolditalic.TTF},
		{FamilyMono, false, false, gomono.TTF},
		{FamilyMono, true, false, gomonobold.TTF},
		{FamilyMono, false, true, gomonoitalic.TTF},
		{FamilyMono, true, true, gomonobolditalic.TTF},
	}
	for _, b := range builtin {
		if err := fl.Add(b.family, b.bold, b.italic, b.data); err != nil {
			panic(fmt.Sprintf("textlayout: builtin font %s: %v", b.family, err))
		}
	}
	return fl
}

// Add parses an OpenType/TrueType font and registers it.
func (fl *FontLibrary) Add(family string, bold, italic bool, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", family, err)
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.fonts == nil {
		fl.fonts = make(map[fontKey]*opentype.Font)
	}
	fl.fonts[fontKey{family: strings.ToLower(family), bold: bold, italic: italic}] = f
	return nil
}

// LoadTTF loads a font file into the library under the given family/bold/italic.
func (fl *FontLibrary) LoadTTF(family string, bold, italic bool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	return fl.Add(family, bold, italic, data)
}

func (fl *FontLibrary) find(family string, bold, italic bool) *opentype.Font {
	if fl == nil {
		return nil
	}
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	family = strings.ToLower(family)
	if f, ok := fl.fonts[fontKey{family, bold, italic}]; ok {
		return f
	}
	// same family, drop italic then bold
	for _, k := range []fontKey{{family, bold, false}, {family, false, italic}, {family, false, false}} {
		if f, ok := fl.fonts[k]; ok {
			return f
		}
	}
	return nil
}

// IsMonospace reports whether a CSS-like family list asks for a fixed-width font.
func IsMonospace(family string) bool {
	f := strings.ToLower(family)
	for _, hint := range []string{"mono", "courier", "consol", "code", "menlo"} {
		if strings.Contains(f, hint) {
			return true
		}
	}
	return false
}

// OTProvider resolves FontSpec using a FontLibrary. Unknown families map to
// Go or Go Mono; when nothing matches, Fallback (default BasicProvider) is used.
// Faces are cached per spec.
type OTProvider struct {
	Lib      *FontLibrary
	DPI      float64 // default 72 if zero, so sizes are pixels
	Fallback Provider

	mu    sync.Mutex
	cache map[FontSpec]font.Face
}

// NewGoFontProvider returns a provider backed by the Go fonts.
func NewGoFontProvider() *OTProvider { return &OTProvider{Lib: NewGoFontLibrary()} }

func (p *OTProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	if spec.SizePx <= 0 {
		spec.SizePx = 16
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if face, ok := p.cache[spec]; ok {
		return face, metricsOf(face)
	}
	dpi := p.DPI
	if dpi <= 0 {
		dpi = 72
	}
	f := p.Lib.find(primaryFamily(spec.Family), spec.Bold, spec.Italic)
	if f == nil {
		generic := FamilySans
		if IsMonospace(spec.Family) {
			generic = FamilyMono
		}
		f = p.Lib.find(generic, spec.Bold, spec.Italic)
	}
	if f != nil {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: spec.SizePx, DPI: dpi, Hinting: font.HintingFull})
		if err == nil {
			if p.cache == nil {
				p.cache = make(map[FontSpec]font.Face)
			}
			p.cache[spec] = face
			return face, metricsOf(face)
		}
	}
	fb := p.Fallback
	if fb == nil {
		fb = BasicProvider{}
	}
	return fb.Resolve(spec)
}

// primaryFamily returns the first entry of a CSS family list, unquoted.
func primaryFamily(family string) string {
	first, _, _ := strings.Cut(family, ",")
	return strings.Trim(strings.TrimSpace(first), `"'`)
}
