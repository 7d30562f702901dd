/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"strings"
	"testing"

	"golang.org/x/image/font/basicfont"

	"panelcanvas/internal/domain"
)

func TestWrapBreaksOnWidth(t *testing.T) {
	face := basicfont.Face7x13 // 7px per glyph
	lines := Wrap(face, "Hello world from Go", 50, 0)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %d", len(lines))
	}
	for _, l := range lines {
		if l.Width > 50 && strings.Contains(l.Text, " ") {
			t.Fatalf("line %q is %v wide, want <= 50", l.Text, l.Width)
		}
	}
	if got := Wrap(face, "Hello world", 0, 0); len(got) != 1 {
		t.Fatalf("maxWidth 0 should not wrap, got %d lines", len(got))
	}
}

func TestWrapKeepsNewlinesAndLongWords(t *testing.T) {
	face := basicfont.Face7x13
	lines := Wrap(face, "a\n\nsupercalifragilistic b", 30, 0)
	if len(lines) != 4 {
		t.Fatalf("lines = %+v, want 4", lines)
	}
	if lines[1].Text != "" || lines[2].Text != "supercalifragilistic" {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestAdvanceTracking(t *testing.T) {
	face := basicfont.Face7x13
	if got, want := Advance(face, "abc", 0), 21.0; got != want {
		t.Fatalf("Advance = %v, want %v", got, want)
	}
	if got, want := Advance(face, "abc", 2), 27.0; got != want {
		t.Fatalf("Advance with tracking = %v, want %v", got, want)
	}
}

func TestBuckets(t *testing.T) {
	if TrackingEm(domain.TrackingWidest) != 0.1 || TrackingEm(domain.TrackingTighter) != -0.05 || TrackingEm("") != 0 {
		t.Fatalf("letter spacing buckets mismatch")
	}
	if LineHeightFactor(domain.LeadingLoose) != 2 || LineHeightFactor(domain.LeadingNone) != 1 || LineHeightFactor("") != 1.5 {
		t.Fatalf("line height buckets mismatch")
	}
}

func TestApplyTransform(t *testing.T) {
	cases := []struct {
		in   string
		tr   domain.TextTransform
		want string
	}{
		{"hello world", domain.TransformUppercase, "HELLO WORLD"},
		{"Hello World", domain.TransformLowercase, "hello world"},
		{"hello wide world", domain.TransformCapitalize, "Hello Wide World"},
		{"keep As is", domain.TransformNone, "keep As is"},
	}
	for _, c := range cases {
		if got := ApplyTransform(c.in, c.tr); got != c.want {
			t.Fatalf("ApplyTransform(%q, %s) = %q, want %q", c.in, c.tr, got, c.want)
		}
	}
}

func TestStyleForDefaults(t *testing.T) {
	st := StyleFor(domain.Panel{})
	if st.Font.SizePx != 16 || st.Align != domain.AlignCenter || st.Color != domain.DefaultFgColor || st.LineHeight != 1.5 {
		t.Fatalf("defaults = %+v", st)
	}
	st = StyleFor(domain.Panel{FontSize: 20, IsBold: true, LetterSpacing: domain.TrackingWide, TextAlign: domain.AlignRight})
	if !st.Font.Bold || st.TrackingEm != 0.025 || st.Align != domain.AlignRight {
		t.Fatalf("style = %+v", st)
	}
}

func TestAlignX(t *testing.T) {
	if AlignX(domain.AlignLeft, 20, 10, 100) != 10 {
		t.Fatalf("left align")
	}
	if AlignX(domain.AlignRight, 20, 10, 100) != 90 {
		t.Fatalf("right align")
	}
	if AlignX(domain.AlignCenter, 20, 10, 100) != 50 {
		t.Fatalf("center align")
	}
}

func TestLayoutBlock(t *testing.T) {
	st := Style{Font: FontSpec{SizePx: 10}, LineHeight: 2, Align: domain.AlignCenter, Transform: domain.TransformUppercase}
	b := Layout(BasicProvider{}, "ab cd", st, 0)
	if len(b.Lines) != 1 || b.Lines[0].Text != "AB CD" {
		t.Fatalf("lines = %+v", b.Lines)
	}
	if b.LineAdvance != 20 || b.Height != 20 {
		t.Fatalf("advance = %v height = %v, want 20/20", b.LineAdvance, b.Height)
	}
	if x := b.LineX(b.Lines[0], 0, 100); x != (100-b.Lines[0].Width)/2 {
		t.Fatalf("LineX = %v", x)
	}
	if y := b.Baseline(0, 0, 20); y <= 0 || y > 20 {
		t.Fatalf("baseline %v outside the box", y)
	}
}

func TestGoFontProvider(t *testing.T) {
	p := NewGoFontProvider()
	face, met := p.Resolve(FontSpec{Family: "Inter, sans-serif", SizePx: 24})
	if face == nil || met.Ascent <= 0 {
		t.Fatalf("expected a Go font face, got %v %+v", face, met)
	}
	again, _ := p.Resolve(FontSpec{Family: "Inter, sans-serif", SizePx: 24})
	if again != face {
		t.Fatalf("faces should be cached per spec")
	}
	mono, _ := p.Resolve(FontSpec{Family: "'Courier New', monospace", SizePx: 24})
	if w1, w2 := Advance(mono, "iii", 0), Advance(mono, "WWW", 0); w1 != w2 {
		t.Fatalf("monospace family should resolve to Go Mono: %v != %v", w1, w2)
	}
	if bold, _ := p.Resolve(FontSpec{Family: FamilySans, SizePx: 24, Bold: true}); Advance(bold, "Hello", 0) == Advance(face, "Hello", 0) {
		t.Fatalf("bold face should measure differently from regular")
	}
}

func TestFontLibraryAddRejectsGarbage(t *testing.T) {
	if err := NewFontLibrary().Add("x", false, false, []byte("nope")); err == nil {
		t.Fatalf("expected parse error")
	}
	if err := NewFontLibrary().LoadTTF("x", false, false, "/nonexistent/font.ttf"); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestIsMonospace(t *testing.T) {
	if !IsMonospace("JetBrains Mono") || !IsMonospace("Courier") || IsMonospace("Georgia") {
		t.Fatalf("IsMonospace mismatch")
	}
}
