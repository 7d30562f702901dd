/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package stylepack reads named panel styles from YAML files and moves them
// between machines as zip archives.
package stylepack

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"panelcanvas/internal/domain"
)

// ErrStyleNotFound is returned by Pack.Find for unknown names.
var ErrStyleNotFound = errors.New("style not found")

// Style is a reusable set of panel appearance fields. Absent fields leave the
// panel untouched when the style is applied.
//
//	name: Night
//	fill: "#111827"
//	border: {color: "#f9fafb", width: 3, radius: 12}
//	shadow: bottom-right
//	text: {font: Go Mono, size: 18, color: "#ffffff", bold: true}
type Style struct {
	Name     string    `yaml:"name"`
	Fill     *string   `yaml:"fill,omitempty"`
	Gradient *Gradient `yaml:"gradient,omitempty"`
	Border   *Border   `yaml:"border,omitempty"`
	Shadow   *string   `yaml:"shadow,omitempty"`
	Text     *Text     `yaml:"text,omitempty"`
}

type Gradient struct {
	Type  string  `yaml:"type"`
	Angle float64 `yaml:"angle,omitempty"`
	Stops []Stop  `yaml:"stops"`
}

type Stop struct {
	Color  string  `yaml:"color"`
	Offset float64 `yaml:"offset"`
}

type Border struct {
	Color  *string  `yaml:"color,omitempty"`
	Width  *float64 `yaml:"width,omitempty"`
	Radius *float64 `yaml:"radius,omitempty"`
}

type Text struct {
	Font          *string  `yaml:"font,omitempty"`
	Size          *float64 `yaml:"size,omitempty"`
	Color         *string  `yaml:"color,omitempty"`
	Bold          *bool    `yaml:"bold,omitempty"`
	Italic        *bool    `yaml:"italic,omitempty"`
	Underline     *bool    `yaml:"underline,omitempty"`
	Strike        *bool    `yaml:"strike,omitempty"`
	Align         *string  `yaml:"align,omitempty"`
	LetterSpacing *string  `yaml:"letter_spacing,omitempty"`
	LineHeight    *string  `yaml:"line_height,omitempty"`
	Transform     *string  `yaml:"transform,omitempty"`
}

// Parse decodes one style document.
func Parse(data []byte) (Style, error) {
	var st Style
	if err := yaml.Unmarshal(data, &st); err != nil {
		return Style{}, fmt.Errorf("parse style: %w", err)
	}
	st.Name = strings.TrimSpace(st.Name)
	if st.Name == "" {
		return Style{}, errors.New("parse style: name is required")
	}
	if err := st.validate(); err != nil {
		return Style{}, fmt.Errorf("style %q: %w", st.Name, err)
	}
	return st, nil
}

func (s Style) validate() error {
	colors := []*string{s.Fill}
	if s.Border != nil {
		colors = append(colors, s.Border.Color)
	}
	if s.Text != nil {
		colors = append(colors, s.Text.Color)
	}
	for _, c := range colors {
		if c == nil {
			continue
		}
		if _, ok := domain.ParseColor(*c); !ok {
			return fmt.Errorf("invalid color %q", *c)
		}
	}
	if g := s.Gradient; g != nil {
		if t := domain.GradientType(g.Type); t != domain.GradientLinear && t != domain.GradientRadial {
			return fmt.Errorf("invalid gradient type %q", g.Type)
		}
		if len(g.Stops) == 0 {
			return errors.New("gradient needs at least one stop")
		}
		for _, st := range g.Stops {
			if _, ok := domain.ParseColor(st.Color); !ok {
				return fmt.Errorf("invalid gradient color %q", st.Color)
			}
		}
	}
	if s.Shadow != nil {
		d := domain.ShadowDirection(*s.Shadow)
		if dx, dy := d.Offset(); dx == 0 && dy == 0 && d != domain.ShadowNone {
			return fmt.Errorf("invalid shadow %q", *s.Shadow)
		}
	}
	return nil
}

// Update converts the style into a partial panel update.
func (s Style) Update() domain.PanelUpdate {
	var u domain.PanelUpdate
	u.BackgroundColor = s.Fill
	if g := s.Gradient; g != nil {
		dg := &domain.Gradient{Type: domain.GradientType(g.Type), Angle: g.Angle}
		for _, st := range g.Stops {
			dg.Stops = append(dg.Stops, domain.GradientStop{Color: st.Color, Offset: st.Offset})
		}
		u.Gradient = dg
	} else if s.Fill != nil {
		u.ClearGradient = true
	}
	if b := s.Border; b != nil {
		u.BorderColor, u.BorderWidth, u.BorderRadius = b.Color, b.Width, b.Radius
	}
	if s.Shadow != nil {
		d := domain.ShadowDirection(*s.Shadow)
		u.ShadowDirection = &d
	}
	if t := s.Text; t != nil {
		u.FontFamily, u.FontSize, u.FontColor = t.Font, t.Size, t.Color
		u.IsBold, u.IsItalic, u.IsUnderline, u.IsStrikethrough = t.Bold, t.Italic, t.Underline, t.Strike
		if t.Align != nil {
			v := domain.TextAlign(*t.Align)
			u.TextAlign = &v
		}
		if t.LetterSpacing != nil {
			v := domain.LetterSpacing(*t.LetterSpacing)
			u.LetterSpacing = &v
		}
		if t.LineHeight != nil {
			v := domain.LineHeight(*t.LineHeight)
			u.LineHeight = &v
		}
		if t.Transform != nil {
			v := domain.TextTransform(*t.Transform)
			u.TextTransform = &v
		}
	}
	return u
}

// Pack is a set of styles keyed by name. Later definitions replace earlier
// ones with the same name.
type Pack struct {
	styles map[string]Style
	order  []string
}

func (p *Pack) add(s Style) {
	if p.styles == nil {
		p.styles = make(map[string]Style)
	}
	if _, dup := p.styles[s.Name]; !dup {
		p.order = append(p.order, s.Name)
	}
	p.styles[s.Name] = s
}

// Names lists the styles in the order they were first seen.
func (p Pack) Names() []string { return append([]string(nil), p.order...) }

// Find returns the style called name.
func (p Pack) Find(name string) (Style, error) {
	s, ok := p.styles[name]
	if !ok {
		return Style{}, fmt.Errorf("%q: %w", name, ErrStyleNotFound)
	}
	return s, nil
}
