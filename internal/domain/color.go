/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]color.RGBA{
	"black":   {0, 0, 0, 255},
	"white":   {255, 255, 255, 255},
	"red":     {255, 0, 0, 255},
	"green":   {0, 128, 0, 255},
	"blue":    {0, 0, 255, 255},
	"yellow":  {255, 255, 0, 255},
	"orange":  {255, 165, 0, 255},
	"purple":  {128, 0, 128, 255},
	"gray":    {128, 128, 128, 255},
	"grey":    {128, 128, 128, 255},
	"pink":    {255, 192, 203, 255},
	"cyan":    {0, 255, 255, 255},
	"magenta": {255, 0, 255, 255},
}

// ParseColor understands the color notations the editor stores:
// #rgb, #rrggbb, #rrggbbaa, rgb(r,g,b), rgba(r,g,b,a), "transparent" and a few names.
// The second return value is false if s is not recognized.
func ParseColor(s string) (color.RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return color.RGBA{}, false
	}
	if s == "transparent" {
		return color.RGBA{}, true
	}
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if strings.HasPrefix(s, "#") {
		if len(s) == 9 {
			base, err := colorful.Hex(s[:7])
			if err != nil {
				return color.RGBA{}, false
			}
			a, err := strconv.ParseUint(s[7:], 16, 8)
			if err != nil {
				return color.RGBA{}, false
			}
			r, g, b := base.RGB255()
			return color.RGBA{R: r, G: g, B: b, A: uint8(a)}, true
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return color.RGBA{}, false
		}
		r, g, b := c.RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 255}, true
	}
	if strings.HasPrefix(s, "rgb") {
		open := strings.IndexByte(s, '(')
		end := strings.LastIndexByte(s, ')')
		if open < 0 || end < open {
			return color.RGBA{}, false
		}
		parts := strings.Split(s[open+1:end], ",")
		if len(parts) != 3 && len(parts) != 4 {
			return color.RGBA{}, false
		}
		var ch [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
			if err != nil {
				return color.RGBA{}, false
			}
			ch[i] = clampByte(v)
		}
		a := uint8(255)
		if len(parts) == 4 {
			v, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
			if err != nil {
				return color.RGBA{}, false
			}
			a = clampByte(v * 255)
		}
		return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: a}, true
	}
	return color.RGBA{}, false
}

// ColorOr parses s and falls back to def when s is not a recognized color.
func ColorOr(s string, def color.RGBA) color.RGBA {
	if c, ok := ParseColor(s); ok {
		return c
	}
	return def
}

// HexColor formats c as #rrggbb, ignoring alpha.
func HexColor(c color.RGBA) string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
