/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package gesture turns pointer drags into canvas updates. A session applies
// every intermediate frame without history and records a single undo
// checkpoint when it ends.
package gesture

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"panelcanvas/internal/canvas"
	"panelcanvas/internal/domain"
	applog "panelcanvas/internal/log"
	"panelcanvas/internal/vector"
)

// ErrPanelLocked is returned when a gesture starts on a locked panel.
var ErrPanelLocked = errors.New("panel is locked")

// Handle names a resize grip by compass direction.
type Handle string

const (
	HandleN  Handle = "n"
	HandleNE Handle = "ne"
	HandleE  Handle = "e"
	HandleSE Handle = "se"
	HandleS  Handle = "s"
	HandleSW Handle = "sw"
	HandleW  Handle = "w"
	HandleNW Handle = "nw"
)

// edges reports which sides of the rect a handle moves.
func (h Handle) edges() (left, right, top, bottom bool, err error) {
	switch h {
	case HandleN:
		return false, false, true, false, nil
	case HandleNE:
		return false, true, true, false, nil
	case HandleE:
		return false, true, false, false, nil
	case HandleSE:
		return false, true, false, true, nil
	case HandleS:
		return false, false, false, true, nil
	case HandleSW:
		return true, false, false, true, nil
	case HandleW:
		return true, false, false, false, nil
	case HandleNW:
		return true, false, true, false, nil
	}
	return false, false, false, false, fmt.Errorf("unknown resize handle %q", string(h))
}

type kind int

const (
	kindDrag kind = iota
	kindResize
	kindRotate
)

func (k kind) String() string {
	switch k {
	case kindDrag:
		return "drag"
	case kindResize:
		return "resize"
	default:
		return "rotate"
	}
}

// rotateSnapStep and rotateSnapThreshold control angle snapping in degrees.
const (
	rotateSnapStep      = 15.0
	rotateSnapThreshold = 3.0
)

// Option configures a session.
type Option func(*Session)

// WithSnap sets the smart guide options used while dragging.
func WithSnap(opts vector.SnapOptions) Option {
	return func(g *Session) { g.snap = opts; g.snapping = true }
}

// WithoutSnap disables smart guides and angle snapping.
func WithoutSnap() Option {
	return func(g *Session) { g.snapping = false }
}

// Session is one pointer gesture on a single panel. It is not safe for
// concurrent use; the store it drives is.
type Session struct {
	store    *canvas.Store
	kind     kind
	handle   Handle
	id       string
	before   domain.CanvasState
	start    domain.Panel
	origin   vector.Pt
	snap     vector.SnapOptions
	snapping bool
	guides   []vector.GuideLine
	done     bool
	log      *slog.Logger
}

func begin(s *canvas.Store, k kind, id string, at vector.Pt, opts []Option) (*Session, error) {
	st := s.State()
	i := st.FindPanel(id)
	if i < 0 {
		return nil, fmt.Errorf("%s %q: %w", k, id, canvas.ErrPanelNotFound)
	}
	p := st.Panels[i]
	if p.IsLocked {
		return nil, fmt.Errorf("%s %q: %w", k, id, ErrPanelLocked)
	}
	g := &Session{
		store:    s,
		kind:     k,
		id:       id,
		before:   st,
		start:    p,
		origin:   at,
		snap:     vector.DefaultSnapOptions,
		snapping: true,
		log:      applog.WithOperation(applog.WithComponent("gesture"), k.String()),
	}
	for _, o := range opts {
		o(g)
	}
	g.log.Debug("begin", "id", id, "x", at.X, "y", at.Y)
	return g, nil
}

// BeginDrag starts moving panel id from pointer position at.
func BeginDrag(s *canvas.Store, id string, at vector.Pt, opts ...Option) (*Session, error) {
	return begin(s, kindDrag, id, at, opts)
}

// BeginResize starts resizing panel id by handle h.
func BeginResize(s *canvas.Store, id string, h Handle, at vector.Pt, opts ...Option) (*Session, error) {
	if _, _, _, _, err := h.edges(); err != nil {
		return nil, err
	}
	g, err := begin(s, kindResize, id, at, opts)
	if err != nil {
		return nil, err
	}
	g.handle = h
	return g, nil
}

// BeginRotate starts rotating panel id around its center.
func BeginRotate(s *canvas.Store, id string, at vector.Pt, opts ...Option) (*Session, error) {
	return begin(s, kindRotate, id, at, opts)
}

// PanelID returns the id of the panel being manipulated.
func (g *Session) PanelID() string { return g.id }

// Guides returns the smart guides of the last drag frame.
func (g *Session) Guides() []vector.GuideLine { return g.guides }

// Move applies the frame for pointer position at. Calls after End or Cancel
// are ignored.
func (g *Session) Move(at vector.Pt) {
	if g.done {
		return
	}
	if !finite(at.X, at.Y) {
		return
	}
	switch g.kind {
	case kindDrag:
		g.drag(at)
	case kindResize:
		g.resize(at)
	case kindRotate:
		g.rotate(at)
	}
}

// End finishes the gesture and records one undo checkpoint if the panel
// changed. It reports whether a checkpoint was recorded.
func (g *Session) End() bool {
	if g.done {
		return false
	}
	g.done = true
	g.guides = nil
	saved := g.store.CommitCheckpoint(g.before)
	g.log.Debug("end", "id", g.id, "checkpoint", saved)
	return saved
}

// Cancel restores the starting geometry without touching history.
func (g *Session) Cancel() {
	if g.done {
		return
	}
	g.done = true
	g.guides = nil
	p := g.start
	g.store.UpdatePanel(g.id, domain.PanelUpdate{
		X: &p.X, Y: &p.Y, Width: &p.Width, Height: &p.Height, Rotation: &p.Rotation,
	}, false)
	g.log.Debug("cancel", "id", g.id)
}

func (g *Session) drag(at vector.Pt) {
	r := vector.PanelRect(g.start).Translate(at.X-g.origin.X, at.Y-g.origin.Y)
	g.guides = nil
	if g.snapping {
		r, g.guides = vector.ComputeSmartGuides(r, g.anchors(), g.snap)
	}
	g.store.UpdatePanelPosition(g.id, r.X, r.Y, false)
}

// anchors lists the other panels and the canvas as snap targets. The canvas
// is weighted so its edges win ties.
func (g *Session) anchors() []vector.Anchor {
	st := g.store.State()
	out := make([]vector.Anchor, 0, len(st.Panels)+1)
	out = append(out, vector.Anchor{Rect: vector.R(0, 0, st.CanvasWidth, st.CanvasHeight), Weight: 2})
	for _, p := range st.Panels {
		if p.ID == g.id {
			continue
		}
		out = append(out, vector.Anchor{Rect: vector.PanelRect(p), Weight: 1})
	}
	return out
}

// resize moves the sides selected by the handle in the panel's own frame, so
// the opposite side stays put even when the panel is rotated.
func (g *Session) resize(at vector.Pt) {
	left, right, top, bottom, _ := g.handle.edges()
	rad := vector.Radians(g.start.Rotation)
	// pointer delta in the panel's unrotated frame
	local := vector.Rotate(-rad).Apply(vector.Pt{X: at.X - g.origin.X, Y: at.Y - g.origin.Y})

	w, h := g.start.Width, g.start.Height
	// sides relative to the start center
	l, r, t, b := -w/2, w/2, -h/2, h/2
	if left {
		l = min(l+local.X, r-domain.MinPanelSize)
	}
	if right {
		r = max(r+local.X, l+domain.MinPanelSize)
	}
	if top {
		t = min(t+local.Y, b-domain.MinPanelSize)
	}
	if bottom {
		b = max(b+local.Y, t+domain.MinPanelSize)
	}
	nw, nh := r-l, b-t
	shift := vector.Rotate(rad).Apply(vector.Pt{X: (l + r) / 2, Y: (t + b) / 2})
	cx, cy := g.start.Center()
	x, y := cx+shift.X-nw/2, cy+shift.Y-nh/2
	g.store.UpdatePanel(g.id, domain.PanelUpdate{X: &x, Y: &y, Width: &nw, Height: &nh}, false)
}

func (g *Session) rotate(at vector.Pt) {
	cx, cy := g.start.Center()
	a0 := math.Atan2(g.origin.Y-cy, g.origin.X-cx)
	a1 := math.Atan2(at.Y-cy, at.X-cx)
	deg := normalizeDegrees(g.start.Rotation + (a1-a0)*180/math.Pi)
	if g.snapping {
		deg = snapAngle(deg)
	}
	g.store.UpdatePanel(g.id, domain.PanelUpdate{Rotation: &deg}, false)
}

// normalizeDegrees maps d into [0, 360).
func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return vector.FloatRound(d, 3)
}

func snapAngle(d float64) float64 {
	nearest := math.Round(d/rotateSnapStep) * rotateSnapStep
	if math.Abs(d-nearest) <= rotateSnapThreshold {
		return math.Mod(nearest, 360)
	}
	return d
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
