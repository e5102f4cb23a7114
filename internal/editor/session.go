/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

// Drag and resize sessions. Both leave the model untouched between press
// and release: the session carries raw preview offsets for rendering and
// the commit on release is the only mutation, snapped to the grid. The
// pointer leaving the canvas cancels the session without committing.

import (
	"log/slog"

	"cardboard/internal/geometry"
	"cardboard/internal/history"
)

type dragSession struct {
	cardID         string
	startX, startY float64
	dx, dy         float64
}

type resizeSession struct {
	cardID string
	edge   geometry.Edge
	old    geometry.Points
	next   geometry.Points
}

// BeginMove starts a drag session on the card under the press point.
func (e *Editor) BeginMove(x, y float64) bool {
	if e.tool != ToolMove {
		return false
	}
	c := e.model.CardAt(geometry.Point{X: x, Y: y})
	if c == nil {
		return false
	}
	e.drag = &dragSession{cardID: c.ID, startX: x, startY: y}
	return true
}

// DragTo updates the raw, un-snapped preview offset of the drag session.
func (e *Editor) DragTo(x, y float64) {
	if e.drag == nil {
		return
	}
	e.drag.dx = x - e.drag.startX
	e.drag.dy = y - e.drag.startY
}

// DragPreview returns the card id and raw offset of the live drag, for
// fluid rendering during the session.
func (e *Editor) DragPreview() (cardID string, dx, dy float64, ok bool) {
	if e.drag == nil {
		return "", 0, 0, false
	}
	return e.drag.cardID, e.drag.dx, e.drag.dy, true
}

// EndMove commits the drag: the offset snaps to the nearest grid multiple
// and a move action is recorded. A zero snapped offset records nothing.
func (e *Editor) EndMove() bool {
	s := e.drag
	e.drag = nil
	if s == nil {
		return false
	}
	dx := geometry.SnapOffset(s.dx, e.cfg.GridSpacing)
	dy := geometry.SnapOffset(s.dy, e.cfg.GridSpacing)
	if dx == 0 && dy == 0 {
		return false
	}
	e.hist.Do(history.MoveCard{CardID: s.cardID, DX: dx, DY: dy}, e.model)
	e.log.Debug("card moved", slog.String("id", s.cardID), slog.Float64("dx", dx), slog.Float64("dy", dy))
	return true
}

// CancelMove discards the drag session, e.g. when the pointer leaves the
// canvas mid-drag.
func (e *Editor) CancelMove() { e.drag = nil }

// HoverEdge reports which edge of which card the pointer is near, for the
// resize tool's highlight affordance.
func (e *Editor) HoverEdge(x, y float64) (cardID string, edge geometry.Edge) {
	if e.tool != ToolResize {
		return "", geometry.EdgeNone
	}
	p := geometry.Point{X: x, Y: y}
	for i := len(e.model.Cards) - 1; i >= 0; i-- {
		c := &e.model.Cards[i]
		if g := geometry.DetectEdge(p, c.Points, e.cfg.EdgeThreshold); g != geometry.EdgeNone {
			return c.ID, g
		}
	}
	return "", geometry.EdgeNone
}

// BeginResize starts a resize session on the edge under the press point.
func (e *Editor) BeginResize(x, y float64) bool {
	id, edge := e.HoverEdge(x, y)
	if edge == geometry.EdgeNone {
		return false
	}
	c := e.model.Card(id)
	e.resize = &resizeSession{cardID: id, edge: edge, old: c.Points, next: c.Points}
	return true
}

// ResizeTo previews the adjusted bound. Top/bottom edges track Y,
// left/right track X; the moving bound is floored one grid unit from the
// opposite bound so the card can neither invert nor vanish.
func (e *Editor) ResizeTo(x, y float64) {
	s := e.resize
	if s == nil {
		return
	}
	s.next = adjustEdge(s.old, s.edge, x, y, e.cfg.GridSpacing)
}

// ResizePreview returns the in-progress corner set for rendering.
func (e *Editor) ResizePreview() (geometry.Points, bool) {
	if e.resize == nil {
		return geometry.Points{}, false
	}
	return e.resize.next, true
}

// EndResize commits the session: the adjusted bound snaps to the grid
// lattice, the floor is re-applied, and a resize action is recorded when
// the points actually changed.
func (e *Editor) EndResize() bool {
	s := e.resize
	e.resize = nil
	if s == nil {
		return false
	}
	next := snapEdge(s.next, s.edge, e.cfg.GridSpacing)
	if next == s.old {
		return false
	}
	e.hist.Do(history.ResizeCard{CardID: s.cardID, Edge: s.edge, OldPoints: s.old, NewPoints: next}, e.model)
	e.log.Debug("card resized", slog.String("id", s.cardID), slog.String("edge", s.edge.String()))
	return true
}

// CancelResize discards the resize session without committing.
func (e *Editor) CancelResize() { e.resize = nil }

// adjustEdge moves one bound of the rectangle toward the pointer,
// clamped one grid unit short of the opposite bound.
func adjustEdge(pts geometry.Points, edge geometry.Edge, x, y, spacing float64) geometry.Points {
	b := geometry.BoundsOf(pts)
	switch edge {
	case geometry.EdgeTop:
		b.MinY = clampMax(y, b.MaxY-spacing)
	case geometry.EdgeBottom:
		b.MaxY = clampMin(y, b.MinY+spacing)
	case geometry.EdgeLeft:
		b.MinX = clampMax(x, b.MaxX-spacing)
	case geometry.EdgeRight:
		b.MaxX = clampMin(x, b.MinX+spacing)
	}
	return geometry.FromBounds(b)
}

// snapEdge snaps the moving bound to the grid lattice, keeping the floor.
func snapEdge(pts geometry.Points, edge geometry.Edge, spacing float64) geometry.Points {
	b := geometry.BoundsOf(pts)
	switch edge {
	case geometry.EdgeTop:
		b.MinY = clampMax(geometry.SnapValue(b.MinY, spacing), b.MaxY-spacing)
	case geometry.EdgeBottom:
		b.MaxY = clampMin(geometry.SnapValue(b.MaxY, spacing), b.MinY+spacing)
	case geometry.EdgeLeft:
		b.MinX = clampMax(geometry.SnapValue(b.MinX, spacing), b.MaxX-spacing)
	case geometry.EdgeRight:
		b.MaxX = clampMin(geometry.SnapValue(b.MaxX, spacing), b.MinX+spacing)
	}
	return geometry.FromBounds(b)
}

func clampMin(v, floor float64) float64 {
	if v < floor {
		return floor
	}
	return v
}

func clampMax(v, ceil float64) float64 {
	if v > ceil {
		return ceil
	}
	return v
}
