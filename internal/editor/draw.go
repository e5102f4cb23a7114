/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"log/slog"

	"github.com/google/uuid"

	"cardboard/internal/geometry"
	"cardboard/internal/history"
	"cardboard/internal/layout"
)

// DrawClick feeds one click to the draw tool's two-corner protocol.
// It returns the id of a newly committed card, or "".
//
// With no corner pending, a click on an existing card toggles that card
// as the style-edit target instead of starting a rectangle. A second
// corner sharing an axis with the first replaces the pending corner — the
// deliberate escape hatch for a degenerate click — and a rectangle whose
// corners would land inside an existing card is rejected silently, the
// pending corner retained.
func (e *Editor) DrawClick(x, y float64) string {
	if e.tool != ToolDraw {
		return ""
	}
	raw := geometry.Point{X: x, Y: y}
	snapped := geometry.Snap(raw, e.cfg.GridSpacing)

	if len(e.pending) == 0 {
		if c := e.model.CardAt(raw); c != nil {
			e.toggleStyleTarget(c)
			return ""
		}
		if geometry.ContainsAny(snapped, e.model.Rects()) {
			return ""
		}
		e.pending = []geometry.Point{snapped}
		return ""
	}

	first := e.pending[0]
	if snapped == first {
		return ""
	}
	if snapped.X == first.X || snapped.Y == first.Y {
		// degenerate: shares a row or column; replace instead of completing
		e.pending[0] = snapped
		return ""
	}
	pts := geometry.RectFromCorners(first, snapped)
	for _, corner := range pts {
		if geometry.ContainsAny(corner, e.model.Rects()) {
			return ""
		}
	}

	style := layout.DefaultStyle()
	if e.styleLock {
		style = e.lastStyle
	}
	card := layout.Card{ID: uuid.NewString(), Points: pts, Style: style}
	e.hist.Do(history.CreateCard{Card: card}, e.model)
	e.pending = nil
	e.log.Info("card created", slog.String("id", card.ID), slog.Int("cards", len(e.model.Cards)))
	return card.ID
}

// PendingCorner returns the awaiting first corner, if any.
func (e *Editor) PendingCorner() (geometry.Point, bool) {
	if len(e.pending) == 0 {
		return geometry.Point{}, false
	}
	return e.pending[0], true
}

// CancelDraw clears pending corners without touching history.
func (e *Editor) CancelDraw() { e.pending = nil }

// toggleStyleTarget selects or deselects a card for style editing and
// loads its current style into the live preview buffer. The buffer is
// discarded on reselect or deselect; only ApplyStyle commits.
func (e *Editor) toggleStyleTarget(c *layout.Card) {
	if e.styleTarget == c.ID {
		e.styleTarget = ""
		e.stylePreview = nil
		return
	}
	preview := c.Style
	e.styleTarget = c.ID
	e.stylePreview = &preview
}

// StyleTarget returns the card selected for style editing, or "".
func (e *Editor) StyleTarget() string { return e.styleTarget }

// StylePreview returns the live preview buffer for the style target.
func (e *Editor) StylePreview() *layout.Style { return e.stylePreview }

// PreviewStyle replaces the uncommitted preview buffer.
func (e *Editor) PreviewStyle(s layout.Style) {
	if e.styleTarget == "" {
		return
	}
	e.stylePreview = &s
}

// ApplyStyle commits the preview buffer as a style action and remembers
// it as the last-applied style for the style lock.
func (e *Editor) ApplyStyle() bool {
	if e.styleTarget == "" || e.stylePreview == nil {
		return false
	}
	c := e.model.Card(e.styleTarget)
	if c == nil {
		return false
	}
	next := *e.stylePreview
	if next == c.Style {
		return false
	}
	e.hist.Do(history.RestyleCard{CardID: c.ID, OldStyle: c.Style, NewStyle: next}, e.model)
	e.lastStyle = next
	return true
}
