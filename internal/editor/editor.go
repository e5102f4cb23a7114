/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor is the single-owner controller of the card layout model.
// All mutation happens synchronously in response to discrete input events
// (click, press, move, release, key) routed through the active tool; the
// model is only ever changed through history actions, never in place,
// except for ephemeral preview state that lives between a press and its
// matching release.
package editor

import (
	"log/slog"

	"cardboard/internal/geometry"
	"cardboard/internal/history"
	"cardboard/internal/layout"
	applog "cardboard/internal/log"
)

// Tool identifies the exclusive editor tools. Exactly one is active at a
// time; the inspect overlay is an orthogonal flag, not a Tool.
type Tool uint8

const (
	ToolNone Tool = iota
	ToolDraw
	ToolErase
	ToolMove
	ToolSelect
	ToolResize
	ToolInspect
	ToolConveyor
	ToolProperties
)

func (t Tool) String() string {
	switch t {
	case ToolDraw:
		return "draw"
	case ToolErase:
		return "erase"
	case ToolMove:
		return "move"
	case ToolSelect:
		return "select"
	case ToolResize:
		return "resize"
	case ToolInspect:
		return "inspect"
	case ToolConveyor:
		return "conveyor"
	case ToolProperties:
		return "properties"
	}
	return "none"
}

// Config carries the editor tunables, typically from the user config.
type Config struct {
	GridSpacing   float64
	EdgeThreshold float64
	StyleLock     bool
}

// Editor owns the layout model, the history log, and the three orthogonal
// state slots of the tool machine: the exclusive tool, the inspect
// overlay flag, and the isolated card id.
type Editor struct {
	model *layout.Model
	hist  *history.Log
	cfg   Config
	log   *slog.Logger

	tool     Tool
	overlay  bool
	isolated string

	pane Pane

	// draw tool state
	pending      []geometry.Point
	styleTarget  string
	stylePreview *layout.Style
	styleLock    bool
	lastStyle    layout.Style

	// ephemeral sessions, nil unless a pointer is down
	drag   *dragSession
	resize *resizeSession

	selectedCard    string
	selectedElement string
}

// New builds an editor over an empty model.
func New(cfg Config) *Editor {
	if cfg.GridSpacing <= 0 {
		cfg.GridSpacing = 40
	}
	if cfg.EdgeThreshold <= 0 {
		cfg.EdgeThreshold = 6
	}
	return &Editor{
		model:     layout.NewModel(),
		hist:      history.NewLog(),
		cfg:       cfg,
		log:       applog.WithComponent("editor"),
		styleLock: cfg.StyleLock,
		lastStyle: layout.DefaultStyle(),
	}
}

// Model exposes the live model for rendering and persistence snapshots.
func (e *Editor) Model() *layout.Model { return e.model }

// History exposes the action log, for diagnostics.
func (e *Editor) History() *history.Log { return e.hist }

// Tool returns the active exclusive tool.
func (e *Editor) Tool() Tool { return e.tool }

// OverlayActive reports the inspect overlay flag.
func (e *Editor) OverlayActive() bool { return e.overlay }

// IsolatedCard returns the id of the isolated card, or "".
func (e *Editor) IsolatedCard() string { return e.isolated }

// PaneOwner returns the current settings-pane owner.
func (e *Editor) PaneOwner() Owner { return e.pane.owner }

// PaneStacked reports whether Move's panel is stacked atop the owner's.
func (e *Editor) PaneStacked() bool { return e.pane.stacked }

// Activate switches the exclusive tool. Activating the already-active
// tool deactivates it. Any in-progress draw, drag or selection state is
// cleared on every switch. Move has two special shapes: a plain toggle
// that claims the settings pane outside isolation, and a three-state
// cycle inside isolation that can stack its panel on top of the current
// owner's (content tools and move/alignment controls are routinely needed
// at the same time there).
func (e *Editor) Activate(tool Tool) {
	if tool == ToolMove {
		e.activateMove()
		return
	}
	e.clearTransient()
	if e.tool == tool {
		e.deactivate(tool)
		return
	}
	// Switching tools never clears ownership by itself: tools without
	// settings leave the previous owner's panel in place. Only an explicit
	// toggle-off of the owning tool releases the pane.
	e.tool = tool
	if o, ok := paneOwnerFor(tool); ok {
		e.pane.claim(o)
	}
	e.log.Debug("tool activated", slog.String("tool", tool.String()))
}

func (e *Editor) deactivate(tool Tool) {
	e.tool = ToolNone
	if o, ok := paneOwnerFor(tool); ok && e.pane.owner == o {
		e.pane.release()
	}
	e.log.Debug("tool deactivated", slog.String("tool", tool.String()))
}

func (e *Editor) activateMove() {
	e.clearTransient()
	if e.isolated == "" {
		// plain toggle; claims the pane while active
		if e.tool == ToolMove {
			e.deactivate(ToolMove)
			return
		}
		e.tool = ToolMove
		e.pane.claim(OwnerMove)
		e.log.Debug("tool activated", slog.String("tool", "move"))
		return
	}
	// isolation: inactive -> active (pane untouched) -> active+stacked ->
	// inactive (only the stacked portion is removed)
	switch {
	case e.tool != ToolMove:
		e.tool = ToolMove
	case !e.pane.stacked:
		e.pane.stack()
	default:
		e.tool = ToolNone
		e.pane.unstack()
	}
	e.log.Debug("move cycled", slog.Bool("active", e.tool == ToolMove), slog.Bool("stacked", e.pane.stacked))
}

// ToggleOverlay flips the inspect overlay. The overlay coexists with any
// exclusive tool but is unavailable while a card is isolated.
func (e *Editor) ToggleOverlay() {
	if e.isolated != "" {
		return
	}
	e.overlay = !e.overlay
}

// Isolate focuses one card for content editing. The active tool keeps
// operating, now on the card's internal elements; the inspect overlay is
// forced off.
func (e *Editor) Isolate(cardID string) bool {
	if e.model.Card(cardID) == nil {
		return false
	}
	e.clearTransient()
	e.isolated = cardID
	e.overlay = false
	return true
}

// ExitIsolation leaves content editing: the isolated-card selection and
// any element selection are cleared and stacked pane state collapses.
func (e *Editor) ExitIsolation() {
	if e.isolated == "" {
		return
	}
	e.clearTransient()
	e.isolated = ""
	e.selectedElement = ""
	e.pane.unstack()
}

// OpenSavePanel claims the settings pane for the save/manage panel.
func (e *Editor) OpenSavePanel() { e.pane.claim(OwnerSave) }

// Escape cancels whatever is pending: an awaiting second corner, a drag
// or resize session, or, with nothing else in flight, isolation itself.
// Committed history is never rolled back by cancellation.
func (e *Editor) Escape() {
	switch {
	case len(e.pending) > 0:
		e.pending = nil
	case e.drag != nil:
		e.drag = nil
	case e.resize != nil:
		e.resize = nil
	case e.isolated != "":
		e.ExitIsolation()
	}
}

// Undo reverts the newest committed action (or restores a delete-all
// backup); transient state is discarded first.
func (e *Editor) Undo() bool {
	e.clearTransient()
	return e.hist.Undo(e.model)
}

// Redo reapplies the next action if one exists.
func (e *Editor) Redo() bool {
	e.clearTransient()
	return e.hist.Redo(e.model)
}

// SelectAt picks the topmost card under the point with the select tool.
func (e *Editor) SelectAt(x, y float64) *layout.Card {
	if e.tool != ToolSelect {
		return nil
	}
	c := e.model.CardAt(geometry.Point{X: x, Y: y})
	if c != nil {
		e.selectedCard = c.ID
	} else {
		e.selectedCard = ""
	}
	return c
}

// SelectedCard returns the id selected by the select tool, or "".
func (e *Editor) SelectedCard() string { return e.selectedCard }

// InspectAt returns the card under the point for the inspect tool or the
// overlay; nil otherwise.
func (e *Editor) InspectAt(x, y float64) *layout.Card {
	if e.tool != ToolInspect && !e.overlay {
		return nil
	}
	return e.model.CardAt(geometry.Point{X: x, Y: y})
}

// UpdateSettings replaces the page scroll/alignment settings. Settings
// are not part of the action history.
func (e *Editor) UpdateSettings(s layout.Settings) {
	e.model.Settings = s
}

// SetStyleLock controls whether new cards copy the last-applied style.
func (e *Editor) SetStyleLock(on bool) { e.styleLock = on }

// clearTransient drops every in-progress, uncommitted interaction.
func (e *Editor) clearTransient() {
	e.pending = nil
	e.drag = nil
	e.resize = nil
	e.selectedCard = ""
	e.styleTarget = ""
	e.stylePreview = nil
}

func paneOwnerFor(t Tool) (Owner, bool) {
	switch t {
	case ToolDraw:
		return OwnerPencil, true
	case ToolProperties:
		return OwnerProperties, true
	case ToolConveyor:
		return OwnerConveyor, true
	}
	return OwnerNone, false
}
