/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

// Element operations on the isolated card's internal text boxes and image
// slots. Structural changes (create, move, resize, delete) go through the
// history log; assigning or clearing an image on an existing slot and
// editing text content or formatting are direct mutations outside the log.

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"cardboard/internal/history"
	"cardboard/internal/layout"
)

// ErrNotIsolated is returned by element operations invoked outside
// isolation mode.
var ErrNotIsolated = errors.New("editor: no card is isolated")

// ErrNoSuchElement is returned when an element id does not exist on the
// isolated card.
var ErrNoSuchElement = errors.New("editor: no such element")

func (e *Editor) isolatedCard() (*layout.Card, error) {
	if e.isolated == "" {
		return nil, ErrNotIsolated
	}
	c := e.model.Card(e.isolated)
	if c == nil {
		return nil, ErrNotIsolated
	}
	return c, nil
}

// AddTextBox creates a text box on the isolated card at the given
// card-relative rect and records it in the history.
func (e *Editor) AddTextBox(rect layout.Rel) (string, error) {
	c, err := e.isolatedCard()
	if err != nil {
		return "", err
	}
	box := layout.TextBox{
		ID:     uuid.NewString(),
		Rect:   rect,
		Format: layout.TextFormat{Font: "sans", Size: 14, Weight: 400, Decoration: layout.DecorationNone, List: layout.ListNone},
	}
	e.hist.Do(history.CreateTextBox{CardID: c.ID, Box: box}, e.model)
	e.log.Debug("textbox created", slog.String("card", c.ID), slog.String("box", box.ID))
	return box.ID, nil
}

// SetTextContent replaces a text box's content in place. Typing is not an
// undoable action.
func (e *Editor) SetTextContent(boxID, content string) error {
	c, err := e.isolatedCard()
	if err != nil {
		return err
	}
	for i := range c.TextBoxes {
		if c.TextBoxes[i].ID == boxID {
			c.TextBoxes[i].Content = content
			return nil
		}
	}
	return ErrNoSuchElement
}

// SetTextFormat replaces a text box's typography in place.
func (e *Editor) SetTextFormat(boxID string, f layout.TextFormat) error {
	c, err := e.isolatedCard()
	if err != nil {
		return err
	}
	for i := range c.TextBoxes {
		if c.TextBoxes[i].ID == boxID {
			c.TextBoxes[i].Format = f
			return nil
		}
	}
	return ErrNoSuchElement
}

// CommitTextBoxMove records a finished element drag as a single action.
func (e *Editor) CommitTextBoxMove(boxID string, dx, dy float64) error {
	c, err := e.isolatedCard()
	if err != nil {
		return err
	}
	if dx == 0 && dy == 0 {
		return nil
	}
	for i := range c.TextBoxes {
		if c.TextBoxes[i].ID == boxID {
			e.hist.Do(history.MoveTextBox{CardID: c.ID, BoxID: boxID, DX: dx, DY: dy}, e.model)
			return nil
		}
	}
	return ErrNoSuchElement
}

// CommitTextBoxResize records a finished element resize as a single action.
func (e *Editor) CommitTextBoxResize(boxID string, next layout.Rel) error {
	c, err := e.isolatedCard()
	if err != nil {
		return err
	}
	for i := range c.TextBoxes {
		if c.TextBoxes[i].ID == boxID {
			old := c.TextBoxes[i].Rect
			if old == next {
				return nil
			}
			e.hist.Do(history.ResizeTextBox{CardID: c.ID, BoxID: boxID, OldRect: old, NewRect: next}, e.model)
			return nil
		}
	}
	return ErrNoSuchElement
}

// DeleteTextBox removes one text box through the history.
func (e *Editor) DeleteTextBox(boxID string) error {
	c, err := e.isolatedCard()
	if err != nil {
		return err
	}
	for i := range c.TextBoxes {
		if c.TextBoxes[i].ID == boxID {
			e.hist.Do(history.DeleteTextBox{CardID: c.ID, Box: c.TextBoxes[i], Index: i}, e.model)
			if e.selectedElement == boxID {
				e.selectedElement = ""
			}
			return nil
		}
	}
	return ErrNoSuchElement
}

// DeleteAllTextBoxes clears every text box of the isolated card in one
// undoable step.
func (e *Editor) DeleteAllTextBoxes() error {
	c, err := e.isolatedCard()
	if err != nil {
		return err
	}
	if len(c.TextBoxes) == 0 {
		return nil
	}
	boxes := append([]layout.TextBox(nil), c.TextBoxes...)
	e.hist.Do(history.DeleteAllTextBoxes{CardID: c.ID, Boxes: boxes}, e.model)
	e.selectedElement = ""
	return nil
}

// AddImageSlot creates an empty image slot with its embedded element on
// the isolated card. The slot starts unassigned.
func (e *Editor) AddImageSlot(rect layout.Rel) (string, error) {
	c, err := e.isolatedCard()
	if err != nil {
		return "", err
	}
	slot := layout.ImageSlot{ID: uuid.NewString(), Rect: rect}
	c.Images = append(c.Images, slot)
	e.log.Debug("image slot added", slog.String("card", c.ID), slog.String("slot", slot.ID))
	return slot.ID, nil
}

// AssignImage binds a URL (and alt text) to an existing slot. Assignment
// replaces any previous URL directly; it is not an undoable action.
func (e *Editor) AssignImage(slotID, url, alt string) error {
	c, err := e.isolatedCard()
	if err != nil {
		return err
	}
	for i := range c.Images {
		if c.Images[i].ID == slotID {
			c.Images[i].URL = url
			c.Images[i].Alt = alt
			return nil
		}
	}
	return ErrNoSuchElement
}

// ClearImage unassigns a slot's URL while keeping the slot and element in
// place for a later re-assignment.
func (e *Editor) ClearImage(slotID string) error {
	c, err := e.isolatedCard()
	if err != nil {
		return err
	}
	for i := range c.Images {
		if c.Images[i].ID == slotID {
			c.Images[i].URL = ""
			c.Images[i].Alt = ""
			return nil
		}
	}
	return ErrNoSuchElement
}

// DeleteImage removes the slot and its element together as one undoable
// action; undo restores both and the assigned URL.
func (e *Editor) DeleteImage(slotID string) error {
	c, err := e.isolatedCard()
	if err != nil {
		return err
	}
	for i := range c.Images {
		if c.Images[i].ID == slotID {
			e.hist.Do(history.DeleteImage{CardID: c.ID, Slot: c.Images[i], Index: i}, e.model)
			if e.selectedElement == slotID {
				e.selectedElement = ""
			}
			return nil
		}
	}
	return ErrNoSuchElement
}

// SelectElementAt picks the topmost element under a page point with the
// select tool while isolated. Image slots stack above text boxes; within
// each kind the last added wins.
func (e *Editor) SelectElementAt(x, y float64) string {
	if e.tool != ToolSelect {
		return ""
	}
	c, err := e.isolatedCard()
	if err != nil {
		return ""
	}
	b := c.Bounds()
	rx, ry := x-b.MinX, y-b.MinY
	for i := len(c.Images) - 1; i >= 0; i-- {
		if c.Images[i].Rect.Contains(rx, ry) {
			e.selectedElement = c.Images[i].ID
			return e.selectedElement
		}
	}
	for i := len(c.TextBoxes) - 1; i >= 0; i-- {
		if c.TextBoxes[i].Rect.Contains(rx, ry) {
			e.selectedElement = c.TextBoxes[i].ID
			return e.selectedElement
		}
	}
	e.selectedElement = ""
	return ""
}

// SelectedElement returns the element id selected inside isolation, or "".
func (e *Editor) SelectedElement() string { return e.selectedElement }

// EraseElementAt deletes the topmost element under a point while
// isolated: image slots go through DeleteImage, text boxes through
// DeleteTextBox, in both cases as undoable actions.
func (e *Editor) EraseElementAt(x, y float64) bool {
	if e.tool != ToolErase {
		return false
	}
	c, err := e.isolatedCard()
	if err != nil {
		return false
	}
	b := c.Bounds()
	rx, ry := x-b.MinX, y-b.MinY
	for i := len(c.Images) - 1; i >= 0; i-- {
		if c.Images[i].Rect.Contains(rx, ry) {
			return e.DeleteImage(c.Images[i].ID) == nil
		}
	}
	for i := len(c.TextBoxes) - 1; i >= 0; i-- {
		if c.TextBoxes[i].Rect.Contains(rx, ry) {
			return e.DeleteTextBox(c.TextBoxes[i].ID) == nil
		}
	}
	return false
}
