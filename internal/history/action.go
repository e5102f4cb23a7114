/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package history

// Actions are the only sanctioned mutations of the layout model during
// editing. Each variant carries exactly the data its forward and inverse
// transforms need so that undo restores the precise prior state.
// Actions are recorded on commit (mouse-up) only, never for previews.

import (
	"cardboard/internal/geometry"
	"cardboard/internal/layout"
)

// Action is one committed, reversible edit.
type Action interface {
	// Apply performs the forward transform.
	Apply(m *layout.Model)
	// Revert performs the exact inverse of Apply.
	Revert(m *layout.Model)
	// Name identifies the variant for logging.
	Name() string
}

// CreateCard records a card drawn by the draw tool.
type CreateCard struct {
	Card layout.Card
}

func (a CreateCard) Apply(m *layout.Model)  { m.Insert(-1, a.Card.Clone()) }
func (a CreateCard) Revert(m *layout.Model) { m.Remove(a.Card.ID) }
func (a CreateCard) Name() string           { return "create" }

// DeleteCard records an erased card, carrying the full card and its
// position for restoration.
type DeleteCard struct {
	Card  layout.Card
	Index int
}

func (a DeleteCard) Apply(m *layout.Model)  { m.Remove(a.Card.ID) }
func (a DeleteCard) Revert(m *layout.Model) { m.Insert(a.Index, a.Card.Clone()) }
func (a DeleteCard) Name() string           { return "delete" }

// MoveCard records a committed, grid-snapped drag offset.
type MoveCard struct {
	CardID string
	DX, DY float64
}

func (a MoveCard) Apply(m *layout.Model) {
	if c := m.Card(a.CardID); c != nil {
		c.Points = geometry.Translate(c.Points, a.DX, a.DY)
	}
}

func (a MoveCard) Revert(m *layout.Model) {
	if c := m.Card(a.CardID); c != nil {
		c.Points = geometry.Translate(c.Points, -a.DX, -a.DY)
	}
}

func (a MoveCard) Name() string { return "move" }

// ResizeCard records an edge adjustment with both corner sets.
type ResizeCard struct {
	CardID    string
	Edge      geometry.Edge
	OldPoints geometry.Points
	NewPoints geometry.Points
}

func (a ResizeCard) Apply(m *layout.Model) {
	if c := m.Card(a.CardID); c != nil {
		c.Points = a.NewPoints
	}
}

func (a ResizeCard) Revert(m *layout.Model) {
	if c := m.Card(a.CardID); c != nil {
		c.Points = a.OldPoints
	}
}

func (a ResizeCard) Name() string { return "resize" }

// RestyleCard records an applied style change.
type RestyleCard struct {
	CardID   string
	OldStyle layout.Style
	NewStyle layout.Style
}

func (a RestyleCard) Apply(m *layout.Model) {
	if c := m.Card(a.CardID); c != nil {
		c.Style = a.NewStyle
	}
}

func (a RestyleCard) Revert(m *layout.Model) {
	if c := m.Card(a.CardID); c != nil {
		c.Style = a.OldStyle
	}
}

func (a RestyleCard) Name() string { return "style" }

// CreateTextBox records a text box added to an isolated card.
type CreateTextBox struct {
	CardID string
	Box    layout.TextBox
}

func (a CreateTextBox) Apply(m *layout.Model) {
	if c := m.Card(a.CardID); c != nil {
		c.TextBoxes = append(c.TextBoxes, a.Box)
	}
}

func (a CreateTextBox) Revert(m *layout.Model) {
	c := m.Card(a.CardID)
	if c == nil {
		return
	}
	for i := range c.TextBoxes {
		if c.TextBoxes[i].ID == a.Box.ID {
			c.TextBoxes = append(c.TextBoxes[:i], c.TextBoxes[i+1:]...)
			return
		}
	}
}

func (a CreateTextBox) Name() string { return "textbox_create" }

// DeleteTextBox records a removed text box and its position in the order.
type DeleteTextBox struct {
	CardID string
	Box    layout.TextBox
	Index  int
}

func (a DeleteTextBox) Apply(m *layout.Model) {
	c := m.Card(a.CardID)
	if c == nil {
		return
	}
	for i := range c.TextBoxes {
		if c.TextBoxes[i].ID == a.Box.ID {
			c.TextBoxes = append(c.TextBoxes[:i], c.TextBoxes[i+1:]...)
			return
		}
	}
}

func (a DeleteTextBox) Revert(m *layout.Model) {
	c := m.Card(a.CardID)
	if c == nil {
		return
	}
	i := a.Index
	if i < 0 || i > len(c.TextBoxes) {
		i = len(c.TextBoxes)
	}
	c.TextBoxes = append(c.TextBoxes, layout.TextBox{})
	copy(c.TextBoxes[i+1:], c.TextBoxes[i:])
	c.TextBoxes[i] = a.Box
}

func (a DeleteTextBox) Name() string { return "textbox_delete" }

// MoveTextBox records a committed text box offset within its card.
type MoveTextBox struct {
	CardID string
	BoxID  string
	DX, DY float64
}

func (a MoveTextBox) Apply(m *layout.Model)  { shiftTextBox(m, a.CardID, a.BoxID, a.DX, a.DY) }
func (a MoveTextBox) Revert(m *layout.Model) { shiftTextBox(m, a.CardID, a.BoxID, -a.DX, -a.DY) }
func (a MoveTextBox) Name() string           { return "textbox_move" }

func shiftTextBox(m *layout.Model, cardID, boxID string, dx, dy float64) {
	c := m.Card(cardID)
	if c == nil {
		return
	}
	for i := range c.TextBoxes {
		if c.TextBoxes[i].ID == boxID {
			c.TextBoxes[i].Rect.X += dx
			c.TextBoxes[i].Rect.Y += dy
			return
		}
	}
}

// ResizeTextBox records a committed text box rect change.
type ResizeTextBox struct {
	CardID  string
	BoxID   string
	OldRect layout.Rel
	NewRect layout.Rel
}

func (a ResizeTextBox) Apply(m *layout.Model)  { setTextBoxRect(m, a.CardID, a.BoxID, a.NewRect) }
func (a ResizeTextBox) Revert(m *layout.Model) { setTextBoxRect(m, a.CardID, a.BoxID, a.OldRect) }
func (a ResizeTextBox) Name() string           { return "textbox_resize" }

func setTextBoxRect(m *layout.Model, cardID, boxID string, r layout.Rel) {
	c := m.Card(cardID)
	if c == nil {
		return
	}
	for i := range c.TextBoxes {
		if c.TextBoxes[i].ID == boxID {
			c.TextBoxes[i].Rect = r
			return
		}
	}
}

// DeleteAllTextBoxes clears every text box of one card in a single step.
type DeleteAllTextBoxes struct {
	CardID string
	Boxes  []layout.TextBox
}

func (a DeleteAllTextBoxes) Apply(m *layout.Model) {
	if c := m.Card(a.CardID); c != nil {
		c.TextBoxes = nil
	}
}

func (a DeleteAllTextBoxes) Revert(m *layout.Model) {
	if c := m.Card(a.CardID); c != nil {
		c.TextBoxes = append([]layout.TextBox(nil), a.Boxes...)
	}
}

func (a DeleteAllTextBoxes) Name() string { return "textbox_delete_all" }

// DeleteImage removes an image slot together with its embedded element;
// the pair never splits.
type DeleteImage struct {
	CardID string
	Slot   layout.ImageSlot
	Index  int
}

func (a DeleteImage) Apply(m *layout.Model) {
	c := m.Card(a.CardID)
	if c == nil {
		return
	}
	for i := range c.Images {
		if c.Images[i].ID == a.Slot.ID {
			c.Images = append(c.Images[:i], c.Images[i+1:]...)
			return
		}
	}
}

func (a DeleteImage) Revert(m *layout.Model) {
	c := m.Card(a.CardID)
	if c == nil {
		return
	}
	i := a.Index
	if i < 0 || i > len(c.Images) {
		i = len(c.Images)
	}
	c.Images = append(c.Images, layout.ImageSlot{})
	copy(c.Images[i+1:], c.Images[i:])
	c.Images[i] = a.Slot
}

func (a DeleteImage) Name() string { return "image_delete" }
