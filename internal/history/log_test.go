/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package history

import (
	"reflect"
	"testing"

	"cardboard/internal/geometry"
	"cardboard/internal/layout"
)

func newCard(id string, x1, y1, x2, y2 float64) layout.Card {
	return layout.Card{
		ID:     id,
		Points: geometry.RectFromCorners(geometry.Point{X: x1, Y: y1}, geometry.Point{X: x2, Y: y2}),
		Style:  layout.DefaultStyle(),
	}
}

func snap(m *layout.Model) layout.Snapshot { return m.Snapshot() }

func TestUndoRedoRoundTrip(t *testing.T) {
	m := layout.NewModel()
	l := NewLog()

	l.Do(CreateCard{Card: newCard("a", 100, 100, 300, 220)}, m)
	afterCreate := snap(m)

	l.Do(MoveCard{CardID: "a", DX: 40, DY: 40}, m)
	afterMove := snap(m)

	if !l.Undo(m) {
		t.Fatalf("undo should succeed")
	}
	if !reflect.DeepEqual(snap(m), afterCreate) {
		t.Fatalf("undo did not restore state after create")
	}
	if !l.Redo(m) {
		t.Fatalf("redo should succeed")
	}
	if !reflect.DeepEqual(snap(m), afterMove) {
		t.Fatalf("redo did not restore state after move")
	}
}

func TestBoundaryNoOps(t *testing.T) {
	m := layout.NewModel()
	l := NewLog()
	if l.Undo(m) {
		t.Fatalf("undo on empty history must be a no-op")
	}
	if l.Redo(m) {
		t.Fatalf("redo on empty history must be a no-op")
	}
	l.Do(CreateCard{Card: newCard("a", 0, 0, 100, 100)}, m)
	if l.Redo(m) {
		t.Fatalf("redo at head must be a no-op")
	}
}

func TestNewActionDiscardsRedoTail(t *testing.T) {
	m := layout.NewModel()
	l := NewLog()
	l.Do(CreateCard{Card: newCard("a", 0, 0, 100, 100)}, m)
	l.Do(MoveCard{CardID: "a", DX: 40, DY: 0}, m)
	l.Undo(m)
	l.Do(RestyleCard{CardID: "a", OldStyle: layout.DefaultStyle(), NewStyle: layout.Style{Background: "#222222", Opacity: 1, BorderStyle: layout.BorderSolid}}, m)
	if l.CanRedo() {
		t.Fatalf("recording after undo must discard the redo tail")
	}
	if got := l.Names(); !reflect.DeepEqual(got, []string{"create", "style"}) {
		t.Fatalf("unexpected log contents: %v", got)
	}
}

func TestResizeInverseRestoresOriginalPoints(t *testing.T) {
	m := layout.NewModel()
	l := NewLog()
	c := newCard("a", 100, 100, 300, 220)
	l.Do(CreateCard{Card: c}, m)
	old := c.Points
	grown := geometry.FromBounds(geometry.Bounds{MinX: 100, MinY: 100, MaxX: 340, MaxY: 220})
	l.Do(ResizeCard{CardID: "a", Edge: geometry.EdgeRight, OldPoints: old, NewPoints: grown}, m)
	if m.Card("a").Points != grown {
		t.Fatalf("resize not applied")
	}
	l.Undo(m)
	if m.Card("a").Points != old {
		t.Fatalf("resize inverse must restore original points")
	}
}

func TestTextBoxActions(t *testing.T) {
	m := layout.NewModel()
	l := NewLog()
	l.Do(CreateCard{Card: newCard("a", 0, 0, 200, 200)}, m)

	box := layout.TextBox{ID: "t1", Rect: layout.Rel{X: 10, Y: 10, W: 80, H: 30}, Content: "hi"}
	l.Do(CreateTextBox{CardID: "a", Box: box}, m)
	l.Do(MoveTextBox{CardID: "a", BoxID: "t1", DX: 20, DY: 0}, m)
	if got := m.Card("a").TextBoxes[0].Rect.X; got != 30 {
		t.Fatalf("expected moved box at x=30, got %v", got)
	}
	l.Undo(m)
	if got := m.Card("a").TextBoxes[0].Rect.X; got != 10 {
		t.Fatalf("expected undo to restore x=10, got %v", got)
	}

	l.Do(DeleteTextBox{CardID: "a", Box: m.Card("a").TextBoxes[0], Index: 0}, m)
	if len(m.Card("a").TextBoxes) != 0 {
		t.Fatalf("delete should remove the box")
	}
	l.Undo(m)
	if len(m.Card("a").TextBoxes) != 1 || m.Card("a").TextBoxes[0].ID != "t1" {
		t.Fatalf("undo should restore the box at its index")
	}
}

func TestDeleteAllTextBoxes(t *testing.T) {
	m := layout.NewModel()
	l := NewLog()
	l.Do(CreateCard{Card: newCard("a", 0, 0, 200, 200)}, m)
	l.Do(CreateTextBox{CardID: "a", Box: layout.TextBox{ID: "t1"}}, m)
	l.Do(CreateTextBox{CardID: "a", Box: layout.TextBox{ID: "t2"}}, m)

	boxes := append([]layout.TextBox(nil), m.Card("a").TextBoxes...)
	l.Do(DeleteAllTextBoxes{CardID: "a", Boxes: boxes}, m)
	if len(m.Card("a").TextBoxes) != 0 {
		t.Fatalf("delete all should clear boxes")
	}
	l.Undo(m)
	if len(m.Card("a").TextBoxes) != 2 {
		t.Fatalf("undo should restore both boxes")
	}
}

func TestDeleteImageKeepsPairTogether(t *testing.T) {
	m := layout.NewModel()
	l := NewLog()
	c := newCard("a", 0, 0, 200, 200)
	c.Images = []layout.ImageSlot{{ID: "i1", Rect: layout.Rel{W: 50, H: 50}, URL: "https://img.example/a.png", Alt: "a"}}
	l.Do(CreateCard{Card: c}, m)

	slot := m.Card("a").Images[0]
	l.Do(DeleteImage{CardID: "a", Slot: slot, Index: 0}, m)
	if len(m.Card("a").Images) != 0 {
		t.Fatalf("slot and element must be removed together")
	}
	l.Undo(m)
	got := m.Card("a").Images
	if len(got) != 1 || got[0].URL != "https://img.example/a.png" || got[0].Alt != "a" {
		t.Fatalf("undo must restore slot with its assignment: %+v", got)
	}
}

func TestWipeBackupPreferredOnEmptyModel(t *testing.T) {
	m := layout.NewModel()
	l := NewLog()
	l.Do(CreateCard{Card: newCard("a", 0, 0, 100, 100)}, m)
	l.Do(CreateCard{Card: newCard("b", 200, 0, 300, 100)}, m)

	// Delete-all snapshots the set and clears the model without actions.
	l.SetWipeBackup(m.Cards)
	m.Cards = nil

	if !l.Undo(m) {
		t.Fatalf("undo should restore the wipe backup")
	}
	if len(m.Cards) != 2 {
		t.Fatalf("expected both cards restored at once, got %d", len(m.Cards))
	}
	// Backup is consumed: next undo walks the regular log.
	if !l.Undo(m) {
		t.Fatalf("undo should now use the per-action log")
	}
	if len(m.Cards) != 1 || m.Cards[0].ID != "a" {
		t.Fatalf("expected create of b undone, got %+v", m.Cards)
	}
}
