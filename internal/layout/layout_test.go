/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package layout

import (
	"encoding/json"
	"reflect"
	"testing"

	"cardboard/internal/geometry"
)

func card(id string, x1, y1, x2, y2 float64) Card {
	return Card{
		ID:     id,
		Points: geometry.RectFromCorners(geometry.Point{X: x1, Y: y1}, geometry.Point{X: x2, Y: y2}),
		Style:  DefaultStyle(),
	}
}

func TestModelInsertRemoveLookup(t *testing.T) {
	m := NewModel()
	m.Insert(-1, card("a", 0, 0, 100, 100))
	m.Insert(-1, card("b", 200, 0, 300, 100))
	m.Insert(1, card("c", 400, 0, 500, 100))
	if got := m.IndexOf("c"); got != 1 {
		t.Fatalf("expected c at index 1, got %d", got)
	}
	removed, idx, ok := m.Remove("c")
	if !ok || idx != 1 || removed.ID != "c" {
		t.Fatalf("remove failed: ok=%v idx=%d id=%s", ok, idx, removed.ID)
	}
	if m.Card("c") != nil {
		t.Fatalf("card c should be gone")
	}
	if m.Card("a") == nil || m.Card("b") == nil {
		t.Fatalf("other cards must survive removal")
	}
}

func TestCardAtPrefersTopmost(t *testing.T) {
	m := NewModel()
	m.Insert(-1, card("below", 0, 0, 100, 100))
	m.Insert(-1, card("above", 50, 50, 150, 150))
	hit := m.CardAt(geometry.Point{X: 75, Y: 75})
	if hit == nil || hit.ID != "above" {
		t.Fatalf("expected topmost card, got %+v", hit)
	}
	if m.CardAt(geometry.Point{X: 500, Y: 500}) != nil {
		t.Fatalf("expected miss outside all cards")
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := NewModel()
	c := card("a", 0, 0, 100, 100)
	c.TextBoxes = []TextBox{{ID: "t1", Rect: Rel{X: 10, Y: 10, W: 50, H: 20}, Content: "hello"}}
	m.Insert(-1, c)
	cp := m.Clone()
	cp.Cards[0].TextBoxes[0].Content = "changed"
	cp.Cards[0].Points = geometry.Translate(cp.Cards[0].Points, 40, 0)
	if m.Cards[0].TextBoxes[0].Content != "hello" {
		t.Fatalf("clone shares text box backing array")
	}
	if m.Cards[0].Points[0].X != 0 {
		t.Fatalf("clone shares points")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	m := NewModel()
	c := card("a", 100, 100, 300, 220)
	c.Images = []ImageSlot{{ID: "i1", Rect: Rel{X: 0, Y: 0, W: 80, H: 60}, URL: "https://img.example/x.png", Alt: "x"}}
	m.Insert(-1, c)
	m.Settings.ScrollRatio = 3

	snap := m.Snapshot()
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Snapshot
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	restored := NewModel()
	restored.Restore(back)
	if !reflect.DeepEqual(restored.Snapshot(), snap) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", restored.Snapshot(), snap)
	}
}

func TestRelContains(t *testing.T) {
	r := Rel{X: 10, Y: 10, W: 40, H: 20}
	if !r.Contains(10, 10) || !r.Contains(50, 30) || !r.Contains(25, 15) {
		t.Fatalf("expected closed containment")
	}
	if r.Contains(9, 10) || r.Contains(25, 31) {
		t.Fatalf("expected outside points to miss")
	}
}

func TestImageSlotEmpty(t *testing.T) {
	s := ImageSlot{ID: "i1"}
	if !s.Empty() {
		t.Fatalf("slot without URL should be empty")
	}
	s.URL = "https://img.example/a.png"
	if s.Empty() {
		t.Fatalf("assigned slot should not be empty")
	}
}
