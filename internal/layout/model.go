/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package layout

import "cardboard/internal/geometry"

// Model is the in-memory card collection for one page. It carries no
// history and performs no validation; named history actions are the only
// sanctioned way to mutate it during editing.
type Model struct {
	Cards    []Card
	Settings Settings
}

// NewModel returns an empty model with default settings.
func NewModel() *Model {
	return &Model{Settings: DefaultSettings()}
}

// Card returns a pointer to the card with the given id, or nil.
func (m *Model) Card(id string) *Card {
	for i := range m.Cards {
		if m.Cards[i].ID == id {
			return &m.Cards[i]
		}
	}
	return nil
}

// IndexOf returns the position of the card with the given id, or -1.
func (m *Model) IndexOf(id string) int {
	for i := range m.Cards {
		if m.Cards[i].ID == id {
			return i
		}
	}
	return -1
}

// Insert places a card at index, appending when index is out of range.
func (m *Model) Insert(index int, c Card) {
	if index < 0 || index > len(m.Cards) {
		index = len(m.Cards)
	}
	m.Cards = append(m.Cards, Card{})
	copy(m.Cards[index+1:], m.Cards[index:])
	m.Cards[index] = c
}

// Remove deletes the card with the given id, returning it and its index.
func (m *Model) Remove(id string) (Card, int, bool) {
	i := m.IndexOf(id)
	if i < 0 {
		return Card{}, -1, false
	}
	c := m.Cards[i]
	m.Cards = append(m.Cards[:i], m.Cards[i+1:]...)
	return c, i, true
}

// CardAt returns the topmost card whose bounding box contains p, or nil.
// Later cards sit above earlier ones.
func (m *Model) CardAt(p geometry.Point) *Card {
	for i := len(m.Cards) - 1; i >= 0; i-- {
		if m.Cards[i].Bounds().Contains(p) {
			return &m.Cards[i]
		}
	}
	return nil
}

// Rects returns every card's corner set, for overlap checks.
func (m *Model) Rects() []geometry.Points {
	out := make([]geometry.Points, len(m.Cards))
	for i := range m.Cards {
		out[i] = m.Cards[i].Points
	}
	return out
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	out := &Model{Settings: m.Settings, Cards: make([]Card, len(m.Cards))}
	for i := range m.Cards {
		out.Cards[i] = m.Cards[i].Clone()
	}
	return out
}

// Snapshot produces the serializable form of the model.
func (m *Model) Snapshot() Snapshot {
	cp := m.Clone()
	return Snapshot{Cards: cp.Cards, Settings: cp.Settings}
}

// Restore replaces the model content from a snapshot.
func (m *Model) Restore(s Snapshot) {
	m.Cards = make([]Card, len(s.Cards))
	for i := range s.Cards {
		m.Cards[i] = s.Cards[i].Clone()
	}
	m.Settings = s.Settings
}
