/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package layout

// This file defines the core data model for the card layout editor.
// Everything here is plain serializable state; mutation rules live in the
// editor and history packages.

import "cardboard/internal/geometry"

// BorderStyle enumerates the card border rendering styles.
type BorderStyle string

const (
	BorderSolid  BorderStyle = "solid"
	BorderDashed BorderStyle = "dashed"
	BorderDotted BorderStyle = "dotted"
)

// Style holds the visual attributes of a card.
type Style struct {
	Background   string      `json:"background"`
	Opacity      float64     `json:"opacity"`      // 0..1
	CornerRadius float64     `json:"cornerRadius"` // >= 0
	BorderWidth  float64     `json:"borderWidth"`  // >= 0
	BorderStyle  BorderStyle `json:"borderStyle"`
	BorderColor  string      `json:"borderColor"`
}

// DefaultStyle is applied to newly drawn cards unless the style lock
// carries the last-applied style forward.
func DefaultStyle() Style {
	return Style{
		Background:   "#ffffff",
		Opacity:      1,
		CornerRadius: 0,
		BorderWidth:  1,
		BorderStyle:  BorderSolid,
		BorderColor:  "#000000",
	}
}

// Decoration enumerates text decorations.
type Decoration string

const (
	DecorationNone        Decoration = "none"
	DecorationUnderline   Decoration = "underline"
	DecorationLineThrough Decoration = "line-through"
)

// ListType enumerates text list rendering.
type ListType string

const (
	ListNone     ListType = "none"
	ListBullet   ListType = "bullet"
	ListNumbered ListType = "numbered"
)

// TextFormat carries the typography attributes of a text box.
type TextFormat struct {
	Font       string     `json:"font"`
	Size       float64    `json:"size"`
	Weight     int        `json:"weight"`
	Italic     bool       `json:"italic,omitempty"`
	Decoration Decoration `json:"decoration"`
	Align      string     `json:"align,omitempty"`
	List       ListType   `json:"list"`
	Quote      bool       `json:"quote,omitempty"`
	Link       string     `json:"link,omitempty"`
}

// Rel is a rectangle relative to the owning card's top-left corner.
type Rel struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Contains reports whether the card-relative point (x, y) falls inside.
func (r Rel) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// TextBox is a text element nested inside a card. Its lifecycle is scoped
// to the parent card and it is only editable while that card is isolated.
type TextBox struct {
	ID      string     `json:"id"`
	Rect    Rel        `json:"rect"`
	Content string     `json:"content"`
	Format  TextFormat `json:"format"`
}

// ImageSlot binds an image element embedded in a card to an assigned URL.
// The slot and its element share one lifecycle: created, cleared and
// destroyed together.
type ImageSlot struct {
	ID   string `json:"id"`
	Rect Rel    `json:"rect"`
	URL  string `json:"url,omitempty"`
	Alt  string `json:"alt,omitempty"`
}

// Empty reports whether no image has been assigned to the slot.
func (s ImageSlot) Empty() bool { return s.URL == "" }

// Card is the primary placeable unit of a page layout: an axis-aligned
// rectangle given as four clockwise corners starting top-left, always at
// least one grid unit wide and tall.
type Card struct {
	ID        string          `json:"id"`
	Points    geometry.Points `json:"points"`
	Style     Style           `json:"style"`
	TextBoxes []TextBox       `json:"textBoxes,omitempty"`
	Images    []ImageSlot     `json:"images,omitempty"`
}

// Bounds reduces the card's corners to min/max extents.
func (c *Card) Bounds() geometry.Bounds { return geometry.BoundsOf(c.Points) }

// Clone returns a deep copy of the card.
func (c Card) Clone() Card {
	out := c
	out.TextBoxes = append([]TextBox(nil), c.TextBoxes...)
	out.Images = append([]ImageSlot(nil), c.Images...)
	return out
}

// Settings holds the per-page scroll and alignment configuration saved
// alongside the cards in every layout slot.
type Settings struct {
	ScrollRatio       float64 `json:"scrollRatio"`
	ScrollSpeed       float64 `json:"scrollSpeed"`
	WallpaperPosition float64 `json:"wallpaperPosition"` // 0..100
	AlignmentMargin   float64 `json:"alignmentMargin"`
}

// DefaultSettings returns the settings applied to a fresh page.
func DefaultSettings() Settings {
	return Settings{ScrollRatio: 2, ScrollSpeed: 1, WallpaperPosition: 0, AlignmentMargin: 0}
}

// Snapshot is the serializable exchange format between the editor and the
// persistence collaborators: one named layout variant of a page.
type Snapshot struct {
	Cards    []Card   `json:"cards"`
	Settings Settings `json:"settings"`
}
