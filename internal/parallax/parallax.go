/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package parallax maps a page scroll offset to a wallpaper offset.
// The page scrolls over a "conveyor" region that is a configurable
// multiple of the wallpaper height; the wallpaper itself only scrolls
// within a proportional window of that range, at most half its own
// height. The mapping is piecewise linear and monotonically
// non-decreasing, evaluated on every scroll tick independent of the
// rest of the editor.
package parallax

import "cardboard/internal/layout"

// Mapping holds the configured parameters for one page.
type Mapping struct {
	// WallpaperHeight and ViewportHeight share the same unit (vh-equivalent).
	WallpaperHeight float64
	ViewportHeight  float64
	// ScrollRatio sets the conveyor length as a multiple of the wallpaper
	// height.
	ScrollRatio float64
	// ScrollSpeed multiplies the raw scroll distance before mapping.
	ScrollSpeed float64
	// Position (0..100) places the wallpaper's scroll window within the
	// scrollable range.
	Position float64
}

// FromSettings builds a mapping from page settings and measured heights.
func FromSettings(s layout.Settings, wallpaperHeight, viewportHeight float64) Mapping {
	return Mapping{
		WallpaperHeight: wallpaperHeight,
		ViewportHeight:  viewportHeight,
		ScrollRatio:     s.ScrollRatio,
		ScrollSpeed:     s.ScrollSpeed,
		Position:        s.WallpaperPosition,
	}
}

// ConveyorLength is the full scrollable height of the page.
func (m Mapping) ConveyorLength() float64 {
	return m.WallpaperHeight * m.ScrollRatio
}

// scrollable is the distance the user can actually scroll: conveyor minus
// one viewport.
func (m Mapping) scrollable() float64 {
	d := m.ConveyorLength() - m.ViewportHeight
	if d < 0 {
		return 0
	}
	return d
}

// MaxOffset is the wallpaper's scroll headroom: half a wallpaper height.
func (m Mapping) MaxOffset() float64 { return m.WallpaperHeight / 2 }

// window returns the start and length of the slice of the scrollable range
// within which the wallpaper moves. The start is derived from Position and
// clamped so the window never exceeds the scrollable range.
func (m Mapping) window() (start, length float64) {
	scrollable := m.scrollable()
	conveyor := m.ConveyorLength()
	if scrollable <= 0 || conveyor <= 0 {
		return 0, 0
	}
	length = scrollable * (m.WallpaperHeight / conveyor)
	start = scrollable * (m.Position / 100)
	if start+length > scrollable {
		start = scrollable - length
	}
	if start < 0 {
		start = 0
	}
	return start, length
}

// Offset maps a raw scroll offset to the wallpaper's vertical offset:
// zero before the window, MaxOffset past it, linear within.
func (m Mapping) Offset(scroll float64) float64 {
	start, length := m.window()
	if length <= 0 {
		return 0
	}
	s := scroll * m.ScrollSpeed
	switch {
	case s <= start:
		return 0
	case s >= start+length:
		return m.MaxOffset()
	default:
		return (s - start) / length * m.MaxOffset()
	}
}
