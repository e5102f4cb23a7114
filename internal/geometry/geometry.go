/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

// Grid snapping and axis-aligned rectangle helpers for the layout editor.
// All functions are pure; coordinates are page pixels as float64.

import "math"

// Point is a 2D page coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Points holds the four corners of an axis-aligned rectangle in clockwise
// order starting at the top-left: TL, TR, BR, BL.
type Points [4]Point

// Edge identifies one side of a rectangle.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeTop
	EdgeRight
	EdgeBottom
	EdgeLeft
)

func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeRight:
		return "right"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	}
	return "none"
}

// Snap rounds p to the nearest grid intersection. Intersections are offset
// by half a grid unit so they sit centered between cell edges. Snap is
// idempotent: Snap(Snap(p)) == Snap(p).
func Snap(p Point, spacing float64) Point {
	return Point{X: snapAxis(p.X, spacing), Y: snapAxis(p.Y, spacing)}
}

func snapAxis(v, spacing float64) float64 {
	if spacing <= 0 {
		return v
	}
	half := spacing / 2
	return math.Round((v-half)/spacing)*spacing + half
}

// SnapValue rounds a single coordinate to the intersection lattice.
func SnapValue(v, spacing float64) float64 { return snapAxis(v, spacing) }

// SnapOffset rounds a raw drag delta to the nearest whole grid multiple.
// Used when committing a move: previews stay fluid, commits land on grid.
func SnapOffset(d, spacing float64) float64 {
	if spacing <= 0 {
		return d
	}
	return math.Round(d/spacing) * spacing
}

// RectFromCorners returns the four clockwise corners of the axis-aligned
// rectangle spanned by two opposite corners. Degenerate input (shared axis
// value) must be rejected by the caller; no guard here.
func RectFromCorners(p1, p2 Point) Points {
	minX := math.Min(p1.X, p2.X)
	maxX := math.Max(p1.X, p2.X)
	minY := math.Min(p1.Y, p2.Y)
	maxY := math.Max(p1.Y, p2.Y)
	return Points{
		{X: minX, Y: minY},
		{X: maxX, Y: minY},
		{X: maxX, Y: maxY},
		{X: minX, Y: maxY},
	}
}

// Bounds describes the extent of a rectangle.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// BoundsOf reduces four corners to min/max per axis.
func BoundsOf(pts Points) Bounds {
	b := Bounds{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}

// Width and Height of the bounds.
func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Center returns the midpoint of the bounds.
func (b Bounds) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Contains reports whether p lies within the closed bounds.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// ContainsAny reports whether p lies within the closed bounding box of any
// rectangle. Used to forbid overlapping card placement.
func ContainsAny(p Point, rects []Points) bool {
	for _, r := range rects {
		if BoundsOf(r).Contains(p) {
			return true
		}
	}
	return false
}

// DetectEdge returns which edge of the rectangle p is within threshold of,
// restricted to the segment's span. Ties resolve in the order
// top, right, bottom, left; EdgeNone when no edge is near.
func DetectEdge(p Point, pts Points, threshold float64) Edge {
	b := BoundsOf(pts)
	withinX := p.X >= b.MinX-threshold && p.X <= b.MaxX+threshold
	withinY := p.Y >= b.MinY-threshold && p.Y <= b.MaxY+threshold
	if withinX && math.Abs(p.Y-b.MinY) <= threshold {
		return EdgeTop
	}
	if withinY && math.Abs(p.X-b.MaxX) <= threshold {
		return EdgeRight
	}
	if withinX && math.Abs(p.Y-b.MaxY) <= threshold {
		return EdgeBottom
	}
	if withinY && math.Abs(p.X-b.MinX) <= threshold {
		return EdgeLeft
	}
	return EdgeNone
}

// Translate returns the rectangle shifted by (dx, dy).
func Translate(pts Points, dx, dy float64) Points {
	var out Points
	for i, p := range pts {
		out[i] = Point{X: p.X + dx, Y: p.Y + dy}
	}
	return out
}

// FromBounds rebuilds the clockwise corner representation.
func FromBounds(b Bounds) Points {
	return Points{
		{X: b.MinX, Y: b.MinY},
		{X: b.MaxX, Y: b.MinY},
		{X: b.MaxX, Y: b.MaxY},
		{X: b.MinX, Y: b.MaxY},
	}
}
