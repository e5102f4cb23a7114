/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders layout snapshots for review outside the editor.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"cardboard/internal/layout"
)

// PDFOptions controls the proof sheet output. Units are points.
//
// Coordinates: page origin is top-left; card coordinates map 1:1 onto
// the PDF page after the margin shift. Nested element rects are relative
// to their card's top-left corner.
type PDFOptions struct {
	Title     string
	Margin    float64 // outer margin around the layout, pt
	ShowGrid  bool    // draw the snap grid as hairlines
	GridStep  float64 // grid spacing in pt; required when ShowGrid is set
	ShowLabel bool    // print each card's id above its top-left corner
}

// ProofSheet renders one snapshot onto a single-page PDF at outPath. Cards
// become styled rectangles, text boxes dashed outlines with their content,
// image slots crossed boxes with the assigned URL.
func ProofSheet(snap layout.Snapshot, outPath string, opt PDFOptions) error {
	if opt.Margin <= 0 {
		opt.Margin = 24
	}

	var maxX, maxY float64
	for i := range snap.Cards {
		b := snap.Cards[i].Bounds()
		if b.MaxX > maxX {
			maxX = b.MaxX
		}
		if b.MaxY > maxY {
			maxY = b.MaxY
		}
	}
	// an empty snapshot still produces a readable sheet
	if maxX < 400 {
		maxX = 400
	}
	if maxY < 300 {
		maxY = 300
	}
	mediaW := maxX + 2*opt.Margin
	mediaH := maxY + 2*opt.Margin

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: mediaW, Ht: mediaH},
		OrientationStr: "",
	})
	title := opt.Title
	if title == "" {
		title = "Layout proof sheet"
	}
	pdf.SetTitle(title, false)
	pdf.SetAuthor("cardboard", false)
	// Built-in Helvetica keeps text vector without embedding
	pdf.SetFont("Helvetica", "", 10)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: mediaW, Ht: mediaH})

	if opt.ShowGrid && opt.GridStep > 0 {
		pdf.SetDrawColor(220, 220, 220)
		pdf.SetLineWidth(0.2)
		for x := opt.Margin; x <= mediaW-opt.Margin; x += opt.GridStep {
			pdf.Line(x, opt.Margin, x, mediaH-opt.Margin)
		}
		for y := opt.Margin; y <= mediaH-opt.Margin; y += opt.GridStep {
			pdf.Line(opt.Margin, y, mediaW-opt.Margin, y)
		}
	}

	for i := range snap.Cards {
		drawCard(pdf, &snap.Cards[i], opt)
	}

	if !filepath.IsAbs(outPath) {
		outPath = filepath.Clean(outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawCard(pdf *gofpdf.Fpdf, c *layout.Card, opt PDFOptions) {
	b := c.Bounds()
	x := b.MinX + opt.Margin
	y := b.MinY + opt.Margin

	r, g, bl := hexColor(c.Style.Background, 255, 255, 255)
	pdf.SetFillColor(r, g, bl)
	r, g, bl = hexColor(c.Style.BorderColor, 0, 0, 0)
	pdf.SetDrawColor(r, g, bl)
	w := c.Style.BorderWidth
	if w <= 0 {
		w = 0.5
	}
	pdf.SetLineWidth(w)
	setDashFor(pdf, c.Style.BorderStyle, w)
	pdf.Rect(x, y, b.Width(), b.Height(), "FD")
	pdf.SetDashPattern(nil, 0)

	if opt.ShowLabel {
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(120, 120, 120)
		pdf.Text(x, y-3, c.ID)
		pdf.SetTextColor(0, 0, 0)
	}

	// text boxes: dashed outline plus content flowed top-left
	pdf.SetDrawColor(60, 60, 200)
	pdf.SetLineWidth(0.4)
	for _, tb := range c.TextBoxes {
		tx := x + tb.Rect.X
		ty := y + tb.Rect.Y
		pdf.SetDashPattern([]float64{2, 2}, 0)
		pdf.Rect(tx, ty, tb.Rect.W, tb.Rect.H, "D")
		pdf.SetDashPattern(nil, 0)
		if tb.Content != "" {
			size := tb.Format.Size
			if size <= 0 {
				size = 10
			}
			pdf.SetFont("Helvetica", fontStyleFor(tb.Format), size)
			cy := ty + size
			for _, line := range strings.Split(tb.Content, "\n") {
				pdf.Text(tx+3, cy, line)
				cy += size * 1.2
			}
		}
	}

	// image slots: crossed box plus the assigned URL
	pdf.SetDrawColor(160, 120, 40)
	pdf.SetLineWidth(0.4)
	for _, img := range c.Images {
		ix := x + img.Rect.X
		iy := y + img.Rect.Y
		pdf.Rect(ix, iy, img.Rect.W, img.Rect.H, "D")
		pdf.Line(ix, iy, ix+img.Rect.W, iy+img.Rect.H)
		pdf.Line(ix+img.Rect.W, iy, ix, iy+img.Rect.H)
		if !img.Empty() {
			pdf.SetFont("Helvetica", "", 6)
			pdf.Text(ix+2, iy+img.Rect.H-2, img.URL)
		}
	}
}

func setDashFor(pdf *gofpdf.Fpdf, style layout.BorderStyle, width float64) {
	switch style {
	case layout.BorderDashed:
		pdf.SetDashPattern([]float64{3 * width, 2 * width}, 0)
	case layout.BorderDotted:
		pdf.SetDashPattern([]float64{width, width}, 0)
	default:
		pdf.SetDashPattern(nil, 0)
	}
}

func fontStyleFor(f layout.TextFormat) string {
	style := ""
	if f.Weight >= 600 {
		style += "B"
	}
	if f.Italic {
		style += "I"
	}
	if f.Decoration == layout.DecorationUnderline {
		style += "U"
	}
	return style
}

// hexColor parses "#rrggbb" (or "#rgb"), falling back to the given default.
func hexColor(s string, dr, dg, db int) (int, int, int) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return dr, dg, db
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return dr, dg, db
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
