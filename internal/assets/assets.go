/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package assets inspects user-supplied images before they become card
// images or page wallpapers.
package assets

import (
	"fmt"
	"image"
	"io"

	// registered decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Blur bounds for wallpaper records, in display units.
const (
	MinBlur = 0
	MaxBlur = 20
)

// ImageInfo describes a decoded image header.
type ImageInfo struct {
	Format string
	Width  int
	Height int
}

// Inspect reads just the image header and reports format and dimensions.
// An undecodable stream is an error; the data is never fully decoded.
func Inspect(r io.Reader) (ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("decode image header: %w", err)
	}
	return ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// ValidateBlur checks a wallpaper blur value against the allowed range.
func ValidateBlur(blur int) error {
	if blur < MinBlur || blur > MaxBlur {
		return fmt.Errorf("assets: blur %d out of range %d..%d", blur, MinBlur, MaxBlur)
	}
	return nil
}
