/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"errors"
	"testing"
)

func TestWallpaperPerPageAndFallback(t *testing.T) {
	w := testWorkspace(t)
	ctx := context.Background()

	if _, err := w.WallpaperFor(ctx, "p"); !errors.Is(err, ErrNoWallpaper) {
		t.Fatalf("err = %v, want ErrNoWallpaper", err)
	}

	uni := Wallpaper{PageID: "home", URL: "https://img.example/uni.png", Blur: 4, Universal: true}
	if err := w.SetWallpaper(ctx, uni); err != nil {
		t.Fatalf("set universal: %v", err)
	}
	own := Wallpaper{PageID: "p", URL: "https://img.example/p.png", Blur: 0}
	if err := w.SetWallpaper(ctx, own); err != nil {
		t.Fatalf("set own: %v", err)
	}

	got, err := w.WallpaperFor(ctx, "p")
	if err != nil || got.URL != own.URL {
		t.Fatalf("page record: (%+v, %v)", got, err)
	}
	got, err = w.WallpaperFor(ctx, "other")
	if err != nil || got.URL != uni.URL || !got.Universal {
		t.Fatalf("fallback record: (%+v, %v)", got, err)
	}

	// deleting the page record falls back to universal
	if err := w.DeleteWallpaper(ctx, "p"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = w.WallpaperFor(ctx, "p")
	if err != nil || got.URL != uni.URL {
		t.Fatalf("after delete: (%+v, %v)", got, err)
	}
}

func TestOnlyOneUniversalWallpaper(t *testing.T) {
	w := testWorkspace(t)
	ctx := context.Background()

	if err := w.SetWallpaper(ctx, Wallpaper{PageID: "a", URL: "https://img.example/a.png", Universal: true}); err != nil {
		t.Fatalf("set a: %v", err)
	}
	if err := w.SetWallpaper(ctx, Wallpaper{PageID: "b", URL: "https://img.example/b.png", Universal: true}); err != nil {
		t.Fatalf("set b: %v", err)
	}
	got, err := w.WallpaperFor(ctx, "unrelated")
	if err != nil {
		t.Fatalf("fallback: %v", err)
	}
	if got.PageID != "b" {
		t.Fatalf("universal = %q, want the newest mark", got.PageID)
	}
}

func TestWallpaperBlurValidation(t *testing.T) {
	w := testWorkspace(t)
	ctx := context.Background()

	if err := w.SetWallpaper(ctx, Wallpaper{PageID: "p", URL: "https://img.example/p.png", Blur: 21}); err == nil {
		t.Fatalf("out-of-range blur accepted")
	}
	if err := w.SetWallpaper(ctx, Wallpaper{PageID: "p", URL: "", Blur: 0}); err == nil {
		t.Fatalf("empty url accepted")
	}
}
