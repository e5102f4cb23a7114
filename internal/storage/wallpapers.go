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
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cardboard/internal/assets"
)

// ErrNoWallpaper is returned when neither the page nor the universal
// fallback has a wallpaper record.
var ErrNoWallpaper = errors.New("storage: no wallpaper configured")

// Wallpaper is the page background record the parallax mapper scrolls.
type Wallpaper struct {
	PageID    string
	URL       string
	Alt       string
	Blur      int
	Universal bool
}

// SetWallpaper stores or replaces a page's wallpaper record. Marking it
// universal makes it the fallback for pages without their own record;
// only one universal record is kept.
func (w *Workspace) SetWallpaper(ctx context.Context, wp Wallpaper) error {
	if wp.URL == "" {
		return errors.New("storage: wallpaper url is required")
	}
	if err := assets.ValidateBlur(wp.Blur); err != nil {
		return err
	}
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin wallpaper: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if wp.Universal {
		if _, err := tx.ExecContext(ctx, `UPDATE wallpapers SET universal = 0 WHERE universal = 1`); err != nil {
			return fmt.Errorf("clear universal: %w", err)
		}
	}
	uni := 0
	if wp.Universal {
		uni = 1
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = tx.ExecContext(ctx, `INSERT INTO wallpapers(page_id, url, alt, blur, universal, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(page_id) DO UPDATE SET url=excluded.url, alt=excluded.alt, blur=excluded.blur, universal=excluded.universal, updated_at=excluded.updated_at`,
		wp.PageID, wp.URL, wp.Alt, wp.Blur, uni, now)
	if err != nil {
		return fmt.Errorf("write wallpaper: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit wallpaper: %w", err)
	}
	return nil
}

// WallpaperFor resolves the wallpaper shown behind a page: the page's own
// record when present, otherwise the universal fallback.
func (w *Workspace) WallpaperFor(ctx context.Context, pageID string) (Wallpaper, error) {
	wp, err := w.wallpaperRow(ctx, `SELECT page_id, url, alt, blur, universal FROM wallpapers WHERE page_id = ?`, pageID)
	if err == nil {
		return wp, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Wallpaper{}, fmt.Errorf("read wallpaper: %w", err)
	}
	wp, err = w.wallpaperRow(ctx, `SELECT page_id, url, alt, blur, universal FROM wallpapers WHERE universal = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return Wallpaper{}, ErrNoWallpaper
	}
	if err != nil {
		return Wallpaper{}, fmt.Errorf("read universal wallpaper: %w", err)
	}
	return wp, nil
}

// DeleteWallpaper removes a page's record; pages then fall back to the
// universal record, if any.
func (w *Workspace) DeleteWallpaper(ctx context.Context, pageID string) error {
	_, err := w.db.ExecContext(ctx, `DELETE FROM wallpapers WHERE page_id = ?`, pageID)
	if err != nil {
		return fmt.Errorf("delete wallpaper: %w", err)
	}
	return nil
}

func (w *Workspace) wallpaperRow(ctx context.Context, query string, args ...any) (Wallpaper, error) {
	var (
		wp  Wallpaper
		uni int
	)
	err := w.db.QueryRowContext(ctx, query, args...).Scan(&wp.PageID, &wp.URL, &wp.Alt, &wp.Blur, &uni)
	if err != nil {
		return Wallpaper{}, err
	}
	wp.Universal = uni != 0
	return wp, nil
}
