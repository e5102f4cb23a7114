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
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cardboard/internal/layout"
)

// MaxSlots bounds the number of saved layout variants per page.
const MaxSlots = 6

// ErrSlotLimit is returned when saving would exceed MaxSlots for a page.
// Nothing is written.
var ErrSlotLimit = fmt.Errorf("storage: page already holds %d layout slots", MaxSlots)

// ErrNoSlot is returned when the requested slot does not exist.
var ErrNoSlot = errors.New("storage: no such layout slot")

// SlotInfo describes one saved layout variant without its snapshot body.
type SlotInfo struct {
	Slot      int
	Name      string
	Published bool
	UpdatedAt time.Time
}

// language=SQL
// dialect=SQLite
const upsertSlotSQL = `INSERT INTO slots(page_id, slot, name, snapshot, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(page_id, slot) DO UPDATE SET name=excluded.name, snapshot=excluded.snapshot, updated_at=excluded.updated_at`

// language=SQL
// dialect=SQLite
const countSlotsSQL = `SELECT COUNT(*) FROM slots WHERE page_id = ?`

// language=SQL
// dialect=SQLite
const slotExistsSQL = `SELECT COUNT(*) FROM slots WHERE page_id = ? AND slot = ?`

// language=SQL
// dialect=SQLite
const selectSlotSQL = `SELECT snapshot FROM slots WHERE page_id = ? AND slot = ?`

// language=SQL
// dialect=SQLite
const listSlotsSQL = `SELECT slot, name, published, updated_at FROM slots WHERE page_id = ? ORDER BY slot`

// SaveSlot writes a named snapshot into one of the page's layout slots,
// creating or overwriting it. A page holds at most MaxSlots slots; a save
// that would create a slot beyond the limit fails with ErrSlotLimit and
// writes nothing.
func (w *Workspace) SaveSlot(ctx context.Context, pageID string, slot int, name string, snap layout.Snapshot) error {
	if slot < 0 {
		return fmt.Errorf("storage: negative slot %d", slot)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := ValidateSnapshotJSON(data); err != nil {
		return err
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, slotExistsSQL, pageID, slot).Scan(&exists); err != nil {
		return fmt.Errorf("check slot: %w", err)
	}
	if exists == 0 {
		var count int
		if err := tx.QueryRowContext(ctx, countSlotsSQL, pageID).Scan(&count); err != nil {
			return fmt.Errorf("count slots: %w", err)
		}
		if count >= MaxSlots {
			return ErrSlotLimit
		}
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx, upsertSlotSQL, pageID, slot, name, string(data), now); err != nil {
		return fmt.Errorf("write slot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	w.log.Info("slot saved", slog.String("page", pageID), slog.Int("slot", slot))
	return nil
}

// LoadSlot reads one slot's snapshot back, validating it on the way in.
func (w *Workspace) LoadSlot(ctx context.Context, pageID string, slot int) (layout.Snapshot, error) {
	var raw string
	err := w.db.QueryRowContext(ctx, selectSlotSQL, pageID, slot).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return layout.Snapshot{}, ErrNoSlot
	}
	if err != nil {
		return layout.Snapshot{}, fmt.Errorf("read slot: %w", err)
	}
	if err := ValidateSnapshotJSON([]byte(raw)); err != nil {
		return layout.Snapshot{}, err
	}
	var snap layout.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return layout.Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	return snap, nil
}

// ListSlots returns the page's slots in slot order.
func (w *Workspace) ListSlots(ctx context.Context, pageID string) ([]SlotInfo, error) {
	rows, err := w.db.QueryContext(ctx, listSlotsSQL, pageID)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []SlotInfo
	for rows.Next() {
		var (
			info SlotInfo
			pub  int
			ts   string
		)
		if err := rows.Scan(&info.Slot, &info.Name, &pub, &ts); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		info.Published = pub != 0
		if t, perr := time.Parse(time.RFC3339Nano, ts); perr == nil {
			info.UpdatedAt = t
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteSlot removes one slot. Deleting a missing slot is ErrNoSlot.
func (w *Workspace) DeleteSlot(ctx context.Context, pageID string, slot int) error {
	res, err := w.db.ExecContext(ctx, `DELETE FROM slots WHERE page_id = ? AND slot = ?`, pageID, slot)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoSlot
	}
	return nil
}

// RenameSlot changes a slot's display name without touching its snapshot.
func (w *Workspace) RenameSlot(ctx context.Context, pageID string, slot int, name string) error {
	res, err := w.db.ExecContext(ctx, `UPDATE slots SET name = ?, updated_at = ? WHERE page_id = ? AND slot = ?`,
		name, time.Now().UTC().Format(time.RFC3339Nano), pageID, slot)
	if err != nil {
		return fmt.Errorf("rename slot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoSlot
	}
	return nil
}

// PublishSlot marks one slot as the page's published layout, clearing any
// previous mark so at most one slot per page is published.
func (w *Workspace) PublishSlot(ctx context.Context, pageID string, slot int) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin publish: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, slotExistsSQL, pageID, slot).Scan(&exists); err != nil {
		return fmt.Errorf("check slot: %w", err)
	}
	if exists == 0 {
		return ErrNoSlot
	}
	if _, err := tx.ExecContext(ctx, `UPDATE slots SET published = 0 WHERE page_id = ?`, pageID); err != nil {
		return fmt.Errorf("clear published: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE slots SET published = 1 WHERE page_id = ? AND slot = ?`, pageID, slot); err != nil {
		return fmt.Errorf("mark published: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit publish: %w", err)
	}
	w.log.Info("slot published", slog.String("page", pageID), slog.Int("slot", slot))
	return nil
}

// PublishedSlot returns the page's published snapshot, or ErrNoSlot when
// no slot carries the mark.
func (w *Workspace) PublishedSlot(ctx context.Context, pageID string) (int, layout.Snapshot, error) {
	var (
		slot int
		raw  string
	)
	err := w.db.QueryRowContext(ctx, `SELECT slot, snapshot FROM slots WHERE page_id = ? AND published = 1`, pageID).Scan(&slot, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, layout.Snapshot{}, ErrNoSlot
	}
	if err != nil {
		return 0, layout.Snapshot{}, fmt.Errorf("read published slot: %w", err)
	}
	var snap layout.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return 0, layout.Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	return slot, snap, nil
}
