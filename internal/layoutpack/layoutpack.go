/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package layoutpack bundles a page's layout slots into a portable .zip
// for hand-off and backup, and installs such packs into a workspace.
package layoutpack

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cardboard/internal/layout"
	applog "cardboard/internal/log"
	"cardboard/internal/storage"
)

const manifestName = "layoutpack.manifest.json"

// Manifest sits at the archive root and describes the packed slots.
type Manifest struct {
	PageID  string      `json:"pageId"`
	Created time.Time   `json:"created"`
	Slots   []SlotEntry `json:"slots"`
}

// SlotEntry names one packed slot and its file inside the archive.
type SlotEntry struct {
	Slot      int    `json:"slot"`
	Name      string `json:"name"`
	Published bool   `json:"published"`
	File      string `json:"file"`
}

// ExportPage zips every slot of one page plus a manifest into destZipPath.
// A page without slots still yields an archive with an empty manifest.
func ExportPage(ctx context.Context, w *storage.Workspace, pageID, destZipPath string) error {
	l := applog.WithOperation(applog.WithComponent("layoutpack"), "export").With(slog.String("page", pageID))
	if strings.TrimSpace(pageID) == "" {
		return errors.New("pageID is required")
	}
	if strings.TrimSpace(destZipPath) == "" {
		return errors.New("destZipPath is required")
	}

	infos, err := w.ListSlots(ctx, pageID)
	if err != nil {
		return fmt.Errorf("list slots: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(destZipPath), 0o755); err != nil {
		return fmt.Errorf("ensure zip dir: %w", err)
	}
	_ = os.Remove(destZipPath)

	zf, err := os.Create(destZipPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	defer func() { _ = zf.Close() }()
	zw := zip.NewWriter(zf)
	defer func() { _ = zw.Close() }()

	manifest := Manifest{PageID: pageID, Created: time.Now().UTC()}
	for _, info := range infos {
		snap, err := w.LoadSlot(ctx, pageID, info.Slot)
		if err != nil {
			return fmt.Errorf("load slot %d: %w", info.Slot, err)
		}
		fname := fmt.Sprintf("slots/slot-%d.json", info.Slot)
		fw, err := zw.Create(fname)
		if err != nil {
			return fmt.Errorf("add %s: %w", fname, err)
		}
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal slot %d: %w", info.Slot, err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("write %s: %w", fname, err)
		}
		manifest.Slots = append(manifest.Slots, SlotEntry{
			Slot: info.Slot, Name: info.Name, Published: info.Published, File: fname,
		})
	}

	mw, err := zw.Create(manifestName)
	if err != nil {
		return fmt.Errorf("add manifest: %w", err)
	}
	mb, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if _, err := mw.Write(mb); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	l.Info("layout pack exported", slog.Int("slots", len(manifest.Slots)), slog.String("zip", destZipPath))
	return nil
}

// InstallPack loads a pack's slots into the workspace under the manifest's
// page id. Slots that already exist locally are skipped, never overwritten;
// the slot limit still applies to the ones that are new. Returns the count
// of slots installed.
func InstallPack(ctx context.Context, w *storage.Workspace, packZipPath string) (int, error) {
	l := applog.WithOperation(applog.WithComponent("layoutpack"), "install")
	r, err := zip.OpenReader(packZipPath)
	if err != nil {
		return 0, fmt.Errorf("open pack: %w", err)
	}
	defer func() { _ = r.Close() }()

	var manifest *Manifest
	byName := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		byName[f.Name] = f
		if f.Name == manifestName {
			m, err := readManifest(f)
			if err != nil {
				return 0, err
			}
			manifest = m
		}
	}
	if manifest == nil {
		return 0, fmt.Errorf("pack has no %s", manifestName)
	}

	existing := map[int]bool{}
	infos, err := w.ListSlots(ctx, manifest.PageID)
	if err != nil {
		return 0, fmt.Errorf("list slots: %w", err)
	}
	for _, info := range infos {
		existing[info.Slot] = true
	}

	installed := 0
	for _, entry := range manifest.Slots {
		if existing[entry.Slot] {
			l.Warn("skip existing slot", slog.Int("slot", entry.Slot))
			continue
		}
		f, ok := byName[entry.File]
		if !ok {
			return installed, fmt.Errorf("pack missing %s", entry.File)
		}
		snap, err := readSnapshot(f)
		if err != nil {
			return installed, err
		}
		if err := w.SaveSlot(ctx, manifest.PageID, entry.Slot, entry.Name, snap); err != nil {
			return installed, fmt.Errorf("install slot %d: %w", entry.Slot, err)
		}
		installed++
	}
	l.Info("layout pack installed", slog.String("page", manifest.PageID), slog.Int("slots", installed))
	return installed, nil
}

func readManifest(f *zip.File) (*Manifest, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer func() { _ = rc.Close() }()
	b, err := io.ReadAll(io.LimitReader(rc, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

func readSnapshot(f *zip.File) (layout.Snapshot, error) {
	rc, err := f.Open()
	if err != nil {
		return layout.Snapshot{}, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()
	b, err := io.ReadAll(io.LimitReader(rc, 8<<20))
	if err != nil {
		return layout.Snapshot{}, fmt.Errorf("read %s: %w", f.Name, err)
	}
	var snap layout.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return layout.Snapshot{}, fmt.Errorf("parse %s: %w", f.Name, err)
	}
	return snap, nil
}
