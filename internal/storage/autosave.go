/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"cardboard/internal/layout"
)

const autosavePrefix = "autosave-"

// AutosaveSnapshot writes the live snapshot to a timestamped JSON file
// under the data dir so a crash never loses more than the last interval.
// The write is transactional: temp file, fsync, rename.
func AutosaveSnapshot(root, pageID string, snap layout.Snapshot) (string, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal autosave: %w", err)
	}
	dir := filepath.Join(root, DataDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	name := fmt.Sprintf("%s%s-%s.json", autosavePrefix, pageID, time.Now().UTC().Format("20060102-150405.000000000"))
	path := filepath.Join(dir, name)
	if err := writeFileSync(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// LatestAutosave returns the newest autosave snapshot for a page, or
// os.ErrNotExist when none was ever written.
func LatestAutosave(root, pageID string) (layout.Snapshot, error) {
	dir := filepath.Join(root, DataDirName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return layout.Snapshot{}, fmt.Errorf("read data dir: %w", err)
	}
	prefix := autosavePrefix + pageID + "-"
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return layout.Snapshot{}, os.ErrNotExist
	}
	sort.Strings(names) // timestamp format sorts lexicographically
	b, err := os.ReadFile(filepath.Join(dir, names[len(names)-1]))
	if err != nil {
		return layout.Snapshot{}, fmt.Errorf("read autosave: %w", err)
	}
	var snap layout.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return layout.Snapshot{}, fmt.Errorf("parse autosave: %w", err)
	}
	return snap, nil
}

// PruneAutosaves keeps the newest keepLast autosaves per page and removes
// the rest, returning how many files were deleted.
func PruneAutosaves(root, pageID string, keepLast int) (int, error) {
	dir := filepath.Join(root, DataDirName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read data dir: %w", err)
	}
	prefix := autosavePrefix + pageID + "-"
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if keepLast < 0 {
		keepLast = 0
	}
	if len(names) <= keepLast {
		return 0, nil
	}
	removed := 0
	for _, n := range names[:len(names)-keepLast] {
		if err := os.Remove(filepath.Join(dir, n)); err == nil {
			removed++
		}
	}
	return removed, nil
}

// writeFileSync writes data to path transactionally: a temp file in the
// same directory, fsync, then rename over the target.
func writeFileSync(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
