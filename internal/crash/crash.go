/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns an unrecovered panic into a crash report on disk,
// an emergency autosave of the open layout, and a non-zero exit.
package crash

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"cardboard/internal/layout"
	applog "cardboard/internal/log"
	"cardboard/internal/storage"
	"cardboard/internal/telemetry"
	"cardboard/internal/version"
)

// exitFn is swapped out in tests.
var exitFn = os.Exit

// Recover is meant to be deferred at the top of main. When the program
// panics it writes a crash report, autosaves the open page if one is
// loaded, and exits with status 2. root may be empty when no workspace
// is open; the report then lands in the OS temp dir.
func Recover(root, pageID string, m *layout.Model) {
	r := recover()
	if r == nil {
		return
	}
	stack := debug.Stack()
	log := applog.WithComponent("crash")
	log.Error("panic", "panic", fmt.Sprint(r))

	reportPath, report, rerr := writeReport(root, r, stack)
	if rerr != nil {
		log.Error("crash report write failed", "error", rerr)
	}

	if m != nil && pageID != "" && root != "" {
		if path, err := storage.AutosaveSnapshot(root, pageID, m.Snapshot()); err != nil {
			log.Error("crash autosave failed", "error", err)
			fmt.Fprintln(os.Stderr, "cardboard: crash autosave failed:", err)
		} else {
			fmt.Fprintln(os.Stderr, "cardboard: layout autosaved to", path)
		}
	}

	telemetry.UploadCrash(report)

	fmt.Fprintln(os.Stderr, "cardboard: a fatal error occurred:", r)
	if reportPath != "" {
		fmt.Fprintln(os.Stderr, "cardboard: crash report written to", reportPath)
	}
	exitFn(2)
}

// writeReport writes the crash report beside the workspace data when a
// root is known, otherwise to the temp dir, and returns the path along
// with the serialized report.
func writeReport(root string, cause any, stack []byte) (string, []byte, error) {
	now := time.Now()
	report := fmt.Sprintf(
		"cardboard crash report\ntime: %s\nversion: %s\nplatform: %s/%s\nworkspace: %s\npanic: %v\n\n%s",
		now.UTC().Format(time.RFC3339),
		version.String(),
		runtime.GOOS, runtime.GOARCH,
		root,
		cause,
		stack,
	)

	dir := os.TempDir()
	if root != "" {
		d := filepath.Join(root, storage.DataDirName)
		if err := os.MkdirAll(d, 0o755); err == nil {
			dir = d
		}
	}
	path := filepath.Join(dir, fmt.Sprintf("crash-%s.log", now.Format("20060102-150405")))
	if err := os.WriteFile(path, []byte(report), 0o600); err != nil {
		return "", []byte(report), fmt.Errorf("write crash report: %w", err)
	}
	return path, []byte(report), nil
}
