/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"cardboard/internal/backend"
	"cardboard/internal/config"
	"cardboard/internal/crash"
	"cardboard/internal/export"
	"cardboard/internal/layout"
	"cardboard/internal/layoutpack"
	applog "cardboard/internal/log"
	"cardboard/internal/storage"
	"cardboard/internal/telemetry"
	"cardboard/internal/version"
)

func usage() {
	fmt.Println("Cardboard — card layout editor")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  cardboard version|-v|--version                       Show version")
	fmt.Println("  cardboard init <dir>                                  Create a workspace at <dir>")
	fmt.Println("  cardboard slots <dir> <page>                          List layout slots for a page")
	fmt.Println("  cardboard save <dir> <page> <slot> <file.json> [name] Save a layout snapshot into a slot")
	fmt.Println("  cardboard load <dir> <page> <slot> [out.json]         Print or write a slot's snapshot")
	fmt.Println("  cardboard publish <dir> <page> <slot>                 Mark a slot as the published layout")
	fmt.Println("  cardboard wallpaper <dir> <page> [url [blur]]         Show or set a page wallpaper")
	fmt.Println("  cardboard export-pdf <dir> <page> <slot> <out.pdf>    Render a slot as a PDF proof sheet")
	fmt.Println("  cardboard export-pack <dir> <page> <out.zip>          Export a page's slots as a layout pack")
	fmt.Println("  cardboard install-pack <dir> <pack.zip>               Install slots from a layout pack")
	fmt.Println("  cardboard push <page> <file.json>                     Publish a snapshot to the backend")
	fmt.Println("  cardboard login <subject>                             Obtain and store a backend token")
	fmt.Println("  cardboard serve                                       Run the publishing backend")
}

func main() {
	applog.Init(applog.FromEnv())
	telemetry.InitDefault()
	defer telemetry.Close()
	l := applog.WithComponent("cli")

	var crashRoot, crashPage string
	var live *layout.Model
	defer func() { crash.Recover(crashRoot, crashPage, live) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}
	ctx := context.Background()

	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println(version.String())

	case "init":
		root := requireArgs(args, 3, "init requires <dir>")[0]
		abs, _ := filepath.Abs(root)
		l.Info("init workspace", slog.String("root", abs))
		w, err := storage.Init(abs)
		fatalOn(l, "init", err)
		defer w.Close()
		crashRoot = abs
		fmt.Println("Created workspace at", abs)

	case "slots":
		a := requireArgs(args, 4, "slots requires <dir> and <page>")
		w, abs := openWorkspace(l, a[0])
		defer w.Close()
		crashRoot = abs
		infos, err := w.ListSlots(ctx, a[1])
		fatalOn(l, "list slots", err)
		if len(infos) == 0 {
			fmt.Println("No slots saved for page", a[1])
			return
		}
		for _, s := range infos {
			mark := " "
			if s.Published {
				mark = "*"
			}
			fmt.Printf("%s slot %d  %-24s %s\n", mark, s.Slot, s.Name, s.UpdatedAt.Local().Format(time.RFC3339))
		}

	case "save":
		a := requireArgs(args, 6, "save requires <dir> <page> <slot> <file.json>")
		w, abs := openWorkspace(l, a[0])
		defer w.Close()
		crashRoot, crashPage = abs, a[1]
		slot := parseSlot(l, a[2])
		snap := readSnapshotFile(l, a[3])
		name := "slot " + a[2]
		if len(args) > 6 {
			name = args[6]
		}
		m := layout.NewModel()
		m.Restore(snap)
		live = m
		fatalOn(l, "save slot", w.SaveSlot(ctx, a[1], slot, name, snap))
		telemetry.Event("slot_saved", map[string]any{"slot": slot})
		fmt.Printf("Saved %d cards into slot %d of page %s\n", len(snap.Cards), slot, a[1])

	case "load":
		a := requireArgs(args, 5, "load requires <dir> <page> <slot>")
		w, abs := openWorkspace(l, a[0])
		defer w.Close()
		crashRoot = abs
		slot := parseSlot(l, a[2])
		snap, err := w.LoadSlot(ctx, a[1], slot)
		fatalOn(l, "load slot", err)
		data, err := json.MarshalIndent(snap, "", "  ")
		fatalOn(l, "encode snapshot", err)
		if len(args) > 5 {
			fatalOn(l, "write snapshot", os.WriteFile(args[5], data, 0o644))
			fmt.Println("Wrote", args[5])
			return
		}
		fmt.Println(string(data))

	case "publish":
		a := requireArgs(args, 5, "publish requires <dir> <page> <slot>")
		w, abs := openWorkspace(l, a[0])
		defer w.Close()
		crashRoot = abs
		slot := parseSlot(l, a[2])
		fatalOn(l, "publish slot", w.PublishSlot(ctx, a[1], slot))
		telemetry.Event("slot_published", map[string]any{"slot": slot})
		fmt.Printf("Slot %d is now the published layout of page %s\n", slot, a[1])

	case "wallpaper":
		a := requireArgs(args, 4, "wallpaper requires <dir> and <page>")
		w, abs := openWorkspace(l, a[0])
		defer w.Close()
		crashRoot = abs
		if len(args) <= 4 {
			wp, err := w.WallpaperFor(ctx, a[1])
			fatalOn(l, "resolve wallpaper", err)
			scope := "page"
			if wp.Universal {
				scope = "universal"
			}
			fmt.Printf("%s wallpaper: %s (blur %d)\n", scope, wp.URL, wp.Blur)
			return
		}
		wp := storage.Wallpaper{PageID: a[1], URL: args[4]}
		if len(args) > 5 {
			blur, err := strconv.Atoi(args[5])
			fatalOn(l, "parse blur", err)
			wp.Blur = blur
		}
		fatalOn(l, "set wallpaper", w.SetWallpaper(ctx, wp))
		fmt.Println("Wallpaper updated for page", a[1])

	case "export-pdf":
		a := requireArgs(args, 6, "export-pdf requires <dir> <page> <slot> <out.pdf>")
		w, abs := openWorkspace(l, a[0])
		defer w.Close()
		crashRoot = abs
		slot := parseSlot(l, a[2])
		snap, err := w.LoadSlot(ctx, a[1], slot)
		fatalOn(l, "load slot", err)
		opt := export.PDFOptions{Title: fmt.Sprintf("%s / slot %d", a[1], slot), ShowGrid: true, ShowLabel: true}
		fatalOn(l, "render pdf", export.ProofSheet(snap, a[3], opt))
		fmt.Println("Wrote", a[3])

	case "export-pack":
		a := requireArgs(args, 5, "export-pack requires <dir> <page> <out.zip>")
		w, abs := openWorkspace(l, a[0])
		defer w.Close()
		crashRoot = abs
		fatalOn(l, "export pack", layoutpack.ExportPage(ctx, w, a[1], a[2]))
		fmt.Println("Wrote", a[2])

	case "install-pack":
		a := requireArgs(args, 4, "install-pack requires <dir> <pack.zip>")
		w, abs := openWorkspace(l, a[0])
		defer w.Close()
		crashRoot = abs
		n, err := layoutpack.InstallPack(ctx, w, a[1])
		fatalOn(l, "install pack", err)
		fmt.Printf("Installed %d slot(s) from %s\n", n, a[1])

	case "push":
		a := requireArgs(args, 4, "push requires <page> <file.json>")
		snap := readSnapshotFile(l, a[1])
		cfg, token, err := config.Load()
		fatalOn(l, "load config", err)
		cli := backend.NewClient(cfg.Backend.BaseURL, token)
		ver, err := cli.PublishLayout(ctx, a[0], snap)
		fatalOn(l, "publish layout", err)
		fmt.Printf("Published page %s at version %d\n", a[0], ver)

	case "login":
		a := requireArgs(args, 3, "login requires <subject>")
		cfg, _, err := config.Load()
		fatalOn(l, "load config", err)
		cli := backend.NewClient(cfg.Backend.BaseURL, "")
		token, err := cli.RequestToken(ctx, a[0], 24*time.Hour)
		fatalOn(l, "request token", err)
		fatalOn(l, "store token", config.Save(cfg, token))
		fmt.Println("Token stored for", a[0])

	case "serve":
		fatalOn(l, "serve", backend.Start())

	default:
		usage()
		os.Exit(2)
	}
}

// requireArgs returns args[2:] when at least n arguments are present,
// otherwise prints msg plus usage and exits.
func requireArgs(args []string, n int, msg string) []string {
	if len(args) < n {
		fmt.Println(msg)
		usage()
		os.Exit(2)
	}
	return args[2:]
}

func openWorkspace(l *slog.Logger, dir string) (*storage.Workspace, string) {
	abs, _ := filepath.Abs(dir)
	w, err := storage.Open(abs)
	fatalOn(l, "open workspace", err)
	return w, abs
}

func parseSlot(l *slog.Logger, s string) int {
	slot, err := strconv.Atoi(s)
	fatalOn(l, "parse slot", err)
	return slot
}

func readSnapshotFile(l *slog.Logger, path string) layout.Snapshot {
	data, err := os.ReadFile(path)
	fatalOn(l, "read snapshot file", err)
	fatalOn(l, "validate snapshot", storage.ValidateSnapshotJSON(data))
	var snap layout.Snapshot
	fatalOn(l, "parse snapshot", json.Unmarshal(data, &snap))
	return snap
}

func fatalOn(l *slog.Logger, op string, err error) {
	if err == nil {
		return
	}
	l.Error(op+" failed", slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}
