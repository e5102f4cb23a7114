/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q)=%v want %v", in, got, want)
		}
	}
}

func TestConsoleHandlerOutput(t *testing.T) {
	var sb strings.Builder
	h := &consoleHandler{level: slog.LevelDebug, w: &sb}
	logger := slog.New(h).With(slog.String("component", "editor"))
	logger.Info("card created", slog.String("id", "c1"), slog.Int("cards", 3))

	out := sb.String()
	for _, want := range []string{"INF", "card created", "component=editor", "id=c1", "cards=3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q: %s", want, out)
		}
	}
}

func TestConsoleHandlerGroups(t *testing.T) {
	var sb strings.Builder
	h := &consoleHandler{level: slog.LevelDebug, w: &sb}
	logger := slog.New(h).WithGroup("pane")
	logger.Info("owner changed", slog.String("owner", "move"))
	if !strings.Contains(sb.String(), "pane.owner=move") {
		t.Fatalf("group prefix missing: %s", sb.String())
	}
}

func TestConsoleHandlerLevelFilter(t *testing.T) {
	var sb strings.Builder
	h := &consoleHandler{level: slog.LevelWarn, w: &sb}
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info should be filtered at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("error should pass at warn level")
	}
}

func TestInitAndComponent(t *testing.T) {
	Init(Options{Level: "debug", Format: "console"})
	l := WithComponent("test")
	if l == nil {
		t.Fatalf("expected logger")
	}
	WithOperation(l, "op").Debug("noop")
}
