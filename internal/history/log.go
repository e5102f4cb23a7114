/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package history

import (
	"log/slog"

	"cardboard/internal/layout"
	applog "cardboard/internal/log"
)

// Log is a linear, append-only action log with a cursor. Actions before
// the cursor are undoable; actions at or after it are redoable. Recording
// a new action while redoable actions exist discards them.
//
// A separate wipe backup holds the full card set removed by "delete all";
// undo on an empty model prefers restoring that backup over walking the
// per-action log, and consumes it in the process.
type Log struct {
	actions []Action
	cursor  int
	wipe    []layout.Card
	log     *slog.Logger
}

// NewLog returns an empty history log.
func NewLog() *Log {
	return &Log{log: applog.WithComponent("history")}
}

// Do applies the action to the model and records it, discarding any
// redoable tail first.
func (l *Log) Do(a Action, m *layout.Model) {
	if l.cursor < len(l.actions) {
		l.actions = l.actions[:l.cursor]
	}
	a.Apply(m)
	l.actions = append(l.actions, a)
	l.cursor = len(l.actions)
	l.log.Debug("action recorded", slog.String("action", a.Name()), slog.Int("depth", l.cursor))
}

// Undo reverts the action immediately before the cursor. At the boundary
// it is a no-op. When the model is empty and a wipe backup exists, the
// backup is restored wholesale instead and cleared.
func (l *Log) Undo(m *layout.Model) bool {
	if len(m.Cards) == 0 && l.wipe != nil {
		m.Cards = l.wipe
		l.wipe = nil
		l.log.Debug("wipe backup restored", slog.Int("cards", len(m.Cards)))
		return true
	}
	if l.cursor == 0 {
		return false
	}
	l.cursor--
	a := l.actions[l.cursor]
	a.Revert(m)
	l.log.Debug("action undone", slog.String("action", a.Name()), slog.Int("depth", l.cursor))
	return true
}

// Redo reapplies the action at the cursor; a no-op at the head.
func (l *Log) Redo(m *layout.Model) bool {
	if l.cursor >= len(l.actions) {
		return false
	}
	a := l.actions[l.cursor]
	a.Apply(m)
	l.cursor++
	l.log.Debug("action redone", slog.String("action", a.Name()), slog.Int("depth", l.cursor))
	return true
}

// SetWipeBackup stores the full removed card set from a "delete all"
// operation for one-shot restoration. It replaces any previous backup.
func (l *Log) SetWipeBackup(cards []layout.Card) {
	backup := make([]layout.Card, len(cards))
	for i := range cards {
		backup[i] = cards[i].Clone()
	}
	l.wipe = backup
}

// Len returns the number of recorded actions.
func (l *Log) Len() int { return len(l.actions) }

// Cursor returns the current cursor position (undoable action count).
func (l *Log) Cursor() int { return l.cursor }

// CanUndo reports whether Undo would change the model.
func (l *Log) CanUndo(m *layout.Model) bool {
	return l.cursor > 0 || (len(m.Cards) == 0 && l.wipe != nil)
}

// CanRedo reports whether a redoable action exists.
func (l *Log) CanRedo() bool { return l.cursor < len(l.actions) }

// Names lists the recorded action names in order, for diagnostics.
func (l *Log) Names() []string {
	out := make([]string, len(l.actions))
	for i, a := range l.actions {
		out[i] = a.Name()
	}
	return out
}
