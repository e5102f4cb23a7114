/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"log/slog"

	"cardboard/internal/geometry"
	"cardboard/internal/history"
)

// EraseAt deletes the topmost card under the point. Inside isolation the
// erase tool works on elements instead and this page-level form refuses.
func (e *Editor) EraseAt(x, y float64) bool {
	if e.tool != ToolErase || e.isolated != "" {
		return false
	}
	c := e.model.CardAt(geometry.Point{X: x, Y: y})
	if c == nil {
		return false
	}
	idx := e.model.IndexOf(c.ID)
	e.hist.Do(history.DeleteCard{Card: c.Clone(), Index: idx}, e.model)
	e.log.Info("card deleted", slog.String("id", c.ID))
	return true
}

// DeleteAllCards wipes the page in one stroke. The wipe is not an action:
// it is kept as a whole-page backup that a single undo restores.
func (e *Editor) DeleteAllCards() {
	if len(e.model.Cards) == 0 {
		return
	}
	e.clearTransient()
	e.hist.SetWipeBackup(e.model.Cards)
	e.model.Cards = nil
	if e.isolated != "" {
		e.isolated = ""
		e.selectedElement = ""
		e.pane.unstack()
	}
	e.log.Info("page wiped")
}
