/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

// Owner identifies which tool's configuration panel is visible.
type Owner uint8

const (
	OwnerNone Owner = iota
	OwnerPencil
	OwnerMove
	OwnerProperties
	OwnerSave
	OwnerConveyor
)

func (o Owner) String() string {
	switch o {
	case OwnerPencil:
		return "pencil"
	case OwnerMove:
		return "move"
	case OwnerProperties:
		return "properties"
	case OwnerSave:
		return "save"
	case OwnerConveyor:
		return "conveyor"
	}
	return "none"
}

// Pane arbitrates the settings panel: exactly one owner at a time, plus
// one deliberate exception — inside isolation Move's panel may stack on
// top of the owner's without displacing it. The pre-stack owner is kept
// so releasing the owner while stacked falls back to it instead of
// emptying the pane.
type Pane struct {
	owner       Owner
	stacked     bool
	beforeStack Owner
}

// claim hands ownership to a tool with configurable settings.
func (p *Pane) claim(o Owner) {
	p.owner = o
}

// release is called when the owning tool is deactivated: the pane empties
// unless stacking is in effect, in which case the pre-stack owner returns.
func (p *Pane) release() {
	if p.stacked {
		p.owner = p.beforeStack
		p.stacked = false
		return
	}
	p.owner = OwnerNone
}

// stack surfaces Move's panel above the current owner's. Legal only while
// a card is isolated; the caller enforces that.
func (p *Pane) stack() {
	if p.stacked {
		return
	}
	p.beforeStack = p.owner
	p.stacked = true
}

// unstack removes only the stacked portion, leaving ownership untouched.
func (p *Pane) unstack() {
	p.stacked = false
}
