/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"testing"

	"cardboard/internal/geometry"
	"cardboard/internal/layout"
)

func newTestEditor() *Editor {
	return New(Config{GridSpacing: 40, EdgeThreshold: 6})
}

// drawCard commits one card through the draw tool and returns its id.
func drawCard(t *testing.T, e *Editor, x1, y1, x2, y2 float64) string {
	t.Helper()
	if e.Tool() != ToolDraw {
		e.Activate(ToolDraw)
	}
	if id := e.DrawClick(x1, y1); id != "" {
		t.Fatalf("first corner unexpectedly committed a card")
	}
	id := e.DrawClick(x2, y2)
	if id == "" {
		t.Fatalf("second corner did not commit a card")
	}
	return id
}

func TestDrawTwoClicksCreatesSnappedCard(t *testing.T) {
	e := newTestEditor()
	id := drawCard(t, e, 100, 100, 300, 220)

	c := e.Model().Card(id)
	if c == nil {
		t.Fatalf("created card not found")
	}
	want := geometry.Points{
		{X: 100, Y: 100}, {X: 300, Y: 100}, {X: 300, Y: 220}, {X: 100, Y: 220},
	}
	if c.Points != want {
		t.Fatalf("corners = %v, want %v", c.Points, want)
	}
	if _, ok := e.PendingCorner(); ok {
		t.Fatalf("pending corner not cleared after commit")
	}
}

func TestDrawSnapsOffGridClicks(t *testing.T) {
	e := newTestEditor()
	e.Activate(ToolDraw)
	e.DrawClick(95, 118) // snaps to (100, 100) on the half-offset lattice
	p, ok := e.PendingCorner()
	if !ok {
		t.Fatalf("no pending corner")
	}
	if p.X != 100 || p.Y != 100 {
		t.Fatalf("pending corner = %v, want (100, 100)", p)
	}
}

func TestDrawDegenerateAxisReplacesPending(t *testing.T) {
	e := newTestEditor()
	e.Activate(ToolDraw)
	e.DrawClick(100, 100)
	if id := e.DrawClick(100, 220); id != "" {
		t.Fatalf("shared-axis corner committed a card")
	}
	p, _ := e.PendingCorner()
	if p.X != 100 || p.Y != 220 {
		t.Fatalf("pending corner = %v, want replacement (100, 220)", p)
	}
	// a valid second corner now completes against the replacement
	if id := e.DrawClick(300, 100); id == "" {
		t.Fatalf("replacement corner did not complete a card")
	}
}

func TestDrawRejectsOverlap(t *testing.T) {
	e := newTestEditor()
	drawCard(t, e, 100, 100, 300, 220)

	// first corner inside the existing card is refused outright
	e.DrawClick(180, 140)
	if _, ok := e.PendingCorner(); ok {
		t.Fatalf("corner inside an existing card was accepted")
	}

	// rectangle whose far corner lands inside is rejected, pending kept
	e.DrawClick(20, 20)
	if id := e.DrawClick(140, 140); id != "" {
		t.Fatalf("overlapping rectangle was committed")
	}
	if _, ok := e.PendingCorner(); !ok {
		t.Fatalf("pending corner dropped on overlap rejection")
	}
}

func TestDrawClickOnCardTogglesStyleTarget(t *testing.T) {
	e := newTestEditor()
	id := drawCard(t, e, 100, 100, 300, 220)

	e.DrawClick(180, 140)
	if e.StyleTarget() != id {
		t.Fatalf("style target = %q, want %q", e.StyleTarget(), id)
	}
	if e.StylePreview() == nil {
		t.Fatalf("style preview buffer not loaded")
	}
	e.DrawClick(180, 140)
	if e.StyleTarget() != "" {
		t.Fatalf("second click did not deselect the style target")
	}
}

func TestApplyStyleCommitsAndFeedsStyleLock(t *testing.T) {
	e := newTestEditor()
	id := drawCard(t, e, 100, 100, 300, 220)

	e.DrawClick(180, 140)
	s := *e.StylePreview()
	s.Background = "#112233"
	e.PreviewStyle(s)
	if e.Model().Card(id).Style.Background == "#112233" {
		t.Fatalf("preview leaked into the model before apply")
	}
	if !e.ApplyStyle() {
		t.Fatalf("ApplyStyle did not commit")
	}
	if got := e.Model().Card(id).Style.Background; got != "#112233" {
		t.Fatalf("background = %q after apply", got)
	}

	e.SetStyleLock(true)
	id2 := drawCard(t, e, 400, 100, 600, 220)
	if got := e.Model().Card(id2).Style.Background; got != "#112233" {
		t.Fatalf("style lock did not carry the last style, got %q", got)
	}
	if !e.Undo() {
		t.Fatalf("undo failed")
	}
	if e.Model().Card(id2) != nil {
		t.Fatalf("undo did not remove the locked-style card")
	}
}

func TestMoveCommitSnapsOffsetToGridMultiple(t *testing.T) {
	e := newTestEditor()
	id := drawCard(t, e, 100, 100, 300, 220)

	e.Activate(ToolMove)
	if !e.BeginMove(150, 150) {
		t.Fatalf("BeginMove missed the card")
	}
	e.DragTo(187, 155) // raw offset (37, 5) snaps to (40, 0)
	if _, dx, dy, ok := e.DragPreview(); !ok || dx != 37 || dy != 5 {
		t.Fatalf("preview offset = (%v, %v), want raw (37, 5)", dx, dy)
	}
	if !e.EndMove() {
		t.Fatalf("EndMove recorded nothing")
	}
	b := e.Model().Card(id).Bounds()
	if b.MinX != 140 || b.MinY != 100 {
		t.Fatalf("card at (%v, %v), want (140, 100)", b.MinX, b.MinY)
	}
	if !e.History().CanUndo(e.Model()) {
		t.Fatalf("move did not reach the history")
	}
}

func TestMoveSubHalfUnitOffsetRecordsNoAction(t *testing.T) {
	e := newTestEditor()
	drawCard(t, e, 100, 100, 300, 220)

	e.Activate(ToolMove)
	e.BeginMove(150, 150)
	e.DragTo(165, 158) // (15, 8) snaps to (0, 0)
	if e.EndMove() {
		t.Fatalf("zero snapped offset committed an action")
	}
	if got := e.History().Len(); got != 1 {
		t.Fatalf("history length = %d, want 1 (create only)", got)
	}
}

func TestMoveCancelLeavesModelUntouched(t *testing.T) {
	e := newTestEditor()
	id := drawCard(t, e, 100, 100, 300, 220)

	e.Activate(ToolMove)
	e.BeginMove(150, 150)
	e.DragTo(400, 400)
	e.CancelMove()
	if b := e.Model().Card(id).Bounds(); b.MinX != 100 || b.MinY != 100 {
		t.Fatalf("cancelled drag moved the card to (%v, %v)", b.MinX, b.MinY)
	}
	if e.EndMove() {
		t.Fatalf("EndMove after cancel committed something")
	}
}

func TestResizeSnapsAndClampsAtOneGridUnit(t *testing.T) {
	e := newTestEditor()
	id := drawCard(t, e, 100, 100, 300, 220)

	e.Activate(ToolResize)
	if hid, edge := e.HoverEdge(200, 222); hid != id || edge != geometry.EdgeBottom {
		t.Fatalf("hover = (%q, %v), want bottom edge of %q", hid, edge, id)
	}
	if !e.BeginResize(200, 222) {
		t.Fatalf("BeginResize missed the edge")
	}
	e.ResizeTo(200, 271) // bottom bound snaps to 260
	if !e.EndResize() {
		t.Fatalf("EndResize recorded nothing")
	}
	if b := e.Model().Card(id).Bounds(); b.MaxY != 260 {
		t.Fatalf("bottom bound = %v, want 260", b.MaxY)
	}

	// dragging the bottom edge past the top clamps one grid unit away
	e.BeginResize(200, 260)
	e.ResizeTo(200, 50)
	e.EndResize()
	if b := e.Model().Card(id).Bounds(); b.MaxY != b.MinY+40 {
		t.Fatalf("height = %v, want one grid unit", b.Height())
	}
}

func TestResizeUndoRestoresOriginalCorners(t *testing.T) {
	e := newTestEditor()
	id := drawCard(t, e, 100, 100, 300, 220)
	orig := e.Model().Card(id).Points

	e.Activate(ToolResize)
	e.BeginResize(300, 160) // right edge
	e.ResizeTo(383, 160)
	if !e.EndResize() {
		t.Fatalf("resize not committed")
	}
	if b := e.Model().Card(id).Bounds(); b.MaxX != 380 {
		t.Fatalf("right bound = %v, want 380", b.MaxX)
	}
	e.Undo()
	if e.Model().Card(id).Points != orig {
		t.Fatalf("undo did not restore the original corners")
	}
}

func TestEraseDeletesTopmostAndUndoRestoresStacking(t *testing.T) {
	e := newTestEditor()
	a := drawCard(t, e, 100, 100, 300, 220)
	e.Model().Insert(-1, layout.Card{
		ID:     "b",
		Points: geometry.RectFromCorners(geometry.Point{X: 180, Y: 140}, geometry.Point{X: 420, Y: 300}),
		Style:  layout.DefaultStyle(),
	})

	e.Activate(ToolErase)
	if !e.EraseAt(200, 160) {
		t.Fatalf("erase missed")
	}
	if e.Model().Card("b") != nil {
		t.Fatalf("erase removed the wrong card; topmost should go first")
	}
	if e.Model().Card(a) == nil {
		t.Fatalf("underlying card vanished")
	}
	e.Undo()
	if top := e.Model().CardAt(geometry.Point{X: 200, Y: 160}); top == nil || top.ID != "b" {
		t.Fatalf("undo did not restore the deleted card on top")
	}
}

func TestDeleteAllCardsSingleUndoRestoresPage(t *testing.T) {
	e := newTestEditor()
	drawCard(t, e, 100, 100, 300, 220)
	drawCard(t, e, 340, 100, 500, 220)

	e.DeleteAllCards()
	if len(e.Model().Cards) != 0 {
		t.Fatalf("wipe left %d cards", len(e.Model().Cards))
	}
	if !e.Undo() {
		t.Fatalf("undo after wipe failed")
	}
	if len(e.Model().Cards) != 2 {
		t.Fatalf("restored %d cards, want 2", len(e.Model().Cards))
	}
}

func TestToolsAreMutuallyExclusive(t *testing.T) {
	e := newTestEditor()
	e.Activate(ToolDraw)
	e.Activate(ToolErase)
	if e.Tool() != ToolErase {
		t.Fatalf("tool = %v, want erase", e.Tool())
	}
	e.Activate(ToolErase)
	if e.Tool() != ToolNone {
		t.Fatalf("re-activating the active tool should deactivate, got %v", e.Tool())
	}
}

func TestSwitchingToolsClearsPendingCorner(t *testing.T) {
	e := newTestEditor()
	e.Activate(ToolDraw)
	e.DrawClick(100, 100)
	e.Activate(ToolMove)
	e.Activate(ToolDraw)
	if _, ok := e.PendingCorner(); ok {
		t.Fatalf("pending corner survived a tool switch")
	}
}

func TestPaneOwnershipFollowsSettingsTools(t *testing.T) {
	e := newTestEditor()
	e.Activate(ToolDraw)
	if e.PaneOwner() != OwnerPencil {
		t.Fatalf("owner = %v, want pencil", e.PaneOwner())
	}
	// a tool without settings leaves the previous owner in place
	e.Activate(ToolErase)
	if e.PaneOwner() != OwnerPencil {
		t.Fatalf("no-settings tool changed the owner to %v", e.PaneOwner())
	}
	// only toggling the owning tool off releases the pane
	e.Activate(ToolDraw)
	e.Activate(ToolDraw)
	if e.PaneOwner() != OwnerNone {
		t.Fatalf("toggle-off left owner %v", e.PaneOwner())
	}
}

func TestSavePanelClaimsPane(t *testing.T) {
	e := newTestEditor()
	e.Activate(ToolProperties)
	e.OpenSavePanel()
	if e.PaneOwner() != OwnerSave {
		t.Fatalf("owner = %v, want save", e.PaneOwner())
	}
}

func TestMoveToggleOutsideIsolation(t *testing.T) {
	e := newTestEditor()
	e.Activate(ToolMove)
	if e.Tool() != ToolMove || e.PaneOwner() != OwnerMove {
		t.Fatalf("move activation: tool=%v owner=%v", e.Tool(), e.PaneOwner())
	}
	e.Activate(ToolMove)
	if e.Tool() != ToolNone || e.PaneOwner() != OwnerNone {
		t.Fatalf("move toggle-off: tool=%v owner=%v", e.Tool(), e.PaneOwner())
	}
}

func TestMoveThreeStateCycleInsideIsolation(t *testing.T) {
	e := newTestEditor()
	id := drawCard(t, e, 100, 100, 300, 220)
	e.Activate(ToolProperties)
	if !e.Isolate(id) {
		t.Fatalf("isolate failed")
	}

	// click 1: move becomes active, owner untouched
	e.Activate(ToolMove)
	if e.Tool() != ToolMove || e.PaneStacked() || e.PaneOwner() != OwnerProperties {
		t.Fatalf("cycle 1: tool=%v stacked=%v owner=%v", e.Tool(), e.PaneStacked(), e.PaneOwner())
	}
	// click 2: panel stacks on top of the owner's
	e.Activate(ToolMove)
	if e.Tool() != ToolMove || !e.PaneStacked() || e.PaneOwner() != OwnerProperties {
		t.Fatalf("cycle 2: tool=%v stacked=%v owner=%v", e.Tool(), e.PaneStacked(), e.PaneOwner())
	}
	// click 3: deactivates and removes only the stacked portion
	e.Activate(ToolMove)
	if e.Tool() != ToolNone || e.PaneStacked() || e.PaneOwner() != OwnerProperties {
		t.Fatalf("cycle 3: tool=%v stacked=%v owner=%v", e.Tool(), e.PaneStacked(), e.PaneOwner())
	}
}

func TestOverlayUnavailableWhileIsolated(t *testing.T) {
	e := newTestEditor()
	id := drawCard(t, e, 100, 100, 300, 220)

	e.ToggleOverlay()
	if !e.OverlayActive() {
		t.Fatalf("overlay did not switch on")
	}
	e.Isolate(id)
	if e.OverlayActive() {
		t.Fatalf("isolation did not force the overlay off")
	}
	e.ToggleOverlay()
	if e.OverlayActive() {
		t.Fatalf("overlay toggled on while isolated")
	}
	e.ExitIsolation()
	e.ToggleOverlay()
	if !e.OverlayActive() {
		t.Fatalf("overlay stayed unavailable after leaving isolation")
	}
}

func TestEscapePriorityOrder(t *testing.T) {
	e := newTestEditor()
	id := drawCard(t, e, 100, 100, 300, 220)
	e.Isolate(id)

	e.Activate(ToolDraw)
	e.DrawClick(400, 400)
	e.Escape()
	if _, ok := e.PendingCorner(); ok {
		t.Fatalf("escape did not clear the pending corner first")
	}
	if e.IsolatedCard() != id {
		t.Fatalf("escape with pending corner also left isolation")
	}
	e.Escape()
	if e.IsolatedCard() != "" {
		t.Fatalf("second escape did not leave isolation")
	}
}

func TestIsolationElementOperations(t *testing.T) {
	e := newTestEditor()
	id := drawCard(t, e, 100, 100, 300, 220)

	if _, err := e.AddTextBox(layout.Rel{X: 10, Y: 10, W: 80, H: 30}); err != ErrNotIsolated {
		t.Fatalf("AddTextBox outside isolation: err = %v", err)
	}
	e.Isolate(id)

	boxID, err := e.AddTextBox(layout.Rel{X: 10, Y: 10, W: 80, H: 30})
	if err != nil {
		t.Fatalf("AddTextBox: %v", err)
	}
	if err := e.SetTextContent(boxID, "hello"); err != nil {
		t.Fatalf("SetTextContent: %v", err)
	}
	if err := e.CommitTextBoxMove(boxID, 20, 5); err != nil {
		t.Fatalf("CommitTextBoxMove: %v", err)
	}
	c := e.Model().Card(id)
	if c.TextBoxes[0].Rect.X != 30 || c.TextBoxes[0].Content != "hello" {
		t.Fatalf("textbox state = %+v", c.TextBoxes[0])
	}

	// typing is not undoable; the move is
	e.Undo()
	c = e.Model().Card(id)
	if c.TextBoxes[0].Rect.X != 10 || c.TextBoxes[0].Content != "hello" {
		t.Fatalf("undo of move: %+v", c.TextBoxes[0])
	}

	if err := e.DeleteTextBox(boxID); err != nil {
		t.Fatalf("DeleteTextBox: %v", err)
	}
	if len(e.Model().Card(id).TextBoxes) != 0 {
		t.Fatalf("textbox not removed")
	}
	e.Undo()
	if len(e.Model().Card(id).TextBoxes) != 1 {
		t.Fatalf("undo did not restore the textbox")
	}
}

func TestImageSlotLifecycle(t *testing.T) {
	e := newTestEditor()
	id := drawCard(t, e, 100, 100, 300, 220)
	e.Isolate(id)

	slotID, err := e.AddImageSlot(layout.Rel{X: 5, Y: 5, W: 60, H: 60})
	if err != nil {
		t.Fatalf("AddImageSlot: %v", err)
	}
	histLen := e.History().Len()

	// assign and clear are direct mutations, not actions
	if err := e.AssignImage(slotID, "https://img.example/a.png", "a"); err != nil {
		t.Fatalf("AssignImage: %v", err)
	}
	if err := e.ClearImage(slotID); err != nil {
		t.Fatalf("ClearImage: %v", err)
	}
	if got := e.History().Len(); got != histLen {
		t.Fatalf("assign/clear grew the history from %d to %d", histLen, got)
	}
	if !e.Model().Card(id).Images[0].Empty() {
		t.Fatalf("slot not cleared")
	}

	// delete removes slot and element as one undoable action
	e.AssignImage(slotID, "https://img.example/b.png", "b")
	if err := e.DeleteImage(slotID); err != nil {
		t.Fatalf("DeleteImage: %v", err)
	}
	if len(e.Model().Card(id).Images) != 0 {
		t.Fatalf("slot survived deletion")
	}
	e.Undo()
	imgs := e.Model().Card(id).Images
	if len(imgs) != 1 || imgs[0].URL != "https://img.example/b.png" {
		t.Fatalf("undo did not restore slot with its assignment: %+v", imgs)
	}
}

func TestEraseElementInsideIsolation(t *testing.T) {
	e := newTestEditor()
	id := drawCard(t, e, 100, 100, 300, 220)
	e.Isolate(id)
	boxID, _ := e.AddTextBox(layout.Rel{X: 10, Y: 10, W: 80, H: 30})
	_ = boxID

	e.Activate(ToolErase)
	if e.EraseAt(120, 120) {
		t.Fatalf("page-level erase ran inside isolation")
	}
	if !e.EraseElementAt(120, 120) {
		t.Fatalf("element erase missed the textbox")
	}
	if len(e.Model().Card(id).TextBoxes) != 0 {
		t.Fatalf("textbox survived element erase")
	}
}

func TestUpdateSettingsBypassesHistory(t *testing.T) {
	e := newTestEditor()
	drawCard(t, e, 100, 100, 300, 220)
	before := e.History().Len()

	s := e.Model().Settings
	s.ScrollRatio = 3
	e.UpdateSettings(s)
	if e.Model().Settings.ScrollRatio != 3 {
		t.Fatalf("settings not applied")
	}
	if e.History().Len() != before {
		t.Fatalf("settings change entered the history")
	}
	e.Undo()
	if e.Model().Settings.ScrollRatio != 3 {
		t.Fatalf("undo rolled back a settings change")
	}
}
