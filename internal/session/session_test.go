/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package session

import (
	"image"
	"io"
	"log/slog"
	"testing"

	"goflyer/internal/domain"
	"goflyer/internal/layout"
	"goflyer/internal/textlayout"
	"goflyer/internal/vector"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return New(Options{
		ID:        "test",
		Projector: layout.NewProjector(textlayout.BasicProvider{}, nil),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestAddTextUsesDefaults(t *testing.T) {
	s := newTestSession(t)
	el, ok := s.AddText("  HELLO  ")
	if !ok {
		t.Fatalf("expected caption to be added")
	}
	if el.ID != "text-0" || el.Text != "HELLO" || el.X != 540 || el.Y != 810 || el.Width != 864 || el.FontSize != 42 {
		t.Fatalf("unexpected caption: %+v", el)
	}
	if _, ok := s.AddText("   "); ok {
		t.Fatalf("blank input must be ignored")
	}
	el2, _ := s.AddText("WORLD")
	if el2.ID != "text-1" {
		t.Fatalf("expected text-1, got %s", el2.ID)
	}
	if n := len(s.Snapshot().TextElements); n != 2 {
		t.Fatalf("expected 2 captions, got %d", n)
	}
}

func TestInitialScaleIsHalf(t *testing.T) {
	s := newTestSession(t)
	if s.Scale() != 0.5 {
		t.Fatalf("expected initial scale 0.5, got %v", s.Scale())
	}
	l := s.Layout()
	if l.Size.W != 540 || l.Size.H != 540 {
		t.Fatalf("unexpected display size %+v", l.Size)
	}
}

func TestDragCommitsOnRelease(t *testing.T) {
	s := newTestSession(t)
	s.AddText("HELLO")
	if !s.PointerDown(vector.Pt{X: 270, Y: 405}) {
		t.Fatalf("expected drag to start on caption")
	}
	if id, ok := s.Dragging(); !ok || id != "text-0" {
		t.Fatalf("expected dragging text-0, got %q %v", id, ok)
	}
	s.PointerMove(vector.Pt{X: 320, Y: 405})
	if x := s.Snapshot().TextElements[0].X; x != 540 {
		t.Fatalf("model must not change during drag, got x=%v", x)
	}
	if tl, _ := s.Layout().Text("text-0"); tl.Center.X != 320 {
		t.Fatalf("display should follow pointer, got %+v", tl.Center)
	}
	s.PointerUp()
	el := s.Snapshot().TextElements[0]
	if el.X != 640 || el.Y != 810 {
		t.Fatalf("expected (640,810) after release, got (%v,%v)", el.X, el.Y)
	}
	if _, ok := s.Dragging(); ok {
		t.Fatalf("drag should be over")
	}
}

func TestDragKeepsGrabOffset(t *testing.T) {
	s := newTestSession(t)
	s.AddText("HELLO")
	s.PointerDown(vector.Pt{X: 280, Y: 410})
	s.PointerMove(vector.Pt{X: 330, Y: 410})
	tl, _ := s.Layout().Text("text-0")
	if !tl.Center.Near(vector.Pt{X: 320, Y: 405}, 1e-9) {
		t.Fatalf("grab offset not preserved: %+v", tl.Center)
	}
	s.PointerLeave()
	el := s.Snapshot().TextElements[0]
	if el.X != 640 || el.Y != 810 {
		t.Fatalf("expected (640,810), got (%v,%v)", el.X, el.Y)
	}
}

func TestPointerDownOutsideCaptionIsIgnored(t *testing.T) {
	s := newTestSession(t)
	s.AddText("HELLO")
	if s.PointerDown(vector.Pt{X: 10, Y: 10}) {
		t.Fatalf("no caption under pointer")
	}
	if s.PointerMove(vector.Pt{X: 20, Y: 20}) {
		t.Fatalf("move without drag must be ignored")
	}
}

func TestReleaseAfterDeletionIsNoop(t *testing.T) {
	s := newTestSession(t)
	s.AddText("HELLO")
	s.PointerDown(vector.Pt{X: 270, Y: 405})
	s.PointerMove(vector.Pt{X: 300, Y: 405})
	s.mu.Lock()
	s.state.Remove("text-0")
	s.mu.Unlock()
	s.PointerUp()
	if n := len(s.Snapshot().TextElements); n != 0 {
		t.Fatalf("deleted caption must stay deleted, got %d", n)
	}
}

func TestMultiTouchIsIgnored(t *testing.T) {
	s := newTestSession(t)
	s.AddText("HELLO")
	two := []vector.Pt{{X: 270, Y: 405}, {X: 100, Y: 100}}
	if s.TouchStart(two) {
		t.Fatalf("two-finger touch must not start a drag")
	}
	if !s.TouchStart([]vector.Pt{{X: 270, Y: 405}}) {
		t.Fatalf("single touch should start a drag")
	}
	if s.TouchMove(two) {
		t.Fatalf("multi-touch move must be ignored")
	}
	s.TouchMove([]vector.Pt{{X: 270, Y: 455}})
	s.TouchEnd()
	if y := s.Snapshot().TextElements[0].Y; y != 910 {
		t.Fatalf("expected y=910, got %v", y)
	}
}

func TestEditCommitTrimsAndKeepsIdentity(t *testing.T) {
	s := newTestSession(t)
	s.AddText("HELLO")
	if !s.BeginEdit("text-0") {
		t.Fatalf("expected edit mode")
	}
	s.EditInput("  WORLD ")
	if tl, _ := s.Layout().Text("text-0"); tl.Text != "  WORLD " {
		t.Fatalf("display should show in-progress text, got %q", tl.Text)
	}
	if s.Snapshot().TextElements[0].Text != "HELLO" {
		t.Fatalf("model must not change before commit")
	}
	s.EditKey(KeyEnter)
	el := s.Snapshot().TextElements[0]
	if el.ID != "text-0" || el.Text != "WORLD" || el.FontSize != 42 || el.Width != 864 {
		t.Fatalf("unexpected caption after edit: %+v", el)
	}
	if _, ok := s.Editing(); ok {
		t.Fatalf("edit mode should be over")
	}
}

func TestEditToEmptyDeletes(t *testing.T) {
	s := newTestSession(t)
	s.AddText("HELLO")
	s.AddText("KEEP")
	renders := 0
	s.OnRender(func(layout.Layout) { renders++ })
	s.BeginEdit("text-0")
	s.EditInput("   ")
	before := renders
	s.Blur()
	if renders != before+1 {
		t.Fatalf("commit must render once, got %d", renders-before)
	}
	st := s.Snapshot()
	if len(st.TextElements) != 1 || st.TextElements[0].ID != "text-1" {
		t.Fatalf("expected only text-1 to remain, got %+v", st.TextElements)
	}
}

func TestEscapeRevertsEdit(t *testing.T) {
	s := newTestSession(t)
	s.AddText("HELLO")
	s.BeginEdit("text-0")
	s.EditInput("")
	s.EditKey(KeyEscape)
	st := s.Snapshot()
	if len(st.TextElements) != 1 || st.TextElements[0].Text != "HELLO" {
		t.Fatalf("escape should keep original text, got %+v", st.TextElements)
	}
}

func TestDragBlockedWhileEditing(t *testing.T) {
	s := newTestSession(t)
	s.AddText("HELLO")
	s.BeginEditAt(vector.Pt{X: 270, Y: 405})
	if s.PointerDown(vector.Pt{X: 270, Y: 405}) {
		t.Fatalf("drag must not start while editing")
	}
	s.Blur()
	if !s.PointerDown(vector.Pt{X: 270, Y: 405}) {
		t.Fatalf("drag should start after edit ends")
	}
}

func TestBackgroundControls(t *testing.T) {
	s := newTestSession(t)
	s.SetZoom(500)
	if z := s.Snapshot().BackgroundZoom; z != 200 {
		t.Fatalf("zoom should clamp to 200, got %d", z)
	}
	s.SetOffsetX(30)
	s.SetOffsetY(-20)
	if s.SetBackground(nil) {
		t.Fatalf("nil background must be ignored")
	}
	img := &domain.Image{Name: "bg", Pixels: image.NewRGBA(image.Rect(0, 0, 4, 3))}
	s.SetBackground(img)
	st := s.Snapshot()
	if st.BackgroundImage != img || st.BackgroundZoom != 100 || st.BackgroundOffsetX != 0 || st.BackgroundOffsetY != 0 {
		t.Fatalf("new background should reset transform: %+v", st)
	}
	if s.Layout().Gradient == nil {
		t.Fatalf("gradient expected with a background")
	}
	s.SetZoom(150)
	s.ResetBackgroundTransform()
	if s.Snapshot().BackgroundZoom != 100 {
		t.Fatalf("reset transform failed")
	}
	s.ClearBackground()
	if s.Layout().Background != nil {
		t.Fatalf("background should be cleared")
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	s := newTestSession(t)
	s.AddText("HELLO")
	s.SetZoom(150)
	s.SetBackground(&domain.Image{Pixels: image.NewRGBA(image.Rect(0, 0, 2, 2))})
	if s.Reset(func() bool { return false }) {
		t.Fatalf("declined reset must do nothing")
	}
	if len(s.Snapshot().TextElements) != 1 {
		t.Fatalf("declined reset changed the model")
	}
	if !s.Reset(func() bool { return true }) {
		t.Fatalf("confirmed reset should apply")
	}
	st := s.Snapshot()
	if len(st.TextElements) != 0 || st.BackgroundImage != nil || st.BackgroundZoom != 100 || st.BackgroundOffsetX != 0 || st.BackgroundOffsetY != 0 {
		t.Fatalf("reset left state behind: %+v", st)
	}
	el, _ := s.AddText("AGAIN")
	if el.ID != "text-1" {
		t.Fatalf("ids must not be reused after reset, got %s", el.ID)
	}
}

func TestResizeKeepsScaleForUnmeasurableWidth(t *testing.T) {
	s := newTestSession(t)
	if s.Resize(0) {
		t.Fatalf("zero width must not re-render")
	}
	if s.Scale() != 0.5 {
		t.Fatalf("scale changed on zero width: %v", s.Scale())
	}
	s.Resize(1080)
	if s.Scale() != 1 {
		t.Fatalf("expected scale 1, got %v", s.Scale())
	}
	s.AddText("HELLO")
	if tl, _ := s.Layout().Text("text-0"); tl.Center.X != 540 || tl.FontSize != 42 {
		t.Fatalf("unexpected layout at scale 1: %+v", tl)
	}
}

func TestResizeDuringDragKeepsPosition(t *testing.T) {
	s := newTestSession(t)
	s.AddText("HELLO")
	s.PointerDown(vector.Pt{X: 270, Y: 405})
	s.PointerMove(vector.Pt{X: 320, Y: 405})
	s.Resize(1080)
	if tl, _ := s.Layout().Text("text-0"); tl.Center.X != 640 {
		t.Fatalf("drag position should follow resize, got %+v", tl.Center)
	}
	s.PointerUp()
	if x := s.Snapshot().TextElements[0].X; x != 640 {
		t.Fatalf("expected x=640, got %v", x)
	}
}

type eventLog []string

func (e *eventLog) Event(name string, _ map[string]any) { *e = append(*e, name) }

func TestResetEmitsEvent(t *testing.T) {
	var ev eventLog
	s := New(Options{
		Projector: layout.NewProjector(textlayout.BasicProvider{}, nil),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Events:    &ev,
	})
	s.Reset(func() bool { return false })
	s.Reset(nil)
	if len(ev) != 1 || ev[0] != "flyer.reset" {
		t.Fatalf("expected one flyer.reset event, got %v", ev)
	}
}

func TestDragKeepsInsertionOrder(t *testing.T) {
	s := newTestSession(t)
	s.AddText("FIRST")
	// move text-0 out of the default spot before the others are added on top of it
	s.PointerDown(vector.Pt{X: 270, Y: 405})
	s.PointerMove(vector.Pt{X: 270, Y: 100})
	s.PointerUp()
	s.AddText("SECOND")
	s.AddText("THIRD")

	if !s.PointerDown(vector.Pt{X: 270, Y: 100}) {
		t.Fatalf("expected drag to start on text-0")
	}
	if id, _ := s.Dragging(); id != "text-0" {
		t.Fatalf("expected text-0 to be dragged, got %q", id)
	}
	s.PointerMove(vector.Pt{X: 270, Y: 405})
	s.PointerUp()

	want := []string{"text-0", "text-1", "text-2"}
	texts := s.Layout().Texts
	els := s.Snapshot().TextElements
	if len(texts) != 3 || len(els) != 3 {
		t.Fatalf("expected 3 captions, got %d layers and %d elements", len(texts), len(els))
	}
	for i, id := range want {
		if texts[i].ID != id || els[i].ID != id {
			t.Fatalf("order changed at %d: layer %s, element %s", i, texts[i].ID, els[i].ID)
		}
	}
	if els[0].Y != 810 {
		t.Fatalf("text-0 should be back at y=810, got %v", els[0].Y)
	}
}

func TestExportProjectionIgnoresResizeHistory(t *testing.T) {
	s := newTestSession(t)
	s.AddText("HELLO")
	s.AddText("WORLD")
	s.Resize(300)
	if s.Resize(0) {
		t.Fatalf("zero width must be ignored")
	}
	s.Resize(1600)
	tl, _ := s.Layout().Text("text-1")
	s.PointerDown(tl.Center)
	s.PointerMove(vector.Pt{X: tl.Center.X + 100, Y: tl.Center.Y - 60})
	s.PointerUp()

	snap := s.Snapshot()
	out := s.Projector().Project(&snap, 1, layout.TargetExport)
	if out.Size.W != 1080 || out.Size.H != 1080 {
		t.Fatalf("export canvas must be 1080x1080, got %+v", out.Size)
	}
	for i, el := range snap.TextElements {
		c := out.Texts[i].Center
		if c.X != el.X || c.Y != el.Y {
			t.Fatalf("%s: export center %+v, model (%v,%v)", el.ID, c, el.X, el.Y)
		}
	}
	if snap.TextElements[1].X == 540 {
		t.Fatalf("drag at the resized scale should have moved text-1")
	}
}
