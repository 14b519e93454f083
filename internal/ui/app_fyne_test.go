//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// These tests validate the Fyne-based canvas. They are gated behind the
// "fyne" build tag so CI (which is headless) does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"io"
	"log/slog"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"goflyer/internal/layout"
	"goflyer/internal/session"
	"goflyer/internal/textlayout"
)

func newTestCanvas(t *testing.T) (*FlyerCanvas, *session.Session) {
	t.Helper()
	test.NewApp()
	s := session.New(session.Options{
		Projector: layout.NewProjector(textlayout.BasicProvider{}, nil),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	fc := NewFlyerCanvas(s)
	return fc, s
}

func TestFlyerCanvas_ResizeDrivesScale(t *testing.T) {
	fc, s := newTestCanvas(t)
	test.WidgetRenderer(fc)
	fc.Resize(fyne.NewSize(1080, 1200))
	if s.Scale() != 1 {
		t.Fatalf("expected scale 1 after resize, got %v", s.Scale())
	}
	fc.Resize(fyne.NewSize(540, 540))
	if s.Scale() != 0.5 {
		t.Fatalf("expected scale 0.5, got %v", s.Scale())
	}
}

func TestFlyerCanvas_DragMovesCaption(t *testing.T) {
	fc, s := newTestCanvas(t)
	test.WidgetRenderer(fc)
	fc.Resize(fyne.NewSize(540, 540))
	s.AddText("HELLO")

	fc.MouseDown(primaryAt(270, 405))
	fc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(320, 405)}})
	fc.DragEnd()

	if x := s.Snapshot().TextElements[0].X; x != 640 {
		t.Fatalf("expected x=640 after drag, got %v", x)
	}
}

func TestFlyerCanvas_DoubleTapStartsEdit(t *testing.T) {
	fc, s := newTestCanvas(t)
	test.WidgetRenderer(fc)
	fc.Resize(fyne.NewSize(540, 540))
	s.AddText("HELLO")
	var edited string
	fc.OnEdit = func(id string) { edited = id }
	fc.DoubleTapped(&fyne.PointEvent{Position: fyne.NewPos(270, 405)})
	if edited != "text-0" {
		t.Fatalf("expected edit of text-0, got %q", edited)
	}
	if _, ok := s.Editing(); !ok {
		t.Fatalf("session should be editing")
	}
}

func primaryAt(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	}
}
