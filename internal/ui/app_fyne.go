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

package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"goflyer/internal/crash"
	"goflyer/internal/domain"
	"goflyer/internal/export"
	"goflyer/internal/layout"
	applog "goflyer/internal/log"
	"goflyer/internal/session"
	"goflyer/internal/version"
)

// editEntry is the inline caption editor. Escape reverts and focus loss commits.
type editEntry struct {
	widget.Entry
	onEscape func()
	onBlur   func()
}

func newEditEntry() *editEntry {
	e := &editEntry{}
	e.ExtendBaseWidget(e)
	return e
}

func (e *editEntry) TypedKey(k *fyne.KeyEvent) {
	if k.Name == fyne.KeyEscape && e.onEscape != nil {
		e.onEscape()
		return
	}
	e.Entry.TypedKey(k)
}

func (e *editEntry) FocusLost() {
	e.Entry.FocusLost()
	if e.onBlur != nil {
		e.onBlur()
	}
}

// Run opens the editor window and blocks until it is closed.
func Run(opts Options) error {
	sess := opts.Session
	if sess == nil {
		return errors.New("ui: no session")
	}
	if opts.Control == nil {
		return errors.New("ui: no export control")
	}
	l := opts.Logger
	if l == nil {
		l = applog.WithComponent("ui")
	}
	l.Info("starting UI", slog.String("version", version.String()))
	defer crash.Recover(sess)

	fyneApp := app.NewWithID("goflyer")
	w := fyneApp.NewWindow(opts.title())
	prefs := fyneApp.Preferences()
	w.Resize(fyne.NewSize(
		float32(prefs.IntWithFallback("window.width", 1000)),
		float32(prefs.IntWithFallback("window.height", 700)),
	))

	status := widget.NewLabel("Ready")
	fc := NewFlyerCanvas(sess)

	// Inline editing
	editor := newEditEntry()
	editor.Hide()
	closeEditor := func() {
		editor.onBlur = nil
		editor.Hide()
	}
	editor.OnChanged = func(s string) { sess.EditInput(s) }
	editor.OnSubmitted = func(string) {
		closeEditor()
		sess.EditKey(session.KeyEnter)
	}
	editor.onEscape = func() {
		closeEditor()
		sess.EditKey(session.KeyEscape)
	}
	fc.OnEdit = func(id string) {
		t, ok := sess.Layout().Text(id)
		if !ok {
			return
		}
		box := t.Box()
		editor.onBlur = func() {
			closeEditor()
			sess.Blur()
		}
		editor.SetText(t.Text)
		editor.Move(fpos(box.Min()))
		editor.Resize(fsize(box.W, box.H+8))
		editor.Show()
		w.Canvas().Focus(editor)
	}
	stage := container.NewStack(fc, container.NewWithoutLayout(editor))

	// Background controls
	zoom := widget.NewSlider(domain.MinZoom, domain.MaxZoom)
	zoom.Step = 1
	zoom.OnChanged = func(v float64) { sess.SetZoom(int(v)) }
	offX := widget.NewSlider(-domain.CanvasWidth/2, domain.CanvasWidth/2)
	offX.OnChanged = func(v float64) { sess.SetOffsetX(int(v)) }
	offY := widget.NewSlider(-domain.CanvasHeight/2, domain.CanvasHeight/2)
	offY.OnChanged = func(v float64) { sess.SetOffsetY(int(v)) }
	syncSliders := func() {
		st := sess.Snapshot()
		zoom.Value, offX.Value, offY.Value = float64(st.BackgroundZoom), float64(st.BackgroundOffsetX), float64(st.BackgroundOffsetY)
		zoom.Refresh()
		offX.Refresh()
		offY.Refresh()
	}
	resetBg := widget.NewButton("Reset position", func() {
		sess.ResetBackgroundTransform()
		syncSliders()
	})
	clearBg := widget.NewButton("Remove background", func() { sess.ClearBackground() })
	bgControls := container.NewVBox(
		widget.NewLabel("Zoom"), zoom,
		widget.NewLabel("Horizontal"), offX,
		widget.NewLabel("Vertical"), offY,
		resetBg, clearBg,
	)
	bgControls.Hide()

	pickBg := widget.NewButton("Background...", func() {
		fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if rc == nil {
				return // no file selected
			}
			defer rc.Close()
			data, err := io.ReadAll(rc)
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			img, err := domain.ImageFromBytes(rc.URI().Name(), data)
			if err != nil {
				l.Warn("background rejected", slog.String("name", rc.URI().Name()), slog.Any("err", err))
				status.SetText("Not an image: " + rc.URI().Name())
				return
			}
			sess.SetBackground(img)
			syncSliders()
		}, w)
		fd.SetFilter(fstorage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp"}))
		fd.Show()
	})

	// Captions
	textIn := widget.NewEntry()
	textIn.SetPlaceHolder("Caption text")
	addText := func() {
		if _, ok := sess.AddText(textIn.Text); ok {
			textIn.SetText("")
		}
	}
	textIn.OnSubmitted = func(string) { addText() }
	addBtn := widget.NewButton("Add text", addText)

	// Export
	ctrl := opts.Control
	download := widget.NewButton(ctrl.Label(), nil)
	ctrl.OnChange(func(label string, enabled bool) {
		fyne.Do(func() {
			download.SetText(label)
			if enabled {
				download.Enable()
			} else {
				download.Disable()
			}
		})
	})
	download.OnTapped = func() {
		st := sess.Snapshot()
		go func() {
			res, err := ctrl.Trigger(sess.Context(context.Background()), st)
			fyne.Do(func() {
				switch {
				case errors.Is(err, export.ErrBusy):
				case err != nil:
					status.SetText("Export failed")
				default:
					status.SetText(fmt.Sprintf("Saved %s", res.Location))
				}
			})
		}()
	}

	resetBtn := widget.NewButton("Reset", func() {
		dialog.ShowConfirm("Reset", "Clear everything?", func(ok bool) {
			if !ok {
				return
			}
			closeEditor()
			sess.Reset(nil)
			textIn.SetText("")
			syncSliders()
		}, w)
	})

	sess.OnRender(func(lay layout.Layout) {
		if lay.Background != nil {
			bgControls.Show()
		} else {
			bgControls.Hide()
		}
		if _, editing := sess.Editing(); !editing && editor.Visible() {
			closeEditor()
		}
	})

	side := container.NewVBox(
		pickBg,
		bgControls,
		widget.NewSeparator(),
		textIn, addBtn,
		widget.NewSeparator(),
		download, resetBtn,
	)
	split := container.NewHSplit(container.NewVScroll(side), stage)
	split.Offset = 0.28
	w.SetContent(container.NewBorder(nil, status, nil, nil, split))

	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		l.Info("window closed", slog.Int("texts", len(sess.Snapshot().TextElements)), slog.String("title", strings.TrimSpace(opts.title())))
	})
	w.ShowAndRun()
	return nil
}
