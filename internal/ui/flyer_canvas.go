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
	"image/color"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"goflyer/internal/domain"
	"goflyer/internal/layout"
	"goflyer/internal/session"
	"goflyer/internal/vector"
)

// FlyerCanvas draws the session's display layout and forwards pointer input
// to it. Positions are canvas-relative, which is what the session expects.
type FlyerCanvas struct {
	widget.BaseWidget

	sess *session.Session

	mu        sync.Mutex
	layout    layout.Layout
	lastWidth float32
	pressed   bool

	// OnEdit is called after a double-click put a caption into edit mode.
	OnEdit func(id string)
}

var (
	_ fyne.Draggable      = (*FlyerCanvas)(nil)
	_ fyne.DoubleTappable = (*FlyerCanvas)(nil)
	_ desktop.Mouseable   = (*FlyerCanvas)(nil)
	_ desktop.Hoverable   = (*FlyerCanvas)(nil)
)

func NewFlyerCanvas(sess *session.Session) *FlyerCanvas {
	fc := &FlyerCanvas{sess: sess, layout: sess.Layout()}
	fc.ExtendBaseWidget(fc)
	sess.OnRender(fc.setLayout)
	return fc
}

func (f *FlyerCanvas) setLayout(l layout.Layout) {
	f.mu.Lock()
	f.layout = l
	f.mu.Unlock()
	f.Refresh()
}

func (f *FlyerCanvas) current() layout.Layout {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.layout
}

// measure reports a new display width to the session when it changed.
func (f *FlyerCanvas) measure(size fyne.Size) {
	w := float32(math.Min(float64(size.Width), float64(size.Height)))
	f.mu.Lock()
	changed := w > 0 && w != f.lastWidth
	if changed {
		f.lastWidth = w
	}
	f.mu.Unlock()
	if changed {
		f.sess.Resize(float64(w))
	}
}

func toPt(p fyne.Position) vector.Pt { return vector.Pt{X: float64(p.X), Y: float64(p.Y)} }

func (f *FlyerCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	f.pressed = f.sess.PointerDown(toPt(e.Position))
}

func (f *FlyerCanvas) MouseUp(*desktop.MouseEvent) {
	if f.pressed {
		f.pressed = false
		f.sess.PointerUp()
	}
}

func (f *FlyerCanvas) Dragged(e *fyne.DragEvent) { f.sess.PointerMove(toPt(e.Position)) }

func (f *FlyerCanvas) DragEnd() {
	f.pressed = false
	f.sess.PointerUp()
}

func (f *FlyerCanvas) MouseIn(*desktop.MouseEvent)    {}
func (f *FlyerCanvas) MouseMoved(*desktop.MouseEvent) {}

func (f *FlyerCanvas) MouseOut() {
	if f.pressed {
		f.pressed = false
		f.sess.PointerLeave()
	}
}

func (f *FlyerCanvas) DoubleTapped(e *fyne.PointEvent) {
	if !f.sess.BeginEditAt(toPt(e.Position)) {
		return
	}
	if id, ok := f.sess.Editing(); ok && f.OnEdit != nil {
		f.OnEdit(id)
	}
}

func (f *FlyerCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &flyerRenderer{fc: f, fill: canvas.NewRectangle(color.Black)}
	r.gradient = canvas.NewLinearGradient(color.Transparent, color.Black, 0)
	r.build()
	return r
}

type flyerRenderer struct {
	fc       *FlyerCanvas
	fill     *canvas.Rectangle
	bg       *canvas.Image
	bgSrc    *domain.Image
	gradient *canvas.LinearGradient
	overlay  *canvas.Image
	ovSrc    *domain.Image
	texts    []*canvas.Text
	objects  []fyne.CanvasObject
}

func fpos(p vector.Pt) fyne.Position { return fyne.NewPos(float32(p.X), float32(p.Y)) }
func fsize(w, h float64) fyne.Size    { return fyne.NewSize(float32(w), float32(h)) }

func nrgba(c domain.Color) color.NRGBA { return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A} }

// build recreates the object list from the current layout, keeping image
// objects when their source did not change.
func (r *flyerRenderer) build() {
	l := r.fc.current()
	objs := []fyne.CanvasObject{r.fill}
	r.fill.FillColor = nrgba(l.Fill)
	r.fill.Move(fyne.NewPos(0, 0))
	r.fill.Resize(fsize(l.Size.W, l.Size.H))

	if b := l.Background; b != nil {
		if r.bg == nil || r.bgSrc != b.Image {
			r.bg = canvas.NewImageFromImage(b.Image.Pixels)
			r.bg.FillMode = canvas.ImageFillStretch
			r.bgSrc = b.Image
		}
		r.bg.Move(fpos(b.Dest.Min()))
		r.bg.Resize(fsize(b.Dest.W, b.Dest.H))
		objs = append(objs, r.bg)
	}
	if g := l.Gradient; g != nil {
		r.gradient.StartColor = nrgba(g.Top)
		r.gradient.EndColor = nrgba(g.Bottom)
		r.gradient.Move(fpos(g.Rect.Min()))
		r.gradient.Resize(fsize(g.Rect.W, g.Rect.H))
		r.gradient.Refresh()
		objs = append(objs, r.gradient)
	}

	r.texts = r.texts[:0]
	for _, t := range l.Texts {
		box := t.Box()
		for i, ln := range t.Lines {
			txt := canvas.NewText(ln.Text, nrgba(t.Color))
			txt.Alignment = fyne.TextAlignCenter
			txt.TextSize = float32(t.FontSize)
			txt.Move(fyne.NewPos(float32(box.X), float32(box.Y+float64(i)*t.LineHeight)))
			txt.Resize(fsize(box.W, t.LineHeight))
			r.texts = append(r.texts, txt)
			objs = append(objs, txt)
		}
	}

	if o := l.Overlay; o != nil {
		if r.overlay == nil || r.ovSrc != o.Image {
			r.overlay = canvas.NewImageFromImage(o.Image.Pixels)
			r.overlay.FillMode = canvas.ImageFillStretch
			r.ovSrc = o.Image
		}
		r.overlay.Move(fpos(o.Dest.Min()))
		r.overlay.Resize(fsize(o.Dest.W, o.Dest.H))
		objs = append(objs, r.overlay)
	}
	r.objects = objs
}

func (r *flyerRenderer) Destroy()                     {}
func (r *flyerRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *flyerRenderer) MinSize() fyne.Size           { return fyne.NewSize(320, 320) }

func (r *flyerRenderer) Layout(size fyne.Size) {
	r.fc.measure(size)
	r.build()
}

func (r *flyerRenderer) Refresh() {
	r.build()
	canvas.Refresh(r.fc)
}
