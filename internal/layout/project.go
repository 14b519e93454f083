/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package layout

import (
	"goflyer/internal/domain"
	"goflyer/internal/textlayout"
	"goflyer/internal/vector"
)

// Projector turns a FlyerState into a Layout.
type Projector struct {
	// Layouter wraps caption text; a word-wrap layouter over Go fonts if nil.
	Layouter textlayout.Layouter
	// Overlay is the decorative template drawn above everything. A nil
	// overlay is skipped; the rest of the composition is unaffected.
	Overlay *domain.Image
}

// NewProjector returns a projector laying text out with provider.
func NewProjector(provider textlayout.Provider, overlay *domain.Image) *Projector {
	return &Projector{Layouter: textlayout.NewWordWrap(provider), Overlay: overlay}
}

// Project lays out state at the given scale. Every logical coordinate and size
// is multiplied by scale; export passes 1.
func (p *Projector) Project(state *domain.FlyerState, scale float64, target Target) Layout {
	if scale <= 0 {
		scale = 1
	}
	size := vector.Size{W: domain.CanvasWidth * scale, H: domain.CanvasHeight * scale}
	l := Layout{
		Target: target,
		Scale:  scale,
		Size:   size,
		Fill:   domain.Black,
		Texts:  make([]TextLayer, 0, len(state.TextElements)),
	}

	if bg := state.BackgroundImage; bg != nil {
		l.Background = &BackgroundLayer{
			ImageLayer: ImageLayer{Image: bg, Dest: backgroundDest(bg, size, state, scale)},
			Zoom:       state.BackgroundZoom,
		}
		gh := size.H * GradientHeightRatio
		l.Gradient = &GradientLayer{
			Rect:   vector.R(0, size.H-gh, size.W, gh),
			Bottom: domain.Black.WithAlpha(GradientOpacity),
			Top:    domain.Black.WithAlpha(0),
		}
	}

	style, _ := textlayout.GetStyle("Display")
	if target == TargetExport {
		style, _ = textlayout.GetStyle("Export")
	}
	lay := p.Layouter
	if lay == nil {
		lay = textlayout.NewWordWrap(textlayout.NewGoFontProvider())
	}
	for _, el := range state.TextElements {
		spec := style.Sized(el.FontSize * scale)
		width := el.Width * scale
		box, err := lay.Layout(el.Text, spec, width)
		if err != nil || len(box.Lines) == 0 {
			box = textlayout.TextBox{
				Lines:      []textlayout.Line{{Text: el.Text}},
				LineHeight: spec.Size * style.LineHeight,
			}
		}
		l.Texts = append(l.Texts, TextLayer{
			ID:         el.ID,
			Text:       el.Text,
			Center:     vector.Pt{X: el.X * scale, Y: el.Y * scale},
			Width:      width,
			FontSize:   spec.Size,
			Font:       spec,
			Lines:      box.Lines,
			LineHeight: box.LineHeight,
			Color:      domain.White,
		})
	}

	if ov := p.Overlay; ov != nil {
		w, h := ov.Size()
		if dest := vector.Contain(l.Bounds(), vector.Size{W: float64(w), H: float64(h)}); dest.W > 0 {
			l.Overlay = &ImageLayer{Image: ov, Dest: dest}
		}
	}
	return l
}

// backgroundDest mirrors CSS background-size: <zoom>% (auto height) and
// background-position: calc(50% + offset). Offsets are logical units.
func backgroundDest(bg *domain.Image, canvas vector.Size, state *domain.FlyerState, scale float64) vector.Rect {
	iw, ih := bg.Size()
	w := canvas.W * float64(state.BackgroundZoom) / 100
	h := w
	if iw > 0 {
		h = w * float64(ih) / float64(iw)
	}
	x := (canvas.W-w)/2 + float64(state.BackgroundOffsetX)*scale
	y := (canvas.H-h)/2 + float64(state.BackgroundOffsetY)*scale
	return vector.R(x, y, w, h)
}
