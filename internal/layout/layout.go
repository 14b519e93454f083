/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package layout projects a flyer into an immutable, backend-neutral layout
// description. The same projection serves the on-screen editor (at the
// resolved display scale) and the exported image (at scale 1).
package layout

import (
	"goflyer/internal/domain"
	"goflyer/internal/textlayout"
	"goflyer/internal/vector"
)

// Target selects the font a projection is laid out with.
type Target int

const (
	// TargetDisplay lays text out with the fallback family used while editing.
	TargetDisplay Target = iota
	// TargetExport lays text out with the named export family.
	TargetExport
)

func (t Target) String() string {
	if t == TargetExport {
		return "export"
	}
	return "display"
}

// Gradient geometry: a dark band over the lower part of the background.
const (
	GradientHeightRatio = 0.35
	GradientOpacity     = 0.95
)

// Layout is a complete draw list. Layers are drawn in field order:
// Fill, Background, Gradient, Texts (slice order), Overlay.
type Layout struct {
	Target     Target
	Scale      float64
	Size       vector.Size
	Fill       domain.Color
	Background *BackgroundLayer
	Gradient   *GradientLayer
	Texts      []TextLayer
	Overlay    *ImageLayer
}

// BackgroundLayer places the background photo; Dest may extend past the canvas.
type BackgroundLayer struct {
	ImageLayer
	Zoom int
}

// ImageLayer is an image stretched into Dest.
type ImageLayer struct {
	Image *domain.Image
	Dest  vector.Rect
}

// GradientLayer fades from Bottom (at the rect's bottom edge) to Top.
type GradientLayer struct {
	Rect   vector.Rect
	Bottom domain.Color
	Top    domain.Color
}

// TextLayer is one caption, anchored at its center.
type TextLayer struct {
	ID         string
	Text       string
	Center     vector.Pt
	Width      float64
	FontSize   float64
	Font       textlayout.FontSpec
	Lines      []textlayout.Line
	LineHeight float64
	Color      domain.Color
}

// Box returns the caption's bounding box: full text width, wrapped height.
func (t TextLayer) Box() vector.Rect {
	h := float64(len(t.Lines)) * t.LineHeight
	return vector.RectAround(t.Center, t.Width, h)
}

// Bounds returns the canvas rectangle.
func (l Layout) Bounds() vector.Rect { return vector.R(0, 0, l.Size.W, l.Size.H) }

// Text returns the layer for a caption id.
func (l Layout) Text(id string) (TextLayer, bool) {
	for _, t := range l.Texts {
		if t.ID == id {
			return t, true
		}
	}
	return TextLayer{}, false
}

// HitText returns the id of the topmost caption whose box contains p.
func (l Layout) HitText(p vector.Pt) (string, bool) {
	for i := len(l.Texts) - 1; i >= 0; i-- {
		if l.Texts[i].Box().Contains(p) {
			return l.Texts[i].ID, true
		}
	}
	return "", false
}

// MoveText returns a copy of l with one caption re-centered. The receiver is
// left untouched. Unknown ids return l unchanged.
func (l Layout) MoveText(id string, center vector.Pt) Layout {
	for i, t := range l.Texts {
		if t.ID != id {
			continue
		}
		texts := append([]TextLayer(nil), l.Texts...)
		texts[i].Center = center
		l.Texts = texts
		return l
	}
	return l
}
