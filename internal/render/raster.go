/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render rasterizes a layout description into pixels.
package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"goflyer/internal/domain"
	"goflyer/internal/layout"
	"goflyer/internal/textlayout"
	"goflyer/internal/vector"
)

// Options controls a single rasterization.
type Options struct {
	// AllowTaint draws around images that cannot be decoded instead of failing.
	AllowTaint bool
	// Background fills the surface before any layer is drawn.
	Background domain.Color
}

// DefaultOptions are the options used for flyer export.
func DefaultOptions() Options {
	return Options{AllowTaint: true, Background: domain.Black}
}

// Rasterizer draws a Layout into an image.
type Rasterizer interface {
	Rasterize(ctx context.Context, l layout.Layout, opts Options) (image.Image, error)
}

// GGRasterizer draws with fogleman/gg. Provider resolves caption faces and
// must be the one the layout was measured with.
type GGRasterizer struct {
	Provider textlayout.Provider
}

// NewGGRasterizer returns a rasterizer resolving faces with provider.
func NewGGRasterizer(provider textlayout.Provider) *GGRasterizer {
	return &GGRasterizer{Provider: provider}
}

// Rasterize implements Rasterizer. Layers are drawn back to front: fill,
// background, gradient, captions, overlay.
func (r *GGRasterizer) Rasterize(ctx context.Context, l layout.Layout, opts Options) (image.Image, error) {
	w, h := int(math.Round(l.Size.W)), int(math.Round(l.Size.H))
	surf, err := AcquireSurface(w, h)
	if err != nil {
		return nil, err
	}
	defer surf.Release()
	dc, err := surf.Context()
	if err != nil {
		return nil, err
	}

	bg := opts.Background
	if bg == (domain.Color{}) {
		bg = l.Fill
	}
	dc.SetColor(rgba(bg))
	dc.Clear()

	if l.Background != nil {
		if err := drawImage(dc, l.Background.ImageLayer, opts); err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
	}
	if g := l.Gradient; g != nil {
		drawGradient(dc, g)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, t := range l.Texts {
		r.drawText(dc, t)
	}
	if l.Overlay != nil {
		if err := drawImage(dc, *l.Overlay, opts); err != nil {
			return nil, fmt.Errorf("overlay: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return surf.Snapshot()
}

func drawImage(dc *gg.Context, il layout.ImageLayer, opts Options) error {
	src, err := pixels(il.Image)
	if err != nil {
		if opts.AllowTaint {
			return nil
		}
		return err
	}
	dst, ok := dc.Image().(*image.RGBA)
	if !ok {
		return fmt.Errorf("unexpected surface type %T", dc.Image())
	}
	xdraw.CatmullRom.Scale(dst, pixelRect(il.Dest), src, src.Bounds(), xdraw.Over, nil)
	return nil
}

func pixels(img *domain.Image) (image.Image, error) {
	if img == nil {
		return nil, domain.ErrNotImage
	}
	if img.Pixels != nil {
		return img.Pixels, nil
	}
	dec, err := domain.ImageFromDataURL(img.Name, img.DataURL)
	if err != nil {
		return nil, err
	}
	return dec.Pixels, nil
}

func drawGradient(dc *gg.Context, g *layout.GradientLayer) {
	r := g.Rect
	grad := gg.NewLinearGradient(r.X, r.Y+r.H, r.X, r.Y)
	grad.AddColorStop(0, rgba(g.Bottom))
	grad.AddColorStop(1, rgba(g.Top))
	dc.SetFillStyle(grad)
	dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	dc.Fill()
}

func (r *GGRasterizer) drawText(dc *gg.Context, t layout.TextLayer) {
	p := r.Provider
	if p == nil {
		p = textlayout.NewGoFontProvider()
	}
	face, _ := p.Resolve(t.Font)
	dc.SetFontFace(face)
	dc.SetColor(rgba(t.Color))
	box := t.Box()
	for i, ln := range t.Lines {
		y := box.Y + (float64(i)+0.5)*t.LineHeight
		dc.DrawStringAnchored(ln.Text, t.Center.X, y, 0.5, 0.5)
	}
}

func pixelRect(r vector.Rect) image.Rectangle {
	lo, hi := r.Min(), r.Max()
	return image.Rect(
		int(math.Round(lo.X)), int(math.Round(lo.Y)),
		int(math.Round(hi.X)), int(math.Round(hi.Y)),
	)
}

func rgba(c domain.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
