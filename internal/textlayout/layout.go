/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Text measurement and line breaking for flyer captions. Layout follows the
// CSS rules the captions are styled with: centered lines, pre-wrap newline
// preservation, break-word for words wider than the box, and a line box of
// LineHeight times the font size.

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultLineHeight is the line box height as a multiple of font size.
const DefaultLineHeight = 1.2

// FontSpec describes a requested font. Size is in pixels of whatever space the
// caller lays out in (logical units for export, display pixels on screen).
type FontSpec struct {
	Family string
	Size   float64
	Weight int // 100..900
	Italic bool
}

// Metrics provides font metrics in pixels for the resolved face.
type Metrics struct {
	Ascent, Descent, LineGap float64
}

// Line is a single laid out line.
type Line struct {
	Text  string
	Width float64
}

// TextBox is the result of laying out text into a box width.
type TextBox struct {
	Lines      []Line
	Width      float64 // widest line
	Height     float64 // len(Lines) * LineHeight
	LineHeight float64 // px per line box
	Metrics    Metrics
}

// Provider maps FontSpec to a concrete font.Face. The returned face belongs to
// the caller; providers must not hand the same stateful face to two callers.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// Layouter performs line-breaking and measurement.
type Layouter interface {
	Layout(text string, spec FontSpec, maxWidth float64) (TextBox, error)
}

// BasicProvider uses x/image/basicfont Face7x13 for deterministic tests. It
// ignores the requested size.
type BasicProvider struct{}

func (BasicProvider) Resolve(FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	return f, metricsOf(f)
}

func metricsOf(f font.Face) Metrics {
	m := f.Metrics()
	return Metrics{
		Ascent:  fixedToFloat(m.Ascent),
		Descent: fixedToFloat(m.Descent),
		LineGap: fixedToFloat(m.Height - m.Ascent - m.Descent),
	}
}

// WordWrapLayouter breaks on spaces and newlines; it does not perform shaping
// or hyphenation.
type WordWrapLayouter struct {
	Provider   Provider
	LineHeight float64 // multiple of font size; DefaultLineHeight if zero
}

func NewWordWrap(provider Provider) *WordWrapLayouter { return &WordWrapLayouter{Provider: provider} }

func (l *WordWrapLayouter) Layout(text string, spec FontSpec, maxWidth float64) (TextBox, error) {
	p := l.Provider
	if p == nil {
		p = BasicProvider{}
	}
	lh := l.LineHeight
	if lh <= 0 {
		lh = DefaultLineHeight
	}
	face, met := p.Resolve(spec)
	d := &font.Drawer{Face: face}
	box := TextBox{Metrics: met, LineHeight: lh * spec.Size}

	push := func(s string) {
		s = strings.TrimRight(s, " ")
		w := advance(d, s)
		box.Lines = append(box.Lines, Line{Text: s, Width: w})
		if w > box.Width {
			box.Width = w
		}
	}

	for _, para := range strings.Split(text, "\n") {
		cur := ""
		for _, word := range strings.Split(para, " ") {
			cand := word
			if cur != "" {
				cand = cur + " " + word
			}
			if maxWidth <= 0 || advance(d, cand) <= maxWidth {
				cur = cand
				continue
			}
			if cur != "" {
				push(cur)
			}
			cur = ""
			// break-word: split a word that cannot fit on a line of its own
			for maxWidth > 0 && advance(d, word) > maxWidth {
				head := fitPrefix(d, word, maxWidth)
				push(head)
				word = word[len(head):]
			}
			cur = word
		}
		push(cur)
	}
	box.Height = float64(len(box.Lines)) * box.LineHeight
	return box, nil
}

// fitPrefix returns the longest rune prefix of s that fits within maxWidth,
// always at least one rune.
func fitPrefix(d *font.Drawer, s string, maxWidth float64) string {
	best := 0
	for i := range s {
		_, size := utf8.DecodeRuneInString(s[i:])
		next := i + size
		if advance(d, s[:next]) > maxWidth {
			break
		}
		best = next
	}
	if best == 0 {
		_, size := utf8.DecodeRuneInString(s)
		return s[:size]
	}
	return s[:best]
}

func advance(d *font.Drawer, s string) float64 {
	if s == "" {
		return 0
	}
	return fixedToFloat(d.MeasureString(s))
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// Measure returns the width of a single unwrapped line and its ascent+descent.
func Measure(provider Provider, text string, spec FontSpec) (w, h float64) {
	if provider == nil {
		provider = BasicProvider{}
	}
	face, met := provider.Resolve(spec)
	return advance(&font.Drawer{Face: face}, text), met.Ascent + met.Descent
}
