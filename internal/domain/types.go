/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the flyer data model. Every coordinate and size stored here
// is in logical units of the fixed 1080x1080 canvas, never in display pixels.

// Logical canvas and defaults for newly added text.
const (
	CanvasWidth  = 1080
	CanvasHeight = 1080

	DefaultFontSize = 42
	DefaultZoom     = 100
	MinZoom         = 50
	MaxZoom         = 200

	textWidthRatio = 0.8
	textYRatio     = 0.75
)

// TextElement is a caption placed on the flyer. X and Y address its center.
type TextElement struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	FontSize float64 `json:"fontSize"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
}

// NewTextElement returns a caption with the default size and placement:
// horizontally centered, at three quarters of the canvas height.
func NewTextElement(id, text string) TextElement {
	return TextElement{
		ID:       id,
		Text:     text,
		FontSize: DefaultFontSize,
		X:        CanvasWidth / 2,
		Y:        CanvasHeight * textYRatio,
		Width:    CanvasWidth * textWidthRatio,
	}
}

// FlyerState is the canonical flyer. Text order is draw order.
type FlyerState struct {
	BackgroundImage   *Image        `json:"backgroundImage,omitempty"`
	BackgroundZoom    int           `json:"backgroundZoom"`
	BackgroundOffsetX int           `json:"backgroundOffsetX"`
	BackgroundOffsetY int           `json:"backgroundOffsetY"`
	TextElements      []TextElement `json:"textElements"`
}

// NewFlyerState returns an empty flyer with default background transform.
func NewFlyerState() *FlyerState {
	return &FlyerState{
		BackgroundZoom: DefaultZoom,
		TextElements:   []TextElement{},
	}
}

// Find returns a pointer to the element with the given id.
func (s *FlyerState) Find(id string) (*TextElement, bool) {
	for i := range s.TextElements {
		if s.TextElements[i].ID == id {
			return &s.TextElements[i], true
		}
	}
	return nil, false
}

// Remove deletes the element with the given id, keeping the order of the rest.
func (s *FlyerState) Remove(id string) bool {
	for i := range s.TextElements {
		if s.TextElements[i].ID == id {
			s.TextElements = append(s.TextElements[:i], s.TextElements[i+1:]...)
			return true
		}
	}
	return false
}

// ResetBackgroundTransform restores zoom and offsets to (100, 0, 0).
func (s *FlyerState) ResetBackgroundTransform() {
	s.BackgroundZoom = DefaultZoom
	s.BackgroundOffsetX = 0
	s.BackgroundOffsetY = 0
}

// Clone returns a copy that shares only the (immutable) background image.
func (s *FlyerState) Clone() FlyerState {
	c := *s
	c.TextElements = append([]TextElement(nil), s.TextElements...)
	return c
}

// ClampZoom bounds a zoom percentage to the slider domain.
func ClampZoom(z int) int {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// Color is an 8-bit RGBA color.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

var (
	Black = Color{0, 0, 0, 255}
	White = Color{255, 255, 255, 255}
)

// WithAlpha returns c with its alpha set from a 0..1 opacity.
func (c Color) WithAlpha(opacity float64) Color {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	c.A = uint8(opacity*255 + 0.5)
	return c
}
