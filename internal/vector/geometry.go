/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Basic 2D geometry shared by the projector, the interaction controller and
// the rasterizer. Values are float64 so that logical<->display round trips do
// not lose precision.

import "math"

// Pt is a 2D point.
type Pt struct{ X, Y float64 }

func (p Pt) Add(q Pt) Pt          { return Pt{p.X + q.X, p.Y + q.Y} }
func (p Pt) Sub(q Pt) Pt          { return Pt{p.X - q.X, p.Y - q.Y} }
func (p Pt) Mul(s float64) Pt     { return Pt{p.X * s, p.Y * s} }
func (p Pt) Div(s float64) Pt     { return Pt{p.X / s, p.Y / s} }
func (p Pt) Near(q Pt, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Size is a width/height pair.
type Size struct{ W, H float64 }

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// RectAround returns the rectangle of size w,h whose center is c.
func RectAround(c Pt, w, h float64) Rect { return Rect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h} }

func (r Rect) Min() Pt    { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt    { return Pt{r.X + r.W, r.Y + r.H} }
func (r Rect) Center() Pt { return Pt{r.X + r.W/2, r.Y + r.H/2} }

func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// Scaled multiplies position and size by s.
func (r Rect) Scaled(s float64) Rect { return Rect{X: r.X * s, Y: r.Y * s, W: r.W * s, H: r.H * s} }

// Contain fits an object of intrinsic size obj inside box, preserving aspect
// ratio, centered on both axes. A degenerate object yields an empty rect.
func Contain(box Rect, obj Size) Rect {
	if obj.W <= 0 || obj.H <= 0 || box.W <= 0 || box.H <= 0 {
		return Rect{X: box.X, Y: box.Y}
	}
	s := math.Min(box.W/obj.W, box.H/obj.H)
	w, h := obj.W*s, obj.H*s
	return Rect{X: box.X + (box.W-w)/2, Y: box.Y + (box.H-h)/2, W: w, H: h}
}

// FloatRound rounds v to n decimal places deterministically.
func FloatRound(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
