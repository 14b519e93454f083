/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scale converts between logical canvas units and display pixels.
//
// The scale factor is display pixels per logical unit. It is derived from the
// measured display width of the canvas and is never stored in the flyer model.
package scale

import (
	"math"

	"goflyer/internal/domain"
	"goflyer/internal/vector"
)

// DefaultDisplayWidth is the on-screen canvas width assumed before the first
// measurement.
const DefaultDisplayWidth = 540

// Resolver tracks the current scale factor for one display surface.
type Resolver struct {
	logicalWidth float64
	current      float64
}

// NewResolver returns a resolver for the fixed logical canvas seeded with
// DefaultDisplayWidth.
func NewResolver() *Resolver {
	return NewResolverFor(domain.CanvasWidth, DefaultDisplayWidth)
}

// NewResolverFor returns a resolver for an arbitrary logical width.
func NewResolverFor(logicalWidth, initialDisplayWidth float64) *Resolver {
	r := &Resolver{logicalWidth: logicalWidth, current: 1}
	r.Resolve(initialDisplayWidth)
	return r
}

// Resolve recomputes the scale from a measured display width. An unmeasurable
// width (zero, negative, NaN or infinite) leaves the previous value in place
// and reports false.
func (r *Resolver) Resolve(displayWidth float64) (float64, bool) {
	if r.logicalWidth <= 0 || displayWidth <= 0 || math.IsNaN(displayWidth) || math.IsInf(displayWidth, 0) {
		return r.current, false
	}
	r.current = displayWidth / r.logicalWidth
	return r.current, true
}

// Factor returns the current display-pixels-per-logical-unit ratio.
func (r *Resolver) Factor() float64 { return r.current }

func (r *Resolver) ToDisplay(v float64) float64 { return v * r.current }
func (r *Resolver) ToLogical(v float64) float64 { return v / r.current }

func (r *Resolver) PtToDisplay(p vector.Pt) vector.Pt { return p.Mul(r.current) }
func (r *Resolver) PtToLogical(p vector.Pt) vector.Pt { return p.Div(r.current) }
