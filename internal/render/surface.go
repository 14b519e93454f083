/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"errors"
	"fmt"
	"image"
	"sync/atomic"

	"github.com/fogleman/gg"
)

// ErrReleased is returned when a released surface is used.
var ErrReleased = errors.New("surface released")

var liveSurfaces atomic.Int64

// Surface is an offscreen drawing target. Callers must Release it once the
// snapshot has been taken, on success and failure alike.
type Surface struct {
	dc       *gg.Context
	released atomic.Bool
}

// AcquireSurface allocates a w x h offscreen target.
func AcquireSurface(w, h int) (*Surface, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", w, h)
	}
	liveSurfaces.Add(1)
	return &Surface{dc: gg.NewContext(w, h)}, nil
}

// Context returns the gg drawing context.
func (s *Surface) Context() (*gg.Context, error) {
	if s.released.Load() {
		return nil, ErrReleased
	}
	return s.dc, nil
}

// Snapshot copies the current pixels.
func (s *Surface) Snapshot() (image.Image, error) {
	if s.released.Load() {
		return nil, ErrReleased
	}
	src, ok := s.dc.Image().(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("unexpected surface type %T", s.dc.Image())
	}
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst, nil
}

// Release frees the surface. It is safe to call more than once.
func (s *Surface) Release() {
	if s.released.CompareAndSwap(false, true) {
		s.dc = nil
		liveSurfaces.Add(-1)
	}
}

// LiveSurfaces reports how many surfaces are currently acquired.
func LiveSurfaces() int64 { return liveSurfaces.Load() }
