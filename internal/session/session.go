/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package session holds one flyer editing session: the logical model, the
// display scale, and the pointer and inline-edit state machines that mutate it.
//
// All coordinates passed in by a UI are display pixels relative to the canvas
// origin. Everything stored in the model is logical units.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"goflyer/internal/domain"
	"goflyer/internal/layout"
	applog "goflyer/internal/log"
	"goflyer/internal/scale"
)

// RenderFunc receives the display layout after every mutation.
type RenderFunc func(layout.Layout)

// Options configures a new Session.
type Options struct {
	ID           string
	Projector    *layout.Projector
	DisplayWidth float64 // initial measured canvas width; scale.DefaultDisplayWidth if zero
	Logger       *slog.Logger
	Events       EventSink
}

// EventSink receives usage events; *telemetry.Client satisfies it.
type EventSink interface {
	Event(name string, props map[string]any)
}

// Session is safe for concurrent use; callbacks run after the lock is released.
type Session struct {
	mu        sync.Mutex
	id        string
	state     *domain.FlyerState
	nextID    int
	resolver  *scale.Resolver
	projector *layout.Projector
	visual    layout.Layout
	drag      *dragState
	edit      *editState
	listeners []RenderFunc
	log       *slog.Logger
	events    EventSink
}

// New starts a session with an empty flyer.
func New(opts Options) *Session {
	p := opts.Projector
	if p == nil {
		p = &layout.Projector{}
	}
	w := opts.DisplayWidth
	if w <= 0 {
		w = scale.DefaultDisplayWidth
	}
	l := opts.Logger
	if l == nil {
		l = applog.WithComponent("session")
	}
	id := opts.ID
	if id == "" {
		id = "local"
	}
	s := &Session{
		id:        id,
		state:     domain.NewFlyerState(),
		resolver:  scale.NewResolverFor(domain.CanvasWidth, w),
		projector: p,
		log:       l.With(slog.String("session", id)),
		events:    opts.Events,
	}
	s.visual = s.projectLocked()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Context returns ctx tagged with the session id for logging.
func (s *Session) Context(ctx context.Context) context.Context {
	return applog.WithSession(ctx, s.id)
}

// OnRender registers a listener called with each new display layout.
func (s *Session) OnRender(fn RenderFunc) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	l := s.visual
	s.mu.Unlock()
	fn(l)
}

// Snapshot returns a copy of the logical model.
func (s *Session) Snapshot() domain.FlyerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Layout returns the current display layout, including any in-flight drag.
func (s *Session) Layout() layout.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visual
}

// Scale returns the current display-pixels-per-logical-unit factor.
func (s *Session) Scale() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver.Factor()
}

// Projector returns the projector shared by display and export.
func (s *Session) Projector() *layout.Projector { return s.projector }

// mutate runs fn under the lock and re-renders if it reports a change.
func (s *Session) mutate(op string, fn func() bool) bool {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return false
	}
	s.visual = s.projectLocked()
	l := s.visual
	listeners := append([]RenderFunc(nil), s.listeners...)
	s.mu.Unlock()

	s.log.Debug("render", slog.String("op", op), slog.Int("texts", len(l.Texts)))
	for _, fn := range listeners {
		fn(l)
	}
	return true
}

// projectLocked builds the display layout. While a caption is being edited its
// in-progress text is shown; during a drag the dragged caption keeps its
// display position.
func (s *Session) projectLocked() layout.Layout {
	st := s.state
	if s.edit != nil {
		c := s.state.Clone()
		if el, ok := c.Find(s.edit.id); ok {
			el.Text = s.edit.buffer
		}
		st = &c
	}
	l := s.projector.Project(st, s.resolver.Factor(), layout.TargetDisplay)
	if s.drag != nil {
		l = l.MoveText(s.drag.id, s.drag.center)
	}
	return l
}

// AddText appends a caption with default placement. Blank input is ignored.
func (s *Session) AddText(input string) (domain.TextElement, bool) {
	text := strings.TrimSpace(input)
	var el domain.TextElement
	ok := s.mutate("add_text", func() bool {
		if text == "" {
			return false
		}
		el = domain.NewTextElement(fmt.Sprintf("text-%d", s.nextID), text)
		s.nextID++
		s.state.TextElements = append(s.state.TextElements, el)
		return true
	})
	return el, ok
}

// SetBackground installs a background photo and resets zoom and offsets.
// A nil image (no file selected) is ignored.
func (s *Session) SetBackground(img *domain.Image) bool {
	return s.mutate("set_background", func() bool {
		if img == nil {
			return false
		}
		s.state.BackgroundImage = img
		s.state.ResetBackgroundTransform()
		return true
	})
}

// LoadBackgroundFile reads an image file and installs it as the background.
func (s *Session) LoadBackgroundFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	img, err := domain.LoadImageFile(path)
	if err != nil {
		return err
	}
	s.SetBackground(img)
	return nil
}

// ClearBackground removes the background photo, keeping captions.
func (s *Session) ClearBackground() bool {
	return s.mutate("clear_background", func() bool {
		if s.state.BackgroundImage == nil {
			return false
		}
		s.state.BackgroundImage = nil
		return true
	})
}

// SetZoom sets the background size percentage, clamped to 50..200.
func (s *Session) SetZoom(percent int) bool {
	return s.mutate("set_zoom", func() bool {
		s.state.BackgroundZoom = domain.ClampZoom(percent)
		return true
	})
}

// SetOffsetX sets the horizontal background offset in logical units.
func (s *Session) SetOffsetX(v int) bool {
	return s.mutate("set_offset_x", func() bool {
		s.state.BackgroundOffsetX = v
		return true
	})
}

// SetOffsetY sets the vertical background offset in logical units.
func (s *Session) SetOffsetY(v int) bool {
	return s.mutate("set_offset_y", func() bool {
		s.state.BackgroundOffsetY = v
		return true
	})
}

// ResetBackgroundTransform restores zoom and offsets to (100, 0, 0).
func (s *Session) ResetBackgroundTransform() bool {
	return s.mutate("reset_background", func() bool {
		s.state.ResetBackgroundTransform()
		return true
	})
}

// Reset discards the whole flyer after confirm approves. A nil confirm is
// treated as approval. Caption ids keep counting so none is ever reused.
func (s *Session) Reset(confirm func() bool) bool {
	if confirm != nil && !confirm() {
		return false
	}
	var dropped int
	ok := s.mutate("reset", func() bool {
		dropped = len(s.state.TextElements)
		s.state = domain.NewFlyerState()
		s.drag = nil
		s.edit = nil
		return true
	})
	s.log.Info("flyer reset", slog.Int("texts", dropped))
	if s.events != nil {
		s.events.Event("flyer.reset", map[string]any{"texts": dropped})
	}
	return ok
}

// Resize re-measures the display canvas. An unmeasurable width keeps the
// previous scale and skips the render.
func (s *Session) Resize(displayWidth float64) bool {
	return s.mutate("resize", func() bool {
		old := s.resolver.Factor()
		next, ok := s.resolver.Resolve(displayWidth)
		if !ok {
			s.log.Debug("resize skipped", slog.Float64("width", displayWidth))
			return false
		}
		if s.drag != nil && old > 0 {
			r := next / old
			s.drag.center = s.drag.center.Mul(r)
			s.drag.grab = s.drag.grab.Mul(r)
		}
		return true
	})
}
