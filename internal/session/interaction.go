/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package session

import (
	"log/slog"
	"strings"

	"goflyer/internal/vector"
)

// dragState is the Dragging(id, grab) state; nil means Idle. center is the
// caption's current display position, which lives only in the visual layout
// until release.
type dragState struct {
	id     string
	grab   vector.Pt
	center vector.Pt
	moved  bool
}

// editState tracks the single caption being edited in place.
type editState struct {
	id       string
	original string
	buffer   string
}

// Key is an editing key the session reacts to.
type Key int

const (
	KeyOther Key = iota
	KeyEnter
	KeyEscape
)

// Dragging reports the caption currently being dragged, if any.
func (s *Session) Dragging() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag == nil {
		return "", false
	}
	return s.drag.id, true
}

// Editing reports the caption currently in edit mode, if any.
func (s *Session) Editing() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit == nil {
		return "", false
	}
	return s.edit.id, true
}

// PointerDown starts dragging the topmost caption under p. It does nothing
// while a caption is being edited or when p hits no caption.
func (s *Session) PointerDown(p vector.Pt) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beginDragLocked(p)
}

func (s *Session) beginDragLocked(p vector.Pt) bool {
	if s.edit != nil || s.drag != nil {
		return false
	}
	id, ok := s.visual.HitText(p)
	if !ok {
		return false
	}
	t, _ := s.visual.Text(id)
	s.drag = &dragState{id: id, grab: p.Sub(t.Center), center: t.Center}
	s.log.Debug("drag start", slog.String("id", id))
	return true
}

// PointerMove moves the dragged caption so the grab offset is preserved.
// Only the display layout changes; the model is written on release.
func (s *Session) PointerMove(p vector.Pt) bool {
	s.mu.Lock()
	if s.drag == nil {
		s.mu.Unlock()
		return false
	}
	s.drag.center = p.Sub(s.drag.grab)
	s.drag.moved = true
	s.visual = s.visual.MoveText(s.drag.id, s.drag.center)
	l := s.visual
	listeners := append([]RenderFunc(nil), s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(l)
	}
	return true
}

// PointerUp ends the drag and commits the caption's position to the model.
func (s *Session) PointerUp() bool { return s.endDrag("pointer_up") }

// PointerLeave ends the drag exactly like PointerUp.
func (s *Session) PointerLeave() bool { return s.endDrag("pointer_leave") }

// TouchStart begins a drag only for a single contact.
func (s *Session) TouchStart(touches []vector.Pt) bool {
	if len(touches) != 1 {
		return false
	}
	return s.PointerDown(touches[0])
}

// TouchMove follows a single contact; multi-touch moves are ignored.
func (s *Session) TouchMove(touches []vector.Pt) bool {
	if len(touches) != 1 {
		return false
	}
	return s.PointerMove(touches[0])
}

// TouchEnd ends the drag.
func (s *Session) TouchEnd() bool { return s.endDrag("touch_end") }

func (s *Session) endDrag(op string) bool {
	return s.mutate(op, func() bool {
		d := s.drag
		if d == nil {
			return false
		}
		s.drag = nil
		if !d.moved {
			return true
		}
		el, ok := s.state.Find(d.id)
		if !ok {
			// removed while dragging
			return true
		}
		f := s.resolver.Factor()
		el.X = d.center.X / f
		el.Y = d.center.Y / f
		s.log.Debug("drag commit", slog.String("id", d.id), slog.Float64("x", el.X), slog.Float64("y", el.Y))
		return true
	})
}

// BeginEdit enters edit mode for a caption (double-click). An active drag is
// committed first and any other caption being edited is committed.
func (s *Session) BeginEdit(id string) bool {
	s.endDrag("edit_drag_end")
	if cur, ok := s.Editing(); ok && cur != id {
		s.Blur()
	}
	return s.mutate("begin_edit", func() bool {
		if s.edit != nil {
			return false
		}
		el, ok := s.state.Find(id)
		if !ok {
			return false
		}
		s.edit = &editState{id: id, original: el.Text, buffer: el.Text}
		return true
	})
}

// BeginEditAt enters edit mode for the topmost caption under p.
func (s *Session) BeginEditAt(p vector.Pt) bool {
	s.mu.Lock()
	id, ok := s.visual.HitText(p)
	s.mu.Unlock()
	if !ok {
		return false
	}
	return s.BeginEdit(id)
}

// EditInput replaces the in-progress text of the caption being edited.
func (s *Session) EditInput(text string) bool {
	return s.mutate("edit_input", func() bool {
		if s.edit == nil {
			return false
		}
		s.edit.buffer = text
		return true
	})
}

// EditKey handles Enter (commit) and Escape (revert, then commit). Other keys
// are left to the text field.
func (s *Session) EditKey(k Key) bool {
	switch k {
	case KeyEnter:
		return s.Blur()
	case KeyEscape:
		s.mu.Lock()
		if s.edit != nil {
			s.edit.buffer = s.edit.original
		}
		s.mu.Unlock()
		return s.Blur()
	default:
		return false
	}
}

// Blur leaves edit mode and commits the trimmed text. Empty text deletes the
// caption. A render always follows.
func (s *Session) Blur() bool {
	return s.mutate("edit_commit", func() bool {
		e := s.edit
		if e == nil {
			return false
		}
		s.edit = nil
		text := strings.TrimSpace(e.buffer)
		if text == "" {
			s.state.Remove(e.id)
			s.log.Debug("caption deleted", slog.String("id", e.id))
			return true
		}
		if el, ok := s.state.Find(e.id); ok {
			el.Text = text
		}
		return true
	})
}
