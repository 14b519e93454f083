/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"goflyer/internal/export"
	applog "goflyer/internal/log"
	"goflyer/internal/session"
	"goflyer/internal/vector"
)

// RunOptions configures a replay.
type RunOptions struct {
	// BaseDir resolves relative background and output paths.
	BaseDir string
	// Exporter handles export commands; they fail when nil.
	Exporter *export.Exporter
	// OutDir is used by export commands without an explicit out.
	OutDir string
	// Preset applies to export commands that name none.
	Preset string
	Logger *slog.Logger
}

// Report summarizes a replay.
type Report struct {
	Applied int
	Files   []string
}

// Run replays sc on s and stops at the first failing command. Commands that
// the session ignores (blank text, a drag that misses every caption) are not
// failures.
func Run(ctx context.Context, s *session.Session, sc Script, opts RunOptions) (Report, error) {
	log := opts.Logger
	if log == nil {
		log = applog.WithComponent("script")
	}
	var rep Report
	if sc.DisplayWidth > 0 {
		s.Resize(sc.DisplayWidth)
	}
	for i, c := range sc.Commands {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		files, err := apply(ctx, s, c, opts)
		if err != nil {
			return rep, Error{Command: i, Message: err.Error()}
		}
		rep.Applied++
		rep.Files = append(rep.Files, files...)
		log.Debug("command applied", slog.Int("index", i), slog.String("op", c.Op))
	}
	return rep, nil
}

func (o RunOptions) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || o.BaseDir == "" {
		return p
	}
	return filepath.Join(o.BaseDir, p)
}

func apply(ctx context.Context, s *session.Session, c Command, opts RunOptions) ([]string, error) {
	switch c.Op {
	case "background":
		return nil, s.LoadBackgroundFile(opts.resolve(c.Path))
	case "clear_background":
		s.ClearBackground()
	case "zoom":
		s.SetZoom(c.Value)
	case "offset":
		if c.X != nil {
			s.SetOffsetX(*c.X)
		}
		if c.Y != nil {
			s.SetOffsetY(*c.Y)
		}
	case "reset_background":
		s.ResetBackgroundTransform()
	case "add_text":
		s.AddText(c.Text)
	case "resize":
		s.Resize(c.Width)
	case "drag", "touch_drag":
		from, ok := dragOrigin(s, c)
		if !ok {
			return nil, nil
		}
		to := c.To.pt()
		if c.Op == "touch_drag" {
			s.TouchStart([]vector.Pt{from})
			s.TouchMove([]vector.Pt{to})
			s.TouchEnd()
		} else {
			s.PointerDown(from)
			s.PointerMove(to)
			s.PointerUp()
		}
	case "edit":
		if !s.BeginEdit(c.ID) {
			return nil, nil
		}
		s.EditInput(c.Text)
		switch c.Key {
		case "escape":
			s.EditKey(session.KeyEscape)
		case "blur":
			s.Blur()
		default:
			s.EditKey(session.KeyEnter)
		}
	case "reset":
		s.Reset(func() bool { return c.Confirm == nil || *c.Confirm })
	case "export":
		if opts.Exporter == nil {
			return nil, fmt.Errorf("export: no exporter configured")
		}
		name := c.Preset
		if name == "" {
			name = opts.Preset
		}
		preset, err := export.ParsePreset(name)
		if err != nil {
			return nil, err
		}
		out := opts.resolve(c.Out)
		if out == "" {
			out = opts.OutDir
		}
		return opts.Exporter.ExportPreset(ctx, s.Snapshot(), preset, out)
	default:
		return nil, fmt.Errorf("unknown op %q", c.Op)
	}
	return nil, nil
}

// dragOrigin is the explicit from point, or the current display center of
// the caption named by id.
func dragOrigin(s *session.Session, c Command) (vector.Pt, bool) {
	if c.From != nil {
		return c.From.pt(), true
	}
	if c.ID == "" {
		return vector.Pt{}, false
	}
	t, ok := s.Layout().Text(c.ID)
	if !ok {
		return vector.Pt{}, false
	}
	return t.Center, true
}
