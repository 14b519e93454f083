/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package ui is the desktop editor surface. The real window needs the fyne
// build tag and cgo; other builds get a stub Run that explains how to enable it.
package ui

import (
	"log/slog"

	"goflyer/internal/export"
	"goflyer/internal/session"
)

// Options wires the window to an editing session.
type Options struct {
	Session *session.Session
	Control *export.Control
	Logger  *slog.Logger
	// Title overrides the window title.
	Title string
}

func (o Options) title() string {
	if o.Title != "" {
		return o.Title
	}
	return "goflyer"
}
