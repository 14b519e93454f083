/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package script replays JSON command scripts against a flyer session, for
// headless rendering and end-to-end tests.
package script

import (
	"fmt"
	"strings"

	"goflyer/internal/vector"
)

// Script is a validated command list.
type Script struct {
	Version      int       `json:"version,omitempty"`
	DisplayWidth float64   `json:"display_width,omitempty"`
	Commands     []Command `json:"commands"`
}

// Point is a display-pixel position relative to the canvas origin.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) pt() vector.Pt { return vector.Pt{X: p.X, Y: p.Y} }

// Command is one session operation. Which fields apply depends on Op.
type Command struct {
	Op      string  `json:"op"`
	Path    string  `json:"path,omitempty"`
	Value   int     `json:"value,omitempty"`
	X       *int    `json:"x,omitempty"`
	Y       *int    `json:"y,omitempty"`
	Text    string  `json:"text,omitempty"`
	Width   float64 `json:"width,omitempty"`
	ID      string  `json:"id,omitempty"`
	From    *Point  `json:"from,omitempty"`
	To      *Point  `json:"to,omitempty"`
	Key     string  `json:"key,omitempty"`
	Confirm *bool   `json:"confirm,omitempty"`
	Preset  string  `json:"preset,omitempty"`
	Out     string  `json:"out,omitempty"`
}

// Error is a validation or replay problem tied to a command.
type Error struct {
	Command int // zero-based; -1 for the document itself
	Message string
}

func (e Error) Error() string {
	if e.Command < 0 {
		return e.Message
	}
	return fmt.Sprintf("command %d: %s", e.Command, e.Message)
}

// Errors aggregates schema violations.
type Errors []Error

func (es Errors) Error() string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}
