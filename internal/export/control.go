/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"context"
	"sync"

	"goflyer/internal/domain"
)

const (
	LabelIdle = "Download"
	LabelBusy = "Generating..."
)

// Control is the download button: disabled with a busy label while an export
// runs, restored afterwards whatever the outcome.
type Control struct {
	exp *Exporter

	mu        sync.Mutex
	busy      bool
	listeners []func(label string, enabled bool)
}

// NewControl wraps exp.
func NewControl(exp *Exporter) *Control { return &Control{exp: exp} }

// OnChange registers a listener for label and enabled-state changes.
func (c *Control) OnChange(fn func(label string, enabled bool)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Label returns the current button label.
func (c *Control) Label() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return LabelBusy
	}
	return LabelIdle
}

// Enabled reports whether the button accepts clicks.
func (c *Control) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.busy
}

// Trigger runs one export. A second call while one is running returns ErrBusy.
func (c *Control) Trigger(ctx context.Context, state domain.FlyerState) (Result, error) {
	if !c.setBusy(true) {
		return Result{}, ErrBusy
	}
	defer c.setBusy(false)
	return c.exp.Export(ctx, state)
}

func (c *Control) setBusy(busy bool) bool {
	c.mu.Lock()
	if c.busy == busy {
		c.mu.Unlock()
		return false
	}
	c.busy = busy
	label := LabelIdle
	if busy {
		label = LabelBusy
	}
	ls := append([]func(string, bool){}, c.listeners...)
	c.mu.Unlock()
	for _, fn := range ls {
		fn(label, !busy)
	}
	return true
}
