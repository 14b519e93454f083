/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders the flyer at full resolution and hands the PNG to a
// downloader.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"time"

	"goflyer/internal/domain"
	"goflyer/internal/layout"
	applog "goflyer/internal/log"
	"goflyer/internal/render"
	"goflyer/internal/textlayout"
)

// FileName is the name every export is downloaded as.
const FileName = "flyer.png"

// ErrBusy is returned when an export is requested while one is in flight.
var ErrBusy = errors.New("export already in progress")

// EventSink receives usage events; *telemetry.Client satisfies it.
type EventSink interface {
	Event(name string, props map[string]any)
}

// Result is a successful export.
type Result struct {
	PNG      []byte
	DataURL  string
	Location string
}

// Exporter produces flyer.png from a model snapshot. The projection always
// runs at scale 1, independent of any display.
type Exporter struct {
	Projector  *layout.Projector
	Rasterizer render.Rasterizer
	Downloader Downloader
	Events     EventSink
	Logger     *slog.Logger
}

// New returns an exporter whose projector and rasterizer share provider.
func New(provider textlayout.Provider, overlay *domain.Image, dl Downloader) *Exporter {
	return &Exporter{
		Projector:  layout.NewProjector(provider, overlay),
		Rasterizer: render.NewGGRasterizer(provider),
		Downloader: dl,
	}
}

func (e *Exporter) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return applog.WithComponent("export")
}

// Render rasterizes state at 1080x1080 and encodes it as PNG.
func (e *Exporter) Render(ctx context.Context, state domain.FlyerState) ([]byte, error) {
	if e.Projector == nil || e.Rasterizer == nil {
		return nil, errors.New("exporter not configured")
	}
	l := e.Projector.Project(&state, 1, layout.TargetExport)
	img, err := e.Rasterizer.Rasterize(ctx, l, render.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("rasterize: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Export renders state and delivers it as flyer.png. Failures are logged and
// nothing is delivered.
func (e *Exporter) Export(ctx context.Context, state domain.FlyerState) (Result, error) {
	log := applog.WithOperation(e.logger(), "export")
	start := time.Now()
	res, err := e.export(ctx, state)
	if err != nil {
		log.ErrorContext(ctx, "export failed", slog.String("err", err.Error()))
		return Result{}, err
	}
	log.InfoContext(ctx, "export done",
		slog.Int("bytes", len(res.PNG)),
		slog.String("location", res.Location),
		slog.Duration("took", time.Since(start)))
	if e.Events != nil {
		e.Events.Event("flyer.export", map[string]any{
			"texts":      len(state.TextElements),
			"background": state.BackgroundImage != nil,
			"ms":         time.Since(start).Milliseconds(),
		})
	}
	return res, nil
}

func (e *Exporter) export(ctx context.Context, state domain.FlyerState) (Result, error) {
	data, err := e.Render(ctx, state)
	if err != nil {
		return Result{}, err
	}
	res := Result{PNG: data, DataURL: domain.EncodeDataURL("image/png", data)}
	if e.Downloader == nil {
		return res, nil
	}
	loc, err := e.Downloader.Download(ctx, FileName, res.DataURL)
	if err != nil {
		return Result{}, fmt.Errorf("download: %w", err)
	}
	res.Location = loc
	return res, nil
}
