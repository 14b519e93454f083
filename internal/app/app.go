/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package app assembles an editing session and its exporter from the user configuration.
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"goflyer/internal/config"
	"goflyer/internal/domain"
	"goflyer/internal/export"
	applog "goflyer/internal/log"
	"goflyer/internal/session"
	"goflyer/internal/telemetry"
	"goflyer/internal/textlayout"
)

// App holds the wired components of one editor instance.
type App struct {
	Config    config.AppConfig
	Session   *session.Session
	Exporter  *export.Exporter
	Control   *export.Control
	Telemetry *telemetry.Client
	Overlay   *domain.Image
}

// LogOptions merges the logging section of cfg into logger options.
func LogOptions(cfg config.AppConfig) applog.Options {
	opts := applog.FromEnv()
	if v := strings.TrimSpace(cfg.Logging.Level); v != "" {
		opts.Level = v
	}
	if v := strings.TrimSpace(cfg.Logging.Format); v != "" {
		opts.Format = v
	}
	if cfg.Logging.Source {
		opts.AddSource = true
	}
	if v := strings.TrimSpace(cfg.Logging.File); v != "" {
		opts.File = v
	}
	return opts
}

// FontProvider returns the Go font fallback, backed by the configured export
// font when one is set.
func FontProvider(cfg config.ExportConfig) (textlayout.Provider, error) {
	fallback := textlayout.NewGoFontProvider()
	if strings.TrimSpace(cfg.FontPath) == "" {
		return fallback, nil
	}
	lib := textlayout.NewFontLibrary()
	if err := lib.LoadFile(textlayout.ExportFamily, 400, false, cfg.FontPath); err != nil {
		return fallback, fmt.Errorf("load export font: %w", err)
	}
	return textlayout.OTProvider{Lib: lib, Fallback: fallback}, nil
}

// New builds an App. A missing overlay or export font is logged and the editor
// continues without it.
func New(cfg config.AppConfig, token string) *App {
	l := applog.WithComponent("app")

	provider, err := FontProvider(cfg.Export)
	if err != nil {
		l.Warn("export font unavailable, using fallback", slog.String("path", cfg.Export.FontPath), slog.Any("err", err))
	}

	var overlay *domain.Image
	if p := strings.TrimSpace(cfg.Editor.OverlayPath); p != "" {
		img, err := domain.LoadImageFile(p)
		switch {
		case err == nil:
			overlay = img
		case errors.Is(err, fs.ErrNotExist):
			l.Info("no overlay template", slog.String("path", p))
		default:
			l.Warn("overlay not loaded", slog.String("path", p), slog.Any("err", err))
		}
	}

	tc := telemetry.NewDefault(telemetry.FromAppConfig(cfg.Telemetry, token))

	exp := export.New(provider, overlay, export.DirDownloader{Dir: cfg.Export.Dir})
	exp.Events = tc
	exp.Logger = applog.WithComponent("export")

	sess := session.New(session.Options{
		Projector:    exp.Projector,
		DisplayWidth: cfg.Editor.DisplayWidth,
		Logger:       applog.WithComponent("session"),
		Events:       tc,
	})

	return &App{
		Config:    cfg,
		Session:   sess,
		Exporter:  exp,
		Control:   export.NewControl(exp),
		Telemetry: tc,
		Overlay:   overlay,
	}
}

// Close flushes pending telemetry.
func (a *App) Close() {
	if a == nil || a.Telemetry == nil {
		return
	}
	a.Telemetry.Close()
}
