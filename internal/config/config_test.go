/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zalando/go-keyring"
)

type memStore map[string]string

func (m memStore) Get(service, key string) (string, error) {
	v, ok := m[service+"/"+key]
	if !ok {
		return "", keyring.ErrNotFound
	}
	return v, nil
}
func (m memStore) Set(service, key, value string) error { m[service+"/"+key] = value; return nil }
func (m memStore) Delete(service, key string) error {
	if _, ok := m[service+"/"+key]; !ok {
		return keyring.ErrNotFound
	}
	delete(m, service+"/"+key)
	return nil
}

// isolate points the config file into a temp dir and stubs the keyring.
func isolate(t *testing.T) (string, memStore) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigPath, path)
	store := memStore{}
	old := tokenStore
	tokenStore = store
	t.Cleanup(func() { tokenStore = old })
	return path, store
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	isolate(t)
	cfg, tok, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if tok != "" {
		t.Fatalf("expected no token, got %q", tok)
	}
	if cfg.Editor.DisplayWidth != 540 || cfg.Export.Preset != "web" {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path, store := isolate(t)
	cfg := Defaults()
	cfg.Editor.OverlayPath = "/srv/template.png"
	cfg.Export.Dir = "/tmp/flyers"
	cfg.Telemetry.OptIn = true
	if err := Save(cfg, "s3cret"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if store["goflyer/telemetry_token"] != "s3cret" {
		t.Fatalf("token not stored in keyring: %v", store)
	}
	got, tok, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if tok != "s3cret" || got.Editor.OverlayPath != "/srv/template.png" || got.Export.Dir != "/tmp/flyers" || !got.Telemetry.OptIn {
		t.Fatalf("round trip mismatch: %#v tok=%q", got, tok)
	}
	if err := ClearToken(); err != nil {
		t.Fatalf("ClearToken() error: %v", err)
	}
	if err := ClearToken(); err != nil {
		t.Fatalf("ClearToken() on missing token should succeed: %v", err)
	}
}

func TestEnvOverridesEditorAndExport(t *testing.T) {
	isolate(t)
	t.Setenv(EnvOverlayPath, "/tmp/ov.png")
	t.Setenv(EnvDisplayWidth, "800")
	t.Setenv(EnvExportFont, "/fonts/LEMONMILK-Bold.otf")
	t.Setenv(EnvExportPreset, "PRINT")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Editor.OverlayPath != "/tmp/ov.png" || cfg.Editor.DisplayWidth != 800 {
		t.Fatalf("editor overrides not applied: %#v", cfg.Editor)
	}
	if cfg.Export.FontPath != "/fonts/LEMONMILK-Bold.otf" || cfg.Export.Preset != "print" {
		t.Fatalf("export overrides not applied: %#v", cfg.Export)
	}
	if env, ok := EnvOverrideFor("export.preset"); !ok || env != EnvExportPreset {
		t.Fatalf("EnvOverrideFor(export.preset) = %q, %v", env, ok)
	}
	if _, ok := EnvOverrideFor("export.dir"); ok {
		t.Fatalf("export.dir is not overridden")
	}
}

func TestInvalidDisplayWidthIgnored(t *testing.T) {
	isolate(t)
	t.Setenv(EnvDisplayWidth, "-3")
	cfg, _, _ := Load()
	if cfg.Editor.DisplayWidth != 540 {
		t.Fatalf("negative width must be ignored, got %v", cfg.Editor.DisplayWidth)
	}
}

func TestEnvOverridesTelemetry(t *testing.T) {
	isolate(t)
	t.Setenv(EnvTelemetryOptIn, "true")
	t.Setenv(EnvTelemetryURL, "https://example.test/events")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Telemetry.OptIn || cfg.Telemetry.EventsURL != "https://example.test/events" {
		t.Fatalf("telemetry overrides not applied: %#v", cfg.Telemetry)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "DEBUG"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/var/log/goflyer.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/var/log/goflyer.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	isolate(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "/tmp/goflyer.log")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "/tmp/goflyer.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}
