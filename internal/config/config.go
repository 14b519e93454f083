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
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are read-only overrides applied at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type EditorConfig struct {
	// OverlayPath is the decorative template drawn over every flyer. A missing
	// file only drops the overlay.
	OverlayPath  string  `yaml:"overlay_path"`
	DisplayWidth float64 `yaml:"display_width"`
}

type ExportConfig struct {
	Dir string `yaml:"dir"`
	// FontPath is an OpenType file registered as the export caption family.
	FontPath string `yaml:"font_path"`
	Preset   string `yaml:"preset"` // "web" | "print"
}

type TelemetryConfig struct {
	OptIn     bool   `yaml:"opt_in"`
	EventsURL string `yaml:"events_url"`
	CrashURL  string `yaml:"crash_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
	// Token is not stored on disk; it lives in the OS keychain.
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int             `yaml:"config_version"`
	Editor        EditorConfig    `yaml:"editor"`
	Export        ExportConfig    `yaml:"export"`
	Telemetry     TelemetryConfig `yaml:"telemetry"`
	Logging       LoggingConfig   `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Editor:        EditorConfig{OverlayPath: "overlay.png", DisplayWidth: 540},
		Export:        ExportConfig{Dir: ".", Preset: "web"},
		Telemetry:     TelemetryConfig{TimeoutMs: 1500},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath      = "GOFLYER_CONFIG"
	EnvOverlayPath     = "GOFLYER_OVERLAY"
	EnvDisplayWidth    = "GOFLYER_DISPLAY_WIDTH"
	EnvExportDir       = "GOFLYER_EXPORT_DIR"
	EnvExportFont      = "GOFLYER_EXPORT_FONT"
	EnvExportPreset    = "GOFLYER_EXPORT_PRESET"
	EnvTelemetryOptIn  = "GOFLYER_TELEMETRY_OPT_IN"
	EnvTelemetryURL    = "GOFLYER_TELEMETRY_URL"
	EnvCrashUploadURL  = "GOFLYER_CRASH_UPLOAD_URL"
	EnvTelemetryTimeout = "GOFLYER_TELEMETRY_TIMEOUT_MS"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "GOFLYER_LOG_LEVEL"
	EnvLogFormat = "GOFLYER_LOG_FORMAT"
	EnvLogSource = "GOFLYER_LOG_SOURCE"
	EnvLogFile   = "GOFLYER_LOG_FILE"
)

// Service/keys for OS keyring.
const (
	keyringService = "goflyer"
	keyringToken   = "telemetry_token"
)

// tokenStore abstracts keyring, so we can stub in tests.
var tokenStore TokenStore = osKeyring{}

type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// osKeyring implements TokenStore using the OS keyring via github.com/zalando/go-keyring.
type osKeyring struct{}

func (osKeyring) Get(service, key string) (string, error) { return keyring.Get(service, key) }
func (osKeyring) Set(service, key, value string) error    { return keyring.Set(service, key, value) }
func (osKeyring) Delete(service, key string) error        { return keyring.Delete(service, key) }

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "goflyer")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "goflyer")
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "goflyer")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "goflyer")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads user config file (if present), applies defaults, and merges environment overrides.
// It also loads the telemetry token from keyring (not kept inside the struct; returned separately).
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	tok, _ := tokenStore.Get(keyringService, keyringToken)
	return cfg, tok, nil
}

// Save writes the user config YAML and persists the token into OS keyring (if non-empty).
func Save(cfg AppConfig, token string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if token != "" {
		if err := tokenStore.Set(keyringService, keyringToken, token); err != nil {
			return err
		}
	}
	return nil
}

// ClearToken removes the telemetry token from the keyring.
func ClearToken() error {
	err := tokenStore.Delete(keyringService, keyringToken)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if v := strings.TrimSpace(src.Editor.OverlayPath); v != "" {
		dst.Editor.OverlayPath = v
	}
	if src.Editor.DisplayWidth > 0 {
		dst.Editor.DisplayWidth = src.Editor.DisplayWidth
	}
	if v := strings.TrimSpace(src.Export.Dir); v != "" {
		dst.Export.Dir = v
	}
	if v := strings.TrimSpace(src.Export.FontPath); v != "" {
		dst.Export.FontPath = v
	}
	if v := strings.TrimSpace(src.Export.Preset); v != "" {
		dst.Export.Preset = strings.ToLower(v)
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Telemetry.OptIn = src.Telemetry.OptIn
	if v := strings.TrimSpace(src.Telemetry.EventsURL); v != "" {
		dst.Telemetry.EventsURL = v
	}
	if v := strings.TrimSpace(src.Telemetry.CrashURL); v != "" {
		dst.Telemetry.CrashURL = v
	}
	if src.Telemetry.TimeoutMs > 0 {
		dst.Telemetry.TimeoutMs = src.Telemetry.TimeoutMs
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func envBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvOverlayPath)); v != "" {
		cfg.Editor.OverlayPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDisplayWidth)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Editor.DisplayWidth = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportDir)); v != "" {
		cfg.Export.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportFont)); v != "" {
		cfg.Export.FontPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportPreset)); v != "" {
		cfg.Export.Preset = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.Telemetry.OptIn = envBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryURL)); v != "" {
		cfg.Telemetry.EventsURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCrashUploadURL)); v != "" {
		cfg.Telemetry.CrashURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryTimeout)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Telemetry.TimeoutMs = n
		}
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = envBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var overrideKeys = map[string]string{
	"editor.overlay_path":  EnvOverlayPath,
	"editor.display_width": EnvDisplayWidth,
	"export.dir":           EnvExportDir,
	"export.font_path":     EnvExportFont,
	"export.preset":        EnvExportPreset,
	"telemetry.opt_in":     EnvTelemetryOptIn,
	"telemetry.events_url": EnvTelemetryURL,
	"telemetry.crash_url":  EnvCrashUploadURL,
	"telemetry.timeout_ms": EnvTelemetryTimeout,
	"logging.level":        EnvLogLevel,
	"logging.format":       EnvLogFormat,
	"logging.source":       EnvLogSource,
	"logging.file":         EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := overrideKeys[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}
