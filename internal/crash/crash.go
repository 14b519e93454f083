/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a crash report plus a JSON snapshot of the
// flyer being edited.
package crash

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"goflyer/internal/domain"
	applog "goflyer/internal/log"
	"goflyer/internal/telemetry"
	"goflyer/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// ReportDir is where reports are written; os.TempDir() when empty.
var ReportDir string

// Snapshotter exposes the flyer model; *session.Session satisfies it.
type Snapshotter interface {
	Snapshot() domain.FlyerState
}

// Recover captures a panic, logs an error with stacktrace,
// writes an error report file, and saves the flyer captions (if src is given).
//
// Usage: defer crash.Recover(sess)
func Recover(src Snapshotter) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, _ := writeReport(r, stack)
		if src != nil {
			if path, err := writeSnapshot(src.Snapshot()); err != nil {
				l.Error("flyer snapshot failed", slog.Any("err", err))
			} else {
				l.Info("flyer snapshot written", slog.String("path", path))
			}
		}

		if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
			l.Error("failed to write crash message to stderr", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
			l.Error("failed to write version info to stderr", slog.Any("err", err))
		}
		// Exit with a non-zero code to indicate failure in CLI context.
		exitFn(2)
	}
}

func reportDir() string {
	if ReportDir != "" {
		_ = os.MkdirAll(ReportDir, 0o755)
		return ReportDir
	}
	return os.TempDir()
}

func writeReport(panicVal any, stack []byte) (string, error) {
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(reportDir(), fmt.Sprintf("crash-%s.log", stamp))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "goflyer Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}

	// optionally upload anonymized crash report (opt-in)
	telemetry.UploadCrash(buf.Bytes())
	return path, nil
}

// writeSnapshot stores the captions and background transform. The background
// pixels are left out; only the file name is kept.
func writeSnapshot(st domain.FlyerState) (string, error) {
	if st.BackgroundImage != nil {
		bg := *st.BackgroundImage
		bg.DataURL = ""
		st.BackgroundImage = &bg
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return "", err
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(reportDir(), fmt.Sprintf("crash-%s-flyer.json", stamp))
	return path, os.WriteFile(path, data, 0o644)
}
