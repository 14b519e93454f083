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
	"fmt"
	"path/filepath"
	"strings"

	"goflyer/internal/domain"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// ParsePreset maps a user string to a preset; empty means web.
func ParsePreset(s string) (PresetName, error) {
	switch PresetName(strings.ToLower(strings.TrimSpace(s))) {
	case "", PresetWeb:
		return PresetWeb, nil
	case PresetPrint:
		return PresetPrint, nil
	default:
		return "", fmt.Errorf("unknown preset: %s", s)
	}
}

func presetFormats(p PresetName) []string {
	switch p {
	case PresetPrint:
		return []string{"png", "pdf"}
	default:
		return []string{"png"}
	}
}

// ExportPreset renders state once and writes every format of the preset into
// outDir. It returns the written paths.
func (e *Exporter) ExportPreset(ctx context.Context, state domain.FlyerState, preset PresetName, outDir string) ([]string, error) {
	if outDir == "" {
		outDir = "."
	}
	x := *e
	x.Downloader = DirDownloader{Dir: outDir}
	res, err := x.Export(ctx, state)
	if err != nil {
		return nil, err
	}
	files := []string{res.Location}
	for _, f := range presetFormats(preset) {
		switch f {
		case "png":
		case "pdf":
			out := filepath.Join(outDir, strings.TrimSuffix(FileName, filepath.Ext(FileName))+".pdf")
			if err := WritePDF(res.PNG, out, PDFOptions{DPI: 300}); err != nil {
				return files, fmt.Errorf("pdf: %w", err)
			}
			files = append(files, out)
		default:
			return files, fmt.Errorf("unknown format: %s", f)
		}
	}
	return files, nil
}
