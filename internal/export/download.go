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
	"os"
	"path/filepath"

	"goflyer/internal/domain"
)

// Downloader delivers a named data URL to the user and reports where it went.
type Downloader interface {
	Download(ctx context.Context, name, dataURL string) (string, error)
}

// DirDownloader saves downloads into Dir, creating it when needed.
type DirDownloader struct {
	Dir string
}

// Download implements Downloader.
func (d DirDownloader) Download(ctx context.Context, name, dataURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := domain.DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure out dir: %w", err)
	}
	out := filepath.Join(dir, filepath.Base(name))
	tmp := out + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, out); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("finalize %s: %w", name, err)
	}
	return out, nil
}

// DownloaderFunc adapts a function to Downloader.
type DownloaderFunc func(ctx context.Context, name, dataURL string) (string, error)

// Download implements Downloader.
func (f DownloaderFunc) Download(ctx context.Context, name, dataURL string) (string, error) {
	return f(ctx, name, dataURL)
}
