/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

// Package templatepack bundles a flyer overlay template and its export font
// into a single zip so a look can be shared between installations.
package templatepack

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"goflyer/internal/domain"
	applog "goflyer/internal/log"
	"goflyer/internal/textlayout"
)

// ManifestEntry is the human readable file at the archive root.
const ManifestEntry = "templatepack.manifest.txt"

// Installed reports where the pack's files ended up.
type Installed struct {
	Overlay string
	Font    string
	// Skipped counts entries that were not installed (unknown or already present).
	Skipped int
}

func entryName(kind, src string) string {
	return kind + strings.ToLower(filepath.Ext(src))
}

// Build writes overlayPath (required) and fontPath (optional) into destZip.
// Both are checked before anything is written: the overlay must decode as an
// image and the font must parse as OpenType.
func Build(overlayPath, fontPath, destZip string) error {
	l := applog.WithOperation(applog.WithComponent("templatepack"), "build").With(slog.String("zip", destZip))
	if strings.TrimSpace(overlayPath) == "" {
		return errors.New("overlay path is required")
	}
	if strings.TrimSpace(destZip) == "" {
		return errors.New("destination zip is required")
	}
	if _, err := domain.LoadImageFile(overlayPath); err != nil {
		return fmt.Errorf("overlay: %w", err)
	}
	if fontPath != "" {
		if err := textlayout.NewFontLibrary().LoadFile(textlayout.ExportFamily, 400, false, fontPath); err != nil {
			return fmt.Errorf("font: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(destZip), 0o755); err != nil {
		return fmt.Errorf("ensure zip dir: %w", err)
	}
	_ = os.Remove(destZip)
	zf, err := os.Create(destZip)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	defer func() { _ = zf.Close() }()
	zw := zip.NewWriter(zf)

	manifest := fmt.Sprintf("goflyer template pack\nCreated: %s\nOverlay: %s\nFont: %s\n",
		time.Now().Format(time.RFC3339), filepath.Base(overlayPath), filepath.Base(fontPath))
	w, err := zw.Create(ManifestEntry)
	if err != nil {
		return fmt.Errorf("add manifest: %w", err)
	}
	if _, err := w.Write([]byte(manifest)); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := addFile(zw, entryName("overlay", overlayPath), overlayPath); err != nil {
		return err
	}
	if fontPath != "" {
		if err := addFile(zw, entryName("font", fontPath), fontPath); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish zip: %w", err)
	}
	l.Info("template pack built", slog.Bool("font", fontPath != ""))
	return nil
}

func addFile(zw *zip.Writer, name, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer func() { _ = f.Close() }()
	fw, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("add %s: %w", name, err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return fmt.Errorf("copy %s: %w", name, err)
	}
	return nil
}

// Install extracts the overlay and font of packZip into destDir. Only top-level
// overlay.* and font.* entries are considered; files already present are kept
// and still reported so callers can point the configuration at them.
func Install(packZip, destDir string) (Installed, error) {
	l := applog.WithOperation(applog.WithComponent("templatepack"), "install").With(slog.String("dir", destDir))
	var res Installed
	if strings.TrimSpace(packZip) == "" {
		return res, errors.New("pack zip is required")
	}
	if strings.TrimSpace(destDir) == "" {
		return res, errors.New("destination dir is required")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return res, fmt.Errorf("ensure dest dir: %w", err)
	}
	r, err := zip.OpenReader(packZip)
	if err != nil {
		return res, fmt.Errorf("open pack: %w", err)
	}
	defer func() { _ = r.Close() }()

	for _, f := range r.File {
		name := f.Name
		if name == ManifestEntry || f.FileInfo().IsDir() {
			continue
		}
		var slot *string
		switch {
		case strings.Contains(name, "/") || strings.Contains(name, `\`) || name != path.Clean(name):
			l.Warn("skip nested entry", slog.String("entry", name))
			res.Skipped++
			continue
		case strings.HasPrefix(name, "overlay."):
			slot = &res.Overlay
		case strings.HasPrefix(name, "font."):
			slot = &res.Font
		default:
			l.Warn("skip unknown entry", slog.String("entry", name))
			res.Skipped++
			continue
		}
		target := filepath.Join(destDir, name)
		if _, err := os.Stat(target); err == nil {
			l.Warn("skip existing file", slog.String("path", target))
			res.Skipped++
			*slot = target
			continue
		}
		if err := extract(f, target); err != nil {
			return res, err
		}
		*slot = target
	}
	if res.Overlay == "" {
		return res, errors.New("pack has no overlay")
	}
	l.Info("template pack installed", slog.String("overlay", res.Overlay), slog.String("font", res.Font))
	return res, nil
}

func extract(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
