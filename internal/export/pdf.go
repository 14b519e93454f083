/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"goflyer/internal/domain"
	"goflyer/internal/version"
)

// PDFOptions controls the print PDF. The page is sized so the flyer prints
// at DPI pixels per inch.
type PDFOptions struct {
	DPI   int
	Title string
}

// WritePDF embeds a rendered flyer PNG into a single-page PDF at outPath.
func WritePDF(pngData []byte, outPath string, opt PDFOptions) error {
	dpi := opt.DPI
	if dpi <= 0 {
		dpi = 300
	}
	side := domain.CanvasWidth * 72 / float64(dpi)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: side, Ht: side},
	})
	title := opt.Title
	if title == "" {
		title = "Flyer"
	}
	pdf.SetTitle(title, true)
	pdf.SetCreator("goflyer "+version.String(), true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	img := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("flyer", img, bytes.NewReader(pngData))
	pdf.ImageOptions("flyer", 0, 0, side, side, false, img, 0, "")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
