/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// GoFontProvider renders with the bundled Go fonts. It is the fallback used by
// the on-screen projection and whenever a named family is not installed.
// Every Resolve returns a new face, so callers on different goroutines never
// share hinting state.
type GoFontProvider struct{}

var (
	goFontsOnce          sync.Once
	goRegular, goBoldTTF *truetype.Font
	goFontsErr           error
)

func parseGoFonts() {
	goFontsOnce.Do(func() {
		goRegular, goFontsErr = truetype.Parse(goregular.TTF)
		if goFontsErr != nil {
			return
		}
		goBoldTTF, goFontsErr = truetype.Parse(gobold.TTF)
	})
}

func NewGoFontProvider() *GoFontProvider {
	return &GoFontProvider{}
}

func (p *GoFontProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	parseGoFonts()
	if goFontsErr != nil {
		return BasicProvider{}.Resolve(spec)
	}
	size := spec.Size
	if size <= 0 {
		size = 12
	}
	ttf := goRegular
	if spec.Weight >= 600 {
		ttf = goBoldTTF
	}
	f := truetype.NewFace(ttf, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	return f, metricsOf(f)
}
