/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// FontLibrary stores loaded OpenType fonts mapped by family/weight/italic.
// It does not support named instances or variations beyond weight and italic.
// Faces are created per lookup; an opentype face must not be used from two
// goroutines at once.
type FontLibrary struct {
	mu    sync.Mutex
	fonts map[fontKey]*opentype.Font
}

type fontKey struct {
	family string
	weight int
	italic bool
}

func NewFontLibrary() *FontLibrary {
	return &FontLibrary{fonts: make(map[fontKey]*opentype.Font)}
}

// LoadFile loads a TTF/OTF file into the library under the given family/weight/italic.
func (fl *FontLibrary) LoadFile(family string, weight int, italic bool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	return fl.Load(family, weight, italic, data)
}

// Load parses font bytes into the library.
func (fl *FontLibrary) Load(family string, weight int, italic bool, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", family, err)
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.fonts == nil {
		fl.fonts = make(map[fontKey]*opentype.Font)
	}
	fl.fonts[fontKey{family: family, weight: weight, italic: italic}] = f
	return nil
}

// Has reports whether any face of family is loaded.
func (fl *FontLibrary) Has(family string) bool {
	if fl == nil {
		return false
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	for k := range fl.fonts {
		if k.family == family {
			return true
		}
	}
	return false
}

func (fl *FontLibrary) face(spec FontSpec) (font.Face, bool) {
	if fl == nil {
		return nil, false
	}
	fl.mu.Lock()
	_, f := fl.findLocked(spec)
	fl.mu.Unlock()
	if f == nil {
		return nil, false
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: spec.Size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, false
	}
	return face, true
}

func (fl *FontLibrary) findLocked(spec FontSpec) (fontKey, *opentype.Font) {
	exact := fontKey{family: spec.Family, weight: spec.Weight, italic: spec.Italic}
	if f, ok := fl.fonts[exact]; ok {
		return exact, f
	}
	// same family, any weight/italic
	for k, f := range fl.fonts {
		if k.family == spec.Family {
			return k, f
		}
	}
	return fontKey{}, nil
}

// OTProvider resolves FontSpec using a FontLibrary and falls back to another Provider.
type OTProvider struct {
	Lib      *FontLibrary
	Fallback Provider
}

func (p OTProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	if spec.Size <= 0 {
		spec.Size = 12
	}
	if face, ok := p.Lib.face(spec); ok {
		return face, metricsOf(face)
	}
	fb := p.Fallback
	if fb == nil {
		fb = NewGoFontProvider()
	}
	return fb.Resolve(spec)
}
