/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// TextStyle bundles the font used by one projection target with its line
// height. Captions are always white and centered, so color and alignment are
// not part of the style.
type TextStyle struct {
	Name       string
	Font       FontSpec
	LineHeight float64
}

// ExportFamily is the named display font used when rendering the final image.
const ExportFamily = "LEMONMILK"

var builtinStyles = map[string]TextStyle{
	"Display": {
		Name:       "Display",
		Font:       FontSpec{Family: "sans-serif", Weight: 400},
		LineHeight: DefaultLineHeight,
	},
	"Export": {
		Name:       "Export",
		Font:       FontSpec{Family: ExportFamily, Weight: 400},
		LineHeight: DefaultLineHeight,
	},
}

// GetStyle returns a builtin style preset by name.
func GetStyle(name string) (TextStyle, bool) { s, ok := builtinStyles[name]; return s, ok }

// ListStyles lists the names of the builtin styles in stable order.
func ListStyles() []string { return []string{"Display", "Export"} }

// Sized returns the style's font spec at the given pixel size.
func (s TextStyle) Sized(size float64) FontSpec {
	f := s.Font
	f.Size = size
	return f
}
