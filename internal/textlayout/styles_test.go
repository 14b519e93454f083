/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import "testing"

func TestBuiltinStyles(t *testing.T) {
	names := ListStyles()
	if len(names) != 2 {
		t.Fatalf("expected 2 builtin styles, got %v", names)
	}
	exp, ok := GetStyle("Export")
	if !ok || exp.Font.Family != ExportFamily {
		t.Fatalf("Export style missing or wrong family: %+v", exp)
	}
	disp, ok := GetStyle("Display")
	if !ok || disp.LineHeight != exp.LineHeight {
		t.Fatalf("Display and Export must share line height: %+v", disp)
	}
	if f := exp.Sized(42); f.Size != 42 || f.Family != ExportFamily {
		t.Fatalf("Sized mismatch: %+v", f)
	}
}
