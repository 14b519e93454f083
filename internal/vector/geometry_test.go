/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "testing"

func TestRectContainsAndCenter(t *testing.T) {
	r := R(10, 20, 100, 50)
	if !r.Contains(Pt{10, 20}) || !r.Contains(Pt{110, 70}) {
		t.Fatalf("expected edge points to be contained")
	}
	if r.Contains(Pt{9, 20}) {
		t.Fatalf("point left of rect should not be contained")
	}
	if c := r.Center(); c != (Pt{60, 45}) {
		t.Fatalf("unexpected center: %+v", c)
	}
	if a := RectAround(Pt{60, 45}, 100, 50); a != r {
		t.Fatalf("RectAround mismatch: %+v", a)
	}
}

func TestContainFitsAndCenters(t *testing.T) {
	box := R(0, 0, 1080, 1080)
	got := Contain(box, Size{W: 2000, H: 1000})
	if got.W != 1080 || got.H != 540 || got.X != 0 || got.Y != 270 {
		t.Fatalf("unexpected contain rect: %+v", got)
	}
	got = Contain(box, Size{W: 500, H: 1000})
	if got.W != 540 || got.H != 1080 || got.X != 270 || got.Y != 0 {
		t.Fatalf("unexpected contain rect (tall): %+v", got)
	}
	if e := Contain(box, Size{}); e.W != 0 || e.H != 0 {
		t.Fatalf("degenerate object should give empty rect: %+v", e)
	}
}

func TestPointArithmetic(t *testing.T) {
	p := Pt{3, 4}.Add(Pt{1, 1}).Mul(2).Sub(Pt{2, 2}).Div(2)
	if !p.Near(Pt{3, 4}, 1e-12) {
		t.Fatalf("unexpected point: %+v", p)
	}
	if FloatRound(1.23456, 2) != 1.23 {
		t.Fatalf("FloatRound mismatch")
	}
}
