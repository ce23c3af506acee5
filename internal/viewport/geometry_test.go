/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

import (
	"math"
	"testing"
)

func TestRectContainsAndInset(t *testing.T) {
	r := R(10, 20, 100, 50)
	if !r.Contains(Pt{10, 20}) || !r.Contains(Pt{110, 70}) {
		t.Fatalf("expected edge points to be contained")
	}
	in := r.Inset(5, 5)
	if in.X != 15 || in.Y != 25 || in.W != 90 || in.H != 40 {
		t.Fatalf("unexpected inset: %+v", in)
	}
}

func TestCornersAnyDirection(t *testing.T) {
	a := Corners(Pt{50, 10}, Pt{10, 40})
	if a != R(10, 10, 40, 30) {
		t.Fatalf("unexpected rect: %+v", a)
	}
	if !a.Intersects(R(45, 35, 10, 10)) || a.Intersects(R(51, 0, 5, 5)) {
		t.Fatalf("intersects mismatch")
	}
}

func TestAffineBasic(t *testing.T) {
	m := Translate(10, 5).Mul(Scale(2, 3))
	p := m.Apply(Pt{1, 1})
	if p.X != 12 || p.Y != 8 { // (1*2+10, 1*3+5)
		t.Fatalf("unexpected transform result: %+v", p)
	}
}

func TestAffineInvert(t *testing.T) {
	m := Translate(-7, 3).Mul(Scale(0.25, 0.25)).Mul(Translate(4, 9))
	q := m.Invert().Apply(m.Apply(Pt{13, -2}))
	if math.Abs(q.X-13) > 1e-9 || math.Abs(q.Y+2) > 1e-9 {
		t.Fatalf("round trip drifted: %+v", q)
	}
	if Scale(0, 0).Invert() != Identity {
		t.Fatalf("singular matrix should invert to identity")
	}
}
