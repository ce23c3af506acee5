/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleStaysClamped(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	v := New(Size{W: 4000, H: 4000}, DefaultLimits())
	for i := 0; i < 500; i++ {
		delta := float64(rng.Intn(3) - 1)
		v.ZoomAt(delta, Pt{rng.Float64() * 800, rng.Float64() * 600})
		require.GreaterOrEqual(t, v.Scale, MinScale)
		require.LessOrEqual(t, v.Scale, MaxScale)
	}
}

func TestZoomOutStepsAndClamps(t *testing.T) {
	v := New(Size{W: 1000, H: 1000}, DefaultLimits())
	v.ZoomAt(1, Pt{})
	assert.Equal(t, 1.0, v.Scale, "zoom in beyond max is clamped")
	v.ZoomAt(-1, Pt{})
	assert.InDelta(t, 1/1.2, v.Scale, 1e-12)
	for i := 0; i < 50; i++ {
		v.ZoomAt(-1, Pt{})
	}
	assert.Equal(t, 0.1, v.Scale)
}

func TestZoomKeepsPointUnderPointer(t *testing.T) {
	v := New(Size{W: 2000, H: 1500}, DefaultLimits())
	v.TranslateX, v.TranslateY = -120, 45
	pointer := Pt{310, 270}
	for _, delta := range []float64{-1, -1, 1, -1, -1, -1, 1} {
		before := v.ToCanvas(pointer)
		v.ZoomAt(delta, pointer)
		after := v.ToCanvas(pointer)
		assert.InDelta(t, before.X, after.X, 1e-6)
		assert.InDelta(t, before.Y, after.Y, 1e-6)
	}
}

func TestZoomAccumulatesPivot(t *testing.T) {
	v := New(Size{W: 200, H: 200}, DefaultLimits())
	view := R(0, 0, 200, 200)
	v.Zoom(-1, Pt{200, 100}, view)
	f := (1/1.2)/1 - 1
	assert.InDelta(t, f*100, v.PivotX, 1e-12)
	assert.InDelta(t, 0, v.PivotY, 1e-12)
	v.Zoom(-1, Pt{200, 100}, view)
	assert.InDelta(t, 2*f*100, v.PivotX, 1e-9, "pivot adds, never replaces")
}

func TestPanFollowsPointer(t *testing.T) {
	v := New(Size{W: 100, H: 100}, DefaultLimits())
	v.TranslateX, v.TranslateY = 5, 5
	v.Press(Primary, Pt{10, 10})
	v.Drag(Primary, Pt{40, -20})
	assert.Equal(t, 35.0, v.TranslateX)
	assert.Equal(t, -25.0, v.TranslateY)
	_, ok := v.Release(Pt{40, -20})
	assert.False(t, ok)

	v.DragPan(Pt{0, 0})
	assert.Equal(t, 35.0, v.TranslateX, "drag without press is ignored")
}

func TestSecondaryDragHighlights(t *testing.T) {
	v := New(Size{W: 1000, H: 1000}, DefaultLimits())
	v.Scale = 0.5
	v.Press(Secondary, Pt{500, 500})
	v.Drag(Secondary, Pt{400, 450})
	live, ok := v.Highlighting()
	require.True(t, ok)
	assert.Equal(t, R(400, 450, 100, 50), live)

	sel, ok := v.Release(Pt{400, 450})
	require.True(t, ok)
	// centre stays put at scale 0.5; 100 scene units are 200 canvas units
	assert.InDelta(t, 300, sel.X, 1e-9)
	assert.InDelta(t, 400, sel.Y, 1e-9)
	assert.InDelta(t, 200, sel.W, 1e-9)
	assert.InDelta(t, 100, sel.H, 1e-9)
	_, ok = v.Highlighting()
	assert.False(t, ok)
}

func TestFitCentresContent(t *testing.T) {
	v := New(Size{W: 3000, H: 3000}, DefaultLimits())
	content := R(1000, 500, 2000, 1000)
	v.Fit(content, Size{W: 800, H: 600}, 20)
	assert.InDelta(t, 0.38, v.Scale, 1e-12)
	c := v.ToScene(content.Center())
	assert.InDelta(t, 400, c.X, 1e-9)
	assert.InDelta(t, 300, c.Y, 1e-9)
}

func TestInvalidLimitsFallBack(t *testing.T) {
	v := New(Size{W: 10, H: 10}, Limits{})
	v.ZoomAt(-1, Pt{})
	assert.InDelta(t, 1/1.2, v.Scale, 1e-12)
	assert.Error(t, Limits{MinScale: 1, MaxScale: 0.5, ZoomStep: 2}.Validate())
}

func TestZoomFromZeroValue(t *testing.T) {
	var v Viewport
	v.Zoom(-1, Pt{50, 50}, R(0, 0, 200, 200))
	assert.Equal(t, MinScale, v.Scale)
	assert.InDelta(t, 0, v.PivotX, 1e-12)
	assert.InDelta(t, 0, v.PivotY, 1e-12)
}

func TestResetHonoursLimits(t *testing.T) {
	v := New(Size{W: 100, H: 100}, Limits{MinScale: 0.1, MaxScale: 0.5, ZoomStep: 1.2})
	v.TranslateX, v.PivotY = 30, -12
	v.Reset()
	assert.Equal(t, 0.5, v.Scale)
	assert.Zero(t, v.TranslateX)
	assert.Zero(t, v.PivotY)
}
