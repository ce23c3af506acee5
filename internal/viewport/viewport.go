/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package viewport implements pan and pointer-anchored zoom for the
// dialogue canvas, plus node and connector geometry for hit testing.
package viewport

import "fmt"

// Default zoom bounds.
const (
	MinScale = 0.1
	MaxScale = 1.0
	ZoomStep = 1.2
)

// Limits bounds the zoom factor.
type Limits struct {
	MinScale float64
	MaxScale float64
	ZoomStep float64
}

// DefaultLimits returns the stock zoom bounds.
func DefaultLimits() Limits {
	return Limits{MinScale: MinScale, MaxScale: MaxScale, ZoomStep: ZoomStep}
}

// Validate rejects limits that cannot hold a scale.
func (l Limits) Validate() error {
	if l.MinScale <= 0 || l.MaxScale < l.MinScale || l.ZoomStep <= 1 {
		return fmt.Errorf("invalid zoom limits %+v", l)
	}
	return nil
}

// Buttons is a pointer button mask.
type Buttons int

const (
	Primary Buttons = 1 << iota
	Secondary
	Middle
)

// Viewport maps canvas coordinates to scene coordinates:
//
//	scene = T + C - Pivot + Scale*(canvas - C)
//
// where C is the centre of the canvas content area. Pivot accumulates the
// offsets that keep the point under the pointer fixed while zooming.
type Viewport struct {
	TranslateX, TranslateY float64
	Scale                  float64
	PivotX, PivotY         float64

	// Content is the canvas area size; its centre is the zoom origin.
	Content Size
	Limits  Limits

	panning     bool
	anchorPtr   Pt
	anchorTrans Pt

	highlighting bool
	hlFrom, hlTo Pt
}

// New returns an identity viewport over a content area.
func New(content Size, l Limits) *Viewport {
	v := &Viewport{Content: content, Limits: l}
	v.Scale = clamp(1, v.limits().MinScale, v.limits().MaxScale)
	return v
}

func (v *Viewport) centre() Pt { return Pt{v.Content.W / 2, v.Content.H / 2} }

// Matrix returns the canvas-to-scene transform.
func (v *Viewport) Matrix() Affine2D {
	c := v.centre()
	return Translate(v.TranslateX+c.X-v.PivotX, v.TranslateY+c.Y-v.PivotY).
		Mul(Scale(v.Scale, v.Scale)).
		Mul(Translate(-c.X, -c.Y))
}

// ToScene maps a canvas point into scene coordinates.
func (v *Viewport) ToScene(p Pt) Pt { return v.Matrix().Apply(p) }

// ToCanvas maps a scene point (e.g. a pointer position) back onto the canvas.
func (v *Viewport) ToCanvas(p Pt) Pt { return v.Matrix().Invert().Apply(p) }

// Bounds is the content area as shown in the scene.
func (v *Viewport) Bounds() Rect {
	return v.Matrix().ApplyRect(R(0, 0, v.Content.W, v.Content.H))
}

// BeginPan records the anchor for a pan gesture.
func (v *Viewport) BeginPan(pointer Pt) {
	v.panning = true
	v.anchorPtr = pointer
	v.anchorTrans = Pt{v.TranslateX, v.TranslateY}
}

// DragPan moves the canvas with the pointer.
func (v *Viewport) DragPan(pointer Pt) {
	if !v.panning {
		return
	}
	v.TranslateX = v.anchorTrans.X + pointer.X - v.anchorPtr.X
	v.TranslateY = v.anchorTrans.Y + pointer.Y - v.anchorPtr.Y
}

// Press starts a pan on the primary button or a highlight rectangle on
// the secondary button.
func (v *Viewport) Press(b Buttons, pointer Pt) {
	switch {
	case b&Primary != 0:
		v.BeginPan(pointer)
	case b&Secondary != 0:
		v.highlighting = true
		v.hlFrom, v.hlTo = pointer, pointer
	}
}

// Drag continues the gesture started by Press.
func (v *Viewport) Drag(b Buttons, pointer Pt) {
	switch {
	case b&Primary != 0:
		v.DragPan(pointer)
	case b&Secondary != 0 && v.highlighting:
		v.hlTo = pointer
	}
}

// Highlighting returns the highlight rectangle in scene coordinates while
// a secondary-button drag is in progress.
func (v *Viewport) Highlighting() (Rect, bool) {
	return Corners(v.hlFrom, v.hlTo), v.highlighting
}

// Release ends the current gesture. If it was a highlight drag the
// selection rectangle is returned in canvas coordinates.
func (v *Viewport) Release(pointer Pt) (Rect, bool) {
	v.panning = false
	if !v.highlighting {
		return Rect{}, false
	}
	v.highlighting = false
	v.hlTo = pointer
	return Corners(v.ToCanvas(v.hlFrom), v.ToCanvas(v.hlTo)), true
}

// Zoom scales by one step per scroll event, anchored at pointer.
// view is the visual bounds of the content in scene coordinates.
// The scale is clamped silently to the configured limits.
func (v *Viewport) Zoom(delta float64, pointer Pt, view Rect) {
	if delta == 0 {
		return
	}
	l := v.limits()
	v.Scale = clamp(v.Scale, l.MinScale, l.MaxScale)
	next := v.Scale * l.ZoomStep
	if delta < 0 {
		next = v.Scale / l.ZoomStep
	}
	next = clamp(next, l.MinScale, l.MaxScale)
	f := next/v.Scale - 1
	c := view.Center()
	v.PivotX += f * (pointer.X - c.X)
	v.PivotY += f * (pointer.Y - c.Y)
	v.Scale = next
}

// ZoomAt zooms relative to the current visual bounds.
func (v *Viewport) ZoomAt(delta float64, pointer Pt) {
	v.Zoom(delta, pointer, v.Bounds())
}

// Fit frames content (in canvas coordinates) inside a view of the given
// size with a margin, resetting the pivot.
func (v *Viewport) Fit(content Rect, view Size, margin float64) {
	l := v.limits()
	s := l.MaxScale
	if content.W > 0 && content.H > 0 {
		s = min((view.W-2*margin)/content.W, (view.H-2*margin)/content.H)
	}
	v.Scale = clamp(s, l.MinScale, l.MaxScale)
	v.PivotX, v.PivotY = 0, 0
	c := v.centre()
	cc := content.Center()
	v.TranslateX = view.W/2 - c.X - v.Scale*(cc.X-c.X)
	v.TranslateY = view.H/2 - c.Y - v.Scale*(cc.Y-c.Y)
}

// Reset returns to the identity transform, or the closest scale the
// limits allow.
func (v *Viewport) Reset() {
	l := v.limits()
	v.TranslateX, v.TranslateY = 0, 0
	v.PivotX, v.PivotY = 0, 0
	v.Scale = clamp(1, l.MinScale, l.MaxScale)
}

func (v *Viewport) limits() Limits {
	if v.Limits.Validate() != nil {
		return DefaultLimits()
	}
	return v.Limits
}
