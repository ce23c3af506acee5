/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"cleardialogue/internal/dialogue"
	"cleardialogue/internal/textlayout"
	"cleardialogue/internal/viewport"
)

// ErrEmpty is returned when there is nothing to draw.
var ErrEmpty = errors.New("nothing to export")

// PNGOptions controls canvas snapshots. Zero values pick defaults.
type PNGOptions struct {
	Width, Height int
	Margin        float64
	Keywords      []string
	// Highlight lists node IDs drawn with the selection outline.
	Highlight []string
}

var (
	colBackground = color.RGBA{R: 245, G: 245, B: 245, A: 255}
	colNode       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colTitle      = color.RGBA{R: 60, G: 90, B: 140, A: 255}
	colResponse   = color.RGBA{R: 120, G: 70, B: 130, A: 255}
	colLink       = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	colText       = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	colKeyword    = color.RGBA{R: 200, G: 60, B: 40, A: 255}
	colSelected   = color.RGBA{R: 251, G: 192, B: 45, A: 255}
)

// GraphPNG renders the whole canvas framed into an image: nodes are
// placed through a viewport fitted to the content, links are drawn below
// the nodes with an arrow at the IN end.
func GraphPNG(p *dialogue.Project, outPath string, opt PNGOptions) error {
	content, ok := viewport.ContentBounds(p)
	if !ok {
		return ErrEmpty
	}
	w, h := opt.Width, opt.Height
	if w <= 0 {
		w = 1600
	}
	if h <= 0 {
		h = 1000
	}
	margin := opt.Margin
	if margin <= 0 {
		margin = 40
	}
	img := viewport.Size{W: float64(w), H: float64(h)}
	v := viewport.New(img, viewport.Limits{MinScale: 0.05, MaxScale: 2, ZoomStep: 1.2})
	v.Fit(content, img, margin)
	m := v.Matrix()

	dc := gg.NewContext(w, h)
	dc.SetColor(colBackground)
	dc.Clear()
	dc.SetFontFace(textlayout.BasicProvider{}.Face())

	for _, l := range p.Links {
		from, to, ok := viewport.LinkSegment(p, l)
		if !ok {
			continue
		}
		drawLink(dc, m.Apply(from), m.Apply(to), v.Scale)
	}

	selected := make(map[string]bool, len(opt.Highlight))
	for _, id := range opt.Highlight {
		selected[id] = true
	}
	lay := textlayout.New(textlayout.BasicProvider{})
	for _, n := range p.Nodes {
		drawNode(dc, lay, m, v.Scale, n, opt.Keywords, selected[n.ID])
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := dc.SavePNG(outPath); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

func drawLink(dc *gg.Context, from, to viewport.Pt, scale float64) {
	dc.SetColor(colLink)
	dc.SetLineWidth(math.Max(1, 2*scale))
	// horizontal bezier, like the canvas draws it
	dx := math.Max(40*scale, math.Abs(to.X-from.X)/2)
	dc.MoveTo(from.X, from.Y)
	dc.CubicTo(from.X+dx, from.Y, to.X-dx, to.Y, to.X, to.Y)
	dc.Stroke()

	size := math.Max(4, 10*scale)
	dc.MoveTo(to.X, to.Y)
	dc.LineTo(to.X-size, to.Y-size/2)
	dc.LineTo(to.X-size, to.Y+size/2)
	dc.ClosePath()
	dc.Fill()
}

func drawNode(dc *gg.Context, lay *textlayout.Layouter, m viewport.Affine2D, scale float64, n *dialogue.Node, keywords []string, selected bool) {
	r := m.ApplyRect(viewport.NodeRect(n))
	th := viewport.TitleHeight * scale

	dc.SetColor(colNode)
	dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	dc.Fill()
	head := colTitle
	if n.Kind == dialogue.KindResponse {
		head = colResponse
	}
	dc.SetColor(head)
	dc.DrawRectangle(r.X, r.Y, r.W, th)
	dc.Fill()
	dc.SetLineWidth(1)
	if selected {
		dc.SetColor(colSelected)
		dc.SetLineWidth(3)
	}
	dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	dc.Stroke()

	pad := 4.0
	lh := lay.LineHeight()
	dc.SetColor(color.White)
	dc.DrawString(lay.Truncate(nodeLabel(n), r.W-2*pad), r.X+pad, r.Y+th/2+lh/3)

	switch n.Kind {
	case dialogue.KindText:
		box := lay.Layout(n.Text, keywords, r.W-2*pad)
		y := r.Y + th + lh
		for _, ln := range box.Lines {
			if y > r.Y+r.H-pad {
				break
			}
			drawRuns(dc, lay, ln, r.X+pad, y)
			y += lh
		}
	case dialogue.KindResponse:
		for i, resp := range n.Responses {
			y := r.Y + th + (float64(i)*viewport.ResponseRowH+viewport.ResponseRowH/2)*scale + lh/3
			ln := lay.Layout(lay.Truncate(resp.Text, r.W-3*pad-viewport.ConnectorRadius*scale), keywords, 0)
			if len(ln.Lines) > 0 {
				drawRuns(dc, lay, ln.Lines[0], r.X+pad, y)
			}
		}
	}

	rad := math.Max(2, viewport.ConnectorRadius*scale/2)
	for _, c := range n.Connectors() {
		a, ok := viewport.ConnectorAnchor(n, c.ID)
		if !ok {
			continue
		}
		a = m.Apply(a)
		dc.SetColor(head)
		dc.DrawCircle(a.X, a.Y, rad)
		dc.Fill()
	}
}

func drawRuns(dc *gg.Context, lay *textlayout.Layouter, ln textlayout.Line, x, y float64) {
	for _, run := range ln.Runs {
		dc.SetColor(colText)
		if run.Keyword {
			dc.SetColor(colKeyword)
		}
		dc.DrawString(run.Text, x, y)
		x += lay.Measure(run.Text)
	}
}
