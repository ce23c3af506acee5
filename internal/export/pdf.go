/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/jung-kurt/gofpdf"

	"cleardialogue/internal/batch"
	"cleardialogue/internal/dialogue"
)

// PDFOptions controls script export. Units are points.
type PDFOptions struct {
	PageSize string // "A4" (default) or "Letter"
	FontSize float64
	// Keywords are printed bold in the keyword colour.
	Keywords []string
	// ReadingOrder sorts nodes top to bottom, left to right instead of
	// creation order.
	ReadingOrder bool
	KeywordColor Color
}

// Color is an 8-bit RGB colour.
type Color struct{ R, G, B uint8 }

var defaultKeyword = Color{R: 200, G: 60, B: 40}

// ScriptPDF writes a printable script: one section per node with its
// title, tag, text or responses and the node each exit leads to.
func ScriptPDF(p *dialogue.Project, outPath string, opt PDFOptions) error {
	if p == nil {
		return fmt.Errorf("project is nil")
	}
	size := opt.PageSize
	if size == "" {
		size = "A4"
	}
	fs := opt.FontSize
	if fs <= 0 {
		fs = 11
	}
	kw := opt.KeywordColor
	if kw == (Color{}) {
		kw = defaultKeyword
	}
	lineH := fs * 1.4

	pdf := gofpdf.New("P", "pt", size, "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(p.Name), false)
	pdf.SetAuthor("Clear Dialogue", false)
	pdf.SetMargins(56, 56, 56)
	pdf.SetAutoPageBreak(true, 56)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-40)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 10, fmt.Sprintf("%s - page %d/{nb}", tr(p.Name), pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", fs*2)
	name := p.Name
	if name == "" {
		name = "Untitled"
	}
	pdf.CellFormat(0, fs*2.5, tr(name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", fs)
	pdf.CellFormat(0, lineH, fmt.Sprintf("%d nodes, %d links", p.NumNodes(), p.NumLinks()), "", 1, "L", false, 0, "")
	pdf.Ln(lineH)

	nodes := slices.Clone(p.Nodes)
	if opt.ReadingOrder {
		batch.ReadingOrder(nodes)
	}
	writeRich := func(s string) {
		pos := 0
		for _, sp := range dialogue.Highlights(s, opt.Keywords) {
			pdf.SetFont("Helvetica", "", fs)
			pdf.SetTextColor(0, 0, 0)
			pdf.Write(lineH, tr(s[pos:sp.Start]))
			pdf.SetFont("Helvetica", "B", fs)
			pdf.SetTextColor(int(kw.R), int(kw.G), int(kw.B))
			pdf.Write(lineH, tr(s[sp.Start:sp.End]))
			pos = sp.End
		}
		pdf.SetFont("Helvetica", "", fs)
		pdf.SetTextColor(0, 0, 0)
		pdf.Write(lineH, tr(s[pos:]))
		pdf.Ln(lineH)
	}
	target := func(out string) string {
		if n, ok := p.Target(out); ok {
			return "-> " + nodeLabel(n)
		}
		return "-> (end)"
	}

	for _, n := range nodes {
		pdf.SetFont("Helvetica", "B", fs*1.2)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, lineH*1.2, tr(nodeLabel(n)), "B", 1, "L", false, 0, "")
		if n.Tag != "" {
			pdf.SetFont("Helvetica", "I", fs*0.9)
			pdf.SetTextColor(90, 90, 90)
			pdf.CellFormat(0, lineH, tr("Tags: "+n.Tag), "", 1, "L", false, 0, "")
		}
		switch n.Kind {
		case dialogue.KindText:
			if n.Text != "" {
				writeRich(n.Text)
			}
			if n.Out != nil {
				pdf.SetFont("Helvetica", "I", fs)
				pdf.CellFormat(0, lineH, tr(target(n.Out.ID)), "", 1, "R", false, 0, "")
			}
		case dialogue.KindResponse:
			for i, r := range n.Responses {
				pdf.SetFont("Helvetica", "", fs)
				pdf.Write(lineH, fmt.Sprintf("%d. ", i+1))
				writeRich(r.Text)
				pdf.SetFont("Helvetica", "I", fs)
				pdf.CellFormat(0, lineH, tr(target(r.Out.ID)), "", 1, "R", false, 0, "")
			}
		}
		pdf.Ln(lineH / 2)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
