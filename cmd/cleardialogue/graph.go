/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cleardialogue/internal/export"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <path>",
	Short: "Export the dialogue graph as a Mermaid diagram",
	Long:  `Outputs a Mermaid flowchart (graph LR) of the project. Response text labels the edges it leads along.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := openEditor(cmd, args[0], nil)
		if err != nil {
			return err
		}
		highlight, _ := cmd.Flags().GetStringSlice("highlight")
		output := export.Mermaid(ed.Project(), highlight...)

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			fmt.Fprint(cmd.OutOrStdout(), output)
			return nil
		}
		return os.WriteFile(out, []byte(output), 0o644)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a project to PDF or PNG",
}

var exportPDFCmd = &cobra.Command{
	Use:   "pdf <path>",
	Short: "Write a printable dialogue script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := openEditor(cmd, args[0], nil)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = trimExt(args[0]) + ".pdf"
		}
		size, _ := cmd.Flags().GetString("page-size")
		order, _ := cmd.Flags().GetBool("reading-order")
		err = export.ScriptPDF(ed.Project(), out, export.PDFOptions{
			PageSize:     size,
			Keywords:     ed.Keywords(),
			ReadingOrder: order,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Wrote", out)
		return nil
	},
}

var exportPNGCmd = &cobra.Command{
	Use:   "png <path>",
	Short: "Write a picture of the whole canvas",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := openEditor(cmd, args[0], nil)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = trimExt(args[0]) + ".png"
		}
		w, _ := cmd.Flags().GetInt("width")
		h, _ := cmd.Flags().GetInt("height")
		highlight, _ := cmd.Flags().GetStringSlice("highlight")
		err = export.GraphPNG(ed.Project(), out, export.PNGOptions{
			Width:     w,
			Height:    h,
			Keywords:  ed.Keywords(),
			Highlight: highlight,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Wrote", out)
		return nil
	},
}

func init() {
	graphCmd.Flags().StringSlice("highlight", nil, "Node IDs to mark as selected")
	graphCmd.Flags().String("out", "", "Write to a file instead of stdout")

	exportPDFCmd.Flags().String("out", "", "Output file (default: project name with .pdf)")
	exportPDFCmd.Flags().String("page-size", "A4", "Page size (A4 or Letter)")
	exportPDFCmd.Flags().Bool("reading-order", false, "Order nodes top to bottom instead of creation order")

	exportPNGCmd.Flags().String("out", "", "Output file (default: project name with .png)")
	exportPNGCmd.Flags().Int("width", 1600, "Image width in pixels")
	exportPNGCmd.Flags().Int("height", 1000, "Image height in pixels")
	exportPNGCmd.Flags().StringSlice("highlight", nil, "Node IDs to outline")

	exportCmd.AddCommand(exportPDFCmd, exportPNGCmd)
	rootCmd.AddCommand(graphCmd, exportCmd)
}
