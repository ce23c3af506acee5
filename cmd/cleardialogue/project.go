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
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"cleardialogue/internal/dialogue"
	"cleardialogue/internal/editor"
	applog "cleardialogue/internal/log"
	"cleardialogue/internal/storage"
	"cleardialogue/internal/viewport"
)

var newCmd = &cobra.Command{
	Use:   "new <path>",
	Short: "Create an empty project file",
	Long:  `Creates a project with no nodes. Without an extension the configured default format is used.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		format, _ := cmd.Flags().GetString("format")
		path := args[0]
		if format != "" {
			codec, err := storage.ByName(format)
			if err != nil {
				return err
			}
			path = storage.EnsureExtension(path, codec)
		}
		term := newTerminal(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		indexed, _ := cmd.Flags().GetBool("index")
		ed := editor.NewEditor(editor.Options{Dialogs: term, Prompt: term, Config: appCfg, Index: indexed})
		sess.ed = ed
		ed.New(name)
		if err := ed.SaveAs(path); err != nil {
			return reported{err}
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Created project at", ed.Location())
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <path>",
	Short: "Print a summary of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := openEditor(cmd, args[0], nil)
		if err != nil {
			return err
		}
		printInfo(cmd.OutOrStdout(), ed)
		return nil
	},
}

func printInfo(w io.Writer, ed *editor.Editor) {
	p := ed.Project()
	fmt.Fprintf(w, "Project: %s\n", ed.Title())
	fmt.Fprintf(w, "Format:  %s\n", ed.Format().TypeName())
	fmt.Fprintf(w, "Nodes:   %d\n", p.NumNodes())
	fmt.Fprintf(w, "Links:   %d\n", p.NumLinks())
	if kw := ed.Keywords(); len(kw) > 0 {
		fmt.Fprintf(w, "Keywords: %d\n", len(kw))
	}
	if r, ok := viewport.ContentBounds(p); ok {
		fmt.Fprintf(w, "Canvas:  %.0fx%.0f at (%.0f, %.0f)\n", r.W, r.H, r.X, r.Y)
	}
	for _, n := range p.Nodes {
		title := n.Title
		if title == "" {
			title = "(untitled)"
		}
		line := fmt.Sprintf("  %-36s %-8s %s", n.ID, n.Kind, title)
		if n.Tag != "" {
			line += " [" + n.Tag + "]"
		}
		if n.Kind == dialogue.KindResponse {
			line += fmt.Sprintf(" (%d responses)", len(n.Responses))
		}
		fmt.Fprintln(w, line)
	}
}

var validateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Check a project file for consistency",
	Long: `Checks the file against the project schema and verifies every link joins an OUT
connector to an IN connector. Exits that lead nowhere are listed as dead ends.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := storage.Import(args[0])
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		out := cmd.OutOrStdout()
		for _, end := range deadEnds(p) {
			fmt.Fprintln(out, "dead end:", end)
		}
		fmt.Fprintln(out, "Project is valid.")
		return nil
	},
}

// deadEnds describes every OUT connector without a link.
func deadEnds(p *dialogue.Project) []string {
	var out []string
	for _, n := range p.Nodes {
		for _, c := range n.OutConnectors() {
			if _, ok := p.Target(c.ID); ok {
				continue
			}
			desc := n.Title
			if desc == "" {
				desc = n.ID
			}
			if c.ResponseID != "" {
				if r, _, ok := n.Response(c.ResponseID); ok {
					desc += fmt.Sprintf(" / %q", r.Text)
				}
			}
			out = append(out, desc)
		}
	}
	return out
}

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Convert a project between file formats",
	Long:  `Reads <in> and writes it to <out>, picking both formats by extension. An existing <out> is backed up first.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		l := applog.WithOperation(applog.WithComponent("cli"), "convert")
		p, err := storage.Import(args[0])
		if err != nil {
			return err
		}
		if _, err := storage.ForPath(args[1]); err != nil {
			return err
		}
		if bak, err := storage.Backup(args[1]); err != nil {
			return err
		} else if bak != "" {
			l.Info("backup written", slog.String("path", bak))
		}
		if err := storage.Export(p, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d nodes to %s\n", p.NumNodes(), args[1])
		return nil
	},
}

func init() {
	newCmd.Flags().String("name", "", "Project name")
	newCmd.Flags().String("format", "", "File format (json or yaml)")
	rootCmd.AddCommand(newCmd, infoCmd, validateCmd, convertCmd)
}
