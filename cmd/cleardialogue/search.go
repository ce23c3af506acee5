/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cleardialogue/internal/index"
	"cleardialogue/internal/storage"
)

var searchCmd = &cobra.Command{
	Use:   "search <path> <text>...",
	Short: "Full-text search over titles, tags, text and responses",
	Long: `Searches the index kept in the .cleardialogue directory beside the project. The index is
created or rebuilt from the project when it is missing or out of date.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := openEditor(cmd, args[0], nil)
		if err != nil {
			return err
		}
		types, _ := cmd.Flags().GetStringSlice("type")
		node, _ := cmd.Flags().GetString("node")
		limit, _ := cmd.Flags().GetInt("limit")
		hits, err := ed.Search(cmd.Context(), index.Query{
			Text:   strings.Join(args[1:], " "),
			Types:  types,
			NodeID: node,
			Limit:  limit,
		})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(hits) == 0 {
			fmt.Fprintln(out, "No matches.")
			return nil
		}
		for _, h := range hits {
			fmt.Fprintf(out, "%s\t%-8s\t%s\n", h.NodeID, h.Type, h.Snippet)
		}
		return nil
	},
}

var linksCmd = &cobra.Command{
	Use:   "links <path> <node-id>",
	Short: "List the links that lead into a node",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := openEditor(cmd, args[0], nil)
		if err != nil {
			return err
		}
		if _, ok := ed.Project().Node(args[1]); !ok {
			return fmt.Errorf("node %s not found", args[1])
		}
		edges, err := ed.Incoming(cmd.Context(), args[1])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, e := range edges {
			from := e.FromTitle
			if from == "" {
				from = e.FromNode
			}
			if e.ResponseID != "" {
				from += " (response " + e.ResponseID + ")"
			}
			fmt.Fprintf(out, "%s -> %s\n", from, e.ToNode)
		}
		fmt.Fprintf(out, "%d incoming links\n", len(edges))
		return nil
	},
}

var revisionsCmd = &cobra.Command{
	Use:   "revisions <path>",
	Short: "List, prune or restore saved revisions",
	Long: `Every save with --index records the project in the index as a revision.
--prune keeps only the newest N revisions; --restore writes the newest revision back
to the project file after backing the file up.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		p, err := storage.Import(path)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		ix, _, err := index.DetectAndRebuild(ctx, index.PathFor(path), p)
		if err != nil {
			return err
		}
		defer func() { _ = ix.Close() }()
		out := cmd.OutOrStdout()

		if keep, _ := cmd.Flags().GetInt("prune"); keep > 0 {
			n, err := ix.PruneRevisions(ctx, keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Pruned %d revisions\n", n)
		}
		if restore, _ := cmd.Flags().GetBool("restore"); restore {
			rev, ok, err := ix.LatestRevision(ctx)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("no revision to restore")
			}
			old, err := storage.DecodeJSON(rev.Blob)
			if err != nil {
				return err
			}
			if _, err := storage.Backup(path); err != nil {
				return err
			}
			if err := storage.Export(old, path); err != nil {
				return err
			}
			fmt.Fprintf(out, "Restored revision from %s\n", rev.TS.Local().Format("2006-01-02 15:04:05"))
			return nil
		}

		limit, _ := cmd.Flags().GetInt("limit")
		revs, err := ix.ListRevisions(ctx, limit)
		if err != nil {
			return err
		}
		for _, r := range revs {
			fmt.Fprintf(out, "%s  %-6s  %d bytes\n", r.TS.Local().Format("2006-01-02 15:04:05"), r.Label, len(r.Blob))
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringSlice("type", nil, "Restrict to field types (title, tag, text, response)")
	searchCmd.Flags().String("node", "", "Restrict to one node ID")
	searchCmd.Flags().Int("limit", 20, "Maximum number of hits")

	revisionsCmd.Flags().Int("limit", 20, "Maximum number of revisions to list")
	revisionsCmd.Flags().Int("prune", 0, "Keep only the newest N revisions")
	revisionsCmd.Flags().Bool("restore", false, "Write the newest revision back to the project file")

	rootCmd.AddCommand(searchCmd, linksCmd, revisionsCmd)
}
