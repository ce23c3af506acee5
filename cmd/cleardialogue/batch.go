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
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cleardialogue/internal/batch"
	"cleardialogue/internal/editor"
	"cleardialogue/internal/storage"
)

func trimExt(path string) string { return strings.TrimSuffix(path, filepath.Ext(path)) }

// selectNodes selects the nodes named by --node, or every node.
func selectNodes(cmd *cobra.Command, ed *editor.Editor) error {
	ids, _ := cmd.Flags().GetStringSlice("node")
	if len(ids) == 0 {
		ed.SelectAll()
		return nil
	}
	return ed.Select(ids...)
}

// promptFor answers the editor's prompt from flag when it was given and
// asks on the terminal otherwise.
func promptFor(cmd *cobra.Command, flag string) editor.Prompt {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return answer(v)
	}
	return nil
}

// runBatch opens path, selects, runs op through the editor and saves
// when something changed.
func runBatch(cmd *cobra.Command, path, flag string, op func(*editor.Editor) (batch.Result, error)) error {
	ed, err := openEditor(cmd, path, promptFor(cmd, flag))
	if err != nil {
		return err
	}
	if err := selectNodes(cmd, ed); err != nil {
		return err
	}
	res, err := op(ed)
	if err != nil {
		// no input and failures were shown through the dialogs
		return reported{err}
	}
	if res.Count == 0 {
		return nil
	}
	ed.Flush()
	return saveEditor(ed)
}

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Add or remove a tag on several nodes at once",
}

var tagAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Append a tag to the selected nodes",
	Long:  `Appends the tag verbatim to each node's tag. Separators such as commas or spaces must be part of the tag.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args[0], "tag", (*editor.Editor).AddTagToSelection)
	},
}

var tagRemoveCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Remove a tag from the selected nodes",
	Long:  `Removes the first occurrence of the tag from each selected node's tag.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args[0], "tag", (*editor.Editor).RemoveTagFromSelection)
	},
}

var titleCmd = &cobra.Command{
	Use:   "title <path>",
	Short: "Title the selected nodes from a template",
	Long: `Sorts the selected nodes top to bottom, left to right, and titles them from the
template. ` + batch.AutoNumber + ` in the template becomes the node's position, so "Line ` + batch.AutoNumber + `"
yields Line 1, Line 2 and so on.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args[0], "title", (*editor.Editor).TitleSelection)
	},
}

var refactorCmd = &cobra.Command{
	Use:   "refactor <path>...",
	Short: "Replace text in every node of one or more projects",
	Long: `Replaces every exact occurrence of --find with --replace in titles, tags, text and
responses. Each file is backed up to <file>` + storage.BackupSuffix + ` before it is rewritten.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		find, _ := cmd.Flags().GetString("find")
		replace, _ := cmd.Flags().GetString("replace")
		if find == "" {
			return errors.New("--find must not be empty")
		}
		reports, err := storage.RefactorFiles(args, find, replace)
		out := cmd.OutOrStdout()
		for _, r := range reports {
			switch {
			case r.Err != nil:
				fmt.Fprintf(out, "%s: %v\n", r.Path, r.Err)
			case r.Changed == 0:
				fmt.Fprintf(out, "%s: no matches\n", r.Path)
			default:
				fmt.Fprintf(out, "%s: %d fields changed (backup %s)\n", r.Path, r.Changed, r.Backup)
			}
		}
		return err
	},
}

func init() {
	for _, c := range []*cobra.Command{tagAddCmd, tagRemoveCmd, titleCmd} {
		c.Flags().StringSlice("node", nil, "Node IDs to edit (default: all nodes)")
	}
	tagAddCmd.Flags().String("tag", "", "Tag to append (asked for when omitted)")
	tagRemoveCmd.Flags().String("tag", "", "Tag to remove (asked for when omitted)")
	titleCmd.Flags().String("title", "", "Title template (asked for when omitted)")

	refactorCmd.Flags().String("find", "", "Text to find")
	refactorCmd.Flags().String("replace", "", "Replacement text")

	tagCmd.AddCommand(tagAddCmd, tagRemoveCmd)
	rootCmd.AddCommand(tagCmd, titleCmd, refactorCmd)
}
