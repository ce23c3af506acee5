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
	"path/filepath"

	"github.com/spf13/cobra"

	"cleardialogue/internal/script"
	"cleardialogue/internal/storage"
)

var importScriptCmd = &cobra.Command{
	Use:   "import-script <script.txt> <out>",
	Short: "Build a project from a plain-text dialogue script",
	Long: `Reads a script with "# Scene" headings, "NAME: line" speaker lines and "> choice"
responses, and writes it as a project. Each scene becomes one chain of nodes.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = trimExt(filepath.Base(args[0]))
		}
		p, problems, err := script.Import(string(data), name)
		if err != nil {
			return err
		}
		for _, e := range problems {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", args[0], e)
		}
		if _, err := storage.Backup(args[1]); err != nil {
			return err
		}
		if err := storage.Export(p, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d nodes and %d links into %s\n", p.NumNodes(), p.NumLinks(), args[1])
		return nil
	},
}

func init() {
	importScriptCmd.Flags().String("name", "", "Project name (default: script file name)")
	rootCmd.AddCommand(importScriptCmd)
}
