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
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"cleardialogue/internal/config"
	"cleardialogue/internal/editor"
	applog "cleardialogue/internal/log"
	"cleardialogue/internal/viewport"
)

var (
	appCfg config.AppConfig
	sess   session
)

var rootCmd = &cobra.Command{
	Use:   "cleardialogue",
	Short: "Clear Dialogue edits branching dialogue graphs",
	Long: `Clear Dialogue stores branching conversations as graphs of text and response nodes.
The commands below inspect, convert, batch edit and export project files.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		appCfg = cfg
		applog.Init(applog.Options{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.Source,
			File:      cfg.Logging.File,
		})
		applog.WithComponent("cli").Debug("start", slog.String("cmd", cmd.CommandPath()), slog.Int("args", len(args)))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// errors from the editor were already shown through its dialogs
		var r reported
		if !errors.As(err, &r) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("index", true, "Keep the search index beside the project up to date on save")
}

// reported marks an error the editor has already shown to the user.
type reported struct{ err error }

func (r reported) Error() string { return r.err.Error() }
func (r reported) Unwrap() error { return r.err }

// session owns the editor a command works on so a panic can autosave it.
type session struct{ ed *editor.Editor }

func (s *session) AutosaveCrash() (string, error) {
	if s.ed == nil {
		return "", errors.New("no project open")
	}
	return s.ed.AutosaveCrash()
}

func (s *session) Location() string {
	if s.ed == nil {
		return ""
	}
	return s.ed.Location()
}

// openEditor loads path into a fresh editor wired to the terminal.
func openEditor(cmd *cobra.Command, path string, prompt editor.Prompt) (*editor.Editor, error) {
	term := newTerminal(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	if prompt == nil {
		prompt = term
	}
	indexed, _ := cmd.Flags().GetBool("index")
	ed := editor.NewEditor(editor.Options{
		Dialogs: term,
		Prompt:  prompt,
		Config:  appCfg,
		Canvas:  viewport.Size{W: 1280, H: 800},
		Index:   indexed,
	})
	sess.ed = ed
	if err := ed.Open(path); err != nil {
		if errors.Is(err, editor.ErrCancelled) {
			return nil, err
		}
		return nil, reported{err}
	}
	return ed, nil
}

// saveEditor writes ed back to where it was opened from.
func saveEditor(ed *editor.Editor) error {
	if err := ed.Save(); err != nil {
		if errors.Is(err, editor.ErrCancelled) {
			return err
		}
		return reported{err}
	}
	return nil
}
