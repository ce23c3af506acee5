/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package config loads the user configuration: a YAML file in the user
// scope merged over defaults, with environment variables as read-only
// overrides. It replaces the per-directory property files the editor used
// to remember its project and syntax locations.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// config_version: bump when the structure changes in a backward-incompatible way.

type GeneralConfig struct {
	// ProjectDir is where file choosers open when no project is loaded.
	ProjectDir string `yaml:"project_dir"`
	// SyntaxFile holds comma separated keywords to highlight.
	SyntaxFile string `yaml:"syntax_file"`
	// DefaultFormat is the IO used for new projects.
	DefaultFormat string `yaml:"default_format" validate:"oneof=json yaml"`
}

type CanvasConfig struct {
	MinScale        float64 `yaml:"min_scale" validate:"gt=0"`
	MaxScale        float64 `yaml:"max_scale" validate:"gtefield=MinScale"`
	ZoomStep        float64 `yaml:"zoom_step" validate:"gt=1"`
	SelectionPolicy string  `yaml:"selection_policy" validate:"oneof=drop_out_only drop_all"`
	// SnapThreshold is the distance at which dragged nodes snap to others; 0 is off.
	SnapThreshold   float64 `yaml:"snap_threshold" validate:"gte=0"`
}

type HistoryConfig struct {
	MaxBytes      int `yaml:"max_bytes" validate:"gte=0"`
	MaxDepth      int `yaml:"max_depth" validate:"gte=0"`
	MinIntervalMs int `yaml:"min_interval_ms" validate:"gte=0"`
}

// MinInterval returns the coalescing window.
func (h HistoryConfig) MinInterval() time.Duration {
	return time.Duration(h.MinIntervalMs) * time.Millisecond
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"oneof=console text json"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version" validate:"gte=1"`
	General       GeneralConfig `yaml:"general"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	History       HistoryConfig `yaml:"history"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{DefaultFormat: "json"},
		Canvas:        CanvasConfig{MinScale: 0.1, MaxScale: 1.0, ZoomStep: 1.2, SelectionPolicy: "drop_out_only"},
		History:       HistoryConfig{MaxBytes: 16 * 1024 * 1024, MaxDepth: 200, MinIntervalMs: 250},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvConfig          = "CD_CONFIG"
	EnvProjectDir      = "CD_PROJECT_DIR"
	EnvSyntaxFile      = "CD_SYNTAX_FILE"
	EnvSelectionPolicy = "CD_SELECTION_POLICY"
	EnvLogLevel        = "CD_LOG_LEVEL"
	EnvLogFormat       = "CD_LOG_FORMAT"
	EnvLogSource       = "CD_LOG_SOURCE"
	EnvLogFile         = "CD_LOG_FILE"
)

var validate = validator.New()

// Validate checks field constraints and reports every failing field.
func (c AppConfig) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fieldMessage(e))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func fieldMessage(e validator.FieldError) string {
	field := strings.ToLower(strings.TrimPrefix(e.Namespace(), "AppConfig."))
	switch e.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "gt", "gte":
		return fmt.Sprintf("%s must be %s %s", field, map[string]string{"gt": ">", "gte": ">="}[e.Tag()], e.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be below %s", field, strings.ToLower(e.Param()))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// ConfigPath returns the per-user config file path. CD_CONFIG wins.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "ClearDialogue")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "ClearDialogue")
	default:
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "cleardialogue")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "cleardialogue")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, merges
// environment overrides and validates the result.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return Defaults(), err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path. A missing file is not an error.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return Defaults(), fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return Defaults(), err
	}
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(cfg, path)
}

// SaveFile writes cfg to path after validating it.
func SaveFile(cfg AppConfig, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// LoadSyntax returns the keyword list text from the configured syntax
// file, or "" when none is configured.
func (c AppConfig) LoadSyntax() (string, error) {
	if c.General.SyntaxFile == "" {
		return "", nil
	}
	b, err := os.ReadFile(c.General.SyntaxFile)
	if err != nil {
		return "", fmt.Errorf("load syntax: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func trimmed(s string) string { return strings.TrimSpace(s) }

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if v := trimmed(src.General.ProjectDir); v != "" {
		dst.General.ProjectDir = v
	}
	if v := trimmed(src.General.SyntaxFile); v != "" {
		dst.General.SyntaxFile = v
	}
	if v := trimmed(src.General.DefaultFormat); v != "" {
		dst.General.DefaultFormat = strings.ToLower(v)
	}
	if src.Canvas.MinScale != 0 {
		dst.Canvas.MinScale = src.Canvas.MinScale
	}
	if src.Canvas.MaxScale != 0 {
		dst.Canvas.MaxScale = src.Canvas.MaxScale
	}
	if src.Canvas.ZoomStep != 0 {
		dst.Canvas.ZoomStep = src.Canvas.ZoomStep
	}
	if v := trimmed(src.Canvas.SelectionPolicy); v != "" {
		dst.Canvas.SelectionPolicy = strings.ToLower(v)
	}
	if src.Canvas.SnapThreshold != 0 {
		dst.Canvas.SnapThreshold = src.Canvas.SnapThreshold
	}
	if src.History.MaxBytes != 0 {
		dst.History.MaxBytes = src.History.MaxBytes
	}
	if src.History.MaxDepth != 0 {
		dst.History.MaxDepth = src.History.MaxDepth
	}
	if src.History.MinIntervalMs != 0 {
		dst.History.MinIntervalMs = src.History.MinIntervalMs
	}
	if v := trimmed(src.Logging.Level); v != "" {
		dst.Logging.Level = strings.ToLower(v)
	}
	if v := trimmed(src.Logging.Format); v != "" {
		dst.Logging.Format = strings.ToLower(v)
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Logging.Source = src.Logging.Source
	if v := trimmed(src.Logging.File); v != "" {
		dst.Logging.File = v
	}
}

func envBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := trimmed(os.Getenv(EnvProjectDir)); v != "" {
		cfg.General.ProjectDir = v
	}
	if v := trimmed(os.Getenv(EnvSyntaxFile)); v != "" {
		cfg.General.SyntaxFile = v
	}
	if v := trimmed(os.Getenv(EnvSelectionPolicy)); v != "" {
		cfg.Canvas.SelectionPolicy = strings.ToLower(v)
	}
	if v := trimmed(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := trimmed(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := trimmed(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = envBool(v)
	}
	if v := trimmed(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env := map[string]string{
		"general.project_dir":     EnvProjectDir,
		"general.syntax_file":     EnvSyntaxFile,
		"canvas.selection_policy": EnvSelectionPolicy,
		"logging.level":           EnvLogLevel,
		"logging.format":          EnvLogFormat,
		"logging.source":          EnvLogSource,
		"logging.file":            EnvLogFile,
	}[key]
	if env != "" && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}

// Describe renders the effective value of every key, marking env overrides.
func (c AppConfig) Describe() []string {
	rows := []struct{ key, val string }{
		{"general.project_dir", c.General.ProjectDir},
		{"general.syntax_file", c.General.SyntaxFile},
		{"general.default_format", c.General.DefaultFormat},
		{"canvas.min_scale", strconv.FormatFloat(c.Canvas.MinScale, 'g', -1, 64)},
		{"canvas.max_scale", strconv.FormatFloat(c.Canvas.MaxScale, 'g', -1, 64)},
		{"canvas.zoom_step", strconv.FormatFloat(c.Canvas.ZoomStep, 'g', -1, 64)},
		{"canvas.selection_policy", c.Canvas.SelectionPolicy},
		{"canvas.snap_threshold", strconv.FormatFloat(c.Canvas.SnapThreshold, 'g', -1, 64)},
		{"history.max_bytes", strconv.Itoa(c.History.MaxBytes)},
		{"history.max_depth", strconv.Itoa(c.History.MaxDepth)},
		{"history.min_interval_ms", strconv.Itoa(c.History.MinIntervalMs)},
		{"logging.level", c.Logging.Level},
		{"logging.format", c.Logging.Format},
		{"logging.source", strconv.FormatBool(c.Logging.Source)},
		{"logging.file", c.Logging.File},
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		line := r.key + " = " + r.val
		if env, ok := EnvOverrideFor(r.key); ok {
			line += " (from " + env + ")"
		}
		out = append(out, line)
	}
	return out
}
