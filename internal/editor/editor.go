/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor is the canvas controller. It owns the open project and
// its file location together with the viewport, the connector selector,
// the connector views and their link lines, the undo history and the
// deferred-layout scheduler. Front-ends translate input events into
// Editor calls and call Flush once per event.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cleardialogue/internal/config"
	"cleardialogue/internal/dialogue"
	"cleardialogue/internal/index"
	"cleardialogue/internal/interact"
	applog "cleardialogue/internal/log"
	"cleardialogue/internal/storage"
	"cleardialogue/internal/undo"
	"cleardialogue/internal/viewport"
)

// ErrCancelled is returned when the user dismissed a file chooser.
var ErrCancelled = errors.New("cancelled")

// Dialog titles.
const (
	ImportTitle  = "Import Project"
	ImportFilter = "Dialogue Project Files"
)

// Options configures a new Editor. Zero values fall back to defaults.
type Options struct {
	Dialogs Dialogs
	Prompt  Prompt
	Config  config.AppConfig
	// Canvas is the content area size used as the zoom origin.
	Canvas viewport.Size
	// Index keeps the search index beside the project file current on save.
	Index bool
	Now   func() time.Time
}

// Editor is not safe for concurrent use; all calls come from the UI goroutine.
type Editor struct {
	cfg     config.AppConfig
	dialogs Dialogs
	prompt  Prompt
	log     *slog.Logger
	now     func() time.Time
	indexed bool

	project  *dialogue.Project
	location string
	format   storage.IO
	dirty    bool
	keywords []string

	View     *viewport.Viewport
	sel      interact.Selector
	views    *interact.Views
	lines    []interact.Line
	selected []string
	guides   []viewport.Guide
	history  *undo.Manager
	sched    Scheduler
}

// NewEditor returns an editor holding an empty, untitled project.
func NewEditor(opts Options) *Editor {
	cfg := opts.Config
	if cfg.ConfigVersion == 0 {
		cfg = config.Defaults()
	}
	e := &Editor{
		cfg:     cfg,
		dialogs: opts.Dialogs,
		prompt:  opts.Prompt,
		log:     applog.WithComponent("editor"),
		now:     opts.Now,
		indexed: opts.Index,
	}
	if e.dialogs == nil {
		e.dialogs = nopDialogs{}
	}
	if e.prompt == nil {
		e.prompt = nopPrompt{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	canvas := opts.Canvas
	if canvas.W <= 0 || canvas.H <= 0 {
		canvas = viewport.Size{W: 1280, H: 800}
	}
	e.View = viewport.New(canvas, viewport.Limits{
		MinScale: cfg.Canvas.MinScale,
		MaxScale: cfg.Canvas.MaxScale,
		ZoomStep: cfg.Canvas.ZoomStep,
	})
	if pol, err := interact.ParsePolicy(cfg.Canvas.SelectionPolicy); err == nil {
		e.sel.Policy = pol
	} else {
		e.log.Warn("ignoring selection policy", slog.Any("err", err))
	}
	e.history = undo.NewManager(undo.Config{
		MaxBytes:    cfg.History.MaxBytes,
		MaxDepth:    cfg.History.MaxDepth,
		MinInterval: cfg.History.MinInterval(),
	})
	if syntax, err := cfg.LoadSyntax(); err != nil {
		e.log.Warn("syntax file unavailable", slog.Any("err", err))
	} else {
		e.keywords = dialogue.Keywords(syntax)
	}
	e.New("")
	return e
}

// Project returns the open project. Mutate it only through Editor methods.
func (e *Editor) Project() *dialogue.Project { return e.project }

// Location is the project file path, "" for an unsaved project.
func (e *Editor) Location() string { return e.location }

// Format is the IO the project is saved with.
func (e *Editor) Format() storage.IO { return e.format }

// Dirty reports unsaved changes.
func (e *Editor) Dirty() bool { return e.dirty }

// Flush runs deferred layout work.
func (e *Editor) Flush() int { return e.sched.Flush() }

// Scheduler exposes the deferred-layout queue.
func (e *Editor) Scheduler() *Scheduler { return &e.sched }

// History exposes the undo stack for diagnostics.
func (e *Editor) History() *undo.Manager { return e.history }

// Keywords are the syntax keywords highlighted in node text.
func (e *Editor) Keywords() []string { return e.keywords }

// Highlights returns keyword spans for s using the project syntax if it
// has one, else the configured syntax file.
func (e *Editor) Highlights(s string) []dialogue.Span {
	kw := e.keywords
	if e.project.Syntax != "" {
		kw = dialogue.Keywords(e.project.Syntax)
	}
	return dialogue.Highlights(s, kw)
}

func (e *Editor) defaultFormat() storage.IO {
	if io, err := storage.ByName(e.cfg.General.DefaultFormat); err == nil {
		return io
	}
	return storage.Registry[0]
}

// New replaces the open project with an empty one.
func (e *Editor) New(name string) {
	p := dialogue.NewProject(name)
	e.load(p, "", e.defaultFormat())
	e.history.Clear()
	e.dirty = false
	e.View.Reset()
}

// load installs p and rebuilds every derived structure.
func (e *Editor) load(p *dialogue.Project, location string, io storage.IO) {
	e.project = p
	e.location = location
	e.format = io
	e.sel.Cancel()
	e.selected = nil
	e.views = interact.NewViews()
	for _, n := range p.Nodes {
		e.views.Build(n)
	}
	e.lines = e.views.Lines(p)
	e.sched = Scheduler{}
}

// ProjectDirectory is where file choosers start: the open project's
// directory while its file exists, else the configured project directory,
// else the working directory.
func (e *Editor) ProjectDirectory() string {
	if e.location != "" {
		if _, err := os.Stat(e.location); err == nil {
			return filepath.Dir(e.location)
		}
	}
	if d := e.cfg.General.ProjectDir; d != "" {
		if st, err := os.Stat(d); err == nil && st.IsDir() {
			return d
		}
	}
	return "."
}

// Open imports a project. With an empty path the user picks a file.
// On failure the open project is left untouched.
func (e *Editor) Open(path string) error {
	if path == "" {
		var exts []string
		for _, io := range storage.Registry {
			exts = append(exts, io.Extensions()...)
		}
		p, ok := e.dialogs.OpenFile(ImportTitle, e.ProjectDirectory(), ImportFilter, exts)
		if !ok {
			return ErrCancelled
		}
		path = p
	}
	io, err := storage.ForPath(path)
	if err != nil {
		return e.fail("open", err)
	}
	p, err := io.Import(path)
	if err != nil {
		return e.fail("open", err)
	}
	e.load(p, path, io)
	e.history.Clear()
	e.dirty = false
	e.fitView()
	e.log.Info("project opened", slog.String("path", path), slog.Int("nodes", p.NumNodes()), slog.Int("links", p.NumLinks()))
	return nil
}

// Save writes the project to its location, asking for one if unsaved.
func (e *Editor) Save() error {
	if e.location == "" {
		return e.SaveAs("")
	}
	return e.export(e.location, e.format)
}

// SaveAs writes the project to a new location. With an empty path the
// user picks one; a missing extension is appended for the current format.
func (e *Editor) SaveAs(path string) error {
	io := e.format
	if path == "" {
		p, ok := e.dialogs.SaveFile(
			fmt.Sprintf("Export %s Project", io.TypeName()),
			e.ProjectDirectory(),
			storage.FilterDescription(io),
			io.Extensions()[0],
		)
		if !ok {
			return ErrCancelled
		}
		path = p
	}
	if found, err := storage.ForPath(path); err == nil {
		io = found
	} else {
		path = storage.EnsureExtension(path, io)
	}
	return e.export(path, io)
}

func (e *Editor) export(path string, io storage.IO) error {
	if bak, err := storage.Backup(path); err != nil {
		return e.fail("save", err)
	} else if bak != "" {
		e.log.Debug("backup written", slog.String("path", bak))
	}
	if err := io.Export(e.project, path); err != nil {
		return e.fail("save", err)
	}
	e.location, e.format, e.dirty = path, io, false
	e.log.Info("project saved", slog.String("path", path), slog.String("format", io.TypeName()))
	if e.indexed {
		e.updateIndex(context.Background())
	}
	return nil
}

// updateIndex refreshes the derived search index. Failures are logged:
// the index can always be rebuilt from the project.
func (e *Editor) updateIndex(ctx context.Context) {
	ctx = applog.ContextWithProject(ctx, e.location)
	l := applog.WithOperation(e.log, "index")
	ix, rebuilt, err := index.DetectAndRebuild(ctx, index.PathFor(e.location), e.project)
	if err != nil {
		l.ErrorContext(ctx, "index unavailable", slog.Any("err", err))
		return
	}
	defer func() { _ = ix.Close() }()
	if !rebuilt {
		if err := ix.Update(ctx, e.project); err != nil {
			l.ErrorContext(ctx, "index update failed", slog.Any("err", err))
			return
		}
	}
	blob, err := storage.EncodeJSON(e.project)
	if err == nil {
		err = ix.SaveRevision(ctx, "save", blob, e.now())
	}
	if err != nil {
		l.WarnContext(ctx, "revision not saved", slog.Any("err", err))
	}
}

// Search queries the index beside the project file.
func (e *Editor) Search(ctx context.Context, q index.Query) ([]index.Hit, error) {
	if e.location == "" {
		return nil, errors.New("search: project has not been saved")
	}
	ix, err := e.openIndex(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ix.Close() }()
	return ix.Search(ctx, q)
}

// Incoming lists the links leading into a node, with their source titles.
func (e *Editor) Incoming(ctx context.Context, nodeID string) ([]index.Edge, error) {
	if e.location == "" {
		return nil, errors.New("incoming: project has not been saved")
	}
	ix, err := e.openIndex(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ix.Close() }()
	return ix.Incoming(ctx, nodeID)
}

// openIndex opens the index beside the project and brings it up to date
// with the project in memory.
func (e *Editor) openIndex(ctx context.Context) (*index.Index, error) {
	ix, rebuilt, err := index.DetectAndRebuild(ctx, index.PathFor(e.location), e.project)
	if err != nil {
		return nil, err
	}
	if !rebuilt {
		if err := ix.Update(ctx, e.project); err != nil {
			_ = ix.Close()
			return nil, err
		}
	}
	return ix, nil
}

// AutosaveCrash writes a crash snapshot beside the project file.
func (e *Editor) AutosaveCrash() (string, error) {
	return storage.AutosaveCrashSnapshot(e.project, e.location)
}

// fail logs err, reports it through Dialogs and returns it.
func (e *Editor) fail(op string, err error) error {
	kind := ErrorKind(err)
	applog.WithOperation(e.log, op).Error("operation failed", slog.String("kind", kind), slog.Any("err", err))
	e.dialogs.Error("Caught "+kind, err.Error())
	return err
}

func (e *Editor) fitView() {
	if r, ok := viewport.ContentBounds(e.project); ok {
		e.View.Fit(r, e.View.Content, 40)
		return
	}
	e.View.Reset()
}

// Title is the window title for the open project.
func (e *Editor) Title() string {
	name := e.project.Name
	if name == "" {
		name = "Untitled"
	}
	if e.location != "" {
		name += " - " + filepath.Base(e.location)
	}
	if e.dirty {
		name = "*" + name
	}
	return strings.TrimSpace(name)
}
