// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package view renders the server-side HTML pages with pongo2.

Templates are embedded in the binary and compiled once at startup, so a syntax
error stops the server from booting instead of failing a request.

Every render receives:

  - current_user: the [sec.Identity] of the logged-in user, or nil.
  - flash_success, flash_error: the session's pending flashes, drained by this
    render and therefore shown exactly once.
*/
package view

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/taibuivan/wanderlust/internal/platform/ctxutil"
	"github.com/taibuivan/wanderlust/internal/platform/session"
)

//go:embed templates
var templates embed.FS

const templateRoot = "templates"

// Renderer compiles and executes the embedded templates.
type Renderer struct {
	set *pongo2.TemplateSet
}

// New compiles every embedded template. In debug mode templates are not cached.
func New(debug bool) (*Renderer, error) {
	registerFilters()

	set := pongo2.NewSet("wanderlust", &embedLoader{fs: templates})
	set.Debug = debug

	renderer := &Renderer{set: set}
	if err := renderer.compileAll(); err != nil {
		return nil, err
	}

	return renderer, nil
}

// compileAll parses each template once so syntax errors surface at startup.
func (renderer *Renderer) compileAll() error {
	return fs.WalkDir(templates, templateRoot, func(name string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() || !strings.HasSuffix(name, ".html") {
			return err
		}
		if _, err := renderer.set.FromCache(strings.TrimPrefix(name, templateRoot+"/")); err != nil {
			return fmt.Errorf("view_compile_failed: %s: %w", name, err)
		}
		return nil
	})
}

// Render executes name with data and writes it with status.
//
// The page is rendered fully before anything is written, so a template error
// can still be turned into an error page by the caller.
func (renderer *Renderer) Render(writer http.ResponseWriter, request *http.Request, status int, name string, data map[string]any) error {
	ctx := request.Context()

	tpl, err := renderer.set.FromCache(name)
	if err != nil {
		return fmt.Errorf("view_lookup_failed: %w", err)
	}

	pageContext := pongo2.Context{}
	for key, value := range data {
		pageContext[key] = value
	}
	pageContext["current_user"] = nil
	if user := ctxutil.GetCurrentUser(ctx); user != nil {
		pageContext["current_user"] = user
	}
	pageContext["current_path"] = request.URL.Path

	drained, err := injectFlashes(ctx, pageContext)
	if err != nil {
		return err
	}

	body, err := tpl.Execute(pageContext)
	if err != nil {
		requeueFlashes(ctx, drained)
		return fmt.Errorf("view_execute_failed: %s: %w", name, err)
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(status)
	if _, err := io.WriteString(writer, body); err != nil {
		ctxutil.GetLogger(ctx).DebugContext(ctx, "view_write_failed", slog.String("error", err.Error()))
	}

	return nil
}

// injectFlashes drains the session's flashes into the page context and
// returns them so a failed render can hand them back.
func injectFlashes(ctx context.Context, pageContext pongo2.Context) ([]session.Flash, error) {
	success, failure := []string{}, []string{}

	var flashes []session.Flash
	if handle := session.FromContext(ctx); handle != nil {
		drained, err := handle.Flashes(ctx)
		if err != nil {
			return nil, fmt.Errorf("view_flash_drain_failed: %w", err)
		}
		flashes = drained
	}

	for _, flash := range flashes {
		switch flash.Category {
		case session.Success:
			success = append(success, flash.Message)
		default:
			failure = append(failure, flash.Message)
		}
	}

	pageContext["flash_success"] = success
	pageContext["flash_error"] = failure
	return flashes, nil
}

// requeueFlashes returns drained flashes to the session. The render error is
// what the caller reports, so a requeue failure is only logged.
func requeueFlashes(ctx context.Context, flashes []session.Flash) {
	handle := session.FromContext(ctx)
	if handle == nil || len(flashes) == 0 {
		return
	}
	if err := handle.Requeue(ctx, flashes); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "view_flash_requeue_failed", slog.String("error", err.Error()))
	}
}

// # Template Loading

// embedLoader resolves template names against the embedded directory.
type embedLoader struct {
	fs embed.FS
}

// Abs implements [pongo2.TemplateLoader]. Names are always rooted at the
// template directory, so "extends" and "include" use the same paths as Render.
func (loader *embedLoader) Abs(_, name string) string {
	return path.Clean(strings.TrimPrefix(name, "/"))
}

// Get implements [pongo2.TemplateLoader].
func (loader *embedLoader) Get(name string) (io.Reader, error) {
	file, err := loader.fs.Open(path.Join(templateRoot, name))
	if err != nil {
		return nil, err
	}
	return file, nil
}

// # Filters

var (
	printer     = message.NewPrinter(language.English)
	filtersOnce sync.Once
)

// registerFilters installs the custom filters once per process.
func registerFilters() {
	filtersOnce.Do(func() {
		if !pongo2.FilterExists("price") {
			_ = pongo2.RegisterFilter("price", priceFilter)
		}
	})
}

// priceFilter formats an integer price with thousands separators.
func priceFilter(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(printer.Sprintf("%d", in.Integer())), nil
}
