// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the account pages and
// the public post view. Every page is parsed together with the base layout.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"folio/internal/middleware"
	"folio/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to templates.
type PageData struct {
	Title     string            // Page title for <title> tag
	Session   *session.Data     // Current user session (nil if unauthenticated)
	CSRFToken string            // CSRF token for forms
	Data      map[string]any    // Page-specific data
	Errors    map[string]string // Per-field form errors
	Flashes   []Flash           // One-time notification messages
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "info"
	Message string
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
}

const dateLayout = "2 January 2006"

var funcMap = template.FuncMap{
	// deref safely dereferences a string pointer for use in templates.
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	// pngDataURI turns a base64 PNG (the 2FA QR code) into an img src.
	"pngDataURI": func(b64 string) template.URL {
		return template.URL("data:image/png;base64," + b64)
	},
	"date": func(v any) string {
		switch t := v.(type) {
		case time.Time:
			return t.UTC().Format(dateLayout)
		case *time.Time:
			if t != nil {
				return t.UTC().Format(dateLayout)
			}
		}
		return ""
	},
}

// New parses all page templates from the embedded filesystem.
func New() (*Renderer, error) {
	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}

	r := &Renderer{templates: make(map[string]*template.Template)}
	for _, page := range pages {
		name := path.Base(page)
		if name == "base.html" {
			continue
		}

		tmpl, err := template.New("base.html").Funcs(funcMap).ParseFS(
			templateFS, "templates/base.html", page,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}

	return r, nil
}

// Page renders a full page with status 200.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	rn.PageStatus(w, r, http.StatusOK, name, data)
}

// PageStatus renders a full page with the given status code. The page is
// buffered so a template error still produces a clean 500.
func (rn *Renderer) PageStatus(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = &PageData{}
	}
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		slog.Error("template render failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("write page failed", "template", name, "error", err)
	}
}

// Error renders the error page with a status code and message.
func (rn *Renderer) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	rn.PageStatus(w, r, status, "error", &PageData{
		Title: http.StatusText(status),
		Data:  map[string]any{"Status": status, "Message": message},
	})
}
