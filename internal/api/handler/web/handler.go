package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"

	"github.com/newthinker/fxagents/internal/api/handler/api"
	"github.com/newthinker/fxagents/internal/api/upload"
	"github.com/newthinker/fxagents/internal/core"
	"go.uber.org/zap"
)

//go:embed templates/*
var templateFS embed.FS

// pages excludes layout.html, which every page is parsed with
var pages = []string{"index.html", "upload.html", "charts.html", "b3.html"}

var funcs = template.FuncMap{
	"json": toJS,
}

// toJS encodes v for use inside a script element
func toJS(v any) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}

// Handler provides web UI handlers with template rendering
type Handler struct {
	// one template set per page: layout.html plus the page
	pageTemplates map[string]*template.Template
	agent         api.MarketAgent
	uploads       *upload.Service
	logger        *zap.Logger
}

// NewHandler creates a web handler with templates loaded from templatesDir.
// If templatesDir is empty, it falls back to the embedded templates.
func NewHandler(templatesDir string, agent api.MarketAgent, uploads *upload.Service, logger *zap.Logger) (*Handler, error) {
	fsys := TemplateFS()
	if templatesDir != "" {
		fsys = os.DirFS(templatesDir)
	}
	return NewHandlerWithFS(fsys, agent, uploads, logger)
}

// NewHandlerWithFS creates a web handler using a custom template filesystem.
func NewHandlerWithFS(fsys fs.FS, agent api.MarketAgent, uploads *upload.Service, logger *zap.Logger) (*Handler, error) {
	pageTemplates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(fsys, "layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		pageTemplates[page] = tmpl
	}

	return &Handler{
		pageTemplates: pageTemplates,
		agent:         agent,
		uploads:       uploads,
		logger:        logger,
	}, nil
}

// render executes the page template with the given data
func (h *Handler) render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := h.pageTemplates[page]
	if !ok {
		http.Error(w, "template not found: "+page, http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		h.logger.Error("rendering template", zap.String("page", page), zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// TemplateFS returns the embedded template filesystem.
func TemplateFS() fs.FS {
	subFS, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return templateFS
	}
	return subFS
}

// errorMessage renders err for display
func errorMessage(err error) string {
	var ce *core.Error
	if errors.As(err, &ce) {
		if ce.Cause != nil {
			return ce.Message + ": " + ce.Cause.Error()
		}
		return ce.Message
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Sprintf("file too large, the limit is %d MB", tooLarge.Limit>>20)
	}
	return "unexpected error: " + err.Error()
}
