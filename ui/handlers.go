package ui

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"entrolab/app"
	"entrolab/domain/core"
)

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/report", http.StatusFound)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleListArtifacts(w http.ResponseWriter, r *http.Request) {
	names, err := a.store.List(r.Context())
	if err != nil {
		a.log.Error("list artifacts", "error", err)
		a.respondError(w, http.StatusInternalServerError, "list artifacts failed")
		return
	}
	a.respondJSON(w, http.StatusOK, map[string]any{
		"artifacts": names,
		"count":     len(names),
	})
}

func (a *App) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	artifact, err := a.store.Load(r.Context(), name)
	if err != nil {
		if core.IsNotFound(err) {
			a.respondError(w, http.StatusNotFound, fmt.Sprintf("artifact %q not found", name))
			return
		}
		a.log.Error("load artifact", "name", name, "error", err)
		a.respondError(w, http.StatusInternalServerError, "load artifact failed")
		return
	}
	a.respondJSON(w, http.StatusOK, artifact)
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	artifact, err := a.store.Load(r.Context(), app.ReportArtifact)
	if err != nil {
		if core.IsNotFound(err) {
			http.Error(w, "report not generated yet; run the report stage first", http.StatusNotFound)
			return
		}
		a.log.Error("load report", "error", err)
		http.Error(w, "load report failed", http.StatusInternalServerError)
		return
	}
	var doc app.ReportDoc
	if err := app.DecodeArtifact(artifact, &doc); err != nil {
		a.log.Error("decode report", "error", err)
		http.Error(w, "decode report failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, reportShell, doc.GeneratedAt.String(), mdToHTML([]byte(doc.Markdown)))
}

// mdToHTML renders report markdown with tables and fenced code enabled.
func mdToHTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(md)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}

const reportShell = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Ecosystem Entropy Report</title>
<style>
body { max-width: 56rem; margin: 2rem auto; padding: 0 1rem; font-family: system-ui, sans-serif; line-height: 1.5; }
table { border-collapse: collapse; margin: 1rem 0; }
th, td { border: 1px solid #999; padding: 0.3rem 0.6rem; text-align: left; }
pre { background: #f4f4f4; padding: 0.8rem; overflow-x: auto; }
code { font-family: ui-monospace, monospace; }
footer { margin-top: 2rem; color: #666; font-size: 0.85rem; }
</style>
</head>
<body>
%[2]s
<footer>Generated %[1]s</footer>
</body>
</html>
`
