// Package site serves the embedded front-end.
package site

import (
	"bytes"
	"context"
	"io/fs"
	"net/http"
	"time"
)

// IndexPath is where the root redirect points.
const IndexPath = "/static/index.html"

// Register attaches the front-end routes to mux:
//
//	GET /                   -> 307 to /static/index.html
//	GET /static/index.html  -> front-end page
//	GET /static/*           -> embedded assets
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	h := NewRootHandler()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(FS())))
	mux.HandleFunc("GET "+IndexPath, h.HandleIndex)
	mux.HandleFunc("GET /{$}", h.HandleRoot)
}

// RootHandler handles root path requests
type RootHandler struct {
	index []byte
}

// NewRootHandler creates a new root handler
func NewRootHandler() *RootHandler {
	index, _ := fs.ReadFile(staticFS, "static/index.html")
	return &RootHandler{index: index}
}

// HandleRoot redirects / to the front-end index page.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, IndexPath, http.StatusTemporaryRedirect)
}

// HandleIndex writes the index page. http.FileServer would redirect
// .../index.html to the directory, so it is served directly.
func (h *RootHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeContent(w, r, "index.html", time.Time{}, bytes.NewReader(h.index))
}
