package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// SPAHandler serves the admin console build and falls back to index.html so
// client side routes resolve.
type SPAHandler struct {
	staticDir string
	basePath  string
	indexFile string
}

func NewSPAHandler(staticDir, basePath string) *SPAHandler {
	return &SPAHandler{
		staticDir: staticDir,
		basePath:  strings.TrimSuffix(basePath, "/"),
		indexFile: "index.html",
	}
}

func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, h.basePath)
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")

	if rel == "api" || strings.HasPrefix(rel, "api/") {
		http.NotFound(w, r)
		return
	}

	filePath := filepath.Join(h.staticDir, filepath.FromSlash(rel))
	info, err := os.Stat(filePath)
	if err == nil && !info.IsDir() {
		http.ServeFile(w, r, filePath)
		return
	}

	indexPath := filepath.Join(h.staticDir, h.indexFile)
	if _, err := os.Stat(indexPath); err != nil {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, indexPath)
}

func StaticFileServer(staticDir, basePath string) http.Handler {
	return NewSPAHandler(staticDir, basePath)
}
