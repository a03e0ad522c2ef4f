package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// BlobDownload serves blobs stored by the filesystem backend. Stored URLs
// point under the static mount, so the route must resolve them; S3 setups
// hand out object-store URLs and never reach this handler. Only regular
// files inside the storage root are served.
func (a *App) BlobDownload(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" || strings.Contains(key, "..") {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(a.Config.StoragePath, filepath.FromSlash(key))
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}
