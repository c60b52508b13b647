package web

import (
	"net/http"
	"path/filepath"
)

// Dashboard returns a handler serving the monitoring dashboard page from
// dir. An empty dir falls back to the bundled ./web directory.
func Dashboard(dir string) http.HandlerFunc {
	if dir == "" {
		dir = "web"
	}
	page := filepath.Join(dir, "dashboard.html")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		http.ServeFile(w, r, page)
	}
}
