// Package ui serves the dashboard page. The page is embedded in the binary;
// a directory on disk can replace it for development.
package ui

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
)

//go:embed static
var embedded embed.FS

// Handler returns the handler for "/". When dir is empty the embedded page is
// served. Otherwise files come from dir and unknown paths fall back to
// dir/index.html.
func Handler(dir string) http.Handler {
	if dir == "" {
		sub, err := fs.Sub(embedded, "static")
		if err != nil {
			// static is compiled in; Sub only fails on an invalid name.
			panic(err)
		}
		return http.FileServer(http.FS(sub))
	}

	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		files.ServeHTTP(w, r)
	})
}
