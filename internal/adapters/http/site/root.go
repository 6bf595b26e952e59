// Package site serves the embedded user documentation under /docs.
package site

import (
	"context"
	"net/http"
	"strings"
)

// Prefix is where the documentation is mounted.
const Prefix = "/docs"

const cacheControl = "public, max-age=300"

// Register attaches the embedded documentation site to mux under Prefix.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	files := http.StripPrefix(Prefix, http.FileServer(FS()))
	mux.HandleFunc("GET "+Prefix+"/", func(w http.ResponseWriter, r *http.Request) {
		// Directory listings other than the index are not part of the site.
		if strings.HasSuffix(r.URL.Path, "/") && r.URL.Path != Prefix+"/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", cacheControl)
		files.ServeHTTP(w, r)
	})
	mux.Handle("GET "+Prefix, http.RedirectHandler(Prefix+"/", http.StatusMovedPermanently))
}
