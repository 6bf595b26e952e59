package site

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"sort"
)

//go:embed static
var staticFS embed.FS

func content() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return staticFS
	}
	return sub
}

// FS returns an http.FileSystem for the embedded docs site.
func FS() http.FileSystem { return http.FS(content()) }

// Pages lists the URL paths of the HTML pages in the site, sorted.
func Pages() ([]string, error) {
	var out []string
	err := fs.WalkDir(content(), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".html" {
			return nil
		}
		if p == "index.html" {
			out = append(out, Prefix+"/")
			return nil
		}
		out = append(out, Prefix+"/"+p)
		return nil
	})
	sort.Strings(out)
	return out, err
}
