// Package web serves the browser page bundled into the binary.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var assets embed.FS

// Static returns the embedded asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// IndexHandler writes index.html unchanged.
func IndexHandler() http.HandlerFunc {
	page, err := fs.ReadFile(Static(), "index.html")
	if err != nil {
		panic(err)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(page)
	}
}

// AssetHandler serves the files under /static/.
func AssetHandler() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.FS(Static())))
}
