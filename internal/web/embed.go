// Package web serves the embedded single-page frontend.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed dist/*
var staticFiles embed.FS

// FileSystem returns the embedded filesystem with the dist folder as root.
func FileSystem() (fs.FS, error) {
	return fs.Sub(staticFiles, "dist")
}

// RegisterStaticRoutes serves the frontend for every path not claimed by an
// earlier route. Unknown paths fall back to index.html so client-side routes
// such as /route/3 load the app; unknown /api paths stay 404.
func RegisterStaticRoutes(e *echo.Echo) error {
	staticFS, err := FileSystem()
	if err != nil {
		return err
	}
	index, err := fs.ReadFile(staticFS, "index.html")
	if err != nil {
		return err
	}
	fileServer := http.FileServer(http.FS(staticFS))

	e.GET("/*", func(c echo.Context) error {
		requestPath := path.Clean(c.Request().URL.Path)
		if requestPath == "/api" || strings.HasPrefix(requestPath, "/api/") {
			return echo.NewHTTPError(http.StatusNotFound, "unknown API route: "+requestPath)
		}

		name := strings.TrimPrefix(requestPath, "/")
		if name == "" || name == "index.html" {
			return c.HTMLBlob(http.StatusOK, index)
		}
		stat, err := fs.Stat(staticFS, name)
		if err != nil || stat.IsDir() {
			return c.HTMLBlob(http.StatusOK, index)
		}

		fileServer.ServeHTTP(c.Response(), c.Request())
		return nil
	})

	return nil
}

// HasEmbeddedFiles reports whether the frontend build has been embedded.
func HasEmbeddedFiles() bool {
	_, err := staticFiles.Open("dist/index.html")
	return err == nil
}
