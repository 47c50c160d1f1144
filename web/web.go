// Package web ships the html templates and static assets inside the binary.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	html "github.com/gofiber/template/html/v2"
)

//go:embed templates static
var assets embed.FS

// Engine returns the view engine. An empty dir serves the embedded
// templates; otherwise templates are read from dir and reloaded on change.
func Engine(dir string) *html.Engine {
	if dir != "" {
		engine := html.New(dir, ".html")
		engine.Reload(true)
		return engine
	}
	sub, err := fs.Sub(assets, "templates")
	if err != nil {
		panic(err) // embedded path is fixed at build time
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}

// Static serves the embedded stylesheet and images.
func Static() fiber.Handler {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return filesystem.New(filesystem.Config{
		Root:   http.FS(sub),
		MaxAge: 3600,
	})
}
