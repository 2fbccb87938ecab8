// Package web renders the server-side HTML pages and translates form
// validation failures into per-field messages.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pritamgurung97/Adverts-Nepal/internal/flash"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every embedded page and partial into one set.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"field": func(errs map[string]string, name string) string { return errs[name] },
	}).ParseFS(templateFS, "templates/*.html")
}

// Render writes page with the viewer and any pending flash notice merged
// into data.
func Render(c *gin.Context, status int, page string, viewer any, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Viewer"] = viewer
	if notice, ok := flash.ReadAndClear(c); ok {
		data["Flash"] = notice
	}
	c.HTML(status, page, data)
}

// Error renders the shared error page.
func Error(c *gin.Context, status int, viewer any, msg string) {
	Render(c, status, "error.html", viewer, gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": msg,
	})
}

// Redirect issues a 302, the status browsers follow with a GET after a form post.
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}
