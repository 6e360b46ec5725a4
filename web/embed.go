// Package web holds the front-end's HTML templates and stylesheet,
// compiled into the binary.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static templates
var content embed.FS

var (
	// Static is served under /static/.
	Static = sub("static")
	// Templates holds layout.html and one file per page.
	Templates = sub("templates")
)

func sub(dir string) fs.FS {
	s, err := fs.Sub(content, dir)
	if err != nil {
		panic("web: " + err.Error())
	}
	return s
}
