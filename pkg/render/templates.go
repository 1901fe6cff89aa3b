package render

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embedded embed.FS

// Templates returns the built-in review and acknowledgement templates.
func Templates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
