package forms

import (
	"embed"
	"io/fs"
	"sync"
)

//go:embed definitions/*.yaml
var embeddedDefinitions embed.FS

// EmbeddedFS returns the bundled form definitions.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedDefinitions, "definitions")
	if err != nil {
		panic(err)
	}
	return sub
}

var loadEmbedded = sync.OnceValues(func() (*Set, error) {
	return Load(EmbeddedFS())
})

// Catalog returns the embedded definitions, loaded once.
func Catalog() (*Set, error) {
	return loadEmbedded()
}
