// Command formwizard-lint checks YAML form definitions and reports every
// problem it finds, sorted by file.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-formwizard/components/regions"
	"github.com/goliatone/go-formwizard/pkg/forms"
	"github.com/goliatone/go-formwizard/pkg/model"
)

type violation struct {
	file     string
	location string
	message  string
}

func (v violation) String() string {
	if v.location == "" {
		return fmt.Sprintf("%s: %s", v.file, v.message)
	}
	return fmt.Sprintf("%s: %s -> %s", v.file, v.location, v.message)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(flag.CommandLine.Output(), "\nLint form definitions. Without paths the bundled catalog is checked.\n")
	}
	flag.Parse()

	var (
		docs map[string][]byte
		err  error
	)
	if paths := flag.Args(); len(paths) > 0 {
		docs, err = readPaths(paths)
	} else {
		docs, err = readFS(forms.EmbeddedFS())
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "lint: %v\n", err)
		os.Exit(1)
	}

	violations := lint(docs)
	for _, v := range violations {
		fmt.Fprintln(os.Stderr, v)
	}
	if len(violations) > 0 {
		os.Exit(1)
	}
	fmt.Printf("%d definitions ok\n", len(docs))
}

func readPaths(paths []string) (map[string][]byte, error) {
	docs := make(map[string][]byte)
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() || !isYAML(path) {
				return nil
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			docs[path] = raw
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func readFS(fsys fs.FS) (map[string][]byte, error) {
	docs := make(map[string][]byte)
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isYAML(path) {
			return nil
		}
		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		docs[path] = raw
		return nil
	})
	return docs, err
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// lint decodes and builds every document, then checks what the builder
// cannot see from a single file: duplicate ids and prefixes.
func lint(docs map[string][]byte) []violation {
	builder := model.NewBuilder()
	idOwner := make(map[string]string)
	prefixOwner := make(map[string]string)
	var result []violation

	files := make([]string, 0, len(docs))
	for file := range docs {
		files = append(files, file)
	}
	sort.Strings(files)

	for _, file := range files {
		doc, err := forms.Decode(docs[file], file)
		if err != nil {
			result = append(result, violation{file: file, message: err.Error()})
			continue
		}
		result = append(result, lintSources(file, doc)...)

		def, err := builder.Build(doc)
		if err != nil {
			for _, e := range unjoin(err) {
				result = append(result, violation{file: file, location: "form " + doc.ID, message: trimBuilderPrefix(e.Error(), doc.ID)})
			}
			continue
		}

		if prev, ok := idOwner[def.ID]; ok {
			result = append(result, violation{file: file, location: "id", message: fmt.Sprintf("form id %q already declared in %s", def.ID, prev)})
		} else {
			idOwner[def.ID] = file
		}
		if prev, ok := prefixOwner[def.Prefix]; ok {
			result = append(result, violation{file: file, location: "prefix", message: fmt.Sprintf("prefix %q already used by %s", def.Prefix, prev)})
		} else {
			prefixOwner[def.Prefix] = file
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].file == result[j].file {
			if result[i].location == result[j].location {
				return result[i].message < result[j].message
			}
			return result[i].location < result[j].location
		}
		return result[i].file < result[j].file
	})
	return result
}

// lintSources flags choice sources no resolver can serve.
func lintSources(file string, doc model.Definition) []violation {
	var result []violation
	for _, f := range doc.Fields {
		if f.ChoiceSource != "" && f.ChoiceSource != regions.ChoiceSource {
			result = append(result, violation{
				file:     file,
				location: "fields > " + f.ID,
				message:  fmt.Sprintf("unknown choice source %q (supported: %s)", f.ChoiceSource, regions.ChoiceSource),
			})
		}
	}
	return result
}

func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

func trimBuilderPrefix(msg, formID string) string {
	msg = strings.TrimPrefix(msg, model.ErrInvalidDefinition.Error()+": ")
	return strings.TrimPrefix(msg, "form "+formID+": ")
}
