package forms

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// Set is an immutable collection of built definitions keyed by form id.
type Set struct {
	defs map[string]model.Definition
}

// Load walks fsys, decodes every YAML document and builds it. Problems in
// one document do not stop the walk; all of them are joined in the returned
// error. A nil fsys yields an empty set.
func Load(fsys fs.FS, opts ...model.BuilderOption) (*Set, error) {
	set := &Set{defs: make(map[string]model.Definition)}
	if fsys == nil {
		return set, nil
	}

	builder := model.NewBuilder(opts...)
	sources := make(map[string]string)
	var problems []error

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("forms: read %s: %w", path, err)
		}
		doc, err := Decode(data, path)
		if err != nil {
			problems = append(problems, err)
			return nil
		}

		def, err := builder.Build(doc)
		if err != nil {
			problems = append(problems, fmt.Errorf("forms: %s: %w", path, err))
			return nil
		}
		if prev, exists := sources[def.ID]; exists {
			problems = append(problems, fmt.Errorf("%w: %q in %s and %s", ErrDuplicateForm, def.ID, prev, path))
			return nil
		}
		sources[def.ID] = path
		set.defs[def.ID] = def
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}
	return set, nil
}

// Decode parses one YAML definition document without building it.
func Decode(data []byte, source string) (model.Definition, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return model.Definition{}, fmt.Errorf("forms: file %s is empty", source)
	}
	var doc model.Definition
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.Definition{}, fmt.Errorf("forms: parse %s: %w", source, err)
	}
	doc.Source = source
	return doc, nil
}

// Get returns the definition with id.
func (s *Set) Get(id string) (model.Definition, bool) {
	if s == nil {
		return model.Definition{}, false
	}
	def, ok := s.defs[id]
	return def, ok
}

// Lookup is Get with an ErrUnknownForm error for hosts.
func (s *Set) Lookup(id string) (model.Definition, error) {
	def, ok := s.Get(id)
	if !ok {
		return model.Definition{}, fmt.Errorf("%w: %q", ErrUnknownForm, id)
	}
	return def, nil
}

// IDs returns the form ids in sorted order.
func (s *Set) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.defs))
	for id := range s.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// List returns the definitions sorted by id.
func (s *Set) List() []model.Definition {
	ids := s.IDs()
	out := make([]model.Definition, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.defs[id])
	}
	return out
}

// Len reports the number of definitions.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.defs)
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
