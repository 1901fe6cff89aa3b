package render

import (
	"slices"

	"github.com/goliatone/go-formwizard/pkg/documents"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Entry is one answered field on the review page.
type Entry struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Value  string `json:"value"`
	Amount bool   `json:"amount,omitempty"`
}

// File is one attached document as shown to the applicant.
type File struct {
	Name string `json:"name"`
	Size string `json:"size,omitempty"`
}

// Document lists the files attached to one slot.
type Document struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Files []File `json:"files"`
}

// Section groups the entries of one data entry step.
type Section struct {
	Step      int        `json:"step"`
	Title     string     `json:"title"`
	Entries   []Entry    `json:"entries"`
	Documents []Document `json:"documents"`
}

// Summary is the view model of the review step.
type Summary struct {
	FormID   string    `json:"formId"`
	Title    string    `json:"title"`
	Editable bool      `json:"editable"`
	Sections []Section `json:"sections"`
}

// Summarize collects the visible, non-empty answers of every step before the
// review step. Booleans print as Yes or No; unanswered optional fields are
// left out.
func Summarize(def model.Definition, snap wizard.Snapshot) Summary {
	summary := Summary{FormID: def.ID, Title: def.Title, Editable: def.Editable}

	for _, step := range def.Steps {
		if step.Review {
			continue
		}
		section := Section{Step: step.Index, Title: step.Title}
		for _, id := range step.Fields {
			if !slices.Contains(snap.Visible.Fields, id) {
				continue
			}
			field, _ := def.Field(id)
			entry, ok := entryFor(field, snap.Fields[id])
			if ok {
				section.Entries = append(section.Entries, entry)
			}
		}
		for _, id := range step.Slots {
			files := snap.Slots[id]
			if len(files) == 0 || !slices.Contains(snap.Visible.Slots, id) {
				continue
			}
			slot, _ := def.Slot(id)
			section.Documents = append(section.Documents, Document{ID: id, Label: labelOr(slot.Label, id), Files: filesOf(files)})
		}
		if len(section.Entries) > 0 || len(section.Documents) > 0 {
			summary.Sections = append(summary.Sections, section)
		}
	}
	return summary
}

func entryFor(field model.Field, value any) (Entry, bool) {
	entry := Entry{ID: field.ID, Label: labelOr(field.Label, field.ID)}
	switch v := value.(type) {
	case bool:
		entry.Value = "No"
		if v {
			entry.Value = "Yes"
		}
	case string:
		if v == "" {
			return Entry{}, false
		}
		entry.Value = v
		entry.Amount = isAmount(field)
	default:
		return Entry{}, false
	}
	return entry, true
}

func isAmount(field model.Field) bool {
	for _, r := range field.Rules {
		if r.Kind == model.RuleNumber {
			return true
		}
	}
	return false
}

func filesOf(files []documents.Descriptor) []File {
	out := make([]File, 0, len(files))
	for _, f := range files {
		file := File{Name: f.Name}
		if f.SizeBytes != nil {
			file.Size = documents.HumanSize(*f.SizeBytes)
		}
		out = append(out, file)
	}
	return out
}

func labelOr(label, id string) string {
	if label != "" {
		return label
	}
	return id
}
