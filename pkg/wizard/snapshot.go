package wizard

import (
	"github.com/goliatone/go-formwizard/pkg/documents"
	"github.com/goliatone/go-formwizard/pkg/submission"
)

// Items lists field and slot identifiers.
type Items struct {
	Fields []string `json:"fields"`
	Slots  []string `json:"slots"`
}

// Snapshot is the state a host renders.
type Snapshot struct {
	ID         string                            `json:"id,omitempty"`
	FormID     string                            `json:"formId"`
	Title      string                            `json:"title"`
	Step       int                               `json:"step"`
	StepID     string                            `json:"stepId"`
	StepTitle  string                            `json:"stepTitle"`
	TotalSteps int                               `json:"totalSteps"`
	Review     bool                              `json:"review"`
	Fields     map[string]any                    `json:"fields"`
	Slots      map[string][]documents.Descriptor `json:"slots"`
	Required   Items                             `json:"required"`
	Visible    Items                             `json:"visible"`
	// StepFields and StepSlots are the visible items of the current step.
	StepFields []string           `json:"stepFields"`
	StepSlots  []string           `json:"stepSlots"`
	Reason     string             `json:"reason,omitempty"`
	Editing    bool               `json:"editing"`
	Submitting bool               `json:"submitting"`
	Submitted  bool               `json:"submitted"`
	Record     *submission.Record `json:"record,omitempty"`
}

// Snapshot copies the current state. Rule evaluation errors are logged and
// leave the required and visible lists empty.
func (w *Wizard) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	values := w.fields.Values()
	snap := Snapshot{
		ID:         w.id,
		FormID:     w.def.ID,
		Title:      w.def.Title,
		Step:       w.step,
		TotalSteps: w.def.TotalSteps(),
		Fields:     values,
		Slots:      w.files(),
		Reason:     w.reason,
		Editing:    w.editing,
		Submitting: w.submitting,
		Submitted:  w.record != nil,
	}
	if w.record != nil {
		rec := *w.record
		snap.Record = &rec
	}
	if step, ok := w.def.Step(w.step); ok {
		snap.StepID = step.ID
		snap.StepTitle = step.Title
		snap.Review = step.Review
	}

	if required, err := w.engine.RequiredFields(values); err == nil {
		snap.Required.Fields = required.List()
	} else {
		w.logger.Error().Err(err).Msg("snapshot: required fields")
	}
	if required, err := w.engine.RequiredSlots(values); err == nil {
		snap.Required.Slots = required.List()
	} else {
		w.logger.Error().Err(err).Msg("snapshot: required slots")
	}
	vis, err := w.engine.Visible(values)
	if err != nil {
		w.logger.Error().Err(err).Msg("snapshot: visibility")
		return snap
	}
	snap.Visible = Items{Fields: vis.Fields.List(), Slots: vis.Slots.List()}
	if step, ok := w.def.Step(w.step); ok {
		for _, id := range step.Fields {
			if vis.Fields.Has(id) {
				snap.StepFields = append(snap.StepFields, id)
			}
		}
		for _, id := range step.Slots {
			if vis.Slots.Has(id) {
				snap.StepSlots = append(snap.StepSlots, id)
			}
		}
	}
	return snap
}
