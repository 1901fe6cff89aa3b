// Package tui walks a wizard in the terminal: it prompts the visible fields
// and slots of each step, shows validation reasons as notices, renders the
// review page and submits from the last step.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formwizard/pkg/documents"
	"github.com/goliatone/go-formwizard/pkg/fields"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/submission"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

const (
	actionContinue = "Continue"
	actionBack     = "Go back"
	actionExit     = "Exit"
	actionSubmit   = "Submit application"
)

// Renderer drives one wizard through a PromptDriver.
type Renderer struct {
	driver PromptDriver
	picker documents.Picker
	pages  *render.Renderer
	theme  Theme
	logger zerolog.Logger
}

// New constructs a renderer with the survey driver, a path-prompting picker
// and the embedded page templates.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{theme: DefaultTheme(), logger: zerolog.Nop()}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	if r.picker == nil {
		r.picker = documents.NewLocalPicker(r.askPaths)
	}
	if r.pages == nil {
		pages, err := render.New()
		if err != nil {
			return nil, err
		}
		r.pages = pages
	}
	return r, nil
}

// Run walks w until it is submitted and returns the record. Going back from
// the first step returns ErrExited; an interrupt returns ErrAborted.
func (r *Renderer) Run(ctx context.Context, w *wizard.Wizard) (submission.Record, error) {
	if ctx == nil {
		return submission.Record{}, errors.New("tui: context is required")
	}
	def := w.Definition()

	for {
		if err := ctx.Err(); err != nil {
			return submission.Record{}, err
		}
		if rec, ok := w.Record(); ok {
			if err := r.acknowledge(ctx, def, &rec); err != nil {
				return rec, err
			}
			return rec, nil
		}

		snap := w.Snapshot()
		if err := r.info(ctx, "%s Step %d of %d: %s", r.theme.StepPrefix, snap.Step, snap.TotalSteps, snap.StepTitle); err != nil {
			return submission.Record{}, err
		}

		var action string
		var err error
		if snap.Review {
			action, err = r.reviewStep(ctx, w, def)
		} else {
			action, err = r.dataStep(ctx, w, def)
		}
		if err != nil {
			return submission.Record{}, err
		}

		if err := r.apply(ctx, w, def, action); err != nil {
			return submission.Record{}, err
		}
	}
}

// dataStep prompts every visible field and slot of the current step and
// asks what to do next.
func (r *Renderer) dataStep(ctx context.Context, w *wizard.Wizard, def model.Definition) (string, error) {
	if err := r.promptFields(ctx, w, def); err != nil {
		return "", err
	}
	if err := r.promptSlots(ctx, w, def); err != nil {
		return "", err
	}

	back := actionBack
	if w.Step() == 1 {
		back = actionExit
	}
	return r.choose(ctx, "What next?", []string{actionContinue, back})
}

// reviewStep prints the summary, prompts the review step's own fields and
// offers submit, edit or back.
func (r *Renderer) reviewStep(ctx context.Context, w *wizard.Wizard, def model.Definition) (string, error) {
	if err := r.page(ctx, func() (string, error) { return r.pages.Review(def, w.Snapshot()) }); err != nil {
		return "", err
	}
	if err := r.promptFields(ctx, w, def); err != nil {
		return "", err
	}

	actions := []string{actionSubmit}
	if def.Editable {
		for _, step := range def.Steps {
			if !step.Review {
				actions = append(actions, editAction(step))
			}
		}
	}
	actions = append(actions, actionBack)
	return r.choose(ctx, "Ready to submit?", actions)
}

func (r *Renderer) apply(ctx context.Context, w *wizard.Wizard, def model.Definition, action string) error {
	switch action {
	case actionContinue, actionSubmit:
		if action == actionSubmit {
			if err := r.info(ctx, "%s Submitting your application...", r.theme.InfoPrefix); err != nil {
				return err
			}
		}
		_, err := w.Advance(ctx)
		var stepErr *wizard.StepError
		switch {
		case err == nil:
			return nil
		case errors.As(err, &stepErr):
			return r.info(ctx, "%s %s", r.theme.ErrorPrefix, stepErr.Result.Reason)
		case action == actionSubmit:
			r.logger.Warn().Err(err).Str("form", def.ID).Msg("submission failed")
			reason := w.Snapshot().Reason
			if reason == "" {
				reason = err.Error()
			}
			return r.info(ctx, "%s %s", r.theme.ErrorPrefix, reason)
		default:
			return err
		}
	case actionBack, actionExit:
		t, err := w.Retreat()
		if err != nil {
			return err
		}
		if t.Exit {
			return ErrExited
		}
		return nil
	}

	for _, step := range def.Steps {
		if action == editAction(step) {
			return w.BeginEdit(step.Index)
		}
	}
	return fmt.Errorf("tui: unknown action %q", action)
}

// promptFields asks the visible fields of the current step in declaration
// order. Visibility is re-read after every answer so fields revealed by a
// toggle are asked in the same pass.
func (r *Renderer) promptFields(ctx context.Context, w *wizard.Wizard, def model.Definition) error {
	asked := make(map[string]bool)
	for {
		snap := w.Snapshot()
		next := ""
		for _, id := range snap.StepFields {
			if !asked[id] {
				next = id
				break
			}
		}
		if next == "" {
			return nil
		}
		asked[next] = true

		field, ok := def.Field(next)
		if !ok {
			continue
		}
		required := slices.Contains(snap.Required.Fields, next)
		if err := r.promptField(ctx, w, field, required); err != nil {
			return err
		}
	}
}

func (r *Renderer) promptField(ctx context.Context, w *wizard.Wizard, field model.Field, required bool) error {
	label := fieldLabel(field, required)
	current := w.Field(field.ID)

	switch field.Kind {
	case model.FieldKindBool:
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: current.Bool(), Help: field.Help})
		if err != nil {
			return err
		}
		return w.SetField(field.ID, fields.Bool(ok))

	case model.FieldKindChoice:
		options := w.Choices(field.ID)
		if len(options) == 0 {
			return fmt.Errorf("%w: %s", ErrNoChoices, field.ID)
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: max(slices.Index(options, current.Text()), 0),
			Help:         field.Help,
			PageSize:     12,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			return nil
		}
		return w.SetField(field.ID, fields.Choice(options[idx]))
	}

	help := field.Help
	if field.Placeholder != "" && help == "" {
		help = field.Placeholder
	}
	raw, err := r.driver.Input(ctx, InputConfig{Message: label, Default: current.Text(), Help: help})
	if err != nil {
		return err
	}
	return w.SetFieldRaw(field.ID, normalize(field, raw))
}

// promptSlots offers the picker for every visible slot of the current step.
// Slots that already hold files are only re-picked on request.
func (r *Renderer) promptSlots(ctx context.Context, w *wizard.Wizard, def model.Definition) error {
	snap := w.Snapshot()
	for _, id := range snap.StepSlots {
		slot, _ := def.Slot(id)
		label := labelOf(slot.Label, id)
		if files := snap.Slots[id]; len(files) > 0 {
			keep, err := r.driver.Confirm(ctx, ConfirmConfig{
				Message: fmt.Sprintf("%s: %d file(s) attached. Keep them?", label, len(files)),
				Default: true,
			})
			if err != nil {
				return err
			}
			if keep {
				continue
			}
		}

		n, err := w.Pick(ctx, r.picker, id)
		switch {
		case err == nil:
			if err := r.info(ctx, "%s Attached %d file(s) to %s", r.theme.InfoPrefix, n, label); err != nil {
				return err
			}
		case errors.Is(err, ErrAborted), errors.Is(err, context.Canceled):
			return err
		case errors.Is(err, documents.ErrPickerCancelled):
			if err := r.info(ctx, "%s No file selected for %s", r.theme.InfoPrefix, label); err != nil {
				return err
			}
		default:
			if err := r.info(ctx, "%s %s: %v", r.theme.ErrorPrefix, label, err); err != nil {
				return err
			}
		}
	}
	return nil
}

// askPaths is the PathSource of the default picker.
func (r *Renderer) askPaths(ctx context.Context, req documents.Request) ([]string, error) {
	message := fmt.Sprintf("Path to %s", req.Label)
	help := "Leave empty to skip."
	if req.Multiple {
		help = "Separate several files with commas. " + help
	}
	if len(req.Accept) > 0 {
		help += " Accepted: " + strings.Join(req.Accept, ", ")
	}
	raw, err := r.driver.Input(ctx, InputConfig{Message: message, Help: help})
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

func (r *Renderer) acknowledge(ctx context.Context, def model.Definition, rec *submission.Record) error {
	return r.page(ctx, func() (string, error) { return r.pages.Acknowledgement(def, rec) })
}

func (r *Renderer) page(ctx context.Context, fn func() (string, error)) error {
	out, err := fn()
	if err != nil {
		return err
	}
	return r.driver.Info(ctx, strings.TrimRight(out, "\n"))
}

func (r *Renderer) choose(ctx context.Context, message string, actions []string) (string, error) {
	idx, err := r.driver.Select(ctx, SelectConfig{Message: message, Options: actions})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(actions) {
		return actions[0], nil
	}
	return actions[idx], nil
}

func (r *Renderer) info(ctx context.Context, format string, args ...any) error {
	return r.driver.Info(ctx, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func editAction(step model.Step) string {
	return fmt.Sprintf("Edit step %d: %s", step.Index, step.Title)
}

// normalize reformats date and time input typed as bare digits.
func normalize(field model.Field, raw string) string {
	raw = strings.TrimSpace(raw)
	for _, rule := range field.Rules {
		switch rule.Kind {
		case model.RuleDate:
			return fields.FormatDate(raw)
		case model.RuleTime:
			return fields.FormatTime(raw)
		}
	}
	return raw
}

func fieldLabel(field model.Field, required bool) string {
	label := labelOf(field.Label, field.ID)
	if required {
		label += " *"
	}
	return label
}

func labelOf(label, id string) string {
	if label != "" {
		return label
	}
	return id
}
