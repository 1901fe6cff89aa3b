package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formwizard/pkg/documents"
	"github.com/goliatone/go-formwizard/pkg/fields"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/requirements"
	"github.com/goliatone/go-formwizard/pkg/submission"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// Transition describes the outcome of Advance or Retreat.
type Transition struct {
	From      int                `json:"from"`
	To        int                `json:"to"`
	Exit      bool               `json:"exit,omitempty"`
	Submitted bool               `json:"submitted,omitempty"`
	Record    *submission.Record `json:"record,omitempty"`
}

// Wizard is the controller for one form instance. All methods are safe for
// concurrent use; the lock is released while a submission or a file pick is
// outstanding.
type Wizard struct {
	def       model.Definition
	engine    *requirements.Engine
	validator *validation.Validator
	submitter Submitter
	observers Observers
	logger    zerolog.Logger
	id        string
	keyFunc   func() string

	engineOpts    []requirements.Option
	validatorOpts []validation.Option
	fieldOpts     []fields.Option

	mu         sync.Mutex
	fields     *fields.Store
	slots      *documents.Store
	step       int
	editing    bool
	submitting bool
	record     *submission.Record
	reason     string
	key        string
}

// New creates a wizard positioned at step 1.
func New(def model.Definition, opts ...Option) *Wizard {
	w := &Wizard{
		def:     def,
		logger:  zerolog.Nop(),
		keyFunc: submission.NewIdempotencyKey,
		step:    1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	w.logger = w.logger.With().Str("form", def.ID).Str("wizard", w.id).Logger()

	engineOpts := append([]requirements.Option{requirements.WithLogger(w.logger)}, w.engineOpts...)
	w.engine = requirements.New(def, engineOpts...)
	validatorOpts := append([]validation.Option{validation.WithLogger(w.logger)}, w.validatorOpts...)
	w.validator = validation.New(def, w.engine, validatorOpts...)
	if len(w.observers) == 0 {
		w.observers = Observers{NopObserver{}}
	}
	w.fields = fields.NewStore(def.Fields, w.fieldOpts...)
	w.slots = documents.NewStore(def.Slots)
	return w
}

// Definition returns the form definition the wizard runs.
func (w *Wizard) Definition() model.Definition { return w.def }

// ID returns the label given with WithID.
func (w *Wizard) ID() string { return w.id }

// Step returns the current step index.
func (w *Wizard) Step() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Submitted reports whether the terminal state was reached.
func (w *Wizard) Submitted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.record != nil
}

// writable must be called with the lock held.
func (w *Wizard) writable() error {
	switch {
	case w.record != nil:
		return ErrSubmitted
	case w.submitting:
		return ErrSubmissionInProgress
	}
	return nil
}

// Advance validates the current step. On success it moves to the next step,
// returns to review when editing, or submits from the last step. On failure
// the wizard stays put and the returned *StepError carries the reason.
func (w *Wizard) Advance(ctx context.Context) (Transition, error) {
	w.mu.Lock()
	if err := w.writable(); err != nil {
		w.mu.Unlock()
		return Transition{}, err
	}
	from := w.step
	res := w.validator.ValidateStep(from, w.fields, w.slots)
	if !res.OK {
		w.reason = res.Reason
		w.mu.Unlock()
		w.logger.Debug().Int("step", from).Str("code", res.Code).Str("target", res.Target).Msg("step rejected")
		w.observers.StepFailed(w.def.ID, from, res)
		return Transition{From: from, To: from}, &StepError{Step: from, Result: res}
	}
	w.reason = ""

	if from == w.def.TotalSteps() {
		w.mu.Unlock()
		rec, err := w.Submit(ctx)
		if err != nil {
			return Transition{From: from, To: from}, err
		}
		return Transition{From: from, To: from, Submitted: true, Record: &rec}, nil
	}

	to := from + 1
	if w.editing {
		to = w.def.ReviewStep()
		w.editing = false
	}
	w.step = to
	w.mu.Unlock()

	w.logger.Debug().Int("from", from).Int("to", to).Msg("step advanced")
	w.observers.StepAdvanced(w.def.ID, from, to)
	return Transition{From: from, To: to}, nil
}

// Retreat moves back one step. At step 1 it reports Exit and leaves the
// state untouched; the host decides whether to discard the wizard.
func (w *Wizard) Retreat() (Transition, error) {
	w.mu.Lock()
	if err := w.writable(); err != nil {
		w.mu.Unlock()
		return Transition{}, err
	}
	from := w.step
	t := Transition{From: from, To: from - 1}
	if from == 1 {
		t = Transition{From: 1, To: 1, Exit: true}
	} else {
		w.step = t.To
		w.reason = ""
	}
	w.mu.Unlock()

	w.observers.StepRetreated(w.def.ID, t.From, t.To, t.Exit)
	return t, nil
}

// BeginEdit jumps from the review step back to step so the user can correct
// it. The next successful advance returns to review.
func (w *Wizard) BeginEdit(step int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writable(); err != nil {
		return err
	}
	review := w.def.ReviewStep()
	switch {
	case !w.def.Editable:
		return ErrNotEditable
	case w.step != review:
		return ErrNotAtReview
	case step < 1 || step >= review:
		return fmt.Errorf("%w: %d not in 1..%d", ErrInvalidStep, step, review-1)
	}
	w.step = step
	w.editing = true
	w.reason = ""
	return nil
}

// SetField replaces a field value.
func (w *Wizard) SetField(id string, v fields.Value) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writable(); err != nil {
		return err
	}
	return w.fields.Set(fields.FieldID(id), v)
}

// SetFieldRaw parses raw according to the field's kind and stores it.
func (w *Wizard) SetFieldRaw(id, raw string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writable(); err != nil {
		return err
	}
	decl, ok := w.fields.Declaration(fields.FieldID(id))
	if !ok {
		return fmt.Errorf("%w: %q", fields.ErrUnknownField, id)
	}
	v, err := fields.Parse(decl, raw)
	if err != nil {
		return err
	}
	return w.fields.Set(fields.FieldID(id), v)
}

// Field returns the current value of a field.
func (w *Wizard) Field(id string) fields.Value {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fields.Get(fields.FieldID(id))
}

// Choices returns the options of a choice field.
func (w *Wizard) Choices(id string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fields.Choices(fields.FieldID(id))
}

// Toggle flips a boolean field.
func (w *Wizard) Toggle(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writable(); err != nil {
		return err
	}
	return w.fields.Toggle(fields.FieldID(id))
}

// Attach stores a descriptor in a slot.
func (w *Wizard) Attach(slot string, d documents.Descriptor) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writable(); err != nil {
		return err
	}
	return w.slots.Attach(documents.SlotID(slot), d)
}

// Detach removes descriptors from a slot; see documents.Store.Detach.
func (w *Wizard) Detach(slot string, index *int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writable(); err != nil {
		return err
	}
	return w.slots.Detach(documents.SlotID(slot), index)
}

// Files returns the descriptors attached to a slot.
func (w *Wizard) Files(slot string) []documents.Descriptor {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.slots.Files(documents.SlotID(slot))
}

// Pick asks picker for files and attaches them. A cancelled pick changes
// nothing and reports documents.ErrPickerCancelled.
func (w *Wizard) Pick(ctx context.Context, picker documents.Picker, slot string) (int, error) {
	w.mu.Lock()
	if err := w.writable(); err != nil {
		w.mu.Unlock()
		return 0, err
	}
	req, err := w.slots.RequestFor(documents.SlotID(slot))
	w.mu.Unlock()
	if err != nil {
		return 0, err
	}

	picked, err := documents.Pick(ctx, picker, req)
	if err != nil {
		return 0, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writable(); err != nil {
		return 0, err
	}
	if err := w.slots.AttachAll(req.Slot, picked); err != nil {
		return 0, err
	}
	return len(picked), nil
}

// Submit sends the form from the last step once every step validates. The
// idempotency key is fixed on the first attempt so a retry after a failure
// cannot create a second record.
func (w *Wizard) Submit(ctx context.Context) (submission.Record, error) {
	w.mu.Lock()
	if err := w.writable(); err != nil {
		w.mu.Unlock()
		return submission.Record{}, err
	}
	last := w.def.TotalSteps()
	switch {
	case w.submitter == nil:
		w.mu.Unlock()
		return submission.Record{}, ErrNoSubmitter
	case w.step != last:
		w.mu.Unlock()
		return submission.Record{}, fmt.Errorf("%w: at step %d of %d", ErrNotAtFinalStep, w.step, last)
	}
	if step, res := w.validator.ValidateThrough(last, w.fields, w.slots); !res.OK {
		w.reason = res.Reason
		w.mu.Unlock()
		w.observers.StepFailed(w.def.ID, step, res)
		return submission.Record{}, &StepError{Step: step, Result: res}
	}
	if w.key == "" {
		w.key = w.keyFunc()
	}
	req := submission.Request{
		FormID:         w.def.ID,
		Prefix:         w.def.Prefix,
		IdempotencyKey: w.key,
		Payload:        w.fields.Nested(),
		Files:          w.files(),
	}
	w.submitting = true
	w.mu.Unlock()

	w.observers.SubmissionStarted(w.def.ID)
	started := time.Now()
	rec, err := w.submitter.Submit(ctx, req)
	elapsed := time.Since(started)

	w.mu.Lock()
	w.submitting = false
	if err != nil {
		w.reason = submissionReason(err)
	} else {
		w.record = &rec
		w.editing = false
		w.reason = ""
	}
	w.mu.Unlock()

	w.observers.SubmissionFinished(w.def.ID, rec, err, elapsed)
	if err != nil {
		w.logger.Warn().Err(err).Dur("elapsed", elapsed).Msg("submission failed")
		return submission.Record{}, err
	}
	w.logger.Info().Str("reference_id", rec.ReferenceID).Dur("elapsed", elapsed).Msg("form submitted")
	return rec, nil
}

// submissionReason picks the user notice for a failed submit. Only
// transient failures invite a retry.
func submissionReason(err error) string {
	switch {
	case errors.Is(err, submission.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "The service did not respond in time, please try again"
	case errors.Is(err, submission.ErrUnavailable):
		return "The service is unavailable, please try again"
	case errors.Is(err, submission.ErrNotAuthenticated):
		return "Please sign in to submit your application"
	case errors.Is(err, submission.ErrInvalidPayload):
		return "Some answers were not accepted, please review the form"
	case errors.Is(err, submission.ErrRejected):
		return "Your application was rejected"
	case errors.Is(err, submission.ErrSubmissionInProgress):
		return "Your application is already being submitted"
	case errors.Is(err, context.Canceled):
		return "Submission was cancelled"
	default:
		return "Submission failed"
	}
}

func (w *Wizard) files() map[string][]documents.Descriptor {
	snap := w.slots.Snapshot()
	out := make(map[string][]documents.Descriptor, len(snap))
	for id, files := range snap {
		out[string(id)] = files
	}
	return out
}

// Record returns the submission record once submitted.
func (w *Wizard) Record() (submission.Record, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.record == nil {
		return submission.Record{}, false
	}
	return *w.record, true
}

// Reset discards every value, attachment and the submission record and
// returns to step 1. It fails while a submission is outstanding.
func (w *Wizard) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitting {
		return ErrSubmissionInProgress
	}
	w.fields.Reset()
	w.slots.Reset()
	w.step = 1
	w.editing = false
	w.record = nil
	w.reason = ""
	w.key = ""
	return nil
}
