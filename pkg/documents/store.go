package documents

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// SlotID identifies a declared document slot.
type SlotID string

// Store tracks the descriptors attached to each declared slot. It is not
// safe for concurrent use; the wizard serializes access.
type Store struct {
	decls map[SlotID]model.Slot
	order []SlotID
	files map[SlotID][]Descriptor
}

// NewStore creates an empty store for the given slot declarations.
func NewStore(decls []model.Slot) *Store {
	s := &Store{
		decls: make(map[SlotID]model.Slot, len(decls)),
		files: make(map[SlotID][]Descriptor, len(decls)),
	}
	for _, d := range decls {
		id := SlotID(d.ID)
		if _, dup := s.decls[id]; dup {
			continue
		}
		s.decls[id] = d
		s.order = append(s.order, id)
	}
	return s
}

// Declaration returns the slot declaration for id.
func (s *Store) Declaration(id SlotID) (model.Slot, bool) {
	d, ok := s.decls[id]
	return d, ok
}

// IDs returns slot identifiers in declaration order.
func (s *Store) IDs() []SlotID {
	return append([]SlotID(nil), s.order...)
}

// Attach stores d in the slot: single-file slots replace any existing
// descriptor, multi-file slots append. Oversized or unaccepted files are
// rejected and the slot is left unchanged.
func (s *Store) Attach(id SlotID, d Descriptor) error {
	decl, ok := s.decls[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, id)
	}
	d, err := admit(decl, d)
	if err != nil {
		return err
	}
	if decl.Multiple {
		s.files[id] = append(s.files[id], d)
	} else {
		s.files[id] = []Descriptor{d}
	}
	return nil
}

func admit(decl model.Slot, d Descriptor) (Descriptor, error) {
	if d.SizeBytes != nil && decl.MaxBytes > 0 && *d.SizeBytes > decl.MaxBytes {
		return d, fmt.Errorf("%w: %s is %s, %s allows at most %s",
			ErrFileTooLarge, d.Name, HumanSize(*d.SizeBytes), decl.Label, HumanSize(decl.MaxBytes))
	}
	if d.ContentType == "" {
		d.ContentType = ContentTypeOf(d.Name)
	}
	if !Accepts(decl.Accept, d.ContentType) {
		return d, fmt.Errorf("%w: %s (%s) is not accepted by %s", ErrUnsupportedType, d.Name, d.ContentType, decl.Label)
	}
	return d, nil
}

// Detach removes descriptors. Single-file slots are cleared. Multi-file slots
// lose the descriptor at index, or everything when index is nil.
func (s *Store) Detach(id SlotID, index *int) error {
	decl, ok := s.decls[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, id)
	}
	current := s.files[id]
	if !decl.Multiple || index == nil {
		delete(s.files, id)
		return nil
	}
	i := *index
	if i < 0 || i >= len(current) {
		return fmt.Errorf("%w: %d of %d in %q", ErrIndexOutOfRange, i, len(current), id)
	}
	next := append(append([]Descriptor(nil), current[:i]...), current[i+1:]...)
	if len(next) == 0 {
		delete(s.files, id)
		return nil
	}
	s.files[id] = next
	return nil
}

// IsFilled reports whether the slot holds at least one descriptor.
func (s *Store) IsFilled(id SlotID) bool {
	return len(s.files[id]) > 0
}

// Files returns a copy of the descriptors attached to id.
func (s *Store) Files(id SlotID) []Descriptor {
	return append([]Descriptor(nil), s.files[id]...)
}

// Snapshot returns a copy of every filled slot.
func (s *Store) Snapshot() map[SlotID][]Descriptor {
	out := make(map[SlotID][]Descriptor, len(s.files))
	for id, files := range s.files {
		out[id] = append([]Descriptor(nil), files...)
	}
	return out
}

// Reset clears every slot.
func (s *Store) Reset() {
	s.files = make(map[SlotID][]Descriptor, len(s.decls))
}

// RequestFor builds the picker request matching a slot declaration.
func (s *Store) RequestFor(id SlotID) (Request, error) {
	decl, ok := s.decls[id]
	if !ok {
		return Request{}, fmt.Errorf("%w: %q", ErrUnknownSlot, id)
	}
	return Request{
		Slot:         id,
		Label:        decl.Label,
		Accept:       append([]string(nil), decl.Accept...),
		Multiple:     decl.Multiple,
		MediaLibrary: decl.MediaLibrary,
		MaxBytes:     decl.MaxBytes,
	}, nil
}

// Pick invokes picker with req and normalizes its outcome: a nil or empty
// result and an explicit cancellation both yield ErrPickerCancelled, any
// other error is wrapped in ErrPickerFailed. Single-file requests keep only
// the first descriptor.
func Pick(ctx context.Context, picker Picker, req Request) ([]Descriptor, error) {
	picked, err := picker.Pick(ctx, req)
	switch {
	case errors.Is(err, ErrPickerCancelled):
		return nil, ErrPickerCancelled
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrPickerFailed, err)
	case len(picked) == 0:
		return nil, ErrPickerCancelled
	}
	if !req.Multiple {
		picked = picked[:1]
	}
	return picked, nil
}

// AttachAll checks every descriptor before storing any, so a rejected file
// leaves the slot as it was.
func (s *Store) AttachAll(id SlotID, files []Descriptor) error {
	decl, ok := s.decls[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, id)
	}
	admitted := make([]Descriptor, 0, len(files))
	for _, d := range files {
		d, err := admit(decl, d)
		if err != nil {
			return err
		}
		admitted = append(admitted, d)
	}
	if !decl.Multiple && len(admitted) > 1 {
		admitted = admitted[len(admitted)-1:]
	}
	for _, d := range admitted {
		if decl.Multiple {
			s.files[id] = append(s.files[id], d)
		} else {
			s.files[id] = []Descriptor{d}
		}
	}
	return nil
}

// AttachPicked invokes picker for the slot and attaches the result. It
// returns the number of descriptors attached.
func (s *Store) AttachPicked(ctx context.Context, picker Picker, id SlotID) (int, error) {
	req, err := s.RequestFor(id)
	if err != nil {
		return 0, err
	}
	picked, err := Pick(ctx, picker, req)
	if err != nil {
		return 0, err
	}
	if err := s.AttachAll(id, picked); err != nil {
		return 0, err
	}
	return len(picked), nil
}
