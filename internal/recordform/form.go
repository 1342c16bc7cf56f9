package recordform

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/alexanderramin/estatedesk/internal/domain"
	"github.com/alexanderramin/estatedesk/internal/listview"
	"github.com/alexanderramin/estatedesk/internal/notify"
	"github.com/alexanderramin/estatedesk/internal/storage"
)

// ErrInvalid is returned by Submit when validation fails.
var ErrInvalid = errors.New("form is invalid")

// Backend persists submitted forms.
type Backend interface {
	Create(ctx context.Context, payload map[string]any) error
	Update(ctx context.Context, id string, diff map[string]any) error
}

// SlotUploader stores picture slots and returns the resulting list. Delete
// removes a stored picture that no slot references any more.
type SlotUploader interface {
	UploadSlots(ctx context.Context, slots []storage.Slot) ([]*string, int)
	Delete(ctx context.Context, nameOrURL string) error
}

// Mode is create or edit.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Outcome is the result of a Submit.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeCreated
	OutcomeUpdated
	OutcomeNoChanges
	OutcomeInvalid
	OutcomeFailed
)

// Form is one open create or edit form.
type Form struct {
	schema   Schema
	mode     Mode
	id       string
	original Values
	values   Values
	slots    []storage.Slot
	// stale holds stored pictures replaced or cleared since the last
	// successful submit.
	stale []string

	backend  Backend
	uploader SlotUploader
	notifier notify.Notifier

	errs    FieldErrors
	message string
}

// NewCreate opens an empty create form.
func NewCreate(schema Schema, backend Backend, notifier notify.Notifier) *Form {
	return &Form{
		schema:   schema,
		mode:     ModeCreate,
		values:   schema.Defaults(),
		backend:  backend,
		notifier: notify.OrDiscard(notifier),
	}
}

// NewEdit opens a form seeded from record.
func NewEdit(schema Schema, backend Backend, notifier notify.Notifier, id string, record any) (*Form, error) {
	values, err := schema.ValuesFrom(record)
	if err != nil {
		return nil, err
	}
	f := &Form{
		schema:   schema,
		mode:     ModeEdit,
		id:       id,
		original: values.Clone(),
		values:   values,
		backend:  backend,
		notifier: notify.OrDiscard(notifier),
	}
	if schema.Pictures != "" {
		if pics, ok := values[schema.Pictures].([]any); ok {
			for _, p := range pics {
				s, _ := p.(string)
				f.slots = append(f.slots, storage.Slot{Existing: s})
			}
		}
	}
	return f, nil
}

// WithUploader enables picture slots.
func (f *Form) WithUploader(u SlotUploader) *Form {
	f.uploader = u
	return f
}

func (f *Form) Schema() Schema { return f.schema }
func (f *Form) Mode() Mode     { return f.mode }
func (f *Form) ID() string     { return f.id }

// Values returns a copy of the current values.
func (f *Form) Values() Values { return f.values.Clone() }

// Errors returns the field errors of the last submit.
func (f *Form) Errors() FieldErrors { return f.errs }

// Message returns the user-facing text of the last submit.
func (f *Form) Message() string { return f.message }

// Set changes one field. Computed fields cannot be set and are refreshed
// after every change.
func (f *Form) Set(key string, value any) error {
	field, ok := f.schema.Field(key)
	if !ok {
		return fmt.Errorf("unknown field %q", key)
	}
	if field.Kind == KindComputed {
		return fmt.Errorf("%s is computed", field.Label)
	}
	if s, ok := value.([]string); ok {
		value = slices.Clone(s)
	}
	f.values[key] = value
	f.schema.Recompute(f.values)
	return nil
}

// SetInput parses text input for a field and sets it.
func (f *Form) SetInput(key, input string) error {
	field, ok := f.schema.Field(key)
	if !ok {
		return fmt.Errorf("unknown field %q", key)
	}
	return f.Set(key, field.ParseInput(input))
}

// SetPicture puts a new file in slot i, growing the slot list as needed.
func (f *Form) SetPicture(i int, file storage.File) error {
	if f.schema.Pictures == "" {
		return fmt.Errorf("%s has no pictures", f.schema.Entity.Singular)
	}
	if i < 0 || i >= domain.MaxPictures {
		return fmt.Errorf("picture slot %d out of range", i+1)
	}
	for len(f.slots) <= i {
		f.slots = append(f.slots, storage.Slot{})
	}
	f.retire(i)
	f.slots[i] = storage.Slot{File: &file}
	return nil
}

// ClearPicture empties slot i. A stored picture in the slot is removed
// from storage once the form is saved.
func (f *Form) ClearPicture(i int) error {
	if f.schema.Pictures == "" {
		return fmt.Errorf("%s has no pictures", f.schema.Entity.Singular)
	}
	if i < 0 || i >= domain.MaxPictures {
		return fmt.Errorf("picture slot %d out of range", i+1)
	}
	if i < len(f.slots) {
		f.retire(i)
		f.slots[i] = storage.Slot{}
	}
	return nil
}

func (f *Form) retire(i int) {
	if old := f.slots[i].Existing; old != "" && !slices.Contains(f.stale, old) {
		f.stale = append(f.stale, old)
	}
}

// Slots returns the picture slots.
func (f *Form) Slots() []storage.Slot { return slices.Clone(f.slots) }

// Submit validates and sends the form. Edit sends only changed fields and
// skips the call entirely when nothing changed. Failures keep the form
// values so the user can retry.
func (f *Form) Submit(ctx context.Context) (Outcome, error) {
	f.errs, f.message = nil, ""
	if errs := f.schema.Validate(f.values); errs != nil {
		f.errs = errs
		f.message = errs.Error()
		return OutcomeInvalid, fmt.Errorf("%w: %v", ErrInvalid, errs)
	}

	if err := f.uploadPictures(ctx); err != nil {
		return f.fail(err)
	}

	switch f.mode {
	case ModeEdit:
		diff := listview.ComputeDiff(f.original, f.payload(true))
		if len(diff) == 0 {
			f.message = NoChangesMessage
			notify.Info(f.notifier, NoChangesMessage)
			return OutcomeNoChanges, nil
		}
		if err := f.backend.Update(ctx, f.id, diff); err != nil {
			return f.fail(err)
		}
		f.removeStale(ctx)
		f.original = f.values.Clone()
		f.message = SuccessMessage(ActionUpdate, f.schema.Entity.Singular)
		notify.Success(f.notifier, f.message)
		return OutcomeUpdated, nil
	default:
		if err := f.backend.Create(ctx, f.payload(false)); err != nil {
			return f.fail(err)
		}
		f.removeStale(ctx)
		f.values = f.schema.Defaults()
		f.slots = nil
		f.message = SuccessMessage(ActionAdd, f.schema.Entity.Singular)
		notify.Success(f.notifier, f.message)
		return OutcomeCreated, nil
	}
}

func (f *Form) fail(err error) (Outcome, error) {
	action := ActionAdd
	if f.mode == ModeEdit {
		action = ActionUpdate
	}
	f.message = UserMessage(err, action, f.schema.Entity.Singular)
	notify.Error(f.notifier, f.message)
	return OutcomeFailed, err
}

// uploadPictures stores new files and records the picture list. Slots
// whose upload fails become null.
func (f *Form) uploadPictures(ctx context.Context) error {
	if f.schema.Pictures == "" || f.uploader == nil || len(f.slots) == 0 {
		return nil
	}
	changed := len(f.stale) > 0
	for _, s := range f.slots {
		if s.File != nil {
			changed = true
		}
	}
	if !changed && f.mode == ModeEdit {
		return nil
	}
	pics, failed := f.uploader.UploadSlots(ctx, f.slots)
	list := make([]any, len(pics))
	for i, p := range pics {
		if p != nil {
			list[i] = *p
			f.slots[i] = storage.Slot{Existing: *p}
		} else {
			f.slots[i] = storage.Slot{}
		}
	}
	f.values[f.schema.Pictures] = list
	if failed > 0 {
		notify.Error(f.notifier, fmt.Sprintf("%d picture(s) failed to upload and were skipped.", failed))
	}
	return nil
}

// removeStale deletes pictures the saved record no longer references.
// Storage failures do not undo the save.
func (f *Form) removeStale(ctx context.Context) {
	if f.uploader == nil || len(f.stale) == 0 {
		return
	}
	failed := 0
	for _, u := range f.stale {
		if slices.ContainsFunc(f.slots, func(s storage.Slot) bool { return s.Existing == u }) {
			continue
		}
		if err := f.uploader.Delete(ctx, u); err != nil {
			failed++
		}
	}
	f.stale = nil
	if failed > 0 {
		notify.Error(f.notifier, fmt.Sprintf("%d old picture(s) could not be removed from storage.", failed))
	}
}

// payload is the full record body with numeric text converted. Blank
// values are dropped unless keepBlank, which edits need to clear a field.
func (f *Form) payload(keepBlank bool) map[string]any {
	out := map[string]any{}
	for _, field := range f.schema.Fields {
		val := f.values[field.Key]
		switch field.Kind {
		case KindNumber, KindComputed:
			if n, ok := number(val); ok {
				out[field.Key] = n
			} else if keepBlank {
				out[field.Key] = nil
			}
		case KindMulti:
			out[field.Key] = toStrings(val)
		default:
			if s, _ := val.(string); s != "" || keepBlank {
				out[field.Key] = s
			}
		}
	}
	if f.schema.Pictures != "" {
		if pics, ok := f.values[f.schema.Pictures]; ok && pics != nil {
			out[f.schema.Pictures] = pics
		}
	}
	return out
}
