// Package contact holds the contact form: its values, its per-field
// validation errors and the edit/submit transitions that move between them.
// Nothing in here knows about HTTP; the site host decodes requests into a
// Form, runs a transition and renders whatever comes back.
package contact

import (
	"errors"
	"fmt"
)

// Field names one of the contact form inputs.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldMessage Field = "message"
)

// Fields lists every form field in display order.
var Fields = []Field{FieldName, FieldEmail, FieldMessage}

// ErrUnknownField is returned when an edit targets a field the form does not have.
var ErrUnknownField = errors.New("contact: unknown field")

// ParseField maps an input name onto a Field.
func ParseField(s string) (Field, error) {
	switch f := Field(s); f {
	case FieldName, FieldEmail, FieldMessage:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// FormState is the current value of every form input. The zero value is the
// initial, all-empty state.
type FormState struct {
	Name    string `form:"name" json:"name" validate:"notblank"`
	Email   string `form:"email" json:"email" validate:"notblank,emailshape"`
	Message string `form:"message" json:"message" validate:"notblank"`
}

// Get returns the value held for field. Unknown fields read as empty.
func (s FormState) Get(field Field) string {
	switch field {
	case FieldName:
		return s.Name
	case FieldEmail:
		return s.Email
	case FieldMessage:
		return s.Message
	}
	return ""
}

// Set stores value under field.
func (s *FormState) Set(field Field, value string) error {
	switch field {
	case FieldName:
		s.Name = value
	case FieldEmail:
		s.Email = value
	case FieldMessage:
		s.Message = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// ErrorState maps a field to its validation message. A missing key means the
// field has no error.
type ErrorState map[Field]string

// Get returns the message for field, or "" when there is none.
func (e ErrorState) Get(field Field) string {
	return e[field]
}

// Has reports whether field currently has an error.
func (e ErrorState) Has(field Field) bool {
	_, ok := e[field]
	return ok
}

// Empty reports whether no field has an error.
func (e ErrorState) Empty() bool {
	return len(e) == 0
}

// Set records message for field. Empty messages clear the entry so that
// "absent" and "no error" stay the same thing.
func (e ErrorState) Set(field Field, message string) error {
	if _, err := ParseField(string(field)); err != nil {
		return err
	}
	if message == "" {
		delete(e, field)
		return nil
	}
	e[field] = message
	return nil
}

// Clone returns an independent copy.
func (e ErrorState) Clone() ErrorState {
	out := make(ErrorState, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Status is the observable state of a Form.
type Status int

const (
	// Editing is the initial state and the state after an accepted submit.
	Editing Status = iota
	// Rejected means the last submit failed validation and Errors explains why.
	Rejected
)

func (s Status) String() string {
	switch s {
	case Editing:
		return "editing"
	case Rejected:
		return "rejected"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Form is one rendered instance of the contact form.
type Form struct {
	Values FormState
	Errors ErrorState
	Status Status
}

// NewForm returns a form in the Editing state with empty values and no errors.
func NewForm() Form {
	return Form{Errors: ErrorState{}}
}

func (f Form) clone() Form {
	out := f
	out.Errors = f.Errors.Clone()
	return out
}
