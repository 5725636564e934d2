package contact

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Messages shown next to invalid fields.
const (
	MsgNameRequired    = "Name is required."
	MsgEmailRequired   = "Email is required."
	MsgEmailInvalid    = "Invalid email format."
	MsgMessageRequired = "Message is required."
)

// notSpaceOrAt is the regexp class of runes that are neither "@" nor
// matched by isSpace.
const notSpaceOrAt = `[^\t\n\v\f\r\p{Zs}\x{FEFF}\x{2028}\x{2029}@]`

// emailShape is a coarse structural check: something, "@", something, ".",
// something, with no whitespace or extra "@" anywhere. It is not RFC 5322.
var emailShape = regexp.MustCompile(`^` + notSpaceOrAt + `+@` + notSpaceOrAt + `+\.` + notSpaceOrAt + `+$`)

var messages = map[Field]map[string]string{
	FieldName:    {"notblank": MsgNameRequired},
	FieldEmail:   {"notblank": MsgEmailRequired, "emailshape": MsgEmailInvalid},
	FieldMessage: {"notblank": MsgMessageRequired},
}

// Validator checks a FormState and reports per-field errors.
// A Validator is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a Validator with the contact form rules registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails on an empty tag name or nil func.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return !isBlank(fl.Field().String())
	})
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Validate returns an ErrorState holding an entry for every field that fails
// its rules. Every field is checked; within a field the first failing rule wins.
func (v *Validator) Validate(s FormState) ErrorState {
	errs := ErrorState{}
	err := v.validate.Struct(s)
	if err == nil {
		return errs
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only InvalidValidationError, which a FormState value cannot trigger.
		return errs
	}
	for _, fe := range fieldErrs {
		field := Field(fe.Field())
		if msg, ok := messages[field][fe.Tag()]; ok && !errs.Has(field) {
			errs[field] = msg
		}
	}
	return errs
}

var defaultValidator = NewValidator()

// Validate checks s with the package default Validator.
func Validate(s FormState) ErrorState {
	return defaultValidator.Validate(s)
}

// isSpace reports whether r is whitespace as browsers trim form input:
// \t \n \v \f \r, the Zs space separators, U+2028, U+2029 and the byte
// order mark. U+0085 is not whitespace here.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\uFEFF', '\u2028', '\u2029':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

func isBlank(s string) bool {
	return trimSpace(s) == ""
}
