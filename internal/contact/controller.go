package contact

// HandleEdit stores value under field and drops that field's error. Errors on
// other fields are left alone until the next submit. The passed form is not
// modified.
func HandleEdit(f Form, field Field, value string) (Form, error) {
	next := f.clone()
	if err := next.Values.Set(field, value); err != nil {
		return f, err
	}
	delete(next.Errors, field)
	return next, nil
}

// HandleSubmit validates the form with the default Validator. It reports
// accepted when there were no errors; values are kept either way.
func HandleSubmit(f Form) (Form, bool) {
	return submit(f, defaultValidator, false)
}

func submit(f Form, v *Validator, reset bool) (Form, bool) {
	next := f.clone()
	errs := v.Validate(next.Values)
	if !errs.Empty() {
		next.Errors = errs
		next.Status = Rejected
		return next, false
	}
	next.Errors = ErrorState{}
	next.Status = Editing
	if reset {
		next.Values = FormState{}
	}
	return next, true
}

// Option configures a Controller.
type Option func(*Controller)

// WithValidator swaps the Validator used on submit.
func WithValidator(v *Validator) Option {
	return func(c *Controller) {
		if v != nil {
			c.validator = v
		}
	}
}

// WithResetOnAccept clears the values after an accepted submit.
func WithResetOnAccept() Option {
	return func(c *Controller) {
		c.resetOnAccept = true
	}
}

// Controller binds a Validator and submit policy to the form transitions.
// It holds no form state of its own and may be shared between requests.
type Controller struct {
	validator     *Validator
	resetOnAccept bool
}

// NewController returns a Controller using the default Validator.
func NewController(opts ...Option) *Controller {
	c := &Controller{validator: defaultValidator}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Edit applies an input change. See HandleEdit.
func (c *Controller) Edit(f Form, field Field, value string) (Form, error) {
	return HandleEdit(f, field, value)
}

// Submit applies a submit attempt. See HandleSubmit.
func (c *Controller) Submit(f Form) (Form, bool) {
	return submit(f, c.validator, c.resetOnAccept)
}

// ResetsOnAccept reports whether accepted submits clear the values.
func (c *Controller) ResetsOnAccept() bool {
	return c.resetOnAccept
}
