package apply

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Submission is the validated hand-off produced by a successful Submit.
type Submission struct {
	ID          string    `json:"id"`
	Form        string    `json:"form"`
	SubmittedAt time.Time `json:"submitted_at"`
	Values      FormState `json:"values"`
}

// Listener receives the submission emitted by Controller.Submit.
type Listener func(Submission)

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithListener registers the receiver of the submitted snapshot.
func WithListener(fn Listener) ControllerOption {
	return func(c *Controller) { c.listener = fn }
}

// WithClock overrides the time source used to stamp submissions.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) { c.now = now }
}

// Controller drives one wizard session: it owns the step index, the
// accumulated FormState and the errors of the last failed transition.
//
// A Controller has exactly one writer and is not safe for concurrent use.
type Controller struct {
	def       Definition
	index     int
	form      FormState
	errors    Result
	submitted bool

	listener Listener
	now      func() time.Time
}

// NewController starts a session at step 0 with an empty form. The
// definition must pass Check.
func NewController(def Definition, opts ...ControllerOption) (*Controller, error) {
	if err := def.Check(); err != nil {
		return nil, fmt.Errorf("invalid definition: %w", err)
	}
	c := &Controller{
		def:    def,
		form:   FormState{},
		errors: Result{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Definition returns the wizard definition being driven.
func (c *Controller) Definition() Definition { return c.def }

// Index returns the current step index.
func (c *Controller) Index() int { return c.index }

// Total returns the number of steps.
func (c *Controller) Total() int { return c.def.Total() }

// Step returns the current step.
func (c *Controller) Step() Step { return c.def.Steps[c.index] }

// IsLast reports whether the wizard sits at its terminal step.
func (c *Controller) IsLast() bool { return c.index == c.def.Total()-1 }

// Submitted reports whether the session has been submitted.
func (c *Controller) Submitted() bool { return c.submitted }

// Progress returns the completion percentage (0-100).
func (c *Controller) Progress() int { return c.def.Progress(c.index, c.submitted) }

// Errors returns the errors from the last failed Next or Submit.
func (c *Controller) Errors() Result {
	out := make(Result, len(c.errors))
	for k, v := range c.errors {
		out[k] = v
	}
	return out
}

// Value returns the current value of a field.
func (c *Controller) Value(name string) (Value, bool) {
	v, ok := c.form[name]
	return v, ok
}

// Snapshot returns a copy of the form state.
func (c *Controller) Snapshot() FormState { return c.form.Clone() }

// Update merges a single value into the form. It does not validate; an
// error shown for the field is cleared since it no longer describes the
// value. Unknown field names are rejected.
func (c *Controller) Update(name string, v Value) error {
	if _, ok := c.def.Field(name); !ok {
		return FieldError{Field: name, Message: "unknown field"}
	}
	if c.submitted {
		return nil
	}
	c.form[name] = v
	delete(c.errors, name)
	return nil
}

// Clear removes a field's value from the form.
func (c *Controller) Clear(name string) {
	if c.submitted {
		return
	}
	delete(c.form, name)
	delete(c.errors, name)
}

// Next validates the required fields of the current step and advances by
// one step when they all pass. On failure the index is unchanged and the
// errors are kept for display. Next never leaves the terminal step; Submit
// is the exit from there.
func (c *Controller) Next() bool {
	if c.submitted || c.IsLast() {
		return false
	}
	res := Validate(c.Step().Required(), c.form)
	if !res.OK() {
		c.errors = res
		return false
	}
	c.errors = Result{}
	c.index++
	return true
}

// Back moves one step back without validating. It reports whether the
// index moved.
func (c *Controller) Back() bool {
	if c.submitted || c.index == 0 {
		return false
	}
	c.errors = Result{}
	c.index--
	return true
}

// Submit validates the required fields of every step. On success the
// session is marked submitted, the listener receives the snapshot exactly
// once and the submission is returned. Submit only acts at the terminal
// step and only once.
func (c *Controller) Submit() (Submission, bool) {
	if c.submitted || !c.IsLast() {
		return Submission{}, false
	}
	res := ValidateRequired(c.def, c.form)
	if !res.OK() {
		c.errors = res
		return Submission{}, false
	}
	c.errors = Result{}
	c.submitted = true

	sub := Submission{
		ID:          uuid.NewString(),
		Form:        c.def.ID,
		SubmittedAt: c.now().UTC(),
		Values:      c.form.Clone(),
	}
	if c.listener != nil {
		c.listener(sub)
	}
	return sub, true
}
