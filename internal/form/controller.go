// internal/form/controller.go
//
// TechHub: Forms subsystem, per-instance controller.
//
// Context
//   A Controller owns the transient state of one form instance: current
//   values, current errors, where it is in the edit → validate → submit
//   cycle, and whether a dispatch is outstanding.  HTTP handlers create one
//   per POST, seed it from the body, and call Submit; tests drive it
//   directly.
//
// Workflow
//   •  Edit stores a value and clears that field’s error, and only that one.
//   •  Submit is a no-op returning ResultBusy while a dispatch is in flight.
//      Otherwise it validates; errors stop the flow with ResultInvalid and no
//      dispatch.  A clean form is dispatched once.  Success clears every
//      value, failure keeps them.  Either way the controller ends back in
//      StateEditing with the status settled.
//
// Notes
//   The mutex is released for the duration of Dispatch so Edit and the
//   read accessors stay responsive while the network call runs.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"sync"

	"github.com/jkkniu-techhub/techhub/internal/metrics"
)

// State is the controller’s position in the submit cycle.
type State int

const (
	StateEditing State = iota
	StateValidating
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	default:
		return "editing"
	}
}

// Status tracks the outstanding network call.
type Status int

const (
	StatusIdle Status = iota
	StatusInFlight
	StatusSettled
)

func (s Status) String() string {
	switch s {
	case StatusInFlight:
		return "in-flight"
	case StatusSettled:
		return "settled"
	default:
		return "idle"
	}
}

// Result names the outcome of one Submit call.
type Result string

const (
	ResultSubmitted Result = "submitted"
	ResultInvalid   Result = "invalid"
	ResultFailed    Result = "failed"
	ResultBusy      Result = "busy"
)

// Outcome is what the view needs after Submit: the notice to show, the
// inline errors, and the values to render.
type Outcome struct {
	Result Result
	Notice Notice
	Errors Errors
	Values Values
}

// Controller coordinates validation and dispatch for one form instance.
type Controller struct {
	fd *FormDef
	d  Dispatcher

	mu     sync.Mutex
	values Values
	errs   Errors
	state  State
	status Status
}

// NewController returns a controller with every field empty.
func NewController(fd *FormDef, d Dispatcher) *Controller {
	return &Controller{
		fd:     fd,
		d:      d,
		values: NewValues(fd),
		errs:   make(Errors),
	}
}

// Edit sets one field and clears its error.
func (c *Controller) Edit(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.values.Set(field, value); err != nil {
		return err
	}
	delete(c.errs, field)
	return nil
}

// Submit runs one submit attempt.  See the file comment for the rules.
func (c *Controller) Submit(ctx context.Context) Outcome {
	c.mu.Lock()
	if c.state == StateSubmitting {
		out := c.outcomeLocked(ResultBusy, Notice{})
		c.mu.Unlock()
		c.count(ResultBusy)
		return out
	}

	c.state = StateValidating
	c.errs = Validate(c.fd, c.values)
	if len(c.errs) > 0 {
		c.state = StateEditing
		out := c.outcomeLocked(ResultInvalid, c.fd.Messages.Invalid)
		c.mu.Unlock()
		c.count(ResultInvalid)
		return out
	}

	c.state = StateSubmitting
	c.status = StatusInFlight
	snapshot := c.values.Clone()
	c.mu.Unlock()

	ok := c.d.Dispatch(ctx, c.fd, snapshot)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = StatusSettled
	c.state = StateEditing

	result, notice := ResultFailed, c.fd.Messages.Failure
	if ok {
		result, notice = ResultSubmitted, c.fd.Messages.Success
		c.values.Clear()
		c.errs = make(Errors)
	}
	c.count(result)
	return c.outcomeLocked(result, notice)
}

// Values returns a copy of the current values.
func (c *Controller) Values() Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values.Clone()
}

// Errors returns a copy of the current errors.
func (c *Controller) Errors() Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(Errors, len(c.errs))
	for k, v := range c.errs {
		out[k] = v
	}
	return out
}

// State reports the current cycle position.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Status reports the dispatch status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Controller) outcomeLocked(r Result, n Notice) Outcome {
	errs := make(Errors, len(c.errs))
	for k, v := range c.errs {
		errs[k] = v
	}
	return Outcome{Result: r, Notice: n, Errors: errs, Values: c.values.Clone()}
}

func (c *Controller) count(r Result) {
	metrics.FormSubmissionsTotal.WithLabelValues(c.fd.ID, string(r)).Inc()
}
