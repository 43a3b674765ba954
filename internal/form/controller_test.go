package form

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDispatcher records calls and returns ok.  When gate is non-nil each
// call blocks on it after signalling started.
type fakeDispatcher struct {
	mu      sync.Mutex
	ok      bool
	calls   []Values
	started chan struct{}
	gate    chan struct{}
}

func (f *fakeDispatcher) Dispatch(_ context.Context, _ *FormDef, v Values) bool {
	f.mu.Lock()
	f.calls = append(f.calls, v)
	f.mu.Unlock()
	if f.gate != nil {
		f.started <- struct{}{}
		<-f.gate
	}
	return f.ok
}

func (f *fakeDispatcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func fill(t *testing.T, c *Controller, v Values) {
	t.Helper()
	for k, val := range v {
		require.NoError(t, c.Edit(k, val))
	}
}

func TestController_InvalidSubmitDoesNotDispatch(t *testing.T) {
	fd := loadFixture(t)
	d := &fakeDispatcher{ok: true}
	c := NewController(fd, d)

	out := c.Submit(context.Background())

	assert.Equal(t, ResultInvalid, out.Result)
	assert.Equal(t, fd.Messages.Invalid, out.Notice)
	assert.Contains(t, out.Errors, "fullName")
	assert.Zero(t, d.count())
	assert.Equal(t, StateEditing, c.State())
	assert.Equal(t, StatusIdle, c.Status())
}

func TestController_EditClearsOnlyThatField(t *testing.T) {
	fd := loadFixture(t)
	c := NewController(fd, &fakeDispatcher{})
	c.Submit(context.Background())

	before := c.Errors()
	require.Contains(t, before, "fullName")
	require.Contains(t, before, "roll")

	require.NoError(t, c.Edit("fullName", "x"))
	after := c.Errors()
	assert.NotContains(t, after, "fullName")
	delete(before, "fullName")
	assert.Equal(t, before, after)
}

func TestController_EditUnknownField(t *testing.T) {
	c := NewController(loadFixture(t), &fakeDispatcher{})
	err := c.Edit("nope", "x")
	assert.True(t, errors.Is(err, ErrUnknownField))
}

func TestController_SuccessResetsValues(t *testing.T) {
	fd := loadFixture(t)
	d := &fakeDispatcher{ok: true}
	c := NewController(fd, d)
	fill(t, c, validValues(fd))

	out := c.Submit(context.Background())

	require.Equal(t, ResultSubmitted, out.Result)
	assert.Equal(t, fd.Messages.Success, out.Notice)
	assert.Equal(t, NewValues(fd), out.Values)
	assert.Equal(t, NewValues(fd), c.Values())
	assert.Empty(t, c.Errors())
	assert.Equal(t, 1, d.count())
	assert.Equal(t, "Rahim Uddin", d.calls[0]["fullName"], "dispatch must see the values, not the reset")
	assert.Equal(t, StatusSettled, c.Status())
	assert.Equal(t, StateEditing, c.State())
}

func TestController_FailureKeepsValues(t *testing.T) {
	fd := loadFixture(t)
	d := &fakeDispatcher{ok: false}
	c := NewController(fd, d)
	want := validValues(fd)
	fill(t, c, want)

	out := c.Submit(context.Background())

	assert.Equal(t, ResultFailed, out.Result)
	assert.Equal(t, VariantDestructive, out.Notice.Variant)
	assert.Equal(t, want, c.Values())
	assert.Equal(t, 1, d.count())
	assert.Equal(t, StateEditing, c.State())
}

func TestController_BusyWhileInFlight(t *testing.T) {
	fd := loadFixture(t)
	d := &fakeDispatcher{ok: true, started: make(chan struct{}), gate: make(chan struct{})}
	c := NewController(fd, d)
	fill(t, c, validValues(fd))

	done := make(chan Outcome)
	go func() { done <- c.Submit(context.Background()) }()
	<-d.started

	assert.Equal(t, StateSubmitting, c.State())
	assert.Equal(t, StatusInFlight, c.Status())
	second := c.Submit(context.Background())
	assert.Equal(t, ResultBusy, second.Result)

	close(d.gate)
	first := <-done
	assert.Equal(t, ResultSubmitted, first.Result)
	assert.Equal(t, 1, d.count())
}

func TestController_RepeatAfterSettle(t *testing.T) {
	fd := loadFixture(t)
	d := &fakeDispatcher{ok: true}
	c := NewController(fd, d)

	fill(t, c, validValues(fd))
	require.Equal(t, ResultSubmitted, c.Submit(context.Background()).Result)
	fill(t, c, validValues(fd))
	require.Equal(t, ResultSubmitted, c.Submit(context.Background()).Result)
	assert.Equal(t, 2, d.count())
}
