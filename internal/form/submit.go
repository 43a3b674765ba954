// internal/form/submit.go
//
// TechHub: Forms subsystem, submission adapter.
//
// Context
//   Submitter turns validated Values into exactly one outbound POST.  It
//   never retries and, in the default opaque mode, never learns whether the
//   sink accepted the data; success only means the request left without a
//   transport error.  Any failure is logged and collapsed to false so the
//   controller deals in a plain boolean outcome.
//
// Notes
//   Dispatch detaches from the caller’s cancellation.  A submission that has
//   started runs until the sink answers or forms.submit_timeout elapses, even
//   if the browser goes away.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/jkkniu-techhub/techhub/internal/logger"
	"github.com/jkkniu-techhub/techhub/internal/message"
	"github.com/jkkniu-techhub/techhub/internal/metrics"
)

// Dispatcher sends one submission and reports whether it left cleanly.
type Dispatcher interface {
	Dispatch(ctx context.Context, fd *FormDef, v Values) bool
}

// Poster is the transport Submitter needs.  *message.Sender satisfies it.
type Poster interface {
	Post(ctx context.Context, url, contentType string, body io.Reader, mode message.Mode) error
}

// Submitter is the production Dispatcher.
type Submitter struct {
	poster  Poster
	timeout time.Duration
}

var _ Dispatcher = (*Submitter)(nil)

// NewSubmitter returns a Submitter bounded by timeout per dispatch.  A zero
// timeout means no bound beyond the transport's own.
func NewSubmitter(p Poster, timeout time.Duration) *Submitter {
	return &Submitter{poster: p, timeout: timeout}
}

// Dispatch builds the payload for v and posts it once to fd.Endpoint.
func (s *Submitter) Dispatch(ctx context.Context, fd *FormDef, v Values) bool {
	// The sink returns no receipt, so the id only ties log lines together.
	log := logger.FromContext(ctx).With("form", fd.ID, "submission", uuid.NewString())

	ctx = context.WithoutCancel(ctx)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	payload := BuildPayload(fd, v)
	body, contentType, err := payload.Encode()
	if err != nil {
		log.Errorw("encode payload", "err", err)
		metrics.FormDispatchErrorsTotal.WithLabelValues(fd.ID).Inc()
		return false
	}

	start := time.Now()
	err = s.poster.Post(ctx, fd.Endpoint, contentType, body, fd.DeliveryMode())
	metrics.FormDispatchSeconds.WithLabelValues(fd.ID).Observe(time.Since(start).Seconds())
	if err != nil {
		log.Warnw("dispatch failed", "endpoint", fd.Endpoint, "err", err)
		metrics.FormDispatchErrorsTotal.WithLabelValues(fd.ID).Inc()
		return false
	}

	log.Infow("dispatched", "entries", len(payload), "mode", fd.DeliveryMode())
	return true
}
