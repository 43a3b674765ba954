// internal/message/message.go
//
// TechHub: outbound delivery to third-party form sinks.
//
// Context
//   The forms subsystem hands a fully encoded request body to Sender.Post.
//   Exactly one HTTP attempt is made per call; there is no queue and no
//   retry.  Two delivery modes exist:
//
//   •  ModeOpaque:  fire-and-forget.  The response body is drained and
//      discarded and the status is never looked at, mirroring a browser
//      “no-cors” request.  Only transport errors are reported.
//   •  ModeInspect:  response-aware.  Any status outside 2xx/3xx is
//      reported as *StatusError.
//
// Style
//   Two-space sentence spacing, Oxford comma, concise inline notes.
//
//------------------------------------------------------------------------------

package message

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
)

// Mode selects how much of the response Post looks at.
type Mode string

const (
	ModeOpaque  Mode = "opaque"
	ModeInspect Mode = "inspect"
)

// drainLimit caps how much of an uninspected body we read before closing.
const drainLimit = 64 << 10

// StatusError is returned in ModeInspect when the sink answers with a
// non-success status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sink %s answered %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Sender posts encoded bodies.  Safe for concurrent use.
type Sender struct {
	client *http.Client
}

// NewSender wraps client.  A nil client gets a pooled cleanhttp client,
// which carries no shared global state.
func NewSender(client *http.Client) *Sender {
	if client == nil {
		client = cleanhttp.DefaultPooledClient()
	}
	return &Sender{client: client}
}

// Post performs one POST of body to url.  ctx bounds the attempt.
func (s *Sender) Post(ctx context.Context, url, contentType string, body io.Reader, mode Mode) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))

	if mode == ModeInspect && resp.StatusCode >= http.StatusBadRequest {
		return &StatusError{URL: url, Code: resp.StatusCode}
	}
	return nil
}
