// internal/form/payload.go
//
// Outbound payload for the external form-collection endpoint.
//
// The sink knows nothing about our field names.  Every field carries an
// opaque entry key (e.g. "entry.1613976863") and the payload is the ordered
// list of (entry key, value) pairs, encoded as multipart/form-data.

package form

import (
	"bytes"
	"fmt"
	"html"
	"mime/multipart"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict strips every tag from free-text fields marked sanitize.
var strict = bluemonday.StrictPolicy()

// Entry is one key/value pair in the outbound body.
type Entry struct {
	Key   string
	Value string
}

// Payload is the ordered list of entries for one submission.
type Payload []Entry

// BuildPayload maps v onto entry keys in declaration order.  A field is
// left out when its include_when condition is false, or when it is
// omit_empty and blank.
func BuildPayload(fd *FormDef, v Values) Payload {
	p := make(Payload, 0, len(fd.Fields))
	for i := range fd.Fields {
		f := &fd.Fields[i]
		if f.IncludeWhen != nil && !f.IncludeWhen.Holds(v) {
			continue
		}
		val := strings.TrimSpace(v[f.Name])
		if f.OmitEmpty && val == "" {
			continue
		}
		if f.Sanitize {
			val = html.UnescapeString(strict.Sanitize(val))
		}
		p = append(p, Entry{Key: f.Entry, Value: val})
	}
	return p
}

// Keys lists the entry keys in order.
func (p Payload) Keys() []string {
	out := make([]string, len(p))
	for i, e := range p {
		out[i] = e.Key
	}
	return out
}

// Get returns the value for key.
func (p Payload) Get(key string) (string, bool) {
	for _, e := range p {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Encode writes p as a multipart/form-data body.  The returned content type
// carries the boundary.
func (p Payload) Encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, e := range p {
		if err := mw.WriteField(e.Key, e.Value); err != nil {
			return nil, "", fmt.Errorf("encode %s: %w", e.Key, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}
