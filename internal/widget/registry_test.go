package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stub struct{ id, html string }

func (s stub) ID() string { return s.id }
func (s stub) Render(any, map[string]any) (string, int, error) {
	return s.html, 0, nil
}

func TestRegistry(t *testing.T) {
	assert.Nil(t, Lookup("test/missing"))

	Register(stub{id: "test/b", html: "old"})
	Register(stub{id: "test/a"})
	Register(stub{id: "test/b", html: "new"})

	got, _, err := Lookup("test/b").Render(nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, "new", got)
	assert.Subset(t, IDs(), []string{"test/a", "test/b"})
}
