package form

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// loadFixture parses testdata/event.yaml into a fresh definition.
func loadFixture(t *testing.T) *FormDef {
	t.Helper()
	fd, err := LoadFormDef(filepath.Join("testdata", "event.yaml"))
	require.NoError(t, err)
	return fd
}

// validValues returns a complete, valid cash submission for the fixture.
func validValues(fd *FormDef) Values {
	v := NewValues(fd)
	v["fullName"] = "Rahim Uddin"
	v["session"] = "2022-23"
	v["roll"] = "23000001"
	v["phone"] = "01712345678"
	v["payment"] = "Cash"
	return v
}
