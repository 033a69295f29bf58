package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattlean/gridnik/pkg/kernel/sdfx"
)

func TestNewSDFX(t *testing.T) {
	for _, name := range []string{SDFX, ""} {
		k, err := New(name, 40)
		require.NoError(t, err)
		s, ok := k.(*sdfx.SdfxKernel)
		require.True(t, ok, "kernel %q should be sdfx", name)
		assert.Equal(t, 40, s.Cells())
	}
}

func TestNewUnknown(t *testing.T) {
	_, err := New("cgal", 0)
	assert.ErrorContains(t, err, "cgal")
}
